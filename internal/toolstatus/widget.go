package toolstatus

// Button is an action button of a widget.
type Button struct {
	Action   Action
	Disabled bool
}

// Widget is the panel entry for one tool.
type Widget struct {
	Tool     string
	Title    string
	URL      string
	Label    string
	Buttons  []*Button
	Selector *Selector
}

// NewWidget builds a widget with one button per action. Buttons start
// disabled until the first status event enables them.
func NewWidget(tool, label string, actions []Action, sel *Selector) *Widget {
	w := &Widget{
		Tool:     tool,
		Title:    tool,
		Label:    label,
		Selector: sel,
	}
	for _, a := range actions {
		w.Buttons = append(w.Buttons, &Button{Action: a, Disabled: true})
	}
	return w
}

// Button returns the widget's button for a, if any.
func (w *Widget) Button(a Action) (*Button, bool) {
	for _, b := range w.Buttons {
		if b.Action == a {
			return b, true
		}
	}
	return nil, false
}

// Enabled reports whether the widget has an enabled button for a.
func (w *Widget) Enabled(a Action) bool {
	b, ok := w.Button(a)
	return ok && !b.Disabled
}

// EnabledActions returns the set of actions whose buttons are enabled.
func (w *Widget) EnabledActions() ActionSet {
	var set ActionSet
	for _, b := range w.Buttons {
		if !b.Disabled {
			set |= b.Action.bit()
		}
	}
	return set
}

func (w *Widget) showActions(set ActionSet) {
	for _, b := range w.Buttons {
		b.Disabled = !set.Has(b.Action)
	}
}

// Snapshot returns a deep copy safe to hand to another goroutine.
func (w *Widget) Snapshot() Widget {
	cp := *w
	cp.Buttons = make([]*Button, len(w.Buttons))
	for i, b := range w.Buttons {
		bb := *b
		cp.Buttons[i] = &bb
	}
	cp.Selector = w.Selector.clone()
	return cp
}
