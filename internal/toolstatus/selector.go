package toolstatus

import "fmt"

// DefaultInstalledSuffix is appended to the display text of the installed option.
const DefaultInstalledSuffix = " (installed)"

// NotInstalledLabel is the display text of the not-installed sentinel.
const NotInstalledLabel = "(not installed)"

// OptionState is the decoration of a version option. An option holds
// exactly one state, so it can never be both installed and not-installed.
type OptionState int

const (
	OptionPlain OptionState = iota
	OptionNotInstalled
	OptionInstalled
)

func (s OptionState) String() string {
	switch s {
	case OptionNotInstalled:
		return "not-installed"
	case OptionInstalled:
		return "installed"
	default:
		return "plain"
	}
}

// Option is one entry of a version selector.
type Option struct {
	Value string
	Label string
	State OptionState
}

// Text returns the display text of the option.
func (o Option) Text(installedSuffix string) string {
	if o.State == OptionInstalled {
		return o.Label + installedSuffix
	}
	return o.Label
}

// Selector is the version select control of a widget. Target names the
// tool whose deploy button the selection gates.
type Selector struct {
	Target   string
	Options  []Option
	Selected int
}

// NewSelector builds a selector. When installed is empty a not-installed
// sentinel is prepended and selected; otherwise the matching option is
// marked installed and selected unless selected names another option.
func NewSelector(target string, versions []Option, installed, selected string) *Selector {
	sel := &Selector{Target: target}
	if installed == "" {
		sel.Options = append(sel.Options, Option{Label: NotInstalledLabel, State: OptionNotInstalled})
	}
	for _, v := range versions {
		opt := Option{Value: v.Value, Label: v.Label}
		if opt.Label == "" {
			opt.Label = v.Value
		}
		if installed != "" && v.Value == installed {
			opt.State = OptionInstalled
		}
		sel.Options = append(sel.Options, opt)
	}

	switch {
	case selected != "" && sel.indexOf(selected) >= 0:
		sel.Selected = sel.indexOf(selected)
	case installed != "" && sel.indexOf(installed) >= 0:
		sel.Selected = sel.indexOf(installed)
	default:
		sel.Selected = 0
	}
	return sel
}

// SelectedOption returns the currently selected option.
func (s *Selector) SelectedOption() (Option, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Options) {
		return Option{}, false
	}
	return s.Options[s.Selected], true
}

// Select makes the option with the given value the selected one.
func (s *Selector) Select(value string) error {
	idx := s.indexOf(value)
	if idx < 0 {
		return fmt.Errorf("%w: %q for %s", ErrUnknownVersion, value, s.Target)
	}
	s.Selected = idx
	return nil
}

// Step moves the selection by delta, clamped to the option list. It
// reports whether the selection changed.
func (s *Selector) Step(delta int) bool {
	if len(s.Options) == 0 {
		return false
	}
	next := s.Selected + delta
	if next < 0 {
		next = 0
	}
	if next >= len(s.Options) {
		next = len(s.Options) - 1
	}
	if next == s.Selected {
		return false
	}
	s.Selected = next
	return true
}

// Installed returns the option currently marked installed.
func (s *Selector) Installed() (Option, bool) {
	for _, opt := range s.Options {
		if opt.State == OptionInstalled {
			return opt, true
		}
	}
	return Option{}, false
}

func (s *Selector) indexOf(value string) int {
	for i, opt := range s.Options {
		if opt.State != OptionNotInstalled && opt.Value == value {
			return i
		}
	}
	return -1
}

// removeNotInstalled drops the sentinel and keeps the selection pointing
// at the same option, or at the first option if the sentinel was selected.
func (s *Selector) removeNotInstalled() bool {
	for i, opt := range s.Options {
		if opt.State != OptionNotInstalled {
			continue
		}
		s.Options = append(s.Options[:i], s.Options[i+1:]...)
		switch {
		case s.Selected == i:
			s.Selected = 0
		case s.Selected > i:
			s.Selected--
		}
		return true
	}
	return false
}

// markInstalled clears the installed marker from every other option and
// sets it on value. It reports whether an option matched.
func (s *Selector) markInstalled(value string) bool {
	for i := range s.Options {
		if s.Options[i].State == OptionInstalled && s.Options[i].Value != value {
			s.Options[i].State = OptionPlain
		}
	}
	idx := s.indexOf(value)
	if idx < 0 {
		return false
	}
	s.Options[idx].State = OptionInstalled
	return true
}

func (s *Selector) clone() *Selector {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Options = append([]Option(nil), s.Options...)
	return &cp
}
