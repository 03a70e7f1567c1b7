package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"toolpanel/internal/toolstatus"
)

// WidgetRecord is the JSON form of a widget's state.
type WidgetRecord struct {
	Outcome   string   `json:"outcome,omitempty"`
	Tool      string   `json:"tool"`
	Label     string   `json:"label"`
	Actions   []string `json:"actions"`
	Selected  string   `json:"selected,omitempty"`
	Installed string   `json:"installed,omitempty"`
	Deploy    bool     `json:"deploy_enabled"`
}

// LineReporter writes one line per handled event for non-interactive
// modes. The caller owns the reconciler; the reporter only reads widgets.
type LineReporter struct {
	w      io.Writer
	mode   OutputMode
	suffix string
	now    func() time.Time
}

// NewLineReporter returns a reporter for ModePlain or ModeJSON output.
func NewLineReporter(w io.Writer, mode OutputMode, installedSuffix string) *LineReporter {
	if installedSuffix == "" {
		installedSuffix = toolstatus.DefaultInstalledSuffix
	}
	return &LineReporter{w: w, mode: mode, suffix: installedSuffix, now: time.Now}
}

// Snapshot writes the current state of every widget.
func (r *LineReporter) Snapshot(reg *toolstatus.Registry) error {
	for _, w := range reg.Widgets() {
		if err := r.write("", w); err != nil {
			return err
		}
	}
	return nil
}

// Report writes the effect of one handled event. Events for other stream
// names are skipped.
func (r *LineReporter) Report(res toolstatus.Result, reg *toolstatus.Registry) error {
	switch res.Outcome {
	case toolstatus.OutcomeIgnored:
		return nil
	case toolstatus.OutcomeDropped:
		return r.note(res, "dropped malformed status event")
	case toolstatus.OutcomeUnmatched:
		return r.note(res, fmt.Sprintf("no widget for tool %q", res.Event.ToolName))
	}
	w, ok := reg.Widget(res.Event.ToolName)
	if !ok {
		return nil
	}
	return r.write(res.Outcome.String(), w)
}

func (r *LineReporter) note(res toolstatus.Result, text string) error {
	if r.mode == ModeJSON {
		return json.NewEncoder(r.w).Encode(map[string]string{
			"outcome": res.Outcome.String(),
			"tool":    res.Event.ToolName,
		})
	}
	_, err := fmt.Fprintf(r.w, "%s %s\n", r.now().Format("15:04:05"), text)
	return err
}

func (r *LineReporter) write(outcome string, w *toolstatus.Widget) error {
	rec := r.record(outcome, w)
	if r.mode == ModeJSON {
		return json.NewEncoder(r.w).Encode(rec)
	}

	version := "-"
	if w.Selector != nil {
		if opt, ok := w.Selector.SelectedOption(); ok {
			version = opt.Text(r.suffix)
		}
	}
	_, err := fmt.Fprintf(r.w, "%s %-18s %-14s actions=%s version=%s\n",
		r.now().Format("15:04:05"),
		TruncateWithEllipsis(w.Tool, 18),
		NonEmptyOrDash(w.Label),
		w.EnabledActions(),
		version,
	)
	return err
}

func (r *LineReporter) record(outcome string, w *toolstatus.Widget) WidgetRecord {
	rec := WidgetRecord{
		Outcome: outcome,
		Tool:    w.Tool,
		Label:   w.Label,
		Actions: []string{},
		Deploy:  w.Enabled(toolstatus.ActionDeploy),
	}
	for _, a := range w.EnabledActions().Actions() {
		rec.Actions = append(rec.Actions, string(a))
	}
	if w.Selector != nil {
		if opt, ok := w.Selector.SelectedOption(); ok {
			rec.Selected = opt.Value
		}
		if opt, ok := w.Selector.Installed(); ok {
			rec.Installed = opt.Value
		}
	}
	return rec
}
