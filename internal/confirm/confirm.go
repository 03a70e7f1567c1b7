package confirm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"toolpanel/internal/toolstatus"
)

// DefaultMessage is shown when no confirm message is configured.
const DefaultMessage = "Are you sure?"

// Prompt is the question asked before a guarded action runs.
type Prompt struct {
	Title   string
	Message string
}

// Guard asks for approval before a guarded action proceeds.
type Guard interface {
	Confirm(p Prompt) (bool, error)
}

// Always answers every prompt with the same decision. Useful for --yes and tests.
type Always bool

// Confirm returns the fixed decision.
func (a Always) Confirm(Prompt) (bool, error) {
	return bool(a), nil
}

// Terminal asks with an interactive huh confirm form.
type Terminal struct {
	// Run replaces the huh form when set; tests use it.
	Run func(p Prompt, ok *bool) error
}

// Confirm blocks until the user answers. Aborting the form is a "no";
// any other form failure is returned.
func (t Terminal) Confirm(p Prompt) (bool, error) {
	var ok bool
	err := t.run(p, &ok)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("confirm prompt: %w", err)
	}
	return ok, nil
}

func (t Terminal) run(p Prompt, ok *bool) error {
	if t.Run != nil {
		return t.Run(p, ok)
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(p.Title).
				Description(p.Message).
				Value(ok).
				Affirmative("Yes").
				Negative("No"),
		),
	).WithShowHelp(false)
	return form.Run()
}

// Policy decides which actions are guarded and what is asked.
type Policy struct {
	Guarded toolstatus.ActionSet
	Message string
}

// NewPolicy builds a policy from action names. Unknown names are ignored.
func NewPolicy(actions []string, message string) Policy {
	var guarded []toolstatus.Action
	for _, name := range actions {
		if a, err := toolstatus.ParseAction(name); err == nil {
			guarded = append(guarded, a)
		}
	}
	return Policy{Guarded: toolstatus.NewActionSet(guarded...), Message: message}
}

// Prompt returns the question for running action on tool and whether the
// action needs confirmation at all.
func (p Policy) Prompt(tool string, action toolstatus.Action) (Prompt, bool) {
	if !p.Guarded.Has(action) {
		return Prompt{}, false
	}
	msg := strings.TrimSpace(p.Message)
	if msg == "" {
		msg = DefaultMessage
	}
	verb := string(action)
	if verb != "" {
		verb = strings.ToUpper(verb[:1]) + verb[1:]
	}
	return Prompt{Title: fmt.Sprintf("%s %s?", verb, tool), Message: msg}, true
}

// Check asks guard when the policy requires it. Unguarded actions are
// approved without asking.
func (p Policy) Check(guard Guard, tool string, action toolstatus.Action) (bool, error) {
	prompt, needed := p.Prompt(tool, action)
	if !needed {
		return true, nil
	}
	return guard.Confirm(prompt)
}
