package toolstatus

import (
	"fmt"
	"strings"
)

// Action is a user-triggerable operation on a tool.
type Action string

const (
	ActionDeploy  Action = "deploy"
	ActionOpen    Action = "open"
	ActionRestart Action = "restart"
	ActionRemove  Action = "remove"
)

// AllActions lists the action vocabulary in display order.
var AllActions = []Action{ActionDeploy, ActionOpen, ActionRestart, ActionRemove}

// ParseAction resolves an action name case-insensitively.
func ParseAction(name string) (Action, error) {
	candidate := Action(strings.ToLower(strings.TrimSpace(name)))
	for _, a := range AllActions {
		if a == candidate {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

func (a Action) bit() ActionSet {
	switch a {
	case ActionDeploy:
		return 1 << 0
	case ActionOpen:
		return 1 << 1
	case ActionRestart:
		return 1 << 2
	case ActionRemove:
		return 1 << 3
	}
	return 0
}

// ActionSet is the set of actions enabled for a status.
type ActionSet uint8

// NewActionSet builds a set from the given actions. Unknown actions are ignored.
func NewActionSet(actions ...Action) ActionSet {
	var s ActionSet
	for _, a := range actions {
		s |= a.bit()
	}
	return s
}

// Has reports whether a is a member of the set.
func (s ActionSet) Has(a Action) bool {
	bit := a.bit()
	return bit != 0 && s&bit != 0
}

// Actions returns the members in display order.
func (s ActionSet) Actions() []Action {
	out := make([]Action, 0, len(AllActions))
	for _, a := range AllActions {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s ActionSet) String() string {
	actions := s.Actions()
	if len(actions) == 0 {
		return "(none)"
	}
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = string(a)
	}
	return strings.Join(parts, ",")
}
