package toolstatus

import "strings"

// Status is the server-reported lifecycle phase of a tool.
type Status int

const (
	// StatusUnknown covers every status string without a defined
	// transition. Applying it updates the label only.
	StatusUnknown Status = iota
	StatusNotDeployed
	StatusDeploying
	StatusReady
	StatusIdled
	StatusFailed
)

var statusNames = map[Status]string{
	StatusUnknown:     "UNKNOWN",
	StatusNotDeployed: "NOT DEPLOYED",
	StatusDeploying:   "DEPLOYING",
	StatusReady:       "READY",
	StatusIdled:       "IDLED",
	StatusFailed:      "FAILED",
}

var statusActions = map[Status]ActionSet{
	StatusNotDeployed: NewActionSet(ActionDeploy),
	StatusDeploying:   NewActionSet(),
	StatusReady:       NewActionSet(ActionDeploy, ActionOpen, ActionRestart, ActionRemove),
	StatusIdled:       NewActionSet(ActionDeploy, ActionOpen, ActionRestart, ActionRemove),
	StatusFailed:      NewActionSet(ActionDeploy, ActionRestart, ActionRemove),
}

// ParseStatus maps a raw status string to a Status. Matching is
// case-insensitive; anything unrecognised is StatusUnknown.
func ParseStatus(raw string) Status {
	upper := strings.ToUpper(raw)
	for status, name := range statusNames {
		if status != StatusUnknown && name == upper {
			return status
		}
	}
	return StatusUnknown
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[StatusUnknown]
}

// Actions returns the enabled action set for s. ok is false for
// StatusUnknown, in which case the current action state must be left alone.
func (s Status) Actions() (set ActionSet, ok bool) {
	set, ok = statusActions[s]
	return set, ok
}

// ReportsVersion reports whether events with this status carry the
// installed version and trigger selector reconciliation.
func (s Status) ReportsVersion() bool {
	return s == StatusReady || s == StatusIdled
}
