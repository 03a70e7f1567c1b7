package toolstatus

import "errors"

var (
	// ErrDeployButtonMissing means a selector targets a tool whose widget has
	// no deploy button. The configuration and the registry disagree; callers
	// should treat it as fatal.
	ErrDeployButtonMissing = errors.New("deploy button missing")

	ErrUnknownTool    = errors.New("unknown tool")
	ErrUnknownVersion = errors.New("unknown version")
	ErrUnknownAction  = errors.New("unknown action")
	ErrDuplicateTool  = errors.New("duplicate tool")
	ErrNoSelector     = errors.New("tool has no version selector")

	errMalformedEvent = errors.New("malformed status event")
)
