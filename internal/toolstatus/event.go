package toolstatus

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// DefaultEventType is the stream event name that carries status events.
const DefaultEventType = "toolStatus"

// Event is a decoded status event.
type Event struct {
	ToolName string `json:"toolName"`
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
}

// DecodeEvent parses a JSON status payload. Unknown fields are ignored.
// toolName and status must be strings; version may be a string or a number
// and is empty when absent. Numbers are written in their shortest form, so
// 2.10 and 2.1e0 both read as "2.1".
func DecodeEvent(data []byte) (Event, error) {
	if !gjson.ValidBytes(data) {
		return Event{}, fmt.Errorf("%w: invalid json", errMalformedEvent)
	}
	fields := gjson.GetManyBytes(data, "toolName", "status", "version")
	tool, status, version := fields[0], fields[1], fields[2]

	if tool.Type != gjson.String {
		return Event{}, fmt.Errorf("%w: toolName missing", errMalformedEvent)
	}
	if status.Type != gjson.String {
		return Event{}, fmt.Errorf("%w: status missing", errMalformedEvent)
	}

	ev := Event{ToolName: tool.Str, Status: status.Str}
	switch version.Type {
	case gjson.String:
		ev.Version = version.Str
	case gjson.Number:
		ev.Version = strconv.FormatFloat(version.Num, 'f', -1, 64)
	}
	return ev, nil
}
