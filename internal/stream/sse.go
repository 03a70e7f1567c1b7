package stream

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Event is one server-sent event.
type Event struct {
	ID   string
	Name string
	Data []byte
}

const defaultEventName = "message"

// Decoder reads server-sent events from a text/event-stream body.
//
// Parsing state survives io.EOF: a reader that grows later (a followed
// file) picks up mid-line and mid-frame where the previous call stopped.
// An unterminated frame is never delivered.
type Decoder struct {
	reader  *bufio.Reader
	partial string

	id      string
	name    string
	data    strings.Builder
	hasData bool
}

// NewDecoder wraps r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{reader: bufio.NewReader(r)}
}

// Next returns the next complete event. Frames without data lines are
// skipped.
func (d *Decoder) Next() (Event, error) {
	for {
		chunk, err := d.reader.ReadString('\n')
		if err != nil {
			d.partial += chunk
			return Event{}, err
		}
		line := strings.TrimRight(d.partial+chunk, "\r\n")
		d.partial = ""

		if ev, ok := d.processLine(line); ok {
			return ev, nil
		}
	}
}

func (d *Decoder) processLine(line string) (Event, bool) {
	switch {
	case line == "":
		if !d.hasData {
			d.reset()
			return Event{}, false
		}
		ev := Event{ID: d.id, Name: d.name, Data: []byte(d.data.String())}
		if ev.Name == "" {
			ev.Name = defaultEventName
		}
		d.reset()
		return ev, true
	case strings.HasPrefix(line, ":"):
		// comment or keep-alive
		return Event{}, false
	}

	field, value := line, ""
	if idx := strings.IndexByte(line, ':'); idx >= 0 {
		field = line[:idx]
		value = strings.TrimPrefix(line[idx+1:], " ")
	}
	switch field {
	case "id":
		d.id = value
	case "event":
		d.name = value
	case "data":
		if d.hasData {
			d.data.WriteByte('\n')
		}
		d.data.WriteString(value)
		d.hasData = true
	}
	return Event{}, false
}

func (d *Decoder) reset() {
	d.id, d.name = "", ""
	d.data.Reset()
	d.hasData = false
}

// Encode writes ev as one event-stream frame.
func Encode(w io.Writer, ev Event) error {
	var b strings.Builder
	if ev.ID != "" {
		fmt.Fprintf(&b, "id: %s\n", ev.ID)
	}
	if ev.Name != "" && ev.Name != defaultEventName {
		fmt.Fprintf(&b, "event: %s\n", ev.Name)
	}
	for _, line := range strings.Split(string(ev.Data), "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}
