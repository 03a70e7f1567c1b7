package stream

import (
	"context"
	"errors"
)

// Source produces stream events. Stream blocks, calling emit once per event
// in arrival order, and returns nil when the stream ends or ctx is
// cancelled. There is no reconnect: a dropped connection ends the stream.
type Source interface {
	Stream(ctx context.Context, emit func(Event)) error
	Describe() string
}

// finish maps cancellation to a clean end of stream.
func finish(ctx context.Context, err error) error {
	if err == nil || ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
