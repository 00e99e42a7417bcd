package stream

import (
	"context"
	"errors"
	"io"
)

// Pump drives r into turn until the stream ends. onDelta, when set, sees every
// delta after it has been merged. On a read error, a cancelled context or an
// onDelta error the turn is rolled back and the error returned. On a clean end
// the turn is left open for the caller to commit.
func Pump(ctx context.Context, r *Reader, turn *Turn, onDelta func(string) error) error {
	for {
		delta, err := r.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			turn.Rollback()
			return err
		}
		turn.Append(delta)
		if onDelta != nil {
			if err := onDelta(delta); err != nil {
				turn.Rollback()
				return err
			}
		}
	}
}
