package stream

import (
	"context"
	"errors"
	"io"
)

const readChunkSize = 4096

// Reader pulls deltas from an SSE body one at a time.
type Reader struct {
	src     io.Reader
	asm     *Assembler
	chunk   []byte
	pending []string
}

// NewReader wraps src with a fresh Assembler.
func NewReader(src io.Reader) *Reader {
	return &Reader{
		src:   src,
		asm:   NewAssembler(),
		chunk: make([]byte, readChunkSize),
	}
}

// Next returns the next delta. It returns io.EOF once the terminator has been
// seen or the source is exhausted and every decoded delta has been returned.
// The context is checked before each read; cancelling a read that is already
// blocked is up to the source (an HTTP body bound to the same context).
func (r *Reader) Next(ctx context.Context) (string, error) {
	for {
		if len(r.pending) > 0 {
			d := r.pending[0]
			r.pending = r.pending[1:]
			return d, nil
		}
		if r.asm.State() == Done {
			return "", io.EOF
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}

		n, err := r.src.Read(r.chunk)
		if n > 0 {
			r.pending = r.asm.Feed(r.chunk[:n])
		}
		if errors.Is(err, io.EOF) {
			r.asm.Finish()
			continue
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			return "", err
		}
	}
}

// Text returns everything decoded so far.
func (r *Reader) Text() string { return r.asm.Text() }

// Assembler exposes the underlying state machine.
func (r *Reader) Assembler() *Assembler { return r.asm }
