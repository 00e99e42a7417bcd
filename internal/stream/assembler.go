// Package stream turns a server-sent "data: <json>" line stream from a chat
// completion endpoint into ordered text deltas and merges them into a
// conversation transcript.
package stream

import (
	"bytes"
	"encoding/json"
	"strings"
)

// State is the assembler lifecycle position.
type State int

const (
	// Streaming means the assembler is waiting for more bytes.
	Streaming State = iota
	// Draining means a chunk is being split into lines and decoded.
	Draining
	// Done means the terminator was seen or the source is exhausted.
	Done
)

func (s State) String() string {
	switch s {
	case Streaming:
		return "streaming"
	case Draining:
		return "draining"
	case Done:
		return "done"
	}
	return "unknown"
}

const (
	dataPrefix = "data: "
	doneToken  = "[DONE]"
)

type frame struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Assembler decodes one assistant reply. It is not safe for concurrent use;
// each stream owns its own Assembler.
type Assembler struct {
	buf    []byte
	state  State
	text   strings.Builder
	deltas int
}

// NewAssembler returns an assembler in the Streaming state.
func NewAssembler() *Assembler {
	return &Assembler{state: Streaming}
}

// Feed appends chunk to the internal buffer, processes every complete line
// and returns the deltas decoded from them in order. A trailing partial line
// stays buffered until a later chunk completes it. Nothing is processed once
// the assembler is Done.
func (a *Assembler) Feed(chunk []byte) []string {
	if a.state == Done {
		return nil
	}
	a.buf = append(a.buf, chunk...)
	a.state = Draining

	var out []string
	for {
		i := bytes.IndexByte(a.buf, '\n')
		if i < 0 {
			break
		}
		line := string(bytes.TrimSuffix(a.buf[:i], []byte("\r")))
		a.buf = a.buf[i+1:]

		if line == "" || strings.HasPrefix(line, ":") || !strings.HasPrefix(line, dataPrefix) {
			continue
		}

		payload := strings.TrimSpace(line[len(dataPrefix):])
		if payload == doneToken {
			a.state = Done
			a.buf = nil
			return out
		}

		if !json.Valid([]byte(payload)) {
			// Assume the frame was cut mid-payload: put the line back and wait
			// for more bytes. A line that is simply invalid stays stuck here
			// until Finish drops it.
			a.buf = append([]byte(line+"\n"), a.buf...)
			break
		}

		// Well-formed JSON of another shape carries no delta.
		var f frame
		if err := json.Unmarshal([]byte(payload), &f); err != nil {
			continue
		}

		if len(f.Choices) > 0 && f.Choices[0].Delta.Content != "" {
			delta := f.Choices[0].Delta.Content
			a.text.WriteString(delta)
			a.deltas++
			out = append(out, delta)
		}
	}

	a.state = Streaming
	return out
}

// Finish marks the source as exhausted. Buffered text that never formed a
// decodable line is dropped.
func (a *Assembler) Finish() {
	a.state = Done
	a.buf = nil
}

// State reports the current lifecycle state.
func (a *Assembler) State() State { return a.state }

// Text returns all deltas concatenated in arrival order.
func (a *Assembler) Text() string { return a.text.String() }

// Deltas reports how many non-empty deltas have been decoded.
func (a *Assembler) Deltas() int { return a.deltas }

// Buffered reports how many bytes are held awaiting a line terminator.
func (a *Assembler) Buffered() int { return len(a.buf) }
