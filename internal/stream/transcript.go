package stream

import (
	"strings"
	"sync"
	"time"

	"udyami/internal/domain"
)

// Transcript is the ordered message list of one conversation. Reads may
// happen while a Turn is streaming into it.
type Transcript struct {
	mu       sync.RWMutex
	messages []domain.ChatMessage
	now      func() time.Time
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{now: func() time.Time { return time.Now().UTC() }}
}

// Messages returns a copy of the current messages.
func (t *Transcript) Messages() []domain.ChatMessage {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]domain.ChatMessage, len(t.messages))
	copy(out, t.messages)
	return out
}

// Recent returns a copy of at most the last n messages. n <= 0 means all.
func (t *Transcript) Recent(n int) []domain.ChatMessage {
	msgs := t.Messages()
	if n > 0 && len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	return msgs
}

// Len reports the number of messages.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Begin appends the user message and opens a turn for the assistant reply.
func (t *Transcript) Begin(userContent string) *Turn {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, domain.ChatMessage{
		Role:      domain.RoleUser,
		Content:   userContent,
		CreatedAt: t.now(),
	})
	return &Turn{t: t, assistant: -1}
}

// Turn accumulates one assistant reply. At most one Turn per Transcript may
// be open at a time.
type Turn struct {
	t         *Transcript
	assistant int
	text      strings.Builder
	deltas    int
	closed    bool
}

// Append merges delta into the assistant message. The first delta creates
// the message; later ones extend its content.
func (u *Turn) Append(delta string) {
	if delta == "" {
		return
	}
	u.t.mu.Lock()
	defer u.t.mu.Unlock()
	if u.closed {
		return
	}
	u.text.WriteString(delta)
	u.deltas++
	if u.assistant < 0 {
		u.t.messages = append(u.t.messages, domain.ChatMessage{
			Role:      domain.RoleAssistant,
			Content:   delta,
			CreatedAt: u.t.now(),
		})
		u.assistant = len(u.t.messages) - 1
		return
	}
	u.t.messages[u.assistant].Content = u.text.String()
}

// Commit closes the turn and returns the assistant message. It reports false
// when no delta arrived, in which case no assistant message exists.
func (u *Turn) Commit() (domain.ChatMessage, bool) {
	u.t.mu.Lock()
	defer u.t.mu.Unlock()
	u.closed = true
	if u.assistant < 0 {
		return domain.ChatMessage{}, false
	}
	return u.t.messages[u.assistant], true
}

// Rollback closes the turn and removes the partial assistant message. The
// user message stays.
func (u *Turn) Rollback() {
	u.t.mu.Lock()
	defer u.t.mu.Unlock()
	if u.closed {
		return
	}
	u.closed = true
	if u.assistant >= 0 && u.assistant < len(u.t.messages) {
		u.t.messages = append(u.t.messages[:u.assistant], u.t.messages[u.assistant+1:]...)
		u.assistant = -1
	}
}

// Text returns the reply accumulated so far.
func (u *Turn) Text() string {
	u.t.mu.RLock()
	defer u.t.mu.RUnlock()
	return u.text.String()
}

// Deltas reports how many deltas were appended.
func (u *Turn) Deltas() int {
	u.t.mu.RLock()
	defer u.t.mu.RUnlock()
	return u.deltas
}
