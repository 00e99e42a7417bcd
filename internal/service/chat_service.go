package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"udyami/internal/domain"
	"udyami/internal/extract"
	"udyami/internal/port"
	"udyami/internal/stream"
)

// ChatOptions bounds chat session state.
type ChatOptions struct {
	MaxSessions    int
	HistoryLimit   int
	MaxMessageSize int
}

// SendMessageInput is the DTO for sending one user message.
type SendMessageInput struct {
	SessionID uuid.UUID
	Content   string
	// Context overrides the dashboard counts sent to the assistant. When nil
	// the counts are read from the document store.
	Context *port.ChatContext
	// OnDelta, when set, receives every streamed delta in order.
	OnDelta func(delta string) error
}

// ChatReply is the committed assistant message plus any record recognized in it.
type ChatReply struct {
	Message   domain.ChatMessage  `json:"message"`
	Kind      domain.DocumentKind `json:"type,omitempty"`
	Document  *domain.Document    `json:"document,omitempty"`
	SaveError string              `json:"save_error,omitempty"`
}

// ChatSessionView is a snapshot of a session.
type ChatSessionView struct {
	ID        uuid.UUID            `json:"id"`
	CreatedAt time.Time            `json:"created_at"`
	Busy      bool                 `json:"busy"`
	Messages  []domain.ChatMessage `json:"messages"`
}

// ChatService manages in-memory chat sessions and streams assistant replies.
type ChatService interface {
	CreateSession(ctx context.Context) (*ChatSessionView, error)
	GetSession(ctx context.Context, id uuid.UUID) (*ChatSessionView, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	Send(ctx context.Context, input *SendMessageInput) (*ChatReply, error)
}

type chatSession struct {
	id         uuid.UUID
	createdAt  time.Time
	transcript *stream.Transcript

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *chatSession) view() *ChatSessionView {
	s.mu.Lock()
	busy := s.done != nil
	s.mu.Unlock()
	return &ChatSessionView{
		ID:        s.id,
		CreatedAt: s.createdAt,
		Busy:      busy,
		Messages:  s.transcript.Messages(),
	}
}

// acquire cancels any in-flight send, waits for it to unwind and claims the
// session. The returned release must be called when the send finishes.
func (s *chatSession) acquire(ctx context.Context) (context.Context, func(), error) {
	s.mu.Lock()
	for s.done != nil {
		s.cancel()
		done := s.done
		s.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
		s.mu.Lock()
	}

	sendCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel, s.done = cancel, done
	s.mu.Unlock()

	release := func() {
		cancel()
		s.mu.Lock()
		if s.done == done {
			s.cancel, s.done = nil, nil
		}
		s.mu.Unlock()
		close(done)
	}
	return sendCtx, release, nil
}

// interrupt cancels any in-flight send without waiting.
func (s *chatSession) interrupt() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
}

type chatService struct {
	gateway   port.ChatGateway
	docs      DocumentService
	statsRepo port.StatsRepository
	opts      ChatOptions
	log       *zap.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*chatSession
}

// NewChatService creates a new ChatService implementation.
func NewChatService(
	gateway port.ChatGateway,
	docs DocumentService,
	statsRepo port.StatsRepository,
	opts ChatOptions,
	log *zap.Logger,
) ChatService {
	return &chatService{
		gateway:   gateway,
		docs:      docs,
		statsRepo: statsRepo,
		opts:      opts,
		log:       log,
		sessions:  make(map[uuid.UUID]*chatSession),
	}
}

func (s *chatService) CreateSession(_ context.Context) (*ChatSessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opts.MaxSessions > 0 && len(s.sessions) >= s.opts.MaxSessions {
		return nil, domain.ErrSessionLimit
	}
	sess := &chatSession{
		id:         uuid.New(),
		createdAt:  time.Now().UTC(),
		transcript: stream.NewTranscript(),
	}
	s.sessions[sess.id] = sess
	return sess.view(), nil
}

func (s *chatService) GetSession(_ context.Context, id uuid.UUID) (*ChatSessionView, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	return sess.view(), nil
}

func (s *chatService) DeleteSession(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return domain.ErrSessionNotFound
	}
	sess.interrupt()
	return nil
}

func (s *chatService) session(id uuid.UUID) (*chatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

// Send appends the user message, streams the assistant reply into the
// transcript and stores any record recognized in the finished reply.
// A transport failure removes the partial reply and keeps the user message.
func (s *chatService) Send(ctx context.Context, input *SendMessageInput) (*ChatReply, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, domain.ErrEmptyMessage
	}
	if s.opts.MaxMessageSize > 0 && len(content) > s.opts.MaxMessageSize {
		return nil, domain.ErrMessageTooLarge
	}

	sess, err := s.session(input.SessionID)
	if err != nil {
		return nil, err
	}

	sendCtx, release, err := sess.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	chatCtx := input.Context
	if chatCtx == nil {
		chatCtx = s.dashboardContext(sendCtx)
	}

	turn := sess.transcript.Begin(content)
	body, err := s.gateway.Stream(sendCtx, port.ChatRequest{
		Messages: sess.transcript.Recent(s.opts.HistoryLimit),
		Context:  chatCtx,
	})
	if err != nil {
		turn.Rollback()
		return nil, fmt.Errorf("opening chat stream: %w", err)
	}
	defer func() { _ = body.Close() }()

	if err := stream.Pump(sendCtx, stream.NewReader(body), turn, input.OnDelta); err != nil {
		s.log.Warn("chat stream interrupted",
			zap.String("session_id", sess.id.String()),
			zap.Int("deltas", turn.Deltas()),
			zap.Error(err))
		return nil, err
	}

	msg, ok := turn.Commit()
	if !ok {
		return nil, domain.ErrNoReply
	}

	reply := &ChatReply{Message: msg}
	rec, ok := extract.Extract(msg.Content)
	if !ok {
		return reply, nil
	}
	reply.Kind = rec.Kind()

	doc, err := s.docs.SaveRecord(ctx, rec, msg.Content, domain.SourceChat)
	if err != nil {
		s.log.Error("saving chat document failed",
			zap.String("session_id", sess.id.String()),
			zap.String("type", string(rec.Kind())),
			zap.Error(err))
		reply.SaveError = err.Error()
		return reply, nil
	}
	reply.Document = doc
	return reply, nil
}

func (s *chatService) dashboardContext(ctx context.Context) *port.ChatContext {
	if s.statsRepo == nil {
		return nil
	}
	stats, err := s.statsRepo.GetStats(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.log.Warn("loading chat context failed", zap.Error(err))
		}
		return nil
	}
	return &port.ChatContext{
		QuotationsCount: stats.Quotations,
		InvoicesCount:   stats.Invoices,
		QualityCount:    stats.QualityInspections,
		ProductionCount: stats.ProductionOrders,
		RnDCount:        stats.RnDFormulations,
	}
}
