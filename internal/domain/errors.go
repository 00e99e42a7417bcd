package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrDocumentNotFound   = errors.New("document not found")
	ErrInvalidDocument    = errors.New("invalid document")
	ErrInvalidKind        = errors.New("invalid document kind")
	ErrSessionNotFound    = errors.New("chat session not found")
	ErrSessionLimit       = errors.New("too many chat sessions")
	ErrEmptyMessage       = errors.New("message content is empty")
	ErrMessageTooLarge    = errors.New("message exceeds maximum allowed size")
	ErrNoReply            = errors.New("assistant produced no reply")
	ErrStorageDisabled    = errors.New("object storage is not configured")
	ErrSheetsDisabled     = errors.New("google sheets is not configured")
	ErrUnsupportedFormat  = errors.New("unsupported format")
	ErrGatewayUnavailable = errors.New("ai gateway is not configured")
)
