package eventstream

import "context"

// Publisher publishes document events to an event stream backend.
type Publisher interface {
	PublishDocumentSaved(ctx context.Context, event *DocumentSavedEvent) error
	Close() error
}
