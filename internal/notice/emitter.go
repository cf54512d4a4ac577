package notice

import (
	"context"
	"log/slog"
	"sync"
)

// Handler processes notices. Handlers are registered on an Emitter and
// receive every notice published to it.
type Handler interface {
	// HandleNotice processes the given notice within the provided context.
	// Returns an error if the notice cannot be handled.
	HandleNotice(ctx context.Context, n Notice) error
}

// Emitter publishes notices to whoever is listening. Services emit
// without knowledge of the registered handlers.
type Emitter interface {
	// Emit publishes the notice to all registered handlers. The returned
	// error is the first handler failure; the notice still reaches every
	// handler.
	Emit(ctx context.Context, n Notice) error
}

// InMemoryEmitter dispatches notices to handlers registered in memory and
// logs every notice at info level, which makes the log stream itself the
// default user-facing channel.
type InMemoryEmitter struct {
	handlers []Handler
	mu       sync.RWMutex
	logger   *slog.Logger
}

// NewInMemoryEmitter creates a new InMemoryEmitter.
func NewInMemoryEmitter(logger *slog.Logger) *InMemoryEmitter {
	return &InMemoryEmitter{
		handlers: make([]Handler, 0),
		logger:   logger.With("component", "notice_emitter"),
	}
}

// RegisterHandler adds a handler to receive future notices.
func (e *InMemoryEmitter) RegisterHandler(h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, h)
	e.logger.Debug("registered notice handler", "handler_count", len(e.handlers))
}

// Emit publishes the notice to all registered handlers. Handler failures
// do not stop delivery to the remaining handlers; the first error is
// returned after all have run.
func (e *InMemoryEmitter) Emit(ctx context.Context, n Notice) error {
	e.mu.RLock()
	handlers := make([]Handler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	e.logger.InfoContext(ctx, "notice",
		"notice_id", n.ID,
		"kind", n.Kind.String(),
		"session_id", n.SessionID,
		"field", n.Field,
		"message", n.Message)

	var firstErr error
	for i, h := range handlers {
		if err := h.HandleNotice(ctx, n); err != nil {
			e.logger.Error("notice handler failed",
				"error", err,
				"handler_index", i,
				"notice_id", n.ID,
				"kind", n.Kind.String())
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
