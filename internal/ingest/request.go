package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"taglog/internal/registry"
)

// ErrAlreadyAnswered is returned when a NameRequest receives a second answer.
var ErrAlreadyAnswered = errors.New("name request already answered")

// NameRequest asks the presentation layer to name an unregistered tag. The
// loop stays blocked on it until Respond succeeds or the session ends.
type NameRequest struct {
	TagID string
	// Label is the label the reader sent with the scan.
	Label string

	ctx   context.Context
	reply chan string

	mu       sync.Mutex
	answered bool
}

func newNameRequest(ctx context.Context, tagID, label string) *NameRequest {
	return &NameRequest{
		TagID: tagID,
		Label: label,
		ctx:   ctx,
		reply: make(chan string, 1),
	}
}

// Respond supplies the display name, which is registered as given. An empty
// name is rejected with registry.ErrValidation and leaves the request pending.
func (r *NameRequest) Respond(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", registry.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.answered {
		return ErrAlreadyAnswered
	}
	r.answered = true
	r.reply <- name
	return nil
}

// Done is closed when the session that issued the request ends. A request
// abandoned this way no longer needs an answer.
func (r *NameRequest) Done() <-chan struct{} {
	return r.ctx.Done()
}
