package tui

import (
	"context"
	"sync"

	"github.com/ggowrisankar/weight-tracker/internal/service"
	"github.com/ggowrisankar/weight-tracker/models"
	tea "github.com/charmbracelet/bubbletea"
)

// PromptResolver answers reconciliation conflicts by asking the user in the
// running program. Without a program it merges.
type PromptResolver struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func NewPromptResolver() *PromptResolver {
	return &PromptResolver{}
}

func (r *PromptResolver) attach(send func(tea.Msg)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.send = send
}

func (r *PromptResolver) detach() {
	r.attach(nil)
}

// Resolve shows the conflict prompt and waits for the answer. A cancelled ctx
// yields ChoiceMerge together with ctx's error.
func (r *PromptResolver) Resolve(ctx context.Context, local, server models.Summary) (service.Choice, error) {
	r.mu.Lock()
	send := r.send
	r.mu.Unlock()

	if send == nil {
		return service.ChoiceMerge, nil
	}

	reply := make(chan service.Choice, 1)
	send(conflictMsg{local: local, server: server, reply: reply})

	select {
	case choice := <-reply:
		return choice, nil
	case <-ctx.Done():
		return service.ChoiceMerge, ctx.Err()
	}
}
