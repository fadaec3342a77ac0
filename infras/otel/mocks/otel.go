package mocks

import (
	"context"
	"kumbam/infras/otel"
	"sync"
)

// Otel hands out recording scopes; tests can look them up by span name.
type Otel struct {
	mu     sync.Mutex
	scopes []*Scope
}

var _ otel.Otel = (*Otel)(nil)

func NewOtel() *Otel {
	return &Otel{}
}

func (o *Otel) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	scope := NewScope()
	scope.Name = spanName

	o.mu.Lock()
	defer o.mu.Unlock()

	o.scopes = append(o.scopes, scope)

	return ctx, scope
}

func (o *Otel) Shutdown(_ context.Context) error {
	return nil
}

// Scope returns the most recent scope opened under spanName, or nil.
func (o *Otel) Scope(spanName string) *Scope {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i := len(o.scopes) - 1; i >= 0; i-- {
		if o.scopes[i].Name == spanName {
			return o.scopes[i]
		}
	}

	return nil
}
