package ops

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/dvirzg/Forge/internal/errors"
)

// Handler executes one operation with already-decoded JSON parameters.
type Handler func(ctx context.Context, params map[string]any) (any, error)

// Operation is a named, schema-described unit of work.
type Operation struct {
	Name        string
	Description string
	Schema      *jsonschema.Schema
	Handler     Handler
}

// Registry maps operation names to operations. Registration happens once at
// startup; lookups are concurrent.
type Registry struct {
	log *slog.Logger

	mu  sync.RWMutex
	ops map[string]*Operation
}

// NewRegistry creates an empty registry.
func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		log: log.With("component", "ops"),
		ops: make(map[string]*Operation),
	}
}

// Register adds op to the registry, replacing any previous registration
// under the same name.
func (r *Registry) Register(op *Operation) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ops[op.Name]; exists {
		r.log.Warn("replacing registered operation", "op", op.Name)
	}

	r.ops[op.Name] = op
}

// Get returns the operation registered under name.
func (r *Registry) Get(name string) (*Operation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	op, ok := r.ops[name]
	if !ok {
		return nil, &errors.UnknownOpError{Op: name}
	}

	return op, nil
}

// List returns all operations sorted by name.
func (r *Registry) List() []*Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*Operation, 0, len(r.ops))
	for _, op := range r.ops {
		list = append(list, op)
	}

	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })

	return list
}

// Dispatch looks up name and runs its handler.
func (r *Registry) Dispatch(ctx context.Context, name string, params map[string]any) (any, error) {
	op, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	r.log.Debug("dispatching", "op", name)

	result, err := op.Handler(ctx, params)
	if err != nil {
		r.log.Debug("operation failed", "op", name, "code", errors.CodeOf(err), "error", err)

		return nil, err
	}

	return result, nil
}
