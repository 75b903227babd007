package resilience

import (
	"sort"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Condition summarizes a dependency for status reporting.
type Condition int

const (
	// Healthy means the breaker is closed.
	Healthy Condition = iota
	// Degraded means the breaker is half-open and probing.
	Degraded
	// Down means the breaker is open and calls fail fast.
	Down
)

func (c Condition) String() string {
	switch c {
	case Healthy:
		return "healthy"
	case Degraded:
		return "degraded"
	default:
		return "down"
	}
}

// DependencyHealth is a point-in-time view of one guarded dependency.
// Zero times mean no call has succeeded or failed yet.
type DependencyHealth struct {
	Name        string
	State       gobreaker.State
	Counts      gobreaker.Counts
	LastSuccess time.Time
	LastFailure time.Time
	LastError   string
}

// Condition maps the breaker state onto a Condition.
func (h DependencyHealth) Condition() Condition {
	switch h.State {
	case gobreaker.StateClosed:
		return Healthy
	case gobreaker.StateHalfOpen:
		return Degraded
	default:
		return Down
	}
}

// Registry collects the guards of one process. Registering a second guard
// under the same name replaces the first.
type Registry struct {
	mu     sync.RWMutex
	guards map[string]*Guard
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{guards: make(map[string]*Guard)}
}

// Register adds g under its name.
func (r *Registry) Register(g *Guard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guards[g.Name()] = g
}

// Health returns the named dependency's health.
func (r *Registry) Health(name string) (DependencyHealth, bool) {
	r.mu.RLock()
	g, ok := r.guards[name]
	r.mu.RUnlock()
	if !ok {
		return DependencyHealth{}, false
	}
	return g.Health(), true
}

// All returns every dependency's health ordered by name.
func (r *Registry) All() []DependencyHealth {
	r.mu.RLock()
	out := make([]DependencyHealth, 0, len(r.guards))
	for _, g := range r.guards {
		out = append(out, g.Health())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
