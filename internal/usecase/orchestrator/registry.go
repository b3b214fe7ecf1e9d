package orchestrator

import (
	"fmt"
	"sync"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// WorkspaceGauge is told how many workspaces are live.
type WorkspaceGauge interface {
	SetWorkspaces(count int)
}

// Registry keeps the live workspaces. The least recently used one is
// dropped once the limit is reached; its project stays in storage.
type Registry struct {
	repo  ProjectStore
	ai    AIGateway
	opts  []Option
	gauge WorkspaceGauge

	mu    sync.Mutex
	cache *lru.Cache[string, *Orchestrator]
}

func NewRegistry(size int, repo ProjectStore, ai AIGateway, gauge WorkspaceGauge, opts ...Option) (*Registry, error) {
	r := &Registry{
		repo:  repo,
		ai:    ai,
		opts:  opts,
		gauge: gauge,
	}

	cache, err := lru.NewWithEvict(size, func(_ string, o *Orchestrator) {
		// let in-flight visuals finish against the detached instance
		go o.Wait()
	})
	if err != nil {
		return nil, fmt.Errorf("create workspace cache: %w", err)
	}
	r.cache = cache
	return r, nil
}

// Create starts a new empty workspace.
func (r *Registry) Create() *Orchestrator {
	return r.add(uuid.NewString())
}

func (r *Registry) Get(id string) (*Orchestrator, error) {
	o, ok := r.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrWorkspaceNotFound, id)
	}
	return o, nil
}

// GetOrCreate returns the workspace under id, creating it when unknown.
// Chat front-ends key workspaces by their own ids.
func (r *Registry) GetOrCreate(id string) *Orchestrator {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o, ok := r.cache.Get(id); ok {
		return o
	}
	return r.addLocked(id)
}

func (r *Registry) Len() int {
	return r.cache.Len()
}

func (r *Registry) add(id string) *Orchestrator {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addLocked(id)
}

func (r *Registry) addLocked(id string) *Orchestrator {
	o := New(id, r.repo, r.ai, r.opts...)
	r.cache.Add(id, o)
	if r.gauge != nil {
		r.gauge.SetWorkspaces(r.cache.Len())
	}
	return o
}
