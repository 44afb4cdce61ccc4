package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"StockTiming/internal/domain/models"
	domrepo "StockTiming/internal/domain/repository"
)

// EndpointRegistry owns the webhook endpoint collection. All mutations are
// serialized behind the registry mutex and the full collection is persisted
// synchronously before a mutating call returns, so a crash after return
// implies a crash after persist.
type EndpointRegistry struct {
	mu        sync.Mutex
	store     domrepo.EndpointStore
	endpoints []models.Endpoint
}

func NewEndpointRegistry(store domrepo.EndpointStore) *EndpointRegistry {
	return &EndpointRegistry{store: store}
}

// Init loads the persisted collection. Called once at startup.
func (r *EndpointRegistry) Init(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	endpoints, err := r.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load endpoints: %w", err)
	}
	r.endpoints = endpoints
	return nil
}

// Add creates an endpoint with a fresh id, enabled by default.
func (r *EndpointRegistry) Add(ctx context.Context, name, url string, types []models.Action, minConf int) (models.Endpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(types) == 0 {
		types = []models.Action{models.ActionBuy, models.ActionSell, models.ActionHold}
	}

	ep := models.Endpoint{
		ID:            uuid.NewString(),
		Name:          name,
		URL:           url,
		Enabled:       true,
		Types:         types,
		MinConfidence: minConf,
		CreatedAt:     time.Now(),
	}

	r.endpoints = append(r.endpoints, ep)
	if err := r.persist(ctx); err != nil {
		r.endpoints = r.endpoints[:len(r.endpoints)-1]
		return models.Endpoint{}, err
	}
	return ep, nil
}

// Update applies a partial patch. An empty patch returns the endpoint
// unchanged.
func (r *EndpointRegistry) Update(ctx context.Context, id string, patch models.EndpointPatch) (models.Endpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return models.Endpoint{}, domrepo.ErrNotFound
	}

	before := r.endpoints[idx]
	ep := before
	if patch.Name != nil {
		ep.Name = *patch.Name
	}
	if patch.URL != nil {
		ep.URL = *patch.URL
	}
	if patch.Enabled != nil {
		ep.Enabled = *patch.Enabled
	}
	if patch.Types != nil {
		ep.Types = patch.Types
	}
	if patch.MinConfidence != nil {
		ep.MinConfidence = *patch.MinConfidence
	}

	r.endpoints[idx] = ep
	if err := r.persist(ctx); err != nil {
		r.endpoints[idx] = before
		return models.Endpoint{}, err
	}
	return ep, nil
}

// Remove deletes an endpoint; removing an absent id is a no-op.
func (r *EndpointRegistry) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil
	}

	removed := r.endpoints[idx]
	r.endpoints = append(r.endpoints[:idx], r.endpoints[idx+1:]...)
	if err := r.persist(ctx); err != nil {
		r.endpoints = append(r.endpoints[:idx], append([]models.Endpoint{removed}, r.endpoints[idx:]...)...)
		return err
	}
	return nil
}

func (r *EndpointRegistry) Get(id string) (models.Endpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return models.Endpoint{}, domrepo.ErrNotFound
	}
	return r.endpoints[idx], nil
}

// List returns all endpoints in insertion order.
func (r *EndpointRegistry) List() []models.Endpoint {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Endpoint, len(r.endpoints))
	copy(out, r.endpoints)
	return out
}

// ListEnabled returns the enabled endpoints in insertion order.
func (r *EndpointRegistry) ListEnabled() []models.Endpoint {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Endpoint, 0, len(r.endpoints))
	for _, ep := range r.endpoints {
		if ep.Enabled {
			out = append(out, ep)
		}
	}
	return out
}

func (r *EndpointRegistry) indexOf(id string) int {
	for i, ep := range r.endpoints {
		if ep.ID == id {
			return i
		}
	}
	return -1
}

func (r *EndpointRegistry) persist(ctx context.Context) error {
	if err := r.store.Save(ctx, r.endpoints); err != nil {
		return fmt.Errorf("persist endpoints: %w", err)
	}
	return nil
}
