package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"hotel_booking/internal/domain"
)

// Repo keeps hotels in insertion order. Nothing is persisted.
type Repo struct {
	mu     sync.RWMutex
	order  []string
	hotels map[string]*domain.Hotel
	newID  func() string
}

func New() *Repo {
	return &Repo{
		hotels: make(map[string]*domain.Hotel),
		newID:  uuid.NewString,
	}
}

func (r *Repo) NextID() string { return r.newID() }

func (r *Repo) Add(_ context.Context, h *domain.Hotel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.hotels[h.ID()]; ok {
		return fmt.Errorf("hotel id %q already in use", h.ID())
	}
	r.hotels[h.ID()] = h
	r.order = append(r.order, h.ID())
	return nil
}

func (r *Repo) Get(_ context.Context, id string) (*domain.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.hotels[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrHotelNotFound, id)
	}
	return h, nil
}

func (r *Repo) List(_ context.Context) ([]*domain.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Hotel, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.hotels[id])
	}
	return out, nil
}
