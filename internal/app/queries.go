package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_booking/internal/domain"
)

type QueryService struct {
	repo     domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.HotelRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

// reservationsKey carries the hotel revision, so a page built from an older
// snapshot can never be served after a newer booking or cancellation.
func reservationsKey(hotelID string, rev uint64) string {
	return fmt.Sprintf("reservations:%s@%d", hotelID, rev)
}

func (s *QueryService) ListHotels(ctx context.Context) ([]domain.HotelView, error) {
	hs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.HotelView, 0, len(hs))
	for _, h := range hs {
		out = append(out, h.View())
	}
	return out, nil
}

func (s *QueryService) GetHotel(ctx context.Context, id string) (domain.HotelView, error) {
	h, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.HotelView{}, err
	}
	return h.View(), nil
}

// ListReservations is read through the cache, keyed by the hotel revision.
func (s *QueryService) ListReservations(ctx context.Context, hotelID string) (domain.ReservationsPage, error) {
	h, err := s.repo.Get(ctx, hotelID)
	if err != nil {
		return domain.ReservationsPage{}, err
	}

	if s.cache != nil {
		var out domain.ReservationsPage
		key := reservationsKey(hotelID, h.Revision())
		ok, err := s.cache.Get(ctx, key, &out)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		}
		if ok {
			return out, nil
		}
	}

	items, rev := h.Snapshot()
	page := domain.ReservationsPage{
		HotelID: hotelID,
		Items:   items,
		Lines:   make([]string, 0, len(items)),
	}
	for _, r := range items {
		page.Lines = append(page.Lines, r.Line)
	}

	if s.cache != nil {
		key := reservationsKey(hotelID, rev)
		if err := s.cache.Set(ctx, key, page, int(s.cacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return page, nil
}
