package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
)

type BookingService struct {
	repo  domain.HotelRepository
	cache domain.Cache
	clock domain.Clock
}

// NewBookingService wires the command side. cache may be nil; clock defaults to the system clock.
func NewBookingService(r domain.HotelRepository, cache domain.Cache, clock domain.Clock) *BookingService {
	if clock == nil {
		clock = domain.SystemClock
	}
	return &BookingService{repo: r, cache: cache, clock: clock}
}

func (s *BookingService) CreateHotel(ctx context.Context, name string) (_ domain.HotelView, err error) {
	defer func() { observe("create_hotel", err) }()

	h, err := domain.NewHotel(s.repo.NextID(), name)
	if err != nil {
		return domain.HotelView{}, err
	}
	if err := s.repo.Add(ctx, h); err != nil {
		return domain.HotelView{}, fmt.Errorf("store hotel: %w", err)
	}
	log.Info().Str("hotel", h.ID()).Str("name", h.Name()).Msg("hotel created")
	return h.View(), nil
}

func (s *BookingService) RegisterRoom(ctx context.Context, hotelID string, v domain.Variant, number int, price float64) (err error) {
	defer func() { observe("register_room", err) }()

	h, err := s.repo.Get(ctx, hotelID)
	if err != nil {
		return err
	}
	if err := h.RegisterRoom(v, number, price); err != nil {
		return err
	}
	log.Info().Str("hotel", hotelID).Int("room", number).Str("variant", string(v)).Msg("room registered")
	return nil
}

// BookRoom reserves date for the room and returns the price charged.
func (s *BookingService) BookRoom(ctx context.Context, hotelID string, number int, date domain.Date) (_ float64, err error) {
	defer func() { observe("book", err) }()

	h, err := s.repo.Get(ctx, hotelID)
	if err != nil {
		return 0, err
	}
	price, err := h.BookRoom(number, date, s.clock.Now())
	if err != nil {
		return 0, err
	}
	s.invalidateReservations(ctx, h)
	log.Info().Str("hotel", hotelID).Int("room", number).Stringer("date", date).Float64("price", price).Msg("room booked")
	return price, nil
}

func (s *BookingService) CancelRoom(ctx context.Context, hotelID string, number int, date domain.Date) (err error) {
	defer func() { observe("cancel", err) }()

	h, err := s.repo.Get(ctx, hotelID)
	if err != nil {
		return err
	}
	if err := h.CancelRoom(number, date); err != nil {
		return err
	}
	s.invalidateReservations(ctx, h)
	log.Info().Str("hotel", hotelID).Int("room", number).Stringer("date", date).Msg("booking cancelled")
	return nil
}

// invalidateReservations drops the page of the revision just superseded. The
// revision in the key already keeps that page from being served; this only
// frees it before its TTL.
func (s *BookingService) invalidateReservations(ctx context.Context, h *domain.Hotel) {
	if s.cache == nil {
		return
	}
	rev := h.Revision()
	if rev == 0 {
		return
	}
	if err := s.cache.Del(ctx, reservationsKey(h.ID(), rev-1)); err != nil {
		log.Warn().Err(err).Str("hotel", h.ID()).Msg("reservations cache invalidation failed")
	}
}

func observe(op string, err error) {
	if err == nil {
		observability.ObserveBooking(op, "ok")
		return
	}
	observability.ObserveBooking(op, domain.ErrorCode(err))
	if errors.Is(err, context.Canceled) {
		return
	}
	log.Debug().Err(err).Str("op", op).Msg("command rejected")
}
