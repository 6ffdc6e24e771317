package domain

import (
	"context"
	"time"
)

type HotelRepository interface {
	Add(ctx context.Context, h *Hotel) error
	Get(ctx context.Context, id string) (*Hotel, error)
	List(ctx context.Context) ([]*Hotel, error)
	NextID() string
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Clock supplies "now" for the future-date rule.
type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

var SystemClock Clock = ClockFunc(time.Now)

// Read models

type ReservationsPage struct {
	HotelID string        `json:"hotel_id"`
	Items   []Reservation `json:"items"`
	Lines   []string      `json:"lines"`
}
