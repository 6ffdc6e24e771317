package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/storage/memory"
)

// ---- fakes ----

// fakeCache round-trips values through JSON like the redis adapter does.
type fakeCache struct {
	store map[string][]byte
	dels  []string
	hits  int
	// beforeSet runs ahead of each write, standing in for a concurrent command.
	beforeSet func()
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(b, dst)
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.beforeSet != nil {
		fn := c.beforeSet
		c.beforeSet = nil
		fn()
	}
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.dels = append(c.dels, key)
	delete(c.store, key)
	return nil
}

var fixedNow = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

func fixedClock() domain.Clock {
	return domain.ClockFunc(func() time.Time { return fixedNow })
}

type fixture struct {
	repo    *memory.Repo
	cache   *fakeCache
	cmd     *app.BookingService
	q       *app.QueryService
	hotelID string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	repo := memory.New()
	cache := &fakeCache{}
	f := fixture{
		repo:  repo,
		cache: cache,
		cmd:   app.NewBookingService(repo, cache, fixedClock()),
		q:     app.NewQueryService(repo, cache, 10*time.Minute),
	}
	hv, err := f.cmd.CreateHotel(context.Background(), "Fragro Hotel")
	if err != nil {
		t.Fatalf("CreateHotel: %v", err)
	}
	f.hotelID = hv.ID
	ctx := context.Background()
	if err := f.cmd.RegisterRoom(ctx, f.hotelID, domain.SingleBed, 101, 10000); err != nil {
		t.Fatalf("RegisterRoom 101: %v", err)
	}
	if err := f.cmd.RegisterRoom(ctx, f.hotelID, domain.DoubleBed, 201, 15000); err != nil {
		t.Fatalf("RegisterRoom 201: %v", err)
	}
	return f
}

// ---- tests ----

func TestListReservations_CacheMissThenHit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := domain.NewDate(2099, 1, 1)

	if _, err := f.cmd.BookRoom(ctx, f.hotelID, 101, d); err != nil {
		t.Fatalf("BookRoom: %v", err)
	}

	// Miss (populates cache)
	page, err := f.q.ListReservations(ctx, f.hotelID)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(page.Lines) != 1 || page.Lines[0] != "Single-bed room 101, price: 10000, date: 2099-01-01" {
		t.Fatalf("unexpected page: %+v", page)
	}
	if len(f.cache.store) != 1 || f.cache.hits != 0 {
		t.Fatalf("listing was not cached: store=%d hits=%d", len(f.cache.store), f.cache.hits)
	}

	// nothing changed, so the second read is served from the cache
	page2, _ := f.q.ListReservations(ctx, f.hotelID)
	if f.cache.hits != 1 || len(page2.Lines) != 1 {
		t.Fatalf("expected a cache hit with 1 line, hits=%d page=%+v", f.cache.hits, page2)
	}

	// a booking made directly on the hotel bumps its revision; the old page is not served
	h, _ := f.repo.Get(ctx, f.hotelID)
	if _, err := h.BookRoom(201, d, fixedNow); err != nil {
		t.Fatalf("direct book: %v", err)
	}
	page3, _ := f.q.ListReservations(ctx, f.hotelID)
	if len(page3.Lines) != 2 || f.cache.hits != 1 {
		t.Fatalf("expected fresh listing with 2 lines, hits=%d page=%+v", f.cache.hits, page3)
	}
}

func TestListReservations_BookingDuringCacheWriteIsNotHidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := domain.NewDate(2099, 1, 1)

	// The listing is read with no bookings; a booking commits (and evicts)
	// before the now-stale page reaches the cache.
	f.cache.beforeSet = func() {
		if _, err := f.cmd.BookRoom(ctx, f.hotelID, 101, d); err != nil {
			t.Fatalf("BookRoom: %v", err)
		}
	}
	page, err := f.q.ListReservations(ctx, f.hotelID)
	if err != nil || len(page.Lines) != 0 {
		t.Fatalf("first listing: %v %+v", err, page)
	}

	page, err = f.q.ListReservations(ctx, f.hotelID)
	if err != nil {
		t.Fatalf("ListReservations: %v", err)
	}
	if len(page.Lines) != 1 || page.Lines[0] != "Single-bed room 101, price: 10000, date: 2099-01-01" {
		t.Fatalf("committed booking hidden by stale cache entry: %+v", page.Lines)
	}
}

func TestListReservations_InvalidatedByCommands(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := domain.NewDate(2099, 1, 1)

	if _, err := f.q.ListReservations(ctx, f.hotelID); err != nil {
		t.Fatalf("prime: %v", err)
	}
	if _, err := f.cmd.BookRoom(ctx, f.hotelID, 101, d); err != nil {
		t.Fatalf("BookRoom: %v", err)
	}
	page, _ := f.q.ListReservations(ctx, f.hotelID)
	if len(page.Items) != 1 || page.Items[0].Room != 101 || page.Items[0].Date != d {
		t.Fatalf("booking not visible after invalidation: %+v", page)
	}

	if err := f.cmd.CancelRoom(ctx, f.hotelID, 101, d); err != nil {
		t.Fatalf("CancelRoom: %v", err)
	}
	page, _ = f.q.ListReservations(ctx, f.hotelID)
	if len(page.Items) != 0 {
		t.Fatalf("cancel not visible after invalidation: %+v", page)
	}
	if len(f.cache.dels) != 2 {
		t.Fatalf("expected 2 invalidations, got %v", f.cache.dels)
	}
}

func TestListReservations_UnknownHotel(t *testing.T) {
	f := newFixture(t)
	if _, err := f.q.ListReservations(context.Background(), "missing"); !errors.Is(err, domain.ErrHotelNotFound) {
		t.Fatalf("expected ErrHotelNotFound, got %v", err)
	}
}

func TestListHotelsAndGetHotel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hs, err := f.q.ListHotels(ctx)
	if err != nil || len(hs) != 1 || hs[0].Name != "Fragro Hotel" {
		t.Fatalf("ListHotels: %v %+v", err, hs)
	}
	hv, err := f.q.GetHotel(ctx, f.hotelID)
	if err != nil {
		t.Fatalf("GetHotel: %v", err)
	}
	if len(hv.Rooms) != 2 || hv.Rooms[1].Description != "Double-bed room 201, price: 15000" {
		t.Fatalf("unexpected rooms: %+v", hv.Rooms)
	}
}

func TestQueryService_NilCache(t *testing.T) {
	repo := memory.New()
	cmd := app.NewBookingService(repo, nil, fixedClock())
	q := app.NewQueryService(repo, nil, time.Minute)
	ctx := context.Background()

	hv, _ := cmd.CreateHotel(ctx, "No Cache Inn")
	_ = cmd.RegisterRoom(ctx, hv.ID, domain.SingleBed, 1, 50)
	if _, err := cmd.BookRoom(ctx, hv.ID, 1, domain.NewDate(2024, 5, 11)); err != nil {
		t.Fatalf("BookRoom: %v", err)
	}
	page, err := q.ListReservations(ctx, hv.ID)
	if err != nil || len(page.Lines) != 1 {
		t.Fatalf("ListReservations: %v %+v", err, page)
	}
}
