// Package seed loads hotels, rooms and bookings from a JSON file into the booking API.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_booking/internal/domain"
)

type File struct {
	Hotels []Hotel `json:"hotels"`
}

type Hotel struct {
	Name     string    `json:"name"`
	Rooms    []Room    `json:"rooms"`
	Bookings []Booking `json:"bookings"`
}

type Room struct {
	Variant domain.Variant `json:"variant"`
	Number  int            `json:"number"`
	Price   float64        `json:"price"`
}

type Booking struct {
	Room int         `json:"room"`
	Date domain.Date `json:"date"`
}

// API is the subset of the booking API the seeder drives.
type API interface {
	CreateHotel(ctx context.Context, name string) (domain.HotelView, error)
	RegisterRoom(ctx context.Context, hotelID string, v domain.Variant, number int, price float64) error
	BookRoom(ctx context.Context, hotelID string, number int, d domain.Date) (float64, error)
}

type Report struct {
	Hotels         int
	Rooms          int
	Bookings       int
	FailedBookings int
}

func Load(path string) (File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return File{}, fmt.Errorf("parse %s: %w", path, err)
	}
	for i, h := range f.Hotels {
		for j, r := range h.Rooms {
			v, err := domain.ParseVariant(string(r.Variant))
			if err != nil {
				return File{}, fmt.Errorf("hotel %d room %d: %w", i, j, err)
			}
			f.Hotels[i].Rooms[j].Variant = v
		}
	}
	return f, nil
}

// Run creates every hotel and its rooms, then books the listed dates with at
// most workers requests in flight. Failed bookings are logged and counted;
// a failure to create a hotel or room aborts the run.
func Run(ctx context.Context, api API, f File, workers int) (Report, error) {
	if workers <= 0 {
		workers = 1
	}
	var rep Report
	ids := make([]string, len(f.Hotels))

	for i, h := range f.Hotels {
		hv, err := api.CreateHotel(ctx, h.Name)
		if err != nil {
			return rep, fmt.Errorf("create hotel %q: %w", h.Name, err)
		}
		ids[i] = hv.ID
		rep.Hotels++
		for _, r := range h.Rooms {
			if err := api.RegisterRoom(ctx, hv.ID, r.Variant, r.Number, r.Price); err != nil {
				return rep, fmt.Errorf("hotel %q room %d: %w", h.Name, r.Number, err)
			}
			rep.Rooms++
		}
		log.Info().Str("hotel", hv.ID).Str("name", h.Name).Int("rooms", len(h.Rooms)).Msg("hotel seeded")
	}

	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var ok, failed int64

	for i, h := range f.Hotels {
		for _, b := range h.Bookings {
			// acquire before launching the goroutine; release inside it
			if err := sem.Acquire(ctx, 1); err != nil {
				wg.Wait()
				return rep, err
			}
			wg.Add(1)
			go func(hotelID string, b Booking) {
				defer wg.Done()
				defer sem.Release(1)

				if _, err := api.BookRoom(ctx, hotelID, b.Room, b.Date); err != nil {
					atomic.AddInt64(&failed, 1)
					log.Warn().Err(err).Str("hotel", hotelID).Int("room", b.Room).Stringer("date", b.Date).Msg("seed booking failed")
					return
				}
				atomic.AddInt64(&ok, 1)
			}(ids[i], b)
		}
	}

	wg.Wait()
	rep.Bookings = int(ok)
	rep.FailedBookings = int(failed)
	return rep, nil
}
