package domain

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
)

// Hotel owns an ordered set of uniquely numbered rooms. All methods are safe
// for concurrent use; each one runs under the hotel lock, so a booking check
// and its insert are a single critical section.
type Hotel struct {
	id   string
	name string

	mu    sync.Mutex
	rooms []*Room
	rev   uint64 // bumped by every successful booking or cancellation
}

func NewHotel(id, name string) (*Hotel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidHotelName
	}
	return &Hotel{id: id, name: name}, nil
}

func (h *Hotel) ID() string   { return h.id }
func (h *Hotel) Name() string { return h.name }

// findRoom must be called with h.mu held.
func (h *Hotel) findRoom(number int) (*Room, error) {
	for _, r := range h.rooms {
		if r.number == number {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrRoomNotFound, number)
}

func (h *Hotel) RegisterRoom(v Variant, number int, price float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := h.findRoom(number); err == nil {
		return fmt.Errorf("%w: %d", ErrDuplicateRoom, number)
	}
	if !v.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownVariant, string(v))
	}
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidPrice, price)
	}
	h.rooms = append(h.rooms, newRoom(v, number, price))
	return nil
}

// BookRoom reserves date for the room and returns its price. The date must be
// strictly after the calendar date of now.
func (h *Hotel) BookRoom(number int, date Date, now time.Time) (float64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, err := h.findRoom(number)
	if err != nil {
		return 0, err
	}
	if !date.After(DateOf(now)) {
		return 0, fmt.Errorf("%w: %s", ErrPastDate, date)
	}
	if err := r.Book(date); err != nil {
		return 0, err
	}
	h.rev++
	return r.price, nil
}

// CancelRoom has no future-date rule; past reservations can be cancelled too.
func (h *Hotel) CancelRoom(number int, date Date) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, err := h.findRoom(number)
	if err != nil {
		return err
	}
	if err := r.Cancel(date); err != nil {
		return err
	}
	h.rev++
	return nil
}

// Reservation is one booked (room, date) pair.
type Reservation struct {
	Room    int     `json:"room"`
	Variant Variant `json:"variant"`
	Price   float64 `json:"price"`
	Date    Date    `json:"date"`
	Line    string  `json:"line"`
}

// Reservations lists rooms in insertion order and each room's dates ascending.
func (h *Hotel) Reservations() []Reservation {
	out, _ := h.Snapshot()
	return out
}

// Snapshot returns the reservations together with the revision they belong to.
func (h *Hotel) Snapshot() ([]Reservation, uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := []Reservation{}
	for _, r := range h.rooms {
		desc := r.Describe()
		for _, d := range r.Reserved() {
			out = append(out, Reservation{
				Room:    r.number,
				Variant: r.variant,
				Price:   r.price,
				Date:    d,
				Line:    desc + ", date: " + d.String(),
			})
		}
	}
	return out, h.rev
}

// Revision counts the bookings and cancellations applied so far.
func (h *Hotel) Revision() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rev
}

// ListReservations renders one line per reservation.
func (h *Hotel) ListReservations() []string {
	res := h.Reservations()
	out := make([]string, 0, len(res))
	for _, r := range res {
		out = append(out, r.Line)
	}
	return out
}

func (h *Hotel) Rooms() []RoomView {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]RoomView, 0, len(h.rooms))
	for _, r := range h.rooms {
		out = append(out, r.view())
	}
	return out
}

func (h *Hotel) RoomCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms)
}

// HotelView is a detached snapshot of a Hotel.
type HotelView struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Rooms []RoomView `json:"rooms"`
}

func (h *Hotel) View() HotelView {
	return HotelView{ID: h.id, Name: h.name, Rooms: h.Rooms()}
}
