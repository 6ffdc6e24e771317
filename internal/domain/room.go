package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type Variant string

const (
	SingleBed Variant = "single-bed"
	DoubleBed Variant = "double-bed"
)

// ParseVariant accepts only the canonical names, ignoring case and surrounding space.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case SingleBed, DoubleBed:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

func (v Variant) Valid() bool { return v == SingleBed || v == DoubleBed }

// Label is the display name used by Describe.
func (v Variant) Label() string {
	switch v {
	case SingleBed:
		return "Single-bed"
	case DoubleBed:
		return "Double-bed"
	}
	return string(v)
}

// Room is owned by a Hotel; it is not safe for concurrent use on its own.
type Room struct {
	number   int
	price    float64
	variant  Variant
	reserved map[Date]struct{}
}

func newRoom(v Variant, number int, price float64) *Room {
	return &Room{number: number, price: price, variant: v, reserved: make(map[Date]struct{})}
}

func (r *Room) Number() int      { return r.number }
func (r *Room) Price() float64   { return r.price }
func (r *Room) Variant() Variant { return r.variant }
func (r *Room) Describe() string { return Describe(r.variant, r.number, r.price) }

func (r *Room) IsBooked(d Date) bool {
	_, ok := r.reserved[d]
	return ok
}

// Describe renders the label of a room, e.g. "Single-bed room 101, price: 10000".
func Describe(v Variant, number int, price float64) string {
	return fmt.Sprintf("%s room %d, price: %s", v.Label(), number, FormatPrice(price))
}

func FormatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func (r *Room) Book(d Date) error {
	if r.IsBooked(d) {
		return fmt.Errorf("%w: room %d on %s", ErrAlreadyBooked, r.number, d)
	}
	r.reserved[d] = struct{}{}
	return nil
}

func (r *Room) Cancel(d Date) error {
	if !r.IsBooked(d) {
		return fmt.Errorf("%w: room %d on %s", ErrNotBooked, r.number, d)
	}
	delete(r.reserved, d)
	return nil
}

// Reserved returns the booked dates in ascending order.
func (r *Room) Reserved() []Date {
	out := make([]Date, 0, len(r.reserved))
	for d := range r.reserved {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// RoomView is a detached snapshot of a Room.
type RoomView struct {
	Number      int     `json:"number"`
	Variant     Variant `json:"variant"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Reserved    []Date  `json:"reserved"`
}

func (r *Room) view() RoomView {
	return RoomView{
		Number:      r.number,
		Variant:     r.variant,
		Price:       r.price,
		Description: r.Describe(),
		Reserved:    r.Reserved(),
	}
}
