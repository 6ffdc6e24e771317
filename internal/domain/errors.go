package domain

import "errors"

var (
	ErrDuplicateRoom    = errors.New("room already exists")
	ErrUnknownVariant   = errors.New("unknown room variant")
	ErrInvalidPrice     = errors.New("price must be a non-negative number")
	ErrRoomNotFound     = errors.New("no such room in the hotel")
	ErrPastDate         = errors.New("booking is only possible for a future date")
	ErrAlreadyBooked    = errors.New("room is already booked for that date")
	ErrNotBooked        = errors.New("room was not booked for that date")
	ErrHotelNotFound    = errors.New("hotel not found")
	ErrInvalidHotelName = errors.New("hotel name must not be empty")
	ErrInvalidDate      = errors.New("invalid date")
)

// Stable codes carried on the wire (problem "type", metric labels).
const (
	CodeDuplicateRoom    = "duplicate_room"
	CodeUnknownVariant   = "unknown_variant"
	CodeInvalidPrice     = "invalid_price"
	CodeRoomNotFound     = "room_not_found"
	CodePastDate         = "past_date"
	CodeAlreadyBooked    = "already_booked"
	CodeNotBooked        = "not_booked"
	CodeHotelNotFound    = "hotel_not_found"
	CodeInvalidHotelName = "invalid_hotel_name"
	CodeInvalidDate      = "invalid_date"
	CodeInternal         = "internal"
)

var codes = []struct {
	err  error
	code string
}{
	{ErrDuplicateRoom, CodeDuplicateRoom},
	{ErrUnknownVariant, CodeUnknownVariant},
	{ErrInvalidPrice, CodeInvalidPrice},
	{ErrRoomNotFound, CodeRoomNotFound},
	{ErrPastDate, CodePastDate},
	{ErrAlreadyBooked, CodeAlreadyBooked},
	{ErrNotBooked, CodeNotBooked},
	{ErrHotelNotFound, CodeHotelNotFound},
	{ErrInvalidHotelName, CodeInvalidHotelName},
	{ErrInvalidDate, CodeInvalidDate},
}

// ErrorCode maps err to its stable code. nil yields "", anything unknown "internal".
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}

// ErrorForCode is the inverse of ErrorCode; it returns nil for unknown codes.
func ErrorForCode(code string) error {
	for _, c := range codes {
		if c.code == code {
			return c.err
		}
	}
	return nil
}
