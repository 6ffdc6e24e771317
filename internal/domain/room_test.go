package domain_test

import (
	"encoding/json"
	"errors"
	"testing"

	"hotel_booking/internal/domain"
)

func TestDescribe(t *testing.T) {
	cases := []struct {
		v     domain.Variant
		n     int
		price float64
		want  string
	}{
		{domain.SingleBed, 101, 10000, "Single-bed room 101, price: 10000"},
		{domain.DoubleBed, 201, 15000, "Double-bed room 201, price: 15000"},
		{domain.DoubleBed, 7, 99.5, "Double-bed room 7, price: 99.5"},
	}
	for _, c := range cases {
		if got := domain.Describe(c.v, c.n, c.price); got != c.want {
			t.Fatalf("Describe(%s,%d,%v) = %q, want %q", c.v, c.n, c.price, got, c.want)
		}
	}
}

func TestParseVariant(t *testing.T) {
	for in, want := range map[string]domain.Variant{
		"single-bed":   domain.SingleBed,
		" Double-Bed ": domain.DoubleBed,
	} {
		got, err := domain.ParseVariant(in)
		if err != nil || got != want {
			t.Fatalf("ParseVariant(%q) = %q, %v", in, got, err)
		}
	}
	for _, in := range []string{"penthouse", "single", "double", ""} {
		if _, err := domain.ParseVariant(in); !errors.Is(err, domain.ErrUnknownVariant) {
			t.Fatalf("ParseVariant(%q): expected ErrUnknownVariant, got %v", in, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := domain.ParseDate("2099-01-01")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d != domain.NewDate(2099, 1, 1) || d.String() != "2099-01-01" {
		t.Fatalf("unexpected date %+v", d)
	}
	for _, bad := range []string{"", "2099/01/01", "01-01-2099", "2099-02-30"} {
		if _, err := domain.ParseDate(bad); !errors.Is(err, domain.ErrInvalidDate) {
			t.Fatalf("ParseDate(%q): expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestDate_JSON(t *testing.T) {
	in := struct {
		D domain.Date `json:"d"`
	}{D: domain.NewDate(2024, 5, 15)}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"d":"2024-05-15"}` {
		t.Fatalf("unexpected JSON %s", b)
	}
	if err := json.Unmarshal([]byte(`{"d":"15/05/2024"}`), &in); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}

func TestErrorCode(t *testing.T) {
	if got := domain.ErrorCode(nil); got != "" {
		t.Fatalf("nil error code = %q", got)
	}
	h := newHotel(t)
	err := h.CancelRoom(1, domain.NewDate(2099, 1, 1))
	if got := domain.ErrorCode(err); got != domain.CodeRoomNotFound {
		t.Fatalf("code = %q, want %q", got, domain.CodeRoomNotFound)
	}
	if got := domain.ErrorCode(errors.New("boom")); got != domain.CodeInternal {
		t.Fatalf("code = %q, want internal", got)
	}
	if !errors.Is(domain.ErrorForCode(domain.CodeAlreadyBooked), domain.ErrAlreadyBooked) {
		t.Fatalf("ErrorForCode round trip failed")
	}
	if domain.ErrorForCode("nope") != nil {
		t.Fatalf("unknown code should map to nil")
	}
}
