// Package apiclient talks to the booking HTTP API on behalf of hotelctl.
package apiclient

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
)

type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base string, rps int) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API URL %q", base)
	}
	if rps <= 0 {
		rps = 10
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// APIError is a problem response from the server. It unwraps to the matching
// domain error so callers can use errors.Is.
type APIError struct {
	Status int
	Code   string
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Code)
}

func (e *APIError) Unwrap() error { return domain.ErrorForCode(e.Code) }

// ---- Public API ----

func (c *Client) ListHotels(ctx context.Context) ([]domain.HotelView, error) {
	var out []domain.HotelView
	return out, c.do(ctx, "list_hotels", http.MethodGet, "/v1/hotels", nil, &out)
}

func (c *Client) GetHotel(ctx context.Context, id string) (domain.HotelView, error) {
	var out domain.HotelView
	return out, c.do(ctx, "get_hotel", http.MethodGet, "/v1/hotels/"+url.PathEscape(id), nil, &out)
}

func (c *Client) CreateHotel(ctx context.Context, name string) (domain.HotelView, error) {
	var out domain.HotelView
	return out, c.do(ctx, "create_hotel", http.MethodPost, "/v1/hotels", map[string]string{"name": name}, &out)
}

func (c *Client) RegisterRoom(ctx context.Context, hotelID string, v domain.Variant, number int, price float64) error {
	body := map[string]any{"variant": string(v), "number": number, "price": price}
	return c.do(ctx, "register_room", http.MethodPost, "/v1/hotels/"+url.PathEscape(hotelID)+"/rooms", body, nil)
}

func (c *Client) BookRoom(ctx context.Context, hotelID string, number int, d domain.Date) (float64, error) {
	var out struct {
		Price float64 `json:"price"`
	}
	p := fmt.Sprintf("/v1/hotels/%s/rooms/%d/bookings", url.PathEscape(hotelID), number)
	err := c.do(ctx, "book_room", http.MethodPost, p, map[string]string{"date": d.String()}, &out)
	return out.Price, err
}

func (c *Client) CancelRoom(ctx context.Context, hotelID string, number int, d domain.Date) error {
	p := fmt.Sprintf("/v1/hotels/%s/rooms/%d/bookings/%s", url.PathEscape(hotelID), number, d)
	return c.do(ctx, "cancel_room", http.MethodDelete, p, nil, nil)
}

func (c *Client) ListReservations(ctx context.Context, hotelID string) (domain.ReservationsPage, error) {
	var out domain.ReservationsPage
	return out, c.do(ctx, "list_reservations", http.MethodGet, "/v1/hotels/"+url.PathEscape(hotelID)+"/reservations", nil, &out)
}

// ResolveHotel accepts a hotel ID or an exact hotel name.
func (c *Client) ResolveHotel(ctx context.Context, ref string) (string, error) {
	hs, err := c.ListHotels(ctx)
	if err != nil {
		return "", err
	}
	for _, h := range hs {
		if h.ID == ref {
			return h.ID, nil
		}
	}
	var match []string
	for _, h := range hs {
		if h.Name == ref {
			match = append(match, h.ID)
		}
	}
	switch len(match) {
	case 0:
		return "", fmt.Errorf("%w: %s", domain.ErrHotelNotFound, ref)
	case 1:
		return match[0], nil
	}
	return "", fmt.Errorf("hotel name %q is ambiguous (%d matches); use the id", ref, len(match))
}

// ---- Internals ----

const maxAttempts = 4

// idempotent methods may be replayed after a 5xx or a transport error. A POST
// may have been applied before the failure, so it is only replayed on 429,
// which the server returns before any handler runs.
func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodDelete, http.MethodPut:
		return true
	}
	return false
}

// do performs a request with client-side rate limiting and retries, decoding
// the JSON body into out when out is non-nil. Retry-After is honored when provided.
func (c *Client) do(ctx context.Context, endpoint, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		payload = b
	}

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		// every attempt, retries included, spends a token
		if err := c.rl.Wait(ctx); err != nil {
			return err
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "hotelctl/1.0")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("hotel_api", endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !idempotent(method) {
				return err
			}
			lastErr = err
			if i < maxAttempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("hotel_api", endpoint, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotModified:
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			defer resp.Body.Close()
			if out == nil {
				_, _ = io.Copy(io.Discard, resp.Body)
				return nil
			}
			return json.NewDecoder(resp.Body).Decode(out)

		case resp.StatusCode == http.StatusTooManyRequests || (resp.StatusCode >= 500 && idempotent(method)):
			wait, ok := retryAfter(resp)
			resp.Body.Close()
			if !ok {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			log.Debug().Str("endpoint", endpoint).Int("status", resp.StatusCode).Dur("wait", wait).Msg("retrying")
			if i < maxAttempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			err := decodeProblem(resp)
			resp.Body.Close()
			return err
		}
	}

	return lastErr
}

func decodeProblem(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var p struct {
		Type   string `json:"type"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(b, &p); err != nil || p.Type == "" {
		return &APIError{Status: resp.StatusCode, Detail: fmt.Sprintf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))}
	}
	return &APIError{Status: resp.StatusCode, Code: p.Type, Detail: p.Detail}
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). ok is false when the
// header is absent or invalid; an explicit 0 means retry immediately.
func retryAfter(resp *http.Response) (time.Duration, bool) {
	h := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if h == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(h); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(h); err == nil {
		return max(time.Until(t), 0), true
	}
	return 0, false
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
