// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

const maxBody = 1 << 20

type Handlers struct {
	Cmd *app.BookingService
	Q   *app.QueryService
}

// Problem is an RFC 7807 body; Type carries the stable error code.
type Problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/v1/hotels", func(r chi.Router) {
		r.Get("/", h.listHotels)
		r.Post("/", h.createHotel)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getHotel)
			r.Post("/rooms", h.registerRoom)
			r.Post("/rooms/{number}/bookings", h.bookRoom)
			r.Delete("/rooms/{number}/bookings/{date}", h.cancelRoom)
			r.Get("/reservations", h.listReservations)
		})
	})
}

func writeProblem(w http.ResponseWriter, status int, code, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Problem{Type: code, Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrHotelNotFound), errors.Is(err, domain.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateRoom), errors.Is(err, domain.ErrAlreadyBooked), errors.Is(err, domain.ErrNotBooked):
		return http.StatusConflict
	case errors.Is(err, domain.ErrPastDate):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUnknownVariant), errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidHotelName), errors.Is(err, domain.ErrInvalidDate):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeError turns a service error into a problem response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeProblem(w, status, domain.CodeInternal, http.StatusText(status), "internal error")
		return
	}
	writeProblem(w, status, domain.ErrorCode(err), http.StatusText(status), err.Error())
}

func badRequest(w http.ResponseWriter, detail string) {
	writeProblem(w, http.StatusBadRequest, "bad_request", "Bad Request", detail)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			badRequest(w, "request body is empty")
			return false
		}
		badRequest(w, "malformed JSON: "+err.Error())
		return false
	}
	return true
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func roomNumber(w http.ResponseWriter, r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		badRequest(w, "room number must be an integer")
		return 0, false
	}
	return n, true
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	hs, err := h.Q.ListHotels(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hs)
}

type createHotelRequest struct {
	Name string `json:"name"`
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var req createHotelRequest
	if !decode(w, r, &req) {
		return
	}
	hv, err := h.Cmd.CreateHotel(r.Context(), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/hotels/"+hv.ID)
	writeJSON(w, http.StatusCreated, hv)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	hv, err := h.Q.GetHotel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hv)
}

type registerRoomRequest struct {
	Variant string   `json:"variant"`
	Number  *int     `json:"number"`
	Price   *float64 `json:"price"`
}

func (h *Handlers) registerRoom(w http.ResponseWriter, r *http.Request) {
	var req registerRoomRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Number == nil || req.Price == nil {
		badRequest(w, "number and price are required")
		return
	}
	v, err := domain.ParseVariant(req.Variant)
	if err != nil {
		writeError(w, r, err)
		return
	}
	hotelID := chi.URLParam(r, "id")
	if err := h.Cmd.RegisterRoom(r.Context(), hotelID, v, *req.Number, *req.Price); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/v1/hotels/%s/rooms/%d", hotelID, *req.Number))
	writeJSON(w, http.StatusCreated, domain.RoomView{
		Number:      *req.Number,
		Variant:     v,
		Price:       *req.Price,
		Description: domain.Describe(v, *req.Number, *req.Price),
		Reserved:    []domain.Date{},
	})
}

type bookRequest struct {
	Date string `json:"date"`
}

type BookingResponse struct {
	Room  int         `json:"room"`
	Date  domain.Date `json:"date"`
	Price float64     `json:"price"`
}

func (h *Handlers) bookRoom(w http.ResponseWriter, r *http.Request) {
	n, ok := roomNumber(w, r)
	if !ok {
		return
	}
	var req bookRequest
	if !decode(w, r, &req) {
		return
	}
	d, err := domain.ParseDate(req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	price, err := h.Cmd.BookRoom(r.Context(), chi.URLParam(r, "id"), n, d)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, BookingResponse{Room: n, Date: d, Price: price})
}

func (h *Handlers) cancelRoom(w http.ResponseWriter, r *http.Request) {
	n, ok := roomNumber(w, r)
	if !ok {
		return
	}
	d, err := domain.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Cmd.CancelRoom(r.Context(), chi.URLParam(r, "id"), n, d); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) listReservations(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ListReservations(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	etag, body := calcETagAndBody(out)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write listReservations body")
	}
}
