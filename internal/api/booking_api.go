package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"slotbook/internal/audit"
	"slotbook/internal/availability"
	"slotbook/internal/booking"
	"slotbook/internal/events"
	"slotbook/internal/metrics"
	"slotbook/internal/upstream"
)

// CreateBookingRequest is the request body for POST /api/bookings.
type CreateBookingRequest struct {
	Date        string `json:"date"`       // Format: YYYY-MM-DD
	SlotStart   string `json:"slot_start"` // RFC3339 start of the chosen slot
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone,omitempty"`
	ClientEmail string `json:"client_email,omitempty"`
	Comment     string `json:"comment,omitempty"`
}

// CreateBookingResponse is the response for POST /api/bookings.
type CreateBookingResponse struct {
	Success   bool   `json:"success"`
	BookingID int64  `json:"booking_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// handleCreateBooking validates the chosen slot against freshly derived
// availability and proxies the booking upstream.
// POST /api/bookings
func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("create_booking")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req CreateBookingRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, CreateBookingResponse{Error: "invalid JSON body"})
		return
	}

	if req.Date == "" || req.SlotStart == "" || req.ClientName == "" {
		writeJSON(w, http.StatusBadRequest, CreateBookingResponse{Error: "date, slot_start and client_name are required"})
		return
	}

	slotStart, err := time.Parse(time.RFC3339, req.SlotStart)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, CreateBookingResponse{Error: "invalid slot_start; expected RFC3339 timestamp"})
		return
	}

	s.recordAudit(audit.Entry{
		Action:     audit.ActionBookingRequest,
		ClientName: req.ClientName,
		Date:       req.Date,
		SlotStart:  req.SlotStart,
		Outcome:    "received",
	})

	if err := s.rules.Validate(s.clock.Now(), slotStart); err != nil {
		msg := "slot cannot be booked"
		switch {
		case errors.Is(err, booking.ErrTooSoon):
			msg = "slot starts too soon to be booked"
		case errors.Is(err, booking.ErrTooFar):
			msg = "slot starts too far ahead to be booked"
		}
		writeJSON(w, http.StatusUnprocessableEntity, CreateBookingResponse{Error: msg})
		return
	}

	windows, err := s.client.GetWindows(r.Context(), req.Date, req.Date)
	if err != nil {
		s.log.Error().Err(err).Str("date", req.Date).Msg("failed to load availability")
		writeJSON(w, http.StatusBadGateway, CreateBookingResponse{Error: "failed to load availability"})
		return
	}

	slot, ok := findSlot(availability.SlotsForDate(windows, req.Date), slotStart)
	if !ok {
		writeJSON(w, http.StatusConflict, CreateBookingResponse{Error: "slot not available for the selected date"})
		return
	}

	externalID := uuid.NewString()
	resp, err := s.client.CreateBooking(r.Context(), upstream.BookingRequest{
		Date:              req.Date,
		StartTime:         slot.Start.Format(time.RFC3339),
		EndTime:           slot.End.Format(time.RFC3339),
		ExternalBookingID: externalID,
		ClientName:        req.ClientName,
		ClientPhone:       req.ClientPhone,
		ClientEmail:       req.ClientEmail,
		Comment:           req.Comment,
	})
	if err != nil {
		s.log.Error().Err(err).
			Str("date", req.Date).
			Str("external_id", externalID).
			Msg("failed to create booking upstream")
		writeJSON(w, http.StatusBadGateway, CreateBookingResponse{Error: "failed to create booking"})
		return
	}

	b := booking.Booking{
		ExternalID:  externalID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		StartTime:   slot.Start,
		EndTime:     slot.End,
		Comment:     req.Comment,
		CreatedAt:   s.clock.Now(),
	}

	if !resp.Success {
		b.Status = booking.StatusRejected
		metrics.IncBookingCreated(booking.StatusRejected)
		s.publish(events.Event{Type: events.BookingRejected, Booking: b})

		msg := resp.Error
		if msg == "" {
			msg = "booking rejected upstream"
		}
		writeJSON(w, http.StatusConflict, CreateBookingResponse{Error: msg})
		return
	}

	b.Status = booking.StatusConfirmed
	metrics.IncBookingCreated(booking.StatusConfirmed)
	s.publish(events.Event{Type: events.BookingConfirmed, Booking: b})

	s.log.Info().
		Int64("booking_id", resp.BookingID).
		Str("external_id", externalID).
		Str("date", req.Date).
		Msg("booking created")

	writeJSON(w, http.StatusOK, CreateBookingResponse{Success: true, BookingID: resp.BookingID})
}

// handleAuditExport streams the audit trail as an xlsx download.
// GET /api/admin/audit.xlsx
func (s *HTTPServer) handleAuditExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("audit_export")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.trail == nil || s.cfg.Audit.AdminKey == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Header.Get("x-admin-key") != s.cfg.Audit.AdminKey {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="audit.xlsx"`)
	if err := s.trail.WriteExcel(w); err != nil {
		s.log.Error().Err(err).Msg("failed to write audit export")
	}
}

func (s *HTTPServer) recordAudit(e audit.Entry) {
	if s.trail != nil {
		s.trail.Record(e)
	}
}

func (s *HTTPServer) publish(e events.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

func findSlot(slots []availability.Slot, start time.Time) (availability.Slot, bool) {
	for _, slot := range slots {
		if slot.Start.Equal(start) {
			return slot, true
		}
	}
	return availability.Slot{}, false
}
