package sheets

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"slotbook/internal/booking"
	"slotbook/internal/events"
)

const appendRange = "Bookings!A:I"

// SheetsService appends confirmed bookings to a Google Sheet. With no
// database behind this service, the spreadsheet is the organization's
// booking record.
type SheetsService struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

// NewSheetsService builds a service from service-account credentials.
func NewSheetsService(ctx context.Context, credentialsFile, spreadsheetID string) (*SheetsService, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, sheetsapi.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	svc, err := sheetsapi.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsService{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// AppendBooking writes one booking row to the sheet.
func (s *SheetsService) AppendBooking(ctx context.Context, b booking.Booking) error {
	vr := &sheetsapi.ValueRange{Values: [][]interface{}{BookingRow(b)}}

	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, appendRange, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append booking row: %w", err)
	}
	return nil
}

// Handler adapts the recorder to the event bus.
func (s *SheetsService) Handler() events.Handler {
	return func(e events.Event) error {
		return s.AppendBooking(context.Background(), e.Booking)
	}
}

// BookingRow renders a booking as one spreadsheet row.
func BookingRow(b booking.Booking) []interface{} {
	return []interface{}{
		b.CreatedAt.Format(time.RFC3339),
		b.ExternalID,
		b.ClientName,
		b.ClientPhone,
		b.ClientEmail,
		b.StartTime.Format(time.RFC3339),
		b.EndTime.Format(time.RFC3339),
		b.Status,
		b.Comment,
	}
}

// FilterActiveBookings keeps bookings that still occupy a slot.
func FilterActiveBookings(bookings []booking.Booking) []booking.Booking {
	var active []booking.Booking
	for _, b := range bookings {
		if b.Status == booking.StatusConfirmed {
			active = append(active, b)
		}
	}
	return active
}
