package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"slotbook/internal/booking"
	"slotbook/internal/events"
)

type telegramClient interface {
	Send(tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier pushes a message to the organization's chats when a
// visitor confirms a booking.
type TelegramNotifier struct {
	tg      telegramClient
	chatIDs []int64
	limiter *rate.Limiter
	logger  *zerolog.Logger
}

// NewTelegramNotifier creates a notifier backed by the Telegram Bot API.
func NewTelegramNotifier(token string, chatIDs []int64, logger *zerolog.Logger) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return newTelegramNotifier(api, chatIDs, logger), nil
}

func newTelegramNotifier(tg telegramClient, chatIDs []int64, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		tg:      tg,
		chatIDs: chatIDs,
		// Telegram allows ~30 messages/second per bot; stay well under.
		limiter: rate.NewLimiter(rate.Limit(20), 30),
		logger:  logger,
	}
}

// BookingConfirmed sends the booking summary to every configured chat.
// Delivery failures to one chat do not block the others; the last error is
// returned.
func (n *TelegramNotifier) BookingConfirmed(ctx context.Context, b booking.Booking) error {
	text := formatBooking(b)

	var lastErr error
	for _, chatID := range n.chatIDs {
		if err := n.limiter.Wait(ctx); err != nil {
			return err
		}
		if _, err := n.tg.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			n.logger.Error().Err(err).
				Int64("chat_id", chatID).
				Str("external_id", b.ExternalID).
				Msg("failed to send booking notification")
			lastErr = err
			continue
		}
	}
	return lastErr
}

// Handler adapts the notifier to the event bus.
func (n *TelegramNotifier) Handler() events.Handler {
	return func(e events.Event) error {
		return n.BookingConfirmed(context.Background(), e.Booking)
	}
}

func formatBooking(b booking.Booking) string {
	contact := b.ClientName
	if b.ClientPhone != "" {
		contact += ", " + b.ClientPhone
	}
	if b.ClientEmail != "" {
		contact += ", " + b.ClientEmail
	}

	text := fmt.Sprintf(
		"New meeting booked\n%s – %s\nClient: %s",
		b.StartTime.Format("2006-01-02 15:04"),
		b.EndTime.Format("15:04"),
		contact,
	)
	if b.Comment != "" {
		text += "\nComment: " + b.Comment
	}
	return text
}
