// Package notify turns activity events into one-line toasts.
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/Domenick1991/flightbook/internal/domain"
	"github.com/Domenick1991/flightbook/internal/kafka"
)

type Notifier struct {
	mu  sync.Mutex
	out io.Writer
}

func NewNotifier(out io.Writer) *Notifier {
	return &Notifier{out: out}
}

// Send matches the kafka.Consumer handler signature.
func (n *Notifier) Send(_ context.Context, event kafka.ActivityEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := fmt.Fprintf(n.out, "[%s] %s\n", event.OccurredAt.Local().Format("15:04:05"), Message(event))
	return err
}

func Message(event kafka.ActivityEvent) string {
	switch event.Type {
	case kafka.EventBookingConfirmed:
		return fmt.Sprintf("Booking successful! %s booked PNR %s for %s, wallet now %s",
			event.User, event.PNR, domain.Amount(event.Amount), domain.Amount(event.WalletBalance))
	case kafka.EventPriceSurged:
		return fmt.Sprintf("Price increased due to multiple booking attempts! Flight %s now %s",
			event.FlightID, domain.Amount(event.Amount))
	case kafka.EventTicketDownloaded:
		return fmt.Sprintf("Ticket downloaded successfully! PNR %s", event.PNR)
	case kafka.EventBookingFailed:
		if event.Message != "" {
			return "Booking failed: " + event.Message
		}
		return "Booking failed"
	default:
		return fmt.Sprintf("%s by %s", event.Type, event.User)
	}
}
