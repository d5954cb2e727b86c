package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Domenick1991/flightbook/internal/apiclient"
	"github.com/Domenick1991/flightbook/internal/domain"
	"github.com/Domenick1991/flightbook/internal/kafka"
	"github.com/google/uuid"
)

const SurgeNotice = "Price increased due to multiple booking attempts!"

type BookingUseCase interface {
	Confirm(ctx context.Context, flight domain.Flight, passengerName string) (*ConfirmResult, error)
	History(ctx context.Context) ([]domain.Booking, error)
	Get(ctx context.Context, id string) (*domain.Booking, error)
	DownloadTicket(ctx context.Context, booking domain.Booking, dir string) (string, error)
}

type BookingAPI interface {
	RecordAttempt(ctx context.Context, flightID string) (*domain.AttemptResult, error)
	CreateBooking(ctx context.Context, input domain.CreateBookingInput) (*domain.BookingReceipt, error)
	ListBookings(ctx context.Context) ([]domain.Booking, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	DownloadTicket(ctx context.Context, bookingID string) ([]byte, error)
}

type Session interface {
	Current() (domain.User, bool)
	UpdateWalletBalance(ctx context.Context, balance domain.Amount) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// ConfirmResult is what the confirmation view shows after a booking went through.
type ConfirmResult struct {
	Receipt        domain.BookingReceipt
	Attempt        *domain.AttemptResult
	PriceIncreased bool
	Notice         string
}

type BookingService struct {
	api           BookingAPI
	session       Session
	producer      Producer
	activityTopic string
	logger        *slog.Logger
	now           func() time.Time
}

type BookingServiceOption func(*BookingService)

// WithActivity publishes activity events to topic. A nil producer or an
// empty topic turns publishing off.
func WithActivity(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.activityTopic = topic
	}
}

func WithLogger(logger *slog.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.logger = logger
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(api BookingAPI, session Session, opts ...BookingServiceOption) *BookingService {
	service := &BookingService{
		api:     api,
		session: session,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Confirm books flight for passengerName. The balance check here only
// mirrors what the backend enforces; the backend has the final say.
// When the booking itself is refused, the returned result still carries
// the attempt and any price-increase notice alongside the error.
func (s *BookingService) Confirm(ctx context.Context, flight domain.Flight, passengerName string) (*ConfirmResult, error) {
	passengerName = strings.TrimSpace(passengerName)
	if passengerName == "" {
		return nil, domain.ErrPassengerRequired
	}

	user, ok := s.session.Current()
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	if user.WalletBalance < flight.CurrentPrice {
		return nil, fmt.Errorf("%w: need %s, have %s", domain.ErrInsufficientBalance, flight.CurrentPrice, user.WalletBalance)
	}

	result := &ConfirmResult{}

	attempt, err := s.api.RecordAttempt(ctx, flight.ID)
	if err != nil {
		s.logger.Warn("record booking attempt", "flight_id", flight.ID, "error", err)
	} else {
		result.Attempt = attempt
		if attempt.SurgeApplied {
			result.PriceIncreased = true
			result.Notice = SurgeNotice
			s.publish(ctx, kafka.ActivityEvent{
				Type:     kafka.EventPriceSurged,
				User:     user.Name,
				FlightID: flight.ID,
				Amount:   int64(attempt.CurrentPrice),
			})
		}
	}

	receipt, err := s.api.CreateBooking(ctx, domain.CreateBookingInput{FlightID: flight.ID, PassengerName: passengerName})
	if err != nil {
		s.publish(ctx, kafka.ActivityEvent{
			Type:     kafka.EventBookingFailed,
			User:     user.Name,
			FlightID: flight.ID,
			Message:  apiclient.MessageOf(err, ""),
		})
		return result, err
	}
	result.Receipt = *receipt

	if err := s.session.UpdateWalletBalance(ctx, receipt.WalletBalance); err != nil {
		s.logger.Warn("update wallet balance after booking", "pnr", receipt.PNR, "error", err)
	}

	s.publish(ctx, kafka.ActivityEvent{
		Type:          kafka.EventBookingConfirmed,
		User:          user.Name,
		FlightID:      flight.ID,
		BookingID:     receipt.ID,
		PNR:           receipt.PNR,
		Amount:        int64(receipt.FinalPrice),
		WalletBalance: int64(receipt.WalletBalance),
	})
	return result, nil
}

func (s *BookingService) History(ctx context.Context) ([]domain.Booking, error) {
	if _, ok := s.session.Current(); !ok {
		return nil, domain.ErrNotAuthenticated
	}
	bookings, err := s.api.ListBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (s *BookingService) Get(ctx context.Context, id string) (*domain.Booking, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("booking id is required")
	}
	return s.api.GetBooking(ctx, id)
}

// DownloadTicket saves the ticket PDF into dir and returns the file path.
func (s *BookingService) DownloadTicket(ctx context.Context, booking domain.Booking, dir string) (string, error) {
	data, err := s.api.DownloadTicket(ctx, booking.ID)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, TicketFilename(booking.PNR))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save ticket: %w", err)
	}

	user, _ := s.session.Current()
	s.publish(ctx, kafka.ActivityEvent{
		Type:      kafka.EventTicketDownloaded,
		User:      user.Name,
		FlightID:  booking.Flight.ID,
		BookingID: booking.ID,
		PNR:       booking.PNR,
	})
	return path, nil
}

func TicketFilename(pnr string) string {
	return "ticket-" + pnr + ".pdf"
}

func (s *BookingService) publish(ctx context.Context, event kafka.ActivityEvent) {
	if s.producer == nil || s.activityTopic == "" {
		return
	}
	event.ID = uuid.NewString()
	event.OccurredAt = s.now()
	if err := s.producer.Publish(ctx, s.activityTopic, event.User, event); err != nil {
		s.logger.Warn("publish activity event", "type", event.Type, "error", err)
	}
}

var _ BookingUseCase = (*BookingService)(nil)
