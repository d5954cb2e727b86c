package booking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Domenick1991/flightbook/internal/apiclient"
	"github.com/Domenick1991/flightbook/internal/domain"
	"github.com/Domenick1991/flightbook/internal/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingAPI struct {
	mock.Mock
}

func (m *MockBookingAPI) RecordAttempt(ctx context.Context, flightID string) (*domain.AttemptResult, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AttemptResult), args.Error(1)
}

func (m *MockBookingAPI) CreateBooking(ctx context.Context, input domain.CreateBookingInput) (*domain.BookingReceipt, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingReceipt), args.Error(1)
}

func (m *MockBookingAPI) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingAPI) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingAPI) DownloadTicket(ctx context.Context, bookingID string) ([]byte, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockSession struct {
	mock.Mock
}

func (m *MockSession) Current() (domain.User, bool) {
	args := m.Called()
	return args.Get(0).(domain.User), args.Bool(1)
}

func (m *MockSession) UpdateWalletBalance(ctx context.Context, balance domain.Amount) error {
	return m.Called(ctx, balance).Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

var quiet = WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

func eventOfType(eventType string) interface{} {
	return mock.MatchedBy(func(event kafka.ActivityEvent) bool {
		return event.Type == eventType && event.ID != ""
	})
}

func testFlight() domain.Flight {
	return domain.Flight{
		ID:           "f1",
		Airline:      "IndiGo",
		FlightNumber: "6E-201",
		BasePrice:    domain.Rupees(5000),
		CurrentPrice: domain.Rupees(5000),
	}
}

func TestBookingService_Confirm_Success(t *testing.T) {
	mockAPI := &MockBookingAPI{}
	mockSession := &MockSession{}
	mockProducer := &MockProducer{}
	service := NewBookingService(mockAPI, mockSession, quiet, WithActivity(mockProducer, "activity"))
	ctx := context.Background()

	receipt := &domain.BookingReceipt{
		Booking:       domain.Booking{ID: "b1", PNR: "ABC123", FinalPrice: domain.Rupees(5000)},
		WalletBalance: domain.Rupees(45000),
	}
	mockSession.On("Current").Return(domain.User{Name: "Asha", WalletBalance: domain.Rupees(50000)}, true)
	mockAPI.On("RecordAttempt", ctx, "f1").Return(&domain.AttemptResult{CurrentPrice: domain.Rupees(5000), AttemptCount: 1}, nil).Once()
	mockAPI.On("CreateBooking", ctx, domain.CreateBookingInput{FlightID: "f1", PassengerName: "Asha Rao"}).Return(receipt, nil).Once()
	mockSession.On("UpdateWalletBalance", ctx, domain.Rupees(45000)).Return(nil).Once()
	mockProducer.On("Publish", ctx, "activity", "Asha", eventOfType(kafka.EventBookingConfirmed)).Return(nil).Once()

	result, err := service.Confirm(ctx, testFlight(), "  Asha Rao ")

	require.NoError(t, err)
	assert.Equal(t, "ABC123", result.Receipt.PNR)
	assert.False(t, result.PriceIncreased)
	assert.Empty(t, result.Notice)
	mockAPI.AssertExpectations(t)
	mockSession.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_Confirm_AttemptBeforeCreate(t *testing.T) {
	mockAPI := &MockBookingAPI{}
	mockSession := &MockSession{}
	service := NewBookingService(mockAPI, mockSession, quiet)
	ctx := context.Background()

	var order []string
	mockSession.On("Current").Return(domain.User{Name: "Asha", WalletBalance: domain.Rupees(50000)}, true)
	mockAPI.On("RecordAttempt", ctx, "f1").Run(func(mock.Arguments) { order = append(order, "attempt") }).
		Return(&domain.AttemptResult{}, nil).Once()
	mockAPI.On("CreateBooking", ctx, mock.Anything).Run(func(mock.Arguments) { order = append(order, "create") }).
		Return(&domain.BookingReceipt{WalletBalance: domain.Rupees(45000)}, nil).Once()
	mockSession.On("UpdateWalletBalance", ctx, domain.Rupees(45000)).Return(nil).Once()

	_, err := service.Confirm(ctx, testFlight(), "Asha")

	require.NoError(t, err)
	assert.Equal(t, []string{"attempt", "create"}, order)
}

func TestBookingService_Confirm_Surge(t *testing.T) {
	mockAPI := &MockBookingAPI{}
	mockSession := &MockSession{}
	mockProducer := &MockProducer{}
	service := NewBookingService(mockAPI, mockSession, quiet, WithActivity(mockProducer, "activity"))
	ctx := context.Background()

	attempt := &domain.AttemptResult{SurgeApplied: true, CurrentPrice: domain.Rupees(5500), BasePrice: domain.Rupees(5000), AttemptCount: 3}
	receipt := &domain.BookingReceipt{
		Booking:       domain.Booking{ID: "b1", PNR: "XYZ789", FinalPrice: domain.Rupees(5500)},
		WalletBalance: domain.Rupees(44500),
	}
	mockSession.On("Current").Return(domain.User{Name: "Asha", WalletBalance: domain.Rupees(50000)}, true)
	mockAPI.On("RecordAttempt", ctx, "f1").Return(attempt, nil).Once()
	mockAPI.On("CreateBooking", ctx, mock.Anything).Return(receipt, nil).Once()
	mockSession.On("UpdateWalletBalance", ctx, domain.Rupees(44500)).Return(nil).Once()
	mockProducer.On("Publish", ctx, "activity", "Asha", eventOfType(kafka.EventPriceSurged)).Return(nil).Once()
	mockProducer.On("Publish", ctx, "activity", "Asha", eventOfType(kafka.EventBookingConfirmed)).Return(nil).Once()

	result, err := service.Confirm(ctx, testFlight(), "Asha")

	require.NoError(t, err)
	assert.True(t, result.PriceIncreased)
	assert.Equal(t, SurgeNotice, result.Notice)
	assert.Equal(t, domain.Rupees(5500), result.Receipt.FinalPrice)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_Confirm_AttemptFailureContinues(t *testing.T) {
	mockAPI := &MockBookingAPI{}
	mockSession := &MockSession{}
	service := NewBookingService(mockAPI, mockSession, quiet)
	ctx := context.Background()

	mockSession.On("Current").Return(domain.User{Name: "Asha", WalletBalance: domain.Rupees(50000)}, true)
	mockAPI.On("RecordAttempt", ctx, "f1").Return(nil, errors.New("timeout")).Once()
	mockAPI.On("CreateBooking", ctx, mock.Anything).Return(&domain.BookingReceipt{WalletBalance: domain.Rupees(45000)}, nil).Once()
	mockSession.On("UpdateWalletBalance", ctx, domain.Rupees(45000)).Return(nil).Once()

	result, err := service.Confirm(ctx, testFlight(), "Asha")

	require.NoError(t, err)
	assert.Nil(t, result.Attempt)
	assert.False(t, result.PriceIncreased)
	mockAPI.AssertExpectations(t)
}

func TestBookingService_Confirm_Validation(t *testing.T) {
	testCases := []struct {
		name      string
		user      domain.User
		loggedIn  bool
		passenger string
		expected  error
	}{
		{
			name:      "empty passenger",
			user:      domain.User{WalletBalance: domain.Rupees(50000)},
			loggedIn:  true,
			passenger: "   ",
			expected:  domain.ErrPassengerRequired,
		},
		{
			name:      "no session",
			passenger: "Asha",
			expected:  domain.ErrNotAuthenticated,
		},
		{
			name:      "wallet below price",
			user:      domain.User{WalletBalance: domain.Rupees(3000)},
			loggedIn:  true,
			passenger: "Asha",
			expected:  domain.ErrInsufficientBalance,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockAPI := &MockBookingAPI{}
			mockSession := &MockSession{}
			service := NewBookingService(mockAPI, mockSession, quiet)
			mockSession.On("Current").Return(tc.user, tc.loggedIn)

			result, err := service.Confirm(context.Background(), testFlight(), tc.passenger)

			assert.ErrorIs(t, err, tc.expected)
			assert.Nil(t, result)
			mockAPI.AssertNotCalled(t, "RecordAttempt", mock.Anything, mock.Anything)
			mockAPI.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
			mockSession.AssertNotCalled(t, "UpdateWalletBalance", mock.Anything, mock.Anything)
		})
	}
}

func TestBookingService_Confirm_CreateFails(t *testing.T) {
	mockAPI := &MockBookingAPI{}
	mockSession := &MockSession{}
	mockProducer := &MockProducer{}
	service := NewBookingService(mockAPI, mockSession, quiet, WithActivity(mockProducer, "activity"))
	ctx := context.Background()

	createErr := &apiclient.Error{Op: "create booking", Status: 400, Message: "Insufficient wallet balance"}
	mockSession.On("Current").Return(domain.User{Name: "Asha", WalletBalance: domain.Rupees(50000)}, true)
	mockAPI.On("RecordAttempt", ctx, "f1").Return(&domain.AttemptResult{}, nil).Once()
	mockAPI.On("CreateBooking", ctx, mock.Anything).Return(nil, createErr).Once()
	mockProducer.On("Publish", ctx, "activity", "Asha", mock.MatchedBy(func(event kafka.ActivityEvent) bool {
		return event.Type == kafka.EventBookingFailed && event.Message == "Insufficient wallet balance"
	})).Return(nil).Once()

	result, err := service.Confirm(ctx, testFlight(), "Asha")

	assert.Same(t, createErr, err)
	require.NotNil(t, result)
	assert.False(t, result.PriceIncreased)
	assert.Empty(t, result.Receipt.ID)
	mockSession.AssertNotCalled(t, "UpdateWalletBalance", mock.Anything, mock.Anything)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_Confirm_SurgeThenCreateFails(t *testing.T) {
	mockAPI := &MockBookingAPI{}
	mockSession := &MockSession{}
	service := NewBookingService(mockAPI, mockSession, quiet)
	ctx := context.Background()

	attempt := &domain.AttemptResult{SurgeApplied: true, CurrentPrice: domain.Rupees(5500), BasePrice: domain.Rupees(5000), AttemptCount: 3}
	createErr := &apiclient.Error{Op: "create booking", Status: 400, Message: "Insufficient wallet balance"}
	mockSession.On("Current").Return(domain.User{Name: "Asha", WalletBalance: domain.Rupees(5200)}, true)
	mockAPI.On("RecordAttempt", ctx, "f1").Return(attempt, nil).Once()
	mockAPI.On("CreateBooking", ctx, mock.Anything).Return(nil, createErr).Once()

	result, err := service.Confirm(ctx, testFlight(), "Asha")

	assert.Same(t, createErr, err)
	require.NotNil(t, result)
	assert.True(t, result.PriceIncreased)
	assert.Equal(t, SurgeNotice, result.Notice)
	assert.Equal(t, attempt, result.Attempt)
	mockSession.AssertNotCalled(t, "UpdateWalletBalance", mock.Anything, mock.Anything)
}

func TestBookingService_Confirm_PublishFailureIgnored(t *testing.T) {
	mockAPI := &MockBookingAPI{}
	mockSession := &MockSession{}
	mockProducer := &MockProducer{}
	service := NewBookingService(mockAPI, mockSession, quiet, WithActivity(mockProducer, "activity"))
	ctx := context.Background()

	mockSession.On("Current").Return(domain.User{Name: "Asha", WalletBalance: domain.Rupees(50000)}, true)
	mockAPI.On("RecordAttempt", ctx, "f1").Return(&domain.AttemptResult{}, nil).Once()
	mockAPI.On("CreateBooking", ctx, mock.Anything).Return(&domain.BookingReceipt{WalletBalance: domain.Rupees(45000)}, nil).Once()
	mockSession.On("UpdateWalletBalance", ctx, domain.Rupees(45000)).Return(nil).Once()
	mockProducer.On("Publish", ctx, "activity", "Asha", mock.Anything).Return(errors.New("broker down")).Once()

	_, err := service.Confirm(ctx, testFlight(), "Asha")

	assert.NoError(t, err)
}

func TestBookingService_History(t *testing.T) {
	mockAPI := &MockBookingAPI{}
	mockSession := &MockSession{}
	service := NewBookingService(mockAPI, mockSession, quiet)
	ctx := context.Background()

	bookings := []domain.Booking{{ID: "b1", PNR: "ABC123"}}
	mockSession.On("Current").Return(domain.User{Name: "Asha"}, true)
	mockAPI.On("ListBookings", ctx).Return(bookings, nil).Once()

	result, err := service.History(ctx)

	assert.NoError(t, err)
	assert.Equal(t, bookings, result)
}

func TestBookingService_History_NotAuthenticated(t *testing.T) {
	mockAPI := &MockBookingAPI{}
	mockSession := &MockSession{}
	service := NewBookingService(mockAPI, mockSession, quiet)
	mockSession.On("Current").Return(domain.User{}, false)

	_, err := service.History(context.Background())

	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	mockAPI.AssertNotCalled(t, "ListBookings", mock.Anything)
}

func TestBookingService_Get(t *testing.T) {
	mockAPI := &MockBookingAPI{}
	service := NewBookingService(mockAPI, &MockSession{}, quiet)
	ctx := context.Background()

	booking := &domain.Booking{ID: "b1"}
	mockAPI.On("GetBooking", ctx, "b1").Return(booking, nil).Once()

	result, err := service.Get(ctx, "b1")
	assert.NoError(t, err)
	assert.Equal(t, booking, result)

	_, err = service.Get(ctx, "")
	assert.Error(t, err)
}

func TestBookingService_DownloadTicket(t *testing.T) {
	mockAPI := &MockBookingAPI{}
	mockSession := &MockSession{}
	mockProducer := &MockProducer{}
	fixed := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	service := NewBookingService(mockAPI, mockSession, quiet,
		WithActivity(mockProducer, "activity"),
		WithClock(func() time.Time { return fixed }))
	ctx := context.Background()
	dir := t.TempDir()

	pdf := []byte("%PDF-1.3 ticket")
	mockAPI.On("DownloadTicket", ctx, "b1").Return(pdf, nil).Once()
	mockSession.On("Current").Return(domain.User{Name: "Asha"}, true)
	mockProducer.On("Publish", ctx, "activity", "Asha", mock.MatchedBy(func(event kafka.ActivityEvent) bool {
		return event.Type == kafka.EventTicketDownloaded && event.PNR == "ABC123" && event.OccurredAt.Equal(fixed)
	})).Return(nil).Once()

	path, err := service.DownloadTicket(ctx, domain.Booking{ID: "b1", PNR: "ABC123"}, dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ticket-ABC123.pdf"), path)
	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pdf, saved)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_DownloadTicket_Error(t *testing.T) {
	mockAPI := &MockBookingAPI{}
	service := NewBookingService(mockAPI, &MockSession{}, quiet)
	ctx := context.Background()
	dir := t.TempDir()

	mockAPI.On("DownloadTicket", ctx, "b1").Return(nil, &apiclient.Error{Status: 404}).Once()

	_, err := service.DownloadTicket(ctx, domain.Booking{ID: "b1", PNR: "ABC123"}, dir)

	assert.True(t, apiclient.IsNotFound(err))
	_, statErr := os.Stat(filepath.Join(dir, "ticket-ABC123.pdf"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestTicketFilename(t *testing.T) {
	assert.Equal(t, "ticket-ABC123.pdf", TicketFilename("ABC123"))
}
