package booking

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Domenick1991/flightbook/config"
	"github.com/Domenick1991/flightbook/internal/apiclient"
	"github.com/Domenick1991/flightbook/internal/domain"
	"github.com/Domenick1991/flightbook/internal/fakebackend"
	"github.com/Domenick1991/flightbook/internal/session"
	"github.com/Domenick1991/flightbook/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scenario struct {
	client  *apiclient.Client
	store   *storage.MemoryStore
	session *session.Store
	service *BookingService
}

func newScenario(t *testing.T, backend config.BackendConfig, opts ...fakebackend.Option) *scenario {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	opts = append([]fakebackend.Option{fakebackend.WithLogger(logger)}, opts...)
	httpServer := httptest.NewServer(fakebackend.New(backend, opts...).Handler())
	t.Cleanup(httpServer.Close)

	store := storage.NewMemoryStore()
	client, err := apiclient.New(httpServer.URL+"/api", storage.NewTokenSource(store), apiclient.WithLogger(logger))
	require.NoError(t, err)
	sessions := session.NewStore(client, store, session.WithLogger(logger))
	require.NoError(t, sessions.Init(context.Background()))

	return &scenario{
		client:  client,
		store:   store,
		session: sessions,
		service: NewBookingService(client, sessions, WithLogger(logger)),
	}
}

func (s *scenario) register(t *testing.T) domain.User {
	t.Helper()
	user, err := s.session.Register(context.Background(), domain.RegisterInput{Name: "Asha", Email: "asha@example.com", Password: "secret123"})
	require.NoError(t, err)
	return user
}

func storedUser(t *testing.T, store storage.Store) domain.User {
	t.Helper()
	raw, err := store.Get(context.Background(), storage.KeyUser)
	require.NoError(t, err)
	var user domain.User
	require.NoError(t, json.Unmarshal([]byte(raw), &user))
	return user
}

func TestScenario_InsufficientBalanceLeavesWalletAlone(t *testing.T) {
	backend := config.Default().Backend
	backend.StartingBalance = 3000
	s := newScenario(t, backend, fakebackend.WithFlights([]domain.Flight{{ID: "f1", Airline: "IndiGo", BasePrice: domain.Rupees(5000)}}))
	s.register(t)
	ctx := context.Background()

	flight, err := s.client.GetFlight(ctx, "f1")
	require.NoError(t, err)

	result, err := s.service.Confirm(ctx, *flight, "Asha")

	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.Nil(t, result)

	user, _ := s.session.Current()
	assert.Equal(t, domain.Rupees(3000), user.WalletBalance)
	assert.Equal(t, domain.Rupees(3000), storedUser(t, s.store).WalletBalance)

	// The backend refuses as well when the client check is bypassed.
	_, err = s.client.CreateBooking(ctx, domain.CreateBookingInput{FlightID: "f1", PassengerName: "Asha"})
	assert.Equal(t, "Insufficient wallet balance", apiclient.MessageOf(err, ""))

	wallet, err := s.client.GetWallet(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Rupees(3000), wallet.WalletBalance)
}

func TestScenario_SurgeIsCharged(t *testing.T) {
	s := newScenario(t, config.Default().Backend, fakebackend.WithFlights([]domain.Flight{{ID: "f1", Airline: "IndiGo", BasePrice: domain.Rupees(5000)}}))
	s.register(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := s.client.RecordAttempt(ctx, "f1")
		require.NoError(t, err)
	}
	flight, err := s.client.GetFlight(ctx, "f1")
	require.NoError(t, err)
	require.False(t, flight.SurgeApplied)

	result, err := s.service.Confirm(ctx, *flight, "Asha")
	require.NoError(t, err)

	assert.True(t, result.PriceIncreased)
	assert.Equal(t, SurgeNotice, result.Notice)
	assert.Equal(t, domain.Rupees(5500), result.Attempt.CurrentPrice)
	assert.Equal(t, domain.Rupees(5500), result.Receipt.FinalPrice)
	assert.Equal(t, domain.Rupees(44500), result.Receipt.WalletBalance)

	user, _ := s.session.Current()
	assert.Equal(t, domain.Rupees(44500), user.WalletBalance)
	assert.Equal(t, domain.Rupees(44500), storedUser(t, s.store).WalletBalance)
}

func TestScenario_SurgePushesPriceOverBalance(t *testing.T) {
	backend := config.Default().Backend
	backend.StartingBalance = 5200
	s := newScenario(t, backend, fakebackend.WithFlights([]domain.Flight{{ID: "f1", Airline: "IndiGo", BasePrice: domain.Rupees(5000)}}))
	s.register(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := s.client.RecordAttempt(ctx, "f1")
		require.NoError(t, err)
	}
	flight, err := s.client.GetFlight(ctx, "f1")
	require.NoError(t, err)

	result, err := s.service.Confirm(ctx, *flight, "Asha")

	assert.Equal(t, "Insufficient wallet balance", apiclient.MessageOf(err, ""))
	require.NotNil(t, result)
	assert.True(t, result.PriceIncreased)
	assert.Equal(t, SurgeNotice, result.Notice)

	user, _ := s.session.Current()
	assert.Equal(t, domain.Rupees(5200), user.WalletBalance)
}

func TestScenario_TicketSavedUnderPNR(t *testing.T) {
	s := newScenario(t, config.Default().Backend, fakebackend.WithPNRGenerator(func() string { return "ABC123" }))
	s.register(t)
	ctx := context.Background()

	flight, err := s.client.GetFlight(ctx, "fl-del-bom-1")
	require.NoError(t, err)
	result, err := s.service.Confirm(ctx, *flight, "Asha Rao")
	require.NoError(t, err)

	history, err := s.service.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)

	dir := t.TempDir()
	path, err := s.service.DownloadTicket(ctx, history[0], dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "ticket-ABC123.pdf"), path)
	assert.Equal(t, "ABC123", result.Receipt.PNR)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}
