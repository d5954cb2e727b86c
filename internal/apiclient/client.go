// Package apiclient is a typed HTTP client for the flight booking backend.
// Each backend operation is one method issuing exactly one request; there is
// no retry, caching or deduplication. Every request passes through decorate,
// which attaches the bearer token currently held in durable storage.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Domenick1991/flightbook/internal/domain"
)

// TokenSource yields the current credential, or "" when logged out.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
	tokens     TokenSource
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout bounds each request. Zero leaves the transport default. It
// applies to the client given by WithHTTPClient regardless of option order.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func New(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	client := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{},
		tokens:     tokens,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.timeout > 0 {
		withTimeout := *client.httpClient
		withTimeout.Timeout = client.timeout
		client.httpClient = &withTimeout
	}
	return client, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) Register(ctx context.Context, profile domain.RegisterInput) (*domain.User, error) {
	var user domain.User
	if err := c.doJSON(ctx, "register", http.MethodPost, "/auth/register", nil, profile, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Login(ctx context.Context, credentials domain.Credentials) (*domain.User, error) {
	var user domain.User
	if err := c.doJSON(ctx, "login", http.MethodPost, "/auth/login", nil, credentials, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetWallet(ctx context.Context) (*domain.Wallet, error) {
	var wallet domain.Wallet
	if err := c.doJSON(ctx, "get wallet", http.MethodGet, "/auth/wallet", nil, nil, &wallet); err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (c *Client) ListFlights(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	query := url.Values{}
	if filter.DepartureCity != "" {
		query.Set("departure_city", filter.DepartureCity)
	}
	if filter.ArrivalCity != "" {
		query.Set("arrival_city", filter.ArrivalCity)
	}
	if filter.SortBy != domain.SortDefault {
		query.Set("sortBy", string(filter.SortBy))
	}

	flights := make([]domain.Flight, 0)
	if err := c.doJSON(ctx, "list flights", http.MethodGet, "/flights", query, nil, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *Client) GetFlight(ctx context.Context, id string) (*domain.Flight, error) {
	var flight domain.Flight
	if err := c.doJSON(ctx, "get flight", http.MethodGet, "/flights/"+url.PathEscape(id), nil, nil, &flight); err != nil {
		return nil, err
	}
	return &flight, nil
}

func (c *Client) RecordAttempt(ctx context.Context, flightID string) (*domain.AttemptResult, error) {
	var result domain.AttemptResult
	if err := c.doJSON(ctx, "record attempt", http.MethodPost, "/flights/"+url.PathEscape(flightID)+"/attempt", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) CreateBooking(ctx context.Context, input domain.CreateBookingInput) (*domain.BookingReceipt, error) {
	var receipt domain.BookingReceipt
	if err := c.doJSON(ctx, "create booking", http.MethodPost, "/bookings", nil, input, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (c *Client) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	bookings := make([]domain.Booking, 0)
	if err := c.doJSON(ctx, "list bookings", http.MethodGet, "/bookings", nil, nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	var booking domain.Booking
	if err := c.doJSON(ctx, "get booking", http.MethodGet, "/bookings/"+url.PathEscape(id), nil, nil, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// DownloadTicket returns the raw ticket document.
func (c *Client) DownloadTicket(ctx context.Context, bookingID string) ([]byte, error) {
	const op = "download ticket"

	request, err := c.newRequest(ctx, op, http.MethodGet, "/bookings/"+url.PathEscape(bookingID)+"/pdf", nil, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept", "application/pdf")

	response, err := c.send(op, request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &Error{Op: op, Err: fmt.Errorf("reading body: %w", err)}
	}
	return data, nil
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	request, err := c.newRequest(ctx, op, method, path, query, body)
	if err != nil {
		return err
	}
	request.Header.Set("Accept", "application/json")

	response, err := c.send(op, request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return &Error{Op: op, Status: response.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, op, method, path string, query url.Values, body any) (*http.Request, error) {
	target := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Op: op, Err: fmt.Errorf("encoding request body: %w", err)}
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if err := c.decorate(ctx, request); err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	return request, nil
}

// decorate runs for every outbound request.
func (c *Client) decorate(ctx context.Context, request *http.Request) error {
	if c.tokens == nil {
		return nil
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("reading token: %w", err)
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// send performs the request and turns non-2xx responses into *Error. On
// success the caller owns the response body.
func (c *Client) send(op string, request *http.Request) (*http.Response, error) {
	start := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		c.logger.Debug("api request failed", "op", op, "method", request.Method, "path", request.URL.Path, "error", err)
		return nil, &Error{Op: op, Err: err}
	}

	c.logger.Debug("api request",
		"op", op,
		"method", request.Method,
		"path", request.URL.Path,
		"status", response.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		defer response.Body.Close()
		return nil, &Error{Op: op, Status: response.StatusCode, Message: readErrorMessage(response.Body)}
	}
	return response, nil
}
