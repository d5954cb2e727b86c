package cli

import (
	"errors"

	"github.com/Domenick1991/flightbook/internal/apiclient"
)

// Failure is a user-facing one-line error: the headline plus the backend's
// message when there is one.
type Failure struct {
	Headline string
	Err      error
}

// Error is the headline alone when the backend message already is the headline.
func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Headline
	}
	if message := detail(f.Err); message != f.Headline {
		return f.Headline + ": " + message
	}
	return f.Headline
}

func (f *Failure) Unwrap() error { return f.Err }

func failure(headline string, err error) error {
	return &Failure{Headline: headline, Err: err}
}

func detail(err error) string {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiclient.IsTransport(err) {
			return "backend unreachable"
		}
	}
	return err.Error()
}
