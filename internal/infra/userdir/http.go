package userdir

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/runoshun/taskdeck/internal/domain"
)

// HTTPDirectory queries a users service:
//
//	GET {base}/api/users?ids=a,b
//	GET {base}/api/users
//
// Both endpoints answer with a JSON array of users. Calls go through a
// circuit breaker that opens after more than three consecutive failures.
type HTTPDirectory struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	baseURL string
}

// HTTPOptions tunes an HTTPDirectory. Zero values select defaults.
type HTTPOptions struct {
	Client       *http.Client
	Log          *logrus.Logger
	OpenInterval time.Duration // How long the breaker stays open (default 5s)
}

// NewHTTPDirectory creates a directory for the users service at baseURL.
func NewHTTPDirectory(baseURL string, opts HTTPOptions) *HTTPDirectory {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	interval := opts.OpenInterval
	if interval == 0 {
		interval = 5 * time.Second
	}
	log := opts.Log

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "users-service",
		MaxRequests: 1,
		Timeout:     interval,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if log != nil {
				log.WithField("category", "users").Warnf("circuit breaker %s changed from %s to %s", name, from, to)
			}
		},
	})

	return &HTTPDirectory{
		client:  client,
		breaker: breaker,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Resolve returns summaries for the given IDs in the same order.
func (d *HTTPDirectory) Resolve(ctx context.Context, ids []string) ([]domain.UserSummary, error) {
	if len(ids) == 0 {
		return []domain.UserSummary{}, nil
	}
	query := url.Values{"ids": {strings.Join(ids, ",")}}
	users, err := d.fetch(ctx, "/api/users?"+query.Encode())
	if err != nil {
		return nil, err
	}
	return pick(users, ids), nil
}

// List returns every user known to the service.
func (d *HTTPDirectory) List(ctx context.Context) ([]domain.UserSummary, error) {
	return d.fetch(ctx, "/api/users")
}

// State returns the breaker state.
func (d *HTTPDirectory) State() gobreaker.State {
	return d.breaker.State()
}

func (d *HTTPDirectory) fetch(ctx context.Context, path string) ([]domain.UserSummary, error) {
	result, err := d.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := d.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("users service returned %s", resp.Status)
		}

		var users []domain.UserSummary
		if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
			return nil, fmt.Errorf("decode users: %w", err)
		}
		if users == nil {
			users = []domain.UserSummary{}
		}
		return users, nil
	})
	if err != nil {
		return nil, fmt.Errorf("users service: %w", err)
	}
	return result.([]domain.UserSummary), nil
}
