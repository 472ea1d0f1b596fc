package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/fortify/timeout"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/desertthunder/morningcharge/internal/shared"
)

// RemoteTasks mirrors task deletions to a server.
type RemoteTasks struct {
	api      *APIService
	limiter  *rate.Limiter
	retryCfg retry.Config
	timeout  time.Duration
	logger   *log.Logger
}

// NewRemoteTasks creates a remote task client from cfg.
//
// When cfg carries complete client credentials the client authenticates with
// the OAuth2 client credentials flow, using client for token requests too.
func NewRemoteTasks(cfg shared.RemoteConfig, client *http.Client, logger *log.Logger) *RemoteTasks {
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	if err := cfg.CheckCredentials(); err != nil {
		logger.Warn("remote auth disabled", "error", err)
	} else if cfg.ClientID != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, client)
		client = cc.Client(ctx)
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	return &RemoteTasks{
		api:     NewAPIService(cfg.BaseURL, client),
		limiter: rate.NewLimiter(limit, 1),
		retryCfg: retry.Config{
			MaxAttempts:   attempts,
			InitialDelay:  200 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
		timeout: cfg.Timeout(),
		logger:  logger,
	}
}

// Enabled reports whether a base URL is configured.
func (r *RemoteTasks) Enabled() bool {
	return r.api.BaseURL() != ""
}

// DeleteTask issues DELETE {base}/tasks/{id}.
//
// Without a base URL it succeeds immediately. Any 2xx status is success.
// Client errors are not retried; transport failures and 5xx responses are.
func (r *RemoteTasks) DeleteTask(ctx context.Context, id int) error {
	if !r.Enabled() {
		return nil
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRateLimited, err)
	}

	path := fmt.Sprintf("/tasks/%d", id)
	t := timeout.New[*APIResponse](timeout.Config{DefaultTimeout: r.timeout})
	rt := retry.New[*APIResponse](r.retryCfg)

	resp, err := t.Execute(ctx, r.timeout, func(ctx context.Context) (*APIResponse, error) {
		return rt.Do(ctx, func(ctx context.Context) (*APIResponse, error) {
			resp, err := r.api.Delete(ctx, path)
			if err != nil {
				return nil, err
			}
			if resp.StatusCode >= http.StatusInternalServerError {
				return nil, fmt.Errorf("server returned %d", resp.StatusCode)
			}
			return resp, nil
		})
	})
	if err != nil {
		r.logger.Warn("remote delete failed", "id", id, "error", err)
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w after %s", shared.ErrRemoteDelete, shared.ErrTimeout, r.timeout)
		}
		return fmt.Errorf("%w: %v", shared.ErrRemoteDelete, err)
	}

	if !resp.OK() {
		r.logger.Warn("remote delete rejected", "id", id, "status", resp.StatusCode)
		return fmt.Errorf("%w: server returned %d", shared.ErrRemoteDelete, resp.StatusCode)
	}

	r.logger.Debug("remote delete", "id", id, "status", resp.StatusCode)
	return nil
}
