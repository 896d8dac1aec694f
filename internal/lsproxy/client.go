// Package lsproxy implements the HTTP client for the lsproxy symbol
// service (workspace file listing, per-file definitions, references).
package lsproxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultBaseURL is where the dockerized lsproxy listens.
const DefaultBaseURL = "http://localhost:4444/v1"

// RetryPolicy bounds the retry behavior of every call. Retries fire only
// on transport failures and 5xx responses; 4xx responses fail immediately.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Config carries everything a Client needs. It is built once and never
// mutated after New; there is no shared process-wide client state.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Retry   RetryPolicy
}

// DefaultConfig returns the configuration used by the CLI unless flags
// override it.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: 30 * time.Second,
		Retry: RetryPolicy{
			MaxAttempts: 3,
			BaseDelay:   1 * time.Second,
			MaxDelay:    10 * time.Second,
		},
	}
}

// StatusError is a non-2xx response from the symbol service.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("lsproxy: status %d: %s", e.Status, e.Body)
}

// Client talks to one lsproxy instance. All calls are idempotent and safe
// to retry; they block until the service answers or the retry budget is
// exhausted.
type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

// New creates a client from an immutable config.
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  logger,
	}
}

// ListFiles returns every workspace-relative file path the service has
// indexed.
func (c *Client) ListFiles(ctx context.Context) ([]string, error) {
	var files []string
	if err := c.do(ctx, http.MethodGet, "/workspace/list-files", nil, nil, &files); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

// DefinitionsInFile returns the symbols defined in one file, with their
// full-definition source contexts when requested.
func (c *Client) DefinitionsInFile(ctx context.Context, req FileSymbolsRequest) (*SymbolResponse, error) {
	query := url.Values{}
	query.Set("file_path", req.FilePath)
	query.Set("include_source_code", strconv.FormatBool(req.IncludeSourceCode))

	var resp SymbolResponse
	if err := c.do(ctx, http.MethodGet, "/symbol/definitions-in-file", query, nil, &resp); err != nil {
		return nil, fmt.Errorf("definitions in %s: %w", req.FilePath, err)
	}
	c.log.Debug("retrieved symbols", slog.String("file", req.FilePath), slog.Int("count", len(resp.Symbols)))
	return &resp, nil
}

// FindReferences returns every reference site for the symbol starting at
// req.StartPosition.
func (c *Client) FindReferences(ctx context.Context, req ReferencesRequest) (*ReferencesResponse, error) {
	var resp ReferencesResponse
	if err := c.do(ctx, http.MethodPost, "/symbol/find-references", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("references for %s:%d: %w",
			req.StartPosition.Path, req.StartPosition.Pos.Line, err)
	}
	c.log.Debug("found references",
		slog.String("file", req.StartPosition.Path),
		slog.Int("count", len(resp.References)))
	return &resp, nil
}

// do performs one request with the client's retry policy applied at the
// call boundary. Transport errors and 5xx responses are retried with
// exponential backoff; 4xx responses are permanent.
func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, body, out any) error {
	operation := func() error {
		var reader io.Reader
		if body != nil {
			buf, err := json.Marshal(body)
			if err != nil {
				return backoff.Permanent(fmt.Errorf("encoding request: %w", err))
			}
			reader = bytes.NewReader(buf)
		}

		u := c.cfg.BaseURL + endpoint
		if len(query) > 0 {
			u += "?" + query.Encode()
		}

		req, err := http.NewRequestWithContext(ctx, method, u, reader)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			c.log.Warn("lsproxy request failed, will retry",
				slog.String("endpoint", endpoint), slog.String("error", err.Error()))
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			statusErr := &StatusError{Status: resp.StatusCode, Body: string(respBody)}
			if resp.StatusCode >= 500 {
				c.log.Warn("lsproxy server error, will retry",
					slog.String("endpoint", endpoint), slog.Int("status", resp.StatusCode))
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding response: %w", err))
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.cfg.Retry.BaseDelay
	policy.MaxInterval = c.cfg.Retry.MaxDelay

	attempts := uint64(0)
	if c.cfg.Retry.MaxAttempts > 1 {
		attempts = uint64(c.cfg.Retry.MaxAttempts - 1)
	}

	return backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, attempts), ctx))
}

// WaitReady polls the workspace listing until the service answers or the
// deadline passes. Used after launching the container.
func (c *Client) WaitReady(ctx context.Context, within time.Duration) error {
	deadline := time.Now().Add(within)
	for {
		if _, err := c.ListFiles(ctx); err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("lsproxy at %s not ready after %s", c.cfg.BaseURL, within)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
}
