package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"teebay-client/internal/domain"
)

// TokenSource supplies the bearer credential for outgoing requests. It is
// read at call time for every request, never cached at client creation, so
// a refreshed session takes effect immediately. An absent token means the
// request proceeds unauthenticated and the server is expected to reject it.
type TokenSource interface {
	CurrentToken() (string, bool)
}

// Client talks to the Teebay GraphQL endpoint. It implements the catalog
// query, booking mutation, product mutation, and auth collaborator
// interfaces consumed by the stores and the booking resolver.
type Client struct {
	endpoint string
	http     *http.Client
	tokens   TokenSource
	validate *validator.Validate
	logger   *log.Logger
}

// NewClient creates a client for the given GraphQL endpoint. A zero
// timeout falls back to 15 seconds; a nil logger to the process default.
func NewClient(endpoint string, tokens TokenSource, timeout time.Duration, logger *log.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		endpoint: endpoint,
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		tokens:   tokens,
		validate: validator.New(),
		logger:   logger,
	}
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors,omitempty"`
}

// do executes one GraphQL request and unmarshals the data payload into
// out. HTTP-level failures, transport errors, and GraphQL errors all map
// to *domain.RemoteError so callers have a single failure shape.
func (c *Client) do(ctx context.Context, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("api: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("api: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if token, ok := c.tokens.CurrentToken(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.RemoteError{StatusCode: "0", StatusMessage: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Printf("WARN: server returned %s for request", resp.Status)
		return &domain.RemoteError{
			StatusCode:    strconv.Itoa(resp.StatusCode),
			StatusMessage: strings.TrimSpace(string(msg)),
		}
	}

	var envelope graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("api: decoding response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return &domain.RemoteError{StatusCode: "400", StatusMessage: envelope.Errors[0].Message}
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("api: decoding data payload: %w", err)
		}
	}
	return nil
}
