package pollservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollweb/internal/core/domain"
	"github.com/vncsmyrnk/pollweb/internal/core/ports"
	"github.com/vncsmyrnk/pollweb/internal/logging"
)

const (
	requestIDHeader = "X-Request-ID"
	maxErrorBody    = 512
)

// Client talks to the remote poll service. It neither caches nor retries.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

var (
	_ ports.PollClient = (*Client)(nil)
	_ ports.AuthClient = (*Client)(nil)
)

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid poll service url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid poll service url %q: scheme must be http or https", baseURL)
	}

	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// WithHTTPClient swaps the underlying client, mostly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

type voteRequest struct {
	OptionIndex int `json:"option_index"`
}

type createPollRequest struct {
	Title   string   `json:"title"`
	Options []string `json:"options"`
	Votes   []int    `json:"votes"`
}

func (c *Client) ListPolls(ctx context.Context) ([]domain.Poll, error) {
	const op = "list polls"

	resp, err := c.do(ctx, op, http.MethodGet, "polls", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	polls := []domain.Poll{}
	if err := json.NewDecoder(resp.Body).Decode(&polls); err != nil {
		return nil, &domain.NetworkError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	for _, p := range polls {
		if err := p.Validate(); err != nil {
			logging.Log.Warnf("poll %s: %v", p.ID, err)
		}
	}
	return polls, nil
}

func (c *Client) GetPoll(ctx context.Context, id domain.PollID) (*domain.Poll, error) {
	const op = "get poll"

	path, err := pollPath(id)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		var netErr *domain.NetworkError
		if errors.As(err, &netErr) && netErr.StatusCode == http.StatusNotFound {
			return nil, domain.ErrPollNotFound
		}
		return nil, err
	}
	defer resp.Body.Close()

	var poll domain.Poll
	if err := json.NewDecoder(resp.Body).Decode(&poll); err != nil {
		return nil, &domain.NetworkError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return &poll, nil
}

func (c *Client) CreatePoll(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	const op = "create poll"

	body := createPollRequest{
		Title:   input.Title,
		Options: input.Options,
		Votes:   make([]int, len(input.Options)),
	}
	resp, err := c.do(ctx, op, http.MethodPost, "poll", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var poll domain.Poll
	if err := json.NewDecoder(resp.Body).Decode(&poll); err != nil {
		return nil, &domain.NetworkError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return &poll, nil
}

func (c *Client) SubmitVote(ctx context.Context, vote domain.VoteSubmission) error {
	const op = "submit vote"

	path, err := pollPath(vote.PollID, "vote")
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, op, http.MethodPost, path, voteRequest{OptionIndex: vote.OptionIndex})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) Login(ctx context.Context, creds ports.Credentials) (string, error) {
	return c.token(ctx, "login", "login", creds)
}

func (c *Client) Register(ctx context.Context, creds ports.Credentials) (string, error) {
	return c.token(ctx, "register", "register", creds)
}

// pollPath builds poll/{id}[/suffix...]. Dot segments would be cleaned away
// when joined onto the base URL, so those ids never name a poll.
func pollPath(id domain.PollID, suffix ...string) (string, error) {
	switch id {
	case "", ".", "..":
		return "", fmt.Errorf("%w: %q", domain.ErrPollNotFound, string(id))
	}
	return strings.Join(append([]string{"poll", url.PathEscape(string(id))}, suffix...), "/"), nil
}

// token handles the login and register calls, which answer with the raw token
// as the response body.
func (c *Client) token(ctx context.Context, op, path string, creds ports.Credentials) (string, error) {
	resp, err := c.do(ctx, op, http.MethodPost, path, creds)
	if err != nil {
		var netErr *domain.NetworkError
		if errors.As(err, &netErr) {
			switch netErr.StatusCode {
			case http.StatusUnauthorized:
				return "", domain.ErrInvalidCredentials
			case http.StatusConflict:
				return "", domain.ErrUserExists
			}
		}
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.NetworkError{Op: op, Err: fmt.Errorf("failed to read token: %w", err)}
	}
	return strings.Trim(strings.TrimSpace(string(raw)), `"`), nil
}

// do sends one request. Non-2xx responses are turned into a NetworkError and
// their body is closed; on success the caller owns the body.
func (c *Client) do(ctx context.Context, op, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), reader)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", op, err)
	}

	requestID := middleware.GetReqID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session, ok := domain.SessionFromContext(ctx); ok && session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.Log.Errorf("%s %s (request %s) failed: %v", method, req.URL.Path, requestID, err)
		return nil, &domain.NetworkError{Op: op, Err: err}
	}
	logging.Log.Debugf("%s %s (request %s) -> %d in %s", method, req.URL.Path, requestID, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, &domain.NetworkError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(statusReason(resp))}
	}
	return resp, nil
}

func statusReason(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if reason := strings.TrimSpace(string(raw)); reason != "" {
		return reason
	}
	return http.StatusText(resp.StatusCode)
}
