// Package attempts is the client for the remote attempt service.
//
// The service generates boards, records one attempt per play-through and
// evaluates achievements against finished attempts. Every call is a single
// authenticated JSON request; the client performs no retries.
//
// # Usage
//
//	c := attempts.NewClient(attempts.Config{
//	    BaseURL: "https://puzzles.example.com",
//	    Token:   playerJWT,
//	})
//
//	id, err := c.StartAttempt(ctx, puzzle.ID, game.TypePipes)
package attempts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/robalobadob/memorylane/apps/go-server/internal/achievement"
	"github.com/robalobadob/memorylane/apps/go-server/internal/game"
)

// Config holds configuration for the client.
type Config struct {
	// BaseURL is the service root, e.g. "http://localhost:5175".
	BaseURL string

	// Token is the player's bearer token.
	Token string

	// HTTPClient allows injecting a custom HTTP client (useful for testing).
	// Defaults to a client with a 10s timeout.
	HTTPClient *http.Client

	// UserAgent overrides the User-Agent header. Optional.
	UserAgent string
}

// Client talks to the attempt service. It is safe for concurrent use.
type Client struct {
	config Config
	http   *http.Client
	mu     sync.RWMutex
}

// NewClient creates a client with the given configuration.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{config: cfg, http: httpClient}
}

// SetToken replaces the bearer token (thread-safe).
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config.Token = token
}

// Token returns the current bearer token (thread-safe).
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.Token
}

// CreatePuzzle asks the service for a fresh board.
func (c *Client) CreatePuzzle(ctx context.Context, t game.Type, params map[string]any) (Puzzle, error) {
	var p Puzzle
	if err := c.do(ctx, "/puzzles", CreatePuzzleRequest{GameType: t, Params: params}, &p); err != nil {
		return Puzzle{}, err
	}
	if p.ID == "" || len(p.Layout) == 0 {
		return Puzzle{}, fmt.Errorf("%w: puzzle without id or layout", ErrMalformed)
	}
	return p, nil
}

// StartAttempt opens an attempt record and returns its id.
func (c *Client) StartAttempt(ctx context.Context, puzzleID string, t game.Type) (string, error) {
	var res StartAttemptResponse
	if err := c.do(ctx, "/attempts", StartAttemptRequest{PuzzleID: puzzleID, GameType: t}, &res); err != nil {
		return "", err
	}
	if res.AttemptID == "" {
		return "", fmt.Errorf("%w: empty attempt id", ErrMalformed)
	}
	return res.AttemptID, nil
}

// FinishAttempt records the result of an attempt.
func (c *Client) FinishAttempt(ctx context.Context, attemptID string, r Result) error {
	var ack Ack
	if err := c.do(ctx, "/attempts/"+url.PathEscape(attemptID)+"/finish", r, &ack); err != nil {
		return err
	}
	if !ack.OK {
		return fmt.Errorf("%w: finish not acknowledged", ErrMalformed)
	}
	return nil
}

// CheckAchievements evaluates achievements for a finished attempt and
// returns the newly unlocked ones.
func (c *Client) CheckAchievements(ctx context.Context, attemptID string) ([]achievement.Achievement, error) {
	var res AchievementsResponse
	if err := c.do(ctx, "/attempts/"+url.PathEscape(attemptID)+"/achievements", nil, &res); err != nil {
		return nil, err
	}
	return res.Achievements, nil
}

// do sends a single POST request and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, path string, body, out any) error {
	var rd io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("attempts: marshal request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, rd)
	if err != nil {
		return fmt.Errorf("attempts: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("attempts: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("attempts: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

func errorCode(body []byte) string {
	var e ErrorResponse
	if json.Unmarshal(body, &e) != nil {
		return ""
	}
	return e.Error
}
