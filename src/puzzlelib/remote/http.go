package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jigsaw/src/puzzlelib/base"
)

const DefaultTimeout = 8 * time.Second

// HTTPClient talks to the puzzle REST backend under <base>/api.
type HTTPClient struct {
	base    string
	client  *http.Client
	session Session
	now     func() time.Time
}

type HTTPOption func(*HTTPClient)

func WithTimeout(d time.Duration) HTTPOption {
	return func(c *HTTPClient) { c.client.Timeout = d }
}

// WithHTTPClient replaces the transport, e.g. with an httptest server's client.
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(c *HTTPClient) { c.client = hc }
}

// WithSession sends the session token as a bearer credential until it expires.
func WithSession(s Session) HTTPOption {
	return func(c *HTTPClient) { c.session = s }
}

func NewHTTPClient(baseURL string, opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		base:   strings.TrimRight(baseURL, "/") + "/api",
		client: &http.Client{Timeout: DefaultTimeout},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) FetchPuzzles(ctx context.Context, f PuzzleFilter) ([]base.Puzzle, error) {
	v := url.Values{}
	if f.Category != "" {
		v.Set("category", f.Category)
	}
	if f.Status != "" && f.Status != "all" {
		v.Set("status", f.Status)
	}
	if f.Featured != nil {
		v.Set("featured", strconv.FormatBool(*f.Featured))
	}
	path := "/puzzles"
	if len(v) > 0 {
		path += "?" + v.Encode()
	}
	var out []base.Puzzle
	if err := c.do(ctx, "fetch puzzles", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) FetchPuzzle(ctx context.Context, id string) (base.Puzzle, error) {
	var p base.Puzzle
	err := c.do(ctx, "fetch puzzle", http.MethodGet, "/puzzles/"+url.PathEscape(id), nil, &p)
	return p, err
}

func (c *HTTPClient) FetchPieceImages(ctx context.Context, puzzleID, difficulty string) ([]string, error) {
	var body struct {
		Pieces []string `json:"pieces"`
	}
	path := "/puzzles/" + url.PathEscape(puzzleID) + "/pieces/" + url.PathEscape(difficulty)
	if err := c.do(ctx, "fetch pieces", http.MethodGet, path, nil, &body); err != nil {
		return nil, err
	}
	return body.Pieces, nil
}

func (c *HTTPClient) SubmitScore(ctx context.Context, s ScoreSubmission) (RankInfo, error) {
	var info RankInfo
	err := c.do(ctx, "submit score", http.MethodPost, "/scores", s, &info)
	return info, err
}

func (c *HTTPClient) FetchLeaderboard(ctx context.Context, q LeaderboardQuery) ([]LeaderboardEntry, error) {
	v := url.Values{}
	if q.PuzzleID != "" {
		v.Set("puzzle_id", q.PuzzleID)
	}
	if q.Difficulty != "" {
		v.Set("difficulty", q.Difficulty)
	}
	tf := q.Timeframe
	if tf == "" {
		tf = AllTime
	}
	v.Set("timeframe", string(tf))
	v.Set("limit", strconv.Itoa(q.limit()))

	var out []LeaderboardEntry
	if err := c.do(ctx, "fetch leaderboard", http.MethodGet, "/scores/leaderboard?"+v.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Verify logs in at /admin/login. The backend keys accounts by email, so
// Credentials.Username carries it.
func (c *HTTPClient) Verify(ctx context.Context, cr Credentials) (Session, error) {
	in := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: cr.Username, Password: cr.Password}
	var out struct {
		Token     string    `json:"token"`
		ExpiresAt Timestamp `json:"expires_at"`
		User      struct {
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"user"`
	}
	if err := c.do(ctx, "login", http.MethodPost, "/admin/login", in, &out); err != nil {
		return Session{}, err
	}
	if out.Token == "" {
		return Session{}, &NetworkError{Op: "login", Status: http.StatusOK, Err: errors.New("no token in response")}
	}
	name := out.User.Email
	if name == "" {
		name = cr.Username
	}
	return Session{Token: out.Token, Username: name, ExpiresAt: out.ExpiresAt.Time}, nil
}

func (c *HTTPClient) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("error encode %s request: %w", op, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.Token != "" && !c.session.Expired(c.now()) {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &NetworkError{Op: op, Status: resp.StatusCode, Err: statusError(resp)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("error decode response: %w", err)}
	}
	return nil
}

// statusError keeps the backend's {"detail": ...} or {"error": ...} message
// when there is one.
func statusError(resp *http.Response) error {
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	msg := http.StatusText(resp.StatusCode)
	if json.Unmarshal(raw, &payload) == nil {
		switch {
		case payload.Detail != "":
			msg = payload.Detail
		case payload.Error != "":
			msg = payload.Error
		}
	}
	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrAuth, msg)
	case http.StatusBadRequest:
		if strings.Contains(strings.ToLower(msg), "difficulty") {
			return fmt.Errorf("%w: %s", ErrUnsupportedLevel, msg)
		}
	default:
	}
	return errors.New(msg)
}
