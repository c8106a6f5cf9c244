// Package content talks to the rlpro backend for stored cards, learning
// modules, generated test questions and exports.
package content

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

	"github.com/rlpro/rlpro/internal/llm"
)

// DefaultURL is where the backend listens when nothing is configured.
const DefaultURL = "http://127.0.0.1:8000"

// Client is an HTTP client for the content endpoints. It performs no
// retries; a non-2xx reply is returned as *llm.ErrServer carrying the body.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client for the backend at baseURL, or DefaultURL when it
// is empty.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 2 * time.Minute},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address.
func (c *Client) BaseURL() string { return c.baseURL }

// StartSession asks the backend to open a study session and returns its id.
func (c *Client) StartSession(ctx context.Context) (string, error) {
	var out struct {
		SessionID string `json:"session_id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/session/start", struct{}{}, &out); err != nil {
		return "", fmt.Errorf("start session: %w", err)
	}
	return out.SessionID, nil
}

// NextPracticeItem returns the next scheduled card, optionally restricted
// to the given sections.
func (c *Client) NextPracticeItem(ctx context.Context, sections []string) (*PracticeItem, error) {
	var out PracticeItem
	body := practiceNextRequest{Sections: sections}
	if err := c.doJSON(ctx, http.MethodPost, "/practice/next", body, &out); err != nil {
		return nil, fmt.Errorf("next practice item: %w", err)
	}
	return &out, nil
}

// ListCards returns every stored card.
func (c *Client) ListCards(ctx context.Context) ([]Card, error) {
	var out []Card
	if err := c.doJSON(ctx, http.MethodGet, "/cards", nil, &out); err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return out, nil
}

// Grade scores an answer on the backend and updates its scheduler.
func (c *Client) Grade(ctx context.Context, req GradeRequest) (*GradeResult, error) {
	if err := validateBody(req); err != nil {
		return nil, err
	}
	var out GradeResult
	if err := c.doJSON(ctx, http.MethodPost, "/grade", req, &out); err != nil {
		return nil, fmt.Errorf("grade: %w", err)
	}
	return &out, nil
}

// GenerateTestQuestions asks for count questions grounded in content.
func (c *Client) GenerateTestQuestions(ctx context.Context, content string, count int) ([]TestQuestion, error) {
	req := generateTestsRequest{Content: content, QuestionCount: count}
	if err := validateBody(req); err != nil {
		return nil, err
	}
	var out struct {
		Questions []TestQuestion `json:"questions"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/generate_tests", req, &out); err != nil {
		return nil, fmt.Errorf("generate test questions: %w", err)
	}
	return out.Questions, nil
}

// ExpandLearningNote turns a snippet into a teaching note of minWords to
// maxWords words.
func (c *Client) ExpandLearningNote(ctx context.Context, content string, minWords, maxWords int) (string, error) {
	req := expandRequest{Content: content, MinWords: minWords, MaxWords: maxWords}
	if err := validateBody(req); err != nil {
		return "", err
	}
	var out struct {
		Text string `json:"text"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/expand", req, &out); err != nil {
		return "", fmt.Errorf("expand learning note: %w", err)
	}
	return out.Text, nil
}

// LearnCard builds a teaching note with reflection prompts for a card.
func (c *Client) LearnCard(ctx context.Context, req LearnCardRequest) (*LearnCardResult, error) {
	if req.MinWords == 0 {
		req.MinWords = 180
	}
	if req.MaxWords == 0 {
		req.MaxWords = 320
	}
	if err := validateBody(req); err != nil {
		return nil, err
	}
	var out LearnCardResult
	if err := c.doJSON(ctx, http.MethodPost, "/learn_card", req, &out); err != nil {
		return nil, fmt.Errorf("learn card: %w", err)
	}
	return &out, nil
}

// LiveQuestion streams a single generated question. onChunk sees the body
// as it arrives; the returned result decodes to the question object when
// the body is valid JSON.
func (c *Client) LiveQuestion(ctx context.Context, content, cardType string, onChunk func(string)) (*llm.StreamResult, error) {
	req := liveQuestionRequest{
		Content:      content,
		CardType:     cardType,
		MaxNewTokens: 256,
		Temperature:  0.1,
		TopP:         0.9,
	}
	if err := validateBody(req); err != nil {
		return nil, err
	}
	resp, err := c.send(ctx, http.MethodPost, "/live_question", req)
	if err != nil {
		return nil, fmt.Errorf("live question: %w", err)
	}
	defer resp.Body.Close()

	res, err := llm.ReadChunks(resp.Body, onChunk)
	if err != nil {
		return nil, fmt.Errorf("live question: %w", &llm.ErrProviderUnavailable{Err: err})
	}
	return res, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	resp, err := c.send(ctx, method, path, in)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &llm.ErrProviderUnavailable{Err: fmt.Errorf("read response: %w", err)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &llm.ErrInvalidResponse{Content: body, Err: err}
	}
	return nil
}

// send issues the request and returns the response when its status is
// 2xx. The caller closes the body.
func (c *Client) send(ctx context.Context, method, path string, in any) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("marshal %s body: %w", path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("content request failed", "method", method, "path", path, "error", err)
		return nil, &llm.ErrProviderUnavailable{Err: err}
	}
	c.logger.Debug("content request", "method", method, "path", path, "status", resp.StatusCode, "latency", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		return nil, &llm.ErrServer{StatusCode: resp.StatusCode, Body: string(b)}
	}
	return resp, nil
}

func escape(id string) string {
	return url.PathEscape(id)
}
