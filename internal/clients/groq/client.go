package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/researchdesk-backend/internal/pkg/ctxutil"
	"github.com/yungbote/researchdesk-backend/internal/pkg/httpx"
	"github.com/yungbote/researchdesk-backend/internal/pkg/logger"
)

// Tier selects which chat model handles a call. The planner runs on the fast
// tier; the analyst and writer run on the capable tier.
type Tier string

const (
	TierFast    Tier = "fast"
	TierCapable Tier = "capable"
)

// Client is the Groq chat-completions client used by the pipeline stages.
type Client interface {
	// GenerateJSON asks for a single JSON object and decodes it. Markdown
	// fences and surrounding prose in the completion are tolerated.
	GenerateJSON(ctx context.Context, tier Tier, system string, user string) (map[string]any, error)

	// GenerateText returns the raw completion text.
	GenerateText(ctx context.Context, tier Tier, system string, user string, temperature float64) (string, error)
}

type client struct {
	log          *logger.Logger
	baseURL      string
	apiKey       string
	fastModel    string
	capableModel string
	httpClient   *http.Client

	maxRetries int
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	apiKey := strings.TrimSpace(os.Getenv("GROQ_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing GROQ_API_KEY")
	}

	baseURL := strings.TrimSpace(os.Getenv("GROQ_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	fastModel := strings.TrimSpace(os.Getenv("GROQ_FAST_MODEL"))
	if fastModel == "" {
		fastModel = "llama-3.1-8b-instant"
	}
	capableModel := strings.TrimSpace(os.Getenv("GROQ_MODEL"))
	if capableModel == "" {
		capableModel = "llama-3.3-70b-versatile"
	}

	timeoutSec := 60
	if v := os.Getenv("GROQ_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	maxRetries := 2
	if v := os.Getenv("GROQ_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	return &client{
		log:          log.With("service", "GroqClient"),
		baseURL:      baseURL,
		apiKey:       apiKey,
		fastModel:    fastModel,
		capableModel: capableModel,
		httpClient:   &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries:   maxRetries,
	}, nil
}

type groqHTTPError struct {
	StatusCode int
	Body       string
}

func (e *groqHTTPError) Error() string {
	return fmt.Sprintf("groq http %d: %s", e.StatusCode, e.Body)
}

func (e *groqHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (c *client) model(tier Tier) string {
	if tier == TierFast {
		return c.fastModel
	}
	return c.capableModel
}

func (c *client) doOnce(ctx context.Context, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &groqHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) do(ctx context.Context, path string, body any, out any) error {
	ctx = ctxutil.Default(ctx)
	backoff := 1 * time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, path, body)
		if err == nil {
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("groq decode error: %w; raw=%s", uErr, string(raw))
			}
			return nil
		}

		if !httpx.IsRetryableError(err) {
			return err
		}
		if attempt == c.maxRetries {
			return err
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, 10*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)

		c.log.Warn("Groq request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		if err := httpx.SleepContext(ctx, sleepFor); err != nil {
			return err
		}
		backoff *= 2
	}

	return fmt.Errorf("unreachable retry loop")
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionsRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`

	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format,omitempty"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (c *client) GenerateText(ctx context.Context, tier Tier, system string, user string, temperature float64) (string, error) {
	req := chatCompletionsRequest{
		Model: c.model(tier),
		Messages: []chatMessage{
			{Role: "system", Content: strings.TrimSpace(system)},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
	}

	var resp chatCompletionsResponse
	if err := c.do(ctx, "/v1/chat/completions", req, &resp); err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("groq: empty choices")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("groq: empty completion")
	}
	return text, nil
}

func (c *client) GenerateJSON(ctx context.Context, tier Tier, system string, user string) (map[string]any, error) {
	req := chatCompletionsRequest{
		Model: c.model(tier),
		Messages: []chatMessage{
			{Role: "system", Content: strings.TrimSpace(system)},
			{Role: "user", Content: user},
		},
		Temperature: 0.1,
	}
	req.ResponseFormat = &struct {
		Type string `json:"type"`
	}{Type: "json_object"}

	var resp chatCompletionsResponse
	if err := c.do(ctx, "/v1/chat/completions", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("groq: empty choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	obj, err := DecodeJSONObject(text)
	if err != nil {
		return nil, fmt.Errorf("groq: parse model JSON: %w; text=%s", err, text)
	}
	return obj, nil
}

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// DecodeJSONObject extracts and decodes the first JSON object in a
// completion. Models occasionally wrap the payload in markdown fences or
// lead-in prose even when asked not to.
func DecodeJSONObject(text string) (map[string]any, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty completion")
	}

	if m := jsonObjectRe.FindString(text); m != "" {
		text = m
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, err
	}
	return obj, nil
}
