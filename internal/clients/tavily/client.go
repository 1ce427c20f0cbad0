package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/researchdesk-backend/internal/pkg/ctxutil"
	"github.com/yungbote/researchdesk-backend/internal/pkg/logger"
)

// Result is one ranked hit from the search provider. Content is the
// provider's pre-extracted page text; the backend never fetches or parses
// raw HTML itself.
type Result struct {
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Client is the web search client used by the hunter stage.
type Client interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	depth      string
	httpClient *http.Client
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	apiKey := strings.TrimSpace(os.Getenv("TAVILY_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing TAVILY_API_KEY")
	}

	baseURL := strings.TrimSpace(os.Getenv("TAVILY_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://api.tavily.com"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	depth := strings.TrimSpace(os.Getenv("TAVILY_SEARCH_DEPTH"))
	if depth == "" {
		depth = "advanced"
	}

	timeoutSec := 10
	if v := os.Getenv("TAVILY_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	return &client{
		log:        log.With("service", "TavilyClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		depth:      depth,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}, nil
}

type tavilyHTTPError struct {
	StatusCode int
	Body       string
}

func (e *tavilyHTTPError) Error() string {
	return fmt.Sprintf("tavily http %d: %s", e.StatusCode, e.Body)
}

func (e *tavilyHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

type searchRequest struct {
	APIKey            string `json:"api_key"`
	Query             string `json:"query"`
	SearchDepth       string `json:"search_depth"`
	MaxResults        int    `json:"max_results"`
	IncludeAnswer     bool   `json:"include_answer"`
	IncludeRawContent bool   `json:"include_raw_content"`
	IncludeImages     bool   `json:"include_images"`
}

type searchResponse struct {
	Results []struct {
		URL     string  `json:"url"`
		Title   string  `json:"title"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Search issues a single search call. Retry policy belongs to the caller:
// transient failures surface as errors carrying an HTTP status code so the
// hunter's retry state machine can classify them.
func (c *client) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	ctx = ctxutil.Default(ctx)
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("tavily: empty query")
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	body := searchRequest{
		APIKey:      c.apiKey,
		Query:       query,
		SearchDepth: c.depth,
		MaxResults:  maxResults,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &tavilyHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var decoded searchResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("tavily decode error: %w", err)
	}

	results := make([]Result, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		if strings.TrimSpace(r.URL) == "" {
			continue
		}
		results = append(results, Result{
			URL:     r.URL,
			Title:   r.Title,
			Content: r.Content,
			Score:   r.Score,
		})
	}

	c.log.Debug("Tavily search completed", "query", query, "results", len(results))
	return results, nil
}
