package services

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/researchdesk-backend/internal/clients/tavily"
	"github.com/yungbote/researchdesk-backend/internal/domain/research"
	"github.com/yungbote/researchdesk-backend/internal/pkg/errors"
	"github.com/yungbote/researchdesk-backend/internal/pkg/httpx"
	"github.com/yungbote/researchdesk-backend/internal/pkg/logger"
)

const hunterMaxRetries = 2

// HunterService executes sub-queries against the search provider and pools
// the results into a deduplicated, budget-capped evidence set.
type HunterService interface {
	Hunt(ctx context.Context, subQueries []research.SubQuery, mode research.Mode) ([]research.EvidenceItem, error)
}

type hunterService struct {
	log    *logger.Logger
	search tavily.Client
}

func NewHunterService(search tavily.Client, baseLog *logger.Logger) HunterService {
	return &hunterService{
		log:    baseLog.With("service", "HunterService"),
		search: search,
	}
}

type subQueryOutcome struct {
	index   int
	results []tavily.Result
}

// Hunt fans the sub-queries out concurrently, bounded by the mode's
// sub-query count. Each sub-query runs its own retry loop; one that
// exhausts its retries is skipped, partial results are acceptable. The
// merge is deterministic regardless of completion order.
func (s *hunterService) Hunt(ctx context.Context, subQueries []research.SubQuery, mode research.Mode) ([]research.EvidenceItem, error) {
	if len(subQueries) == 0 {
		return nil, errors.ErrNoEvidence
	}

	budget := mode.SourceBudget()

	var mu sync.Mutex
	outcomes := make([]subQueryOutcome, 0, len(subQueries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(mode.SubQueryCount())

	for _, sq := range subQueries {
		sq := sq
		g.Go(func() error {
			results, err := s.searchWithRetry(gctx, sq)
			if err != nil {
				// Skipped sub-query. The pipeline proceeds on whatever
				// the other sub-queries return.
				s.log.Warn("Sub-query skipped", "index", sq.Index, "query", sq.Text, "error", err)
				return nil
			}
			mu.Lock()
			outcomes = append(outcomes, subQueryOutcome{index: sq.Index, results: results})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	items := mergeOutcomes(outcomes, budget)
	if len(items) == 0 {
		s.log.Warn("All sub-queries returned nothing", "sub_queries", len(subQueries))
		return nil, errors.ErrNoEvidence
	}

	s.log.Info("Evidence pooled", "sub_queries", len(subQueries), "items", len(items), "budget", budget)
	return items, nil
}

// searchWithRetry is the per-sub-query state machine: pending, retrying(n),
// then succeeded or skipped. Only transient provider failures are retried.
func (s *hunterService) searchWithRetry(ctx context.Context, sq research.SubQuery) ([]tavily.Result, error) {
	backoff := 500 * time.Millisecond
	var lastErr error

	for attempt := 0; attempt <= hunterMaxRetries; attempt++ {
		results, err := s.search.Search(ctx, sq.Text, 5)
		if err == nil {
			return results, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !httpx.IsRetryableError(err) {
			return nil, err
		}
		if attempt == hunterMaxRetries {
			break
		}

		delay := httpx.JitterSleep(backoff)

		s.log.Debug("Retrying sub-query", "index", sq.Index, "attempt", attempt+1, "delay", delay)
		if err := httpx.SleepContext(ctx, delay); err != nil {
			return nil, err
		}
		backoff *= 2
	}

	return nil, lastErr
}

// mergeOutcomes pools results across sub-queries, dedups by normalized URL
// keeping the higher provider score, and truncates to the budget while
// preserving rank order. Sorting by (sub-query index, provider rank) makes
// the merge independent of goroutine completion order.
func mergeOutcomes(outcomes []subQueryOutcome, budget int) []research.EvidenceItem {
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].index < outcomes[j].index })

	var pooled []research.EvidenceItem
	byURL := map[string]int{}

	for _, out := range outcomes {
		for rank, r := range out.results {
			key := normalizeURL(r.URL)
			if key == "" {
				continue
			}
			item := research.EvidenceItem{
				URL:           r.URL,
				Title:         r.Title,
				Snippet:       r.Content,
				Content:       r.Content,
				SubQueryIndex: out.index,
				ProviderRank:  rank + 1,
				ProviderScore: r.Score,
			}
			if at, dup := byURL[key]; dup {
				if item.ProviderScore > pooled[at].ProviderScore {
					item.SubQueryIndex = pooled[at].SubQueryIndex
					item.ProviderRank = pooled[at].ProviderRank
					pooled[at] = item
				}
				continue
			}
			byURL[key] = len(pooled)
			pooled = append(pooled, item)
		}
	}

	if len(pooled) > budget {
		pooled = pooled[:budget]
	}
	return pooled
}

// normalizeURL canonicalizes a URL for dedup: lowercased scheme and host,
// fragment dropped, trailing slash trimmed.
func normalizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	out := u.String()
	return strings.TrimSuffix(out, "/")
}
