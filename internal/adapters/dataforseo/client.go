package dataforseo

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"reviewhub/internal/adapters/observability"
	"reviewhub/internal/domain"
)

// Client talks to the task-based review aggregation API: post a task for
// a platform, poll until it completes, collect the items plus the cost
// the call was billed.
type Client struct {
	base     string
	hc       *http.Client
	login    string
	password string
	rl       *rate.Limiter

	pollEvery time.Duration
	pollMax   int
}

func New(base, login, password string, rps int) (*Client, error) {
	if login == "" || password == "" {
		return nil, fmt.Errorf("API credentials are required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base:      base,
		hc:        &http.Client{Timeout: 30 * time.Second},
		login:     login,
		password:  password,
		rl:        rate.NewLimiter(rate.Limit(rps), rps),
		pollEvery: 3 * time.Second,
		pollMax:   40,
	}, nil
}

// SetPolling overrides the task_get poll interval and attempt budget.
func (c *Client) SetPolling(every time.Duration, max int) {
	if every > 0 {
		c.pollEvery = every
	}
	if max > 0 {
		c.pollMax = max
	}
}

// endpoints maps a platform onto its API path segment.
var endpoints = map[domain.Platform]string{
	domain.PlatformTrustpilot:  "trustpilot",
	domain.PlatformTripAdvisor: "tripadvisor",
	domain.PlatformGooglePlay:  "google_play",
	domain.PlatformAppStore:    "app_store",
}

var (
	ErrTaskFailed   = errors.New("dataforseo: task failed")
	ErrUnauthorized = errors.New("dataforseo: unauthorized")
)

// taskResponse is the envelope both task_post and task_get share.
type taskResponse struct {
	StatusCode int     `json:"status_code"`
	StatusMsg  string  `json:"status_message"`
	Cost       float64 `json:"cost"`
	Tasks      []struct {
		ID         string  `json:"id"`
		StatusCode int     `json:"status_code"`
		StatusMsg  string  `json:"status_message"`
		Cost       float64 `json:"cost"`
		Result     []struct {
			Items []map[string]any `json:"items"`
		} `json:"result"`
	} `json:"tasks"`
}

// FetchReviews posts one task and polls it to completion. The returned
// cost is valid even on error: a failed task may still have been billed.
func (c *Client) FetchReviews(ctx context.Context, platform domain.Platform, payload map[string]any) (domain.FetchResult, error) {
	ep, ok := endpoints[platform]
	if !ok {
		return domain.FetchResult{}, fmt.Errorf("%w: %q", domain.ErrUnknownPlatform, platform)
	}

	start := time.Now()
	post, err := c.call(ctx, http.MethodPost,
		fmt.Sprintf("%s/v3/business_data/%s/reviews/task_post", c.base, ep),
		[]map[string]any{payload})
	observability.ObserveExternal("dataforseo", ep+"/task_post", statusOf(err), time.Since(start))
	if err != nil {
		return domain.FetchResult{}, err
	}
	cost := post.Cost
	if len(post.Tasks) == 0 {
		return domain.FetchResult{Cost: cost}, fmt.Errorf("%w: empty task_post response", ErrTaskFailed)
	}
	task := post.Tasks[0]
	cost += task.Cost
	// 20xxx means the task was accepted.
	if task.StatusCode >= 40000 {
		return domain.FetchResult{Cost: cost}, fmt.Errorf("%w: %s", ErrTaskFailed, task.StatusMsg)
	}

	// Poll task_get until the task finishes or the budget runs out.
	for i := 0; i < c.pollMax; i++ {
		if !sleepCtx(ctx, c.pollEvery) {
			return domain.FetchResult{Cost: cost}, ctx.Err()
		}
		start = time.Now()
		got, err := c.call(ctx, http.MethodGet,
			fmt.Sprintf("%s/v3/business_data/%s/reviews/task_get/%s", c.base, ep, task.ID), nil)
		observability.ObserveExternal("dataforseo", ep+"/task_get", statusOf(err), time.Since(start))
		if err != nil {
			return domain.FetchResult{Cost: cost}, err
		}
		if len(got.Tasks) == 0 {
			continue
		}
		t := got.Tasks[0]
		cost += t.Cost
		switch {
		case t.StatusCode == 20000:
			var items []map[string]any
			for _, r := range t.Result {
				items = append(items, r.Items...)
			}
			return domain.FetchResult{Items: items, Cost: cost}, nil
		case t.StatusCode == 40602 || t.StatusCode == 40601:
			// task in queue / handed to another worker; keep polling
			continue
		case t.StatusCode >= 40000:
			return domain.FetchResult{Cost: cost}, fmt.Errorf("%w: %s", ErrTaskFailed, t.StatusMsg)
		default:
			continue
		}
	}
	return domain.FetchResult{Cost: cost}, fmt.Errorf("%w: task %s did not finish in time", ErrTaskFailed, task.ID)
}

// call performs one HTTP round trip with client-side rate limiting and
// bounded retries on 429/5xx, honoring Retry-After when provided.
func (c *Client) call(ctx context.Context, method, url string, body any) (*taskResponse, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, err
		}
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		var rd io.Reader
		if payload != nil {
			rd = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, rd)
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(c.login, c.password)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			return nil, lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated:
			var out taskResponse
			err := json.NewDecoder(resp.Body).Decode(&out)
			resp.Body.Close()
			if err != nil {
				return nil, err
			}
			return &out, nil

		case http.StatusUnauthorized, http.StatusForbidden:
			resp.Body.Close()
			return nil, ErrUnauthorized

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}
	return nil, lastErr
}

func statusOf(err error) int {
	if err == nil {
		return 200
	}
	return 0
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). 0 if absent.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential delay (200ms, 400ms, 800ms...) with up
// to +50% jitter from crypto/rand to avoid thundering herds.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
