// internal/adapters/places/client.go
package places

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"storelens/internal/adapters/observability"
	"storelens/internal/domain"
)

// Client talks to a Google-Places-style web service. Responses carry an
// envelope status field distinguishing success, zero results, and errors;
// HTTP-level transients are retried with jittered backoff.
type Client struct {
	base string
	hc   *http.Client
	key  string
	lang string
	rl   *rate.Limiter
}

func New(base, key, lang string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	if lang == "" {
		lang = "en"
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		lang: lang,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

const detailsFields = "place_id,name,formatted_address,geometry,types,rating,user_ratings_total,price_level,reviews"

// rawPlace is the provider's place record; geometry is nested.
type rawPlace struct {
	PlaceID     string   `json:"place_id"`
	Name        string   `json:"name"`
	Address     string   `json:"formatted_address"`
	Types       []string `json:"types"`
	Rating      float64  `json:"rating"`
	RatingCount int      `json:"user_ratings_total"`
	PriceLevel  int      `json:"price_level"`
	Geometry    struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	Reviews []domain.Review `json:"reviews"`
}

func (p rawPlace) details() domain.PlaceDetails {
	return domain.PlaceDetails{
		PlaceID:     p.PlaceID,
		Name:        p.Name,
		Address:     p.Address,
		Lat:         p.Geometry.Location.Lat,
		Lng:         p.Geometry.Location.Lng,
		Types:       p.Types,
		Rating:      p.Rating,
		RatingCount: p.RatingCount,
		PriceLevel:  p.PriceLevel,
		Reviews:     p.Reviews,
	}
}

func (p rawPlace) summary() domain.PlaceSummary {
	return domain.PlaceSummary{
		PlaceID:     p.PlaceID,
		Name:        p.Name,
		Address:     p.Address,
		Lat:         p.Geometry.Location.Lat,
		Lng:         p.Geometry.Location.Lng,
		Types:       p.Types,
		Rating:      p.Rating,
		RatingCount: p.RatingCount,
	}
}

func (c *Client) GetPlaceDetails(ctx context.Context, placeID string) (domain.PlaceDetails, error) {
	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", detailsFields)

	var env struct {
		Status       string   `json:"status"`
		ErrorMessage string   `json:"error_message"`
		Result       rawPlace `json:"result"`
	}
	if err := c.get(ctx, "details", q, &env); err != nil {
		return domain.PlaceDetails{}, err
	}
	if err := statusErr(env.Status, env.ErrorMessage); err != nil {
		return domain.PlaceDetails{}, err
	}
	return env.Result.details(), nil
}

// SearchPlaces runs a text search. location is an optional "lat,lng" bias
// with a fixed 5km radius.
func (c *Client) SearchPlaces(ctx context.Context, query, location string) ([]domain.PlaceSummary, error) {
	q := url.Values{}
	q.Set("query", query)
	if location != "" {
		q.Set("location", location)
		q.Set("radius", "5000")
	}

	var env struct {
		Status       string     `json:"status"`
		ErrorMessage string     `json:"error_message"`
		Results      []rawPlace `json:"results"`
	}
	if err := c.get(ctx, "textsearch", q, &env); err != nil {
		return nil, err
	}
	if env.Status == "ZERO_RESULTS" {
		return []domain.PlaceSummary{}, nil
	}
	if err := statusErr(env.Status, env.ErrorMessage); err != nil {
		return nil, err
	}
	out := make([]domain.PlaceSummary, 0, len(env.Results))
	for _, p := range env.Results {
		out = append(out, p.summary())
	}
	return out, nil
}

// statusErr maps the envelope status to domain errors. "Zero/no results" is
// a NotFound, not a fault; anything else non-OK is an upstream failure.
func statusErr(status, msg string) error {
	switch status {
	case "OK":
		return nil
	case "ZERO_RESULTS", "NOT_FOUND":
		return fmt.Errorf("%w: place", domain.ErrNotFound)
	default:
		if msg != "" {
			return fmt.Errorf("%w: places status %s: %s", domain.ErrUpstream, status, msg)
		}
		return fmt.Errorf("%w: places status %s", domain.ErrUpstream, status)
	}
}

// get performs a GET with client-side rate limiting, retries, and JSON
// decode into out. Retries on 429 and transient 5xx, honoring Retry-After.
func (c *Client) get(ctx context.Context, endpoint string, q url.Values, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	q.Set("key", c.key)
	q.Set("language", c.lang)
	u := fmt.Sprintf("%s/%s/json?%s", c.base, endpoint, q.Encode())

	start := time.Now()
	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "storelens/1.0")

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			observability.ObserveExternal("places", endpoint, resp.StatusCode, time.Since(start))
			return err

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("%w: remote %d", domain.ErrUpstream, resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			observability.ObserveExternal("places", endpoint, resp.StatusCode, time.Since(start))
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			observability.ObserveExternal("places", endpoint, resp.StatusCode, time.Since(start))
			return fmt.Errorf("%w: bad status %d: %s", domain.ErrUpstream, resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
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

// retryAfter parses Retry-After (seconds or HTTP-date). 0 if absent/invalid.
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

// backoff doubles per attempt (200ms, 400ms, 800ms...) with up to +50%
// random jitter to avoid thundering herds.
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
