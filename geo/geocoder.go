// Package geo resolves project addresses to coordinates through a Nominatim-compatible
// search endpoint.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rpupo63/realestate-site/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	DefaultEndpoint  = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "realestate-site/1.0"
)

var ErrNoResult = errors.New("no geocoding result")

type Point struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	DisplayName string  `json:"displayName"`
}

type Geocoder struct {
	endpoint   string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

type Option func(*Geocoder)

func WithHTTPClient(c *http.Client) Option {
	return func(g *Geocoder) { g.httpClient = c }
}

func WithUserAgent(ua string) Option {
	return func(g *Geocoder) {
		if ua != "" {
			g.userAgent = ua
		}
	}
}

// WithRate sets the request rate. Nominatim's usage policy allows one request per second.
func WithRate(limit rate.Limit, burst int) Option {
	return func(g *Geocoder) { g.limiter = rate.NewLimiter(limit, burst) }
}

func New(endpoint string, opts ...Option) *Geocoder {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	g := &Geocoder{
		endpoint:   strings.TrimRight(endpoint, "/"),
		userAgent:  DefaultUserAgent,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
		logger:     log.With().Str("component", "geocoder").Logger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Lookup returns the best match for address. It blocks on the rate limiter, so a
// cancelled context aborts both the wait and the request.
func (g *Geocoder) Lookup(ctx context.Context, address string) (Point, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Point{}, ErrNoResult
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return Point{}, fmt.Errorf("geocoder rate limit: %w", err)
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	path := "/search"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+path+"?"+q.Encode(), nil)
	if err != nil {
		return Point{}, fmt.Errorf("build geocoder request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Point{}, ctx.Err()
		}
		return Point{}, errs.NewServiceUnreachableError("geocoder", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Point{}, errs.NewUpstreamError(http.MethodGet, resp.StatusCode, path, "")
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Point{}, errs.NewUpstreamDecodeError(path, err)
	}
	if len(results) == 0 {
		return Point{}, ErrNoResult
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Point{}, errs.NewUpstreamDecodeError(path, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Point{}, errs.NewUpstreamDecodeError(path, err)
	}

	g.logger.Debug().Str("address", address).Float64("lat", lat).Float64("lng", lng).Msg("geocoded address")
	return Point{Lat: lat, Lng: lng, DisplayName: results[0].DisplayName}, nil
}
