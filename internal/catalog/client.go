package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/marquee/internal/domain"
	"github.com/MrSnakeDoc/marquee/internal/logger"
	"github.com/MrSnakeDoc/marquee/internal/utils"
	"github.com/MrSnakeDoc/marquee/internal/version"
)

const (
	opFetchPage  = "fetch page"
	opFetchMovie = "fetch movie"

	headerAPIKey = "X-API-KEY"
)

// DetailCache stores single-movie lookups between requests.
// A miss is reported as (zero, false, nil).
type DetailCache interface {
	GetMovie(ctx context.Context, id int64) (domain.Movie, bool, error)
	SetMovie(ctx context.Context, m domain.Movie, ttl time.Duration) error
}

type Options struct {
	BaseURL    string        // ex: https://api.kinopoisk.dev/v1.4
	APIKey     string        // sent as X-API-KEY
	Timeout    time.Duration // per-request timeout, 0 = none
	HTTPClient *http.Client  // optional, built from Timeout when nil

	Cache    DetailCache   // optional
	CacheTTL time.Duration // 0 disables caching even when Cache is set

	Logger logger.Logger // optional
}

// Client talks to the remote catalog. It never retries: the caller decides.
type Client struct {
	baseURL  string
	apiKey   string
	timeout  time.Duration
	http     *http.Client
	cache    DetailCache
	cacheTTL time.Duration
	logger   logger.Logger
}

func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	c := newClient(hc, opts.BaseURL, opts.APIKey)
	c.timeout = opts.Timeout
	c.cache = opts.Cache
	c.cacheTTL = opts.CacheTTL
	if opts.Logger != nil {
		c.logger = opts.Logger
	}
	return c
}

func newClient(hc *http.Client, baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    hc,
		logger:  logger.NewNop(),
	}
}

// FetchPage requests one page of movies matching f.
func (c *Client) FetchPage(ctx context.Context, f domain.Filter, b domain.Bounds, page, limit int) (domain.Page, error) {
	params := pageParams(f, b, page, limit)
	endpoint := c.baseURL + "/movie?" + params.Encode()

	var p domain.Page
	if err := c.getJSON(ctx, opFetchPage, endpoint, &p); err != nil {
		return domain.Page{}, err
	}
	if p.Page == 0 {
		p.Page = page
	}
	if p.Limit == 0 {
		p.Limit = limit
	}

	c.logger.Debug("catalog page fetched",
		logger.Int("page", page),
		logger.Int("docs", len(p.Docs)),
		logger.Int("total", p.Total))
	return p, nil
}

// FetchByID requests the full record of one movie.
// An unknown id yields a FetchError wrapping ErrNotFound.
func (c *Client) FetchByID(ctx context.Context, id int64) (domain.Movie, error) {
	if c.cache != nil && c.cacheTTL > 0 {
		m, ok, err := c.cache.GetMovie(ctx, id)
		switch {
		case err != nil:
			c.logger.Warn("detail cache read failed", logger.Int64("id", id), logger.Error(err))
		case ok:
			c.logger.Debug("detail cache hit", logger.Int64("id", id))
			return m, nil
		}
	}

	endpoint := c.baseURL + "/movie/" + strconv.FormatInt(id, 10)

	var m domain.Movie
	if err := c.getJSON(ctx, opFetchMovie, endpoint, &m); err != nil {
		return domain.Movie{}, err
	}

	if c.cache != nil && c.cacheTTL > 0 {
		if err := c.cache.SetMovie(ctx, m, c.cacheTTL); err != nil {
			c.logger.Warn("detail cache write failed", logger.Int64("id", id), logger.Error(err))
		}
	}
	return m, nil
}

func (c *Client) getJSON(ctx context.Context, op, endpoint string, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return &FetchError{Op: op, Kind: KindNetwork, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set(headerAPIKey, c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.http.Do(req)
	if err != nil {
		return &FetchError{Op: op, Kind: KindNetwork, Err: err}
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		fe := &FetchError{
			Op:     op,
			Kind:   KindStatus,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(body)),
			Err:    fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
		if resp.StatusCode == http.StatusNotFound {
			fe.Err = ErrNotFound
		}
		return fe
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Op: op, Kind: KindDecode, Status: resp.StatusCode, Err: err}
	}
	return nil
}
