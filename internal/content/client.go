package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/meridianpress/meridian-backend/pkg/config"
	"github.com/sethvargo/go-retry"
)

// ErrNotFound signals that a single-document query matched nothing. Callers
// treat it as an ordinary negative result, never as a failure.
var ErrNotFound = errors.New("content: document not found")

// IsNotFound reports whether err marks a query that matched no document.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Client issues read-only queries against the external headless content
// store. It holds no state beyond its connection settings.
type Client struct {
	baseURL    string
	dataset    string
	token      string
	httpClient *http.Client
	attempts   uint64
	baseDelay  time.Duration
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewClient validates the configuration and builds a content client.
func NewClient(cfg config.ContentConfig) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("content base url is required")
	}
	if cfg.Dataset == "" {
		return nil, fmt.Errorf("content dataset is required")
	}
	attempts := cfg.RetryAttempts
	if attempts < 0 {
		attempts = 0
	}
	baseDelay := cfg.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = 200 * time.Millisecond
	}

	return &Client{
		baseURL:    base,
		dataset:    cfg.Dataset,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		attempts:   uint64(attempts),
		baseDelay:  baseDelay,
	}, nil
}

// ListArticles returns published articles, optionally filtered by region slug.
func (c *Client) ListArticles(ctx context.Context, regionSlug string, limit, offset int) ([]Article, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	params := map[string]any{
		"offset": offset,
		"end":    offset + limit,
	}
	query := queryListArticles
	if regionSlug != "" {
		query = queryListArticlesByRegion
		params["region"] = regionSlug
	}

	var articles []Article
	if err := c.query(ctx, query, params, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// GetArticle returns the article with the given slug, or ErrNotFound.
func (c *Client) GetArticle(ctx context.Context, slug string) (*Article, error) {
	var article *Article
	if err := c.query(ctx, queryArticleBySlug, map[string]any{"slug": slug}, &article); err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrNotFound
	}
	return article, nil
}

// ListMagazines returns all purchasable issues, newest first.
func (c *Client) ListMagazines(ctx context.Context) ([]Magazine, error) {
	var magazines []Magazine
	if err := c.query(ctx, queryListMagazines, nil, &magazines); err != nil {
		return nil, err
	}
	return magazines, nil
}

// GetMagazine returns the magazine with the given slug, or ErrNotFound.
func (c *Client) GetMagazine(ctx context.Context, slug string) (*Magazine, error) {
	var magazine *Magazine
	if err := c.query(ctx, queryMagazineBySlug, map[string]any{"slug": slug}, &magazine); err != nil {
		return nil, err
	}
	if magazine == nil {
		return nil, ErrNotFound
	}
	return magazine, nil
}

// ListExclusives returns the members-only reports, newest first.
func (c *Client) ListExclusives(ctx context.Context) ([]Exclusive, error) {
	var exclusives []Exclusive
	if err := c.query(ctx, queryListExclusives, nil, &exclusives); err != nil {
		return nil, err
	}
	return exclusives, nil
}

// GetExclusive returns the exclusive with the given slug, or ErrNotFound.
func (c *Client) GetExclusive(ctx context.Context, slug string) (*Exclusive, error) {
	var exclusive *Exclusive
	if err := c.query(ctx, queryExclusiveBySlug, map[string]any{"slug": slug}, &exclusive); err != nil {
		return nil, err
	}
	if exclusive == nil {
		return nil, ErrNotFound
	}
	return exclusive, nil
}

// ListRegions returns the regional taxonomy.
func (c *Client) ListRegions(ctx context.Context) ([]Region, error) {
	var regions []Region
	if err := c.query(ctx, queryListRegions, nil, &regions); err != nil {
		return nil, err
	}
	return regions, nil
}

// LookupMember resolves the member document for an email. Not-found and
// transport failures both surface as errors; only ErrNotFound marks the
// former. This path deliberately does NOT retry: a login attempt is a single
// round trip the caller re-invokes by hand.
func (c *Client) LookupMember(ctx context.Context, email string) (*MemberRecord, error) {
	var record *MemberRecord
	if err := c.queryOnce(ctx, queryMemberByEmail, map[string]any{"email": email}, &record); err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrNotFound
	}
	return record, nil
}

// Ping verifies the content store answers queries.
func (c *Client) Ping(ctx context.Context) error {
	var count int
	return c.queryOnce(ctx, queryPing, nil, &count)
}

// query runs a read with bounded retries on transient failures. Reads are
// idempotent so retrying is safe.
func (c *Client) query(ctx context.Context, query string, params map[string]any, out any) error {
	backoff := retry.WithMaxRetries(c.attempts, retry.NewExponential(c.baseDelay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := c.queryOnce(ctx, query, params, out)
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
		return retry.RetryableError(err)
	})
}

func (c *Client) queryOnce(ctx context.Context, query string, params map[string]any, out any) error {
	endpoint := fmt.Sprintf("%s/data/query/%s", c.baseURL, url.PathEscape(c.dataset))

	values := url.Values{}
	values.Set("query", query)
	for name, value := range params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encoding param %q: %w", name, err)
		}
		values.Set("$"+name, string(encoded))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+values.Encode(), nil)
	if err != nil {
		return fmt.Errorf("building content request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("content store request: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &statusError{status: resp.StatusCode}
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding content response: %w", err)
	}
	if len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("decoding content result: %w", err)
	}
	return nil
}

const defaultPageSize = 20

type statusError struct {
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("content store returned status %d", e.status)
}

func (e *statusError) transient() bool {
	return e.status >= 500 || e.status == http.StatusTooManyRequests
}

// isTransient reports whether a query failure is worth retrying. Network
// errors and 5xx/429 responses qualify; decode failures and client errors
// do not.
func isTransient(err error) bool {
	var status *statusError
	if errors.As(err, &status) {
		return status.transient()
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
