package publicdata

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/foodbridge/go-donation-backend/internal/geo"
)

// ErrUpstreamUnavailable indicates the reference-data source could not
// be reached or its payload could not be parsed. Callers must not retry
// through this package; allocation decisions abort instead.
var ErrUpstreamUnavailable = errors.New("reference data upstream unavailable")

// Object keys inside the bucket, one per pool.
const (
	restaurantsKey = "csv/Restaurants.csv"
	recipientsKey  = "csv/Recipient.csv"
	foodbanksKey   = "csv/Foodbank.csv"
)

// Client fetches reference pools from an object-storage bucket exposed
// over HTTPS. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client rooted at baseURL (no trailing slash
// required) whose requests are bounded by timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// ListRestaurants returns a fresh snapshot of the restaurant pool.
func (c *Client) ListRestaurants(ctx context.Context) ([]Record, error) {
	return c.fetchPool(ctx, restaurantsKey)
}

// ListRecipients returns a fresh snapshot of the recipient pool.
func (c *Client) ListRecipients(ctx context.Context) ([]Record, error) {
	return c.fetchPool(ctx, recipientsKey)
}

// ListFoodbanks returns a fresh snapshot of the food-bank pool.
func (c *Client) ListFoodbanks(ctx context.Context) ([]Record, error) {
	return c.fetchPool(ctx, foodbanksKey)
}

// SearchRestaurants filters the restaurant pool by term (see filterByTerm).
func (c *Client) SearchRestaurants(ctx context.Context, term string) ([]Record, error) {
	pool, err := c.ListRestaurants(ctx)
	if err != nil {
		return nil, err
	}
	return filterByTerm(pool, term), nil
}

// SearchRecipients filters the recipient pool by term.
func (c *Client) SearchRecipients(ctx context.Context, term string) ([]Record, error) {
	pool, err := c.ListRecipients(ctx)
	if err != nil {
		return nil, err
	}
	return filterByTerm(pool, term), nil
}

// SearchFoodbanks filters the food-bank pool by term.
func (c *Client) SearchFoodbanks(ctx context.Context, term string) ([]Record, error) {
	pool, err := c.ListFoodbanks(ctx)
	if err != nil {
		return nil, err
	}
	return filterByTerm(pool, term), nil
}

// NearbyRestaurants returns up to limit restaurants ranked by distance
// from origin.
func (c *Client) NearbyRestaurants(ctx context.Context, origin geo.Point, limit int) ([]Record, error) {
	pool, err := c.ListRestaurants(ctx)
	if err != nil {
		return nil, err
	}
	return rankByDistance(origin, pool, limit)
}

// NearbyRecipients returns up to limit recipients ranked by distance
// from origin.
func (c *Client) NearbyRecipients(ctx context.Context, origin geo.Point, limit int) ([]Record, error) {
	pool, err := c.ListRecipients(ctx)
	if err != nil {
		return nil, err
	}
	return rankByDistance(origin, pool, limit)
}

// NearbyFoodbanks returns up to limit food banks ranked by distance from
// origin.
func (c *Client) NearbyFoodbanks(ctx context.Context, origin geo.Point, limit int) ([]Record, error) {
	pool, err := c.ListFoodbanks(ctx)
	if err != nil {
		return nil, err
	}
	return rankByDistance(origin, pool, limit)
}

// fetchPool downloads and parses one CSV object. Any transport, status,
// or parse failure is wrapped in ErrUpstreamUnavailable.
func (c *Client) fetchPool(ctx context.Context, key string) ([]Record, error) {
	url := c.baseURL + "/" + key

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request for %s: %v", ErrUpstreamUnavailable, key, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrUpstreamUnavailable, key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch %s: status %d", ErrUpstreamUnavailable, key, resp.StatusCode)
	}

	recs, err := parseCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrUpstreamUnavailable, key, err)
	}
	return recs, nil
}

// parseCSV reads a header row plus data rows into Records. Rows shorter
// than the header are padded with empty fields rather than rejected; the
// upstream exports are not perfectly regular.
func parseCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, err
	}
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.ToLower(cleanField(h))
	}

	var out []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		m := make(map[string]string, len(cols))
		for i, col := range cols {
			if i < len(row) {
				m[col] = row[i]
			}
		}
		out = append(out, recordFromRow(m))
	}
	return out, nil
}

// filterByTerm applies a case-insensitive substring match over the name
// and address fields. A blank term returns the pool unfiltered.
func filterByTerm(pool []Record, term string) []Record {
	term = strings.TrimSpace(term)
	if term == "" {
		return pool
	}
	fold := cases.Fold()
	needle := fold.String(term)

	out := make([]Record, 0, len(pool))
	for _, rec := range pool {
		if strings.Contains(fold.String(rec.Name), needle) ||
			strings.Contains(fold.String(rec.Address), needle) {
			out = append(out, rec)
		}
	}
	return out
}

// rankByDistance adapts a pool to geo.Nearest, defaulting the limit.
func rankByDistance(origin geo.Point, pool []Record, limit int) ([]Record, error) {
	if limit == 0 {
		limit = geo.DefaultLimit
	}
	cands := make([]geo.Located, len(pool))
	for i, rec := range pool {
		cands[i] = rec
	}
	ranked, err := geo.Nearest(origin, cands, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Record, len(ranked))
	for i, l := range ranked {
		out[i] = l.(Record)
	}
	return out, nil
}
