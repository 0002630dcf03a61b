// Package airtable is a read-only client for the Airtable REST API. It lists
// and finds records, normalizes their field maps, and classifies failures as
// FetchError values. It never retries.
package airtable

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/rshade/confirmvotes/internal/logging"
	"github.com/rshade/confirmvotes/internal/record"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultBaseURL           = "https://api.airtable.com"
	DefaultView              = "Grid view"
	DefaultRequestsPerSecond = 5.0
	DefaultTimeout           = 30 * time.Second

	// pageSize is the largest page the API serves.
	pageSize = 100
	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 64 << 10
)

// Options configures a Client.
type Options struct {
	APIKey            string
	BaseID            string
	BaseURL           string
	View              string
	MaxRecords        int
	RequestsPerSecond float64
	Timeout           time.Duration
}

// Client talks to one Airtable base.
type Client struct {
	// HTTPClient is exported so tests can point it at an httptest server.
	HTTPClient *http.Client

	baseURL    string
	baseID     string
	apiKey     string
	view       string
	maxRecords int
	limiter    *rate.Limiter
}

// NewClient creates a client for the base named in opts.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.View == "" {
		opts.View = DefaultView
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	return &Client{
		HTTPClient: &http.Client{Timeout: opts.Timeout},
		baseURL:    opts.BaseURL,
		baseID:     opts.BaseID,
		apiKey:     opts.APIKey,
		view:       opts.View,
		maxRecords: opts.MaxRecords,
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
	}
}

type wireRecord struct {
	ID          string                     `json:"id"`
	CreatedTime time.Time                  `json:"createdTime"`
	Fields      map[string]json.RawMessage `json:"fields"`
}

type listResponse struct {
	Records []wireRecord `json:"records"`
	Offset  string       `json:"offset"`
}

// ListRecords returns every record of table in the configured view, following
// offset cursors until the listing is exhausted or MaxRecords is reached.
func (c *Client) ListRecords(ctx context.Context, table string) ([]record.Record, error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	var (
		out    []record.Record
		offset string
		pages  int
	)
	for {
		query := url.Values{}
		query.Set("pageSize", strconv.Itoa(pageSize))
		if c.view != "" {
			query.Set("view", c.view)
		}
		if c.maxRecords > 0 {
			query.Set("maxRecords", strconv.Itoa(c.maxRecords))
		}
		if offset != "" {
			query.Set("offset", offset)
		}

		var page listResponse
		if _, err := c.get(ctx, "list", table, c.tableURL(table)+"?"+query.Encode(), &page); err != nil {
			return nil, err
		}
		pages++

		for _, wr := range page.Records {
			rec, err := toRecord(table, wr)
			if err != nil {
				return nil, &FetchError{Table: table, Op: "list", Kind: KindDecode, Err: err}
			}
			out = append(out, rec)
		}

		if page.Offset == "" || (c.maxRecords > 0 && len(out) >= c.maxRecords) {
			break
		}
		offset = page.Offset
	}

	if c.maxRecords > 0 && len(out) > c.maxRecords {
		out = out[:c.maxRecords]
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "airtable").
		Str("table", table).
		Int("records", len(out)).
		Int("pages", pages).
		Dur("duration", time.Since(start)).
		Msg("listed records")

	return out, nil
}

// FindRecord fetches one record by id. A 404 for a known table reports
// found=false without an error.
func (c *Client) FindRecord(ctx context.Context, table, id string) (record.Record, bool, error) {
	var wr wireRecord
	status, err := c.get(ctx, "find", table, c.tableURL(table)+"/"+url.PathEscape(id), &wr)
	if err != nil {
		var fe *FetchError
		if status == http.StatusNotFound && errors.As(err, &fe) && fe.Type != "TABLE_NOT_FOUND" {
			logging.FromContext(ctx).Debug().
				Ctx(ctx).
				Str("component", "airtable").
				Str("table", table).
				Str("record_id", id).
				Msg("record not found")
			return record.Record{}, false, nil
		}
		return record.Record{}, false, err
	}

	rec, err := toRecord(table, wr)
	if err != nil {
		return record.Record{}, false, &FetchError{Table: table, Op: "find", Kind: KindDecode, Err: err}
	}
	return rec, true, nil
}

func (c *Client) tableURL(table string) string {
	return fmt.Sprintf("%s/v0/%s/%s", c.baseURL, url.PathEscape(c.baseID), url.PathEscape(table))
}

// get performs one throttled GET and decodes a 2xx body into out. It returns
// the HTTP status (0 when no response arrived).
func (c *Client) get(ctx context.Context, op, table, target string, out any) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, &FetchError{Table: table, Op: op, Kind: KindNetwork, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, &FetchError{Table: table, Op: op, Kind: KindRequest, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, &FetchError{Table: table, Op: op, Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fe := &FetchError{
			Table:      table,
			Op:         op,
			StatusCode: resp.StatusCode,
			Kind:       kindForStatus(resp.StatusCode),
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		fe.Type, fe.Message = parseErrorBody(body)
		return resp.StatusCode, fe
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, &FetchError{
			Table:      table,
			Op:         op,
			StatusCode: resp.StatusCode,
			Kind:       KindDecode,
			Err:        err,
		}
	}
	return resp.StatusCode, nil
}

// parseErrorBody understands both error shapes the API emits:
// {"error":"NOT_FOUND"} and {"error":{"type":"...","message":"..."}}.
func parseErrorBody(body []byte) (string, string) {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 {
		return "", ""
	}

	var code string
	if err := json.Unmarshal(envelope.Error, &code); err == nil {
		return code, ""
	}

	var detail struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &detail); err != nil {
		return "", ""
	}
	return detail.Type, detail.Message
}

func toRecord(table string, wr wireRecord) (record.Record, error) {
	fields, err := record.DecodeFields(wr.Fields)
	if err != nil {
		return record.Record{}, fmt.Errorf("record %s: %w", wr.ID, err)
	}
	return record.Record{
		ID:          wr.ID,
		Table:       table,
		CreatedTime: wr.CreatedTime,
		Fields:      fields,
	}, nil
}
