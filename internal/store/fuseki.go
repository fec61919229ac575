package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/newsgraph-io/newsgraph/internal/config"
	"github.com/newsgraph-io/newsgraph/internal/types"
)

// Value is one cell of a SPARQL result row.
type Value struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Binding is one row of a SPARQL result set, keyed by variable name.
type Binding map[string]Value

// Get returns the bound value for a variable, empty when unbound.
func (b Binding) Get(name string) string { return b[name].Value }

// Has reports whether the variable is bound in this row.
func (b Binding) Has(name string) bool {
	_, ok := b[name]
	return ok
}

// Client talks to a Fuseki-style triple store over its three HTTP
// endpoints: /data for graph uploads, /query for reads, /update for
// deletes and rewrites. Mutating calls carry a shorter timeout than reads.
type Client struct {
	dataURL   string
	queryURL  string
	updateURL string
	write     *http.Client
	read      *http.Client
	logger    *slog.Logger
}

// New creates a Client from the store configuration.
func New(cfg *config.Config, logger *slog.Logger) *Client {
	base := strings.TrimRight(cfg.Store.BaseURL, "/") + "/" + cfg.Store.Dataset
	return &Client{
		dataURL:   base + "/data",
		queryURL:  base + "/query",
		updateURL: base + "/update",
		write:     &http.Client{Timeout: cfg.Store.WriteTimeout},
		read:      &http.Client{Timeout: cfg.Store.QueryTimeout},
		logger:    logger.With("component", "store"),
	}
}

// Insert uploads a Turtle-serialized statement set.
func (c *Client) Insert(ctx context.Context, turtle string) error {
	if strings.TrimSpace(turtle) == "" {
		return types.ErrEmptyGraph
	}
	resp, err := c.post(ctx, c.write, c.dataURL, "text/turtle", turtle)
	if err != nil {
		return &types.StoreError{Operation: "insert", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return storeError("insert", resp)
	}
	c.logger.Debug("statements inserted", "status", resp.StatusCode)
	return nil
}

// Query runs a SPARQL query and returns the result rows.
func (c *Client) Query(ctx context.Context, sparql string) ([]Binding, error) {
	resp, err := c.post(ctx, c.read, c.queryURL, "application/sparql-query", sparql)
	if err != nil {
		return nil, &types.StoreError{Operation: "query", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, storeError("query", resp)
	}

	var result struct {
		Results struct {
			Bindings []Binding `json:"bindings"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &types.StoreError{Operation: "query", Err: err}
	}
	return result.Results.Bindings, nil
}

// Ping checks store connectivity with a trivial ASK query.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Query(ctx, "ASK {}")
	return err
}

// Update runs a SPARQL update. The store answers 204 on success.
func (c *Client) Update(ctx context.Context, sparql string) error {
	resp, err := c.post(ctx, c.write, c.updateURL, "application/sparql-update", sparql)
	if err != nil {
		return &types.StoreError{Operation: "update", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return storeError("update", resp)
	}
	return nil
}

func (c *Client) post(ctx context.Context, client *http.Client, url, contentType, body string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if contentType == "application/sparql-query" {
		req.Header.Set("Accept", "application/sparql-results+json")
	}
	return client.Do(req)
}

func storeError(operation string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &types.StoreError{
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
		Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
	}
}
