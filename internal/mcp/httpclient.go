package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claude/trainplan/internal/catalog"
	"github.com/claude/trainplan/internal/intake"
	"github.com/claude/trainplan/internal/models"
	"github.com/claude/trainplan/internal/program"
	"github.com/claude/trainplan/internal/storage"
)

// HTTPClient implements DataSource by calling the trainplan REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// programs live on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. apiKey is
// sent on generation requests only.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// statusError carries a non-200 response so callers can map it back to the
// sentinel the local backend would return.
type statusError struct {
	path   string
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("httpclient: %s returned %d: %s", e.path, e.status, e.body)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, payload any) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, &statusError{path: path, status: resp.StatusCode, body: strings.TrimSpace(string(respBody))}
	}

	return respBody, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

// mapStatus turns a status error into the sentinel for that status.
func mapStatus(err error, status int, sentinel error) error {
	var se *statusError
	if errors.As(err, &se) && se.status == status {
		return fmt.Errorf("%w: %s", sentinel, se.body)
	}
	return err
}

func decodeInto[T any](body []byte, what string) (*T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("httpclient: decode %s: %w", what, err)
	}
	return &v, nil
}

func (c *HTTPClient) Generate(ctx context.Context, q models.Questionnaire, _ int) (*intake.Result, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/v1/programs", nil, q)
	if err != nil {
		return nil, mapStatus(err, http.StatusBadRequest, models.ErrInvalidQuestionnaire)
	}
	return decodeInto[intake.Result](body, "program")
}

func (c *HTTPClient) Program(ctx context.Context, id uuid.UUID) (*storage.ProgramRecord, error) {
	body, err := c.get(ctx, "/api/v1/programs/"+id.String(), nil)
	if err != nil {
		return nil, mapStatus(err, http.StatusNotFound, storage.ErrNotFound)
	}
	return decodeInto[storage.ProgramRecord](body, "program")
}

func (c *HTTPClient) Programs(ctx context.Context, _ int, limit int) ([]storage.ProgramSummary, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	body, err := c.get(ctx, "/api/v1/programs", params)
	if err != nil {
		return nil, err
	}
	var programs []storage.ProgramSummary
	if err := json.Unmarshal(body, &programs); err != nil {
		return nil, fmt.Errorf("httpclient: decode programs: %w", err)
	}
	return programs, nil
}

func (c *HTTPClient) Stats(ctx context.Context, _ int) (*storage.GenerationStats, error) {
	body, err := c.get(ctx, "/api/v1/stats", nil)
	if err != nil {
		return nil, err
	}
	return decodeInto[storage.GenerationStats](body, "stats")
}

func (c *HTTPClient) Exercise(ctx context.Context, id string) (*catalog.Exercise, error) {
	body, err := c.get(ctx, "/api/v1/catalog/exercises/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, mapStatus(err, http.StatusNotFound, catalog.ErrNotFound)
	}
	return decodeInto[catalog.Exercise](body, "exercise")
}

func (c *HTTPClient) Alternatives(ctx context.Context, id string, q intake.AlternativesQuery) (*intake.Alternatives, error) {
	params := url.Values{}
	if q.Experience != "" {
		params.Set("experience", q.Experience)
	}
	if len(q.Equipment) > 0 {
		params.Set("equipment", strings.Join(q.Equipment, ","))
	}
	if len(q.Attachments) > 0 {
		params.Set("attachments", strings.Join(q.Attachments, ","))
	}
	if len(q.Specific) > 0 {
		params.Set("specific_equipment", strings.Join(q.Specific, ","))
	}
	body, err := c.get(ctx, "/api/v1/catalog/exercises/"+url.PathEscape(id)+"/alternatives", params)
	if err != nil {
		return nil, mapStatus(err, http.StatusNotFound, catalog.ErrNotFound)
	}
	return decodeInto[intake.Alternatives](body, "alternatives")
}

func (c *HTTPClient) Template(ctx context.Context, days int, duration string) (*program.Plan, error) {
	params := url.Values{}
	params.Set("days", strconv.Itoa(days))
	if duration != "" {
		params.Set("duration", duration)
	}
	body, err := c.get(ctx, "/api/v1/templates", params)
	if err != nil {
		return nil, err
	}
	return decodeInto[program.Plan](body, "template")
}

func (c *HTTPClient) ComplexityRules(ctx context.Context) (map[string]program.ComplexityRule, error) {
	body, err := c.get(ctx, "/api/v1/rules", nil)
	if err != nil {
		return nil, err
	}
	var rules map[string]program.ComplexityRule
	if err := json.Unmarshal(body, &rules); err != nil {
		return nil, fmt.Errorf("httpclient: decode rules: %w", err)
	}
	return rules, nil
}

func (c *HTTPClient) CatalogSummary(ctx context.Context) (*intake.CatalogSummary, error) {
	body, err := c.get(ctx, "/api/v1/catalog/summary", nil)
	if err != nil {
		return nil, err
	}
	return decodeInto[intake.CatalogSummary](body, "catalog summary")
}
