// Package apiclient is the programmatic client for the CRM API: a session
// manager backed by durable credential storage, a route guard evaluated
// before protected operations, and a request pipeline that attaches bearer
// credentials and converts key casing between the application and the wire.
package apiclient

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
)

// APIError is a non-2xx response decoded from the backend's error body.
type APIError struct {
	Status  int
	Code    string
	Message string
	Field   string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (%d %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("api: request failed (%d %s)", e.Status, e.Code)
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Options groups the Client's construction parameters.
type Options struct {
	// BaseURL is the API root, e.g. "http://localhost:8080/api/v1".
	BaseURL string
	// Sessions supplies credentials to the pipeline and receives forced
	// logouts. The client attaches itself as the session's backend.
	Sessions *SessionManager
	// HTTPClient is the underlying client; its transport becomes the tail
	// of the pipeline. Defaults to a client with a 30s timeout.
	HTTPClient *http.Client
}

// Client issues typed calls against the CRM API. Every exchange passes
// through the credential and case conversion stages.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	sessions *SessionManager
}

// New builds a Client and attaches it to the session manager.
func New(opts Options) (*Client, error) {
	if opts.Sessions == nil {
		return nil, errors.New("session manager is required")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	pipeline := *httpClient
	pipeline.Transport = NewCredentialTransport(
		NewCasingTransport(httpClient.Transport),
		opts.Sessions,
	)

	c := &Client{baseURL: base, http: &pipeline, sessions: opts.Sessions}
	opts.Sessions.bindAPI(c)
	return c, nil
}

// Login implements AuthAPI.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register implements AuthAPI.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Verify implements AuthAPI.
func (c *Client) Verify(ctx context.Context) (*VerifyResponse, error) {
	var out VerifyResponse
	if err := c.do(ctx, http.MethodGet, "/auth/verify", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile fetches the caller's identity record and refreshes the session's
// cached copy.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, nil, &out); err != nil {
		return nil, err
	}
	if err := c.sessions.ApplyUser(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile changes the caller's identity record and refreshes the
// session's cached copy.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodPut, "/auth/profile", nil, req, &out); err != nil {
		return nil, err
	}
	if err := c.sessions.ApplyUser(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword rotates the caller's password.
func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	return c.do(ctx, http.MethodPut, "/auth/password", nil, req, nil)
}

// RevokeToken asks the server to revoke the current token. Local session
// state is the session manager's business, not this call's.
func (c *Client) RevokeToken(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

// ListClients returns one page of clients.
func (c *Client) ListClients(ctx context.Context, params ListParams) (*ClientPage, error) {
	var out ClientPage
	if err := c.do(ctx, http.MethodGet, "/clients", params.values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetClient fetches a client by id.
func (c *Client) GetClient(ctx context.Context, id int64) (*ClientRecord, error) {
	var out ClientRecord
	if err := c.do(ctx, http.MethodGet, clientPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateClient creates a client.
func (c *Client) CreateClient(ctx context.Context, req CreateClientRequest) (*ClientRecord, error) {
	var out ClientRecord
	if err := c.do(ctx, http.MethodPost, "/clients", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteClient deletes a client.
func (c *Client) DeleteClient(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, clientPath(id), nil, nil, nil)
}

// ClientProjects lists a client's projects.
func (c *Client) ClientProjects(ctx context.Context, id int64) ([]Project, error) {
	var out struct {
		Projects []Project `json:"projects"`
	}
	if err := c.do(ctx, http.MethodGet, clientPath(id)+"/projects", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}

// ListProjects returns one page of projects.
func (c *Client) ListProjects(ctx context.Context, params ListParams) (*ProjectPage, error) {
	var out ProjectPage
	if err := c.do(ctx, http.MethodGet, "/projects", params.values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProject fetches a project by id.
func (c *Client) GetProject(ctx context.Context, id int64) (*Project, error) {
	var out Project
	if err := c.do(ctx, http.MethodGet, "/projects/"+strconv.FormatInt(id, 10), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProjectProgress sets a project's progress percentage.
func (c *Client) UpdateProjectProgress(ctx context.Context, id int64, progress int) (*Project, error) {
	var out Project
	body := map[string]int{"progress": progress}
	path := "/projects/" + strconv.FormatInt(id, 10) + "/progress"
	if err := c.do(ctx, http.MethodPatch, path, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListQuotes returns one page of quotes.
func (c *Client) ListQuotes(ctx context.Context, params ListParams) (*QuotePage, error) {
	var out QuotePage
	if err := c.do(ctx, http.MethodGet, "/quotes", params.values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetQuote fetches a quote, including its items.
func (c *Client) GetQuote(ctx context.Context, id int64) (*Quote, error) {
	var out Quote
	if err := c.do(ctx, http.MethodGet, quotePath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendQuote moves a draft quote to sent.
func (c *Client) SendQuote(ctx context.Context, id int64) (*Quote, error) {
	return c.quoteAction(ctx, id, "send")
}

// AcceptQuote moves a sent quote to accepted.
func (c *Client) AcceptQuote(ctx context.Context, id int64) (*Quote, error) {
	return c.quoteAction(ctx, id, "accept")
}

// RejectQuote moves a sent quote to rejected.
func (c *Client) RejectQuote(ctx context.Context, id int64) (*Quote, error) {
	return c.quoteAction(ctx, id, "reject")
}

// DuplicateQuote copies a quote into a fresh draft.
func (c *Client) DuplicateQuote(ctx context.Context, id int64) (*Quote, error) {
	return c.quoteAction(ctx, id, "duplicate")
}

func (c *Client) quoteAction(ctx context.Context, id int64, action string) (*Quote, error) {
	var out Quote
	if err := c.do(ctx, http.MethodPost, quotePath(id)+"/"+action, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMaterials returns one page of materials.
func (c *Client) ListMaterials(ctx context.Context, params ListParams) (*MaterialPage, error) {
	var out MaterialPage
	if err := c.do(ctx, http.MethodGet, "/materials", params.values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdjustMaterialStock applies a signed stock delta to a material.
func (c *Client) AdjustMaterialStock(ctx context.Context, id int64, delta float64, reason string) (*Material, error) {
	var out Material
	body := map[string]any{"delta": delta, "reason": reason}
	path := "/materials/" + strconv.FormatInt(id, 10) + "/stock"
	if err := c.do(ctx, http.MethodPost, path, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDashboardStats fetches the dashboard headline figures.
func (c *Client) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var out DashboardStats
	if err := c.do(ctx, http.MethodGet, "/dashboard/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetReport fetches one of the read-only report aggregates. Name is one of
// financial, clients, projects, quotes. The result keeps the generic tree
// shape so callers can render it directly.
func (c *Client) GetReport(ctx context.Context, name string, from, to string) (map[string]any, error) {
	query := url.Values{}
	if from != "" {
		query.Set("from", from)
	}
	if to != "" {
		query.Set("to", to)
	}
	var out map[string]any
	if err := c.do(ctx, http.MethodGet, "/reports/"+name, query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func clientPath(id int64) string { return "/clients/" + strconv.FormatInt(id, 10) }
func quotePath(id int64) string  { return "/quotes/" + strconv.FormatInt(id, 10) }

func (p ListParams) values() url.Values {
	query := url.Values{}
	if p.Limit > 0 {
		query.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		query.Set("offset", strconv.Itoa(p.Offset))
	}
	if p.Q != "" {
		query.Set("q", p.Q)
	}
	if p.Sort != "" {
		query.Set("sort", p.Sort)
	}
	if p.Dir != "" {
		query.Set("dir", p.Dir)
	}
	if p.Status != "" {
		query.Set("status", p.Status)
	}
	return query
}

// do runs one request through the pipeline. A non-2xx status decodes into an
// *APIError; the error body's keys (error, message, field) are single words
// and unaffected by the casing stage.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := *c.baseURL
	target.Path = strings.TrimRight(target.Path, "/") + path
	if query != nil {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Field   string `json:"field"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Code = body.Error
		apiErr.Message = body.Message
		apiErr.Field = body.Field
	}
	return apiErr
}
