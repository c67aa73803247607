package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dmitrijs2005/phonebook/internal/client/models"
	"github.com/dmitrijs2005/phonebook/internal/common"
)

// request is kept as bytes so it can be replayed after a refresh.
type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	auth        bool
}

type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	user         *models.User

	// serializes refreshes so one 401 burst rotates the token once
	refreshMu sync.Mutex
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	tr := &http.Transport{
		DialContext:     (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		MaxIdleConns:    10,
		IdleConnTimeout: 90 * time.Second,
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Transport: tr, Timeout: timeout},
	}
}

// Session returns the current token pair; empty strings when logged out.
func (c *HTTPClient) Session() (accessToken, refreshToken string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

// SetSession installs a token pair obtained elsewhere.
func (c *HTTPClient) SetSession(accessToken, refreshToken string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken, c.refreshToken = accessToken, refreshToken
}

func (c *HTTPClient) LoggedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshToken != ""
}

// CurrentUser is the user returned by the last login, if any.
func (c *HTTPClient) CurrentUser() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

func (c *HTTPClient) clearSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken, c.refreshToken, c.user = "", "", nil
}

func jsonRequest(method, path string, in any, auth bool) (request, error) {
	r := request{method: method, path: path, auth: auth}
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return r, err
		}
		r.body = b
		r.contentType = "application/json"
	}
	return r, nil
}

// send performs one round trip with the given access token.
func (c *HTTPClient) send(ctx context.Context, r request, accessToken string, out any) error {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return err
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", "application/json")
	if r.auth && accessToken != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(data, apiErr)
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func isUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// do sends an authenticated request, refreshing the session at most once.
func (c *HTTPClient) do(ctx context.Context, r request, out any) error {
	if !r.auth {
		return c.send(ctx, r, "", out)
	}

	access, refresh := c.Session()
	if refresh == "" {
		return ErrNotLoggedIn
	}

	err := c.send(ctx, r, access, out)
	if !isUnauthorized(err) {
		return err
	}

	if err := c.refresh(ctx, access); err != nil {
		return err
	}

	access, _ = c.Session()
	return c.send(ctx, r, access, out)
}

// refresh rotates the token pair unless another caller already replaced
// staleAccess.
func (c *HTTPClient) refresh(ctx context.Context, staleAccess string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	access, refresh := c.Session()
	if access != staleAccess && refresh != "" {
		return nil
	}
	if refresh == "" {
		return ErrSessionExpired
	}

	r, err := jsonRequest(http.MethodPost, "/auth/refresh", map[string]string{"refreshToken": refresh}, false)
	if err != nil {
		return err
	}

	var pair models.TokenPair
	if err := c.send(ctx, r, "", &pair); err != nil {
		// a network failure says nothing about the token; keep it
		if errors.Is(err, ErrUnavailable) || ctx.Err() != nil {
			return err
		}
		c.clearSession()
		return fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}

	c.SetSession(pair.AccessToken, pair.RefreshToken)
	return nil
}

func (c *HTTPClient) Register(ctx context.Context, email, password, firstName, lastName string) (*models.User, error) {
	r, err := jsonRequest(http.MethodPost, "/auth/register", map[string]string{
		"email":     email,
		"password":  password,
		"firstName": firstName,
		"lastName":  lastName,
	}, false)
	if err != nil {
		return nil, err
	}

	var resp struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.User, error) {
	r, err := jsonRequest(http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, false)
	if err != nil {
		return nil, err
	}

	var resp struct {
		models.TokenPair
		User models.User `json:"user"`
	}
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.accessToken, c.refreshToken = resp.AccessToken, resp.RefreshToken
	c.user = &resp.User
	c.mu.Unlock()

	return &resp.User, nil
}

// Logout revokes the refresh token on the server if it can and always
// forgets the local session.
func (c *HTTPClient) Logout(ctx context.Context) error {
	access, refresh := c.Session()
	defer c.clearSession()

	if refresh == "" {
		return nil
	}

	r, err := jsonRequest(http.MethodPost, "/auth/logout", map[string]string{"refreshToken": refresh}, true)
	if err != nil {
		return nil
	}
	_ = c.send(ctx, r, access, nil)
	return nil
}

// Ping checks /healthz once.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.send(ctx, request{method: http.MethodGet, path: "/healthz"}, "", nil)
}

// WaitReady pings the server with exponential backoff until it answers or
// maxElapsed passes.
func (c *HTTPClient) WaitReady(ctx context.Context, maxElapsed time.Duration) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxElapsedTime = maxElapsed

	return backoff.Retry(func() error {
		err := c.Ping(ctx)
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(b, ctx))
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/profile", auth: true}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) selfPath(suffix string) (string, error) {
	u := c.CurrentUser()
	if u == nil {
		return "", ErrNotLoggedIn
	}
	return "/users/" + strconv.FormatInt(u.ID, 10) + suffix, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, patch models.ProfilePatch) (*models.User, error) {
	path, err := c.selfPath("")
	if err != nil {
		return nil, err
	}
	r, err := jsonRequest(http.MethodPatch, path, patch, true)
	if err != nil {
		return nil, err
	}

	var u models.User
	if err := c.do(ctx, r, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) DeleteAccount(ctx context.Context) error {
	path, err := c.selfPath("")
	if err != nil {
		return err
	}
	if err := c.do(ctx, request{method: http.MethodDelete, path: path, auth: true}, nil); err != nil {
		return err
	}
	c.clearSession()
	return nil
}

func (c *HTTPClient) UploadAvatar(ctx context.Context, filename, contentType string, data []byte) (*models.User, error) {
	path, err := c.selfPath("/avatar")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="avatar"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	r := request{
		method:      http.MethodPost,
		path:        path,
		body:        buf.Bytes(),
		contentType: w.FormDataContentType(),
		auth:        true,
	}

	var resp struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *HTTPClient) CreateContact(ctx context.Context, in *models.Contact) (*models.Contact, error) {
	r, err := jsonRequest(http.MethodPost, "/contacts", in, true)
	if err != nil {
		return nil, err
	}

	var out models.Contact
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func listQuery(o models.ListOptions) url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("search", o.Search)
	set("company", o.Company)
	set("sortBy", o.SortBy)
	set("sortOrder", o.SortOrder)
	if o.IsFavorite != nil {
		q.Set("isFavorite", strconv.FormatBool(*o.IsFavorite))
	}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	return q
}

func (c *HTTPClient) ListContacts(ctx context.Context, opts models.ListOptions) (*models.ContactPage, error) {
	var page models.ContactPage
	r := request{method: http.MethodGet, path: "/contacts", query: listQuery(opts), auth: true}
	if err := c.do(ctx, r, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func contactPath(id int64, suffix string) string {
	return "/contacts/" + strconv.FormatInt(id, 10) + suffix
}

func (c *HTTPClient) GetContact(ctx context.Context, id int64) (*models.Contact, error) {
	var out models.Contact
	if err := c.do(ctx, request{method: http.MethodGet, path: contactPath(id, ""), auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateContact(ctx context.Context, id int64, patch models.ContactPatch) (*models.Contact, error) {
	r, err := jsonRequest(http.MethodPatch, contactPath(id, ""), patch, true)
	if err != nil {
		return nil, err
	}

	var out models.Contact
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ToggleFavorite(ctx context.Context, id int64) (*models.Contact, error) {
	var out models.Contact
	if err := c.do(ctx, request{method: http.MethodPatch, path: contactPath(id, "/favorite"), auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteContact(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: contactPath(id, ""), auth: true}, nil)
}

func (c *HTTPClient) BulkDeleteContacts(ctx context.Context, ids []int64) (int64, error) {
	r, err := jsonRequest(http.MethodDelete, "/contacts/bulk", map[string][]int64{"ids": ids}, true)
	if err != nil {
		return 0, err
	}

	var resp struct {
		Deleted int64 `json:"deleted"`
	}
	if err := c.do(ctx, r, &resp); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}

func (c *HTTPClient) ContactStats(ctx context.Context) (*models.ContactStats, error) {
	var out models.ContactStats
	if err := c.do(ctx, request{method: http.MethodGet, path: "/contacts/stats", auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SearchContacts(ctx context.Context, q string) ([]models.Contact, error) {
	r := request{method: http.MethodGet, path: "/contacts/search", query: url.Values{"q": {q}}, auth: true}

	var out []models.Contact
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return out, nil
}
