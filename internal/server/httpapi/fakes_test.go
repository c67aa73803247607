package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/phonebook/internal/common"
	"github.com/dmitrijs2005/phonebook/internal/logging"
	"github.com/dmitrijs2005/phonebook/internal/server/auth"
	"github.com/dmitrijs2005/phonebook/internal/server/models"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("http-test-secret")

type fakeUsers struct {
	registerErr error
	loginErr    error
	refreshErr  error
	logoutErr   error

	loggedOut []string
	refreshed []string
}

func (f *fakeUsers) Register(ctx context.Context, email, password, firstName, lastName string) (*models.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.User{ID: 1, Email: email, FirstName: firstName, LastName: lastName, Role: "user", IsActive: true}, nil
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (*models.User, *models.TokenPair, error) {
	if f.loginErr != nil {
		return nil, nil, f.loginErr
	}
	return &models.User{ID: 1, Email: email}, &models.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (f *fakeUsers) RefreshToken(ctx context.Context, token string) (*models.TokenPair, error) {
	f.refreshed = append(f.refreshed, token)
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return &models.TokenPair{AccessToken: "access2", RefreshToken: "refresh2"}, nil
}

func (f *fakeUsers) Logout(ctx context.Context, token string) error {
	f.loggedOut = append(f.loggedOut, token)
	return f.logoutErr
}

func (f *fakeUsers) ValidateAccessToken(token string) (*auth.Claims, error) {
	return auth.ParseToken(token, testSecret)
}

type fakeProfiles struct {
	users map[int64]*models.User

	uploadType string
	uploadData []byte
	uploadErr  error
	patches    []models.ProfilePatch
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{users: map[int64]*models.User{
		1: {ID: 1, Email: "a@x.com", FirstName: "Ann"},
		2: {ID: 2, Email: "b@x.com"},
	}}
}

func (f *fakeProfiles) Profile(ctx context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeProfiles) UpdateProfile(ctx context.Context, id int64, p models.ProfilePatch) (*models.User, error) {
	f.patches = append(f.patches, p)
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	return u, nil
}

func (f *fakeProfiles) DeleteAccount(ctx context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeProfiles) UploadAvatar(ctx context.Context, id int64, contentType string, data []byte) (*models.User, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.uploadType = contentType
	f.uploadData = data
	u := f.users[id]
	url := "https://cdn.example.com/avatars/1/x.jpg"
	u.AvatarURL = &url
	return u, nil
}

type fakeContacts struct {
	byID map[int64]models.Contact

	lastFilter models.ContactFilter
	lastQuery  string
	bulkIDs    []int64
}

func newFakeContacts() *fakeContacts {
	return &fakeContacts{byID: map[int64]models.Contact{
		10: {ID: 10, UserID: 1, Name: "Bob"},
		20: {ID: 20, UserID: 2, Name: "Eve"},
	}}
}

func (f *fakeContacts) Create(ctx context.Context, userID int64, c *models.Contact) (*models.Contact, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, common.ValidationError("name is required")
	}
	c.ID = 99
	c.UserID = userID
	return c, nil
}

func (f *fakeContacts) List(ctx context.Context, userID int64, fl models.ContactFilter) (*models.ContactPage, error) {
	if fl.SortBy == "bogus" {
		return nil, common.ValidationError("sortBy must be one of name, company, created_at, updated_at")
	}
	f.lastFilter = fl
	page := &models.ContactPage{Data: []models.Contact{}}
	for _, c := range f.byID {
		if c.UserID == userID {
			page.Data = append(page.Data, c)
		}
	}
	page.Total = len(page.Data)
	return page, nil
}

func (f *fakeContacts) Get(ctx context.Context, userID, id int64) (*models.Contact, error) {
	c, ok := f.byID[id]
	if !ok || c.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return &c, nil
}

func (f *fakeContacts) Update(ctx context.Context, userID, id int64, p models.ContactPatch) (*models.Contact, error) {
	c, err := f.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	p.Apply(c)
	f.byID[id] = *c
	return c, nil
}

func (f *fakeContacts) ToggleFavorite(ctx context.Context, userID, id int64) (*models.Contact, error) {
	c, err := f.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	c.IsFavorite = !c.IsFavorite
	f.byID[id] = *c
	return c, nil
}

func (f *fakeContacts) Delete(ctx context.Context, userID, id int64) error {
	if _, err := f.Get(ctx, userID, id); err != nil {
		return err
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeContacts) BulkDelete(ctx context.Context, userID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, common.ValidationError("no contact ids provided")
	}
	f.bulkIDs = ids
	var n int64
	for _, id := range ids {
		if f.Delete(ctx, userID, id) == nil {
			n++
		}
	}
	return n, nil
}

func (f *fakeContacts) Stats(ctx context.Context, userID int64) (*models.ContactStats, error) {
	return &models.ContactStats{Total: 1, Favorites: 0, Companies: 0, Recent: 1}, nil
}

func (f *fakeContacts) Search(ctx context.Context, userID int64, q string) ([]models.Contact, error) {
	f.lastQuery = q
	return []models.Contact{}, nil
}

type testEnv struct {
	srv      *HTTPServer
	users    *fakeUsers
	profiles *fakeProfiles
	contacts *fakeContacts
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{users: &fakeUsers{}, profiles: newFakeProfiles(), contacts: newFakeContacts()}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	env.srv = NewHTTPServer(Options{
		Address:        "127.0.0.1:0",
		AvatarMaxBytes: 5 << 20,
		Users:          env.users,
		Profiles:       env.profiles,
		Contacts:       env.contacts,
	}, logger)
	return env
}

func bearer(t *testing.T, userID int64) string {
	t.Helper()
	tok, err := auth.GenerateToken(userID, "a@x.com", "user", testSecret, time.Minute)
	require.NoError(t, err)
	return common.BearerPrefix + tok
}

func (e *testEnv) do(t *testing.T, method, path, body, authz string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, path, r)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authz != "" {
		req.Header.Set(common.AuthorizationHeaderName, authz)
	}
	resp, err := e.srv.App().Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}
