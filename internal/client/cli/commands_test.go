package cli

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/phonebook/internal/client/client"
	"github.com/dmitrijs2005/phonebook/internal/client/config"
	"github.com/dmitrijs2005/phonebook/internal/client/models"
	"github.com/dmitrijs2005/phonebook/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	loggedIn bool
	user     *models.User
	err      error

	registered []string
	loginEmail string
	loginPw    string
	logouts    int

	profilePatch models.ProfilePatch
	deletedSelf  bool
	avatarName   string
	avatarType   string
	avatarData   []byte

	created     *models.Contact
	listOpts    models.ListOptions
	listOut     *models.ContactPage
	contact     *models.Contact
	contactID   int64
	contactPtch models.ContactPatch
	deletedID   int64
	bulkIDs     []int64
	searchQ     string
	stats       *models.ContactStats
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Register(ctx context.Context, email, password, first, last string) (*models.User, error) {
	f.registered = []string{email, password, first, last}
	return &models.User{ID: 1, Email: email}, f.err
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*models.User, error) {
	f.loginEmail, f.loginPw = email, password
	if f.err != nil {
		return nil, f.err
	}
	f.loggedIn = true
	return f.user, nil
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.logouts++
	f.loggedIn = false
	return nil
}

func (f *fakeClient) LoggedIn() bool                 { return f.loggedIn }
func (f *fakeClient) Ping(ctx context.Context) error { return f.err }
func (f *fakeClient) WaitReady(ctx context.Context, d time.Duration) error {
	return f.err
}

func (f *fakeClient) Profile(ctx context.Context) (*models.User, error) {
	return f.user, f.err
}

func (f *fakeClient) UpdateProfile(ctx context.Context, p models.ProfilePatch) (*models.User, error) {
	f.profilePatch = p
	u := *f.user
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	return &u, f.err
}

func (f *fakeClient) DeleteAccount(ctx context.Context) error {
	f.deletedSelf = true
	f.loggedIn = false
	return f.err
}

func (f *fakeClient) UploadAvatar(ctx context.Context, name, ct string, data []byte) (*models.User, error) {
	f.avatarName, f.avatarType, f.avatarData = name, ct, data
	url := "https://cdn/a.jpg"
	return &models.User{ID: 1, AvatarURL: &url}, f.err
}

func (f *fakeClient) CreateContact(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	f.created = c
	out := *c
	out.ID = 11
	return &out, f.err
}

func (f *fakeClient) ListContacts(ctx context.Context, o models.ListOptions) (*models.ContactPage, error) {
	f.listOpts = o
	return f.listOut, f.err
}

func (f *fakeClient) GetContact(ctx context.Context, id int64) (*models.Contact, error) {
	f.contactID = id
	if f.err != nil {
		return nil, f.err
	}
	return f.contact, nil
}

func (f *fakeClient) UpdateContact(ctx context.Context, id int64, p models.ContactPatch) (*models.Contact, error) {
	f.contactID, f.contactPtch = id, p
	return f.contact, f.err
}

func (f *fakeClient) ToggleFavorite(ctx context.Context, id int64) (*models.Contact, error) {
	f.contactID = id
	c := *f.contact
	c.IsFavorite = !c.IsFavorite
	return &c, f.err
}

func (f *fakeClient) DeleteContact(ctx context.Context, id int64) error {
	f.deletedID = id
	return f.err
}

func (f *fakeClient) BulkDeleteContacts(ctx context.Context, ids []int64) (int64, error) {
	f.bulkIDs = ids
	return int64(len(ids)), f.err
}

func (f *fakeClient) ContactStats(ctx context.Context) (*models.ContactStats, error) {
	return f.stats, f.err
}

func (f *fakeClient) SearchContacts(ctx context.Context, q string) ([]models.Contact, error) {
	f.searchQ = q
	if f.listOut == nil {
		return nil, f.err
	}
	return f.listOut.Data, f.err
}

func newTestApp(fc *fakeClient, lines ...string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	input := strings.Join(lines, "\n")
	if len(lines) > 0 {
		input += "\n"
	}
	return &App{
		config: &config.Config{ServerURL: "http://test"},
		client: fc,
		reader: bufio.NewReader(strings.NewReader(input)),
		out:    &out,
	}, &out
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	old := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = old })
}

func TestNewApp(t *testing.T) {
	a, err := NewApp(&config.Config{ServerURL: "http://localhost:8080", RequestTimeout: time.Second})
	require.NoError(t, err)
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, "(guest)", a.getStatus())

	_, err = NewApp(&config.Config{})
	assert.Error(t, err)
}

func TestLoginAndLogout(t *testing.T) {
	stubPassword(t, "Secret123!")
	fc := &fakeClient{user: &models.User{ID: 7, Email: "a@x.com", FirstName: "Ann", LastName: "Lee"}}
	a, out := newTestApp(fc, "a@x.com")

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, "a@x.com", fc.loginEmail)
	assert.Equal(t, "Secret123!", fc.loginPw)
	assert.Equal(t, "(Ann Lee)", a.getStatus())
	assert.Contains(t, out.String(), "Welcome, Ann Lee!")

	require.NoError(t, a.Logout(context.Background()))
	assert.Equal(t, 1, fc.logouts)
	assert.Equal(t, "(guest)", a.getStatus())
}

func TestLogin_WrongPassword(t *testing.T) {
	stubPassword(t, "nope")
	fc := &fakeClient{err: &client.APIError{StatusCode: 401, Message: "wrong password", Kind: "InvalidCredentials"}}
	a, _ := newTestApp(fc, "a@x.com")

	err := a.Login(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Wrong password.", describeErr(err))
	assert.False(t, a.isLoggedIn())
}

func TestLogin_EmptyInput(t *testing.T) {
	stubPassword(t, "")
	a, _ := newTestApp(&fakeClient{}, "")
	assert.EqualError(t, a.Login(context.Background()), "email is required")

	a, _ = newTestApp(&fakeClient{}, "a@x.com")
	assert.EqualError(t, a.Login(context.Background()), "password is required")
}

func TestRegister(t *testing.T) {
	stubPassword(t, "Secret123!")
	fc := &fakeClient{}
	a, out := newTestApp(fc, "new@x.com", "Ann", "")

	require.NoError(t, a.Register(context.Background()))
	assert.Equal(t, []string{"new@x.com", "Secret123!", "Ann", ""}, fc.registered)
	assert.Contains(t, out.String(), "Registered new@x.com")
}

func TestEditProfile(t *testing.T) {
	fc := &fakeClient{loggedIn: true, user: &models.User{ID: 7, Email: "a@x.com", FirstName: "Ann", Phone: "1"}}
	a, _ := newTestApp(fc, "Anna", "", "-", "", "")

	require.NoError(t, a.EditProfile(context.Background()))
	require.NotNil(t, fc.profilePatch.FirstName)
	assert.Equal(t, "Anna", *fc.profilePatch.FirstName)
	assert.Nil(t, fc.profilePatch.LastName)
	require.NotNil(t, fc.profilePatch.Phone)
	assert.Equal(t, "", *fc.profilePatch.Phone)
	assert.Equal(t, "Anna", a.userName)
}

func TestEditProfile_NothingToChange(t *testing.T) {
	fc := &fakeClient{loggedIn: true, user: &models.User{ID: 7}}
	a, out := newTestApp(fc, "", "", "", "", "")

	require.NoError(t, a.EditProfile(context.Background()))
	assert.Contains(t, out.String(), "Nothing to change.")
	assert.Equal(t, models.ProfilePatch{}, fc.profilePatch)
}

func TestAvatar(t *testing.T) {
	fc := &fakeClient{loggedIn: true}
	a, out := newTestApp(fc)

	p := filepath.Join(t.TempDir(), "me.png")
	png := []byte("\x89PNG\r\n\x1a\n0000")
	require.NoError(t, os.WriteFile(p, png, 0o600))

	require.NoError(t, a.Avatar(context.Background(), []string{p}))
	assert.Equal(t, "me.png", fc.avatarName)
	assert.Equal(t, "image/png", fc.avatarType)
	assert.Equal(t, png, fc.avatarData)
	assert.Contains(t, out.String(), "https://cdn/a.jpg")

	assert.Error(t, a.Avatar(context.Background(), nil))
	assert.Error(t, a.Avatar(context.Background(), []string{filepath.Join(t.TempDir(), "missing")}))
}

func TestAvatar_StorageDisabled(t *testing.T) {
	fc := &fakeClient{loggedIn: true, err: &client.APIError{StatusCode: 503, Kind: "AvatarStorageDisabled"}}
	a, _ := newTestApp(fc)
	p := filepath.Join(t.TempDir(), "me.png")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))

	err := a.Avatar(context.Background(), []string{p})
	assert.ErrorIs(t, err, common.ErrAvatarStorageDisabled)
	assert.Equal(t, "Avatar uploads are disabled on this server.", describeErr(err))
}

func TestDeleteAccount(t *testing.T) {
	fc := &fakeClient{loggedIn: true}
	a, _ := newTestApp(fc, "n")
	require.NoError(t, a.DeleteAccount(context.Background()))
	assert.False(t, fc.deletedSelf)

	a, out := newTestApp(fc, "y")
	require.NoError(t, a.DeleteAccount(context.Background()))
	assert.True(t, fc.deletedSelf)
	assert.Contains(t, out.String(), "Account deleted.")
}

func TestAddContact(t *testing.T) {
	fc := &fakeClient{loggedIn: true}
	a, out := newTestApp(fc, "Bob", "555", "bob@x.com", "Acme", "", "", "", "work", "1990-05-17")

	require.NoError(t, a.Add(context.Background()))
	require.NotNil(t, fc.created)
	assert.Equal(t, "Bob", fc.created.Name)
	assert.Equal(t, "555", fc.created.Phone)
	assert.Equal(t, "Acme", fc.created.Company)
	assert.Equal(t, "work", fc.created.Tags)
	require.NotNil(t, fc.created.Birthday)
	assert.Equal(t, "1990-05-17", fc.created.Birthday.Format(time.DateOnly))
	assert.Contains(t, out.String(), "Contact #11 created.")
}

func TestAddContact_NameRequired(t *testing.T) {
	fc := &fakeClient{loggedIn: true}
	a, _ := newTestApp(fc, "")
	assert.EqualError(t, a.Add(context.Background()), "name is required")
	assert.Nil(t, fc.created)
}

func TestParseListArgs(t *testing.T) {
	o, err := parseListArgs([]string{"fav", "search=bob", "company=Acme", "sort=name", "order=desc", "page=2", "limit=5"})
	require.NoError(t, err)
	require.NotNil(t, o.IsFavorite)
	assert.True(t, *o.IsFavorite)
	assert.Equal(t, models.ListOptions{
		Search: "bob", Company: "Acme", IsFavorite: o.IsFavorite, SortBy: "name", SortOrder: "desc", Page: 2, Limit: 5,
	}, o)

	o, err = parseListArgs([]string{"fav=false"})
	require.NoError(t, err)
	assert.False(t, *o.IsFavorite)

	for _, bad := range [][]string{{"page=0"}, {"limit=x"}, {"fav=maybe"}, {"color=red"}, {"bob"}} {
		_, err := parseListArgs(bad)
		assert.Error(t, err, bad)
	}
}

func TestListContacts(t *testing.T) {
	fc := &fakeClient{loggedIn: true, listOut: &models.ContactPage{
		Data:  []models.Contact{{ID: 1, Name: "Bob", IsFavorite: true}, {ID: 2, Name: "Carol"}},
		Total: 12,
	}}
	a, out := newTestApp(fc)

	require.NoError(t, a.List(context.Background(), []string{"page=2"}))
	assert.Equal(t, 2, fc.listOpts.Page)
	assert.Contains(t, out.String(), "Bob")
	assert.Contains(t, out.String(), "2 of 12 contacts")
}

func TestShowEditFavDelete(t *testing.T) {
	fc := &fakeClient{loggedIn: true, contact: &models.Contact{ID: 3, Name: "Bob", Phone: "1"}}
	ctx := context.Background()

	a, out := newTestApp(fc)
	require.NoError(t, a.Show(ctx, []string{"3"}))
	assert.Equal(t, int64(3), fc.contactID)
	assert.Contains(t, out.String(), "Bob")
	assert.Error(t, a.Show(ctx, []string{"abc"}))
	assert.Error(t, a.Show(ctx, nil))

	a, _ = newTestApp(fc, "", "2", "", "", "", "", "", "", "y")
	require.NoError(t, a.Edit(ctx, []string{"3"}))
	assert.Nil(t, fc.contactPtch.Name)
	require.NotNil(t, fc.contactPtch.Phone)
	assert.Equal(t, "2", *fc.contactPtch.Phone)
	require.NotNil(t, fc.contactPtch.IsImportant)
	assert.True(t, *fc.contactPtch.IsImportant)

	a, _ = newTestApp(fc, "-", "", "", "", "", "", "", "")
	assert.EqualError(t, a.Edit(ctx, []string{"3"}), "name cannot be empty")

	a, out = newTestApp(fc)
	require.NoError(t, a.Favorite(ctx, []string{"3"}))
	assert.Contains(t, out.String(), "Bob added to favorites.")

	require.NoError(t, a.Delete(ctx, []string{"3"}))
	assert.Equal(t, int64(3), fc.deletedID)
}

func TestBulkDelete(t *testing.T) {
	fc := &fakeClient{loggedIn: true}
	a, out := newTestApp(fc)

	require.NoError(t, a.BulkDelete(context.Background(), []string{"1", "2", "3"}))
	assert.Equal(t, []int64{1, 2, 3}, fc.bulkIDs)
	assert.Contains(t, out.String(), "3 contacts deleted.")

	assert.Error(t, a.BulkDelete(context.Background(), nil))
	assert.Error(t, a.BulkDelete(context.Background(), []string{"1", "-2"}))
}

func TestSearchAndStats(t *testing.T) {
	fc := &fakeClient{
		loggedIn: true,
		listOut:  &models.ContactPage{Data: []models.Contact{{ID: 1, Name: "Bob Smith"}}},
		stats:    &models.ContactStats{Total: 4, Favorites: 1, Companies: 2, Recent: 3},
	}
	a, out := newTestApp(fc)

	require.NoError(t, a.Search(context.Background(), []string{"bob", "smith"}))
	assert.Equal(t, "bob smith", fc.searchQ)
	assert.Contains(t, out.String(), "Bob Smith")
	assert.Error(t, a.Search(context.Background(), nil))

	require.NoError(t, a.Stats(context.Background()))
	assert.Contains(t, out.String(), "Total: 4")
	assert.Contains(t, out.String(), "Added last 30 days: 3")
}

func TestSessionExpiredSurfaces(t *testing.T) {
	fc := &fakeClient{loggedIn: true, err: client.ErrSessionExpired}
	a, _ := newTestApp(fc)

	err := a.Stats(context.Background())
	assert.Equal(t, "Session expired, please log in again.", describeErr(err))
}

func TestRun_RevokesSessionOnExit(t *testing.T) {
	capturePrints(t)
	stubPassword(t, "Secret123!")
	fc := &fakeClient{user: &models.User{ID: 7, Email: "a@x.com"}}
	a, out := newTestApp(fc, "login", "a@x.com", "exit")

	a.Run(context.Background())
	assert.Equal(t, 1, fc.logouts)
	assert.Contains(t, out.String(), "Welcome, a@x.com!")
}
