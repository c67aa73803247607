package services

import (
	"context"
	"database/sql"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/phonebook/internal/common"
	"github.com/dmitrijs2005/phonebook/internal/dbx"
	"github.com/dmitrijs2005/phonebook/internal/server/models"
	contactsrepo "github.com/dmitrijs2005/phonebook/internal/server/repositories/contacts"
	refreshtokensrepo "github.com/dmitrijs2005/phonebook/internal/server/repositories/refreshtokens"
	usersrepo "github.com/dmitrijs2005/phonebook/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// --- users ---

type fakeUsersRepo struct {
	mu     sync.Mutex
	byID   map[int64]models.User
	nextID int64

	getErr       error
	createErr    error
	lastLoginErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[int64]models.User{}}
}

func (f *fakeUsersRepo) put(u models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == 0 {
		f.nextID++
		u.ID = f.nextID
	}
	f.byID[u.ID] = u
	return &u
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	return f.put(*u), nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (f *fakeUsersRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	if f.lastLoginErr != nil {
		return f.lastLoginErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.byID[id]
	u.LastLogin = &at
	f.byID[id] = u
	return nil
}

func (f *fakeUsersRepo) UpdateProfile(ctx context.Context, id int64, p models.ProfilePatch) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	for dst, v := range map[*string]*string{
		&u.FirstName: p.FirstName, &u.LastName: p.LastName, &u.Phone: p.Phone,
		&u.Address: p.Address, &u.Timezone: p.Timezone,
	} {
		if v != nil {
			*dst = *v
		}
	}
	f.byID[id] = u
	return &u, nil
}

func (f *fakeUsersRepo) UpdateAvatar(ctx context.Context, id int64, url string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.AvatarURL = &url
	f.byID[id] = u
	return &u, nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

// --- refresh tokens ---

type fakeRefreshRepo struct {
	mu   sync.Mutex
	rows map[string]models.RefreshToken

	createErr  error
	consumeErr error
	deleteErr  error
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{rows: map[string]models.RefreshToken{}}
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[token] = models.RefreshToken{UserID: userID, Token: token, ExpiresAt: expiresAt, CreatedAt: time.Now()}
	return nil
}

func (f *fakeRefreshRepo) get(token string) (models.RefreshToken, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rt, ok := f.rows[token]
	return rt, ok
}

func (f *fakeRefreshRepo) Consume(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.consumeErr != nil {
		return nil, f.consumeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rt, ok := f.rows[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(f.rows, token)
	return &rt, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, token)
	return nil
}

func (f *fakeRefreshRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for k, rt := range f.rows {
		if rt.Expired(now) {
			delete(f.rows, k)
			n++
		}
	}
	return n, nil
}

func (f *fakeRefreshRepo) has(token string) bool {
	_, ok := f.get(token)
	return ok
}

// --- contacts ---

type fakeContactsRepo struct {
	calls []string

	listFilter models.ContactFilter
	listOut    *models.ContactPage

	getOut    *models.Contact
	getErr    error
	updateIn  *models.Contact
	deleteErr error

	bulkIDs []int64
	bulkN   int64

	statsOut   *models.ContactStats
	statsSince time.Time

	searchQ     string
	searchLimit int
}

func (f *fakeContactsRepo) Create(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	f.calls = append(f.calls, "create")
	out := *c
	out.ID = 100
	return &out, nil
}

func (f *fakeContactsRepo) List(ctx context.Context, userID int64, fl models.ContactFilter) (*models.ContactPage, error) {
	f.calls = append(f.calls, "list")
	f.listFilter = fl
	if f.listOut != nil {
		return f.listOut, nil
	}
	return &models.ContactPage{Data: []models.Contact{}}, nil
}

func (f *fakeContactsRepo) Get(ctx context.Context, userID, id int64) (*models.Contact, error) {
	f.calls = append(f.calls, "get")
	if f.getErr != nil {
		return nil, f.getErr
	}
	c := *f.getOut
	return &c, nil
}

func (f *fakeContactsRepo) Update(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	f.calls = append(f.calls, "update")
	f.updateIn = c
	return c, nil
}

func (f *fakeContactsRepo) ToggleFavorite(ctx context.Context, userID, id int64) (*models.Contact, error) {
	f.calls = append(f.calls, "toggle")
	return &models.Contact{ID: id, UserID: userID, IsFavorite: true}, nil
}

func (f *fakeContactsRepo) Delete(ctx context.Context, userID, id int64) error {
	f.calls = append(f.calls, "delete")
	return f.deleteErr
}

func (f *fakeContactsRepo) BulkDelete(ctx context.Context, userID int64, ids []int64) (int64, error) {
	f.calls = append(f.calls, "bulk")
	f.bulkIDs = ids
	return f.bulkN, nil
}

func (f *fakeContactsRepo) Stats(ctx context.Context, userID int64, since time.Time) (*models.ContactStats, error) {
	f.calls = append(f.calls, "stats")
	f.statsSince = since
	s := *f.statsOut
	return &s, nil
}

func (f *fakeContactsRepo) Search(ctx context.Context, userID int64, q string, limit int) ([]models.Contact, error) {
	f.calls = append(f.calls, "search")
	f.searchQ = q
	f.searchLimit = limit
	return []models.Contact{{ID: 1, Name: q}}, nil
}

// --- manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRefreshRepo
	c *fakeContactsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) ([]int64, error) {
	return nil, nil
}
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.r }
func (m *fakeRepoManager) Contacts(db dbx.DBTX) contactsrepo.Repository { return m.c }

// --- avatars and cache ---

type fakeAvatarStore struct {
	got []byte
	url string
	err error
}

func (f *fakeAvatarStore) Upload(ctx context.Context, userID int64, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.got = b
	return f.url, nil
}

type fakeStatsCache struct {
	m           map[int64]models.ContactStats
	getErr      error
	invalidated []int64
	lastTTL     time.Duration
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{m: map[int64]models.ContactStats{}}
}

func (f *fakeStatsCache) Get(ctx context.Context, userID int64) (*models.ContactStats, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	s, ok := f.m[userID]
	if !ok {
		return nil, false, nil
	}
	return &s, true, nil
}

func (f *fakeStatsCache) Set(ctx context.Context, userID int64, s *models.ContactStats, ttl time.Duration) error {
	f.m[userID] = *s
	f.lastTTL = ttl
	return nil
}

func (f *fakeStatsCache) Invalidate(ctx context.Context, userID int64) error {
	delete(f.m, userID)
	f.invalidated = append(f.invalidated, userID)
	return nil
}
