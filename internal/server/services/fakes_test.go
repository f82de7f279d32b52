package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/ark/internal/common"
	"github.com/dmitrijs2005/ark/internal/dbx"
	"github.com/dmitrijs2005/ark/internal/server/models"
	"github.com/dmitrijs2005/ark/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/ark/internal/server/repositories/files"
	"github.com/dmitrijs2005/ark/internal/server/repositories/mimetypes"
	"github.com/dmitrijs2005/ark/internal/server/repositories/versions"
	"github.com/dmitrijs2005/ark/internal/server/storage"
	"github.com/google/uuid"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// --- repositories ---

type fakeAccounts struct {
	upserted []*models.NewAccount
	created  bool
	err      error
	list     []*models.Account
}

func (f *fakeAccounts) Upsert(ctx context.Context, a *models.NewAccount) (*models.Account, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	f.upserted = append(f.upserted, a)
	return &models.Account{ID: *a.ID, Created: time.Now(), Title: a.Title, Meta: a.Meta}, f.created, nil
}

func (f *fakeAccounts) List(ctx context.Context) ([]*models.Account, error) {
	return f.list, f.err
}

type fakeVersions struct {
	created   []*models.NewVersion
	createErr error
	get       *models.Version
	getErr    error
}

func (f *fakeVersions) Create(ctx context.Context, v *models.NewVersion) (*models.Version, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, v)
	return &models.Version{ID: v.ID, AccountID: v.AccountID, Created: time.Now(), Meta: v.Meta}, nil
}

func (f *fakeVersions) Get(ctx context.Context, id uuid.UUID) (*models.Version, error) {
	return f.get, f.getErr
}

type fakeFiles struct {
	created   []*models.NewFileVersion
	createErr error

	one       *models.FileVersion
	oneErr    error
	pinned    *uuid.UUID
	latest    bool
	many      []models.FileVersion
	manyErr   error
	byVersion []models.FileVersion
}

func (f *fakeFiles) Create(ctx context.Context, fv *models.NewFileVersion) (*models.FileVersion, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, fv)
	return &models.FileVersion{
		AccountID: fv.AccountID,
		VersionID: fv.VersionID,
		Filepath:  fv.Filepath,
		Filesize:  fv.Filesize,
		Created:   time.Now(),
		Mimetype:  fv.Mimetype,
		Meta:      fv.Meta,
	}, nil
}

func (f *fakeFiles) Get(ctx context.Context, accountID uuid.UUID, filepath string, versionID uuid.UUID) (*models.FileVersion, error) {
	f.pinned = &versionID
	return f.one, f.oneErr
}

func (f *fakeFiles) Latest(ctx context.Context, accountID uuid.UUID, filepath string) (*models.FileVersion, error) {
	f.latest = true
	return f.one, f.oneErr
}

func (f *fakeFiles) History(ctx context.Context, accountID uuid.UUID, filepath string) ([]models.FileVersion, error) {
	return f.many, f.manyErr
}

func (f *fakeFiles) Current(ctx context.Context, accountID uuid.UUID) ([]models.FileVersion, error) {
	return f.many, f.manyErr
}

func (f *fakeFiles) ListByVersion(ctx context.Context, versionID uuid.UUID) ([]models.FileVersion, error) {
	return f.byVersion, f.manyErr
}

type fakeMimetypes struct {
	known   map[string]string
	err     error
	lookups []string
}

func (f *fakeMimetypes) Lookup(ctx context.Context, ext string) (string, error) {
	f.lookups = append(f.lookups, ext)
	if f.err != nil {
		return "", f.err
	}
	if name, ok := f.known[ext]; ok {
		return name, nil
	}
	return "", fmt.Errorf("lookup mimetype: %w", common.ErrorNotFound)
}

// fakeRepoManager hands out the same fakes for any handle and records the
// handles it was asked to bind.
type fakeRepoManager struct {
	accounts  *fakeAccounts
	versions  *fakeVersions
	files     *fakeFiles
	mimetypes *fakeMimetypes

	mu    sync.Mutex
	bound map[string][]dbx.DBTX
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		accounts:  &fakeAccounts{},
		versions:  &fakeVersions{},
		files:     &fakeFiles{},
		mimetypes: &fakeMimetypes{known: map[string]string{"pdf": "application/pdf", "txt": "text/plain"}},
		bound:     map[string][]dbx.DBTX{},
	}
}

func (m *fakeRepoManager) bind(name string, db dbx.DBTX) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bound[name] = append(m.bound[name], db)
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Accounts(db dbx.DBTX) accounts.Repository {
	m.bind("accounts", db)
	return m.accounts
}

func (m *fakeRepoManager) Versions(db dbx.DBTX) versions.Repository {
	m.bind("versions", db)
	return m.versions
}

func (m *fakeRepoManager) Files(db dbx.DBTX) files.Repository {
	m.bind("files", db)
	return m.files
}

func (m *fakeRepoManager) Mimetypes(db dbx.DBTX) mimetypes.Repository {
	m.bind("mimetypes", db)
	return m.mimetypes
}

// --- object store ---

type storedObject struct {
	data        []byte
	contentType string
}

type fakeStore struct {
	mu      sync.Mutex
	objects map[string]storedObject
	putErr  error
	getErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string]storedObject{}}
}

var _ storage.ObjectStore = (*fakeStore)(nil)

func (s *fakeStore) CreateBucket(ctx context.Context) error            { return nil }
func (s *fakeStore) BucketExists(ctx context.Context) (bool, error)    { return true, nil }
func (s *fakeStore) EnsureBucket(ctx context.Context) error            { return nil }
func (s *fakeStore) ListBuckets(ctx context.Context) ([]string, error) { return []string{"ark"}, nil }

func (s *fakeStore) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = storedObject{data: append([]byte(nil), body...), contentType: contentType}
	return nil
}

func (s *fakeStore) GetObject(ctx context.Context, key string) (*storage.Object, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: get object %s", common.ErrorNotFound, key)
	}
	return &storage.Object{
		Body:        io.NopCloser(bytes.NewReader(obj.data)),
		ContentType: obj.contentType,
		Size:        int64(len(obj.data)),
	}, nil
}

func (s *fakeStore) GetObjectAttributes(ctx context.Context, key string) (*storage.ObjectAttributes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: head object %s", common.ErrorNotFound, key)
	}
	return &storage.ObjectAttributes{Key: key, Size: int64(len(obj.data)), ContentType: obj.contentType}, nil
}
