package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/ark/internal/common"
	"github.com/dmitrijs2005/ark/internal/server/models"
	"github.com/dmitrijs2005/ark/internal/server/services"
	"github.com/dmitrijs2005/ark/internal/server/storage"
	"github.com/google/uuid"
)

// memoryArk is an in-memory stand-in for the account, file and version
// services. Uploads that fail leave no trace, as the real services promise.
type memoryArk struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*models.Account
	versions map[uuid.UUID]*models.Version
	files    []models.FileVersion
	blobs    map[string][]byte

	maxFileSize int64
	storeErr    error
	searchErr   error
	// searchBlocks makes Search wait for the request context to end.
	searchBlocks bool
}

func newMemoryArk() *memoryArk {
	return &memoryArk{
		accounts:    map[uuid.UUID]*models.Account{},
		versions:    map[uuid.UUID]*models.Version{},
		blobs:       map[string][]byte{},
		maxFileSize: 64,
	}
}

func (m *memoryArk) Upsert(_ context.Context, in models.NewAccount) (*models.Account, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, false, fmt.Errorf("%w: title must not be blank", common.ErrorInvalidInput)
	}
	if in.ID == nil {
		id := uuid.Must(uuid.NewV7())
		in.ID = &id
	}

	if a, ok := m.accounts[*in.ID]; ok {
		if in.Title != nil {
			a.Title = in.Title
		}
		if in.Meta != nil {
			a.Meta = in.Meta
		}
		return a, false, nil
	}
	a := &models.Account{ID: *in.ID, Created: time.Now(), Title: in.Title, Meta: in.Meta}
	m.accounts[a.ID] = a
	return a, true, nil
}

func (m *memoryArk) Search(ctx context.Context) ([]*models.Account, error) {
	if m.searchBlocks {
		<-ctx.Done()
		return nil, fmt.Errorf("select accounts: %w", ctx.Err())
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.searchErr != nil {
		return nil, m.searchErr
	}
	out := make([]*models.Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (m *memoryArk) Create(_ context.Context, in models.NewVersion) (*models.Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createVersion(in)
}

func (m *memoryArk) createVersion(in models.NewVersion) (*models.Version, error) {
	if _, ok := m.accounts[in.AccountID]; !ok {
		return nil, fmt.Errorf("insert version: %w", common.ErrorConflict)
	}
	v := &models.Version{ID: uuid.Must(uuid.NewV7()), AccountID: in.AccountID, Created: time.Now(), Meta: in.Meta}
	m.versions[v.ID] = v
	return v, nil
}

func (m *memoryArk) Get(_ context.Context, id uuid.UUID) (*models.VersionData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.versions[id]
	if !ok {
		return nil, fmt.Errorf("get version %s: %w", id, common.ErrorNotFound)
	}
	data := &models.VersionData{Version: *v, Files: []models.FileVersion{}}
	for _, f := range m.files {
		if f.VersionID == id {
			data.Files = append(data.Files, f)
		}
	}
	return data, nil
}

// memoryFiles exposes the file operations of memoryArk; the method names
// clash with the account and version ones.
type memoryFiles struct{ *memoryArk }

func (f memoryFiles) Upload(_ context.Context, req services.UploadRequest) (*models.FileVersion, error) {
	m := f.memoryArk
	if err := services.ValidateFilepath(req.Filepath); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(req.Body, m.maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > m.maxFileSize {
		return nil, fmt.Errorf("%w: limit is %d bytes", common.ErrorTooLarge, m.maxFileSize)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.storeErr != nil {
		return nil, m.storeErr
	}
	v, err := m.createVersion(models.NewVersion{AccountID: req.AccountID})
	if err != nil {
		return nil, err
	}

	fv := models.FileVersion{
		AccountID: req.AccountID,
		VersionID: v.ID,
		Filepath:  req.Filepath,
		Filesize:  int64(len(data)),
		Created:   v.Created,
		Mimetype:  mimetypeOf(req.Filepath),
		Meta:      req.Meta,
	}
	m.blobs[storage.ObjectKey(fv.AccountID, fv.Filepath, fv.VersionID)] = data
	m.files = append(m.files, fv)
	return &fv, nil
}

func mimetypeOf(p string) string {
	switch {
	case strings.HasSuffix(p, ".txt"):
		return "text/plain"
	case strings.HasSuffix(p, ".json"):
		return "application/json"
	default:
		return common.DefaultMimetype
	}
}

func (f memoryFiles) Get(_ context.Context, accountID uuid.UUID, p string, versionID *uuid.UUID) (*models.FileVersion, *storage.Object, error) {
	m := f.memoryArk
	m.mu.Lock()
	defer m.mu.Unlock()

	var found *models.FileVersion
	for _, fv := range m.history(accountID, p) {
		if versionID == nil || fv.VersionID == *versionID {
			found = &fv
		}
	}
	if found == nil {
		return nil, nil, fmt.Errorf("get file %s: %w", p, common.ErrorNotFound)
	}
	data := m.blobs[storage.ObjectKey(found.AccountID, found.Filepath, found.VersionID)]
	obj := &storage.Object{Body: io.NopCloser(bytes.NewReader(data)), ContentType: found.Mimetype, Size: int64(len(data))}
	return found, obj, nil
}

// history returns the versions of one path ordered by version id.
func (m *memoryArk) history(accountID uuid.UUID, p string) []models.FileVersion {
	var out []models.FileVersion
	for _, fv := range m.files {
		if fv.AccountID == accountID && fv.Filepath == p {
			out = append(out, fv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VersionID.String() < out[j].VersionID.String() })
	return out
}

func (f memoryFiles) History(_ context.Context, accountID uuid.UUID, p string) (*models.FileHistory, error) {
	m := f.memoryArk
	m.mu.Lock()
	defer m.mu.Unlock()

	versions := m.history(accountID, p)
	if len(versions) == 0 {
		return nil, fmt.Errorf("no file versions found: account_id=%s, filepath=%s: %w", accountID, p, common.ErrorNotFound)
	}
	return &models.FileHistory{AccountID: accountID, Filepath: p, Versions: versions}, nil
}

func (f memoryFiles) Search(_ context.Context, accountID uuid.UUID) ([]models.FileVersion, error) {
	m := f.memoryArk
	m.mu.Lock()
	defer m.mu.Unlock()

	current := map[string]models.FileVersion{}
	for _, fv := range m.files {
		if fv.AccountID != accountID {
			continue
		}
		if cur, ok := current[fv.Filepath]; !ok || fv.VersionID.String() > cur.VersionID.String() {
			current[fv.Filepath] = fv
		}
	}
	out := make([]models.FileVersion, 0, len(current))
	for _, fv := range current {
		out = append(out, fv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filepath < out[j].Filepath })
	return out, nil
}

type fakeHealth struct {
	status services.HealthStatus
}

func (f fakeHealth) Check(context.Context) services.HealthStatus {
	return f.status
}
