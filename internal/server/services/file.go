package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/ark/internal/common"
	"github.com/dmitrijs2005/ark/internal/dbx"
	"github.com/dmitrijs2005/ark/internal/logging"
	"github.com/dmitrijs2005/ark/internal/server/config"
	"github.com/dmitrijs2005/ark/internal/server/models"
	"github.com/dmitrijs2005/ark/internal/server/repositories/mimetypes"
	"github.com/dmitrijs2005/ark/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ark/internal/server/storage"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

var extPattern = regexp.MustCompile(`\.(\w+)$`)

// UploadRequest carries one file upload. Body is read at most once.
type UploadRequest struct {
	AccountID uuid.UUID
	Filepath  string
	Body      io.Reader
	Meta      models.Meta
}

// FileService uploads, reads and lists file versions.
type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.ObjectStore
	maxFileSize int64
	log         logging.Logger
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore, cfg *config.Config, log logging.Logger) *FileService {
	return &FileService{
		db:          db,
		repomanager: m,
		store:       store,
		maxFileSize: cfg.MaxFileSize,
		log:         log.With("module", "files"),
	}
}

// ValidateFilepath accepts relative slash-separated UTF-8 paths without
// control characters and without empty, "." or ".." segments.
func ValidateFilepath(p string) error {
	if p == "" {
		return fmt.Errorf("%w: filepath is required", common.ErrorInvalidInput)
	}
	if !utf8.ValidString(p) {
		return fmt.Errorf("%w: filepath is not valid UTF-8: %q", common.ErrorInvalidInput, p)
	}
	if strings.IndexFunc(p, unicode.IsControl) >= 0 {
		return fmt.Errorf("%w: filepath contains a control character: %q", common.ErrorInvalidInput, p)
	}
	if strings.HasPrefix(p, "/") {
		return fmt.Errorf("%w: filepath must be relative: %q", common.ErrorInvalidInput, p)
	}
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "":
			return fmt.Errorf("%w: filepath has an empty segment: %q", common.ErrorInvalidInput, p)
		case ".", "..":
			return fmt.Errorf("%w: filepath must not contain %q: %q", common.ErrorInvalidInput, seg, p)
		}
	}
	return nil
}

// Extension returns the lowercase extension of p, or "" when it has none.
func Extension(p string) string {
	m := extPattern.FindStringSubmatch(p)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// Upload stores a new file version. The body is buffered and measured before
// anything is written. The version row, the blob and the file version row are
// then written in that order inside one transaction, so a failed blob write
// leaves neither row behind.
func (s *FileService) Upload(ctx context.Context, req UploadRequest) (*models.FileVersion, error) {
	if err := ValidateFilepath(req.Filepath); err != nil {
		return nil, err
	}

	data, err := s.readBody(req.Body)
	if err != nil {
		return nil, err
	}

	versionID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate version id: %w", err)
	}

	var result *models.FileVersion
	err = dbx.WithConn(ctx, s.db, func(ctx context.Context, conn *sql.Conn) error {
		return dbx.WithTx(ctx, conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
			version, err := s.repomanager.Versions(tx).Create(ctx, &models.NewVersion{
				ID:        versionID,
				AccountID: req.AccountID,
			})
			if err != nil {
				return err
			}

			mimetype, err := s.mimetype(ctx, s.repomanager.Mimetypes(tx), req.Filepath)
			if err != nil {
				return err
			}

			key := storage.ObjectKey(req.AccountID, req.Filepath, version.ID)
			if err := s.store.PutObject(ctx, key, data, mimetype); err != nil {
				return err
			}

			result, err = s.repomanager.Files(tx).Create(ctx, &models.NewFileVersion{
				AccountID: req.AccountID,
				VersionID: version.ID,
				Filepath:  req.Filepath,
				Filesize:  int64(len(data)),
				Mimetype:  mimetype,
				Meta:      req.Meta,
			})
			return err
		})
	})
	if err != nil {
		s.log.Warn(ctx, "upload failed", "account_id", req.AccountID, "filepath", req.Filepath, "error", err)
		return nil, err
	}

	s.log.Info(ctx, "file uploaded",
		"account_id", result.AccountID,
		"filepath", result.Filepath,
		"version_id", result.VersionID,
		"size", humanize.Bytes(uint64(result.Filesize)))
	return result, nil
}

func (s *FileService) readBody(body io.Reader) ([]byte, error) {
	if body == nil {
		return []byte{}, nil
	}
	limit := s.maxFileSize
	if limit < math.MaxInt64 {
		limit++
	}
	data, err := io.ReadAll(io.LimitReader(body, limit))
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	if int64(len(data)) > s.maxFileSize {
		return nil, fmt.Errorf("%w: file exceeds the maximum size of %s",
			common.ErrorTooLarge, humanize.Bytes(uint64(s.maxFileSize)))
	}
	return data, nil
}

func (s *FileService) mimetype(ctx context.Context, repo mimetypes.Repository, p string) (string, error) {
	ext := Extension(p)
	if ext == "" {
		return common.DefaultMimetype, nil
	}
	name, err := repo.Lookup(ctx, ext)
	if errors.Is(err, common.ErrorNotFound) {
		return common.DefaultMimetype, nil
	}
	if err != nil {
		return "", err
	}
	return name, nil
}

// Get resolves the requested version of a file, or the latest one when
// versionID is nil, and opens its content. The caller closes the object body.
func (s *FileService) Get(ctx context.Context, accountID uuid.UUID, filepath string, versionID *uuid.UUID) (*models.FileVersion, *storage.Object, error) {
	if err := ValidateFilepath(filepath); err != nil {
		return nil, nil, err
	}

	files := s.repomanager.Files(s.db)
	var (
		fv  *models.FileVersion
		err error
	)
	if versionID != nil {
		fv, err = files.Get(ctx, accountID, filepath, *versionID)
	} else {
		fv, err = files.Latest(ctx, accountID, filepath)
	}
	if err != nil {
		return nil, nil, err
	}

	obj, err := s.store.GetObject(ctx, storage.ObjectKey(fv.AccountID, fv.Filepath, fv.VersionID))
	if err != nil {
		return nil, nil, err
	}
	return fv, obj, nil
}

// History lists every version of a file. A path that was never uploaded is
// not found rather than an empty history.
func (s *FileService) History(ctx context.Context, accountID uuid.UUID, filepath string) (*models.FileHistory, error) {
	if err := ValidateFilepath(filepath); err != nil {
		return nil, err
	}

	versions, err := s.repomanager.Files(s.db).History(ctx, accountID, filepath)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("no file versions found: account_id=%s, filepath=%s: %w",
			accountID, filepath, common.ErrorNotFound)
	}

	return &models.FileHistory{
		AccountID: accountID,
		Filepath:  filepath,
		Versions:  versions,
	}, nil
}

// Search returns the current version of every file of the account.
func (s *FileService) Search(ctx context.Context, accountID uuid.UUID) ([]models.FileVersion, error) {
	return s.repomanager.Files(s.db).Current(ctx, accountID)
}
