package letter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/unessa/fundraiser-api/internal/repository"
)

// Handle locates a stored artifact. Location is a filesystem path for
// filesystem backing, or the recipient ID for inline database backing.
type Handle struct {
	Location string
	Inline   bool
}

// Store persists rendered artifacts. Delete on a missing handle is a no-op,
// not an error; cleanup paths call it after partial failures.
type Store interface {
	Store(ctx context.Context, recipientID string, pdf []byte) (Handle, error)
	Retrieve(ctx context.Context, h Handle) ([]byte, error)
	Delete(ctx context.Context, h Handle) error
}

// FilesystemStore keeps one artifact per recipient under a base directory.
type FilesystemStore struct {
	dir string
}

// NewFilesystemStore creates a FilesystemStore rooted at dir.
func NewFilesystemStore(dir string) *FilesystemStore {
	return &FilesystemStore{dir: dir}
}

// Store implements Store.
func (s *FilesystemStore) Store(ctx context.Context, recipientID string, pdf []byte) (Handle, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Handle{}, fmt.Errorf("failed to create artifact directory: %w", err)
	}

	path := filepath.Join(s.dir, "offer-"+filepath.Base(recipientID)+".pdf")
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return Handle{}, fmt.Errorf("failed to write artifact: %w", err)
	}
	return Handle{Location: path}, nil
}

// Retrieve implements Store.
func (s *FilesystemStore) Retrieve(ctx context.Context, h Handle) ([]byte, error) {
	pdf, err := os.ReadFile(h.Location)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrArtifactNotFound
		}
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	return pdf, nil
}

// Delete implements Store.
func (s *FilesystemStore) Delete(ctx context.Context, h Handle) error {
	if h.Location == "" {
		return nil
	}
	if err := os.Remove(h.Location); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete artifact: %w", err)
	}
	return nil
}

// InlineArtifactRepository is the slice of the user repository the database
// backing needs.
type InlineArtifactRepository interface {
	StoreLetterPDF(ctx context.Context, id string, pdf []byte) error
	GetLetterPDF(ctx context.Context, id string) ([]byte, error)
	DeleteLetterPDF(ctx context.Context, id string) error
}

// DatabaseStore keeps artifacts inline in the recipient's row.
type DatabaseStore struct {
	repo InlineArtifactRepository
}

// NewDatabaseStore creates a DatabaseStore over repo.
func NewDatabaseStore(repo InlineArtifactRepository) *DatabaseStore {
	return &DatabaseStore{repo: repo}
}

// Store implements Store.
func (s *DatabaseStore) Store(ctx context.Context, recipientID string, pdf []byte) (Handle, error) {
	if err := s.repo.StoreLetterPDF(ctx, recipientID, pdf); err != nil {
		return Handle{}, fmt.Errorf("failed to store artifact: %w", err)
	}
	return Handle{Location: recipientID, Inline: true}, nil
}

// Retrieve implements Store.
func (s *DatabaseStore) Retrieve(ctx context.Context, h Handle) ([]byte, error) {
	pdf, err := s.repo.GetLetterPDF(ctx, h.Location)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrArtifactNotFound
		}
		return nil, err
	}
	return pdf, nil
}

// Delete implements Store.
func (s *DatabaseStore) Delete(ctx context.Context, h Handle) error {
	if h.Location == "" {
		return nil
	}
	if err := s.repo.DeleteLetterPDF(ctx, h.Location); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}
