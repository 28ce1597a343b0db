package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"

	"github.com/kendall-kelly/artisan-portal-api/utils"
)

// Directories of the FileStore
const (
	DocumentsDir = "documents"
	InvoicesDir  = "invoices"
)

// UploadService validates uploaded files and keeps them in a FileStore
type UploadService struct {
	files FileStore
}

// NewUploadService creates an upload service on top of files
func NewUploadService(files FileStore) *UploadService {
	return &UploadService{files: files}
}

func fileKey(dir, name string) string {
	return dir + "/" + name
}

// Store validates fileHeader and saves it as dir/name
func (s *UploadService) Store(ctx context.Context, dir, name string, fileHeader *multipart.FileHeader) error {
	if err := utils.ValidateDocumentFile(fileHeader); err != nil {
		return err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Printf("warning: failed to close file: %v", closeErr)
		}
	}()

	if err := s.files.Save(ctx, fileKey(dir, name), file, utils.ContentType(fileHeader.Filename)); err != nil {
		return fmt.Errorf("failed to store file: %w", err)
	}
	return nil
}

// Open returns the content of dir/name; ErrFileNotFound when absent
func (s *UploadService) Open(ctx context.Context, dir, name string) (io.ReadCloser, error) {
	if !utils.IsSafeFileName(name) {
		return nil, ErrFileNotFound
	}
	return s.files.Open(ctx, fileKey(dir, name))
}

// Remove deletes dir/name. Failures are logged, not returned: the row that
// referenced the file is the source of truth.
func (s *UploadService) Remove(ctx context.Context, dir, name string) {
	if name == "" {
		return
	}
	if err := s.files.Delete(ctx, fileKey(dir, name)); err != nil {
		log.Printf("warning: failed to delete file %s/%s: %v", dir, name, err)
	}
}
