package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"
)

const (
	// MaxFileSize is 10MB in bytes
	MaxFileSize = 10 * 1024 * 1024
)

// AllowedDocumentFormats lists the extensions accepted for compliance documents and invoices
var AllowedDocumentFormats = []string{".pdf", ".jpg", ".jpeg", ".png"}

var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateDocumentFile validates the uploaded file format and size
func ValidateDocumentFile(fileHeader *multipart.FileHeader) error {
	if fileHeader == nil {
		return &FileUploadError{
			Code:    "MISSING_FILE",
			Message: "No file provided",
		}
	}

	// Check file size
	if fileHeader.Size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}

	// Check file extension
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if _, ok := contentTypes[ext]; !ok {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: "Only PDF, JPG, JPEG and PNG files are allowed",
		}
	}

	return nil
}

// ContentType returns the MIME type for an accepted file name
func ContentType(filename string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// DocumentFileName builds the stored name of an uploaded compliance document:
// <artisan>_<type>_<unix millis><ext>
func DocumentFileName(artisanID, documentType, original string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%d%s", artisanID, documentType, now.UnixMilli(), strings.ToLower(filepath.Ext(original)))
}

// InvoiceFileName builds the stored name of an uploaded invoice file
func InvoiceFileName(invoiceID, original string) string {
	return fmt.Sprintf("%s%s", invoiceID, strings.ToLower(filepath.Ext(original)))
}

// IsSafeFileName reports whether filename is a bare name with no path components
func IsSafeFileName(filename string) bool {
	if filename == "" || filename == "." {
		return false
	}
	return !strings.Contains(filename, "..") && !strings.Contains(filename, "/") && !strings.Contains(filename, "\\")
}
