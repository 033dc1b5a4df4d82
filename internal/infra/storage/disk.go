package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxFileSize bounds every uploaded file.
const MaxFileSize = 5 << 20 // 5MB

// Upload field names accepted by the platform. Anything else is rejected
// outright instead of guessed from the filename.
const (
	FieldLicenseDocument = "licenseDocument"
	FieldHomePhotos      = "homePhotos"
	FieldProfilePhoto    = "profilePhoto"
)

var (
	// ErrFileTooLarge indicates the file exceeds MaxFileSize.
	ErrFileTooLarge = errors.New("storage: file too large")
	// ErrInvalidLicenseType indicates a license that is not a PDF or raster image.
	ErrInvalidLicenseType = errors.New("storage: invalid license type")
	// ErrInvalidImageType indicates a photo outside the image allow-list.
	ErrInvalidImageType = errors.New("storage: invalid image type")
	// ErrUnknownField indicates an upload field outside the closed field set.
	ErrUnknownField = errors.New("storage: unknown upload field")
)

var fieldSubfolders = map[string]string{
	FieldLicenseDocument: "licenses",
	FieldHomePhotos:      "homes",
	FieldProfilePhoto:    "profiles",
}

// The MIME sets hold content types as http.DetectContentType reports
// them, since classification reads the payload rather than trusting the
// client-supplied header.
var (
	licenseExtensions = map[string]bool{".pdf": true, ".jpeg": true, ".jpg": true, ".png": true}
	licenseMIMETypes  = map[string]bool{"application/pdf": true, "image/jpeg": true, "image/png": true}
	imageExtensions   = map[string]bool{".jpeg": true, ".jpg": true, ".png": true, ".gif": true}
	imageMIMETypes    = map[string]bool{"image/jpeg": true, "image/png": true, "image/gif": true}
)

// DiskStore persists uploads under a root directory and hands out
// storage-relative paths, so the root can move without rewriting records.
type DiskStore struct {
	root   string
	logger *zap.Logger
}

// NewDiskStore creates the upload root (and per-field subfolders) if missing.
func NewDiskStore(root string, logger *zap.Logger) (*DiskStore, error) {
	if root == "" {
		return nil, errors.New("storage: upload root is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, subfolder := range fieldSubfolders {
		if err := os.MkdirAll(filepath.Join(root, subfolder), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir %s: %w", subfolder, err)
		}
	}

	return &DiskStore{root: root, logger: logger}, nil
}

// Validate checks a file header against the field's constraints without
// writing anything. Save performs the same checks; Validate lets callers
// fail a whole batch before the first byte is stored.
func (s *DiskStore) Validate(field string, file *multipart.FileHeader) error {
	if file == nil {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	if _, ok := fieldSubfolders[field]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	if file.Size > MaxFileSize {
		return fmt.Errorf("%w: %s (%d bytes)", ErrFileTooLarge, file.Filename, file.Size)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	mimeType, err := sniffContentType(file)
	if err != nil {
		return err
	}

	switch field {
	case FieldLicenseDocument:
		if !licenseExtensions[ext] || !licenseMIMETypes[mimeType] {
			return fmt.Errorf("%w: %s (%s)", ErrInvalidLicenseType, file.Filename, mimeType)
		}
	default:
		if !imageExtensions[ext] || !imageMIMETypes[mimeType] {
			return fmt.Errorf("%w: %s (%s)", ErrInvalidImageType, file.Filename, mimeType)
		}
	}

	return nil
}

// sniffContentType classifies the upload from its leading bytes. The
// Content-Type the client sent plays no part in the decision.
func sniffContentType(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", file.Filename, err)
	}
	defer src.Close()

	buf := make([]byte, 512)
	n, err := io.ReadFull(src, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("read upload %s: %w", file.Filename, err)
	}

	return http.DetectContentType(buf[:n]), nil
}

// Save validates and writes the file, returning its storage-relative path
// of the form "<subfolder>/<field>-<suffix><ext>".
func (s *DiskStore) Save(ctx context.Context, field string, file *multipart.FileHeader) (string, error) {
	if err := s.Validate(field, file); err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := fmt.Sprintf("%s-%s%s", field, uuid.NewString(), ext)
	relPath := path.Join(fieldSubfolders[field], name)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", file.Filename, err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.root, filepath.FromSlash(relPath)))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, MaxFileSize+1)); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write upload file: %w", err)
	}

	s.logger.Debug("upload stored",
		zap.String("field", field),
		zap.String("path", relPath),
		zap.Int64("size", file.Size),
	)

	return relPath, nil
}

// Remove deletes a previously saved file by its storage-relative path.
// Used to compensate partially written registrations; a missing file is
// not an error.
func (s *DiskStore) Remove(_ context.Context, relPath string) error {
	if relPath == "" {
		return nil
	}

	clean := filepath.Clean(filepath.FromSlash(relPath))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("storage: refusing to remove path outside root: %s", relPath)
	}

	if err := os.Remove(filepath.Join(s.root, clean)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload file: %w", err)
	}

	return nil
}
