// Package signatures persists signature images captured on loan pickup
// and return. Images arrive from the frontend as base64 data URLs and
// are written to local disk; the returned URL is the public path the
// API serves them back under.
package signatures

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mlefebvre/parcinfo-backend/pkg/config"
	"github.com/mlefebvre/parcinfo-backend/pkg/enums"
	"github.com/mlefebvre/parcinfo-backend/pkg/errors"
	"github.com/mlefebvre/parcinfo-backend/pkg/logger"
)

// extensions maps the media types we accept to the on-disk extension.
var extensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
}

type DiskStore struct {
	dir       string
	publicURL string
	maxBytes  int64
	logg      *logger.Logger
}

func NewDiskStore(cfg config.SignatureConfig, logg *logger.Logger) (*DiskStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create signature dir %q: %w", cfg.Dir, err)
	}
	return &DiskStore{
		dir:       cfg.Dir,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		maxBytes:  cfg.MaxBytes,
		logg:      logg,
	}, nil
}

// Store decodes the data URL and writes the image under a name derived
// from the loan and signature kind. A second upload for the same loan
// and kind overwrites the previous file, which matches how a re-signed
// pickup sheet should behave.
func (s *DiskStore) Store(ctx context.Context, loanID uuid.UUID, kind enums.SignatureKind, dataURL string) (string, error) {
	mediaType, raw, err := splitDataURL(dataURL)
	if err != nil {
		return "", err
	}

	ext, ok := extensions[mediaType]
	if !ok {
		return "", errors.New(errors.CodeValidation, fmt.Sprintf("unsupported signature media type %q", mediaType))
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", errors.Wrap(errors.CodeValidation, err, "signature payload is not valid base64")
	}
	if len(data) == 0 {
		return "", errors.New(errors.CodeValidation, "signature payload is empty")
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return "", errors.New(errors.CodeValidation,
			fmt.Sprintf("signature payload exceeds %d bytes", s.maxBytes))
	}

	filename := fmt.Sprintf("%s_%s.%s", loanID, kind, ext)
	fullpath := filepath.Join(s.dir, filename)
	if err := os.WriteFile(fullpath, data, 0o644); err != nil {
		return "", errors.Wrap(errors.CodeDependency, err, "write signature file")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"file":  filename,
		"bytes": len(data),
	})
	s.logg.Info(ctx, "stored signature image")
	return s.publicURL + "/" + filename, nil
}

// Remove deletes the image a previously returned URL points at. A
// missing file is not an error; the DB row is the source of truth and
// the file may already be gone.
func (s *DiskStore) Remove(ctx context.Context, url string) error {
	filename := path.Base(url)
	if filename == "." || filename == "/" || filename == ".." {
		return errors.New(errors.CodeValidation, fmt.Sprintf("malformed signature url %q", url))
	}

	err := os.Remove(filepath.Join(s.dir, filename))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.CodeDependency, err, "remove signature file")
	}
	return nil
}

// splitDataURL takes "data:image/png;base64,AAAA..." apart. A bare
// base64 string without the prefix is accepted and assumed to be PNG,
// since older frontends sent it that way.
func splitDataURL(dataURL string) (mediaType string, payload string, err error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return "image/png", dataURL, nil
	}

	rest := strings.TrimPrefix(dataURL, "data:")
	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return "", "", errors.New(errors.CodeValidation, "malformed data URL")
	}
	mediaType, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return "", "", errors.New(errors.CodeValidation, "data URL must be base64 encoded")
	}
	return mediaType, payload, nil
}
