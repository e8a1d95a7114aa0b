package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// diskStore implements Store on the local file system.
type diskStore struct {
	dir     string
	baseURL string
	logger  zerolog.Logger
}

// NewDiskStore creates a store that writes uploads under dir and serves them
// from baseURL.
func NewDiskStore(dir, baseURL string, logger zerolog.Logger) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}

	return &diskStore{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger.With().Str("component", "disk-media-store").Logger(),
	}, nil
}

// Save writes the file to disk. When a file with the same name already
// exists, a timestamp suffix is inserted before the extension so the old file
// is never overwritten.
func (s *diskStore) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	name = SanitizeName(name)
	if name == "" || name == "." {
		return "", fmt.Errorf("invalid file name")
	}

	target := filepath.Join(s.dir, name)
	if _, err := os.Stat(target); err == nil {
		name = timestampName(name)
		target = filepath.Join(s.dir, name)
		s.logger.Debug().Str("file", name).Msg("name collision, using timestamp suffix")
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to stat target file: %w", err)
	}

	if err := os.WriteFile(target, data, 0o644); err != nil {
		s.logger.Error().Err(err).Str("file", name).Msg("failed to write upload")
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	s.logger.Info().
		Str("file", name).
		Str("content_type", contentType).
		Int("bytes", len(data)).
		Msg("upload stored on disk")

	return s.baseURL + "/images/" + name, nil
}

// timestampName inserts a unix-nano suffix before the file extension.
func timestampName(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return base + "-" + strconv.FormatInt(time.Now().UnixNano(), 10) + ext
}
