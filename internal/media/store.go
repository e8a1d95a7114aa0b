package media

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"vinyl-crate/internal/model"
)

// MaxUploadSize is the largest accepted upload, 10 MiB.
const MaxUploadSize = 10 << 20

// Store persists uploaded files and returns a public reference for each.
type Store interface {
	// Save writes the file under the given name and returns its public URL.
	// Implementations must not overwrite an existing file with the same name.
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// allowedImageTypes are the content types accepted for cover uploads.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	unsafeRe     = regexp.MustCompile(`[^a-zA-Z0-9.\-_]`)
)

// SanitizeName normalises a client-supplied filename: whitespace runs become
// a single hyphen and anything outside [a-zA-Z0-9.-_] is stripped.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	name = whitespaceRe.ReplaceAllString(name, "-")
	name = unsafeRe.ReplaceAllString(name, "")
	return name
}

// ValidateUpload checks size and sniffed content type. It returns the
// detected content type on success.
func ValidateUpload(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty upload")
	}

	if len(data) > MaxUploadSize {
		return "", model.ErrFileTooLarge
	}

	// Sniff from content rather than trusting the client header.
	contentType := http.DetectContentType(data)
	if _, ok := allowedImageTypes[contentType]; !ok {
		return "", model.ErrUnsupportedFile
	}

	return contentType, nil
}
