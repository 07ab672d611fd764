package util

import (
	"errors"
	"io"
	"net/http"
	"regexp"
	"strings"
)

var storageIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidStorageID reports whether s can be embedded in a storage key: letters,
// digits, '-' and '_' only, so no path separators or dot segments. UUIDs pass.
func ValidStorageID(s string) bool {
	return storageIDPattern.MatchString(s)
}

// ValidateMimeType sniffs the first 512 bytes and checks the detected type
// against the allowed prefixes or exact types ("video/", "audio/webm").
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}

	mimeType := http.DetectContentType(buffer[:n])

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) || mimeType == allowed {
			return mimeType, nil
		}
	}

	return mimeType, errors.New("invalid file type: " + mimeType)
}

func IsVideo(mimeType string) bool {
	return strings.HasPrefix(mimeType, "video/") || mimeType == MimeOctetStream
}
