package storage

import (
	"encoding/base64"
	"errors"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrInvalidImage         = errors.New("invalid image data")
	ErrUnsupportedImageType = errors.New("unsupported image type")
)

var dataURIPattern = regexp.MustCompile(`^data:image/(\w+);base64,`)

// declared type -> canonical content type
var allowedImageTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
}

// InlineImage is a decoded data:image URI.
type InlineImage struct {
	Data        []byte
	ContentType string
}

// IsInlineImage reports whether value is a data:image URI rather than a
// reference to an already stored object.
func IsInlineImage(value string) bool {
	return strings.HasPrefix(strings.TrimSpace(value), "data:image/")
}

// DecodeInlineImage parses data:image/<type>;base64,<payload>. The declared
// type must be jpg, jpeg, png or gif and the decoded bytes must sniff as
// the same kind of image.
func DecodeInlineImage(value string) (*InlineImage, error) {
	value = strings.TrimSpace(value)
	match := dataURIPattern.FindStringSubmatch(value)
	if match == nil {
		return nil, ErrInvalidImage
	}

	contentType, ok := allowedImageTypes[strings.ToLower(match[1])]
	if !ok {
		return nil, ErrUnsupportedImageType
	}

	payload := value[len(match[0]):]
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return nil, ErrInvalidImage
	}

	if !mimetype.Detect(data).Is(contentType) {
		return nil, ErrInvalidImage
	}

	return &InlineImage{Data: data, ContentType: contentType}, nil
}
