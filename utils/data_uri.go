package utils

import (
	"encoding/base64"
	"errors"
	"regexp"
	"strings"
)

var dataURIPattern = regexp.MustCompile(`^data:(.+);base64,(.+)$`)

// ErrInvalidDataURI is returned for anything that is not a base64 data URI
var ErrInvalidDataURI = errors.New("not a base64 data URI")

// DataURI is a decoded data:<mime>;base64,<payload> value
type DataURI struct {
	MimeType string
	Data     []byte
}

// Extension returns the mime subtype, "image/png" gives "png"
func (d DataURI) Extension() string {
	_, sub, _ := strings.Cut(d.MimeType, "/")
	return sub
}

// ParseDataURI decodes a base64 data URI
func ParseDataURI(s string) (*DataURI, error) {
	matches := dataURIPattern.FindStringSubmatch(s)
	if matches == nil {
		return nil, ErrInvalidDataURI
	}

	mime := matches[1]
	if _, sub, ok := strings.Cut(mime, "/"); !ok || sub == "" {
		return nil, ErrInvalidDataURI
	}

	data, err := base64.StdEncoding.DecodeString(matches[2])
	if err != nil {
		return nil, errors.Join(ErrInvalidDataURI, err)
	}
	return &DataURI{MimeType: mime, Data: data}, nil
}
