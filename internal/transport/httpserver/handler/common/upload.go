package common

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
)

const (
	maxImageBytes  = 10 << 20
	imageFormField = "image"
)

type ImageUpload struct {
	ContentType string
	Body        io.ReadCloser
}

// ReadImageUpload accepts a multipart form with an "image" file or a raw
// image body. The caller closes Body.
func ReadImageUpload(w http.ResponseWriter, r *http.Request) (*ImageUpload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, errors.New("content type is required")
	}

	if mediaType != "multipart/form-data" {
		if !strings.HasPrefix(mediaType, "image/") {
			return nil, errors.New("expected multipart/form-data or an image body")
		}
		return &ImageUpload{ContentType: mediaType, Body: r.Body}, nil
	}

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		return nil, errors.New("invalid multipart form")
	}
	file, header, err := r.FormFile(imageFormField)
	if err != nil {
		return nil, errors.New("image file is required")
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &ImageUpload{ContentType: contentType, Body: file}, nil
}
