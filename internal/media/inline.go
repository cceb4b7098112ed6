// Package media turns user-supplied photo, video and avatar files into
// inline data URIs that can be stored as plain string fields.
package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/disintegration/imaging"
)

var (
	ErrTooLarge         = errors.New("file exceeds upload limit")
	ErrUnsupportedMedia = errors.New("file is neither an image nor a video")
)

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

type Options struct {
	// MaxBytes caps the size of the file read from disk.
	MaxBytes int64
	// MaxDimension bounds the width and height of images. Zero keeps the
	// original size.
	MaxDimension int
}

type Payload struct {
	DataURI  string
	MIMEType string
	Kind     Kind
}

// ReadFileAsInlinePayload reads path and returns it as a base64 data URI.
// Images larger than opts.MaxDimension are scaled down first.
func ReadFileAsInlinePayload(path string, opts Options) (*Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if opts.MaxBytes > 0 {
		r = io.LimitReader(f, opts.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if opts.MaxBytes > 0 && int64(len(data)) > opts.MaxBytes {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrTooLarge, path, opts.MaxBytes)
	}
	return Inline(data, opts)
}

// Inline encodes already loaded file contents.
func Inline(data []byte, opts Options) (*Payload, error) {
	mimeType := http.DetectContentType(data)
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}

	var kind Kind
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		kind = KindImage
	case strings.HasPrefix(mimeType, "video/"):
		kind = KindVideo
	default:
		return nil, fmt.Errorf("%w: detected %s", ErrUnsupportedMedia, mimeType)
	}

	if kind == KindImage && opts.MaxDimension > 0 {
		resized, resizedType, err := downscale(data, mimeType, opts.MaxDimension)
		if err != nil {
			return nil, err
		}
		data, mimeType = resized, resizedType
	}

	return &Payload{
		DataURI:  "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data),
		MIMEType: mimeType,
		Kind:     kind,
	}, nil
}

// downscale fits the image inside limit x limit. Images already within bounds,
// and formats imaging cannot decode, are returned unchanged.
func downscale(data []byte, mimeType string, limit int) ([]byte, string, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return data, mimeType, nil
	}
	bounds := img.Bounds()
	if bounds.Dx() <= limit && bounds.Dy() <= limit {
		return data, mimeType, nil
	}

	fitted := imaging.Fit(img, limit, limit, imaging.Lanczos)

	format, outType := imaging.JPEG, "image/jpeg"
	if mimeType == "image/png" {
		format, outType = imaging.PNG, "image/png"
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, format, imaging.JPEGQuality(85)); err != nil {
		return nil, "", fmt.Errorf("failed to re-encode image: %w", err)
	}
	return buf.Bytes(), outType, nil
}
