// Package exif downloads images and reads the GPS position stored in their EXIF metadata.
package exif

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	goexif "github.com/rwcarlsen/goexif/exif"

	"geosleuth/types"
)

var (
	ErrDownload = errors.New("failed to download image")
	ErrNotImage = errors.New("payload is not an image")
)

// Extractor fetches images over HTTP and decodes their GPS tags.
type Extractor struct {
	client   *http.Client
	maxBytes int64
}

func NewExtractor(client *http.Client, maxBytes int64) *Extractor {
	return &Extractor{client: client, maxBytes: maxBytes}
}

// Fetch downloads url, refusing non-2xx answers and bodies above the size budget.
func (e *Extractor) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrDownload, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrDownload, err)
	}
	if int64(len(data)) > e.maxBytes {
		return nil, fmt.Errorf("%w: image larger than %d bytes", ErrDownload, e.maxBytes)
	}

	return data, nil
}

// ExtractGPS returns the image's position, or nil when it carries none.
func (e *Extractor) ExtractGPS(ctx context.Context, url string) (*types.GPS, error) {
	data, err := e.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return DecodeGPS(data)
}

// DecodeGPS reads GPS coordinates from raw image bytes.
// A nil result with a nil error means the image has no GPS position.
func DecodeGPS(data []byte) (*types.GPS, error) {
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
	}
	if !carriesExif(mt) {
		return nil, nil
	}

	x, err := goexif.Decode(bytes.NewReader(data))
	if err != nil {
		if missingExif(err) {
			return nil, nil
		}
		// non-critical errors still come with usable tags
		if x == nil || goexif.IsCriticalError(err) {
			return nil, fmt.Errorf("decoding exif: %w", err)
		}
	}

	lat, err := rationals(x, goexif.GPSLatitude)
	if err != nil || lat == nil {
		return nil, err
	}
	latRef, err := stringTag(x, goexif.GPSLatitudeRef)
	if err != nil || latRef == "" {
		return nil, err
	}
	lon, err := rationals(x, goexif.GPSLongitude)
	if err != nil || lon == nil {
		return nil, err
	}
	lonRef, err := stringTag(x, goexif.GPSLongitudeRef)
	if err != nil || lonRef == "" {
		return nil, err
	}

	return coordinates(lat, latRef, lon, lonRef)
}

// carriesExif reports whether goexif can read mt. Camera raw formats are TIFF children.
func carriesExif(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("image/jpeg") || m.Is("image/tiff") {
			return true
		}
	}
	return false
}

func missingExif(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	return strings.Contains(err.Error(), "failed to find exif intro marker")
}

// rationals returns nil without error when the tag is absent or empty.
func rationals(x *goexif.Exif, name goexif.FieldName) ([]Rational, error) {
	tag, err := x.Get(name)
	if err != nil {
		if goexif.IsTagNotPresentError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if tag.Count == 0 {
		return nil, nil
	}

	out := make([]Rational, 0, tag.Count)
	for i := 0; i < int(tag.Count); i++ {
		num, den, err := tag.Rat2(i)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDMS, name, err)
		}
		out = append(out, Rational{Num: num, Den: den})
	}
	return out, nil
}

// stringTag returns "" without error when the tag is absent.
func stringTag(x *goexif.Exif, name goexif.FieldName) (string, error) {
	tag, err := x.Get(name)
	if err != nil {
		if goexif.IsTagNotPresentError(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading %s: %w", name, err)
	}

	s, err := tag.StringVal()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidDMS, name, err)
	}
	return strings.TrimSpace(s), nil
}
