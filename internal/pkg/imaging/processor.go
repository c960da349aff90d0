package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
)

// Config for payment proof normalization
type Config struct {
	MaxWidth  int // max width after resize (default 1600)
	MaxHeight int // max height after resize (default 1600)
	Quality   int // JPEG quality 1-100 (default 85)
}

// DefaultConfig returns default normalization config
func DefaultConfig() Config {
	return Config{
		MaxWidth:  1600,
		MaxHeight: 1600,
		Quality:   85,
	}
}

// Processor normalizes uploaded payment proof images: screenshots from
// banking apps arrive at arbitrary sizes, so oversized images are scaled
// down before storage.
type Processor struct {
	config Config
}

// NewProcessor creates an image processor
func NewProcessor(config Config) *Processor {
	return &Processor{config: config}
}

// Normalize decodes the image, scales it down if it exceeds the configured
// bounds, and re-encodes it. Returns the processed bytes and content type.
func (p *Processor) Normalize(reader io.Reader) ([]byte, string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > p.config.MaxWidth || bounds.Dy() > p.config.MaxHeight {
		img = imaging.Fit(img, p.config.MaxWidth, p.config.MaxHeight, imaging.Lanczos)
	}

	encoded, contentType, err := p.encode(img, format)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode image: %w", err)
	}

	return encoded, contentType, nil
}

func (p *Processor) encode(img image.Image, format string) ([]byte, string, error) {
	var buf bytes.Buffer

	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/png", nil
	default:
		// JPEG for everything else, including webp sources
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.config.Quality}); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/jpeg", nil
	}
}
