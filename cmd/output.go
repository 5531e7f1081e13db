package cmd

import (
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-pathspace-renderer/pkg/renderer"
	"golang.org/x/image/tiff"
)

// imageEncoder writes the film in one file format
type imageEncoder func(w io.Writer, film *renderer.Film) error

func encodePNG(w io.Writer, film *renderer.Film) error {
	return png.Encode(w, film.Image())
}

// tiff keeps 16 bits per channel
func encodeTIFF(w io.Writer, film *renderer.Film) error {
	return tiff.Encode(w, film.Image64(), &tiff.Options{Compression: tiff.Deflate})
}

// encoderFor picks the encoder from the file extension
func encoderFor(path string) (imageEncoder, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return encodePNG, nil
	case ".tif", ".tiff":
		return encodeTIFF, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", ext)
	}
}

// writeFilm encodes the film to path, creating its directory if needed
func writeFilm(path string, film *renderer.Film) error {
	encode, err := encoderFor(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f, film); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
