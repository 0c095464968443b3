// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package imageprev turns a selected image file into a small terminal
// thumbnail for the chat input's attachment preview.
package imageprev

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/verifact-tui/internal/model"
)

const (
	// MaxFileSize bounds the image files we are willing to decode.
	MaxFileSize = 25 * 1024 * 1024

	// DefaultCols and DefaultRows size the thumbnail in terminal cells.
	// Each cell shows two vertical pixels.
	DefaultCols = 24
	DefaultRows = 10

	halfBlock = "▀"
)

var (
	// ErrUnsupportedImage is returned for files that are not PNG, JPEG or GIF.
	ErrUnsupportedImage = errors.New("unsupported image format")

	// ErrTooLarge is returned for files over MaxFileSize.
	ErrTooLarge = errors.New("image file too large")
)

// Preview is a decoded image summary plus its rendered thumbnail.
type Preview struct {
	Format    string
	Width     int
	Height    int
	Thumbnail string
}

// Dimensions returns "WxH".
func (p Preview) Dimensions() string {
	return fmt.Sprintf("%dx%d", p.Width, p.Height)
}

// Ref builds an image reference for path, named by its base name.
func Ref(path string) model.ImageRef {
	return model.ImageRef{Path: path, Name: filepath.Base(path)}
}

// IsImagePath reports whether path has a decodable image extension.
func IsImagePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return true
	}
	return false
}

// Decode reads the image at path and renders a thumbnail of at most
// DefaultCols x DefaultRows cells.
func Decode(ctx context.Context, path string) (Preview, error) {
	return DecodeSize(ctx, path, DefaultCols, DefaultRows)
}

// DecodeSize is Decode with an explicit thumbnail size.
func DecodeSize(ctx context.Context, path string, cols, rows int) (Preview, error) {
	if err := ctx.Err(); err != nil {
		return Preview{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return Preview{}, fmt.Errorf("stat image: %w", err)
	}
	if info.IsDir() {
		return Preview{}, fmt.Errorf("%s: %w", path, ErrUnsupportedImage)
	}
	if info.Size() > MaxFileSize {
		return Preview{}, fmt.Errorf("%s: %w", path, ErrTooLarge)
	}

	f, err := os.Open(path)
	if err != nil {
		return Preview{}, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return Preview{}, fmt.Errorf("%s: %w", path, ErrUnsupportedImage)
		}
		return Preview{}, fmt.Errorf("decode image: %w", err)
	}

	thumb, err := Render(ctx, img, cols, rows)
	if err != nil {
		return Preview{}, err
	}

	b := img.Bounds()
	return Preview{
		Format:    format,
		Width:     b.Dx(),
		Height:    b.Dy(),
		Thumbnail: thumb,
	}, nil
}

// Render draws img into at most cols x rows cells using half blocks,
// preserving aspect ratio. Sampling is nearest-neighbor.
func Render(ctx context.Context, img image.Image, cols, rows int) (string, error) {
	b := img.Bounds()
	if b.Empty() || cols <= 0 || rows <= 0 {
		return "", nil
	}

	// Fit width x (2*rows) pixels, keeping the aspect ratio.
	w, h := fit(b.Dx(), b.Dy(), cols, rows*2)
	if h%2 == 1 {
		h++
	}

	var sb strings.Builder
	for y := 0; y < h; y += 2 {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < w; x++ {
			top := sample(img, b, x, y, w, h)
			bottom := sample(img, b, x, y+1, w, h)
			sb.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render(halfBlock))
		}
	}
	return sb.String(), nil
}

func fit(srcW, srcH, maxW, maxH int) (int, int) {
	w, h := maxW, srcH*maxW/srcW
	if h > maxH {
		h = maxH
		w = srcW * maxH / srcH
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func sample(img image.Image, b image.Rectangle, x, y, w, h int) string {
	if y >= h {
		y = h - 1
	}
	sx := b.Min.X + x*b.Dx()/w
	sy := b.Min.Y + y*b.Dy()/h
	r, g, bl, _ := img.At(sx, sy).RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, bl>>8)
}
