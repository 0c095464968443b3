// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package imageprev

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: 80, B: uint8(y * 255 / h), A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "proof.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestDecode_PNG(t *testing.T) {
	path := writePNG(t, 64, 32)

	p, err := Decode(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "png", p.Format)
	assert.Equal(t, "64x32", p.Dimensions())

	lines := strings.Split(p.Thumbnail, "\n")
	// 64x32 fits 24 cols x 12 pixels -> 6 rows
	assert.Len(t, lines, 6)
	assert.Contains(t, p.Thumbnail, halfBlock)
}

func TestDecode_Unsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.png")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a png"), 0644))

	_, err := Decode(context.Background(), path)
	assert.True(t, errors.Is(err, ErrUnsupportedImage), "got %v", err)

	_, err = Decode(context.Background(), t.TempDir())
	assert.True(t, errors.Is(err, ErrUnsupportedImage), "got %v", err)
}

func TestDecode_Missing(t *testing.T) {
	_, err := Decode(context.Background(), filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDecode_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Decode(ctx, writePNG(t, 4, 4))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFit(t *testing.T) {
	tests := []struct {
		srcW, srcH, maxW, maxH int
		wantW, wantH           int
	}{
		{100, 100, 24, 20, 20, 20},
		{200, 50, 24, 20, 24, 6},
		{10, 1000, 24, 20, 1, 20},
	}
	for _, tc := range tests {
		w, h := fit(tc.srcW, tc.srcH, tc.maxW, tc.maxH)
		if w != tc.wantW || h != tc.wantH {
			t.Errorf("fit(%d,%d,%d,%d) = %d,%d want %d,%d",
				tc.srcW, tc.srcH, tc.maxW, tc.maxH, w, h, tc.wantW, tc.wantH)
		}
	}
}

func TestRef(t *testing.T) {
	ref := Ref("/home/u/Pictures/dolphin.JPG")
	assert.Equal(t, "dolphin.JPG", ref.Name)
	assert.True(t, IsImagePath(ref.Path))
	assert.False(t, IsImagePath("/tmp/report.pdf"))
}
