package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-world/common"
	_ "golang.org/x/image/bmp"
)

// Texture is a decoded RGBA texture held by the texture cache.
type Texture struct {
	// Name is the cache key, usually the file base name without extension.
	Name string
	// Transparent is set when at least one pixel has alpha below 255.
	Transparent bool
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
	// Pixels is row-major RGBA data, 4 bytes per pixel.
	Pixels []byte
}

// StagingData returns the texture in the form the renderer uploads.
//
// Returns:
//   - common.TextureStagingData: the pixel data and extent
func (t *Texture) StagingData() common.TextureStagingData {
	return common.TextureStagingData{Pixels: t.Pixels, Width: t.Width, Height: t.Height}
}

// DecodeTexture decodes a PNG, JPEG or BMP image into a Texture.
//
// Parameters:
//   - name: the texture name
//   - r: the encoded image
//
// Returns:
//   - *Texture: the decoded texture
//   - error: error if the image format is unknown or decoding fails
func DecodeTexture(name string, r io.Reader) (*Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture %s: %w", name, err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return &Texture{
		Name:        name,
		Transparent: hasTransparency(rgba.Pix),
		Width:       uint32(bounds.Dx()),
		Height:      uint32(bounds.Dy()),
		Pixels:      rgba.Pix,
	}, nil
}

// DecodeTextureFile decodes an image file, naming the texture after the file's base name without extension.
//
// Parameters:
//   - path: the image file path
//
// Returns:
//   - *Texture: the decoded texture
//   - error: error if the file cannot be read or decoded
func DecodeTextureFile(path string) (*Texture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeTexture(textureName(path), bytes.NewReader(data))
}

// NewSolidTexture builds a 1x1 texture of the given color.
//
// Parameters:
//   - name: the texture name
//   - rgba: the pixel color
//
// Returns:
//   - *Texture: the texture
func NewSolidTexture(name string, rgba [4]uint8) *Texture {
	return &Texture{
		Name:        name,
		Transparent: rgba[3] < 255,
		Width:       1,
		Height:      1,
		Pixels:      rgba[:],
	}
}

func hasTransparency(pix []byte) bool {
	for i := 3; i < len(pix); i += 4 {
		if pix[i] < 255 {
			return true
		}
	}
	return false
}

func textureName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
