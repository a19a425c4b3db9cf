package export

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"terragen/internal/terrain"

	"golang.org/x/image/tiff"
)

const grayMax = math.MaxUint16

// HeightmapImage maps the field onto a 16-bit grayscale image, min elevation
// to black and max to white. Pixel (x, y) is cell [y][x]. A flat field is
// mid-gray.
func HeightmapImage(f terrain.HeightField) (*image.Gray16, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	w, h := f.Width(), f.Height()
	img := image.NewGray16(image.Rect(0, 0, w, h))
	lo, hi := f.Range()
	span := hi - lo
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint16(grayMax / 2)
			if span > 0 {
				v = uint16(math.Round((f[y][x] - lo) / span * grayMax))
			}
			img.SetGray16(x, y, color.Gray16{Y: v})
		}
	}
	return img, nil
}

// WriteHeightmapTIFF encodes the field as a deflate-compressed 16-bit TIFF.
func WriteHeightmapTIFF(w io.Writer, f terrain.HeightField) error {
	img, err := HeightmapImage(f)
	if err != nil {
		return err
	}
	if err := tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		return fmt.Errorf("tiff encode: %w", err)
	}
	return nil
}

// SaveHeightmapTIFF writes the heightmap image to path.
func SaveHeightmapTIFF(path string, f terrain.HeightField) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := WriteHeightmapTIFF(out, f); err != nil {
		return err
	}
	return out.Close()
}

// ReadHeightmapTIFF decodes a grayscale TIFF back into a field with
// elevations in [lo, hi].
func ReadHeightmapTIFF(r io.Reader, lo, hi float64) (terrain.HeightField, error) {
	img, err := tiff.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("tiff decode: %w", err)
	}
	b := img.Bounds()
	f, err := terrain.NewHeightField(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	for y := range f {
		for x := range f[y] {
			g := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
			f[y][x] = lo + float64(g.Y)/grayMax*(hi-lo)
		}
	}
	return f, nil
}
