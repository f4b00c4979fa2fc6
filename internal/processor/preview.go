package processor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/woozymasta/geokit/internal/geo"

	"github.com/chai2010/webp"
	"github.com/rs/zerolog/log"
	xdraw "golang.org/x/image/draw"
)

const (
	// DefaultPreviewSize is the output width in pixels.
	DefaultPreviewSize = 512
	// maxGrid caps the sampled grid width; larger previews are up-scaled.
	maxGrid = 256
	// maxAspect caps height relative to width for very narrow fences.
	maxAspect = 4
)

// FenceFill is the color of pixels inside the fence.
var FenceFill = color.NRGBA{R: 0x2b, G: 0x8c, B: 0xbe, A: 0xc0}

// ErrDegenerateFence is returned for fences with zero width or height.
var ErrDegenerateFence = errors.New("fence has an empty bounding box")

type rowJob struct {
	Y int
}

// RenderFence rasterizes the polygon into a mask image of the given width.
// Each cell of a sampled grid is tested with geo.WithinBounds at its center,
// rows are spread over concurrency workers, and the grid is up-scaled to the
// final size with nearest neighbour scaling to keep edges hard.
func RenderFence(points []geo.Coordinate, size, concurrency int) (*image.NRGBA, error) {
	sw, ne, ok := geo.Bounds(points)
	if !ok {
		return nil, ErrDegenerateFence
	}

	lonSpan := ne.Lon - sw.Lon
	latSpan := ne.Lat - sw.Lat
	if lonSpan <= 0 || latSpan <= 0 {
		return nil, ErrDegenerateFence
	}

	if size <= 0 {
		size = DefaultPreviewSize
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	// longitude degrees shrink with latitude
	midLat := (sw.Lat + ne.Lat) / 2
	aspect := latSpan / (lonSpan * math.Max(math.Cos(midLat*math.Pi/180), 0.01))
	aspect = math.Min(aspect, maxAspect)

	gridW := size
	if gridW > maxGrid {
		gridW = maxGrid
	}
	gridH := int(math.Max(1, math.Round(float64(gridW)*aspect)))
	height := int(math.Max(1, math.Round(float64(size)*aspect)))

	grid := image.NewNRGBA(image.Rect(0, 0, gridW, gridH))

	jobs := make(chan rowJob, gridH)
	for y := 0; y < gridH; y++ {
		jobs <- rowJob{Y: y}
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				lat := ne.Lat - (float64(j.Y)+0.5)/float64(gridH)*latSpan
				for x := 0; x < gridW; x++ {
					lon := sw.Lon + (float64(x)+0.5)/float64(gridW)*lonSpan
					if geo.WithinBounds(points, lon, lat) {
						// rows are disjoint, so workers never share pixels
						grid.SetNRGBA(x, j.Y, FenceFill)
					}
				}
			}
		}()
	}
	wg.Wait()

	if gridW == size && gridH == height {
		return grid, nil
	}

	dst := image.NewNRGBA(image.Rect(0, 0, size, height))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), grid, grid.Bounds(), draw.Src, nil)

	return dst, nil
}

// EncodePreview writes img as lossless WebP.
func EncodePreview(w io.Writer, img image.Image) error {
	return webp.Encode(w, img, &webp.Options{Lossless: true})
}

// PreviewBytes renders and encodes a fence preview in one step.
func PreviewBytes(points []geo.Coordinate, size, concurrency int) ([]byte, error) {
	img, err := RenderFence(points, size, concurrency)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := EncodePreview(&buf, img); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}

	return buf.Bytes(), nil
}

// SavePreview renders the fence and writes it to path, creating parent
// directories. Existing files are kept unless force is set.
func SavePreview(path string, points []geo.Coordinate, size, concurrency int, force bool) error {
	if !force {
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			log.Debug().Str("path", path).Msg("Preview exists, skipping")
			return nil
		}
	}

	data, err := PreviewBytes(points, size, concurrency)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
