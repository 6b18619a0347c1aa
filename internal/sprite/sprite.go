// Package sprite renders Pokémon sprites as terminal art using half-block
// characters.
package sprite

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

// alphaThreshold is the minimum alpha for a pixel to count as drawn.
const alphaThreshold = 128

// Options controls rendering.
type Options struct {
	Cols  int  // output width in terminal cells
	Rows  int  // output height in terminal cells; each holds two pixels
	Color bool // false renders a monochrome silhouette
}

// DefaultOptions fit a sprite beside a stat table.
func DefaultOptions() Options {
	return Options{Cols: 32, Rows: 16, Color: true}
}

// Decode reads a PNG (or any registered format) sprite.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding sprite: %w", err)
	}
	return img, nil
}

// Render draws img as half-block art. Transparent borders are cropped
// before scaling.
func Render(img image.Image, opts Options) string {
	if opts.Cols <= 0 || opts.Rows <= 0 {
		return ""
	}

	src := crop(img)
	if src.Bounds().Empty() {
		return ""
	}

	scaled := scale(src, opts.Cols, opts.Rows*2)
	return toHalfBlocks(scaled, opts)
}

// RenderBytes decodes and renders data.
func RenderBytes(data []byte, opts Options) (string, error) {
	img, err := Decode(data)
	if err != nil {
		return "", err
	}
	return Render(img, opts), nil
}

// crop returns the smallest sub-image containing every opaque pixel.
func crop(img image.Image) image.Image {
	b := img.Bounds()
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X, b.Min.Y

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if !opaque(img.At(x, y)) {
				continue
			}
			minX, minY = min(minX, x), min(minY, y)
			maxX, maxY = max(maxX, x+1), max(maxY, y+1)
		}
	}
	if minX >= maxX || minY >= maxY {
		return image.NewRGBA(image.Rectangle{})
	}

	r := image.Rect(minX, minY, maxX, maxY)
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst
}

// scale fits src into a w×h canvas, bottom-centred, keeping its aspect
// ratio.
func scale(src image.Image, w, h int) *image.RGBA {
	sb := src.Bounds()
	ratio := min(float64(w)/float64(sb.Dx()), float64(h)/float64(sb.Dy()))
	dw := max(1, int(float64(sb.Dx())*ratio))
	dh := max(1, int(float64(sb.Dy())*ratio))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	offset := image.Pt((w-dw)/2, h-dh)
	target := image.Rectangle{Min: offset, Max: offset.Add(image.Pt(dw, dh))}

	// Nearest-neighbour keeps pixel art crisp when enlarging.
	var scaler draw.Scaler = draw.CatmullRom
	if ratio >= 1 {
		scaler = draw.NearestNeighbor
	}
	scaler.Scale(dst, target, src, sb, draw.Over, nil)
	return dst
}

func toHalfBlocks(img *image.RGBA, opts Options) string {
	var result strings.Builder

	for row := 0; row < opts.Rows; row++ {
		for col := 0; col < opts.Cols; col++ {
			top := img.RGBAAt(col, row*2)
			bottom := img.RGBAAt(col, row*2+1)
			result.WriteString(cell(top, bottom, opts.Color))
		}
		if row < opts.Rows-1 {
			result.WriteRune('\n')
		}
	}

	return result.String()
}

func cell(top, bottom color.RGBA, colored bool) string {
	topOn := top.A >= alphaThreshold
	bottomOn := bottom.A >= alphaThreshold

	if !colored {
		switch {
		case topOn && bottomOn:
			return "█"
		case topOn:
			return "▀"
		case bottomOn:
			return "▄"
		default:
			return " "
		}
	}

	switch {
	case topOn && bottomOn:
		return lipgloss.NewStyle().Foreground(hex(top)).Background(hex(bottom)).Render("▀")
	case topOn:
		return lipgloss.NewStyle().Foreground(hex(top)).Render("▀")
	case bottomOn:
		return lipgloss.NewStyle().Foreground(hex(bottom)).Render("▄")
	default:
		return " "
	}
}

func opaque(c color.Color) bool {
	_, _, _, a := c.RGBA()
	return a>>8 >= alphaThreshold
}

func hex(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// Fetcher downloads sprite images.
type Fetcher interface {
	Sprite(ctx context.Context, url string) ([]byte, error)
}

// Cache renders sprites on demand and keeps the results.
type Cache struct {
	fetcher Fetcher

	mu       sync.Mutex
	rendered map[cacheKey]string
}

type cacheKey struct {
	url  string
	opts Options
}

// NewCache creates a Cache fetching through f.
func NewCache(f Fetcher) *Cache {
	return &Cache{fetcher: f, rendered: make(map[cacheKey]string)}
}

// Get returns the rendered sprite at url.
func (c *Cache) Get(ctx context.Context, url string, opts Options) (string, error) {
	key := cacheKey{url: url, opts: opts}

	c.mu.Lock()
	if s, ok := c.rendered[key]; ok {
		c.mu.Unlock()
		return s, nil
	}
	c.mu.Unlock()

	data, err := c.fetcher.Sprite(ctx, url)
	if err != nil {
		return "", err
	}
	s, err := RenderBytes(data, opts)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.rendered[key] = s
	c.mu.Unlock()
	return s, nil
}
