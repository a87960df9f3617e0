package site

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/glaido/site/markdown"
)

const (
	maxCoverWidth = 1200
	jpegQuality   = 80
)

var coverExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true}

// Cover is the outcome of optimizing one image.
type Cover struct {
	Source  string
	Output  string // empty when skipped or failed
	Width   int
	Height  int
	Size    int
	Skipped bool // already a JPEG no wider than the limit
	Err     error
}

// processImage decodes an image from src, downscales it to maxCoverWidth
// when wider, and encodes it as JPEG.
func processImage(src io.Reader) ([]byte, int, int, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxCoverWidth {
		newH := max(h*maxCoverWidth/w, 1)
		dst := image.NewRGBA(image.Rect(0, 0, maxCoverWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w, h = maxCoverWidth, newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, 0, 0, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), w, h, nil
}

// coverName converts a file name to "<slug>.jpg".
func coverName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	slug := markdown.Slugify(base)
	if slug == "" {
		slug = "cover"
	}
	return slug + ".jpg"
}

// OptimizeCovers re-encodes every image directly under dir as a JPEG named
// after its slug, next to the source. Per-file failures are reported in the
// result and do not stop the run.
func OptimizeCovers(dir string) ([]Cover, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var covers []Cover
	for _, e := range entries {
		if e.IsDir() || !coverExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		covers = append(covers, optimizeCover(dir, e.Name()))
	}
	return covers, nil
}

func optimizeCover(dir, name string) Cover {
	src := filepath.Join(dir, name)
	out := filepath.Join(dir, coverName(name))
	c := Cover{Source: src}

	f, err := os.Open(src)
	if err != nil {
		c.Err = err
		return c
	}
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		f.Close()
		c.Err = fmt.Errorf("decode image: %w", err)
		return c
	}
	if out == src && cfg.Width <= maxCoverWidth {
		f.Close()
		c.Width, c.Height, c.Skipped = cfg.Width, cfg.Height, true
		return c
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		c.Err = err
		return c
	}
	data, w, h, err := processImage(f)
	f.Close()
	if err != nil {
		c.Err = err
		return c
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		c.Err = fmt.Errorf("write %s: %w", out, err)
		return c
	}
	c.Output, c.Width, c.Height, c.Size = out, w, h, len(data)
	return c
}
