// Package texture assigns handles to model textures and records their size
// and format. Pixel decoding and upload belong to the renderer.
package texture

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ftrvxmtrx/tga"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/image/bmp"

	"github.com/Faultbox/skelanim/internal/logger"
)

type configDecoder func(io.Reader) (image.Config, error)

// TGA has no magic number, so headers are read with the decoder that
// matches the file extension.
var decoders = map[string]struct {
	format string
	decode configDecoder
}{
	".png":  {"png", png.DecodeConfig},
	".jpg":  {"jpeg", jpeg.DecodeConfig},
	".jpeg": {"jpeg", jpeg.DecodeConfig},
	".bmp":  {"bmp", bmp.DecodeConfig},
	".tga":  {"tga", tga.DecodeConfig},
}

// None is the handle of a missing or unreadable texture.
const None = 0

// Info describes a registered texture.
type Info struct {
	Path   string
	Width  int
	Height int
	Format string // png, jpeg, tga or bmp
}

// Registry hands out one stable handle per texture path.
type Registry struct {
	mu      sync.Mutex
	handles map[string]int
	infos   []Info
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handles: make(map[string]int)}
}

// LoadTexture returns the handle for path, reading the image header the
// first time the path is seen. Unreadable images get None.
func (r *Registry) LoadTexture(path string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.handles[path]; ok {
		return h
	}
	info, err := probe(path)
	if err != nil {
		logger.Named("texture").Warn("texture unavailable", zap.String("file", path), zap.Error(err))
		r.handles[path] = None
		return None
	}
	r.infos = append(r.infos, info)
	h := len(r.infos)
	r.handles[path] = h
	return h
}

// Info returns the description of handle h.
func (r *Registry) Info(h int) (Info, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h <= None || h > len(r.infos) {
		return Info{}, false
	}
	return r.infos[h-1], true
}

// Len returns the number of readable textures registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.infos)
}

func probe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, errors.Wrap(err, "opening texture")
	}
	defer f.Close()

	var (
		cfg    image.Config
		format string
	)
	if d, ok := decoders[strings.ToLower(filepath.Ext(path))]; ok {
		format = d.format
		cfg, err = d.decode(f)
	} else {
		cfg, format, err = image.DecodeConfig(f)
	}
	if err != nil {
		return Info{}, errors.Wrap(err, "reading texture header")
	}
	return Info{Path: path, Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}
