package graphics

import (
	"fmt"
	"image"
	stddraw "image/draw"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/draw"
)

// LoadState tracks the poll-based texture loading state machine.
type LoadState int32

const (
	TextureNotLoaded LoadState = iota
	TextureLoading
	TextureReady
	TextureFailed
)

// maxTextureEdge caps decoded image dimensions; larger images are resampled
// down before upload.
const maxTextureEdge = 4096

// Texture loads image data without blocking the frame loop. Decoding runs on
// a goroutine; the GPU upload happens on the frame-loop thread in TryAdvance.
// Bind substitutes a 1x1 opaque white placeholder until the texture is Ready,
// and keeps doing so forever if the load never completes — an accepted
// degraded mode, not a fault.
type Texture struct {
	path string

	mu      sync.Mutex
	state   LoadState
	decoded *image.RGBA
	loadErr error

	id     uint32
	Width  int
	Height int
}

// NewTexture creates an unloaded texture for the given file path.
func NewTexture(path string) *Texture {
	return &Texture{path: path}
}

// Path returns the source file path.
func (t *Texture) Path() string { return t.path }

// State returns the current loading state.
func (t *Texture) State() LoadState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Ready reports whether the GPU texture can be sampled.
func (t *Texture) Ready() bool { return t.State() == TextureReady }

// Load starts the asynchronous decode. Calling it again while loading or
// after completion is a no-op.
func (t *Texture) Load() {
	t.mu.Lock()
	if t.state != TextureNotLoaded {
		t.mu.Unlock()
		return
	}
	t.state = TextureLoading
	t.mu.Unlock()

	go func() {
		rgba, err := decodeRGBA(t.path)
		t.mu.Lock()
		defer t.mu.Unlock()
		if err != nil {
			log.Printf("forge3d: texture %q failed to load: %v", t.path, err)
			t.state = TextureFailed
			t.loadErr = err
			return
		}
		// Stay in Loading until the frame loop uploads the pixels.
		t.decoded = rgba
	}()
}

// TryAdvance performs the pending GPU upload, if any. Call once per frame
// tick from the thread owning the GL context. Returns true once Ready.
func (t *Texture) TryAdvance() bool {
	t.mu.Lock()
	if t.state != TextureLoading || t.decoded == nil {
		state := t.state
		t.mu.Unlock()
		return state == TextureReady
	}
	rgba := t.decoded
	t.decoded = nil
	t.mu.Unlock()

	t.id = uploadRGBA(rgba)
	t.Width = rgba.Rect.Dx()
	t.Height = rgba.Rect.Dy()

	t.mu.Lock()
	t.state = TextureReady
	t.mu.Unlock()
	return true
}

// Bind binds the texture to the given unit, substituting the shared white
// placeholder while not Ready.
func (t *Texture) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	if t != nil && t.Ready() {
		gl.BindTexture(gl.TEXTURE_2D, t.id)
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, placeholderTexture())
}

// Destroy releases the GPU texture. Safe to call repeatedly; a zero handle is
// skipped.
func (t *Texture) Destroy() {
	if t == nil || t.id == 0 {
		return
	}
	gl.DeleteTextures(1, &t.id)
	t.id = 0
	t.mu.Lock()
	t.state = TextureNotLoaded
	t.mu.Unlock()
}

func decodeRGBA(path string) (*image.RGBA, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file: %v", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %v", err)
	}

	b := img.Bounds()
	if b.Dx() > maxTextureEdge || b.Dy() > maxTextureEdge {
		// Resample oversized sources down to the cap, preserving aspect.
		w, h := b.Dx(), b.Dy()
		if w >= h {
			h = h * maxTextureEdge / w
			w = maxTextureEdge
		} else {
			w = w * maxTextureEdge / h
			h = maxTextureEdge
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		return dst, nil
	}

	rgba := image.NewRGBA(b)
	stddraw.Draw(rgba, rgba.Bounds(), img, b.Min, stddraw.Src)
	return rgba, nil
}

func uploadRGBA(rgba *image.RGBA) uint32 {
	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(rgba.Rect.Dx()),
		int32(rgba.Rect.Dy()),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(rgba.Pix),
	)
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texture
}

var (
	placeholderOnce sync.Once
	placeholderID   uint32
)

// placeholderTexture lazily creates the shared 1x1 opaque white texture bound
// in place of anything not yet loaded.
func placeholderTexture() uint32 {
	placeholderOnce.Do(func() {
		white := []uint8{255, 255, 255, 255}
		gl.GenTextures(1, &placeholderID)
		gl.BindTexture(gl.TEXTURE_2D, placeholderID)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, 1, 1, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(white))
		gl.BindTexture(gl.TEXTURE_2D, 0)
	})
	return placeholderID
}

var (
	textureCache = make(map[string]*Texture)
	cacheMutex   sync.RWMutex
)

// GetTexture returns a shared texture loader for the given path, starting the
// load on first use. Callers still poll TryAdvance each frame.
func GetTexture(path string) *Texture {
	cacheMutex.RLock()
	if tex, ok := textureCache[path]; ok {
		cacheMutex.RUnlock()
		return tex
	}
	cacheMutex.RUnlock()

	cacheMutex.Lock()
	defer cacheMutex.Unlock()

	// Double check locking
	if tex, ok := textureCache[path]; ok {
		return tex
	}

	tex := NewTexture(path)
	tex.Load()
	textureCache[path] = tex
	return tex
}

// AdvanceTextures runs the pending GPU upload for every cached texture. Call
// once per frame from the thread owning the GL context.
func AdvanceTextures() {
	cacheMutex.RLock()
	pending := make([]*Texture, 0, len(textureCache))
	for _, tex := range textureCache {
		pending = append(pending, tex)
	}
	cacheMutex.RUnlock()

	for _, tex := range pending {
		tex.TryAdvance()
	}
}
