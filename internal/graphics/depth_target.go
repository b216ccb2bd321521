package graphics

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// DepthTarget is an off-screen framebuffer with a single depth texture,
// configured for hardware compare-to-texture sampling so lit shaders get
// free PCF-style soft shadow edges.
type DepthTarget struct {
	fbo  uint32
	tex  uint32
	size int32
}

// NewDepthTarget allocates a square depth texture and its framebuffer.
// Requires a current GL context.
func NewDepthTarget(size int32) (*DepthTarget, error) {
	t := &DepthTarget{size: size}

	gl.GenTextures(1, &t.tex)
	gl.BindTexture(gl.TEXTURE_2D, t.tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24, size, size, 0,
		gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	// Depth 1.0 outside the frustum: everything beyond the map is lit.
	border := [4]float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, t.tex, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		t.Destroy()
		return nil, fmt.Errorf("depth framebuffer incomplete: 0x%x", status)
	}
	return t, nil
}

// Bind redirects rendering into the depth texture and sizes the viewport to
// it. The caller clears the depth buffer.
func (t *DepthTarget) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.Viewport(0, 0, t.size, t.size)
}

// Unbind restores the default framebuffer and the given viewport.
func (t *DepthTarget) Unbind(viewportW, viewportH int32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, viewportW, viewportH)
}

// Texture returns the depth texture handle.
func (t *DepthTarget) Texture() uint32 { return t.tex }

// Size returns the edge length in texels.
func (t *DepthTarget) Size() int32 { return t.size }

// Destroy releases the framebuffer and texture. Safe to call repeatedly.
func (t *DepthTarget) Destroy() {
	if t == nil {
		return
	}
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	}
	if t.tex != 0 {
		gl.DeleteTextures(1, &t.tex)
		t.tex = 0
	}
}
