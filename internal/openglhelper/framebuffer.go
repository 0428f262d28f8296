package openglhelper

import (
	"fmt"

	"github.com/go-gl/gl/v4.6-core/gl"
)

// Texture2D wraps a single 2D (or multisample 2D) color/depth attachment.
type Texture2D struct {
	ID      uint32
	Target  uint32 // gl.TEXTURE_2D or gl.TEXTURE_2D_MULTISAMPLE
	Width   int
	Height  int
	Samples int
}

// NewColorTexture allocates an RGBA16F color attachment, multisampled
// when samples > 1.
func NewColorTexture(width, height, samples int) *Texture2D {
	var id uint32
	gl.GenTextures(1, &id)
	t := &Texture2D{ID: id, Width: width, Height: height, Samples: samples}
	if samples > 1 {
		t.Target = gl.TEXTURE_2D_MULTISAMPLE
		gl.BindTexture(t.Target, id)
		gl.TexImage2DMultisample(t.Target, int32(samples), gl.RGBA16F, int32(width), int32(height), true)
	} else {
		t.Target = gl.TEXTURE_2D
		gl.BindTexture(t.Target, id)
		gl.TexImage2D(t.Target, 0, gl.RGBA16F, int32(width), int32(height), 0, gl.RGBA, gl.FLOAT, nil)
		gl.TexParameteri(t.Target, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(t.Target, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.TexParameteri(t.Target, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(t.Target, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	}
	return t
}

// NewDepthTexture allocates a depth attachment, multisampled when
// samples > 1.
func NewDepthTexture(width, height, samples int) *Texture2D {
	var id uint32
	gl.GenTextures(1, &id)
	t := &Texture2D{ID: id, Width: width, Height: height, Samples: samples}
	if samples > 1 {
		t.Target = gl.TEXTURE_2D_MULTISAMPLE
		gl.BindTexture(t.Target, id)
		gl.TexImage2DMultisample(t.Target, int32(samples), gl.DEPTH_COMPONENT32F, int32(width), int32(height), true)
	} else {
		t.Target = gl.TEXTURE_2D
		gl.BindTexture(t.Target, id)
		gl.TexImage2D(t.Target, 0, gl.DEPTH_COMPONENT32F, int32(width), int32(height), 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
		gl.TexParameteri(t.Target, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(t.Target, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	}
	return t
}

func (t *Texture2D) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(t.Target, t.ID)
}

func (t *Texture2D) Delete() {
	gl.DeleteTextures(1, &t.ID)
}

// Framebuffer wraps an FBO plus the color/depth attachments it owns.
// Used for the MSAA scene target, the weighted-blended OIT accum/reveal
// target, and the single-sample resolve target the composite and FXAA
// passes read from.
type Framebuffer struct {
	ID     uint32
	Color  []*Texture2D
	Depth  *Texture2D
	Width  int
	Height int
}

// NewSceneFramebuffer builds the multisampled opaque-pass target: one
// color attachment plus a depth attachment transparent draws test against.
func NewSceneFramebuffer(width, height, samples int) (*Framebuffer, error) {
	fb := &Framebuffer{Width: width, Height: height}
	gl.GenFramebuffers(1, &fb.ID)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.ID)

	color := NewColorTexture(width, height, samples)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, color.Target, color.ID, 0)
	fb.Color = []*Texture2D{color}

	depth := NewDepthTexture(width, height, samples)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, depth.Target, depth.ID, 0)
	fb.Depth = depth

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return nil, fmt.Errorf("openglhelper: scene framebuffer incomplete: 0x%x", status)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return fb, nil
}

// NewOITFramebuffer builds the weighted-blended transparency target:
// accum (RGBA16F, additively blended) and reveal (R16F, multiplicatively
// blended), sharing the scene's depth attachment so transparent fragments
// still depth-test against opaque geometry without writing depth.
func NewOITFramebuffer(width, height, samples int, sharedDepth *Texture2D) (*Framebuffer, error) {
	fb := &Framebuffer{Width: width, Height: height, Depth: sharedDepth}
	gl.GenFramebuffers(1, &fb.ID)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.ID)

	accum := NewColorTexture(width, height, samples)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, accum.Target, accum.ID, 0)

	var revealID uint32
	gl.GenTextures(1, &revealID)
	reveal := &Texture2D{ID: revealID, Width: width, Height: height, Samples: samples}
	if samples > 1 {
		reveal.Target = gl.TEXTURE_2D_MULTISAMPLE
		gl.BindTexture(reveal.Target, revealID)
		gl.TexImage2DMultisample(reveal.Target, int32(samples), gl.R16F, int32(width), int32(height), true)
	} else {
		reveal.Target = gl.TEXTURE_2D
		gl.BindTexture(reveal.Target, revealID)
		gl.TexImage2D(reveal.Target, 0, gl.R16F, int32(width), int32(height), 0, gl.RED, gl.FLOAT, nil)
		gl.TexParameteri(reveal.Target, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(reveal.Target, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	}
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT1, reveal.Target, revealID, 0)
	fb.Color = []*Texture2D{accum, reveal}

	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, sharedDepth.Target, sharedDepth.ID, 0)

	drawBuffers := []uint32{gl.COLOR_ATTACHMENT0, gl.COLOR_ATTACHMENT1}
	gl.DrawBuffers(2, &drawBuffers[0])

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return nil, fmt.Errorf("openglhelper: OIT framebuffer incomplete: 0x%x", status)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return fb, nil
}

// NewResolveFramebuffer builds a single-sample target the MSAA scene
// resolves into before the FXAA/present pass, which can't read
// multisample textures with a plain sampler2D.
func NewResolveFramebuffer(width, height int) (*Framebuffer, error) {
	fb := &Framebuffer{Width: width, Height: height}
	gl.GenFramebuffers(1, &fb.ID)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.ID)

	color := NewColorTexture(width, height, 1)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, color.Target, color.ID, 0)
	fb.Color = []*Texture2D{color}

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return nil, fmt.Errorf("openglhelper: resolve framebuffer incomplete: 0x%x", status)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return fb, nil
}

func (fb *Framebuffer) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.ID)
}

func BindDefaultFramebuffer() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// BlitAttachmentTo resolves fb's color attachment at attachmentIndex
// (multisampled or not) into dst's color attachment 0. This is how a
// multisample texture gets turned into something a plain sampler2D can
// read, since GLSL can't sample a multisample image with `texture()`.
func (fb *Framebuffer) BlitAttachmentTo(attachmentIndex int, dst *Framebuffer) {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fb.ID)
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0 + uint32(attachmentIndex))
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, dst.ID)
	if dst.ID == 0 {
		gl.DrawBuffer(gl.BACK)
	} else {
		gl.DrawBuffer(gl.COLOR_ATTACHMENT0)
	}
	gl.BlitFramebuffer(0, 0, int32(fb.Width), int32(fb.Height), 0, 0, int32(dst.Width), int32(dst.Height),
		gl.COLOR_BUFFER_BIT, gl.NEAREST)
}

func (fb *Framebuffer) Delete() {
	for _, c := range fb.Color {
		c.Delete()
	}
	gl.DeleteFramebuffers(1, &fb.ID)
}
