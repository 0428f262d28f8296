package render

import (
	"fmt"
	"unsafe"

	"github.com/leterax/voxelcore/internal/openglhelper"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/leterax/voxelcore/pkg/gpu"
	"github.com/leterax/voxelcore/pkg/voxel"
	"github.com/leterax/voxelcore/pkg/world"
)

// Config controls window/render-quality setup.
type Config struct {
	Width, Height int
	Title         string
	MSAASamples   int // 1 disables multisampling
	FXAA          bool
	Slab          *gpu.Slab
	MaxDrawBatches int // sized from the world's bucket capacity
}

// Renderer drives the per-frame draw-command assembly and submission
// described by the engine's renderer-driver component: frustum-cull
// sub-chunks, pack indirect draw commands (opaque then transparent),
// issue multi-draw-indirect, and resolve MSAA + weighted-blended OIT to
// the screen.
type Renderer struct {
	window *openglhelper.Window
	camera *Camera

	chunkShader     *openglhelper.Shader
	compositeShader *openglhelper.Shader
	fxaaShader      *openglhelper.Shader

	slab *gpu.Slab
	vao  *openglhelper.VertexArrayObject
	ebo  *openglhelper.BufferObject

	opaqueIndirect      *openglhelper.BufferObject
	transparentIndirect *openglhelper.BufferObject
	opaqueCommands      []openglhelper.DrawElementsIndirectCommand
	transparentCommands []openglhelper.DrawElementsIndirectCommand

	uvRectBuffer  *openglhelper.BufferObject // TEXTURE_BUFFER backing the UV rect lookup
	uvRectTexture uint32                     // samplerBuffer view over uvRectBuffer

	sceneFB        *openglhelper.Framebuffer // MSAA opaque target
	oitFB          *openglhelper.Framebuffer // MSAA accum/reveal, shares sceneFB's depth
	sceneResolveFB *openglhelper.Framebuffer
	accumResolveFB *openglhelper.Framebuffer
	revealResolveFB *openglhelper.Framebuffer
	compositeFB    *openglhelper.Framebuffer

	msaaSamples int
	fxaaEnabled bool

	fence frameFence

	lastFrameTime float64
	deltaTime     float32
	totalTime     float32

	isWireframeMode bool
	isClosed        bool
}

// NewRenderer creates a window, compiles the chunk/composite/FXAA shaders,
// and sets up the MSAA + weighted-blended-OIT framebuffer chain.
func NewRenderer(cfg Config) (*Renderer, error) {
	window, err := openglhelper.NewWindow(cfg.Width, cfg.Height, cfg.Title, false)
	if err != nil {
		return nil, fmt.Errorf("render: create window: %w", err)
	}

	camera := NewCamera(mgl32.Vec3{0, 80, 0})
	camera.UpdateProjectionMatrix(cfg.Width, cfg.Height)

	r := &Renderer{
		window:      window,
		camera:      camera,
		slab:        cfg.Slab,
		msaaSamples: max(cfg.MSAASamples, 1),
		fxaaEnabled: cfg.FXAA,
	}

	window.GLFWWindow().SetKeyCallback(r.keyCallback)
	window.GLFWWindow().SetCursorPosCallback(r.cursorPosCallback)
	window.GLFWWindow().SetScrollCallback(r.scrollCallback)
	window.GLFWWindow().SetFramebufferSizeCallback(r.framebufferSizeCallback)

	if r.chunkShader, err = openglhelper.LoadShaderFromFiles(
		"pkg/render/shaders/chunk.vert", "pkg/render/shaders/chunk.frag"); err != nil {
		return nil, fmt.Errorf("render: load chunk shader: %w", err)
	}
	if r.compositeShader, err = openglhelper.LoadShaderFromFiles(
		"pkg/render/shaders/fullscreen.vert", "pkg/render/shaders/composite.frag"); err != nil {
		return nil, fmt.Errorf("render: load composite shader: %w", err)
	}
	if r.fxaaShader, err = openglhelper.LoadShaderFromFiles(
		"pkg/render/shaders/fullscreen.vert", "pkg/render/shaders/fxaa.frag"); err != nil {
		return nil, fmt.Errorf("render: load fxaa shader: %w", err)
	}

	if err := r.initVoxelRenderSystem(cfg); err != nil {
		return nil, fmt.Errorf("render: init voxel render system: %w", err)
	}
	if err := r.createFramebuffers(cfg.Width, cfg.Height); err != nil {
		return nil, fmt.Errorf("render: create framebuffers: %w", err)
	}

	return r, nil
}

// initVoxelRenderSystem builds the VAO reading straight from the slab's
// persistent-mapped vertex buffer, the shared quad index pattern sized to
// one bucket's worth of faces, and the indirect command buffers the
// per-frame draw lists get uploaded into.
func (r *Renderer) initVoxelRenderSystem(cfg Config) error {
	r.vao = openglhelper.NewVAO()
	r.vao.Bind()

	if r.slab != nil {
		r.slab.VertexBuffer.Bind()
	}
	const vertexStride = 8 // two uint32 words
	gl.VertexAttribIPointer(0, 1, gl.UNSIGNED_INT, vertexStride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribIPointer(1, 1, gl.UNSIGNED_INT, vertexStride, gl.PtrOffset(4))
	gl.EnableVertexAttribArray(1)

	indices := make([]uint32, gpu.BucketFaces*6)
	for i := 0; i < gpu.BucketFaces; i++ {
		base := uint32(i * 4)
		idx := i * 6
		indices[idx+0] = base + 0
		indices[idx+1] = base + 1
		indices[idx+2] = base + 2
		indices[idx+3] = base + 0
		indices[idx+4] = base + 2
		indices[idx+5] = base + 3
	}
	r.ebo = openglhelper.NewBufferObject(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), openglhelper.StaticDraw)

	maxBatches := cfg.MaxDrawBatches
	if maxBatches == 0 {
		maxBatches = 4096
	}
	r.opaqueCommands = make([]openglhelper.DrawElementsIndirectCommand, 0, maxBatches)
	r.transparentCommands = make([]openglhelper.DrawElementsIndirectCommand, 0, maxBatches)
	r.opaqueIndirect = openglhelper.NewIndirectBuffer(maxBatches, openglhelper.DynamicDraw)
	r.transparentIndirect = openglhelper.NewIndirectBuffer(maxBatches, openglhelper.DynamicDraw)

	r.initUVRects()

	return nil
}

// initUVRects uploads the texel-buffer of per-texture UV rects that
// packed vertices' texture_uv_id field indexes into: 4 corners per atlas
// texture id, each a vec2. Atlas packing itself is the embedding
// application's job (see chunk.frag), so every texture id gets the same
// full-quad rect here — the indirection machinery is wired up regardless,
// matching the format a real atlas packer would fill in.
func (r *Renderer) initUVRects() {
	corners := [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	rects := make([]mgl32.Vec2, voxel.TextureAtlasSize*4)
	for tex := 0; tex < voxel.TextureAtlasSize; tex++ {
		copy(rects[tex*4:tex*4+4], corners[:])
	}

	r.uvRectBuffer = openglhelper.NewBufferObject(gl.TEXTURE_BUFFER, len(rects)*8, unsafe.Pointer(&rects[0]), openglhelper.StaticDraw)

	gl.GenTextures(1, &r.uvRectTexture)
	gl.BindTexture(gl.TEXTURE_BUFFER, r.uvRectTexture)
	gl.TexBuffer(gl.TEXTURE_BUFFER, gl.RG32F, r.uvRectBuffer.ID)
	gl.BindTexture(gl.TEXTURE_BUFFER, 0)
}

func (r *Renderer) createFramebuffers(width, height int) error {
	var err error
	r.sceneFB, err = openglhelper.NewSceneFramebuffer(width, height, r.msaaSamples)
	if err != nil {
		return err
	}
	r.oitFB, err = openglhelper.NewOITFramebuffer(width, height, r.msaaSamples, r.sceneFB.Depth)
	if err != nil {
		return err
	}
	r.sceneResolveFB, err = openglhelper.NewResolveFramebuffer(width, height)
	if err != nil {
		return err
	}
	r.accumResolveFB, err = openglhelper.NewResolveFramebuffer(width, height)
	if err != nil {
		return err
	}
	r.revealResolveFB, err = openglhelper.NewResolveFramebuffer(width, height)
	if err != nil {
		return err
	}
	r.compositeFB, err = openglhelper.NewResolveFramebuffer(width, height)
	if err != nil {
		return err
	}
	return nil
}

func (r *Renderer) destroyFramebuffers() {
	for _, fb := range []*openglhelper.Framebuffer{r.sceneFB, r.oitFB, r.sceneResolveFB, r.accumResolveFB, r.revealResolveFB, r.compositeFB} {
		if fb != nil {
			fb.Delete()
		}
	}
}

// ShouldClose returns whether the window should close.
func (r *Renderer) ShouldClose() bool { return r.window.ShouldClose() }

// buildCommands turns a CollectDrawBatches result into indirect draw
// commands, reusing the backing slice across frames to avoid per-frame
// allocation churn.
func buildCommands(dst []openglhelper.DrawElementsIndirectCommand, batches []world.SubChunkDraw) []openglhelper.DrawElementsIndirectCommand {
	dst = dst[:0]
	for _, b := range batches {
		dst = append(dst, openglhelper.DrawElementsIndirectCommand{
			Count:         uint32(b.FaceCount) * 6,
			InstanceCount: 1,
			FirstIndex:    0,
			BaseVertex:    b.BucketID * gpu.VerticesPerBucket,
			BaseInstance:  uint32(b.InstanceID),
		})
	}
	return dst
}

// RenderFrame renders one frame of the given world from the renderer's
// current camera: opaque pass into the MSAA scene target, transparent
// pass into the MSAA weighted-blended-OIT target, resolve both, composite
// them, optionally run FXAA, and present.
func (r *Renderer) RenderFrame(w *world.World) {
	currentTime := glfw.GetTime()
	r.deltaTime = float32(currentTime - r.lastFrameTime)
	r.lastFrameTime = currentTime
	r.totalTime += r.deltaTime

	r.fence.wait()

	r.camera.ProcessKeyboardInput(r.deltaTime, r.window)

	view := r.camera.ViewMatrix()
	proj := r.camera.ProjectionMatrix()
	frustum := NewFrustum(proj.Mul4(view))

	opaqueBatches, transparentBatches := w.CollectDrawBatches(frustum.Test)
	r.opaqueCommands = buildCommands(r.opaqueCommands, opaqueBatches)
	r.transparentCommands = buildCommands(r.transparentCommands, transparentBatches)

	r.vao.Bind()
	r.ebo.Bind()
	if r.slab != nil {
		r.slab.InstanceBuffer.BindBase(1)
	}

	r.renderOpaquePass(view, proj)
	r.renderTransparentPass(view, proj)
	r.resolveAndComposite()
	r.present()

	r.fence.signal()

	r.window.SwapBuffers()
	r.window.PollEvents()
}

func (r *Renderer) renderOpaquePass(view, proj mgl32.Mat4) {
	r.sceneFB.Bind()
	gl.Viewport(0, 0, int32(r.sceneFB.Width), int32(r.sceneFB.Height))
	gl.ClearColor(0.5, 0.7, 1.0, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
	gl.DepthFunc(gl.LESS)
	gl.Disable(gl.BLEND)

	r.chunkShader.Use()
	r.chunkShader.SetMat4("uView", view)
	r.chunkShader.SetMat4("uProjection", proj)
	r.chunkShader.SetVec3("uViewPos", r.camera.Position())
	r.chunkShader.SetVec3("uSkyColor", mgl32.Vec3{0.5, 0.7, 1.0})
	r.chunkShader.SetBool("uTransparentPass", false)
	r.bindUVRects()

	if len(r.opaqueCommands) == 0 {
		return
	}
	r.opaqueIndirect.UpdateIndirectCommands(r.opaqueCommands)
	r.opaqueIndirect.Bind()
	openglhelper.MultiDrawElementsIndirect(gl.TRIANGLES, gl.UNSIGNED_INT, len(r.opaqueCommands))
}

// bindUVRects binds the UV rect texel buffer to texture unit 0 for the
// chunk shader's texture_uv_id indirection lookup.
func (r *Renderer) bindUVRects() {
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_BUFFER, r.uvRectTexture)
	r.chunkShader.SetInt("uUVRects", 0)
}

func (r *Renderer) renderTransparentPass(view, proj mgl32.Mat4) {
	r.oitFB.Bind()
	gl.Viewport(0, 0, int32(r.oitFB.Width), int32(r.oitFB.Height))
	clearAccum := [4]float32{0, 0, 0, 0}
	clearReveal := [4]float32{1, 0, 0, 0}
	gl.ClearBufferfv(gl.COLOR, 0, &clearAccum[0])
	gl.ClearBufferfv(gl.COLOR, 1, &clearReveal[0])

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(false)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunci(0, gl.ONE, gl.ONE)                     // accum: additive
	gl.BlendFunci(1, gl.ZERO, gl.ONE_MINUS_SRC_COLOR)    // reveal: multiplicative

	r.chunkShader.Use()
	r.chunkShader.SetMat4("uView", view)
	r.chunkShader.SetMat4("uProjection", proj)
	r.chunkShader.SetVec3("uViewPos", r.camera.Position())
	r.chunkShader.SetBool("uTransparentPass", true)
	r.bindUVRects()

	if len(r.transparentCommands) > 0 {
		r.transparentIndirect.UpdateIndirectCommands(r.transparentCommands)
		r.transparentIndirect.Bind()
		openglhelper.MultiDrawElementsIndirect(gl.TRIANGLES, gl.UNSIGNED_INT, len(r.transparentCommands))
	}

	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
}

// resolveAndComposite turns the (possibly multisampled) scene + OIT
// targets into single-sample textures and blends them into compositeFB.
func (r *Renderer) resolveAndComposite() {
	r.sceneFB.BlitAttachmentTo(0, r.sceneResolveFB)
	r.oitFB.BlitAttachmentTo(0, r.accumResolveFB)
	r.oitFB.BlitAttachmentTo(1, r.revealResolveFB)

	r.compositeFB.Bind()
	gl.Viewport(0, 0, int32(r.compositeFB.Width), int32(r.compositeFB.Height))
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)

	r.compositeShader.Use()
	r.sceneResolveFB.Color[0].Bind(0)
	r.compositeShader.SetInt("uSceneColor", 0)
	r.accumResolveFB.Color[0].Bind(1)
	r.compositeShader.SetInt("uAccum", 1)
	r.revealResolveFB.Color[0].Bind(2)
	r.compositeShader.SetInt("uReveal", 2)

	gl.BindVertexArray(0)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
}

// present runs FXAA (if enabled) from compositeFB to the default
// framebuffer, or just blits the composite straight through.
func (r *Renderer) present() {
	openglhelper.BindDefaultFramebuffer()
	width, height := r.window.Size()
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.Disable(gl.DEPTH_TEST)

	if !r.fxaaEnabled {
		r.compositeFB.BlitAttachmentTo(0, &openglhelper.Framebuffer{ID: 0, Width: width, Height: height})
		return
	}

	r.fxaaShader.Use()
	r.compositeFB.Color[0].Bind(0)
	r.fxaaShader.SetInt("uScene", 0)
	r.fxaaShader.SetVec2("uTexelSize", mgl32.Vec2{1.0 / float32(r.compositeFB.Width), 1.0 / float32(r.compositeFB.Height)})
	gl.BindVertexArray(0)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
}

// Resize recreates the resolution-dependent framebuffers after a window
// resize.
func (r *Renderer) Resize(width, height int) {
	r.destroyFramebuffers()
	if err := r.createFramebuffers(width, height); err != nil {
		panic(fmt.Sprintf("render: recreate framebuffers: %v", err))
	}
}

// ToggleWireframeMode switches between solid and wireframe rendering.
func (r *Renderer) ToggleWireframeMode() {
	r.isWireframeMode = !r.isWireframeMode
	if r.isWireframeMode {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

// SetCameraPosition sets the camera position in world space.
func (r *Renderer) SetCameraPosition(position mgl32.Vec3) { r.camera.SetPosition(position) }

// Camera exposes the renderer's camera for the host's input/game loop.
func (r *Renderer) Camera() *Camera { return r.camera }

// WindowHandle exposes the underlying GLFW window for host input polling.
func (r *Renderer) WindowHandle() *glfw.Window { return r.window.GLFWWindow() }

// Cleanup releases all GPU resources.
func (r *Renderer) Cleanup() {
	if r.isClosed {
		return
	}
	r.destroyFramebuffers()
	if r.ebo != nil {
		r.ebo.Delete()
	}
	if r.vao != nil {
		r.vao.Delete()
	}
	if r.opaqueIndirect != nil {
		r.opaqueIndirect.Delete()
	}
	if r.transparentIndirect != nil {
		r.transparentIndirect.Delete()
	}
	if r.uvRectTexture != 0 {
		gl.DeleteTextures(1, &r.uvRectTexture)
	}
	if r.uvRectBuffer != nil {
		r.uvRectBuffer.Delete()
	}
	r.chunkShader.Delete()
	r.compositeShader.Delete()
	r.fxaaShader.Delete()
	r.window.Close()
	r.isClosed = true
}

func (r *Renderer) keyCallback(window *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		r.window.GLFWWindow().SetShouldClose(true)
	}
	if key == glfw.KeyC && action == glfw.Press {
		r.window.ToggleMouseCaptured()
		r.camera.ResetMouseState()
	}
	if key == glfw.KeyX && action == glfw.Press {
		r.ToggleWireframeMode()
	}
}

func (r *Renderer) cursorPosCallback(_ *glfw.Window, xpos, ypos float64) {
	if r.window.IsMouseCaptured() {
		r.camera.HandleMouseMovement(xpos, ypos)
	}
}

func (r *Renderer) scrollCallback(_ *glfw.Window, xoffset, yoffset float64) {
	r.camera.HandleMouseScroll(yoffset)
}

func (r *Renderer) framebufferSizeCallback(_ *glfw.Window, width, height int) {
	r.window.OnResize(width, height)
	r.camera.UpdateProjectionMatrix(width, height)
	r.Resize(width, height)
}
