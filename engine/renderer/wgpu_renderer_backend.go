package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-world/common"
	"github.com/Carmen-Shannon/oxy-world/engine/camera"
	"github.com/Carmen-Shannon/oxy-world/engine/light"
	"github.com/Carmen-Shannon/oxy-world/engine/model"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-world/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
)

const (
	// drawSlotStride is the byte distance between per-draw uniform slots. It matches the WebGPU
	// default minUniformBufferOffsetAlignment.
	drawSlotStride = 256

	// drawUniformSize is the bound size of one slot.
	drawUniformSize = 96

	cameraUniformSize = 80
	sceneUniformSize  = 96

	initialLineCapacity = 64 * 1024
)

// clipDepthCorrection maps OpenGL clip depth [-w, w] to the WebGPU range [0, w].
var clipDepthCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// wgpuRendererBackend draws to a window surface through WebGPU. Every program shares one pipeline
// layout:
//
//	group 0: camera (binding 0) and scene (binding 1) uniforms, written once per frame
//	group 1: the per-draw uniform, addressed with a dynamic offset into a slot buffer
//	group 2: the diffuse texture (binding 0) and its sampler (binding 1)
//
// Per-draw uniforms are staged on the CPU and written in one upload before the frame is submitted.
type wgpuRendererBackend struct {
	mu     *sync.Mutex
	logger zerolog.Logger

	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	msaaTextureView      *wgpu.TextureView
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor
	presentMode          wgpu.PresentMode
	sampleCount          MSAASampleCount

	// Frame state
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView

	// Shared layouts
	sceneLayout    *wgpu.BindGroupLayout
	drawLayout     *wgpu.BindGroupLayout
	textureLayout  *wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout

	sceneProvider bind_group_provider.BindGroupProvider
	drawProvider  bind_group_provider.BindGroupProvider
	waterQuad     bind_group_provider.BindGroupProvider

	meshes   map[MeshID]bind_group_provider.BindGroupProvider
	textures map[TextureID]bind_group_provider.BindGroupProvider
	modules  []*wgpu.ShaderModule

	drawCapacity int
	drawSlots    int
	drawWanted   int
	drawStaging  []byte

	lineBuffer   *wgpu.Buffer
	lineCapacity uint64
	lineOffset   uint64
	retired      []*wgpu.Buffer
}

var _ RendererBackend = &wgpuRendererBackend{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount, drawCapacity int, logger zerolog.Logger) *wgpuRendererBackend {
	runtime.LockOSThread()
	b := &wgpuRendererBackend{
		mu:           &sync.Mutex{},
		logger:       logger,
		instance:     wgpu.CreateInstance(nil),
		presentMode:  wgpu.PresentModeImmediate,
		sampleCount:  sampleCount,
		meshes:       make(map[MeshID]bind_group_provider.BindGroupProvider),
		textures:     make(map[TextureID]bind_group_provider.BindGroupProvider),
		drawCapacity: drawCapacity,
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		panic(err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	b.device = d
	b.queue = d.GetQueue()

	if err := b.createSharedResources(); err != nil {
		panic(fmt.Sprintf("renderer: shared GPU resources: %v", err))
	}
	return b
}

// createSharedResources builds the layouts, uniform blocks, white texture and water quad every
// program and frame relies on.
func (b *wgpuRendererBackend) createSharedResources() error {
	var err error
	uniformStages := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment

	b.sceneLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Scene Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: uniformStages, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform, MinBindingSize: cameraUniformSize}},
			{Binding: 1, Visibility: uniformStages, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform, MinBindingSize: sceneUniformSize}},
		},
	})
	if err != nil {
		return err
	}
	b.drawLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Draw Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: uniformStages, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform, HasDynamicOffset: true, MinBindingSize: drawUniformSize}},
		},
	})
	if err != nil {
		return err
	}
	b.textureLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Texture Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageFragment, Texture: wgpu.TextureBindingLayout{SampleType: wgpu.TextureSampleTypeFloat, ViewDimension: wgpu.TextureViewDimension2D}},
			{Binding: 1, Visibility: wgpu.ShaderStageFragment, Sampler: wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering}},
		},
	})
	if err != nil {
		return err
	}
	b.pipelineLayout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "World Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.sceneLayout, b.drawLayout, b.textureLayout},
	})
	if err != nil {
		return err
	}

	b.sceneProvider = bind_group_provider.NewBindGroupProvider("Scene")
	camBuf, err := b.createBuffer("Camera Uniform", cameraUniformSize, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	sceneBuf, err := b.createBuffer("Scene Uniform", sceneUniformSize, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	b.sceneProvider.SetBuffer(0, camBuf)
	b.sceneProvider.SetBuffer(1, sceneBuf)
	sceneGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Scene Bind Group",
		Layout: b.sceneLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: camBuf, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: sceneBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return err
	}
	b.sceneProvider.SetBindGroup(sceneGroup)

	if err := b.createDrawSlots(b.drawCapacity); err != nil {
		return err
	}
	if err := b.createTexture(NoTexture, "White", common.TextureStagingData{Pixels: []byte{255, 255, 255, 255}, Width: 1, Height: 1}); err != nil {
		return err
	}

	quad := model.NewQuadChunk()
	b.waterQuad = bind_group_provider.NewBindGroupProvider("Water Quad")
	return b.fillMesh(b.waterQuad, model.MarshalVertices(quad.Vertices), model.MarshalIndices(quad.Indices), uint32(len(quad.Indices)))
}

func (b *wgpuRendererBackend) createBuffer(label string, size uint64, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	return b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
}

// createDrawSlots (re)creates the per-draw uniform buffer with room for capacity draws.
func (b *wgpuRendererBackend) createDrawSlots(capacity int) error {
	if b.drawProvider != nil {
		b.drawProvider.Release()
	}
	b.drawProvider = bind_group_provider.NewBindGroupProvider("Draw Slots")
	buf, err := b.createBuffer("Draw Uniform Slots", uint64(capacity*drawSlotStride), wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	b.drawProvider.SetBuffer(0, buf)
	group, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Draw Bind Group",
		Layout: b.drawLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buf, Offset: 0, Size: drawUniformSize},
		},
	})
	if err != nil {
		return err
	}
	b.drawProvider.SetBindGroup(group)
	b.drawCapacity = capacity
	b.drawStaging = make([]byte, capacity*drawSlotStride)
	return nil
}

func (b *wgpuRendererBackend) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1
	size := wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}

	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if msaaEnabled {
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "MSAA Texture",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		b.msaaTextureView, err = msaaTexture.CreateView(nil)
		if err != nil {
			panic(err)
		}
	}

	if b.depthTextureView != nil {
		b.depthTextureView.Release()
	}
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	b.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	// With MSAA on, View is the MSAA texture and the swapchain view is set as ResolveTarget per
	// frame. With MSAA off, View is set per frame.
	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    b.msaaTextureView,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: storeOp,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

func (b *wgpuRendererBackend) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	default:
		b.presentMode = wgpu.PresentModeImmediate
	}
}

func (b *wgpuRendererBackend) RegisterProgram(name Program, p pipeline.Pipeline) error {
	vertexShader := p.Shader(shader.ShaderTypeVertex)
	fragmentShader := p.Shader(shader.ShaderTypeFragment)
	if vertexShader == nil || fragmentShader == nil {
		return errors.New("both vertex and fragment shaders must be set to create a render pipeline")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.surfaceFormat == nil {
		return errors.New("surface must be configured before registering programs")
	}

	vs, err := b.device.CreateShaderModule(vertexShader.Module())
	if err != nil {
		return fmt.Errorf("vertex module: %w", err)
	}
	fs, err := b.device.CreateShaderModule(fragmentShader.Module())
	if err != nil {
		vs.Release()
		return fmt.Errorf("fragment module: %w", err)
	}
	b.modules = append(b.modules, vs, fs)

	target := wgpu.ColorTargetState{
		Format:    *b.surfaceFormat,
		WriteMask: p.WriteMask(),
	}
	if p.BlendEnabled() {
		target.Blend = p.BlendState()
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  string(name) + " Render Pipeline",
		Layout: b.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexShader.EntryPoint(),
			Buffers:    vertexShader.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentShader.EntryPoint(),
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: p.DepthWriteEnabled(),
			DepthCompare:      p.DepthCompare(),
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
	})
	if err != nil {
		return err
	}
	p.SetRenderPipeline(created)
	return nil
}

func (b *wgpuRendererBackend) UploadMesh(id MeshID, label string, vertices, indices []byte, indexCount uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	provider := bind_group_provider.NewBindGroupProvider(label)
	if err := b.fillMesh(provider, vertices, indices, indexCount); err != nil {
		provider.Release()
		return err
	}
	if old, ok := b.meshes[id]; ok {
		old.Release()
	}
	b.meshes[id] = provider
	return nil
}

// fillMesh creates and fills the vertex and index buffers of a mesh provider.
func (b *wgpuRendererBackend) fillMesh(provider bind_group_provider.BindGroupProvider, vertices, indices []byte, indexCount uint32) error {
	vb, err := b.createBuffer(provider.Label()+" Vertex Buffer", uint64(len(vertices)), wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	ib, err := b.createBuffer(provider.Label()+" Index Buffer", uint64(len(indices)), wgpu.BufferUsageIndex|wgpu.BufferUsageCopyDst)
	if err != nil {
		vb.Release()
		return err
	}
	b.queue.WriteBuffer(vb, 0, vertices)
	b.queue.WriteBuffer(ib, 0, indices)
	provider.SetMesh(vb, ib, indexCount)
	return nil
}

func (b *wgpuRendererBackend) UploadTexture(id TextureID, label string, data common.TextureStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.createTexture(id, label, data)
}

// createTexture uploads pixels and builds the texture's bind group. Must be called with mu held.
func (b *wgpuRendererBackend) createTexture(id TextureID, label string, data common.TextureStagingData) error {
	extent := wgpu.Extent3D{Width: data.Width, Height: data.Height, DepthOrArrayLayers: 1}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label + " Texture",
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          extent,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return err
	}
	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  data.Width * 4,
			RowsPerImage: data.Height,
		},
		&extent,
	)
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return err
	}

	sampling := common.SamplerStagingData{}
	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label + " Sampler",
		AddressModeU:  common.Coalesce(sampling.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(sampling.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(sampling.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(sampling.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(sampling.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(sampling.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   common.Coalesce(sampling.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(sampling.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(sampling.MaxAnisotropy, 1),
	})
	if err != nil {
		view.Release()
		tex.Release()
		return err
	}

	provider := bind_group_provider.NewBindGroupProvider(label)
	provider.SetTexture(0, tex, view)
	provider.SetSampler(1, samp)
	group, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label + " Bind Group",
		Layout: b.textureLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: samp},
		},
	})
	if err != nil {
		provider.Release()
		return err
	}
	provider.SetBindGroup(group)

	if old, ok := b.textures[id]; ok {
		old.Release()
	}
	b.textures[id] = provider
	return nil
}

func (b *wgpuRendererBackend) BeginFrame(clear common.Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	attachment := &b.renderPassDescriptor.ColorAttachments[0]
	if b.sampleCount > 1 {
		attachment.ResolveTarget = view
	} else {
		attachment.View = view
	}
	attachment.ClearValue = wgpu.Color{R: float64(clear.R), G: float64(clear.G), B: float64(clear.B), A: float64(clear.A)}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)
	pass.SetBindGroup(0, b.sceneProvider.BindGroup(), nil)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view
	b.drawSlots = 0
	b.drawWanted = 0
	b.lineOffset = 0
	return nil
}

func (b *wgpuRendererBackend) SetSceneUniforms(cam camera.GPUCameraUniform, scene light.GPUSceneUniform) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cam.ViewProj = clipDepthCorrection.Mul4(mgl32.Mat4(cam.ViewProj))
	b.queue.WriteBuffer(b.sceneProvider.Buffer(0), 0, cam.Marshal())
	b.queue.WriteBuffer(b.sceneProvider.Buffer(1), 0, scene.Marshal())
}

func (b *wgpuRendererBackend) UseProgram(_ Program, p pipeline.Pipeline) {
	if p == nil || p.RenderPipeline() == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.framePass == nil {
		return
	}
	b.framePass.SetPipeline(p.RenderPipeline())
}

func (b *wgpuRendererBackend) BindMesh(id MeshID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	mesh, ok := b.meshes[id]
	if !ok || b.framePass == nil {
		return
	}
	b.bindMesh(mesh)
}

// bindMesh sets the vertex and index buffers of a mesh provider. Must be called with mu held.
func (b *wgpuRendererBackend) bindMesh(mesh bind_group_provider.BindGroupProvider) {
	b.framePass.SetVertexBuffer(0, mesh.VertexBuffer(), 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(mesh.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
}

func (b *wgpuRendererBackend) BindTexture(id TextureID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	tex, ok := b.textures[id]
	if !ok {
		tex = b.textures[NoTexture]
	}
	if b.framePass == nil {
		return
	}
	b.framePass.SetBindGroup(2, tex.BindGroup(), nil)
}

// bindDrawSlot stages a draw uniform and binds its slot. Must be called with mu held.
//
// Returns:
//   - bool: false when the frame ran out of slots and the draw must be skipped
func (b *wgpuRendererBackend) bindDrawSlot(u material.GPUDrawUniform) bool {
	b.drawWanted++
	if b.framePass == nil || b.drawSlots >= b.drawCapacity {
		return false
	}
	offset := b.drawSlots * drawSlotStride
	copy(b.drawStaging[offset:offset+drawUniformSize], u.Marshal())
	b.framePass.SetBindGroup(1, b.drawProvider.BindGroup(), []uint32{uint32(offset)})
	b.drawSlots++
	return true
}

func (b *wgpuRendererBackend) DrawIndexed(cmd DrawCommand) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.bindDrawSlot(cmd.Uniform) {
		return
	}
	b.framePass.DrawIndexed(cmd.Count, 1, cmd.Start, 0, 0)
}

func (b *wgpuRendererBackend) DrawWater(cmd DrawCommand) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.bindDrawSlot(cmd.Uniform) {
		return
	}
	b.bindMesh(b.waterQuad)
	b.framePass.DrawIndexed(b.waterQuad.IndexCount(), 1, 0, 0, 0)
}

func (b *wgpuRendererBackend) DrawSky(cmd DrawCommand) {
	b.DrawIndexed(cmd)
}

func (b *wgpuRendererBackend) DrawLines(lines []LineVertex) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data := MarshalLineVertices(lines)
	if err := b.reserveLines(uint64(len(data))); err != nil {
		b.logger.Warn().Err(err).Msg("line buffer allocation failed")
		return
	}
	if !b.bindDrawSlot(material.NewGPUDrawUniform(mgl32.Ident4(), common.White, 1, 1)) {
		return
	}
	b.queue.WriteBuffer(b.lineBuffer, b.lineOffset, data)
	b.framePass.SetVertexBuffer(0, b.lineBuffer, b.lineOffset, uint64(len(data)))
	b.framePass.Draw(uint32(len(lines)), 1, 0, 0)
	b.lineOffset += uint64(len(data))
}

// reserveLines makes room for n more bytes of line vertices in this frame. A replaced buffer is
// kept alive until the frame is submitted. Must be called with mu held.
func (b *wgpuRendererBackend) reserveLines(n uint64) error {
	if b.lineBuffer != nil && b.lineOffset+n <= b.lineCapacity {
		return nil
	}
	capacity := max(b.lineCapacity*2, uint64(initialLineCapacity))
	for capacity < n {
		capacity *= 2
	}
	buf, err := b.createBuffer("Line Vertex Buffer", capacity, wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	if b.lineBuffer != nil {
		b.retired = append(b.retired, b.lineBuffer)
	}
	b.lineBuffer = buf
	b.lineCapacity = capacity
	b.lineOffset = 0
	return nil
}

func (b *wgpuRendererBackend) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.framePass == nil {
		return
	}

	b.framePass.End()
	if b.drawSlots > 0 {
		b.queue.WriteBuffer(b.drawProvider.Buffer(0), 0, b.drawStaging[:b.drawSlots*drawSlotStride])
	}

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.logger.Error().Err(err).Msg("command encoder finish failed")
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.framePass = nil
		b.frameSurface = nil
		b.frameView = nil
		return
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
	b.framePass = nil

	for _, buf := range b.retired {
		buf.Release()
	}
	b.retired = nil

	if b.drawWanted > b.drawCapacity {
		capacity := b.drawCapacity
		for capacity < b.drawWanted {
			capacity *= 2
		}
		b.logger.Warn().Int("wanted", b.drawWanted).Int("capacity", capacity).Msg("draw slots exhausted, growing")
		if err := b.createDrawSlots(capacity); err != nil {
			b.logger.Error().Err(err).Msg("draw slot growth failed")
		}
	}
}

func (b *wgpuRendererBackend) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}
	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackend) Commands() []Command {
	return nil
}

func (b *wgpuRendererBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, m := range b.meshes {
		m.Release()
		delete(b.meshes, id)
	}
	for id, t := range b.textures {
		t.Release()
		delete(b.textures, id)
	}
	for _, m := range b.modules {
		m.Release()
	}
	b.modules = nil
	for _, p := range []bind_group_provider.BindGroupProvider{b.sceneProvider, b.drawProvider, b.waterQuad} {
		if p != nil {
			p.Release()
		}
	}
	if b.lineBuffer != nil {
		b.lineBuffer.Release()
		b.lineBuffer = nil
	}
	if b.pipelineLayout != nil {
		b.pipelineLayout.Release()
	}
	for _, l := range []*wgpu.BindGroupLayout{b.sceneLayout, b.drawLayout, b.textureLayout} {
		if l != nil {
			l.Release()
		}
	}
}
