package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/leterax/voxelcore/pkg/gpu"
	"github.com/leterax/voxelcore/pkg/render"
	"github.com/leterax/voxelcore/pkg/voxel"
	"github.com/leterax/voxelcore/pkg/world"
)

func init() {
	// GLFW/OpenGL calls must all come from the thread that created the context.
	runtime.LockOSThread()
}

func main() {
	radius := flag.Int("radius", 8, "chunk load radius, 8-30")
	seed := flag.Int64("seed", 1, "world generation seed")
	worldDir := flag.String("worlddir", "world", "directory chunk deltas are read from/written to")
	workers := flag.Int("workers", 0, "job system worker count (0 = auto)")
	msaa := flag.Int("msaa", 4, "MSAA sample count (1 disables multisampling)")
	fxaa := flag.Bool("fxaa", true, "run an FXAA pass after MSAA resolve")
	width := flag.Int("width", 1280, "window width")
	height := flag.Int("height", 720, "window height")
	flag.Parse()

	chunkCapacity := world.ChunkCapacity(*radius)
	// Every resident sub-chunk can hold up to one opaque and one
	// transparent bucket, double-buffered, plus one overflow bucket per
	// kind per generation for sub-chunks too dense for a single bucket.
	bucketCapacity := chunkCapacity * voxel.SubChunkCount * 2 * 2 * 2
	instanceCapacity := chunkCapacity * voxel.SubChunkCount

	slab, err := gpu.New(bucketCapacity, instanceCapacity)
	if err != nil {
		log.Fatalf("voxels: allocate gpu slab: %v", err)
	}
	defer slab.Cleanup()

	w, err := world.Init(world.Config{
		Radius:   *radius,
		Seed:     *seed,
		WorldDir: *worldDir,
		Workers:  *workers,
		Slab:     slab,
	})
	if err != nil {
		log.Fatalf("voxels: init world: %v", err)
	}
	defer func() {
		if err := w.Shutdown(); err != nil {
			log.Printf("voxels: shutdown: %v", err)
		}
	}()

	renderer, err := render.NewRenderer(render.Config{
		Width:          *width,
		Height:         *height,
		Title:          "voxelcore",
		MSAASamples:    *msaa,
		FXAA:           *fxaa,
		Slab:           slab,
		MaxDrawBatches: bucketCapacity,
	})
	if err != nil {
		log.Fatalf("voxels: init renderer: %v", err)
	}
	defer renderer.Cleanup()

	renderer.SetCameraPosition(mgl32.Vec3{0, 80, 0})

	fmt.Printf("voxelcore: radius=%d seed=%d msaa=%d fxaa=%v\n", *radius, *seed, *msaa, *fxaa)

	for !renderer.ShouldClose() {
		cam := renderer.Camera()
		pos := cam.Position()
		w.Tick(float64(pos.X()), float64(pos.Z()))

		if renderer.WindowHandle().GetKey(glfw.KeyF5) == glfw.Press {
			if err := w.SaveAll(); err != nil {
				log.Printf("voxels: save: %v", err)
			}
		}

		renderer.RenderFrame(w)
	}
}
