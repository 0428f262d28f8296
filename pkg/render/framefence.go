package render

import "github.com/go-gl/gl/v4.6-core/gl"

// GLSync is a type alias for OpenGL sync objects.
type GLSync = uintptr

// frameFence is the single end-of-frame GPU fence spec.md §5 calls for:
// "the render thread issues a fence at end-of-frame and waits on it early
// next frame — this is the single cross-thread synchronization with the
// GPU." Adapted from the teacher's per-region fence pool down to one
// fence, since bucket/instance double-buffering in pkg/gpu already
// handles write/read separation; this fence only throttles the CPU from
// racing more than one frame ahead of the GPU.
type frameFence struct {
	sync GLSync
}

func (f *frameFence) wait() {
	if f.sync == 0 {
		return
	}
	const timeoutNanos uint64 = 1_000_000_000 // 1 second; a stuck driver is a bigger problem than this wait
	gl.ClientWaitSync(f.sync, gl.SYNC_FLUSH_COMMANDS_BIT, timeoutNanos)
	gl.DeleteSync(f.sync)
	f.sync = 0
}

func (f *frameFence) signal() {
	if f.sync != 0 {
		gl.DeleteSync(f.sync)
	}
	f.sync = gl.FenceSync(gl.SYNC_GPU_COMMANDS_COMPLETE, 0)
}
