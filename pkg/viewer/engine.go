package viewer

import (
	"sync"
)

// Engine is the opaque rendering collaborator. The adapter never draws; it
// only tells the engine which buffers exist, where the camera is, and when
// a frame should happen.
type Engine interface {
	// UploadMeshSet creates the engine-side buffers for a mesh set.
	UploadMeshSet(ms *MeshSet) error

	// DisposeMeshSet releases the engine-side buffers. Must be tolerant of
	// sets it has never seen.
	DisposeMeshSet(ms *MeshSet)

	// SetCamera and SetViewport update projection state.
	SetCamera(cam Camera)
	SetViewport(width, height int)

	// DrawFrame renders whatever is currently uploaded. Called every tick
	// of the redraw loop regardless of whether anything changed.
	DrawFrame()
}

// TrackingEngine is the in-process Engine: it tracks buffer lifetimes and
// frame counts so scene invariants are observable, and leaves pixels to
// whatever front end consumes the scene state.
type TrackingEngine struct {
	mu       sync.Mutex
	live     map[*MeshSet]struct{}
	camera   Camera
	width    int
	height   int
	frames   uint64
	uploads  uint64
	disposes uint64
}

var _ Engine = &TrackingEngine{}

func NewTrackingEngine() *TrackingEngine {
	return &TrackingEngine{
		live: make(map[*MeshSet]struct{}),
	}
}

func (e *TrackingEngine) UploadMeshSet(ms *MeshSet) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.live[ms] = struct{}{}
	e.uploads++
	return nil
}

func (e *TrackingEngine) DisposeMeshSet(ms *MeshSet) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.live[ms]; ok {
		delete(e.live, ms)
		e.disposes++
	}
}

func (e *TrackingEngine) SetCamera(cam Camera) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.camera = cam
}

func (e *TrackingEngine) SetViewport(width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.width, e.height = width, height
}

func (e *TrackingEngine) DrawFrame() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frames++
}

// LiveMeshSets reports how many uploaded sets have not been disposed.
func (e *TrackingEngine) LiveMeshSets() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.live)
}

// Frames reports how many redraw ticks have happened.
func (e *TrackingEngine) Frames() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}
