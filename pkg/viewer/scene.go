package viewer

import (
	"context"
	"sync"
	"time"
)

// SceneState is a read-only snapshot of the adapter for display surfaces.
type SceneState struct {
	MeshSets      int        `json:"mesh_sets"` // 0 or 1
	MeshCount     int        `json:"mesh_count"`
	TriangleCount int        `json:"triangle_count"`
	EdgeCount     int        `json:"edge_count"`
	Camera        Camera     `json:"camera"`
	Width         int        `json:"width"`
	Height        int        `json:"height"`
	BoundsMin     [3]float32 `json:"bounds_min"`
	BoundsMax     [3]float32 `json:"bounds_max"`
}

// Adapter owns the scene: at most one attached MeshSet, the camera, and the
// redraw loop. All mutation goes through its operations; the render loop
// only reads.
type Adapter struct {
	mu       sync.Mutex
	engine   Engine
	fetcher  ArtifactFetcher
	parser   MeshParser
	importer *Importer

	current *MeshSet
	camera  Camera
	width   int
	height  int

	// seq tags each load; completions carrying a stale tag are discarded so
	// a reset or newer load is never overwritten by a slow in-flight fetch.
	seq uint64
}

func NewAdapter(engine Engine, fetcher ArtifactFetcher, parser MeshParser) *Adapter {
	a := &Adapter{
		engine:   engine,
		fetcher:  fetcher,
		parser:   parser,
		importer: NewImporter(),
		width:    800,
		height:   600,
	}
	a.camera = DefaultCamera(float32(a.width) / float32(a.height))
	engine.SetViewport(a.width, a.height)
	engine.SetCamera(a.camera)
	return a
}

// LoadArtifact fetches, parses, and attaches a new model. The previous
// MeshSet is disposed only after the new one is fully ready, so a failure
// anywhere leaves the scene exactly as it was, never half-attached.
func (a *Adapter) LoadArtifact(ctx context.Context, locator string) error {
	a.mu.Lock()
	a.seq++
	seq := a.seq
	a.mu.Unlock()

	data, err := a.fetcher.Fetch(ctx, locator)
	if err != nil {
		return err
	}

	records, err := a.parser.Parse(ctx, data)
	if err != nil {
		return err
	}

	set, err := a.importer.ImportAll(records)
	if err != nil {
		return &ParseError{Err: err}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if seq != a.seq {
		// A newer load or a reset happened while this one was in flight.
		return nil
	}

	if a.current != nil {
		a.engine.DisposeMeshSet(a.current)
	}
	if err := a.engine.UploadMeshSet(set); err != nil {
		a.current = nil
		return &ParseError{Err: err}
	}
	a.current = set

	a.camera.FitToBox(set.Bounds)
	a.engine.SetCamera(a.camera)
	return nil
}

// Clear disposes the current model and returns to the empty scene.
// Idempotent when already empty. Also invalidates in-flight loads.
func (a *Adapter) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seq++
	if a.current != nil {
		a.engine.DisposeMeshSet(a.current)
		a.current = nil
	}
	a.camera = DefaultCamera(a.aspectLocked())
	a.engine.SetCamera(a.camera)
}

// ResetView re-frames the current model, or restores the default pose when
// the scene is empty. Never fails.
func (a *Adapter) ResetView() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current != nil {
		a.camera.FitToBox(a.current.Bounds)
	} else {
		a.camera = DefaultCamera(a.aspectLocked())
	}
	a.engine.SetCamera(a.camera)
}

// Resize matches projection and output buffers to the container size.
func (a *Adapter) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.width, a.height = width, height
	a.camera.Aspect = float32(width) / float32(height)
	a.engine.SetViewport(width, height)
	a.engine.SetCamera(a.camera)
}

func (a *Adapter) aspectLocked() float32 {
	return float32(a.width) / float32(a.height)
}

// RunRenderLoop drives the unconditional per-frame redraw until ctx is
// cancelled. Not gated on changes; the engine owns the cost of idle frames.
func (a *Adapter) RunRenderLoop(ctx context.Context, frameRateHz int) {
	if frameRateHz <= 0 {
		frameRateHz = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(frameRateHz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.engine.DrawFrame()
		}
	}
}

// Snapshot reports the current scene state.
func (a *Adapter) Snapshot() SceneState {
	a.mu.Lock()
	defer a.mu.Unlock()

	st := SceneState{
		Camera: a.camera,
		Width:  a.width,
		Height: a.height,
	}
	if a.current != nil {
		st.MeshSets = 1
		st.MeshCount = len(a.current.Meshes)
		st.TriangleCount = a.current.TriangleCount()
		for _, m := range a.current.Meshes {
			st.EdgeCount += len(m.Edges)
		}
		st.BoundsMin = [3]float32{a.current.Bounds.Min.X, a.current.Bounds.Min.Y, a.current.Bounds.Min.Z}
		st.BoundsMax = [3]float32{a.current.Bounds.Max.X, a.current.Bounds.Max.Y, a.current.Bounds.Max.Z}
	}
	return st
}
