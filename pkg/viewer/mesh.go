// Package viewer holds the display-side core: the mesh importer bridge that
// turns externally-parsed geometry buffers into renderable meshes, and the
// renderer adapter that owns the scene, camera, and redraw loop. Actual
// drawing and STEP parsing are opaque collaborators behind the Engine and
// MeshParser interfaces.
package viewer

import (
	"cogentcore.org/core/math32"
)

// MeshRecord is one externally-parsed solid: flat position data, optional
// normals, optional triangle indices. An artifact may decompose into any
// number of records.
type MeshRecord struct {
	Positions []float32 `json:"positions"` // xyz triples
	Normals   []float32 `json:"normals,omitempty"`
	Indices   []uint32  `json:"indices,omitempty"`
}

// Material is the surface appearance attached to a renderable mesh. Every
// mesh gets its own clone of the shared template so later per-mesh
// recoloring cannot cross-contaminate.
type Material struct {
	Color     [4]float32 `json:"color"` // RGBA, 0..1
	Metallic  float32    `json:"metallic"`
	Roughness float32    `json:"roughness"`
}

func (m Material) Clone() *Material {
	c := m
	return &c
}

// DefaultMaterial is the shared template for imported solids.
var DefaultMaterial = Material{
	Color:     [4]float32{0.55, 0.62, 0.72, 1},
	Metallic:  0.2,
	Roughness: 0.6,
}

// EdgeSegment is one line of the wireframe overlay.
type EdgeSegment struct {
	A math32.Vector3
	B math32.Vector3
}

// RenderMesh is one display-ready mesh produced by the importer bridge.
type RenderMesh struct {
	Positions []float32
	Normals   []float32
	Indices   []uint32
	Material  *Material
	Edges     []EdgeSegment
	Bounds    math32.Box3
}

// TriangleCount reports triangles whether indexed or soup.
func (m *RenderMesh) TriangleCount() int {
	if len(m.Indices) > 0 {
		return len(m.Indices) / 3
	}
	return len(m.Positions) / 9
}

// MeshSet is all renderable geometry derived from one artifact. At most one
// MeshSet is attached to the scene at a time.
type MeshSet struct {
	Meshes []*RenderMesh
	Bounds math32.Box3
}

func (ms *MeshSet) TriangleCount() int {
	total := 0
	for _, m := range ms.Meshes {
		total += m.TriangleCount()
	}
	return total
}
