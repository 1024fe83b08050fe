package viewer

import (
	"fmt"

	"cogentcore.org/core/math32"
)

// DefaultCreaseAngleDeg is the fixed threshold for the edge overlay: edges
// whose adjacent faces meet at a sharper angle than this are drawn.
const DefaultCreaseAngleDeg = 30

// Importer is the mesh importer bridge: a pure, synchronous transform from
// parsed mesh records to renderable meshes. It does no geometry computation
// beyond filling in what the record omits (normals, edge overlay).
type Importer struct {
	material    Material
	creaseAngle float32 // degrees
}

func NewImporter() *Importer {
	return &Importer{
		material:    DefaultMaterial,
		creaseAngle: DefaultCreaseAngleDeg,
	}
}

// ImportAll converts every record of one artifact into a MeshSet.
// Zero records yields an empty, valid set.
func (im *Importer) ImportAll(records []MeshRecord) (*MeshSet, error) {
	set := &MeshSet{Bounds: math32.B3Empty()}
	for i, rec := range records {
		mesh, err := im.Import(rec)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		set.Meshes = append(set.Meshes, mesh)
		set.Bounds.ExpandByBox(mesh.Bounds)
	}
	return set, nil
}

// Import converts one record: positions copied verbatim, provided normals
// used else derived, indices attached else triangle soup, material cloned
// per mesh, edge overlay derived at the crease-angle threshold.
func (im *Importer) Import(rec MeshRecord) (*RenderMesh, error) {
	if len(rec.Positions) == 0 || len(rec.Positions)%3 != 0 {
		return nil, fmt.Errorf("positions length %d is not xyz triples", len(rec.Positions))
	}
	vertexCount := uint32(len(rec.Positions) / 3)
	for _, idx := range rec.Indices {
		if idx >= vertexCount {
			return nil, fmt.Errorf("index %d out of range for %d vertices", idx, vertexCount)
		}
	}

	mesh := &RenderMesh{
		Positions: append([]float32(nil), rec.Positions...),
		Material:  im.material.Clone(),
		Bounds:    math32.B3Empty(),
	}

	if len(rec.Indices) > 0 {
		mesh.Indices = append([]uint32(nil), rec.Indices...)
	}

	if len(rec.Normals) == len(rec.Positions) {
		mesh.Normals = append([]float32(nil), rec.Normals...)
	} else {
		mesh.Normals = deriveNormals(mesh.Positions, mesh.Indices)
	}

	for i := 0; i+2 < len(mesh.Positions); i += 3 {
		mesh.Bounds.ExpandByPoint(math32.Vec3(mesh.Positions[i], mesh.Positions[i+1], mesh.Positions[i+2]))
	}

	mesh.Edges = creaseEdges(mesh.Positions, mesh.Indices, im.creaseAngle)

	return mesh, nil
}

func vertexAt(positions []float32, idx uint32) math32.Vector3 {
	i := int(idx) * 3
	return math32.Vec3(positions[i], positions[i+1], positions[i+2])
}

// triangleIndices yields the effective index list: the provided one, or the
// implicit 0..n-1 sequence of a triangle soup.
func triangleIndices(positions []float32, indices []uint32) []uint32 {
	if len(indices) > 0 {
		return indices
	}
	n := len(positions) / 3
	soup := make([]uint32, n)
	for i := range soup {
		soup[i] = uint32(i)
	}
	return soup
}

// deriveNormals computes smooth per-vertex normals by accumulating
// un-normalized face normals (area weighting falls out of the cross
// product) and normalizing at the end.
func deriveNormals(positions []float32, indices []uint32) []float32 {
	idx := triangleIndices(positions, indices)
	accum := make([]math32.Vector3, len(positions)/3)

	for t := 0; t+2 < len(idx); t += 3 {
		a := vertexAt(positions, idx[t])
		b := vertexAt(positions, idx[t+1])
		c := vertexAt(positions, idx[t+2])
		face := b.Sub(a).Cross(c.Sub(a))
		accum[idx[t]] = accum[idx[t]].Add(face)
		accum[idx[t+1]] = accum[idx[t+1]].Add(face)
		accum[idx[t+2]] = accum[idx[t+2]].Add(face)
	}

	normals := make([]float32, len(positions))
	for i, n := range accum {
		if n.LengthSquared() > 0 {
			n = n.Normal()
		}
		normals[i*3] = n.X
		normals[i*3+1] = n.Y
		normals[i*3+2] = n.Z
	}
	return normals
}

type edgeKey struct {
	lo, hi uint32
}

type edgeFaces struct {
	a, b    math32.Vector3 // endpoints
	normals []math32.Vector3
}

// creaseEdges extracts the wireframe overlay: boundary edges, non-manifold
// edges, and edges whose two adjacent faces meet at more than the crease
// angle. A triangle soup has no shared edges, so it renders as a full
// wireframe; that matches how un-merged tessellations display everywhere.
func creaseEdges(positions []float32, indices []uint32, creaseDeg float32) []EdgeSegment {
	idx := triangleIndices(positions, indices)
	edges := make(map[edgeKey]*edgeFaces)

	addEdge := func(i, j uint32, n math32.Vector3) {
		key := edgeKey{lo: i, hi: j}
		if key.lo > key.hi {
			key.lo, key.hi = key.hi, key.lo
		}
		ef, ok := edges[key]
		if !ok {
			ef = &edgeFaces{
				a: vertexAt(positions, key.lo),
				b: vertexAt(positions, key.hi),
			}
			edges[key] = ef
		}
		ef.normals = append(ef.normals, n)
	}

	for t := 0; t+2 < len(idx); t += 3 {
		i0, i1, i2 := idx[t], idx[t+1], idx[t+2]
		n := math32.Normal(vertexAt(positions, i0), vertexAt(positions, i1), vertexAt(positions, i2))
		addEdge(i0, i1, n)
		addEdge(i1, i2, n)
		addEdge(i2, i0, n)
	}

	cosCrease := math32.Cos(math32.DegToRad(creaseDeg))
	var segments []EdgeSegment
	for _, ef := range edges {
		keep := false
		switch len(ef.normals) {
		case 2:
			// Shared edge: keep only if the faces fold past the threshold.
			keep = ef.normals[0].Dot(ef.normals[1]) < cosCrease
		default:
			// Boundary or non-manifold.
			keep = true
		}
		if keep {
			segments = append(segments, EdgeSegment{A: ef.a, B: ef.b})
		}
	}
	return segments
}
