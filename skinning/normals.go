package skinning

import (
	"github.com/go-gl/mathgl/mgl32"
)

// SmoothNormals regenerates per-vertex normals geometrically from final
// vertex positions and triangle topology: face normals are accumulated
// area-weighted onto every referenced vertex, then normalized. It is a full
// recompute; out is overwritten entirely.
func SmoothNormals(positions []mgl32.Vec3, indices []uint16, out []mgl32.Vec3) {
	for i := range out {
		out[i] = mgl32.Vec3{}
	}

	for t := 0; t+2 < len(indices); t += 3 {
		ia, ib, ic := indices[t], indices[t+1], indices[t+2]
		if int(ia) >= len(positions) || int(ib) >= len(positions) || int(ic) >= len(positions) {
			continue
		}
		a, b, c := positions[ia], positions[ib], positions[ic]
		// Cross product length is twice the face area, which gives the
		// area weighting for free.
		face := b.Sub(a).Cross(c.Sub(a))
		out[ia] = out[ia].Add(face)
		out[ib] = out[ib].Add(face)
		out[ic] = out[ic].Add(face)
	}

	for i := range out {
		if length := out[i].Len(); length > 1e-12 {
			out[i] = out[i].Mul(1.0 / length)
		} else {
			// Degenerate or unreferenced vertex, point it somewhere valid.
			out[i] = mgl32.Vec3{0.0, 0.0, 1.0}
		}
	}
}
