package main

import (
	"flag"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/animplayer/anm"
	"github.com/mogaika/animplayer/archive"
	"github.com/mogaika/animplayer/mesh"
	"github.com/mogaika/animplayer/skeleton"
	"github.com/mogaika/animplayer/utils"
)

// mkassets writes a small three joint chain with a ribbon mesh and two clips.
// Useful as viewer input and as a round trip check for the archive encoders.

const jointCount = 3

func makeSkeleton() *skeleton.Skeleton {
	joints := make([]skeleton.Joint, jointCount)
	names := []string{"root", "middle", "tip"}
	for i := range joints {
		bind := skeleton.IdentityTransform()
		if i > 0 {
			bind.Translation = mgl32.Vec3{0, 1, 0}
		}
		parent := int16(i - 1)
		if i == 0 {
			parent = skeleton.JOINT_PARENT_NONE
		}
		joints[i] = skeleton.Joint{Name: names[i], Parent: parent, Bind: bind}
	}

	s, err := skeleton.New(joints)
	if err != nil {
		panic(err)
	}
	return s
}

func makeMesh() *mesh.Mesh {
	// Two-quad ribbon along the chain, one vertex ring per joint.
	part := mesh.Part{
		Influences: 2,
	}
	for ring := 0; ring < jointCount; ring++ {
		y := float32(ring)
		for _, x := range []float32{-0.5, 0.5} {
			part.Positions = append(part.Positions, x, y, 0)
			part.Normals = append(part.Normals, 0, 0, 1)
			part.Tangents = append(part.Tangents, 1, 0, 0, 1)
			part.UVs = append(part.UVs, x+0.5, y/float32(jointCount-1))

			next := ring + 1
			if next >= jointCount {
				next = jointCount - 1
			}
			part.JointIndices = append(part.JointIndices, uint16(ring), uint16(next))
			part.JointWeights = append(part.JointWeights, 1.0)
		}
	}

	m := &mesh.Mesh{
		Name: "ribbon",
		TriangleIndices: []uint16{
			0, 1, 3, 0, 3, 2,
			2, 3, 5, 2, 5, 4,
		},
		JointRemap: []uint16{0, 1, 2},
		Parts:      []mesh.Part{part},
	}
	for i := 0; i < jointCount; i++ {
		m.InverseBindPoses = append(m.InverseBindPoses,
			mgl32.Translate3D(0, -float32(i), 0))
	}

	if err := m.Validate(); err != nil {
		panic(err)
	}
	return m
}

func makeClip(name string, duration, amplitude float32) *anm.Clip {
	clip := &anm.Clip{
		Name:     name,
		Duration: duration,
		Tracks:   make([]anm.JointTrack, jointCount),
	}

	for i := range clip.Tracks {
		t := &clip.Tracks[i]

		translation := mgl32.Vec3{}
		if i > 0 {
			translation = mgl32.Vec3{0, 1, 0}
		}
		t.Translations = []anm.Vec3Key{{Ratio: 0, Value: translation}}
		t.Scales = []anm.Vec3Key{{Ratio: 0, Value: mgl32.Vec3{1, 1, 1}}}

		if i == 0 {
			t.Rotations = []anm.QuatKey{{Ratio: 0, Value: mgl32.QuatIdent()}}
			continue
		}

		// Z-axis sway, one full cycle over the clip.
		const steps = 8
		for k := 0; k <= steps; k++ {
			ratio := float32(k) / steps
			angle := amplitude * float32(math.Sin(2*math.Pi*float64(ratio)))
			t.Rotations = append(t.Rotations, anm.QuatKey{
				Ratio: ratio,
				Value: utils.EulerToQuat(mgl32.Vec3{0, 0, angle}),
			})
		}
	}

	if err := clip.Validate(); err != nil {
		panic(err)
	}
	return clip
}

func writeAsset(dir, name string, data []byte) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0666); err != nil {
		panic(err)
	}
	log.Printf("[mkassets] Wrote %s (%d bytes)", path, len(data))
}

func main() {
	var outDir string
	flag.StringVar(&outDir, "out", ".", "Output directory")
	flag.Parse()

	if err := os.MkdirAll(outDir, 0777); err != nil {
		panic(err)
	}

	writeAsset(outDir, "skeleton.skl", archive.EncodeSkeleton(makeSkeleton()))
	writeAsset(outDir, "mesh.msh", archive.EncodeMeshes([]*mesh.Mesh{makeMesh()}))
	writeAsset(outDir, "wave.anm", archive.EncodeAnimation(makeClip("wave", 2.0, 0.9)))
	writeAsset(outDir, "idle.anm", archive.EncodeAnimation(makeClip("idle", 4.0, 0.15)))
}
