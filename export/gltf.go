package export

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/animplayer/mesh"
	"github.com/mogaika/animplayer/render"
)

// GLTFFromTarget converts the current contents of a geometry target into a
// glTF document. Geometry is exported exactly as the pipeline wrote it, so a
// skinned target yields a posed snapshot while a static target yields the
// bind shape. Meshes supplies per-geometry names; it may be nil or shorter
// than the target.
func GLTFFromTarget(target *render.BasicTarget, meshes []*mesh.Mesh) (*gltf.Document, error) {
	doc := gltf.NewDocument()

	doc.Materials = append(doc.Materials, &gltf.Material{
		Name:        "default",
		DoubleSided: true,
	})

	for iGeom, geom := range target.Geometries {
		name := fmt.Sprintf("geometry_%d", iGeom)
		if iGeom < len(meshes) && meshes[iGeom].Name != "" {
			name = meshes[iGeom].Name
		}

		gltfMesh, err := exportGeometry(doc, geom, name)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to export geometry %q", name)
		}

		doc.Meshes = append(doc.Meshes, gltfMesh)
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)))
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: name,
			Mesh: gltf.Index(uint32(len(doc.Meshes) - 1)),
		})
	}

	return doc, nil
}

func exportGeometry(doc *gltf.Document, geom *render.BasicGeometry, name string) (*gltf.Mesh, error) {
	verticesCount := geom.VertexCount()
	if verticesCount == 0 {
		return nil, errors.Errorf("Geometry has no vertices")
	}
	if geom.IndexCount() == 0 {
		return nil, errors.Errorf("Geometry has no indices")
	}

	attributes := make(map[string]uint32)

	{
		positions := make([][3]float32, verticesCount)
		for iVertex, p := range geom.Positions() {
			positions[iVertex] = p
		}
		attributes["POSITION"] = modeler.WritePosition(doc, positions)
	}

	{
		normals := make([][3]float32, verticesCount)
		for iVertex, normal := range geom.Normals() {
			if normal.Len() > 0.5 {
				normal = normal.Normalize()
			}
			normals[iVertex] = normal
		}
		attributes["NORMAL"] = modeler.WriteNormal(doc, normals)
	}

	{
		uvs := make([][2]float32, verticesCount)
		for iVertex, uv := range geom.TexCoords() {
			uvs[iVertex] = uv
		}
		attributes["TEXCOORD_0"] = modeler.WriteTextureCoord(doc, uvs)
	}

	{
		colors := make([][4]uint8, verticesCount)
		copy(colors, geom.Colors())
		attributes["COLOR_0"] = modeler.WriteColor(doc, colors)
	}

	var indicesAccessor uint32
	{
		indices := make([]uint32, geom.IndexCount())
		for i, index := range geom.Indices() {
			indices[i] = uint32(index)
		}
		indicesAccessor = modeler.WriteIndices(doc, indices)
	}

	return &gltf.Mesh{
		Name: name,
		Primitives: []*gltf.Primitive{
			{
				Indices:    &indicesAccessor,
				Attributes: attributes,
				Material:   gltf.Index(0),
			},
		},
	}, nil
}

// WriteBinary encodes the document in the binary glb container.
func WriteBinary(w io.Writer, doc *gltf.Document) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return encoder.Encode(doc)
}
