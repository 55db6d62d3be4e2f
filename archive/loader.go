package archive

import (
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/mogaika/animplayer/anm"
	"github.com/mogaika/animplayer/mesh"
	"github.com/mogaika/animplayer/skeleton"
	"github.com/mogaika/animplayer/utils"
)

// FileLoader resolves resource names against a base directory and decodes
// them. It implements player.Loader. Trace may be nil; when set, decode
// details are written to it.
type FileLoader struct {
	Dir   string
	Trace *utils.Logger
}

func (l *FileLoader) read(resource string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(l.Dir, resource))
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read resource %q", resource)
	}
	return data, nil
}

func (l *FileLoader) Skeleton(resource string) (*skeleton.Skeleton, error) {
	data, err := l.read(resource)
	if err != nil {
		return nil, err
	}
	s, err := DecodeSkeleton(data, l.Trace)
	if err != nil {
		log.Printf("[archive] Failed to load skeleton instance from file %q: %v", resource, err)
		return nil, err
	}
	return s, nil
}

func (l *FileLoader) Animation(resource string) (*anm.Clip, error) {
	data, err := l.read(resource)
	if err != nil {
		return nil, err
	}
	clip, err := DecodeAnimation(data, l.Trace)
	if err != nil {
		log.Printf("[archive] Failed to load animation instance from file %q: %v", resource, err)
		return nil, err
	}
	return clip, nil
}

func (l *FileLoader) Meshes(resource string) ([]*mesh.Mesh, error) {
	data, err := l.read(resource)
	if err != nil {
		return nil, err
	}
	meshes, err := DecodeMeshes(data, l.Trace)
	if err != nil {
		log.Printf("[archive] Failed to load mesh instances from file %q: %v", resource, err)
		return nil, err
	}
	return meshes, nil
}
