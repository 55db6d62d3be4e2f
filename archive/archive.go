package archive

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/animplayer/utils"
)

// Archives are little-endian binary blobs produced by the content pipeline:
// a magic+version header followed by fixed-layout records. Name fields are
// charmap-encoded, zero-padded and NAME_FIELD_SIZE wide.
const (
	SKELETON_MAGIC  = 0x304c4b53 // "SKL0"
	ANIMATION_MAGIC = 0x304d4e41 // "ANM0"
	MESH_MAGIC      = 0x3048534d // "MSH0"

	ARCHIVE_VERSION = 1

	NAME_FIELD_SIZE = 0x18

	// Decode-time sanity cap on any stored count, to fail fast on a
	// corrupted size field instead of attempting a huge allocation.
	MAX_ELEMENT_COUNT = 0x100000
)

type reader struct {
	buf []byte
	pos int
	err error
}

func newReader(b []byte) *reader { return &reader{buf: b} }

func (r *reader) bytes(count int) []byte {
	if r.err != nil {
		return make([]byte, count)
	}
	if count < 0 || r.pos+count > len(r.buf) {
		r.err = errors.Errorf("Unexpected end of archive at 0x%x (want 0x%x bytes of 0x%x)",
			r.pos, count, len(r.buf))
		return make([]byte, count)
	}
	b := r.buf[r.pos : r.pos+count]
	r.pos += count
	return b
}

func (r *reader) u16() uint16 { return binary.LittleEndian.Uint16(r.bytes(2)) }
func (r *reader) i16() int16  { return int16(r.u16()) }
func (r *reader) u32() uint32 { return binary.LittleEndian.Uint32(r.bytes(4)) }
func (r *reader) f32() float32 {
	return math.Float32frombits(r.u32())
}

// count reads a size field and validates it against the sanity cap.
func (r *reader) count(what string) int {
	v := r.u32()
	if r.err == nil && v > MAX_ELEMENT_COUNT {
		r.err = errors.Errorf("%s count 0x%x exceeds sanity cap", what, v)
	}
	return int(v)
}

func (r *reader) name() string {
	return utils.BytesToString(r.bytes(NAME_FIELD_SIZE))
}

func (r *reader) vec3() mgl32.Vec3 {
	return mgl32.Vec3{r.f32(), r.f32(), r.f32()}
}

func (r *reader) quat() mgl32.Quat {
	var q mgl32.Quat
	q.V[0] = r.f32()
	q.V[1] = r.f32()
	q.V[2] = r.f32()
	q.W = r.f32()
	return q
}

func (r *reader) mat4() mgl32.Mat4 {
	var m mgl32.Mat4
	for i := range m {
		m[i] = r.f32()
	}
	return m
}

func (r *reader) f32array(count int) []float32 {
	a := make([]float32, count)
	for i := range a {
		a[i] = r.f32()
	}
	return a
}

func (r *reader) u16array(count int) []uint16 {
	a := make([]uint16, count)
	for i := range a {
		a[i] = r.u16()
	}
	return a
}

type writer struct {
	buf bytes.Buffer
}

func (w *writer) u16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *writer) i16(v int16) { w.u16(uint16(v)) }

func (w *writer) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *writer) f32(v float32) { w.u32(math.Float32bits(v)) }

func (w *writer) name(s string) {
	w.buf.Write(utils.StringToBytesBuffer(s, NAME_FIELD_SIZE))
}

func (w *writer) vec3(v mgl32.Vec3) {
	w.f32(v[0])
	w.f32(v[1])
	w.f32(v[2])
}

func (w *writer) quat(q mgl32.Quat) {
	w.f32(q.V[0])
	w.f32(q.V[1])
	w.f32(q.V[2])
	w.f32(q.W)
}

func (w *writer) mat4(m mgl32.Mat4) {
	for i := range m {
		w.f32(m[i])
	}
}

func (w *writer) f32array(a []float32) {
	for _, v := range a {
		w.f32(v)
	}
}

func (w *writer) u16array(a []uint16) {
	for _, v := range a {
		w.u16(v)
	}
}

func checkHeader(r *reader, magic uint32, what string) {
	if got := r.u32(); r.err == nil && got != magic {
		r.err = errors.Errorf("Not a %s archive (magic 0x%.8x != 0x%.8x)", what, got, magic)
	}
	if version := r.u32(); r.err == nil && version != ARCHIVE_VERSION {
		r.err = errors.Errorf("Unsupported %s archive version %d", what, version)
	}
}
