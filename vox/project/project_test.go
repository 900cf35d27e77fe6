package project

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/voxelforge/voxelforge/vox/coord"
	"github.com/voxelforge/voxelforge/vox/store"
)

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(mgl32.Vec3{6, 5, 4}, coord.Res16cm)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []coord.Voxel{
		{Pos: coord.Increment(0, 0, 0), Res: coord.Res32cm},
		{Pos: coord.Increment(64, 0, -64), Res: coord.Res32cm},
		{Pos: coord.Increment(100, 0, 100), Res: coord.Res16cm},
		{Pos: coord.Increment(-150, 32, 150), Res: coord.Res1cm},
	} {
		if _, err := st.Set(v.Pos, v.Res, true); err != nil {
			t.Fatalf("seed %v: %v", v, err)
		}
	}
	return st
}

func TestSnapshotRoundTrip(t *testing.T) {
	st := seededStore(t)
	snap := Capture(st)

	var buf bytes.Buffer
	if err := snap.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	decoded, err := ReadFrom(&buf)
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if decoded.Workspace != [3]float32{6, 5, 4} {
		t.Errorf("workspace = %v", decoded.Workspace)
	}
	if decoded.Active != coord.Res16cm {
		t.Errorf("active = %s", decoded.Active.Name())
	}

	st2 := store.NewDefault()
	if err := decoded.Restore(st2); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if st2.Count() != st.Count() {
		t.Fatalf("count = %d, want %d", st2.Count(), st.Count())
	}
	for _, r := range coord.Resolutions() {
		st.IterAt(r, func(p coord.IncrementCoordinates) bool {
			if !st2.Get(p, r) {
				t.Errorf("restored store missing %s voxel at %v", r.Name(), p)
			}
			return true
		})
	}
	if st2.ActiveResolution() != coord.Res16cm {
		t.Error("restore did not carry the active resolution")
	}
}

func TestCaptureIsDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	if err := Capture(seededStore(t)).WriteTo(&a); err != nil {
		t.Fatal(err)
	}
	if err := Capture(seededStore(t)).WriteTo(&b); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("identical stores serialized to different bytes")
	}
}

func TestLayoutIsLittleEndian(t *testing.T) {
	st, err := store.New(mgl32.Vec3{5, 5, 5}, coord.Res1cm)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.Set(coord.Increment(1, 0, -1), coord.Res1cm, true); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Capture(st).WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	raw := buf.Bytes()

	// 3 x f32 workspace, u8 active, u8 block count, u8 res, u32 count,
	// then the packed triple.
	if len(raw) != 12+1+1+1+4+12 {
		t.Fatalf("encoded length = %d", len(raw))
	}
	if raw[12] != 0 || raw[13] != 1 || raw[14] != 0 {
		t.Fatalf("header bytes = % x", raw[12:15])
	}
	if raw[15] != 1 || raw[16] != 0 || raw[17] != 0 || raw[18] != 0 {
		t.Fatalf("count bytes = % x", raw[15:19])
	}
	// x = 1 as little-endian i32.
	if raw[19] != 1 || raw[20] != 0 {
		t.Fatalf("x bytes = % x", raw[19:23])
	}
	// z = -1 as little-endian i32.
	if raw[27] != 0xff || raw[30] != 0xff {
		t.Fatalf("z bytes = % x", raw[27:31])
	}
}

func TestReadRejectsGarbage(t *testing.T) {
	if _, err := ReadFrom(bytes.NewReader([]byte{1, 2, 3})); err == nil {
		t.Fatal("truncated input should fail")
	}

	// A snapshot with an out-of-range resolution index.
	st := store.NewDefault()
	var buf bytes.Buffer
	if err := Capture(st).WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	raw := buf.Bytes()
	raw[12] = 99 // active resolution byte
	if _, err := ReadFrom(bytes.NewReader(raw)); err == nil {
		t.Fatal("invalid resolution index should fail")
	}
}

// xorCompressor stands in for the external compression collaborator.
type xorCompressor struct{ key byte }

func (c xorCompressor) Compress(data []byte) ([]byte, error) {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ c.key
	}
	return out, nil
}

func (c xorCompressor) Decompress(data []byte) ([]byte, error) {
	return c.Compress(data)
}

func TestCompressedRoundTrip(t *testing.T) {
	st := seededStore(t)
	comp := xorCompressor{key: 0x5a}

	var buf bytes.Buffer
	if err := WriteCompressed(&buf, Capture(st), comp); err != nil {
		t.Fatalf("WriteCompressed: %v", err)
	}
	snap, err := ReadCompressed(&buf, comp)
	if err != nil {
		t.Fatalf("ReadCompressed: %v", err)
	}

	st2 := store.NewDefault()
	if err := snap.Restore(st2); err != nil {
		t.Fatal(err)
	}
	if st2.Count() != st.Count() {
		t.Fatalf("count = %d, want %d", st2.Count(), st.Count())
	}
}
