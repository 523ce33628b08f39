package world

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"

	"voxelforge/internal/block"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	src, f := newTestWorld()
	src.Reseed(123456)
	src.SetFieldOfView(4)

	// Two queued edits for chunks that never get generated.
	src.SetBlock(100, 10, 100, block.Sand)
	src.SetBlock(-50, 20, -50, block.WithData(block.Log, 3))

	for i, pos := range []ChunkPos{{0, 0, 0}, {-1, 2, 3}, {7, 4, -7}} {
		c := src.GenerateChunk(pos).(*stubChunk)
		for j := range c.payload {
			c.payload[j] = byte(i*16 + j)
		}
	}

	var buf bytes.Buffer
	if err := src.Save(&buf); err != nil {
		t.Fatalf("save: %v", err)
	}

	dstFactory := newStubFactory()
	dst := New(dstFactory.new)
	if err := dst.Load(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("load: %v", err)
	}

	if dst.Seed() != src.Seed() {
		t.Fatalf("seed = %d, want %d", dst.Seed(), src.Seed())
	}
	if dst.Noise().Seed() != src.Seed() {
		t.Fatal("load did not reseed the noise generator")
	}
	if dst.FieldOfView() != 4 {
		t.Fatalf("fov = %d, want 4", dst.FieldOfView())
	}
	if !reflect.DeepEqual(dst.PendingChanges(), src.PendingChanges()) {
		t.Fatalf("pending mismatch:\n got %v\nwant %v", dst.PendingChanges(), src.PendingChanges())
	}
	if dst.ChunkCount() != src.ChunkCount() {
		t.Fatalf("chunk count = %d, want %d", dst.ChunkCount(), src.ChunkCount())
	}
	for pos, orig := range f.made {
		loaded, ok := dstFactory.made[pos]
		if !ok {
			t.Fatalf("chunk %v missing after load", pos)
		}
		if loaded.payload != orig.payload {
			t.Fatalf("chunk %v payload mismatch", pos)
		}
	}
}

func TestLoad_TruncatedStreamFails(t *testing.T) {
	src, _ := newTestWorld()
	src.SetBlock(100, 10, 100, block.Sand)
	src.GenerateChunk(ChunkPos{1, 1, 1})

	var buf bytes.Buffer
	if err := src.Save(&buf); err != nil {
		t.Fatalf("save: %v", err)
	}
	full := buf.Bytes()

	// Chop at several offsets: mid-header, mid-record, mid-chunk. Every
	// cut except the exact end must fail the load.
	for _, cut := range []int{2, 5, 9, 20, len(full) - 3, len(full) - 1} {
		f := newStubFactory()
		dst := New(f.new)
		if err := dst.Load(bytes.NewReader(full[:cut])); err == nil {
			t.Fatalf("load of %d/%d bytes succeeded", cut, len(full))
		}
	}

	// Sanity: the untruncated stream loads.
	f := newStubFactory()
	dst := New(f.new)
	if err := dst.Load(bytes.NewReader(full)); err != nil {
		t.Fatalf("full stream failed: %v", err)
	}
}

func TestLoad_AbsurdPendingCountFails(t *testing.T) {
	// A corrupt count field must not be trusted as an allocation size; the
	// load has to fail when the records it promises are not there.
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, uint32(7)); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	if err := binary.Write(&buf, binary.LittleEndian, uint32(1<<31)); err != nil {
		t.Fatalf("write count: %v", err)
	}

	f := newStubFactory()
	if err := New(f.new).Load(bytes.NewReader(buf.Bytes())); err == nil {
		t.Fatal("load succeeded with an absurd pending count")
	}
}

type failingWriter struct {
	n int // bytes accepted before failing
}

var errDiskFull = errors.New("disk full")

func (w *failingWriter) Write(p []byte) (int, error) {
	if len(p) > w.n {
		n := w.n
		w.n = 0
		return n, errDiskFull
	}
	w.n -= len(p)
	return len(p), nil
}

func TestSave_ShortWriteFails(t *testing.T) {
	src, _ := newTestWorld()
	src.SetBlock(1, 1, 1, block.Stone)
	src.GenerateChunk(ChunkPos{0, 0, 0})

	var buf bytes.Buffer
	if err := src.Save(&buf); err != nil {
		t.Fatalf("save: %v", err)
	}

	for _, budget := range []int{0, 4, 10, buf.Len() - 1} {
		if err := src.Save(&failingWriter{n: budget}); !errors.Is(err, errDiskFull) {
			t.Fatalf("budget %d: err = %v, want disk full", budget, err)
		}
	}
}

func TestBlockChangeRecord_WireSize(t *testing.T) {
	// 6 coordinate int32s plus the uint16 block value, packed. The save
	// format depends on this staying fixed.
	var buf bytes.Buffer
	w, _ := newTestWorld()
	w.SetBlock(1, 2, 3, block.Stone)
	if err := w.Save(&buf); err != nil {
		t.Fatalf("save: %v", err)
	}
	// seed(4) + count(4) + record(26) + fov(4)
	if buf.Len() != 4+4+26+4 {
		t.Fatalf("stream length = %d, want %d", buf.Len(), 4+4+26+4)
	}
}
