// Package savefile stores world saves on disk, zstd-compressed around the
// world's own binary stream.
package savefile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"voxelforge/internal/world"
)

const Ext = ".wld.zst"

// Write saves the world into dir and returns the file name. Names embed a
// UTC timestamp so lexicographic order is chronological order.
func Write(dir string, w *world.World) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("world-%s%s", time.Now().UTC().Format("20060102-150405.000000000"), Ext)

	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return "", err
	}

	bw := bufio.NewWriterSize(enc, 256*1024)
	if err := w.Save(bw); err != nil {
		enc.Close()
		return "", err
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return name, nil
}

// Read replaces the world's contents with the save at path. The world is
// cleared first, so a failed read leaves it empty rather than merged.
func Read(path string, w *world.World) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	w.Clear()
	if err := w.Load(bufio.NewReaderSize(dec, 256*1024)); err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Latest returns the path of the newest save in dir, or "" when the
// directory holds none.
func Latest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), Ext) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", nil
	}
	sort.Strings(names)
	return filepath.Join(dir, names[len(names)-1]), nil
}
