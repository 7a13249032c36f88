package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aristath/boxengine/internal/domain"
	"github.com/vmihailenco/msgpack/v5"
)

const snapshotVersion = 1

// snapshot is the on-disk msgpack envelope
type snapshot struct {
	Version int          `msgpack:"version"`
	Boxes   []domain.Box `msgpack:"boxes"`
}

// EncodeSnapshot serializes a catalog to msgpack
func EncodeSnapshot(boxes []domain.Box) ([]byte, error) {
	data, err := msgpack.Marshal(snapshot{Version: snapshotVersion, Boxes: boxes})
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot reads a catalog written by EncodeSnapshot
func DecodeSnapshot(data []byte) ([]domain.Box, error) {
	var s snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if s.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported snapshot version %d", ErrInvalidCatalog, s.Version)
	}
	return s.Boxes, nil
}

// WriteSnapshot atomically writes a msgpack snapshot to path
func WriteSnapshot(path string, boxes []domain.Box) error {
	data, err := EncodeSnapshot(boxes)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// LoadFile reads a catalog from disk. ".msgpack" and ".mpk" files are snapshots,
// everything else is decoded as JSON.
func LoadFile(path string) ([]domain.Box, domain.Warnings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mpk":
		boxes, err := DecodeSnapshot(data)
		return boxes, nil, err
	default:
		return DecodeJSON(data)
	}
}
