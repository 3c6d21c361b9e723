// Package snapio serializes floating point environment snapshots for
// persistence. Snapshots are framed with a magic number, a format version,
// and the layout they were captured in; a snapshot can only be restored on
// a platform using the same layout.
package snapio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/tinyrange/fpenv/internal/fpu"
)

const (
	snapshotMagic   uint32 = 0x46504E56 // "FPNV"
	snapshotVersion uint32 = 1
)

var (
	ErrBadMagic       = errors.New("not a floating point environment snapshot")
	ErrBadVersion     = errors.New("unsupported snapshot version")
	ErrLayoutMismatch = errors.New("snapshot layout does not match this platform")
)

// WriteSnapshot writes snap to w in the framed format.
func WriteSnapshot(w io.Writer, snap *fpu.Snapshot) error {
	if err := binary.Write(w, binary.LittleEndian, snapshotMagic); err != nil {
		return fmt.Errorf("write magic: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, snapshotVersion); err != nil {
		return fmt.Errorf("write version: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(fpu.Layout)); err != nil {
		return fmt.Errorf("write layout: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(snap))); err != nil {
		return fmt.Errorf("write size: %w", err)
	}
	if _, err := w.Write(snap[:]); err != nil {
		return fmt.Errorf("write snapshot body: %w", err)
	}
	return nil
}

// ReadSnapshot reads a framed snapshot from r, refusing frames written
// under a different layout or version.
func ReadSnapshot(r io.Reader) (*fpu.Snapshot, error) {
	var magic, version, layout, size uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if magic != snapshotMagic {
		return nil, ErrBadMagic
	}
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	if version != snapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, version)
	}
	if err := binary.Read(r, binary.LittleEndian, &layout); err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	if fpu.LayoutKind(layout) != fpu.Layout {
		return nil, fmt.Errorf("%w: snapshot is %s, platform is %s",
			ErrLayoutMismatch, fpu.LayoutKind(layout), fpu.Layout)
	}
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return nil, fmt.Errorf("read size: %w", err)
	}
	if size != fpu.SnapshotSize {
		return nil, fmt.Errorf("snapshot body is %d bytes, want %d", size, fpu.SnapshotSize)
	}
	snap := new(fpu.Snapshot)
	if _, err := io.ReadFull(r, snap[:]); err != nil {
		return nil, fmt.Errorf("read snapshot body: %w", err)
	}
	return snap, nil
}
