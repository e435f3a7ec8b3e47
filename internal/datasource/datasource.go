// Package datasource defines where the raw dataset bytes come from. The
// file and httpds subpackages provide the implementations.
package datasource

import (
	"context"
	"fmt"
	"io"

	"github.com/zeebo/xxh3"
)

// Source yields the raw bytes of one dataset.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)

	// Name identifies the source in logs and errors: a path or a URL.
	Name() string
}

// Snapshot is the full content of a source read in one pass, together with
// an xxh3 fingerprint used to identify the exact input of a run in logs.
type Snapshot struct {
	Data        []byte
	Fingerprint uint64
}

// FingerprintHex renders the fingerprint as 16 lowercase hex digits.
func (s Snapshot) FingerprintHex() string { return fmt.Sprintf("%016x", s.Fingerprint) }

// ReadSnapshot reads src to the end and hashes it.
func ReadSnapshot(ctx context.Context, src Source) (Snapshot, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read %s: %w", src.Name(), err)
	}
	return Snapshot{Data: data, Fingerprint: xxh3.Hash(data)}, nil
}
