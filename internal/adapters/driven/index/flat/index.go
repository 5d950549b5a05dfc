// Package flat provides a brute-force vector index over an append-only
// log of (vector, passage) pairs, persisted to a single binary file.
//
// For a single-writer, read-mostly workload with no deletion this is
// the simplest correct structure: exact nearest-neighbour search by
// full scan, and no separate join structure because each vector is
// stored beside its passage record.
package flat

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/docinferx/docinferx-cli/internal/core/domain"
	"github.com/docinferx/docinferx-cli/internal/core/ports/driven"
	"github.com/docinferx/docinferx-cli/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// fileVersion is the on-disk format version.
const fileVersion = 1

// fileMagic identifies an index file.
var fileMagic = [4]byte{'D', 'I', 'F', 'X'}

// ErrCorruptIndex indicates the persisted index file could not be parsed.
var ErrCorruptIndex = errors.New("corrupt index file")

// entry couples one embedding vector with its passage record. Keeping
// them in a single slice makes lock-step append an invariant of the
// data layout rather than a discipline.
type entry struct {
	vector  []float32
	passage domain.Passage
}

// Index is a flat squared-Euclidean vector index.
//
// Searches may run concurrently; Insert and Persist must be serialised
// by the caller (the ingestion path runs them one at a time).
type Index struct {
	mu        sync.RWMutex
	path      string
	dimension int
	entries   []entry
}

// Open loads the index file at path, or creates an empty index bound to
// the given embedding dimension when no file exists. A persisted index
// built with a different dimension is refused with
// domain.ErrDimensionMismatch: vector spaces must never be mixed.
func Open(path string, dimension int) (*Index, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive", domain.ErrInvalidInput)
	}

	idx := &Index{
		path:      path,
		dimension: dimension,
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("Vector index: no file at %s, starting empty (dim=%d)", path, dimension)
			return idx, nil
		}
		return nil, fmt.Errorf("open index file: %w", err)
	}
	defer f.Close()

	if err := idx.load(f); err != nil {
		return nil, err
	}

	logger.Info("Vector index: restored %d passages from %s", len(idx.entries), path)
	return idx, nil
}

// load reads the binary index format: a magic/version/dimension/count
// header, then per entry the raw vector followed by a length-prefixed
// JSON passage record.
func (idx *Index) load(r io.Reader) error {
	var header struct {
		Magic     [4]byte
		Version   uint32
		Dimension uint32
		Count     uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("%w: short header: %v", ErrCorruptIndex, err)
	}
	if header.Magic != fileMagic {
		return fmt.Errorf("%w: bad magic", ErrCorruptIndex)
	}
	if header.Version != fileVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrCorruptIndex, header.Version)
	}
	if int(header.Dimension) != idx.dimension {
		return fmt.Errorf("%w: index built with dimension %d, embedding model produces %d",
			domain.ErrDimensionMismatch, header.Dimension, idx.dimension)
	}

	entries := make([]entry, 0, header.Count)
	vecBuf := make([]byte, idx.dimension*4)

	for i := uint32(0); i < header.Count; i++ {
		if _, err := io.ReadFull(r, vecBuf); err != nil {
			return fmt.Errorf("%w: entry %d vector: %v", ErrCorruptIndex, i, err)
		}
		vec := bytesToFloat32Slice(vecBuf)

		var recLen uint32
		if err := binary.Read(r, binary.LittleEndian, &recLen); err != nil {
			return fmt.Errorf("%w: entry %d record length: %v", ErrCorruptIndex, i, err)
		}
		recBuf := make([]byte, recLen)
		if _, err := io.ReadFull(r, recBuf); err != nil {
			return fmt.Errorf("%w: entry %d record: %v", ErrCorruptIndex, i, err)
		}

		var passage domain.Passage
		if err := json.Unmarshal(recBuf, &passage); err != nil {
			return fmt.Errorf("%w: entry %d record: %v", ErrCorruptIndex, i, err)
		}

		entries = append(entries, entry{vector: vec, passage: passage})
	}

	idx.entries = entries
	return nil
}

// Insert appends vectors and passage records in lock-step.
func (idx *Index) Insert(_ context.Context, vectors [][]float32, passages []domain.Passage) error {
	if len(vectors) != len(passages) {
		return fmt.Errorf("%w: %d vectors for %d passages", domain.ErrInvalidInput, len(vectors), len(passages))
	}

	added := make([]entry, len(vectors))
	for i, vec := range vectors {
		if len(vec) != idx.dimension {
			return fmt.Errorf("%w: vector %d has dimension %d, index expects %d",
				domain.ErrDimensionMismatch, i, len(vec), idx.dimension)
		}
		added[i] = entry{vector: vec, passage: passages[i]}
	}

	idx.mu.Lock()
	idx.entries = append(idx.entries, added...)
	idx.mu.Unlock()

	logger.Debug("Vector index: inserted %d passages (total %d)", len(added), idx.Len())
	return nil
}

// Search returns up to k passages ordered by ascending squared
// Euclidean distance. An empty index or a query of the wrong dimension
// yields an empty result rather than an error: the caller treats "no
// results" as a normal, answerable condition.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]domain.RetrievedPassage, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.entries) == 0 || k <= 0 {
		return []domain.RetrievedPassage{}, nil
	}
	if len(query) != idx.dimension {
		logger.Warn("Vector index: query dimension %d does not match index dimension %d, returning no results",
			len(query), idx.dimension)
		return []domain.RetrievedPassage{}, nil
	}

	results := make([]domain.RetrievedPassage, len(idx.entries))
	for i, e := range idx.entries {
		results[i] = domain.RetrievedPassage{
			Passage:  e.passage,
			Distance: squaredDistance(query, e.vector),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Persist writes the current entries to the index file. The file is
// written to a temporary sibling and renamed into place so a crash
// mid-write never corrupts the previous state.
func (idx *Index) Persist() error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	dir := filepath.Dir(idx.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".index-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp index file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := idx.write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp index file: %w", err)
	}

	if err := os.Rename(tmp.Name(), idx.path); err != nil {
		return fmt.Errorf("replace index file: %w", err)
	}

	logger.Debug("Vector index: persisted %d passages to %s", len(idx.entries), idx.path)
	return nil
}

// write streams the binary format to w (caller must hold at least a
// read lock).
func (idx *Index) write(w io.Writer) error {
	header := struct {
		Magic     [4]byte
		Version   uint32
		Dimension uint32
		Count     uint32
	}{
		Magic:     fileMagic,
		Version:   fileVersion,
		Dimension: uint32(idx.dimension),
		Count:     uint32(len(idx.entries)),
	}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("write index header: %w", err)
	}

	for i := range idx.entries {
		if _, err := w.Write(float32SliceToBytes(idx.entries[i].vector)); err != nil {
			return fmt.Errorf("write vector %d: %w", i, err)
		}
		rec, err := json.Marshal(idx.entries[i].passage)
		if err != nil {
			return fmt.Errorf("marshal passage %d: %w", i, err)
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(rec))); err != nil {
			return fmt.Errorf("write record length %d: %w", i, err)
		}
		if _, err := w.Write(rec); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	return nil
}

// Len returns the number of stored passages.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Dimensions returns the embedding dimension the index is bound to.
func (idx *Index) Dimensions() int {
	return idx.dimension
}

// Close releases resources. The index holds no file handles between
// operations, so this only exists to satisfy the port.
func (idx *Index) Close() error {
	return nil
}

// squaredDistance computes squared Euclidean distance between two
// vectors of equal length. Accumulates in float64 to limit rounding.
func squaredDistance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

// float32SliceToBytes converts a float32 slice to little-endian bytes.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts little-endian bytes back to a float32 slice.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
