// Package aggregation turns the mutating order set into dashboard statistics.
//
// The Engine is a pure reader. Change notifications only tell it that the set
// moved; every recompute reads a full snapshot and calculates AggregateStats
// from scratch, so lost, duplicated or reordered notifications never corrupt
// the result. Snapshots carry a sequence and a snapshot older than the last
// one applied is discarded.
package aggregation

import (
	"context"
	"sync/atomic"

	"cafe/internal/core/domain/model/order"
	"cafe/internal/core/ports"
)

// Snapshot is the full order set at one point in time.
type Snapshot struct {
	Orders   []*order.Order
	Sequence uint64
}

// SnapshotSource reads the current order set.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// ReaderSource adapts an OrderReader that has no notion of sequence. Sequences
// are taken before the read starts, so a slow read that finishes after a newer
// one is recognized as older.
type ReaderSource struct {
	reader   ports.OrderReader
	sequence atomic.Uint64
}

func NewReaderSource(reader ports.OrderReader) *ReaderSource {
	return &ReaderSource{reader: reader}
}

func (s *ReaderSource) Snapshot(ctx context.Context) (Snapshot, error) {
	sequence := s.sequence.Add(1)

	orders, err := s.reader.List(ctx, ports.OrderFilter{})
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Orders: orders, Sequence: sequence}, nil
}
