// Package saga stores the hand-off records of multi-step operations whose
// second half arrives later as the continuation of an issued ledger command.
//
// Every record is keyed by a sequence-generated correlation id. Operations that
// re-derive their outcome from shared state are grouped into a slot; only one
// record per slot may be pending, a second Begin on a busy slot fails closed.
package saga

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"

	"github.com/tokenize-x/lsm-staking/pkg/collcodec"
)

// Codespace is the error codespace of the package.
const Codespace = "saga"

var (
	// ErrSlotBusy is returned when an operation of the same slot is still pending.
	ErrSlotBusy = errorsmod.Register(Codespace, 2, "operation already pending")
	// ErrRecordNotFound is returned for an unknown correlation id.
	ErrRecordNotFound = errorsmod.Register(Codespace, 3, "continuation not found")
	// ErrInvalidTransition is returned when a record is advanced out of order.
	ErrInvalidTransition = errorsmod.Register(Codespace, 4, "invalid continuation status transition")
)

// Status is the lifecycle state of an operation.
type Status int32

// Statuses.
const (
	StatusUnspecified Status = iota
	StatusStarted
	StatusCommandIssued
	StatusCompleted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusStarted:
		return "started"
	case StatusCommandIssued:
		return "command_issued"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unspecified"
	}
}

// Record is a hand-off record.
type Record[T any] struct {
	ID      uint64 `json:"id"`
	Kind    string `json:"kind"`
	Slot    string `json:"slot"`
	Status  Status `json:"status"`
	Payload T      `json:"payload"`
}

// Registry is a collections-backed store of hand-off records.
type Registry[T any] struct {
	sequence collections.Sequence
	records  collections.Map[uint64, Record[T]]
}

// NewRegistry registers the registry collections on the schema builder.
func NewRegistry[T any](
	sb *collections.SchemaBuilder,
	sequencePrefix, recordsPrefix collections.Prefix,
	name string,
) Registry[T] {
	return Registry[T]{
		sequence: collections.NewSequence(sb, sequencePrefix, name+"_sequence"),
		records: collections.NewMap(
			sb,
			recordsPrefix,
			name,
			collections.Uint64Key,
			collcodec.JSONValue[Record[T]](),
		),
	}
}

// Begin allocates a correlation id and persists a started record.
func (r Registry[T]) Begin(ctx context.Context, kind, slot string, payload T) (Record[T], error) {
	pending, found, err := r.BySlot(ctx, slot)
	if err != nil {
		return Record[T]{}, err
	}
	if found {
		return Record[T]{}, errorsmod.Wrapf(ErrSlotBusy, "slot %s is held by %s operation %d", slot, pending.Kind, pending.ID)
	}

	id, err := r.sequence.Next(ctx)
	if err != nil {
		return Record[T]{}, err
	}

	rec := Record[T]{
		ID:      id,
		Kind:    kind,
		Slot:    slot,
		Status:  StatusStarted,
		Payload: payload,
	}
	if err := r.records.Set(ctx, id, rec); err != nil {
		return Record[T]{}, err
	}
	return rec, nil
}

// Issued marks the command of a started record as handed to the ledger.
func (r Registry[T]) Issued(ctx context.Context, id uint64) error {
	rec, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if rec.Status != StatusStarted {
		return errorsmod.Wrapf(ErrInvalidTransition, "operation %d is %s", id, rec.Status)
	}
	rec.Status = StatusCommandIssued
	return r.records.Set(ctx, id, rec)
}

// Update replaces the payload of a pending record.
func (r Registry[T]) Update(ctx context.Context, id uint64, payload T) error {
	rec, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	rec.Payload = payload
	return r.records.Set(ctx, id, rec)
}

// Resolve consumes the record of an issued command. The returned copy carries
// the terminal status; the record itself is removed.
func (r Registry[T]) Resolve(ctx context.Context, id uint64, success bool) (Record[T], error) {
	rec, err := r.Get(ctx, id)
	if err != nil {
		return Record[T]{}, err
	}
	if rec.Status != StatusCommandIssued {
		return Record[T]{}, errorsmod.Wrapf(ErrInvalidTransition, "operation %d is %s", id, rec.Status)
	}
	if err := r.records.Remove(ctx, id); err != nil {
		return Record[T]{}, err
	}

	rec.Status = StatusCompleted
	if !success {
		rec.Status = StatusFailed
	}
	return rec, nil
}

// Get returns the record stored under id.
func (r Registry[T]) Get(ctx context.Context, id uint64) (Record[T], error) {
	rec, err := r.records.Get(ctx, id)
	if errors.Is(err, collections.ErrNotFound) {
		return Record[T]{}, errorsmod.Wrapf(ErrRecordNotFound, "id %d", id)
	}
	return rec, err
}

// BySlot returns the pending record holding the slot, if any.
func (r Registry[T]) BySlot(ctx context.Context, slot string) (Record[T], bool, error) {
	var (
		found Record[T]
		ok    bool
	)
	err := r.records.Walk(ctx, nil, func(_ uint64, rec Record[T]) (bool, error) {
		if rec.Slot == slot {
			found, ok = rec, true
			return true, nil
		}
		return false, nil
	})
	return found, ok, err
}

// All returns the pending records in id order.
func (r Registry[T]) All(ctx context.Context) ([]Record[T], error) {
	var records []Record[T]
	err := r.records.Walk(ctx, nil, func(_ uint64, rec Record[T]) (bool, error) {
		records = append(records, rec)
		return false, nil
	})
	return records, err
}
