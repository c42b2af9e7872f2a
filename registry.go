package tracklight

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tracklight/go-agent/log"
)

type slotContextKey struct{}

// txnSlot is the per-unit-of-work registry slot.  The context carries a
// pointer so completion can clear the slot for every holder of a derived
// context, not only for the caller that completed it.
type txnSlot struct {
	txn Transaction
}

// nullTxn is the shared inert stand-in handed out while no transaction is
// installed.
var nullTxn = &NullTransaction{}

// Registry enforces the single-active-transaction-per-execution-context
// rule.  Ownership is carried by context.Context: Create installs a slot
// holding zero or one Transaction into the context of the unit of work, and
// the slot is cleared when the work completes.
//
// A slot belongs to exactly one unit of work and is mutated only from the
// goroutine driving it, so no locking is involved.  The Registry itself is
// immutable after construction and safe to share.
type Registry struct {
	recorder Recorder
	cfg      Config
}

// NewRegistry creates a Registry submitting to the given recorder.  A nil
// recorder yields a registry whose transactions run unrecorded.
func NewRegistry(recorder Recorder, cfg Config) *Registry {
	if nil == recorder {
		recorder = disabledRecorder{}
	}
	return &Registry{
		recorder: recorder,
		cfg:      cfg,
	}
}

// Create constructs a Transaction for an incoming unit of work and installs
// it as current for the execution context carried by ctx.  The returned
// context must be propagated to everything running inside the unit of work.
//
// If a transaction is already current and force is false, the conflict is
// logged and the existing transaction is returned unchanged: the requested
// id, namespace, and request are discarded, not merged.  With force, any
// existing transaction is dropped from the slot first.  An empty id gets a
// generated one.
func (r *Registry) Create(ctx context.Context, id, namespace string, request interface{}, force bool) (context.Context, Transaction) {
	slot, ok := ctx.Value(slotContextKey{}).(*txnSlot)
	if !ok {
		slot = &txnSlot{}
		ctx = context.WithValue(ctx, slotContextKey{}, slot)
	}
	if force {
		slot.txn = nil
	}
	if nil != slot.txn {
		log.Warn("trying to start new transaction, but a transaction is already running", log.Context{
			"running_transaction_id":   slot.txn.ID(),
			"requested_transaction_id": id,
		})
		return ctx, slot.txn
	}

	if "" == id {
		id = uuid.NewString()
	}
	slot.txn = NewTransaction(r.recorder, id, namespace, request, r.cfg)
	return ctx, slot.txn
}

// Current returns the transaction installed for this execution context, or
// an inert NullTransaction when none is.  It never fails.
func (r *Registry) Current(ctx context.Context) Transaction {
	if slot, ok := ctx.Value(slotContextKey{}).(*txnSlot); ok && nil != slot.txn {
		return slot.txn
	}
	return nullTxn
}

// CurrentIsActive reports whether a real transaction is installed for this
// execution context.
func (r *Registry) CurrentIsActive(ctx context.Context) bool {
	slot, ok := ctx.Value(slotContextKey{}).(*txnSlot)
	return ok && nil != slot.txn
}

// CompleteCurrent completes the current transaction and clears the registry
// slot.  A failure during completion is logged with the transaction id and
// swallowed; the slot is cleared on every exit path so a broken recorder
// can not leak a stale transaction into the next unit of work.
func (r *Registry) CompleteCurrent(ctx context.Context) {
	slot, ok := ctx.Value(slotContextKey{}).(*txnSlot)
	if !ok || nil == slot.txn {
		return
	}
	txn := slot.txn
	defer func() {
		slot.txn = nil
		if rec := recover(); nil != rec {
			log.Error("failed to complete transaction", log.Context{
				"transaction_id": txn.ID(),
				"error":          fmt.Sprintf("%v", rec),
			})
		}
	}()
	txn.Complete()
}

// Clear unconditionally removes the current transaction from this execution
// context without completing it.
func (r *Registry) Clear(ctx context.Context) {
	if slot, ok := ctx.Value(slotContextKey{}).(*txnSlot); ok {
		slot.txn = nil
	}
}
