package tracklight

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCreateInstallsTransaction(t *testing.T) {
	recorder := newMockRecorder()
	registry := NewRegistry(recorder, NewConfig())

	ctx, tx := registry.Create(context.Background(), "t1", "http_request", nil, false)
	assert.Equal(t, "t1", tx.ID())
	assert.True(t, registry.CurrentIsActive(ctx))
	assert.Same(t, tx, registry.Current(ctx))
}

func TestRegistryCreateGeneratesID(t *testing.T) {
	registry := NewRegistry(newMockRecorder(), NewConfig())

	_, tx := registry.Create(context.Background(), "", "http_request", nil, false)
	assert.NotEmpty(t, tx.ID())
}

func TestRegistryCreateConflictReturnsExisting(t *testing.T) {
	recorder := newMockRecorder()
	registry := NewRegistry(recorder, NewConfig())

	ctx, first := registry.Create(context.Background(), "t1", "http_request", nil, false)
	ctx2, second := registry.Create(ctx, "t2", "background_job", nil, false)

	assert.Same(t, first, second)
	assert.Equal(t, "t1", second.ID())
	assert.Equal(t, "http_request", second.Namespace())
	assert.Equal(t, ctx, ctx2)
	// No second recording session was opened for the discarded request.
	assert.Len(t, recorder.sessions, 1)
}

func TestRegistryCreateForceReplaces(t *testing.T) {
	recorder := newMockRecorder()
	registry := NewRegistry(recorder, NewConfig())

	ctx, first := registry.Create(context.Background(), "t1", "http_request", nil, false)
	_, second := registry.Create(ctx, "t2", "background_job", nil, true)

	assert.NotSame(t, first, second)
	assert.Equal(t, "t2", second.ID())
	assert.Same(t, second, registry.Current(ctx))
}

func TestRegistryCurrentWithoutTransaction(t *testing.T) {
	registry := NewRegistry(newMockRecorder(), NewConfig())
	ctx := context.Background()

	tx := registry.Current(ctx)
	require.IsType(t, &NullTransaction{}, tx)
	assert.False(t, registry.CurrentIsActive(ctx))

	// The null stand-in tolerates the full API.
	tx.SetAction("Users#show")
	tx.Complete()
}

func TestRegistryCompleteCurrent(t *testing.T) {
	recorder := newMockRecorder()
	registry := NewRegistry(recorder, NewConfig())

	ctx, _ := registry.Create(context.Background(), "t1", "http_request", nil, false)
	registry.CompleteCurrent(ctx)

	assert.Equal(t, 1, recorder.last().completeCalls)
	assert.False(t, registry.CurrentIsActive(ctx))
}

func TestRegistryCompleteCurrentWithoutTransaction(t *testing.T) {
	registry := NewRegistry(newMockRecorder(), NewConfig())
	registry.CompleteCurrent(context.Background())
}

func TestRegistryCompleteCurrentSwallowsFailureAndClears(t *testing.T) {
	recorder := newMockRecorder()
	registry := NewRegistry(recorder, NewConfig())

	ctx, _ := registry.Create(context.Background(), "t1", "http_request", nil, false)
	recorder.last().panicOnFinish = true

	assert.NotPanics(t, func() { registry.CompleteCurrent(ctx) })
	assert.False(t, registry.CurrentIsActive(ctx))
}

func TestRegistryClear(t *testing.T) {
	recorder := newMockRecorder()
	registry := NewRegistry(recorder, NewConfig())

	ctx, _ := registry.Create(context.Background(), "t1", "http_request", nil, false)
	registry.Clear(ctx)

	assert.False(t, registry.CurrentIsActive(ctx))
	// Clearing does not complete the transaction.
	assert.Zero(t, recorder.last().completeCalls)
}

func TestRegistryNilRecorder(t *testing.T) {
	registry := NewRegistry(nil, NewConfig())

	ctx, tx := registry.Create(context.Background(), "t1", "http_request", nil, false)
	tx.SetAction("Users#show")
	registry.CompleteCurrent(ctx)
}

func TestRegistrySlotClearedForDerivedContexts(t *testing.T) {
	registry := NewRegistry(newMockRecorder(), NewConfig())

	ctx, _ := registry.Create(context.Background(), "t1", "http_request", nil, false)
	child := context.WithValue(ctx, struct{ k string }{"unrelated"}, "value")

	registry.CompleteCurrent(child)
	assert.False(t, registry.CurrentIsActive(ctx))
	assert.False(t, registry.CurrentIsActive(child))
}
