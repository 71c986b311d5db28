package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"homestock/internal/dialog"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	// Unknown owner yields no session and no error.
	sess, err := store.Get(ctx, 42)
	assert.NoError(t, err)
	assert.Nil(t, sess)

	put := dialog.NewSession(42)
	put.State = dialog.StateAwaitingCategoryName
	assert.NoError(t, store.Put(ctx, put))

	got, err := store.Get(ctx, 42)
	assert.NoError(t, err)
	assert.Equal(t, put, got)

	assert.NoError(t, store.Delete(ctx, 42))
	got, err = store.Get(ctx, 42)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreIsolatesOwners(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	a := dialog.NewSession(1)
	a.State = dialog.StateWizardName
	b := dialog.NewSession(2)

	assert.NoError(t, store.Put(ctx, a))
	assert.NoError(t, store.Put(ctx, b))

	gotA, err := store.Get(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, dialog.StateWizardName, gotA.State)

	gotB, err := store.Get(ctx, 2)
	assert.NoError(t, err)
	assert.Equal(t, dialog.StateNeutral, gotB.State)
}
