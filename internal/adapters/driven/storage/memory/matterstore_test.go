package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
)

func TestMatterStore_SaveAndGet(t *testing.T) {
	store := NewMatterStore()
	ctx := context.Background()

	matter := &domain.Matter{
		ID:           "matter-1",
		Caption:      "Doe v. Acme Corp.",
		Plaintiff:    "Jane Doe",
		Defendants:   []string{"Acme Corp.", "Widget LLC"},
		Jurisdiction: "N.D. Cal.",
		IntakeDir:    "/intake/matter-1",
	}

	err := store.Save(ctx, matter)
	require.NoError(t, err)

	saved, err := store.Get(ctx, "matter-1")
	require.NoError(t, err)
	assert.Equal(t, "Doe v. Acme Corp.", saved.Caption)
	assert.Equal(t, []string{"Acme Corp.", "Widget LLC"}, saved.Defendants)
}

func TestMatterStore_Get_NotFound(t *testing.T) {
	store := NewMatterStore()
	ctx := context.Background()

	matter, err := store.Get(ctx, "nonexistent")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, matter)
}

func TestMatterStore_Save_Update(t *testing.T) {
	store := NewMatterStore()
	ctx := context.Background()

	matter := &domain.Matter{ID: "matter-1", Caption: "Original"}
	require.NoError(t, store.Save(ctx, matter))

	matter.Caption = "Amended"
	require.NoError(t, store.Save(ctx, matter))

	saved, err := store.Get(ctx, "matter-1")
	require.NoError(t, err)
	assert.Equal(t, "Amended", saved.Caption)
}

func TestMatterStore_List(t *testing.T) {
	store := NewMatterStore()
	ctx := context.Background()

	matters, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, matters)

	_ = store.Save(ctx, &domain.Matter{ID: "matter-1"})
	_ = store.Save(ctx, &domain.Matter{ID: "matter-2"})

	matters, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, matters, 2)
}

func TestMatterStore_Delete(t *testing.T) {
	store := NewMatterStore()
	ctx := context.Background()

	_ = store.Save(ctx, &domain.Matter{ID: "matter-1"})

	err := store.Delete(ctx, "matter-1")
	require.NoError(t, err)

	_, err = store.Get(ctx, "matter-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deleting a missing matter is not an error.
	assert.NoError(t, store.Delete(ctx, "nonexistent"))
}
