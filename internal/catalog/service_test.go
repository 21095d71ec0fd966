package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wichananm65/gift-store-backend/internal/validation"
)

func ptr[T any](v T) *T { return &v }

func TestService_CreateAndSoftDelete(t *testing.T) {
	now := time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC)
	svc := NewService(NewInMemoryRepository(nil)).WithClock(func() time.Time { return now })
	ctx := context.Background()

	it, err := svc.Create(ctx, Input{Title: "Dia dos Namorados", ProductIDs: []int{1, 2}, BackgroundColor: "bg-rose-100"})
	require.NoError(t, err)
	assert.Equal(t, 1, it.ID)
	assert.Equal(t, "dia-dos-namorados", it.Slug)
	assert.True(t, it.IsActive)
	assert.Equal(t, []int{1, 2}, it.ProductIDs)

	require.NoError(t, svc.Delete(ctx, it.ID))
	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	stored, err := svc.Get(ctx, it.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.ErrorIs(t, svc.Delete(ctx, it.ID), ErrNotFound)
}

func TestService_UpdateKeepsUntouchedFields(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil))
	ctx := context.Background()

	it, err := svc.Create(ctx, Input{Title: "Natal", Description: "presentes", ProductIDs: []int{3}})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, it.ID, Patch{ProductIDs: ptr([]int{3, 4})})
	require.NoError(t, err)
	assert.Equal(t, "Natal", updated.Title)
	assert.Equal(t, "presentes", updated.Description)
	assert.Equal(t, []int{3, 4}, updated.ProductIDs)
	assert.Equal(t, "natal", updated.Slug)

	retitled, err := svc.Update(ctx, it.ID, Patch{Title: ptr("Natal Mágico")})
	require.NoError(t, err)
	assert.Equal(t, "natal-magico", retitled.Slug)
}

func TestService_Validation(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil))

	_, err := svc.Create(context.Background(), Input{Title: "  ", ProductIDs: []int{0}})
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "title")
	assert.Contains(t, verrs, "productIds")
}

func TestService_EmptyTitleSlugFallback(t *testing.T) {
	now := time.UnixMilli(1700000000000).UTC()
	svc := NewService(NewInMemoryRepository(nil)).WithClock(func() time.Time { return now })

	it, err := svc.Create(context.Background(), Input{Title: "!!!"})
	require.NoError(t, err)
	assert.Equal(t, "catalog-1700000000000", it.Slug)
}
