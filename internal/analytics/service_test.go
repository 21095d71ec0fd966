package analytics

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

func TestService_RecordValidates(t *testing.T) {
	svc := NewService(NewInMemoryRepository(0))

	_, err := svc.Record(context.Background(), EventInput{Type: "click", Path: ""})
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "type")
	assert.Contains(t, verrs, "path")

	_, err = svc.Record(context.Background(), EventInput{Type: ProductView, Path: "/produto/caneca"})
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "productId")
}

func TestService_Summary(t *testing.T) {
	repo := NewInMemoryRepository(0)
	svc := NewService(repo)
	ctx := context.Background()

	now := time.Date(2026, 6, 10, 15, 0, 0, 0, time.UTC)
	clock := now
	svc.now = func() time.Time { return clock }

	record := func(at time.Time, in EventInput) {
		clock = at
		_, err := svc.Record(ctx, in)
		require.NoError(t, err)
	}

	// outside a 3-day window
	record(now.AddDate(0, 0, -5), EventInput{Type: PageView, Path: "/"})

	record(now.AddDate(0, 0, -1), EventInput{Type: PageView, Path: "/", SessionID: "a"})
	record(now, EventInput{Type: PageView, Path: "/", SessionID: "a"})
	record(now, EventInput{Type: PageView, Path: "/", SessionID: "b"})
	record(now, EventInput{Type: PageView, Path: "/", SessionID: "b"})
	record(now, EventInput{Type: ProductView, Path: "/p/2", ProductID: ptr(2)})
	record(now, EventInput{Type: ProductView, Path: "/p/1", ProductID: ptr(1)})
	record(now, EventInput{Type: ProductView, Path: "/p/2", ProductID: ptr(2)})
	record(now, EventInput{Type: AddToCart, Path: "/p/2", ProductID: ptr(2)})
	record(now, EventInput{Type: Checkout, Path: "/carrinho"})

	clock = now
	sum, err := svc.Summary(ctx, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Days)
	assert.Equal(t, 4, sum.PageViews)
	assert.Equal(t, 3, sum.ProductViews)
	assert.Equal(t, 1, sum.AddToCart)
	assert.Equal(t, 1, sum.Checkouts)
	assert.Equal(t, 2, sum.UniqueSessions)
	assert.Equal(t, 0.25, sum.ConversionRate)
	assert.Equal(t, []ProductStat{{ProductID: 2, Views: 2}, {ProductID: 1, Views: 1}}, sum.TopProducts)
	assert.Equal(t, []DailyPoint{
		{Date: "2026-06-08", PageViews: 0},
		{Date: "2026-06-09", PageViews: 1},
		{Date: "2026-06-10", PageViews: 3},
	}, sum.Daily)
}

func TestService_SummaryClampsDays(t *testing.T) {
	svc := NewService(NewInMemoryRepository(0))

	sum, err := svc.Summary(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultDays, sum.Days)
	assert.Len(t, sum.Daily, DefaultDays)
	assert.Zero(t, sum.ConversionRate)

	sum, err = svc.Summary(context.Background(), 1000)
	require.NoError(t, err)
	assert.Equal(t, MaxDays, sum.Days)
}

func TestInMemoryRepository_Limit(t *testing.T) {
	repo := NewInMemoryRepository(2)
	ctx := context.Background()
	base := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Record(ctx, Event{ID: string(rune('a' + i)), Type: PageView, CreatedAt: base.Add(time.Duration(i) * time.Second)}))
	}

	events, err := repo.ListSince(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "b", events[0].ID)
}
