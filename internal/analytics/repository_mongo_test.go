package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	now := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)

	mt.Run("record inserts", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		err := NewMongoRepository(mt.Coll).Record(context.Background(), Event{ID: "e1", Type: PageView, Path: "/", CreatedAt: now})
		require.NoError(mt, err)
	})

	mt.Run("list since decodes events", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
				bson.D{{Key: "_id", Value: "e1"}, {Key: "type", Value: "page_view"}, {Key: "path", Value: "/"}, {Key: "createdAt", Value: now}},
				bson.D{{Key: "_id", Value: "e2"}, {Key: "type", Value: "product_view"}, {Key: "path", Value: "/p/3"}, {Key: "productId", Value: 3}, {Key: "createdAt", Value: now}},
			),
			mtest.CreateCursorResponse(0, ns, mtest.NextBatch),
		)

		events, err := NewMongoRepository(mt.Coll).ListSince(context.Background(), now.Add(-time.Hour))
		require.NoError(mt, err)
		require.Len(mt, events, 2)
		assert.Equal(mt, ProductView, events[1].Type)
		require.NotNil(mt, events[1].ProductID)
		assert.Equal(mt, 3, *events[1].ProductID)
	})
}
