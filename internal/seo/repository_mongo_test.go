package seo

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
	now := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	mt.Run("latest aggregates per path", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "s1"}, {Key: "path", Value: "/"}, {Key: "score", Value: 90}, {Key: "checkedAt", Value: now}},
			bson.D{{Key: "_id", Value: "s2"}, {Key: "path", Value: "/sobre"}, {Key: "score", Value: 70}, {Key: "checkedAt", Value: now}},
		))

		latest, err := NewMongoRepository(mt.Coll).Latest(context.Background())
		require.NoError(mt, err)
		require.Len(mt, latest, 2)
		assert.Equal(mt, 70, latest[1].Score)
	})

	mt.Run("save inserts", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		require.NoError(mt, NewMongoRepository(mt.Coll).Save(context.Background(), Snapshot{ID: "s3", Path: "/", CheckedAt: now}))
	})
}
