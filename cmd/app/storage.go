package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wichananm65/gift-store-backend/internal/analytics"
	"github.com/wichananm65/gift-store-backend/internal/catalog"
	"github.com/wichananm65/gift-store-backend/internal/config"
	"github.com/wichananm65/gift-store-backend/internal/database"
	"github.com/wichananm65/gift-store-backend/internal/fallback"
	"github.com/wichananm65/gift-store-backend/internal/product"
	"github.com/wichananm65/gift-store-backend/internal/seo"
	"github.com/wichananm65/gift-store-backend/internal/settings"
)

const (
	backendPostgres = "postgres"
	backendMongo    = "mongo"
	backendMemory   = "memory"

	analyticsMemoryLimit = 50000
	seoMemoryLimit       = 5000
)

// storage holds the connections the configured backends need. A backend
// whose connection fails at startup is left out of every chain.
type storage struct {
	backends    []string
	db          *sql.DB
	mongoClient *mongo.Client
	mongo       *mongo.Database
}

func openStorage(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (*storage, error) {
	s := &storage{}
	for _, name := range cfg.Backends {
		switch name {
		case backendPostgres:
			if cfg.DatabaseURL == "" {
				log.Warn("postgres backend configured without DATABASE_URL, skipping it")
				continue
			}
			db, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
			if err != nil {
				log.WithError(err).Warn("postgres unavailable, skipping it")
				continue
			}
			if err := database.Migrate(ctx, db); err != nil {
				db.Close()
				log.WithError(err).Warn("postgres migrations failed, skipping it")
				continue
			}
			s.db = db
		case backendMongo:
			if cfg.MongoURI == "" {
				log.Warn("mongo backend configured without MONGO_URI, skipping it")
				continue
			}
			client, err := database.ConnectMongo(ctx, cfg.MongoURI)
			if err != nil {
				log.WithError(err).Warn("mongo unavailable, skipping it")
				continue
			}
			s.mongoClient = client
			s.mongo = client.Database(cfg.MongoDB)
		case backendMemory:
		default:
			s.Close(ctx)
			return nil, fmt.Errorf("unknown storage backend %q", name)
		}
		s.backends = append(s.backends, name)
	}

	if len(s.backends) == 0 {
		log.Warn("no storage backend available, falling back to memory")
		s.backends = []string{backendMemory}
	}
	log.WithField("backends", s.backends).Info("storage ready")
	return s, nil
}

func (s *storage) Close(ctx context.Context) {
	if s.db != nil {
		s.db.Close()
	}
	if s.mongoClient != nil {
		_ = s.mongoClient.Disconnect(ctx)
	}
}

type repositories struct {
	products  product.Repository
	catalog   catalog.Repository
	settings  settings.Repository
	analytics analytics.Repository
	seo       seo.Repository
}

// repositories builds one fallback chain per domain in the configured order.
func (s *storage) repositories(ctx context.Context, log logrus.FieldLogger) repositories {
	var (
		pb []fallback.Backend[product.Repository]
		cb []fallback.Backend[catalog.Repository]
		sb []fallback.Backend[settings.Repository]
		ab []fallback.Backend[analytics.Repository]
		eb []fallback.Backend[seo.Repository]
	)

	for _, name := range s.backends {
		switch name {
		case backendPostgres:
			pb = append(pb, fallback.Backend[product.Repository]{Name: name, Repo: product.NewPostgresRepository(s.db)})
			cb = append(cb, fallback.Backend[catalog.Repository]{Name: name, Repo: catalog.NewPostgresRepository(s.db)})
			sb = append(sb, fallback.Backend[settings.Repository]{Name: name, Repo: settings.NewPostgresRepository(s.db)})
			log.Warn("postgres has no analytics or seo store, those domains skip it")
		case backendMongo:
			events := analytics.NewMongoRepository(s.mongo.Collection(analytics.CollectionName))
			if err := events.EnsureIndexes(ctx); err != nil {
				log.WithError(err).Warn("could not create analytics indexes")
			}
			pb = append(pb, fallback.Backend[product.Repository]{Name: name, Repo: product.NewMongoRepository(s.mongo.Collection(product.CollectionName))})
			cb = append(cb, fallback.Backend[catalog.Repository]{Name: name, Repo: catalog.NewMongoRepository(s.mongo.Collection(catalog.CollectionName))})
			sb = append(sb, fallback.Backend[settings.Repository]{Name: name, Repo: settings.NewMongoRepository(s.mongo.Collection(settings.CollectionName))})
			ab = append(ab, fallback.Backend[analytics.Repository]{Name: name, Repo: events})
			eb = append(eb, fallback.Backend[seo.Repository]{Name: name, Repo: seo.NewMongoRepository(s.mongo.Collection(seo.CollectionName))})
		case backendMemory:
			pb = append(pb, fallback.Backend[product.Repository]{Name: name, Repo: product.NewInMemoryRepository(nil)})
			cb = append(cb, fallback.Backend[catalog.Repository]{Name: name, Repo: catalog.NewInMemoryRepository(nil)})
			sb = append(sb, fallback.Backend[settings.Repository]{Name: name, Repo: settings.NewInMemoryRepository()})
			ab = append(ab, fallback.Backend[analytics.Repository]{Name: name, Repo: analytics.NewInMemoryRepository(analyticsMemoryLimit)})
			eb = append(eb, fallback.Backend[seo.Repository]{Name: name, Repo: seo.NewInMemoryRepository(seoMemoryLimit)})
		}
	}

	if len(ab) == 0 {
		log.Warn("no analytics backend left, recording events in memory")
		ab = append(ab, fallback.Backend[analytics.Repository]{Name: backendMemory, Repo: analytics.NewInMemoryRepository(analyticsMemoryLimit)})
		eb = append(eb, fallback.Backend[seo.Repository]{Name: backendMemory, Repo: seo.NewInMemoryRepository(seoMemoryLimit)})
	}

	return repositories{
		products:  product.NewFallbackRepository(log, pb...),
		catalog:   catalog.NewFallbackRepository(log, cb...),
		settings:  settings.NewFallbackRepository(log, sb...),
		analytics: analytics.NewFallbackRepository(log, ab...),
		seo:       seo.NewFallbackRepository(log, eb...),
	}
}
