package cmd

import (
	"context"
	"fmt"
	"time"

	"vocab-manager/core/config"
	"vocab-manager/core/database"
	"vocab-manager/core/loader"
	"vocab-manager/core/logger"
	"vocab-manager/core/storage"
	"vocab-manager/feature/exercises"
	"vocab-manager/feature/integrity"
	"vocab-manager/feature/languages"
	"vocab-manager/feature/vocabulary"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// application is everything a command needs after bootstrap.
type application struct {
	cfg    *config.Config
	log    *zap.Logger
	db     *gorm.DB
	words  *vocabulary.Service
	images *integrity.Service
	loader *loader.Manager
}

// bootstrap loads the configuration, connects the database and, when
// withStorage is set, the image bucket, then registers every feature.
func bootstrap(ctx context.Context, withStorage bool) (*application, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	l.Info("Connected to database", zap.String("driver", cfg.Database.Driver), zap.String("name", cfg.Database.Name))

	// Image uploads are refused with image_storage_disabled when no bucket is available.
	var bucket *storage.Bucket
	if withStorage {
		if bucket, err = openBucket(ctx, cfg.Storage); err != nil {
			l.Warn("Image storage unavailable", zap.Error(err))
		}
	}
	var store vocabulary.ObjectStore
	if bucket != nil {
		store = bucket
	}

	langs := languages.NewService(db, languages.NewCache(time.Duration(cfg.Cache.LanguageTTLSeconds)*time.Second), l)
	words := vocabulary.NewService(db, langs, store, l)
	sets := exercises.NewService(db, words, l)

	mgr := loader.NewManager(l)
	mgr.Register(languages.NewFeature(langs))
	mgr.Register(vocabulary.NewFeature(words))
	mgr.Register(exercises.NewFeature(sets))

	a := &application{cfg: cfg, log: l, db: db, words: words, loader: mgr}
	if bucket != nil {
		a.images = integrity.NewService(db, bucket, l)
		mgr.Register(integrity.NewFeature(a.images))
	}
	return a, nil
}

func openBucket(ctx context.Context, cfg storage.Config) (*storage.Bucket, error) {
	client, err := storage.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	bucket := storage.NewBucket(client, cfg.Bucket)
	if err := bucket.Ensure(ctx); err != nil {
		return nil, err
	}
	return bucket, nil
}

func (a *application) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.log.Sync()
}
