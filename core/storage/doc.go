// Package storage wraps the MinIO client used for uploaded word images.
//
// Client abstracts the provider so tests can use core/storage/mocks. Bucket scopes
// it to the configured bucket and adds the operations the features need:
// Ensure, Put, Open, List and batch Remove.
//
//	client, err := storage.NewClient(cfg)
//	images := storage.NewBucket(client, cfg.Bucket)
//	err = images.Put(ctx, "images/7/3.png", r, size, "image/png")
package storage
