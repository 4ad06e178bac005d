// Package loader mounts features on the HTTP router.
//
// Each feature implements Feature; those owning tables also implement Migrator so
// that the migrate command and the server start-up can create their schema.
//
//	mgr := loader.NewManager(logger)
//	mgr.Register(languages.NewFeature(db, logger, ttl))
//	if err := mgr.LoadAll(api); err != nil { ... }
package loader
