package loader

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature is a self-contained module mounted on the API router.
type Feature interface {
	// Name returns the feature name used in logs.
	Name() string
	// IsEnabled reports whether the feature should be mounted.
	IsEnabled() bool
	// Load registers the feature's routes.
	Load(router fiber.Router) error
}

// Migrator is implemented by features that own database tables.
type Migrator interface {
	Migrate(db *gorm.DB) error
}

// Manager keeps the registered features in registration order.
type Manager struct {
	features []Feature
	logger   *zap.Logger
}

// NewManager creates an empty manager.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{logger: logger}
}

// Register adds a feature.
func (m *Manager) Register(f Feature) {
	m.features = append(m.features, f)
}

// Features returns the registered features.
func (m *Manager) Features() []Feature {
	return m.features
}

// LoadAll mounts every enabled feature on router.
func (m *Manager) LoadAll(router fiber.Router) error {
	for _, f := range m.features {
		if !f.IsEnabled() {
			m.logger.Info("Feature disabled", zap.String("feature", f.Name()))
			continue
		}
		if err := f.Load(router); err != nil {
			return fmt.Errorf("load feature %s: %w", f.Name(), err)
		}
		m.logger.Info("Feature loaded", zap.String("feature", f.Name()))
	}
	return nil
}

// MigrateAll runs the migrations of every enabled feature that owns tables.
func (m *Manager) MigrateAll(db *gorm.DB) error {
	for _, f := range m.features {
		mig, ok := f.(Migrator)
		if !ok || !f.IsEnabled() {
			continue
		}
		if err := mig.Migrate(db); err != nil {
			return fmt.Errorf("migrate feature %s: %w", f.Name(), err)
		}
		m.logger.Info("Feature migrated", zap.String("feature", f.Name()))
	}
	return nil
}
