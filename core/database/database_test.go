package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	t.Run("Invalid Connection", func(t *testing.T) {
		cfg := Config{
			Driver:         DriverMySQL,
			Host:           "localhost",
			Port:           9999, // Unused port
			User:           "root",
			Password:       "wrongpassword",
			Name:           "vocabulary",
			TimeoutSeconds: 1,
		}

		db, err := Connect(cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("Unsupported Driver", func(t *testing.T) {
		db, err := Connect(Config{Driver: "oracle"})
		assert.ErrorContains(t, err, "unsupported database driver")
		assert.Nil(t, db)
	})

	t.Run("SQLite In Memory", func(t *testing.T) {
		db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
		require.NoError(t, err)
		assert.Equal(t, "sqlite", db.Dialector.Name())

		// A single pooled connection keeps the in-memory schema visible to later queries.
		require.NoError(t, db.Exec("CREATE TABLE scratch (id INTEGER PRIMARY KEY)").Error)
		assert.True(t, db.Migrator().HasTable("scratch"))
	})
}

func TestOpenDialector(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		want   string
	}{
		{"Default Is MySQL", "", "mysql"},
		{"MySQL", DriverMySQL, "mysql"},
		{"Postgres", DriverPostgres, "postgres"},
		{"SQLite", DriverSQLite, "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := openDialector(Config{Driver: tt.driver, Host: "db", Port: 1, User: "u", Password: "p@ss", Name: "n"}, 5)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}
}
