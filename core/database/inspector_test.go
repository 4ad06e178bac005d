package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE test_words (id INTEGER PRIMARY KEY, Text TEXT, slug TEXT)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "test_words")
	require.NoError(t, err)
	assert.Len(t, columns, 3)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}
	assert.Equal(t, "integer", colMap["id"])
	assert.Equal(t, "text", colMap["text"])
	assert.Equal(t, "text", colMap["slug"])

	// PRAGMA table_info returns an empty result for unknown tables
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestGetTableColumns_MySQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectQuery("SHOW COLUMNS FROM `words`").
		WillReturnRows(sqlmock.NewRows([]string{"Field", "Type"}).
			AddRow("ID", "BIGINT UNSIGNED").
			AddRow("Text", "VARCHAR(256)"))

	columns, err := GetTableColumns(db, "words")
	require.NoError(t, err)
	assert.Equal(t, []ColumnInfo{{Field: "id", Type: "bigint unsigned"}, {Field: "text", Type: "varchar(256)"}}, columns)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMissingColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE tags (id INTEGER PRIMARY KEY, name TEXT)").Error)

	missing, err := MissingColumns(db, "tags", []string{"id", "Name", "author_id"})
	require.NoError(t, err)
	assert.Equal(t, []string{"author_id"}, missing)
}
