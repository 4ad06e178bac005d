package cmd

import (
	"context"
	"fmt"

	"vocab-manager/core/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// requiredColumns are checked after migration; a missing one means the
// database was created by an incompatible version.
var requiredColumns = map[string][]string{
	"languages":           {"id", "name", "iso_code"},
	"user_languages":      {"user_id", "language_id", "kind"},
	"words":               {"id", "author_id", "language_id", "text", "slug", "activity_status", "is_problematic"},
	"translations":        {"id", "author_id", "language_id", "text", "slug"},
	"word_translations":   {"word_id", "translation_id"},
	"relations":           {"id", "kind", "from_word_id", "to_word_id"},
	"image_associations":  {"id", "author_id", "object_key"},
	"collections":         {"id", "author_id", "title", "folded"},
	"collection_words":    {"collection_id", "word_id"},
	"word_sets":           {"id", "author_id", "exercise", "name", "folded"},
	"word_set_words":      {"word_set_id", "word_id"},
	"translator_settings": {"user_id", "mode", "answer_time_limit", "repetitions", "from_language"},
	"favorite_exercises":  {"user_id", "exercise"},
}

// migrateCmd creates or updates the tables of every feature.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Runs the migrations of every enabled feature, seeds the reference
languages and word types, then verifies the resulting columns.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(context.Background(), false)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.loader.MigrateAll(a.db); err != nil {
			return err
		}
		if err := verifySchema(a.db, a.log); err != nil {
			return err
		}
		a.log.Info("Migration complete")
		return nil
	},
}

func verifySchema(db *gorm.DB, l *zap.Logger) error {
	broken := 0
	for table, columns := range requiredColumns {
		missing, err := database.MissingColumns(db, table, columns)
		if err != nil {
			return fmt.Errorf("inspect %s: %w", table, err)
		}
		if len(missing) > 0 {
			l.Error("Table is missing columns", zap.String("table", table), zap.Strings("columns", missing))
			broken++
		}
	}
	if broken > 0 {
		return fmt.Errorf("%d tables do not match the expected schema", broken)
	}
	return nil
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
