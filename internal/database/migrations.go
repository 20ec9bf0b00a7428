package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/yukikurage/workspace-task-api/internal/models"
	"gorm.io/gorm"
)

type index struct {
	model   interface{}
	table   string
	name    string
	columns string
}

// indexes backs the task search filters and the membership lookups.
var indexes = []index{
	{&models.Task{}, "tasks", "idx_tasks_workspace_id", "workspace_id"},
	{&models.Task{}, "tasks", "idx_tasks_assigned_to_id", "assigned_to_id"},
	{&models.Task{}, "tasks", "idx_tasks_created_by_id", "created_by_id"},
	{&models.Task{}, "tasks", "idx_tasks_status", "status"},
	{&models.Task{}, "tasks", "idx_tasks_priority", "priority"},
	{&models.Task{}, "tasks", "idx_tasks_created_at", "created_at"},
	{nil, models.WorkspaceMemberTable, "idx_workspace_members_user_id", "user_id"},
}

// AddIndexes creates any missing secondary indexes.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range indexes {
		var exists bool
		if idx.model != nil {
			exists = migrator.HasIndex(idx.model, idx.name)
		} else {
			exists = migrator.HasIndex(idx.table, idx.name)
		}
		if exists {
			log.Debug().Str("index", idx.name).Msg("Index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info().Str("index", idx.name).Str("table", idx.table).Str("columns", idx.columns).Msg("Created index")
	}

	return nil
}
