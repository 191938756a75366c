package remote

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/sokawa/dayboard/internal/models"
)

// DB is the sqlite-backed implementation of Store. Mutations fan out to
// change-feed subscribers after the row is committed, so a second session on
// the same store sees live inserts, updates and deletes.
type DB struct {
	db   *gorm.DB
	feed *feed
}

// Open connects to the database at path and runs migrations. An empty path
// defaults to ~/.dayboard/dayboard.db.
func Open(path string) (*DB, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		path = filepath.Join(home, ".dayboard", "dayboard.db")
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Quiet by default
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.Task{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DB{db: db, feed: newFeed()}, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SelectTasks returns all tasks for the principal, newest date first, newest
// creation time first within a date.
func (d *DB) SelectTasks(ctx context.Context, principalID string) ([]models.Task, error) {
	var tasks []models.Task
	err := d.db.WithContext(ctx).
		Where("principal_id = ?", principalID).
		Order("date DESC").
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// InsertTask persists a new task row and publishes an insert event.
func (d *DB) InsertTask(ctx context.Context, task models.Task) error {
	if err := d.db.WithContext(ctx).Create(&task).Error; err != nil {
		return err
	}
	d.feed.publish(task.PrincipalID, ChangeEvent{Type: EventInsert, Task: task})
	return nil
}

// UpdateTask applies a sparse column patch to the row and publishes an update
// event carrying the full post-update row.
func (d *DB) UpdateTask(ctx context.Context, id string, fields map[string]any) error {
	res := d.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("task %s not found", id)
	}

	var task models.Task
	if err := d.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return err
	}
	d.feed.publish(task.PrincipalID, ChangeEvent{Type: EventUpdate, Task: task})
	return nil
}

// UpsertTask inserts the task or replaces all columns of the existing row.
func (d *DB) UpsertTask(ctx context.Context, task models.Task) error {
	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&task).Error
	if err != nil {
		return err
	}
	d.feed.publish(task.PrincipalID, ChangeEvent{Type: EventUpdate, Task: task})
	return nil
}

// DeleteTask removes the row and publishes a delete event.
func (d *DB) DeleteTask(ctx context.Context, id string) error {
	var task models.Task
	if err := d.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return err
	}
	if err := d.db.WithContext(ctx).Delete(&models.Task{}, "id = ?", id).Error; err != nil {
		return err
	}
	d.feed.publish(task.PrincipalID, ChangeEvent{Type: EventDelete, Task: task})
	return nil
}

// Subscribe returns a change feed for the principal.
func (d *DB) Subscribe(principalID string) (<-chan ChangeEvent, func()) {
	return d.feed.subscribe(principalID)
}
