// Package store persists countries and tasks in Postgres through gorm.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bihua-university/countries/internal/country"
	"github.com/bihua-university/countries/internal/document"
	"github.com/bihua-university/countries/internal/task"
)

type DB struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Open connects to dsn and migrates the schema.
func Open(dsn string, log *slog.Logger) (*DB, error) {
	if log == nil {
		log = slog.Default()
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.AutoMigrate(&CountryModel{}, &TaskModel{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	log.Info("database ready")
	return &DB{db: db, logger: log}, nil
}

func (d *DB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *DB) Countries() *CountryStore { return &CountryStore{db: d.db} }

func (d *DB) Tasks() *TaskStore { return &TaskStore{db: d.db} }

// CountryStore implements country.Store.
type CountryStore struct {
	db *gorm.DB
}

var _ country.Store = (*CountryStore)(nil)

func (s *CountryStore) FindByCommonName(ctx context.Context, name string) (document.Value, error) {
	var m CountryModel
	err := s.db.WithContext(ctx).Where("common_name = ?", name).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return document.Value{}, country.ErrNotFound
	}
	if err != nil {
		return document.Value{}, err
	}
	doc, err := document.Parse([]byte(m.Data))
	if err != nil {
		return document.Value{}, fmt.Errorf("country %s: %w", name, err)
	}
	return doc, nil
}

// Save inserts the document or replaces the stored one.
func (s *CountryStore) Save(ctx context.Context, name string, doc document.Value) error {
	db := s.db.WithContext(ctx)

	var existing CountryModel
	result := db.Where("common_name = ?", name).First(&existing)
	switch {
	case result.Error == nil:
		existing.Data = doc.String()
		return db.Save(&existing).Error
	case errors.Is(result.Error, gorm.ErrRecordNotFound):
		return db.Create(&CountryModel{CommonName: name, Data: doc.String()}).Error
	default:
		return result.Error
	}
}

// TaskStore implements task.Store.
type TaskStore struct {
	db *gorm.DB
}

var _ task.Store = (*TaskStore)(nil)

func (s *TaskStore) Insert(ctx context.Context, t task.Task) error {
	m := TaskModel{
		TaskID:   t.ID,
		Status:   string(t.Status),
		CountryA: t.CountryA,
		CountryB: t.CountryB,
		Result:   resultText(t.Result),
		Error:    t.Error,
	}
	m.CreatedAt = t.CreatedAt
	m.UpdatedAt = t.UpdatedAt
	return s.db.WithContext(ctx).Create(&m).Error
}

// Transition is a single conditional UPDATE, so two writers racing on the
// same Running task cannot both succeed.
func (s *TaskStore) Transition(ctx context.Context, id string, from, to task.Status, result *document.Value, errText string) error {
	db := s.db.WithContext(ctx)
	res := db.Model(&TaskModel{}).
		Where("task_id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{
			"status": string(to),
			"result": resultText(result),
			"error":  errText,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var n int64
	if err := db.Model(&TaskModel{}).Where("task_id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return task.ErrNotFound
	}
	return task.ErrNotRunning
}

func (s *TaskStore) Get(ctx context.Context, id string) (task.Task, error) {
	var m TaskModel
	err := s.db.WithContext(ctx).Where("task_id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return task.Task{}, task.ErrNotFound
	}
	if err != nil {
		return task.Task{}, err
	}

	t := task.Task{
		ID:        m.TaskID,
		Status:    task.Status(m.Status),
		CountryA:  m.CountryA,
		CountryB:  m.CountryB,
		Error:     m.Error,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Result != nil {
		v, err := document.Parse([]byte(*m.Result))
		if err != nil {
			return task.Task{}, fmt.Errorf("task %s result: %w", id, err)
		}
		t.Result = &v
	}
	return t, nil
}

func resultText(v *document.Value) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}
