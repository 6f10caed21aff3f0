// Package migration runs versioned schema changes against the SQL backend.
//
// Migrations register themselves from database/migrations:
//
//	func init() {
//	    migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
//	}
//
// and run via `storefront migrate` / `storefront migrate:rollback`.
package migration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// Migration is one reversible schema change.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// record is a row of the tracking table.
type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "storefront_migrations" }

type named struct {
	name string
	m    Migration
}

var (
	mu       sync.Mutex
	registry []named
)

// Register adds a migration. Names are timestamp-prefixed and run in
// lexical order.
func Register(name string, m Migration) {
	mu.Lock()
	defer mu.Unlock()
	registry = append(registry, named{name: name, m: m})
}

func registered() []named {
	mu.Lock()
	defer mu.Unlock()
	out := append([]named(nil), registry...)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Runner executes and tracks migrations.
type Runner struct {
	db *gorm.DB
}

// New creates a Runner backed by db.
func New(db *gorm.DB) *Runner {
	return &Runner{db: db}
}

func (r *Runner) ensureTable(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&record{})
}

func (r *Runner) ran(ctx context.Context) (map[string]record, error) {
	var rows []record
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]record, len(rows))
	for _, rec := range rows {
		out[rec.Name] = rec
	}
	return out, nil
}

// Run applies every pending migration as one batch and returns how many ran.
func (r *Runner) Run(ctx context.Context) (int, error) {
	if err := r.ensureTable(ctx); err != nil {
		return 0, fmt.Errorf("migration: ensure table: %w", err)
	}
	done, err := r.ran(ctx)
	if err != nil {
		return 0, fmt.Errorf("migration: fetch applied: %w", err)
	}

	batch := r.nextBatch(ctx)
	count := 0
	for _, reg := range registered() {
		if _, ok := done[reg.name]; ok {
			continue
		}
		logger.Info("migration: running", "name", reg.name)
		if err := reg.m.Up(r.db.WithContext(ctx)); err != nil {
			return count, fmt.Errorf("migration: %s up: %w", reg.name, err)
		}
		if err := r.db.WithContext(ctx).Create(&record{Name: reg.name, Batch: batch}).Error; err != nil {
			return count, fmt.Errorf("migration: record %s: %w", reg.name, err)
		}
		count++
	}

	if count == 0 {
		logger.Info("migration: nothing to migrate")
	} else {
		logger.Info("migration: done", "ran", count, "batch", batch)
	}
	return count, nil
}

// Rollback reverses the most recent batch and returns how many were undone.
func (r *Runner) Rollback(ctx context.Context) (int, error) {
	if err := r.ensureTable(ctx); err != nil {
		return 0, fmt.Errorf("migration: ensure table: %w", err)
	}

	last := r.nextBatch(ctx) - 1
	if last == 0 {
		return 0, nil
	}

	var rows []record
	if err := r.db.WithContext(ctx).Where("batch = ?", last).Order("id desc").Find(&rows).Error; err != nil {
		return 0, err
	}

	byName := make(map[string]Migration)
	for _, reg := range registered() {
		byName[reg.name] = reg.m
	}

	count := 0
	for _, rec := range rows {
		m, ok := byName[rec.Name]
		if !ok {
			return count, fmt.Errorf("migration: cannot roll back %s: not registered", rec.Name)
		}
		logger.Info("migration: rolling back", "name", rec.Name)
		if err := m.Down(r.db.WithContext(ctx)); err != nil {
			return count, fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if err := r.db.WithContext(ctx).Delete(&rec).Error; err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// Status writes every registered migration and whether it has run.
func (r *Runner) Status(ctx context.Context, w io.Writer) error {
	if err := r.ensureTable(ctx); err != nil {
		return err
	}
	done, err := r.ran(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%-50s  %-8s  %s\n", "Migration", "Status", "Batch")
	for _, reg := range registered() {
		if rec, ok := done[reg.name]; ok {
			fmt.Fprintf(w, "%-50s  %-8s  %d\n", reg.name, "Ran", rec.Batch)
		} else {
			fmt.Fprintf(w, "%-50s  %-8s  -\n", reg.name, "Pending")
		}
	}
	return nil
}

func (r *Runner) nextBatch(ctx context.Context) int {
	var latest struct{ Max int }
	r.db.WithContext(ctx).Model(&record{}).Select("COALESCE(MAX(batch), 0) as max").Scan(&latest)
	return latest.Max + 1
}
