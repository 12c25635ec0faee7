package journal

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"agents-manager/core/database"
	"agents-manager/core/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Config controls the sync journal.
type Config struct {
	// Enabled turns journaling on.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Database is where records are stored.
	Database database.Config `mapstructure:"database"`
}

// Journal persists reconcile events.
type Journal struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Open connects to the configured database and migrates it. A relative sqlite path
// is resolved against the project root.
func Open(cfg Config, root string, logger *zap.Logger) (*Journal, error) {
	dbCfg := cfg.Database
	if (dbCfg.Driver == database.DriverSQLite || dbCfg.Driver == "") &&
		dbCfg.Name != ":memory:" && dbCfg.Name != "" && !filepath.IsAbs(dbCfg.Name) {
		dbCfg.Name = filepath.Join(root, dbCfg.Name)
	}

	db, err := database.Connect(dbCfg)
	if err != nil {
		return nil, err
	}
	j := New(db, logger)
	if err := j.Migrate(); err != nil {
		_ = j.Close()
		return nil, err
	}
	return j, nil
}

// New wraps an existing connection. The schema is not touched.
func New(db *gorm.DB, logger *zap.Logger) *Journal {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Journal{db: db, logger: logger}
}

// Migrate creates or extends the journal table and verifies its columns.
func (j *Journal) Migrate() error {
	if err := j.db.AutoMigrate(&Record{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", TableName, err)
	}
	missing, err := database.MissingColumns(j.db, TableName, columns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %s is missing columns: %s", TableName, strings.Join(missing, ", "))
	}
	return nil
}

// Observe records an event. Storage failures are logged, never returned, so a broken
// journal cannot fail a sync.
func (j *Journal) Observe(e reconcile.Event) {
	record := Record{
		CreatedAt:   e.Time,
		Kind:        string(e.Kind),
		Operation:   string(e.Operation),
		Action:      string(e.Action),
		Environment: e.Environment,
		RemoteID:    e.RemoteID,
		ConfigPath:  e.ConfigPath,
		Hash:        e.Hash,
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	if e.Err != nil {
		record.Error = e.Err.Error()
	}

	if err := j.db.Create(&record).Error; err != nil {
		j.logger.Warn("Failed to write journal record",
			zap.String("kind", record.Kind),
			zap.String("remote_id", record.RemoteID),
			zap.Error(err),
		)
	}
}

// Recent returns up to limit records, newest first, optionally for one kind.
func (j *Journal) Recent(ctx context.Context, limit int, kind string) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	query := j.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(limit)
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var records []Record
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	return records, nil
}

// Close releases the underlying connection.
func (j *Journal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
