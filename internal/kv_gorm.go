package internal

import (
	"context"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"go.eggybyte.com/flagx/core/errors"
)

// overrideRecord is the persisted form of one key-value entry.
type overrideRecord struct {
	Key       string `gorm:"column:k;primaryKey;size:255"`
	Value     string `gorm:"column:v;type:text"`
	UpdatedAt time.Time
}

// TableName names the backing table.
func (overrideRecord) TableName() string {
	return "flag_kv"
}

// GormKVOptions holds the database connection settings for the durable
// key-value store.
type GormKVOptions struct {
	DSN             string        // Database connection string
	Driver          string        // mysql, postgres or sqlite
	MaxIdleConns    int           // Maximum idle connections (default: 10)
	MaxOpenConns    int           // Maximum open connections (default: 100)
	ConnMaxLifetime time.Duration // Maximum connection lifetime (default: 1h)
}

// GormKVStore is a durable KeyValueStore backed by a SQL database through
// GORM. A sqlite DSN gives a zero-dependency on-disk store; mysql and
// postgres serve shared deployments.
type GormKVStore struct {
	db *gorm.DB
}

// NewGormKVStore opens the database, migrates the backing table and
// returns the store.
func NewGormKVStore(opts GormKVOptions) (*GormKVStore, error) {
	if opts.DSN == "" {
		return nil, errors.New(errors.CodeInvalidArgument, "DSN is required")
	}

	dialector, err := gormDialector(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeStorage, "kv.open", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(errors.CodeStorage, "kv.open", err)
	}
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 10
	}
	if opts.MaxOpenConns == 0 {
		opts.MaxOpenConns = 100
	}
	if opts.ConnMaxLifetime == 0 {
		opts.ConnMaxLifetime = time.Hour
	}
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)

	if err := db.AutoMigrate(&overrideRecord{}); err != nil {
		return nil, errors.Wrap(errors.CodeStorage, "kv.migrate", err)
	}

	return &GormKVStore{db: db}, nil
}

// NewGormKVStoreFromDB wraps an existing GORM handle, migrating the
// backing table.
func NewGormKVStoreFromDB(db *gorm.DB) (*GormKVStore, error) {
	if db == nil {
		return nil, errors.New(errors.CodeInvalidArgument, "db is required")
	}
	if err := db.AutoMigrate(&overrideRecord{}); err != nil {
		return nil, errors.Wrap(errors.CodeStorage, "kv.migrate", err)
	}
	return &GormKVStore{db: db}, nil
}

// Get returns the stored value and whether the key exists.
func (s *GormKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var rec overrideRecord
	err := s.db.WithContext(ctx).First(&rec, "k = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, errors.Wrap(errors.CodeStorage, "kv.get", err)
	}
	return rec.Value, true, nil
}

// Set stores a value under key, inserting or updating as needed.
func (s *GormKVStore) Set(ctx context.Context, key string, value string) error {
	rec := overrideRecord{Key: key, Value: value, UpdatedAt: time.Now()}
	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return errors.Wrap(errors.CodeStorage, "kv.set", err)
	}
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *GormKVStore) Remove(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Delete(&overrideRecord{}, "k = ?", key).Error; err != nil {
		return errors.Wrap(errors.CodeStorage, "kv.remove", err)
	}
	return nil
}

// Keys returns all stored keys.
func (s *GormKVStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := s.db.WithContext(ctx).Model(&overrideRecord{}).Pluck("k", &keys).Error; err != nil {
		return nil, errors.Wrap(errors.CodeStorage, "kv.keys", err)
	}
	return keys, nil
}

// Close closes the underlying database connection.
func (s *GormKVStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(errors.CodeStorage, "kv.close", err)
	}
	return sqlDB.Close()
}

func gormDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite", "":
		return sqlite.Open(dsn), nil
	default:
		return nil, errors.Wrapf(errors.CodeInvalidArgument, "kv.open", nil, "unsupported driver: %s", driver)
	}
}
