package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/serroba/shortcode/internal/shortener"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// shortURLRecord is the gorm model for the short_urls table.
type shortURLRecord struct {
	Code        string  `gorm:"primaryKey;size:16"`
	OriginalURL string  `gorm:"not null"`
	URLHash     *string `gorm:"index"`
	CreatedAt   time.Time
}

func (shortURLRecord) TableName() string {
	return "short_urls"
}

// OpenSQLite opens a SQLite database at path configured for GormStore.
func OpenSQLite(path string) (*gorm.DB, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	return db, nil
}

// GormStore is a gorm implementation of shortener.Repository.
// The *gorm.DB must be opened with TranslateError enabled.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new gorm-backed URL store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// EnsureSchema migrates the short_urls table.
func (g *GormStore) EnsureSchema(ctx context.Context) error {
	return g.db.WithContext(ctx).AutoMigrate(&shortURLRecord{})
}

func (g *GormStore) Insert(ctx context.Context, shortURL *shortener.ShortURL) error {
	record := shortURLRecord{
		Code:        string(shortURL.Code),
		OriginalURL: shortURL.OriginalURL,
		URLHash:     nullableString(shortURL.URLHash),
		CreatedAt:   shortURL.CreatedAt,
	}

	err := g.db.WithContext(ctx).Create(&record).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shortener.ErrCodeConflict
	}

	return err
}

func (g *GormStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	var record shortURLRecord

	err := g.db.WithContext(ctx).Where("code = ?", string(code)).Take(&record).Error
	if err != nil {
		return nil, translateNotFound(err)
	}

	return record.toShortURL(), nil
}

// GetByHash returns the oldest record created for hash.
func (g *GormStore) GetByHash(ctx context.Context, hash shortener.URLHash) (*shortener.ShortURL, error) {
	var record shortURLRecord

	err := g.db.WithContext(ctx).
		Where("url_hash = ?", string(hash)).
		Order("created_at").
		Order("code").
		Take(&record).Error
	if err != nil {
		return nil, translateNotFound(err)
	}

	return record.toShortURL(), nil
}

// Ping reports whether the database is reachable.
func (g *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

// Shutdown closes the underlying connection pool.
func (g *GormStore) Shutdown() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func (r shortURLRecord) toShortURL() *shortener.ShortURL {
	url := &shortener.ShortURL{
		Code:        shortener.Code(r.Code),
		OriginalURL: r.OriginalURL,
		CreatedAt:   r.CreatedAt,
	}

	if r.URLHash != nil {
		url.URLHash = shortener.URLHash(*r.URLHash)
	}

	return url
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shortener.ErrNotFound
	}

	return err
}

// Compile-time check.
var _ shortener.Repository = (*GormStore)(nil)
