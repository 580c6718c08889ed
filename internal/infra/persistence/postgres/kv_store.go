package postgres

import (
	"context"
	"strings"
	"time"

	"emart/internal/domain/repository"
	"emart/internal/errors"
	"emart/internal/infra/persistence/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

// kvStore implements repository.KeyValueStore on the kv_documents table.
type kvStore struct {
	db *gorm.DB
}

// NewKeyValueStore is the constructor for kvStore.
func NewKeyValueStore(db *gorm.DB) repository.KeyValueStore {
	return &kvStore{db: db}
}

// Migrate creates the kv_documents table when missing.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return errors.Wrap(db.WithContext(ctx).AutoMigrate(&model.DocumentModel{}), "failed to migrate kv_documents")
}

// Get reads from the primary so read-modify-write cycles never see a lagging replica.
func (s *kvStore) Get(ctx context.Context, key string) ([]byte, error) {
	var doc model.DocumentModel

	if err := s.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where("key = ?", key).
		First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrKeyNotFound
		}

		return nil, errors.Wrapf(err, "failed to read document %s", key)
	}

	return []byte(doc.Value), nil
}

func (s *kvStore) Set(ctx context.Context, key string, value []byte) error {
	now := time.Now()
	doc := &model.DocumentModel{
		Key:       key,
		Value:     string(value),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(doc).Error; err != nil {
		return errors.Wrapf(err, "failed to write document %s", key)
	}

	return nil
}

func (s *kvStore) Remove(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).
		Where("key = ?", key).
		Delete(&model.DocumentModel{}).Error; err != nil {
		return errors.Wrapf(err, "failed to delete document %s", key)
	}

	return nil
}

func (s *kvStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	if err := s.db.WithContext(ctx).
		Model(&model.DocumentModel{}).
		Where("key LIKE ?", escapeLike(prefix)+"%").
		Order("key").
		Pluck("key", &keys).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to list documents %s", prefix)
	}

	return keys, nil
}

// escapeLike quotes LIKE wildcards using the default backslash escape.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
