package repository

import (
    "context"
    "errors"
    "time"

    "github.com/google/uuid"
    "gorm.io/gorm"
    "gorm.io/gorm/clause"

    "github.com/d60-Lab/forum-core/internal/model"
)

type MetadataRepository interface {
    UpsertValue(ctx context.Context, name, value string) error
    GetValue(ctx context.Context, name string) (string, bool, error)
}

type metadataRepository struct{ db *gorm.DB }

func NewMetadataRepository(db *gorm.DB) MetadataRepository { return &metadataRepository{db: db} }

func (r *metadataRepository) UpsertValue(ctx context.Context, name, value string) error {
    m := &model.DatabaseMetadata{ID: uuid.New().String(), Name: name, Value: value, UpdatedAt: time.Now()}
    return r.db.WithContext(ctx).Clauses(clause.OnConflict{
        Columns:   []clause.Column{{Name: "name"}},
        DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
    }).Create(m).Error
}

func (r *metadataRepository) GetValue(ctx context.Context, name string) (string, bool, error) {
    var m model.DatabaseMetadata
    err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error
    if err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return "", false, nil
        }
        return "", false, err
    }
    return m.Value, true, nil
}
