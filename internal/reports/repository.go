package reports

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for report archive persistence
type Repository interface {
	CreateArchive(ctx context.Context, archive *Archive) error
	GetArchive(ctx context.Context, id uuid.UUID) (*Archive, error)
	ListArchives(ctx context.Context, subjectID *uuid.UUID, limit int) ([]Archive, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a new report archive repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateArchive(ctx context.Context, archive *Archive) error {
	return r.db.WithContext(ctx).Create(archive).Error
}

func (r *gormRepository) GetArchive(ctx context.Context, id uuid.UUID) (*Archive, error) {
	var archive Archive
	err := r.db.WithContext(ctx).First(&archive, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrArchiveNotFound
	}
	if err != nil {
		return nil, err
	}
	return &archive, nil
}

func (r *gormRepository) ListArchives(ctx context.Context, subjectID *uuid.UUID, limit int) ([]Archive, error) {
	var archives []Archive
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if subjectID != nil {
		query = query.Where("subject_id = ?", *subjectID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&archives).Error; err != nil {
		return nil, err
	}
	return archives, nil
}
