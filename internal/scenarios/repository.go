package scenarios

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists scenarios
type Repository interface {
	Create(ctx context.Context, scenario *Scenario) error
	GetByID(ctx context.Context, id uuid.UUID) (*Scenario, error)
	List(ctx context.Context) ([]Scenario, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository returns a gorm backed repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, scenario *Scenario) error {
	return r.db.WithContext(ctx).Create(scenario).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Scenario, error) {
	var scenario Scenario
	err := r.db.WithContext(ctx).First(&scenario, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &scenario, nil
}

// List returns scenarios newest first
func (r *gormRepository) List(ctx context.Context) ([]Scenario, error) {
	var scenarios []Scenario
	err := r.db.WithContext(ctx).Order("calculated_at DESC").Find(&scenarios).Error
	return scenarios, err
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Scenario{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&Scenario{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete scenarios: %w", result.Error)
	}
	return result.RowsAffected, nil
}
