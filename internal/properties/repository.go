package properties

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository persists properties and their calculations
type Repository interface {
	CreateProperty(ctx context.Context, p *Property, emission *EmissionRecord, recs []RecommendationRecord) error
	GetProperty(ctx context.Context, id uuid.UUID) (*Property, error)
	ListProperties(ctx context.Context) ([]Summary, error)
	ReplaceCalculation(ctx context.Context, propertyID uuid.UUID, emission *EmissionRecord, recs []RecommendationRecord) error
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewRepository returns a Postgres backed repository
func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const insertEmission = `
	INSERT INTO property_emissions (
		property_id, total_kg_co2e, agriculture_kg_co2e, livestock_kg_co2e,
		fuel_kg_co2e, credit_potential_tco2e, calculated_at
	) VALUES (
		:property_id, :total_kg_co2e, :agriculture_kg_co2e, :livestock_kg_co2e,
		:fuel_kg_co2e, :credit_potential_tco2e, :calculated_at
	)`

const insertRecommendation = `
	INSERT INTO property_recommendations (
		property_id, position, action, description, potential_reduction_kg_co2e
	) VALUES (
		:property_id, :position, :action, :description, :potential_reduction_kg_co2e
	)`

func (r *postgresRepository) CreateProperty(ctx context.Context, p *Property, emission *EmissionRecord, recs []RecommendationRecord) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO properties (
				id, name, location, total_area_ha, agricultural_area_ha,
				fertilizer_use_kg_ha_year, fuel_liters_year, pasture_area_ha, cattle_count
			) VALUES (
				:id, :name, :location, :total_area_ha, :agricultural_area_ha,
				:fertilizer_use_kg_ha_year, :fuel_liters_year, :pasture_area_ha, :cattle_count
			)
			RETURNING created_at`

		rows, err := sqlx.NamedQueryContext(ctx, tx, query, p)
		if err != nil {
			return fmt.Errorf("failed to insert property: %w", err)
		}
		if rows.Next() {
			if err := rows.Scan(&p.CreatedAt); err != nil {
				rows.Close()
				return fmt.Errorf("failed to read property timestamp: %w", err)
			}
		}
		rows.Close()

		return insertCalculation(ctx, tx, emission, recs)
	})
}

func (r *postgresRepository) GetProperty(ctx context.Context, id uuid.UUID) (*Property, error) {
	var p Property
	err := r.db.GetContext(ctx, &p, `
		SELECT id, name, location, total_area_ha, agricultural_area_ha,
		       fertilizer_use_kg_ha_year, fuel_liters_year, pasture_area_ha, cattle_count, created_at
		FROM properties WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}

	var emission EmissionRecord
	err = r.db.GetContext(ctx, &emission, `SELECT * FROM property_emissions WHERE property_id = $1`, id)
	switch {
	case err == nil:
		p.Emission = &emission
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("failed to get property emission: %w", err)
	}

	err = r.db.SelectContext(ctx, &p.Recommendations, `
		SELECT property_id, position, action, description, potential_reduction_kg_co2e
		FROM property_recommendations WHERE property_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get property recommendations: %w", err)
	}

	return &p, nil
}

func (r *postgresRepository) ListProperties(ctx context.Context) ([]Summary, error) {
	var summaries []Summary
	err := r.db.SelectContext(ctx, &summaries, `
		SELECT p.id, p.name, p.location, p.total_area_ha, p.created_at,
		       COALESCE(e.total_kg_co2e, 0) AS total_kg_co2e,
		       COALESCE(e.credit_potential_tco2e, 0) AS credit_potential_tco2e
		FROM properties p
		LEFT JOIN property_emissions e ON e.property_id = p.id
		ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return summaries, nil
}

func (r *postgresRepository) ReplaceCalculation(ctx context.Context, propertyID uuid.UUID, emission *EmissionRecord, recs []RecommendationRecord) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		var exists bool
		if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM properties WHERE id = $1)`, propertyID); err != nil {
			return fmt.Errorf("failed to check property: %w", err)
		}
		if !exists {
			return ErrNotFound
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM property_recommendations WHERE property_id = $1`, propertyID); err != nil {
			return fmt.Errorf("failed to clear recommendations: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM property_emissions WHERE property_id = $1`, propertyID); err != nil {
			return fmt.Errorf("failed to clear emission: %w", err)
		}

		return insertCalculation(ctx, tx, emission, recs)
	})
}

func insertCalculation(ctx context.Context, tx *sqlx.Tx, emission *EmissionRecord, recs []RecommendationRecord) error {
	if _, err := tx.NamedExecContext(ctx, insertEmission, emission); err != nil {
		return fmt.Errorf("failed to insert emission: %w", err)
	}
	for i := range recs {
		if _, err := tx.NamedExecContext(ctx, insertRecommendation, &recs[i]); err != nil {
			return fmt.Errorf("failed to insert recommendation: %w", err)
		}
	}
	return nil
}

func (r *postgresRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
