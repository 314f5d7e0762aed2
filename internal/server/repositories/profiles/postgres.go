package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/nutrigate/internal/common"
	"github.com/dmitrijs2005/nutrigate/internal/dbx"
	"github.com/dmitrijs2005/nutrigate/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	query :=
		`SELECT user_id, full_name, age, height_cm, weight_kg, allergies, onboarding_completed, updated_at
		 FROM profiles
		 WHERE user_id = $1
		 `

	var (
		p         = &models.Profile{}
		age       sql.NullInt32
		height    sql.NullFloat64
		weight    sql.NullFloat64
		allergies sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.FullName, &age, &height, &weight, &allergies, &p.OnboardingCompleted, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	p.Age = int(age.Int32)
	p.HeightCm = height.Float64
	p.WeightKg = weight.Float64
	p.Allergies = allergies.String
	return p, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	query :=
		`INSERT INTO profiles (user_id, full_name, age, height_cm, weight_kg, allergies, onboarding_completed, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		 ON CONFLICT (user_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			age = EXCLUDED.age,
			height_cm = EXCLUDED.height_cm,
			weight_kg = EXCLUDED.weight_kg,
			allergies = EXCLUDED.allergies,
			onboarding_completed = EXCLUDED.onboarding_completed,
			updated_at = EXCLUDED.updated_at
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		p.UserID,
		p.FullName,
		sql.NullInt32{Int32: int32(p.Age), Valid: p.Age > 0},
		sql.NullFloat64{Float64: p.HeightCm, Valid: p.HeightCm > 0},
		sql.NullFloat64{Float64: p.WeightKg, Valid: p.WeightKg > 0},
		sql.NullString{String: p.Allergies, Valid: p.Allergies != ""},
		p.OnboardingCompleted,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}
