package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"github.com/Freeeeeet/clinic_scheduler/internal/repository/base"
	"github.com/google/uuid"
)

type EducationRepository struct {
	*base.Repository
}

func NewEducationRepository(db base.DBTX) *EducationRepository {
	return &EducationRepository{Repository: base.NewRepository(db)}
}

// Create добавляет запись об образовании врача
func (r *EducationRepository) Create(ctx context.Context, education *model.DoctorEducation) error {
	query := `
		INSERT INTO doctor_educations (id, doctor_id, institution, faculty, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.QueryRow(
		ctx, query,
		education.ID,
		education.DoctorID,
		education.Institution,
		education.Faculty,
		education.StartDate,
		education.EndDate,
	).Scan(&education.CreatedAt)

	if err != nil {
		return fmt.Errorf("create doctor education: %w", err)
	}

	return nil
}

// ListByDoctor получает образование врача
func (r *EducationRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorEducation, error) {
	query := `
		SELECT id, doctor_id, institution, faculty, start_date, end_date, created_at
		FROM doctor_educations
		WHERE doctor_id = $1
		ORDER BY start_date NULLS LAST, created_at
	`

	rows, err := r.Query(ctx, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list doctor educations: %w", err)
	}
	defer rows.Close()

	var educations []*model.DoctorEducation
	for rows.Next() {
		var education model.DoctorEducation
		err := rows.Scan(
			&education.ID,
			&education.DoctorID,
			&education.Institution,
			&education.Faculty,
			&education.StartDate,
			&education.EndDate,
			&education.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan doctor education: %w", err)
		}
		educations = append(educations, &education)
	}

	return educations, rows.Err()
}

// Delete удаляет запись об образовании
func (r *EducationRepository) Delete(ctx context.Context, doctorID, id uuid.UUID) (bool, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM doctor_educations WHERE id = $1 AND doctor_id = $2`, id, doctorID)
	if err != nil {
		return false, fmt.Errorf("delete doctor education: %w", err)
	}

	return affected > 0, nil
}

// DeleteByDoctor удаляет всё образование врача
func (r *EducationRepository) DeleteByDoctor(ctx context.Context, doctorID uuid.UUID) error {
	if _, err := r.DB().Exec(ctx, `DELETE FROM doctor_educations WHERE doctor_id = $1`, doctorID); err != nil {
		return fmt.Errorf("delete doctor educations: %w", err)
	}
	return nil
}
