package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"github.com/Freeeeeet/clinic_scheduler/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ClinicRepository struct {
	*base.Repository
}

func NewClinicRepository(db base.DBTX) *ClinicRepository {
	return &ClinicRepository{Repository: base.NewRepository(db)}
}

// Create создаёт клинику
func (r *ClinicRepository) Create(ctx context.Context, clinic *model.Clinic) error {
	query := `
		INSERT INTO clinics (id, name, registered_address, actual_address)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := r.QueryRow(ctx, query, clinic.ID, clinic.Name, clinic.RegisteredAddress, clinic.ActualAddress).
		Scan(&clinic.CreatedAt, &clinic.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create clinic: %w", err)
	}

	return nil
}

// Update обновляет название и адреса клиники
func (r *ClinicRepository) Update(ctx context.Context, clinic *model.Clinic) error {
	query := `
		UPDATE clinics
		SET name = $1, registered_address = $2, actual_address = $3, updated_at = now()
		WHERE id = $4 AND NOT is_deleted
		RETURNING updated_at
	`

	err := r.QueryRow(ctx, query, clinic.Name, clinic.RegisteredAddress, clinic.ActualAddress, clinic.ID).
		Scan(&clinic.UpdatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return fmt.Errorf("update clinic: %w", ErrNotFound)
		}
		return fmt.Errorf("update clinic: %w", err)
	}

	return nil
}

// GetByID получает клинику вместе со списком врачей
func (r *ClinicRepository) GetByID(ctx context.Context, id uuid.UUID, scope model.Scope) (*model.Clinic, error) {
	query := `
		SELECT id, name, registered_address, actual_address, is_deleted, created_at, updated_at
		FROM clinics
		WHERE id = $1` + scopeFilter(scope, "is_deleted")

	clinic, err := scanClinic(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get clinic by id: %w", err)
	}

	clinic.DoctorIDs, err = r.doctorIDs(ctx, clinic.ID)
	if err != nil {
		return nil, err
	}

	return clinic, nil
}

// List получает все клиники со списками врачей
func (r *ClinicRepository) List(ctx context.Context, scope model.Scope) ([]*model.Clinic, error) {
	query := `
		SELECT id, name, registered_address, actual_address, is_deleted, created_at, updated_at
		FROM clinics
		WHERE TRUE` + scopeFilter(scope, "is_deleted") + `
		ORDER BY name`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list clinics: %w", err)
	}

	var clinics []*model.Clinic
	for rows.Next() {
		clinic, err := scanClinic(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan clinic: %w", err)
		}
		clinics = append(clinics, clinic)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list clinics: %w", err)
	}

	// Через одно соединение нельзя читать второй результат, пока открыт первый
	for _, clinic := range clinics {
		clinic.DoctorIDs, err = r.doctorIDs(ctx, clinic.ID)
		if err != nil {
			return nil, err
		}
	}

	return clinics, nil
}

// SoftDelete помечает клинику удалённой
func (r *ClinicRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	affected, err := r.ExecAffected(ctx,
		`UPDATE clinics SET is_deleted = TRUE, updated_at = now() WHERE id = $1 AND NOT is_deleted`, id)
	if err != nil {
		return fmt.Errorf("delete clinic: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("delete clinic: %w", ErrNotFound)
	}

	return nil
}

// AddDoctor добавляет врача в штат клиники
func (r *ClinicRepository) AddDoctor(ctx context.Context, clinicID, doctorID uuid.UUID) error {
	query := `
		INSERT INTO clinic_doctors (clinic_id, doctor_id)
		VALUES ($1, $2)
		ON CONFLICT (clinic_id, doctor_id) DO NOTHING
	`

	if _, err := r.DB().Exec(ctx, query, clinicID, doctorID); err != nil {
		return fmt.Errorf("add clinic doctor: %w", err)
	}

	return nil
}

// RemoveDoctor убирает врача из штата клиники
func (r *ClinicRepository) RemoveDoctor(ctx context.Context, clinicID, doctorID uuid.UUID) (bool, error) {
	affected, err := r.ExecAffected(ctx,
		`DELETE FROM clinic_doctors WHERE clinic_id = $1 AND doctor_id = $2`, clinicID, doctorID)
	if err != nil {
		return false, fmt.Errorf("remove clinic doctor: %w", err)
	}

	return affected > 0, nil
}

// RemoveAllDoctors очищает штат клиники
func (r *ClinicRepository) RemoveAllDoctors(ctx context.Context, clinicID uuid.UUID) error {
	if _, err := r.DB().Exec(ctx, `DELETE FROM clinic_doctors WHERE clinic_id = $1`, clinicID); err != nil {
		return fmt.Errorf("remove clinic doctors: %w", err)
	}
	return nil
}

// RemoveDoctorEverywhere убирает врача из штата всех клиник
func (r *ClinicRepository) RemoveDoctorEverywhere(ctx context.Context, doctorID uuid.UUID) error {
	if _, err := r.DB().Exec(ctx, `DELETE FROM clinic_doctors WHERE doctor_id = $1`, doctorID); err != nil {
		return fmt.Errorf("remove doctor affiliations: %w", err)
	}
	return nil
}

// IsAffiliated проверяет, работает ли врач в клинике
func (r *ClinicRepository) IsAffiliated(ctx context.Context, clinicID, doctorID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM clinic_doctors
			WHERE clinic_id = $1 AND doctor_id = $2
		)
	`

	exists, err := r.Exists(ctx, query, clinicID, doctorID)
	if err != nil {
		return false, fmt.Errorf("check affiliation: %w", err)
	}

	return exists, nil
}

func (r *ClinicRepository) doctorIDs(ctx context.Context, clinicID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.Query(ctx, `SELECT doctor_id FROM clinic_doctors WHERE clinic_id = $1 ORDER BY created_at`, clinicID)
	if err != nil {
		return nil, fmt.Errorf("get clinic doctors: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan clinic doctor: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func scanClinic(row pgx.Row) (*model.Clinic, error) {
	var clinic model.Clinic
	err := row.Scan(
		&clinic.ID,
		&clinic.Name,
		&clinic.RegisteredAddress,
		&clinic.ActualAddress,
		&clinic.IsDeleted,
		&clinic.CreatedAt,
		&clinic.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &clinic, nil
}
