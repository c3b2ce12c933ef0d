package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"github.com/Freeeeeet/clinic_scheduler/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const doctorColumns = `id, first_name, last_name, patronymic_name, date_birth, sex, email, phone_number,
	password_hash, is_deleted, specialization, date_start_work, date_end_work, created_at, updated_at`

type DoctorRepository struct {
	*base.Repository
}

func NewDoctorRepository(db base.DBTX) *DoctorRepository {
	return &DoctorRepository{Repository: base.NewRepository(db)}
}

// Create создаёт врача
func (r *DoctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (id, first_name, last_name, patronymic_name, date_birth, sex, email, phone_number,
			password_hash, specialization, date_start_work, date_end_work)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		doctor.ID,
		doctor.FirstName,
		doctor.LastName,
		doctor.PatronymicName,
		doctor.DateOfBirth,
		doctor.Sex,
		doctor.Email,
		doctor.PhoneNumber,
		doctor.PasswordHash,
		doctor.Specialization,
		doctor.EmploymentStart,
		doctor.EmploymentEnd,
	).Scan(&doctor.CreatedAt, &doctor.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create doctor: %w", err)
	}

	return nil
}

// Update обновляет данные врача
func (r *DoctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doctors
		SET first_name = $1, last_name = $2, patronymic_name = $3, date_birth = $4, sex = $5, email = $6,
			phone_number = $7, password_hash = $8, specialization = $9, date_start_work = $10, date_end_work = $11,
			updated_at = now()
		WHERE id = $12
		RETURNING updated_at
	`

	err := r.QueryRow(
		ctx, query,
		doctor.FirstName,
		doctor.LastName,
		doctor.PatronymicName,
		doctor.DateOfBirth,
		doctor.Sex,
		doctor.Email,
		doctor.PhoneNumber,
		doctor.PasswordHash,
		doctor.Specialization,
		doctor.EmploymentStart,
		doctor.EmploymentEnd,
		doctor.ID,
	).Scan(&doctor.UpdatedAt)

	if err != nil {
		if base.IsNotFound(err) {
			return fmt.Errorf("update doctor: %w", ErrNotFound)
		}
		return fmt.Errorf("update doctor: %w", err)
	}

	return nil
}

// GetByID получает врача по ID
func (r *DoctorRepository) GetByID(ctx context.Context, id uuid.UUID, scope model.Scope) (*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE id = $1` + scopeFilter(scope, "is_deleted")

	doctor, err := scanDoctor(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get doctor by id: %w", err)
	}

	return doctor, nil
}

// GetByEmail получает врача по email
func (r *DoctorRepository) GetByEmail(ctx context.Context, email string, scope model.Scope) (*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE email = $1` + scopeFilter(scope, "is_deleted")

	doctor, err := scanDoctor(r.QueryRow(ctx, query, email))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get doctor by email: %w", err)
	}

	return doctor, nil
}

// List получает всех врачей
func (r *DoctorRepository) List(ctx context.Context, scope model.Scope) ([]*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE TRUE` + scopeFilter(scope, "is_deleted") +
		` ORDER BY last_name, first_name`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()

	var doctors []*model.Doctor
	for rows.Next() {
		doctor, err := scanDoctor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan doctor: %w", err)
		}
		doctors = append(doctors, doctor)
	}

	return doctors, rows.Err()
}

// SoftDelete помечает врача удалённым
func (r *DoctorRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	affected, err := r.ExecAffected(ctx,
		`UPDATE doctors SET is_deleted = TRUE, updated_at = now() WHERE id = $1 AND NOT is_deleted`, id)
	if err != nil {
		return fmt.Errorf("delete doctor: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("delete doctor: %w", ErrNotFound)
	}

	return nil
}

func scanDoctor(row pgx.Row) (*model.Doctor, error) {
	var doctor model.Doctor
	err := row.Scan(
		&doctor.ID,
		&doctor.FirstName,
		&doctor.LastName,
		&doctor.PatronymicName,
		&doctor.DateOfBirth,
		&doctor.Sex,
		&doctor.Email,
		&doctor.PhoneNumber,
		&doctor.PasswordHash,
		&doctor.IsDeleted,
		&doctor.Specialization,
		&doctor.EmploymentStart,
		&doctor.EmploymentEnd,
		&doctor.CreatedAt,
		&doctor.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doctor, nil
}
