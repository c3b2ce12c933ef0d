package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"github.com/Freeeeeet/clinic_scheduler/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const consultationColumns = `id, start_time, end_time, status, doctor_id, patient_id, clinic_id,
	is_deleted, created_at, updated_at`

type ConsultationRepository struct {
	*base.Repository
}

func NewConsultationRepository(db base.DBTX) *ConsultationRepository {
	return &ConsultationRepository{Repository: base.NewRepository(db)}
}

// LockEntities берёт транзакционные advisory-блокировки по ID врачей, пациентов и клиник.
// Блокировки берутся в порядке возрастания ID, чтобы не было взаимоблокировок.
func (r *ConsultationRepository) LockEntities(ctx context.Context, entityIDs ...uuid.UUID) error {
	ids := make([]string, 0, len(entityIDs))
	seen := make(map[uuid.UUID]struct{}, len(entityIDs))
	for _, id := range entityIDs {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id.String())
	}
	sort.Strings(ids)

	for _, id := range ids {
		if _, err := r.DB().Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, id); err != nil {
			return fmt.Errorf("lock entity %s: %w", id, err)
		}
	}

	return nil
}

// Create создаёт консультацию
func (r *ConsultationRepository) Create(ctx context.Context, consultation *model.Consultation) error {
	query := `
		INSERT INTO consultations (id, start_time, end_time, status, doctor_id, patient_id, clinic_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		consultation.ID,
		consultation.StartTime,
		consultation.EndTime,
		consultation.Status,
		consultation.DoctorID,
		consultation.PatientID,
		consultation.ClinicID,
	).Scan(&consultation.CreatedAt, &consultation.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create consultation: %w", err)
	}

	return nil
}

// Update обновляет окно, участников и статус консультации
func (r *ConsultationRepository) Update(ctx context.Context, consultation *model.Consultation) error {
	query := `
		UPDATE consultations
		SET start_time = $1, end_time = $2, status = $3, doctor_id = $4, patient_id = $5, clinic_id = $6,
			updated_at = now()
		WHERE id = $7 AND NOT is_deleted
		RETURNING updated_at
	`

	err := r.QueryRow(
		ctx, query,
		consultation.StartTime,
		consultation.EndTime,
		consultation.Status,
		consultation.DoctorID,
		consultation.PatientID,
		consultation.ClinicID,
		consultation.ID,
	).Scan(&consultation.UpdatedAt)

	if err != nil {
		if base.IsNotFound(err) {
			return fmt.Errorf("update consultation: %w", ErrNotFound)
		}
		return fmt.Errorf("update consultation: %w", err)
	}

	return nil
}

// GetByID получает консультацию по ID
func (r *ConsultationRepository) GetByID(ctx context.Context, id uuid.UUID, scope model.Scope) (*model.Consultation, error) {
	query := `SELECT ` + consultationColumns + ` FROM consultations WHERE id = $1` + scopeFilter(scope, "is_deleted")

	consultation, err := scanConsultation(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get consultation by id: %w", err)
	}

	return consultation, nil
}

// SoftDelete помечает консультацию удалённой
func (r *ConsultationRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	affected, err := r.ExecAffected(ctx,
		`UPDATE consultations SET is_deleted = TRUE, updated_at = now() WHERE id = $1 AND NOT is_deleted`, id)
	if err != nil {
		return fmt.Errorf("delete consultation: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("delete consultation: %w", ErrNotFound)
	}

	return nil
}

// HasOverlap проверяет пересечение с другими консультациями врача.
// Полуоткрытые интервалы: консультации встык не конфликтуют.
func (r *ConsultationRepository) HasOverlap(ctx context.Context, doctorID uuid.UUID, start, end time.Time, exclude uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM consultations
			WHERE doctor_id = $1
			  AND start_time < $3
			  AND end_time > $2
			  AND NOT is_deleted
			  AND id <> $4
		)
	`

	exists, err := r.Exists(ctx, query, doctorID, start, end, exclude)
	if err != nil {
		return false, fmt.Errorf("check consultation overlap: %w", err)
	}

	return exists, nil
}

// ListByDoctor получает консультации врача, пересекающие [from, to)
func (r *ConsultationRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID, from, to time.Time, scope model.Scope) ([]*model.Consultation, error) {
	query := `SELECT ` + consultationColumns + `
		FROM consultations
		WHERE doctor_id = $1
		  AND start_time < $3
		  AND end_time > $2` + scopeFilter(scope, "is_deleted") + `
		ORDER BY start_time`

	return r.list(ctx, "list consultations by doctor", query, doctorID, from, to)
}

// ListByPatient получает все консультации пациента
func (r *ConsultationRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, scope model.Scope) ([]*model.Consultation, error) {
	query := `SELECT ` + consultationColumns + `
		FROM consultations
		WHERE patient_id = $1` + scopeFilter(scope, "is_deleted") + `
		ORDER BY start_time DESC`

	return r.list(ctx, "list consultations by patient", query, patientID)
}

// HasActiveForDoctor есть ли у врача неудалённые консультации
func (r *ConsultationRepository) HasActiveForDoctor(ctx context.Context, doctorID uuid.UUID) (bool, error) {
	return r.hasActive(ctx, "doctor_id", doctorID)
}

// HasActiveForPatient есть ли у пациента неудалённые консультации
func (r *ConsultationRepository) HasActiveForPatient(ctx context.Context, patientID uuid.UUID) (bool, error) {
	return r.hasActive(ctx, "patient_id", patientID)
}

// HasActiveForClinic есть ли в клинике неудалённые консультации
func (r *ConsultationRepository) HasActiveForClinic(ctx context.Context, clinicID uuid.UUID) (bool, error) {
	return r.hasActive(ctx, "clinic_id", clinicID)
}

// HasUpcomingAtClinic есть ли у врача незавершившиеся консультации в клинике
func (r *ConsultationRepository) HasUpcomingAtClinic(ctx context.Context, clinicID, doctorID uuid.UUID, now time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM consultations
			WHERE clinic_id = $1 AND doctor_id = $2 AND end_time > $3 AND NOT is_deleted
		)
	`

	exists, err := r.Exists(ctx, query, clinicID, doctorID, now)
	if err != nil {
		return false, fmt.Errorf("check upcoming consultations: %w", err)
	}

	return exists, nil
}

func (r *ConsultationRepository) hasActive(ctx context.Context, column string, id uuid.UUID) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM consultations WHERE %s = $1 AND NOT is_deleted)`, column)

	exists, err := r.Exists(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("check consultations by %s: %w", column, err)
	}

	return exists, nil
}

func (r *ConsultationRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.Consultation, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var consultations []*model.Consultation
	for rows.Next() {
		consultation, err := scanConsultation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consultation: %w", err)
		}
		consultations = append(consultations, consultation)
	}

	return consultations, rows.Err()
}

func scanConsultation(row pgx.Row) (*model.Consultation, error) {
	var consultation model.Consultation
	err := row.Scan(
		&consultation.ID,
		&consultation.StartTime,
		&consultation.EndTime,
		&consultation.Status,
		&consultation.DoctorID,
		&consultation.PatientID,
		&consultation.ClinicID,
		&consultation.IsDeleted,
		&consultation.CreatedAt,
		&consultation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &consultation, nil
}
