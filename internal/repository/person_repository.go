package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"github.com/Freeeeeet/clinic_scheduler/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const personColumns = `id, first_name, last_name, patronymic_name, date_birth, sex, email, phone_number,
	password_hash, is_deleted, created_at, updated_at`

// personTable общие запросы для таблиц patients и admins.
// Имя таблицы задаётся только из кода, не из пользовательского ввода.
type personTable struct {
	*base.Repository
	table string
}

func (t *personTable) create(ctx context.Context, person *model.Person) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, first_name, last_name, patronymic_name, date_birth, sex, email, phone_number, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`, t.table)

	err := t.QueryRow(
		ctx, query,
		person.ID,
		person.FirstName,
		person.LastName,
		person.PatronymicName,
		person.DateOfBirth,
		person.Sex,
		person.Email,
		person.PhoneNumber,
		person.PasswordHash,
	).Scan(&person.CreatedAt, &person.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create %s: %w", t.table, err)
	}

	return nil
}

func (t *personTable) update(ctx context.Context, person *model.Person) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET first_name = $1, last_name = $2, patronymic_name = $3, date_birth = $4, sex = $5, email = $6,
			phone_number = $7, password_hash = $8, updated_at = now()
		WHERE id = $9
		RETURNING updated_at
	`, t.table)

	err := t.QueryRow(
		ctx, query,
		person.FirstName,
		person.LastName,
		person.PatronymicName,
		person.DateOfBirth,
		person.Sex,
		person.Email,
		person.PhoneNumber,
		person.PasswordHash,
		person.ID,
	).Scan(&person.UpdatedAt)

	if err != nil {
		if base.IsNotFound(err) {
			return fmt.Errorf("update %s: %w", t.table, ErrNotFound)
		}
		return fmt.Errorf("update %s: %w", t.table, err)
	}

	return nil
}

func (t *personTable) getBy(ctx context.Context, column string, value any, scope model.Scope) (*model.Person, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, personColumns, t.table, column) +
		scopeFilter(scope, "is_deleted")

	person, err := scanPerson(t.QueryRow(ctx, query, value))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s by %s: %w", t.table, column, err)
	}

	return person, nil
}

func (t *personTable) list(ctx context.Context, scope model.Scope) ([]*model.Person, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE TRUE`, personColumns, t.table) +
		scopeFilter(scope, "is_deleted") + ` ORDER BY last_name, first_name`

	rows, err := t.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.table, err)
	}
	defer rows.Close()

	var persons []*model.Person
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.table, err)
		}
		persons = append(persons, person)
	}

	return persons, rows.Err()
}

func (t *personTable) softDelete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`UPDATE %s SET is_deleted = TRUE, updated_at = now() WHERE id = $1 AND NOT is_deleted`, t.table)

	affected, err := t.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", t.table, err)
	}

	if affected == 0 {
		return fmt.Errorf("delete %s: %w", t.table, ErrNotFound)
	}

	return nil
}

func scanPerson(row pgx.Row) (*model.Person, error) {
	var person model.Person
	err := row.Scan(
		&person.ID,
		&person.FirstName,
		&person.LastName,
		&person.PatronymicName,
		&person.DateOfBirth,
		&person.Sex,
		&person.Email,
		&person.PhoneNumber,
		&person.PasswordHash,
		&person.IsDeleted,
		&person.CreatedAt,
		&person.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &person, nil
}

type PatientRepository struct {
	personTable
}

func NewPatientRepository(db base.DBTX) *PatientRepository {
	return &PatientRepository{personTable{Repository: base.NewRepository(db), table: "patients"}}
}

// Create создаёт пациента
func (r *PatientRepository) Create(ctx context.Context, patient *model.Patient) error {
	return r.create(ctx, &patient.Person)
}

// Update обновляет данные пациента
func (r *PatientRepository) Update(ctx context.Context, patient *model.Patient) error {
	return r.update(ctx, &patient.Person)
}

// GetByID получает пациента по ID
func (r *PatientRepository) GetByID(ctx context.Context, id uuid.UUID, scope model.Scope) (*model.Patient, error) {
	person, err := r.getBy(ctx, "id", id, scope)
	if err != nil || person == nil {
		return nil, err
	}
	return &model.Patient{Person: *person}, nil
}

// GetByEmail получает пациента по email
func (r *PatientRepository) GetByEmail(ctx context.Context, email string, scope model.Scope) (*model.Patient, error) {
	person, err := r.getBy(ctx, "email", email, scope)
	if err != nil || person == nil {
		return nil, err
	}
	return &model.Patient{Person: *person}, nil
}

// List получает всех пациентов
func (r *PatientRepository) List(ctx context.Context, scope model.Scope) ([]*model.Patient, error) {
	persons, err := r.list(ctx, scope)
	if err != nil {
		return nil, err
	}

	patients := make([]*model.Patient, 0, len(persons))
	for _, person := range persons {
		patients = append(patients, &model.Patient{Person: *person})
	}
	return patients, nil
}

// SoftDelete помечает пациента удалённым
func (r *PatientRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.softDelete(ctx, id)
}

type AdminRepository struct {
	personTable
}

func NewAdminRepository(db base.DBTX) *AdminRepository {
	return &AdminRepository{personTable{Repository: base.NewRepository(db), table: "admins"}}
}

// Create создаёт администратора
func (r *AdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	return r.create(ctx, &admin.Person)
}

// Update обновляет данные администратора
func (r *AdminRepository) Update(ctx context.Context, admin *model.Admin) error {
	return r.update(ctx, &admin.Person)
}

// GetByID получает администратора по ID
func (r *AdminRepository) GetByID(ctx context.Context, id uuid.UUID, scope model.Scope) (*model.Admin, error) {
	person, err := r.getBy(ctx, "id", id, scope)
	if err != nil || person == nil {
		return nil, err
	}
	return &model.Admin{Person: *person}, nil
}

// GetByEmail получает администратора по email
func (r *AdminRepository) GetByEmail(ctx context.Context, email string, scope model.Scope) (*model.Admin, error) {
	person, err := r.getBy(ctx, "email", email, scope)
	if err != nil || person == nil {
		return nil, err
	}
	return &model.Admin{Person: *person}, nil
}

// List получает всех администраторов
func (r *AdminRepository) List(ctx context.Context, scope model.Scope) ([]*model.Admin, error) {
	persons, err := r.list(ctx, scope)
	if err != nil {
		return nil, err
	}

	admins := make([]*model.Admin, 0, len(persons))
	for _, person := range persons {
		admins = append(admins, &model.Admin{Person: *person})
	}
	return admins, nil
}

// SoftDelete помечает администратора удалённым
func (r *AdminRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.softDelete(ctx, id)
}
