package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"github.com/Freeeeeet/clinic_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres реализует TxManager поверх пула pgx
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Stores возвращает репозитории поверх пула
func (p *Postgres) Stores() Stores {
	return newStores(p.pool)
}

// InTx выполняет fn в транзакции READ COMMITTED.
// Конкурентные записи консультаций сериализуются advisory-блокировкой по врачу.
func (p *Postgres) InTx(ctx context.Context, fn func(stores Stores) error) error {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(newStores(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func newStores(db base.DBTX) Stores {
	return Stores{
		Doctors:       NewDoctorRepository(db),
		Patients:      NewPatientRepository(db),
		Admins:        NewAdminRepository(db),
		Contacts:      NewContactRepository(db),
		Clinics:       NewClinicRepository(db),
		Consultations: NewConsultationRepository(db),
		Educations:    NewEducationRepository(db),
	}
}

// scopeFilter условие видимости удалённых записей для WHERE
func scopeFilter(scope model.Scope, column string) string {
	if scope.IncludesDeleted() {
		return ""
	}
	return " AND NOT " + column
}
