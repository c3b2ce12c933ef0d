package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/clinic_scheduler/internal/clock"
	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"github.com/Freeeeeet/clinic_scheduler/internal/repository"
	"github.com/Freeeeeet/clinic_scheduler/internal/repository/base"
	"github.com/Freeeeeet/clinic_scheduler/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingRequest данные для создания или изменения консультации
type BookingRequest struct {
	DoctorID  uuid.UUID                `json:"doctor"`
	PatientID uuid.UUID                `json:"patient"`
	ClinicID  uuid.UUID                `json:"clinic"`
	StartTime time.Time                `json:"start_time"`
	EndTime   time.Time                `json:"end_time"`
	Status    model.ConsultationStatus `json:"status"`
}

// ConsultationService единственный путь записи консультаций:
// каждая запись проверяется и сохраняется в одной транзакции.
type ConsultationService struct {
	tx     repository.TxManager
	clock  clock.Clock
	logger *zap.Logger
}

func NewConsultationService(tx repository.TxManager, clk clock.Clock, logger *zap.Logger) *ConsultationService {
	return &ConsultationService{
		tx:     tx,
		clock:  clk,
		logger: logger,
	}
}

// Book создаёт консультацию
func (s *ConsultationService) Book(ctx context.Context, req BookingRequest) (*model.Consultation, error) {
	consultation := &model.Consultation{
		ID:        uuid.New(),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    req.Status,
		DoctorID:  req.DoctorID,
		PatientID: req.PatientID,
		ClinicID:  req.ClinicID,
	}
	if consultation.Status == "" {
		consultation.Status = model.ConsultationStatusWaiting
	}

	err := s.tx.InTx(ctx, func(st repository.Stores) error {
		if err := st.Consultations.LockEntities(ctx, req.DoctorID, req.PatientID, req.ClinicID); err != nil {
			return err
		}

		if err := s.validate(ctx, st, consultation, nil, false); err != nil {
			return err
		}

		if err := st.Consultations.Create(ctx, consultation); err != nil {
			return consultationWriteError(err)
		}

		return nil
	})
	if err != nil {
		s.logFailure("Consultation booking rejected", err, zap.String("doctor_id", req.DoctorID.String()))
		return nil, err
	}

	s.logger.Info("Consultation booked",
		zap.String("consultation_id", consultation.ID.String()),
		zap.String("doctor_id", consultation.DoctorID.String()),
		zap.String("patient_id", consultation.PatientID.String()),
		zap.String("clinic_id", consultation.ClinicID.String()),
		zap.Time("start_time", consultation.StartTime),
		zap.Time("end_time", consultation.EndTime),
	)

	return consultation, nil
}

// Update полностью обновляет консультацию: участников, окно и статус.
// Статус можно заменить на любой допустимый.
func (s *ConsultationService) Update(ctx context.Context, id uuid.UUID, req BookingRequest) (*model.Consultation, error) {
	return s.modify(ctx, id, "Consultation updated", false, func(c *model.Consultation) {
		c.DoctorID = req.DoctorID
		c.PatientID = req.PatientID
		c.ClinicID = req.ClinicID
		c.StartTime = req.StartTime
		c.EndTime = req.EndTime
		if req.Status != "" {
			c.Status = req.Status
		}
	})
}

// Reschedule переносит консультацию на новое время
func (s *ConsultationService) Reschedule(ctx context.Context, id uuid.UUID, start, end time.Time) (*model.Consultation, error) {
	return s.modify(ctx, id, "Consultation rescheduled", true, func(c *model.Consultation) {
		c.StartTime = start
		c.EndTime = end
	})
}

// ChangeStatus переводит консультацию в новый статус
func (s *ConsultationService) ChangeStatus(ctx context.Context, id uuid.UUID, status model.ConsultationStatus) (*model.Consultation, error) {
	return s.modify(ctx, id, "Consultation status changed", true, func(c *model.Consultation) {
		c.Status = status
	})
}

// Delete мягко удаляет консультацию
func (s *ConsultationService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.InTx(ctx, func(st repository.Stores) error {
		return st.Consultations.SoftDelete(ctx, id)
	})
	if err != nil {
		return notFoundOr(err)
	}

	s.logger.Info("Consultation deleted", zap.String("consultation_id", id.String()))
	return nil
}

// Get получает консультацию по ID
func (s *ConsultationService) Get(ctx context.Context, id uuid.UUID, scope model.Scope) (*model.Consultation, error) {
	consultation, err := s.tx.Stores().Consultations.GetByID(ctx, id, scope)
	if err != nil {
		return nil, err
	}
	if consultation == nil {
		return nil, ErrNotFound
	}
	return consultation, nil
}

// ListByDoctor получает расписание врача в интервале [from, to)
func (s *ConsultationService) ListByDoctor(ctx context.Context, doctorID uuid.UUID, from, to time.Time, scope model.Scope) ([]*model.Consultation, error) {
	if !from.Before(to) {
		return nil, validation.New("to", validation.MsgEndBeforeStart)
	}
	return s.tx.Stores().Consultations.ListByDoctor(ctx, doctorID, from, to, scope)
}

// ListByPatient получает консультации пациента
func (s *ConsultationService) ListByPatient(ctx context.Context, patientID uuid.UUID, scope model.Scope) ([]*model.Consultation, error) {
	return s.tx.Stores().Consultations.ListByPatient(ctx, patientID, scope)
}

// modify загружает консультацию, применяет изменения и сохраняет их после проверки
func (s *ConsultationService) modify(ctx context.Context, id uuid.UUID, logMessage string, forwardOnly bool, apply func(c *model.Consultation)) (*model.Consultation, error) {
	var updated *model.Consultation

	err := s.tx.InTx(ctx, func(st repository.Stores) error {
		current, err := st.Consultations.GetByID(ctx, id, model.ScopeActive)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrNotFound
		}

		next := *current
		apply(&next)

		if err := st.Consultations.LockEntities(ctx,
			current.DoctorID, next.DoctorID, next.PatientID, next.ClinicID); err != nil {
			return err
		}

		if err := s.validate(ctx, st, &next, current, forwardOnly); err != nil {
			return err
		}

		if err := st.Consultations.Update(ctx, &next); err != nil {
			return consultationWriteError(err)
		}

		updated = &next
		return nil
	})
	if err != nil {
		err = notFoundOr(err)
		s.logFailure("Consultation update rejected", err, zap.String("consultation_id", id.String()))
		return nil, err
	}

	s.logger.Info(logMessage,
		zap.String("consultation_id", updated.ID.String()),
		zap.String("doctor_id", updated.DoctorID.String()),
		zap.String("status", string(updated.Status)),
		zap.Time("start_time", updated.StartTime),
		zap.Time("end_time", updated.EndTime),
	)

	return updated, nil
}

// validate проверяет консультацию перед записью. current == nil при создании.
// forwardOnly запрещает возвращать статус назад.
// Все нарушения собираются вместе; поиск пересечений пропускается, если окно некорректно.
func (s *ConsultationService) validate(ctx context.Context, st repository.Stores, c *model.Consultation, current *model.Consultation, forwardOnly bool) error {
	now := s.clock.Now()

	// Запрет на прошлое действует при создании и при переносе окна
	requireFuture := current == nil ||
		!current.StartTime.Equal(c.StartTime) || !current.EndTime.Equal(c.EndTime)

	errs, windowUsable := validation.CheckWindow(c.StartTime, c.EndTime, now, requireFuture)

	if !c.Status.Valid() {
		errs.Add("status", validation.MsgInvalidStatus)
	} else if forwardOnly && current != nil && !current.Status.CanTransitionTo(c.Status) {
		errs.Add("status", validation.MsgInvalidTransition)
	}

	doctorOK, clinicOK, err := s.checkReferences(ctx, st, c, errs)
	if err != nil {
		return err
	}

	if windowUsable && doctorOK {
		exclude := uuid.Nil
		if current != nil {
			exclude = current.ID
		}

		busy, err := st.Consultations.HasOverlap(ctx, c.DoctorID, c.StartTime, c.EndTime, exclude)
		if err != nil {
			return err
		}
		if busy {
			errs.Add(validation.NonFieldErrors, validation.MsgDoctorBusy)
		}
	}

	if doctorOK && clinicOK {
		affiliated, err := st.Clinics.IsAffiliated(ctx, c.ClinicID, c.DoctorID)
		if err != nil {
			return err
		}
		if !affiliated {
			errs.Add(validation.NonFieldErrors, validation.MsgDoctorNotInStaff)
		}
	}

	return errs.Err()
}

// checkReferences проверяет, что врач, пациент и клиника существуют и не удалены
func (s *ConsultationService) checkReferences(ctx context.Context, st repository.Stores, c *model.Consultation, errs validation.Errors) (doctorOK, clinicOK bool, err error) {
	doctor, err := st.Doctors.GetByID(ctx, c.DoctorID, model.ScopeActive)
	if err != nil {
		return false, false, err
	}
	if doctor == nil {
		errs.Add("doctor", validation.MsgDoctorNotFound)
	}

	patient, err := st.Patients.GetByID(ctx, c.PatientID, model.ScopeActive)
	if err != nil {
		return false, false, err
	}
	if patient == nil {
		errs.Add("patient", validation.MsgPatientNotFound)
	}

	clinic, err := st.Clinics.GetByID(ctx, c.ClinicID, model.ScopeActive)
	if err != nil {
		return false, false, err
	}
	if clinic == nil {
		errs.Add("clinic", validation.MsgClinicNotFound)
	}

	return doctor != nil, clinic != nil, nil
}

func (s *ConsultationService) logFailure(message string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	if _, ok := validation.As(err); ok {
		s.logger.Debug(message, fields...)
		return
	}
	s.logger.Error(message, fields...)
}

// consultationWriteError превращает срабатывание уникального индекса (doctor_id, start_time)
// в ту же ошибку валидации, что и найденное пересечение
func consultationWriteError(err error) error {
	if constraint, ok := base.UniqueViolation(err); ok && constraint == repository.ConstraintDoctorStartTime {
		return validation.New(validation.NonFieldErrors, validation.MsgDoctorBusy)
	}
	return fmt.Errorf("save consultation: %w", err)
}
