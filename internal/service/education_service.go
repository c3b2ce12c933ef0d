package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"github.com/Freeeeeet/clinic_scheduler/internal/repository"
	"github.com/Freeeeeet/clinic_scheduler/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EducationRequest struct {
	Institution string     `json:"institution" validate:"required,max=200"`
	Faculty     string     `json:"faculty" validate:"max=200"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// EducationService образование врачей
type EducationService struct {
	tx     repository.TxManager
	logger *zap.Logger
}

func NewEducationService(tx repository.TxManager, logger *zap.Logger) *EducationService {
	return &EducationService{
		tx:     tx,
		logger: logger,
	}
}

// AddEducation добавляет запись об образовании неудалённому врачу
func (s *EducationService) AddEducation(ctx context.Context, doctorID uuid.UUID, req EducationRequest) (*model.DoctorEducation, error) {
	errs := validation.Struct(req)
	errs.Merge(validation.CheckEducation(req.StartDate, req.EndDate))
	if err := errs.Err(); err != nil {
		return nil, err
	}

	education := &model.DoctorEducation{
		ID:          uuid.New(),
		DoctorID:    doctorID,
		Institution: req.Institution,
		Faculty:     req.Faculty,
		StartDate:   dateOrNil(req.StartDate),
		EndDate:     dateOrNil(req.EndDate),
	}

	err := s.tx.InTx(ctx, func(st repository.Stores) error {
		doctor, err := st.Doctors.GetByID(ctx, doctorID, model.ScopeActive)
		if err != nil {
			return err
		}
		if doctor == nil {
			return ErrNotFound
		}

		return st.Educations.Create(ctx, education)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Doctor education added",
		zap.String("doctor_id", doctorID.String()),
		zap.String("education_id", education.ID.String()),
	)

	return education, nil
}

// ListEducation получает образование врача
func (s *EducationService) ListEducation(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorEducation, error) {
	stores := s.tx.Stores()

	doctor, err := stores.Doctors.GetByID(ctx, doctorID, model.ScopeAll)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, ErrNotFound
	}

	return stores.Educations.ListByDoctor(ctx, doctorID)
}

// DeleteEducation удаляет запись об образовании врача
func (s *EducationService) DeleteEducation(ctx context.Context, doctorID, id uuid.UUID) error {
	err := s.tx.InTx(ctx, func(st repository.Stores) error {
		deleted, err := st.Educations.Delete(ctx, doctorID, id)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Doctor education deleted",
		zap.String("doctor_id", doctorID.String()),
		zap.String("education_id", id.String()),
	)

	return nil
}

func dateOrNil(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	date := validation.DateOf(*t)
	return &date
}
