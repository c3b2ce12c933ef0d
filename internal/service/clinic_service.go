package service

import (
	"context"

	"github.com/Freeeeeet/clinic_scheduler/internal/clock"
	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"github.com/Freeeeeet/clinic_scheduler/internal/repository"
	"github.com/Freeeeeet/clinic_scheduler/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ClinicRequest struct {
	Name              string `json:"name" validate:"max=100"`
	RegisteredAddress string `json:"registered_address" validate:"max=150"`
	ActualAddress     string `json:"actual_address" validate:"max=150"`
}

// ClinicService клиники и прикрепление к ним врачей
type ClinicService struct {
	tx     repository.TxManager
	clock  clock.Clock
	logger *zap.Logger
}

func NewClinicService(tx repository.TxManager, clk clock.Clock, logger *zap.Logger) *ClinicService {
	return &ClinicService{
		tx:     tx,
		clock:  clk,
		logger: logger,
	}
}

// Create создаёт клинику
func (s *ClinicService) Create(ctx context.Context, req ClinicRequest) (*model.Clinic, error) {
	if err := checkClinicRequest(req); err != nil {
		return nil, err
	}

	clinic := &model.Clinic{
		ID:                uuid.New(),
		Name:              req.Name,
		RegisteredAddress: req.RegisteredAddress,
		ActualAddress:     req.ActualAddress,
	}

	err := s.tx.InTx(ctx, func(st repository.Stores) error {
		return st.Clinics.Create(ctx, clinic)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Clinic created",
		zap.String("clinic_id", clinic.ID.String()),
		zap.String("name", clinic.Name),
	)

	return clinic, nil
}

// Update обновляет название и адреса клиники
func (s *ClinicService) Update(ctx context.Context, id uuid.UUID, req ClinicRequest) (*model.Clinic, error) {
	if err := checkClinicRequest(req); err != nil {
		return nil, err
	}

	var clinic *model.Clinic

	err := s.tx.InTx(ctx, func(st repository.Stores) error {
		existing, err := st.Clinics.GetByID(ctx, id, model.ScopeActive)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrNotFound
		}

		existing.Name = req.Name
		existing.RegisteredAddress = req.RegisteredAddress
		existing.ActualAddress = req.ActualAddress

		if err := st.Clinics.Update(ctx, existing); err != nil {
			return err
		}

		clinic = existing
		return nil
	})
	if err != nil {
		return nil, notFoundOr(err)
	}

	s.logger.Info("Clinic updated", zap.String("clinic_id", clinic.ID.String()))
	return clinic, nil
}

// Delete мягко удаляет клинику и открепляет от неё врачей.
// Клинику с неудалёнными консультациями удалить нельзя.
func (s *ClinicService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.InTx(ctx, func(st repository.Stores) error {
		if err := st.Consultations.LockEntities(ctx, id); err != nil {
			return err
		}

		busy, err := st.Consultations.HasActiveForClinic(ctx, id)
		if err != nil {
			return err
		}
		if busy {
			return ErrProtected
		}

		if err := st.Clinics.SoftDelete(ctx, id); err != nil {
			return err
		}

		return st.Clinics.RemoveAllDoctors(ctx, id)
	})
	if err != nil {
		return notFoundOr(err)
	}

	s.logger.Info("Clinic deleted", zap.String("clinic_id", id.String()))
	return nil
}

// Get получает клинику по ID
func (s *ClinicService) Get(ctx context.Context, id uuid.UUID, scope model.Scope) (*model.Clinic, error) {
	clinic, err := s.tx.Stores().Clinics.GetByID(ctx, id, scope)
	if err != nil {
		return nil, err
	}
	if clinic == nil {
		return nil, ErrNotFound
	}
	return clinic, nil
}

func (s *ClinicService) List(ctx context.Context, scope model.Scope) ([]*model.Clinic, error) {
	return s.tx.Stores().Clinics.List(ctx, scope)
}

// AffiliateDoctor прикрепляет врача к клинике. Повторное прикрепление ничего не меняет.
func (s *ClinicService) AffiliateDoctor(ctx context.Context, clinicID, doctorID uuid.UUID) error {
	err := s.tx.InTx(ctx, func(st repository.Stores) error {
		if err := st.Consultations.LockEntities(ctx, clinicID, doctorID); err != nil {
			return err
		}

		clinic, err := st.Clinics.GetByID(ctx, clinicID, model.ScopeActive)
		if err != nil {
			return err
		}
		if clinic == nil {
			return ErrNotFound
		}

		if clinic.HasDoctor(doctorID) {
			return nil
		}

		doctor, err := st.Doctors.GetByID(ctx, doctorID, model.ScopeActive)
		if err != nil {
			return err
		}
		if doctor == nil {
			return validation.New("doctor", validation.MsgDoctorNotFound)
		}

		return st.Clinics.AddDoctor(ctx, clinicID, doctorID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Doctor affiliated",
		zap.String("clinic_id", clinicID.String()),
		zap.String("doctor_id", doctorID.String()),
	)

	return nil
}

// RemoveDoctor открепляет врача от клиники, если у него там нет предстоящих консультаций
func (s *ClinicService) RemoveDoctor(ctx context.Context, clinicID, doctorID uuid.UUID) error {
	err := s.tx.InTx(ctx, func(st repository.Stores) error {
		if err := st.Consultations.LockEntities(ctx, clinicID, doctorID); err != nil {
			return err
		}

		upcoming, err := st.Consultations.HasUpcomingAtClinic(ctx, clinicID, doctorID, s.clock.Now())
		if err != nil {
			return err
		}
		if upcoming {
			return ErrProtected
		}

		removed, err := st.Clinics.RemoveDoctor(ctx, clinicID, doctorID)
		if err != nil {
			return err
		}
		if !removed {
			return ErrNotFound
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Doctor removed from clinic",
		zap.String("clinic_id", clinicID.String()),
		zap.String("doctor_id", doctorID.String()),
	)

	return nil
}

// ListDoctors получает врачей клиники
func (s *ClinicService) ListDoctors(ctx context.Context, clinicID uuid.UUID, scope model.Scope) ([]*model.Doctor, error) {
	stores := s.tx.Stores()

	clinic, err := stores.Clinics.GetByID(ctx, clinicID, scope)
	if err != nil {
		return nil, err
	}
	if clinic == nil {
		return nil, ErrNotFound
	}

	doctors := make([]*model.Doctor, 0, len(clinic.DoctorIDs))
	for _, doctorID := range clinic.DoctorIDs {
		doctor, err := stores.Doctors.GetByID(ctx, doctorID, scope)
		if err != nil {
			return nil, err
		}
		if doctor != nil {
			doctors = append(doctors, doctor)
		}
	}

	return doctors, nil
}

func checkClinicRequest(req ClinicRequest) error {
	errs := validation.Struct(req)
	errs.Merge(validation.CheckClinic(req.Name, req.RegisteredAddress, req.ActualAddress))
	return errs.Err()
}
