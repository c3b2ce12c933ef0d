package httpapi

import (
	"context"
	"time"

	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"github.com/Freeeeeet/clinic_scheduler/internal/service"
	"github.com/google/uuid"
)

// ConsultationUsecase реализуется service.ConsultationService
type ConsultationUsecase interface {
	Book(ctx context.Context, req service.BookingRequest) (*model.Consultation, error)
	Update(ctx context.Context, id uuid.UUID, req service.BookingRequest) (*model.Consultation, error)
	Reschedule(ctx context.Context, id uuid.UUID, start, end time.Time) (*model.Consultation, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, status model.ConsultationStatus) (*model.Consultation, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID, scope model.Scope) (*model.Consultation, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, from, to time.Time, scope model.Scope) ([]*model.Consultation, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, scope model.Scope) ([]*model.Consultation, error)
}

// PersonUsecase реализуется service.PersonService
type PersonUsecase interface {
	CreateDoctor(ctx context.Context, req service.DoctorRequest) (*model.Doctor, error)
	UpdateDoctor(ctx context.Context, id uuid.UUID, req service.DoctorRequest) (*model.Doctor, error)
	DeleteDoctor(ctx context.Context, id uuid.UUID) error
	GetDoctor(ctx context.Context, id uuid.UUID, scope model.Scope) (*model.Doctor, error)
	ListDoctors(ctx context.Context, scope model.Scope) ([]*model.Doctor, error)

	CreatePatient(ctx context.Context, req service.PersonRequest) (*model.Patient, error)
	UpdatePatient(ctx context.Context, id uuid.UUID, req service.PersonRequest) (*model.Patient, error)
	DeletePatient(ctx context.Context, id uuid.UUID) error
	GetPatient(ctx context.Context, id uuid.UUID, scope model.Scope) (*model.Patient, error)
	ListPatients(ctx context.Context, scope model.Scope) ([]*model.Patient, error)

	CreateAdmin(ctx context.Context, req service.PersonRequest) (*model.Admin, error)
	UpdateAdmin(ctx context.Context, id uuid.UUID, req service.PersonRequest) (*model.Admin, error)
	DeleteAdmin(ctx context.Context, id uuid.UUID) error
	GetAdmin(ctx context.Context, id uuid.UUID, scope model.Scope) (*model.Admin, error)
	ListAdmins(ctx context.Context, scope model.Scope) ([]*model.Admin, error)

	Authenticate(ctx context.Context, kind model.PersonKind, email, password string) (*model.Person, error)
}

// ClinicUsecase реализуется service.ClinicService
type ClinicUsecase interface {
	Create(ctx context.Context, req service.ClinicRequest) (*model.Clinic, error)
	Update(ctx context.Context, id uuid.UUID, req service.ClinicRequest) (*model.Clinic, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID, scope model.Scope) (*model.Clinic, error)
	List(ctx context.Context, scope model.Scope) ([]*model.Clinic, error)
	AffiliateDoctor(ctx context.Context, clinicID, doctorID uuid.UUID) error
	RemoveDoctor(ctx context.Context, clinicID, doctorID uuid.UUID) error
	ListDoctors(ctx context.Context, clinicID uuid.UUID, scope model.Scope) ([]*model.Doctor, error)
}

// EducationUsecase реализуется service.EducationService
type EducationUsecase interface {
	AddEducation(ctx context.Context, doctorID uuid.UUID, req service.EducationRequest) (*model.DoctorEducation, error)
	ListEducation(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorEducation, error)
	DeleteEducation(ctx context.Context, doctorID, id uuid.UUID) error
}
