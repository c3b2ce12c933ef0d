package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"github.com/google/uuid"
)

// ErrNotFound запись для обновления или удаления не найдена
var ErrNotFound = errors.New("record not found")

// Имена ограничений уникальности из миграций
const (
	ConstraintContactEmail    = "person_contacts_email_uniq"
	ConstraintContactPhone    = "person_contacts_phone_uniq"
	ConstraintDoctorStartTime = "consultations_doctor_start_uniq"
)

type DoctorStore interface {
	Create(ctx context.Context, doctor *model.Doctor) error
	Update(ctx context.Context, doctor *model.Doctor) error
	GetByID(ctx context.Context, id uuid.UUID, scope model.Scope) (*model.Doctor, error)
	GetByEmail(ctx context.Context, email string, scope model.Scope) (*model.Doctor, error)
	List(ctx context.Context, scope model.Scope) ([]*model.Doctor, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type PatientStore interface {
	Create(ctx context.Context, patient *model.Patient) error
	Update(ctx context.Context, patient *model.Patient) error
	GetByID(ctx context.Context, id uuid.UUID, scope model.Scope) (*model.Patient, error)
	GetByEmail(ctx context.Context, email string, scope model.Scope) (*model.Patient, error)
	List(ctx context.Context, scope model.Scope) ([]*model.Patient, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type AdminStore interface {
	Create(ctx context.Context, admin *model.Admin) error
	Update(ctx context.Context, admin *model.Admin) error
	GetByID(ctx context.Context, id uuid.UUID, scope model.Scope) (*model.Admin, error)
	GetByEmail(ctx context.Context, email string, scope model.Scope) (*model.Admin, error)
	List(ctx context.Context, scope model.Scope) ([]*model.Admin, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// ContactStore общий реестр email и телефонов всех видов учётных записей
type ContactStore interface {
	// FindConflicts ищет чужие контакты с тем же email или телефоном, включая удалённых
	FindConflicts(ctx context.Context, email, phone string, exclude uuid.UUID) ([]model.Contact, error)
	Save(ctx context.Context, contact model.Contact) error
}

type ClinicStore interface {
	Create(ctx context.Context, clinic *model.Clinic) error
	Update(ctx context.Context, clinic *model.Clinic) error
	GetByID(ctx context.Context, id uuid.UUID, scope model.Scope) (*model.Clinic, error)
	List(ctx context.Context, scope model.Scope) ([]*model.Clinic, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error

	AddDoctor(ctx context.Context, clinicID, doctorID uuid.UUID) error
	RemoveDoctor(ctx context.Context, clinicID, doctorID uuid.UUID) (bool, error)
	RemoveAllDoctors(ctx context.Context, clinicID uuid.UUID) error
	RemoveDoctorEverywhere(ctx context.Context, doctorID uuid.UUID) error
	IsAffiliated(ctx context.Context, clinicID, doctorID uuid.UUID) (bool, error)
}

type ConsultationStore interface {
	// LockEntities сериализует записи, затрагивающие врачей, пациентов и клиники
	// с данными ID, до конца транзакции
	LockEntities(ctx context.Context, ids ...uuid.UUID) error

	Create(ctx context.Context, consultation *model.Consultation) error
	Update(ctx context.Context, consultation *model.Consultation) error
	GetByID(ctx context.Context, id uuid.UUID, scope model.Scope) (*model.Consultation, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// HasOverlap ищет неудалённую консультацию врача, пересекающую [start, end), кроме exclude
	HasOverlap(ctx context.Context, doctorID uuid.UUID, start, end time.Time, exclude uuid.UUID) (bool, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, from, to time.Time, scope model.Scope) ([]*model.Consultation, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, scope model.Scope) ([]*model.Consultation, error)

	HasActiveForDoctor(ctx context.Context, doctorID uuid.UUID) (bool, error)
	HasActiveForPatient(ctx context.Context, patientID uuid.UUID) (bool, error)
	HasActiveForClinic(ctx context.Context, clinicID uuid.UUID) (bool, error)
	HasUpcomingAtClinic(ctx context.Context, clinicID, doctorID uuid.UUID, now time.Time) (bool, error)
}

type EducationStore interface {
	Create(ctx context.Context, education *model.DoctorEducation) error
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorEducation, error)
	Delete(ctx context.Context, doctorID, id uuid.UUID) (bool, error)
	DeleteByDoctor(ctx context.Context, doctorID uuid.UUID) error
}

// Stores набор репозиториев, работающих через одно соединение или транзакцию
type Stores struct {
	Doctors       DoctorStore
	Patients      PatientStore
	Admins        AdminStore
	Contacts      ContactStore
	Clinics       ClinicStore
	Consultations ConsultationStore
	Educations    EducationStore
}

// TxManager выдаёт репозитории и выполняет функцию в транзакции
type TxManager interface {
	// Stores репозитории поверх пула, для чтения
	Stores() Stores
	// InTx выполняет fn в одной транзакции; ошибка fn откатывает её
	InTx(ctx context.Context, fn func(stores Stores) error) error
}
