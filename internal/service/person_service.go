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

// PersonRequest общие поля врача, пациента и администратора.
// Password обязателен при создании; при обновлении пустой пароль оставляет прежний.
type PersonRequest struct {
	FirstName      string    `json:"first_name" validate:"required,max=100"`
	LastName       string    `json:"last_name" validate:"required,max=100"`
	PatronymicName *string   `json:"patronymic_name" validate:"omitempty,max=100"`
	DateOfBirth    time.Time `json:"date_birth" validate:"required"`
	Sex            model.Sex `json:"sex" validate:"required,oneof=male female"`
	Email          string    `json:"email" validate:"required"`
	PhoneNumber    string    `json:"phone_number" validate:"required"`
	Password       string    `json:"password"`
}

type DoctorRequest struct {
	PersonRequest
	Specialization  string     `json:"specialization" validate:"required,max=100"`
	EmploymentStart time.Time  `json:"date_start_work" validate:"required"`
	EmploymentEnd   *time.Time `json:"date_end_work"`
}

// PersonService учётные записи врачей, пациентов и администраторов
type PersonService struct {
	tx     repository.TxManager
	hasher *validation.PasswordHasher
	clock  clock.Clock
	logger *zap.Logger
}

func NewPersonService(tx repository.TxManager, hasher *validation.PasswordHasher, clk clock.Clock, logger *zap.Logger) *PersonService {
	return &PersonService{
		tx:     tx,
		hasher: hasher,
		clock:  clk,
		logger: logger,
	}
}

// CreateDoctor регистрирует врача
func (s *PersonService) CreateDoctor(ctx context.Context, req DoctorRequest) (*model.Doctor, error) {
	var doctor *model.Doctor

	err := s.tx.InTx(ctx, func(st repository.Stores) error {
		now := s.clock.Now()
		errs := validation.Struct(req)
		errs.Merge(validation.CheckEmployment(req.EmploymentStart, req.EmploymentEnd, now))

		person, err := s.buildPerson(ctx, st, req.PersonRequest, nil, now, errs)
		if err != nil {
			return err
		}

		doctor = &model.Doctor{Person: person}
		applyDoctorFields(doctor, req)

		return s.save(ctx, st, &doctor.Person, model.PersonKindDoctor, func() error {
			return st.Doctors.Create(ctx, doctor)
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Doctor created",
		zap.String("doctor_id", doctor.ID.String()),
		zap.String("specialization", doctor.Specialization),
	)

	return doctor, nil
}

// UpdateDoctor обновляет данные врача
func (s *PersonService) UpdateDoctor(ctx context.Context, id uuid.UUID, req DoctorRequest) (*model.Doctor, error) {
	var doctor *model.Doctor

	err := s.tx.InTx(ctx, func(st repository.Stores) error {
		existing, err := st.Doctors.GetByID(ctx, id, model.ScopeActive)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrNotFound
		}

		now := s.clock.Now()
		errs := validation.Struct(req)
		errs.Merge(validation.CheckEmployment(req.EmploymentStart, req.EmploymentEnd, now))

		person, err := s.buildPerson(ctx, st, req.PersonRequest, &existing.Person, now, errs)
		if err != nil {
			return err
		}

		doctor = &model.Doctor{Person: person}
		applyDoctorFields(doctor, req)

		return s.save(ctx, st, &doctor.Person, model.PersonKindDoctor, func() error {
			return st.Doctors.Update(ctx, doctor)
		})
	})
	if err != nil {
		return nil, notFoundOr(err)
	}

	s.logger.Info("Doctor updated", zap.String("doctor_id", doctor.ID.String()))
	return doctor, nil
}

// DeleteDoctor мягко удаляет врача вместе с его прикреплениями к клиникам и образованием.
// Врача с неудалёнными консультациями удалить нельзя.
func (s *PersonService) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	err := s.tx.InTx(ctx, func(st repository.Stores) error {
		if err := st.Consultations.LockEntities(ctx, id); err != nil {
			return err
		}

		doctor, err := st.Doctors.GetByID(ctx, id, model.ScopeActive)
		if err != nil {
			return err
		}
		if doctor == nil {
			return ErrNotFound
		}

		busy, err := st.Consultations.HasActiveForDoctor(ctx, id)
		if err != nil {
			return err
		}
		if busy {
			return ErrProtected
		}

		if err := st.Clinics.RemoveDoctorEverywhere(ctx, id); err != nil {
			return err
		}
		if err := st.Educations.DeleteByDoctor(ctx, id); err != nil {
			return err
		}

		return st.Doctors.SoftDelete(ctx, id)
	})
	if err != nil {
		return notFoundOr(err)
	}

	s.logger.Info("Doctor deleted", zap.String("doctor_id", id.String()))
	return nil
}

// GetDoctor получает врача по ID
func (s *PersonService) GetDoctor(ctx context.Context, id uuid.UUID, scope model.Scope) (*model.Doctor, error) {
	doctor, err := s.tx.Stores().Doctors.GetByID(ctx, id, scope)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, ErrNotFound
	}
	return doctor, nil
}

// ListDoctors получает список врачей
func (s *PersonService) ListDoctors(ctx context.Context, scope model.Scope) ([]*model.Doctor, error) {
	return s.tx.Stores().Doctors.List(ctx, scope)
}

// CreatePatient регистрирует пациента
func (s *PersonService) CreatePatient(ctx context.Context, req PersonRequest) (*model.Patient, error) {
	var patient *model.Patient

	err := s.tx.InTx(ctx, func(st repository.Stores) error {
		now := s.clock.Now()
		person, err := s.buildPerson(ctx, st, req, nil, now, validation.Struct(req))
		if err != nil {
			return err
		}

		patient = &model.Patient{Person: person}
		return s.save(ctx, st, &patient.Person, model.PersonKindPatient, func() error {
			return st.Patients.Create(ctx, patient)
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Patient created", zap.String("patient_id", patient.ID.String()))
	return patient, nil
}

// UpdatePatient обновляет данные пациента
func (s *PersonService) UpdatePatient(ctx context.Context, id uuid.UUID, req PersonRequest) (*model.Patient, error) {
	var patient *model.Patient

	err := s.tx.InTx(ctx, func(st repository.Stores) error {
		existing, err := st.Patients.GetByID(ctx, id, model.ScopeActive)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrNotFound
		}

		person, err := s.buildPerson(ctx, st, req, &existing.Person, s.clock.Now(), validation.Struct(req))
		if err != nil {
			return err
		}

		patient = &model.Patient{Person: person}
		return s.save(ctx, st, &patient.Person, model.PersonKindPatient, func() error {
			return st.Patients.Update(ctx, patient)
		})
	})
	if err != nil {
		return nil, notFoundOr(err)
	}

	s.logger.Info("Patient updated", zap.String("patient_id", patient.ID.String()))
	return patient, nil
}

// DeletePatient мягко удаляет пациента без неудалённых консультаций
func (s *PersonService) DeletePatient(ctx context.Context, id uuid.UUID) error {
	err := s.tx.InTx(ctx, func(st repository.Stores) error {
		if err := st.Consultations.LockEntities(ctx, id); err != nil {
			return err
		}

		busy, err := st.Consultations.HasActiveForPatient(ctx, id)
		if err != nil {
			return err
		}
		if busy {
			return ErrProtected
		}

		return st.Patients.SoftDelete(ctx, id)
	})
	if err != nil {
		return notFoundOr(err)
	}

	s.logger.Info("Patient deleted", zap.String("patient_id", id.String()))
	return nil
}

// GetPatient получает пациента по ID
func (s *PersonService) GetPatient(ctx context.Context, id uuid.UUID, scope model.Scope) (*model.Patient, error) {
	patient, err := s.tx.Stores().Patients.GetByID(ctx, id, scope)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrNotFound
	}
	return patient, nil
}

func (s *PersonService) ListPatients(ctx context.Context, scope model.Scope) ([]*model.Patient, error) {
	return s.tx.Stores().Patients.List(ctx, scope)
}

// CreateAdmin регистрирует администратора
func (s *PersonService) CreateAdmin(ctx context.Context, req PersonRequest) (*model.Admin, error) {
	var admin *model.Admin

	err := s.tx.InTx(ctx, func(st repository.Stores) error {
		person, err := s.buildPerson(ctx, st, req, nil, s.clock.Now(), validation.Struct(req))
		if err != nil {
			return err
		}

		admin = &model.Admin{Person: person}
		return s.save(ctx, st, &admin.Person, model.PersonKindAdmin, func() error {
			return st.Admins.Create(ctx, admin)
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Admin created", zap.String("admin_id", admin.ID.String()))
	return admin, nil
}

// UpdateAdmin обновляет данные администратора
func (s *PersonService) UpdateAdmin(ctx context.Context, id uuid.UUID, req PersonRequest) (*model.Admin, error) {
	var admin *model.Admin

	err := s.tx.InTx(ctx, func(st repository.Stores) error {
		existing, err := st.Admins.GetByID(ctx, id, model.ScopeActive)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrNotFound
		}

		person, err := s.buildPerson(ctx, st, req, &existing.Person, s.clock.Now(), validation.Struct(req))
		if err != nil {
			return err
		}

		admin = &model.Admin{Person: person}
		return s.save(ctx, st, &admin.Person, model.PersonKindAdmin, func() error {
			return st.Admins.Update(ctx, admin)
		})
	})
	if err != nil {
		return nil, notFoundOr(err)
	}

	s.logger.Info("Admin updated", zap.String("admin_id", admin.ID.String()))
	return admin, nil
}

// DeleteAdmin мягко удаляет администратора
func (s *PersonService) DeleteAdmin(ctx context.Context, id uuid.UUID) error {
	err := s.tx.InTx(ctx, func(st repository.Stores) error {
		return st.Admins.SoftDelete(ctx, id)
	})
	if err != nil {
		return notFoundOr(err)
	}

	s.logger.Info("Admin deleted", zap.String("admin_id", id.String()))
	return nil
}

func (s *PersonService) GetAdmin(ctx context.Context, id uuid.UUID, scope model.Scope) (*model.Admin, error) {
	admin, err := s.tx.Stores().Admins.GetByID(ctx, id, scope)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrNotFound
	}
	return admin, nil
}

func (s *PersonService) ListAdmins(ctx context.Context, scope model.Scope) ([]*model.Admin, error) {
	return s.tx.Stores().Admins.List(ctx, scope)
}

// Authenticate проверяет email и пароль неудалённой учётной записи данного типа
func (s *PersonService) Authenticate(ctx context.Context, kind model.PersonKind, email, password string) (*model.Person, error) {
	email, ok := validation.NormalizeEmail(email)
	if !ok || password == "" {
		return nil, ErrInvalidCredentials
	}

	person, err := s.findByEmail(ctx, kind, email)
	if err != nil {
		return nil, err
	}
	if person == nil || !s.hasher.Compare(person.PasswordHash, password) {
		s.logger.Debug("Authentication failed", zap.String("kind", string(kind)))
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("Authenticated",
		zap.String("kind", string(kind)),
		zap.String("person_id", person.ID.String()),
	)

	return person, nil
}

func (s *PersonService) findByEmail(ctx context.Context, kind model.PersonKind, email string) (*model.Person, error) {
	stores := s.tx.Stores()

	switch kind {
	case model.PersonKindDoctor:
		doctor, err := stores.Doctors.GetByEmail(ctx, email, model.ScopeActive)
		if err != nil || doctor == nil {
			return nil, err
		}
		return &doctor.Person, nil
	case model.PersonKindPatient:
		patient, err := stores.Patients.GetByEmail(ctx, email, model.ScopeActive)
		if err != nil || patient == nil {
			return nil, err
		}
		return &patient.Person, nil
	case model.PersonKindAdmin:
		admin, err := stores.Admins.GetByEmail(ctx, email, model.ScopeActive)
		if err != nil || admin == nil {
			return nil, err
		}
		return &admin.Person, nil
	default:
		return nil, fmt.Errorf("unknown person kind %q", kind)
	}
}

// buildPerson проверяет общие поля и собирает Person. existing == nil при создании.
// Ошибки добавляются в errs; если они есть, возвращается *validation.Error.
func (s *PersonService) buildPerson(ctx context.Context, st repository.Stores, req PersonRequest, existing *model.Person, now time.Time, errs validation.Errors) (model.Person, error) {
	person := model.Person{
		ID:             uuid.New(),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		PatronymicName: req.PatronymicName,
		DateOfBirth:    validation.DateOf(req.DateOfBirth),
		Sex:            req.Sex,
	}
	if existing != nil {
		person.ID = existing.ID
		person.PasswordHash = existing.PasswordHash
		person.CreatedAt = existing.CreatedAt
	}

	if !req.DateOfBirth.IsZero() {
		for _, problem := range validation.CheckBirthDate(req.DateOfBirth, now) {
			errs.Add("date_birth", problem)
		}
	}

	if req.Email != "" {
		email, ok := validation.NormalizeEmail(req.Email)
		if ok {
			person.Email = email
		} else {
			errs.Add("email", validation.MsgEmailFormat)
		}
	}

	if req.PhoneNumber != "" {
		phone, ok := validation.NormalizePhone(req.PhoneNumber)
		if ok {
			person.PhoneNumber = phone
		} else {
			errs.Add("phone_number", validation.MsgPhoneFormat)
		}
	}

	switch {
	case req.Password != "":
		for _, problem := range validation.CheckPassword(req.Password) {
			errs.Add("password", problem)
		}
	case existing == nil:
		errs.Add("password", validation.MsgRequired)
	}

	if person.Email != "" || person.PhoneNumber != "" {
		conflicts, err := st.Contacts.FindConflicts(ctx, person.Email, person.PhoneNumber, person.ID)
		if err != nil {
			return person, err
		}
		for _, conflict := range conflicts {
			if person.Email != "" && conflict.Email == person.Email && !errs.Has("email") {
				errs.Add("email", validation.MsgEmailTaken)
			}
			if person.PhoneNumber != "" && conflict.PhoneNumber == person.PhoneNumber && !errs.Has("phone_number") {
				errs.Add("phone_number", validation.MsgPhoneTaken)
			}
		}
	}

	if err := errs.Err(); err != nil {
		return person, err
	}

	if req.Password != "" {
		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return person, err
		}
		person.PasswordHash = hash
	}

	return person, nil
}

// save записывает контакт в общий реестр и затем саму учётную запись.
// Нарушение уникальности реестра возвращается как ошибка валидации поля.
func (s *PersonService) save(ctx context.Context, st repository.Stores, person *model.Person, kind model.PersonKind, write func() error) error {
	if err := st.Contacts.Save(ctx, model.ContactOf(person, kind)); err != nil {
		return contactWriteError(err)
	}

	if err := write(); err != nil {
		return contactWriteError(err)
	}

	return nil
}

func contactWriteError(err error) error {
	constraint, ok := base.UniqueViolation(err)
	if !ok {
		return err
	}

	switch constraint {
	case repository.ConstraintContactEmail:
		return validation.New("email", validation.MsgEmailTaken)
	case repository.ConstraintContactPhone:
		return validation.New("phone_number", validation.MsgPhoneTaken)
	default:
		return fmt.Errorf("save person: %w", err)
	}
}

func applyDoctorFields(doctor *model.Doctor, req DoctorRequest) {
	doctor.Specialization = req.Specialization
	doctor.EmploymentStart = validation.DateOf(req.EmploymentStart)
	if req.EmploymentEnd != nil {
		end := validation.DateOf(*req.EmploymentEnd)
		doctor.EmploymentEnd = &end
	}
}
