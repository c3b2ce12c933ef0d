package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"github.com/Freeeeeet/clinic_scheduler/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// memDB хранилище в памяти с транзакциями в духе READ COMMITTED.
// Каждое чтение внутри InTx видит последнее зафиксированное состояние со своими
// записями поверх; при фиксации записи заново применяются к актуальному состоянию
// вместе с проверками уникальности. Сериализацию даёт только LockEntities.
type memDB struct {
	mu    sync.RWMutex
	state *memState

	locksMu sync.Mutex
	locks   map[uuid.UUID]*sync.Mutex

	// hideOverlaps заставляет HasOverlap ничего не находить, чтобы сработал уникальный индекс
	hideOverlaps bool
	// overlapDelay пауза после проверки пересечений, расширяет окно гонки
	overlapDelay time.Duration
}

var _ repository.TxManager = (*memDB)(nil)

type memState struct {
	doctors       map[uuid.UUID]model.Doctor
	patients      map[uuid.UUID]model.Patient
	admins        map[uuid.UUID]model.Admin
	contacts      map[uuid.UUID]model.Contact
	clinics       map[uuid.UUID]model.Clinic
	affiliations  map[uuid.UUID]map[uuid.UUID]bool
	consultations map[uuid.UUID]model.Consultation
	educations    map[uuid.UUID]model.DoctorEducation
}

func newMemDB() *memDB {
	return &memDB{
		locks: map[uuid.UUID]*sync.Mutex{},
		state: &memState{
			doctors:       map[uuid.UUID]model.Doctor{},
			patients:      map[uuid.UUID]model.Patient{},
			admins:        map[uuid.UUID]model.Admin{},
			contacts:      map[uuid.UUID]model.Contact{},
			clinics:       map[uuid.UUID]model.Clinic{},
			affiliations:  map[uuid.UUID]map[uuid.UUID]bool{},
			consultations: map[uuid.UUID]model.Consultation{},
			educations:    map[uuid.UUID]model.DoctorEducation{},
		},
	}
}

func (s *memState) clone() *memState {
	c := &memState{
		doctors:       make(map[uuid.UUID]model.Doctor, len(s.doctors)),
		patients:      make(map[uuid.UUID]model.Patient, len(s.patients)),
		admins:        make(map[uuid.UUID]model.Admin, len(s.admins)),
		contacts:      make(map[uuid.UUID]model.Contact, len(s.contacts)),
		clinics:       make(map[uuid.UUID]model.Clinic, len(s.clinics)),
		affiliations:  make(map[uuid.UUID]map[uuid.UUID]bool, len(s.affiliations)),
		consultations: make(map[uuid.UUID]model.Consultation, len(s.consultations)),
		educations:    make(map[uuid.UUID]model.DoctorEducation, len(s.educations)),
	}
	for k, v := range s.doctors {
		c.doctors[k] = v
	}
	for k, v := range s.patients {
		c.patients[k] = v
	}
	for k, v := range s.admins {
		c.admins[k] = v
	}
	for k, v := range s.contacts {
		c.contacts[k] = v
	}
	for k, v := range s.clinics {
		c.clinics[k] = v
	}
	for k, doctors := range s.affiliations {
		copied := make(map[uuid.UUID]bool, len(doctors))
		for id := range doctors {
			copied[id] = true
		}
		c.affiliations[k] = copied
	}
	for k, v := range s.consultations {
		c.consultations[k] = v
	}
	for k, v := range s.educations {
		c.educations[k] = v
	}
	return c
}

// memOp одна запись транзакции, применимая к любому состоянию
type memOp func(s *memState) error

// memTx рабочее состояние транзакции
type memTx struct {
	db   *memDB
	live bool
	s    *memState
	ops  []memOp
	held map[uuid.UUID]*sync.Mutex
}

func (db *memDB) Stores() repository.Stores {
	return db.storesOver(&memTx{db: db, s: db.snapshot()})
}

func (db *memDB) InTx(ctx context.Context, fn func(stores repository.Stores) error) error {
	tx := &memTx{db: db, live: true, held: map[uuid.UUID]*sync.Mutex{}}
	defer tx.release()

	if err := fn(db.storesOver(tx)); err != nil {
		return err
	}

	return tx.commit()
}

// snapshot текущее зафиксированное состояние
func (db *memDB) snapshot() *memState {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.state.clone()
}

func (db *memDB) mutexFor(id uuid.UUID) *sync.Mutex {
	db.locksMu.Lock()
	defer db.locksMu.Unlock()

	mu, ok := db.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		db.locks[id] = mu
	}
	return mu
}

func (db *memDB) storesOver(tx *memTx) repository.Stores {
	return repository.Stores{
		Doctors:       memDoctors{tx},
		Patients:      memPatients{tx},
		Admins:        memAdmins{tx},
		Contacts:      memContacts{tx},
		Clinics:       memClinics{tx},
		Consultations: memConsultations{tx},
		Educations:    memEducations{tx},
	}
}

// replay применяет записи транзакции к копии base
func (tx *memTx) replay(base *memState) (*memState, error) {
	next := base.clone()
	for _, op := range tx.ops {
		if err := op(next); err != nil {
			return nil, err
		}
	}
	return next, nil
}

// read состояние для очередного запроса
func (tx *memTx) read() (*memState, error) {
	if !tx.live {
		return tx.s, nil
	}

	next, err := tx.replay(tx.db.snapshot())
	if err != nil {
		return nil, err
	}
	tx.s = next
	return next, nil
}

func (tx *memTx) write(op memOp) error {
	s, err := tx.read()
	if err != nil {
		return err
	}
	if err := op(s); err != nil {
		return err
	}
	tx.ops = append(tx.ops, op)
	return nil
}

func (tx *memTx) commit() error {
	tx.db.mu.Lock()
	defer tx.db.mu.Unlock()

	next, err := tx.replay(tx.db.state)
	if err != nil {
		return err
	}
	tx.db.state = next
	return nil
}

// lock берёт мьютексы id в порядке возрастания и держит их до конца транзакции
func (tx *memTx) lock(ids []uuid.UUID) {
	if !tx.live {
		return
	}

	sorted := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id != uuid.Nil {
			sorted = append(sorted, id)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})

	for _, id := range sorted {
		// повторная блокировка в той же транзакции ничего не делает, как у advisory xact lock
		if _, ok := tx.held[id]; ok {
			continue
		}
		mu := tx.db.mutexFor(id)
		mu.Lock()
		tx.held[id] = mu
	}
}

func (tx *memTx) release() {
	for id, mu := range tx.held {
		mu.Unlock()
		delete(tx.held, id)
	}
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

type memDoctors struct{ tx *memTx }

func (m memDoctors) Create(_ context.Context, doctor *model.Doctor) error {
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = doctor.CreatedAt
	row := *doctor
	return m.tx.write(func(s *memState) error {
		s.doctors[row.ID] = row
		return nil
	})
}

func (m memDoctors) Update(_ context.Context, doctor *model.Doctor) error {
	row := *doctor
	return m.tx.write(func(s *memState) error {
		existing, ok := s.doctors[row.ID]
		if !ok || existing.IsDeleted {
			return repository.ErrNotFound
		}
		s.doctors[row.ID] = row
		return nil
	})
}

func (m memDoctors) GetByID(_ context.Context, id uuid.UUID, scope model.Scope) (*model.Doctor, error) {
	s, err := m.tx.read()
	if err != nil {
		return nil, err
	}
	doctor, ok := s.doctors[id]
	if !ok || (doctor.IsDeleted && !scope.IncludesDeleted()) {
		return nil, nil
	}
	return &doctor, nil
}

func (m memDoctors) GetByEmail(_ context.Context, email string, scope model.Scope) (*model.Doctor, error) {
	s, err := m.tx.read()
	if err != nil {
		return nil, err
	}
	for _, doctor := range s.doctors {
		if doctor.Email == email && (!doctor.IsDeleted || scope.IncludesDeleted()) {
			return &doctor, nil
		}
	}
	return nil, nil
}

func (m memDoctors) List(_ context.Context, scope model.Scope) ([]*model.Doctor, error) {
	s, err := m.tx.read()
	if err != nil {
		return nil, err
	}
	var doctors []*model.Doctor
	for _, doctor := range s.doctors {
		if !doctor.IsDeleted || scope.IncludesDeleted() {
			doctor := doctor
			doctors = append(doctors, &doctor)
		}
	}
	return doctors, nil
}

func (m memDoctors) SoftDelete(_ context.Context, id uuid.UUID) error {
	return m.tx.write(func(s *memState) error {
		doctor, ok := s.doctors[id]
		if !ok || doctor.IsDeleted {
			return repository.ErrNotFound
		}
		doctor.IsDeleted = true
		s.doctors[id] = doctor
		return nil
	})
}

type memPatients struct{ tx *memTx }

func (m memPatients) Create(_ context.Context, patient *model.Patient) error {
	row := *patient
	return m.tx.write(func(s *memState) error {
		s.patients[row.ID] = row
		return nil
	})
}

func (m memPatients) Update(_ context.Context, patient *model.Patient) error {
	row := *patient
	return m.tx.write(func(s *memState) error {
		existing, ok := s.patients[row.ID]
		if !ok || existing.IsDeleted {
			return repository.ErrNotFound
		}
		s.patients[row.ID] = row
		return nil
	})
}

func (m memPatients) GetByID(_ context.Context, id uuid.UUID, scope model.Scope) (*model.Patient, error) {
	s, err := m.tx.read()
	if err != nil {
		return nil, err
	}
	patient, ok := s.patients[id]
	if !ok || (patient.IsDeleted && !scope.IncludesDeleted()) {
		return nil, nil
	}
	return &patient, nil
}

func (m memPatients) GetByEmail(_ context.Context, email string, scope model.Scope) (*model.Patient, error) {
	s, err := m.tx.read()
	if err != nil {
		return nil, err
	}
	for _, patient := range s.patients {
		if patient.Email == email && (!patient.IsDeleted || scope.IncludesDeleted()) {
			return &patient, nil
		}
	}
	return nil, nil
}

func (m memPatients) List(_ context.Context, scope model.Scope) ([]*model.Patient, error) {
	s, err := m.tx.read()
	if err != nil {
		return nil, err
	}
	var patients []*model.Patient
	for _, patient := range s.patients {
		if !patient.IsDeleted || scope.IncludesDeleted() {
			patient := patient
			patients = append(patients, &patient)
		}
	}
	return patients, nil
}

func (m memPatients) SoftDelete(_ context.Context, id uuid.UUID) error {
	return m.tx.write(func(s *memState) error {
		patient, ok := s.patients[id]
		if !ok || patient.IsDeleted {
			return repository.ErrNotFound
		}
		patient.IsDeleted = true
		s.patients[id] = patient
		return nil
	})
}

type memAdmins struct{ tx *memTx }

func (m memAdmins) Create(_ context.Context, admin *model.Admin) error {
	row := *admin
	return m.tx.write(func(s *memState) error {
		s.admins[row.ID] = row
		return nil
	})
}

func (m memAdmins) Update(_ context.Context, admin *model.Admin) error {
	row := *admin
	return m.tx.write(func(s *memState) error {
		existing, ok := s.admins[row.ID]
		if !ok || existing.IsDeleted {
			return repository.ErrNotFound
		}
		s.admins[row.ID] = row
		return nil
	})
}

func (m memAdmins) GetByID(_ context.Context, id uuid.UUID, scope model.Scope) (*model.Admin, error) {
	s, err := m.tx.read()
	if err != nil {
		return nil, err
	}
	admin, ok := s.admins[id]
	if !ok || (admin.IsDeleted && !scope.IncludesDeleted()) {
		return nil, nil
	}
	return &admin, nil
}

func (m memAdmins) GetByEmail(_ context.Context, email string, scope model.Scope) (*model.Admin, error) {
	s, err := m.tx.read()
	if err != nil {
		return nil, err
	}
	for _, admin := range s.admins {
		if admin.Email == email && (!admin.IsDeleted || scope.IncludesDeleted()) {
			return &admin, nil
		}
	}
	return nil, nil
}

func (m memAdmins) List(_ context.Context, scope model.Scope) ([]*model.Admin, error) {
	s, err := m.tx.read()
	if err != nil {
		return nil, err
	}
	var admins []*model.Admin
	for _, admin := range s.admins {
		if !admin.IsDeleted || scope.IncludesDeleted() {
			admin := admin
			admins = append(admins, &admin)
		}
	}
	return admins, nil
}

func (m memAdmins) SoftDelete(_ context.Context, id uuid.UUID) error {
	return m.tx.write(func(s *memState) error {
		admin, ok := s.admins[id]
		if !ok || admin.IsDeleted {
			return repository.ErrNotFound
		}
		admin.IsDeleted = true
		s.admins[id] = admin
		return nil
	})
}

type memContacts struct{ tx *memTx }

func (m memContacts) FindConflicts(_ context.Context, email, phone string, exclude uuid.UUID) ([]model.Contact, error) {
	s, err := m.tx.read()
	if err != nil {
		return nil, err
	}
	var conflicts []model.Contact
	for id, contact := range s.contacts {
		if id == exclude {
			continue
		}
		if (email != "" && contact.Email == email) || (phone != "" && contact.PhoneNumber == phone) {
			conflicts = append(conflicts, contact)
		}
	}
	return conflicts, nil
}

func (m memContacts) Save(_ context.Context, contact model.Contact) error {
	return m.tx.write(func(s *memState) error {
		for id, other := range s.contacts {
			if id == contact.PersonID {
				continue
			}
			if other.Email == contact.Email {
				return uniqueViolation(repository.ConstraintContactEmail)
			}
			if other.PhoneNumber == contact.PhoneNumber {
				return uniqueViolation(repository.ConstraintContactPhone)
			}
		}
		s.contacts[contact.PersonID] = contact
		return nil
	})
}

type memClinics struct{ tx *memTx }

func withDoctors(s *memState, clinic model.Clinic) *model.Clinic {
	clinic.DoctorIDs = nil
	for id := range s.affiliations[clinic.ID] {
		clinic.DoctorIDs = append(clinic.DoctorIDs, id)
	}
	sort.Slice(clinic.DoctorIDs, func(i, j int) bool {
		return clinic.DoctorIDs[i].String() < clinic.DoctorIDs[j].String()
	})
	return &clinic
}

func (m memClinics) Create(_ context.Context, clinic *model.Clinic) error {
	row := *clinic
	return m.tx.write(func(s *memState) error {
		s.clinics[row.ID] = row
		return nil
	})
}

func (m memClinics) Update(_ context.Context, clinic *model.Clinic) error {
	row := *clinic
	return m.tx.write(func(s *memState) error {
		existing, ok := s.clinics[row.ID]
		if !ok || existing.IsDeleted {
			return repository.ErrNotFound
		}
		s.clinics[row.ID] = row
		return nil
	})
}

func (m memClinics) GetByID(_ context.Context, id uuid.UUID, scope model.Scope) (*model.Clinic, error) {
	s, err := m.tx.read()
	if err != nil {
		return nil, err
	}
	clinic, ok := s.clinics[id]
	if !ok || (clinic.IsDeleted && !scope.IncludesDeleted()) {
		return nil, nil
	}
	return withDoctors(s, clinic), nil
}

func (m memClinics) List(_ context.Context, scope model.Scope) ([]*model.Clinic, error) {
	s, err := m.tx.read()
	if err != nil {
		return nil, err
	}
	var clinics []*model.Clinic
	for _, clinic := range s.clinics {
		if !clinic.IsDeleted || scope.IncludesDeleted() {
			clinics = append(clinics, withDoctors(s, clinic))
		}
	}
	return clinics, nil
}

func (m memClinics) SoftDelete(_ context.Context, id uuid.UUID) error {
	return m.tx.write(func(s *memState) error {
		clinic, ok := s.clinics[id]
		if !ok || clinic.IsDeleted {
			return repository.ErrNotFound
		}
		clinic.IsDeleted = true
		s.clinics[id] = clinic
		return nil
	})
}

func (m memClinics) AddDoctor(_ context.Context, clinicID, doctorID uuid.UUID) error {
	return m.tx.write(func(s *memState) error {
		if s.affiliations[clinicID] == nil {
			s.affiliations[clinicID] = map[uuid.UUID]bool{}
		}
		s.affiliations[clinicID][doctorID] = true
		return nil
	})
}

func (m memClinics) RemoveDoctor(_ context.Context, clinicID, doctorID uuid.UUID) (bool, error) {
	var removed bool
	err := m.tx.write(func(s *memState) error {
		removed = s.affiliations[clinicID][doctorID]
		delete(s.affiliations[clinicID], doctorID)
		return nil
	})
	return removed, err
}

func (m memClinics) RemoveAllDoctors(_ context.Context, clinicID uuid.UUID) error {
	return m.tx.write(func(s *memState) error {
		delete(s.affiliations, clinicID)
		return nil
	})
}

func (m memClinics) RemoveDoctorEverywhere(_ context.Context, doctorID uuid.UUID) error {
	return m.tx.write(func(s *memState) error {
		for _, doctors := range s.affiliations {
			delete(doctors, doctorID)
		}
		return nil
	})
}

func (m memClinics) IsAffiliated(_ context.Context, clinicID, doctorID uuid.UUID) (bool, error) {
	s, err := m.tx.read()
	if err != nil {
		return false, err
	}
	return s.affiliations[clinicID][doctorID], nil
}

type memConsultations struct{ tx *memTx }

func (m memConsultations) LockEntities(_ context.Context, ids ...uuid.UUID) error {
	m.tx.lock(ids)
	return nil
}

func checkUnique(s *memState, consultation model.Consultation) error {
	for id, other := range s.consultations {
		if id == consultation.ID || other.IsDeleted {
			continue
		}
		if other.DoctorID == consultation.DoctorID && other.StartTime.Equal(consultation.StartTime) {
			return uniqueViolation(repository.ConstraintDoctorStartTime)
		}
	}
	return nil
}

func (m memConsultations) Create(_ context.Context, consultation *model.Consultation) error {
	row := *consultation
	return m.tx.write(func(s *memState) error {
		if err := checkUnique(s, row); err != nil {
			return err
		}
		s.consultations[row.ID] = row
		return nil
	})
}

func (m memConsultations) Update(_ context.Context, consultation *model.Consultation) error {
	row := *consultation
	return m.tx.write(func(s *memState) error {
		existing, ok := s.consultations[row.ID]
		if !ok || existing.IsDeleted {
			return repository.ErrNotFound
		}
		if err := checkUnique(s, row); err != nil {
			return err
		}
		s.consultations[row.ID] = row
		return nil
	})
}

func (m memConsultations) GetByID(_ context.Context, id uuid.UUID, scope model.Scope) (*model.Consultation, error) {
	s, err := m.tx.read()
	if err != nil {
		return nil, err
	}
	consultation, ok := s.consultations[id]
	if !ok || (consultation.IsDeleted && !scope.IncludesDeleted()) {
		return nil, nil
	}
	return &consultation, nil
}

func (m memConsultations) SoftDelete(_ context.Context, id uuid.UUID) error {
	return m.tx.write(func(s *memState) error {
		consultation, ok := s.consultations[id]
		if !ok || consultation.IsDeleted {
			return repository.ErrNotFound
		}
		consultation.IsDeleted = true
		s.consultations[id] = consultation
		return nil
	})
}

func (m memConsultations) HasOverlap(_ context.Context, doctorID uuid.UUID, start, end time.Time, exclude uuid.UUID) (bool, error) {
	if m.tx.db.hideOverlaps {
		return false, nil
	}

	s, err := m.tx.read()
	if err != nil {
		return false, err
	}

	found := false
	for id, other := range s.consultations {
		if id == exclude || other.IsDeleted || other.DoctorID != doctorID {
			continue
		}
		if other.Overlaps(start, end) {
			found = true
			break
		}
	}

	if delay := m.tx.db.overlapDelay; delay > 0 {
		time.Sleep(delay)
	}
	return found, nil
}

func (m memConsultations) filter(scope model.Scope, keep func(c model.Consultation) bool) ([]*model.Consultation, error) {
	s, err := m.tx.read()
	if err != nil {
		return nil, err
	}
	var consultations []*model.Consultation
	for _, consultation := range s.consultations {
		if consultation.IsDeleted && !scope.IncludesDeleted() {
			continue
		}
		if keep(consultation) {
			consultation := consultation
			consultations = append(consultations, &consultation)
		}
	}
	sort.Slice(consultations, func(i, j int) bool {
		return consultations[i].StartTime.Before(consultations[j].StartTime)
	})
	return consultations, nil
}

func (m memConsultations) ListByDoctor(_ context.Context, doctorID uuid.UUID, from, to time.Time, scope model.Scope) ([]*model.Consultation, error) {
	return m.filter(scope, func(c model.Consultation) bool {
		return c.DoctorID == doctorID && c.Overlaps(from, to)
	})
}

func (m memConsultations) ListByPatient(_ context.Context, patientID uuid.UUID, scope model.Scope) ([]*model.Consultation, error) {
	return m.filter(scope, func(c model.Consultation) bool {
		return c.PatientID == patientID
	})
}

func (m memConsultations) hasActive(match func(c model.Consultation) bool) (bool, error) {
	consultations, err := m.filter(model.ScopeActive, match)
	return len(consultations) > 0, err
}

func (m memConsultations) HasActiveForDoctor(_ context.Context, doctorID uuid.UUID) (bool, error) {
	return m.hasActive(func(c model.Consultation) bool { return c.DoctorID == doctorID })
}

func (m memConsultations) HasActiveForPatient(_ context.Context, patientID uuid.UUID) (bool, error) {
	return m.hasActive(func(c model.Consultation) bool { return c.PatientID == patientID })
}

func (m memConsultations) HasActiveForClinic(_ context.Context, clinicID uuid.UUID) (bool, error) {
	return m.hasActive(func(c model.Consultation) bool { return c.ClinicID == clinicID })
}

func (m memConsultations) HasUpcomingAtClinic(_ context.Context, clinicID, doctorID uuid.UUID, now time.Time) (bool, error) {
	return m.hasActive(func(c model.Consultation) bool {
		return c.ClinicID == clinicID && c.DoctorID == doctorID && c.EndTime.After(now)
	})
}

type memEducations struct{ tx *memTx }

func (m memEducations) Create(_ context.Context, education *model.DoctorEducation) error {
	row := *education
	return m.tx.write(func(s *memState) error {
		s.educations[row.ID] = row
		return nil
	})
}

func (m memEducations) ListByDoctor(_ context.Context, doctorID uuid.UUID) ([]*model.DoctorEducation, error) {
	s, err := m.tx.read()
	if err != nil {
		return nil, err
	}
	var educations []*model.DoctorEducation
	for _, education := range s.educations {
		if education.DoctorID == doctorID {
			education := education
			educations = append(educations, &education)
		}
	}
	return educations, nil
}

func (m memEducations) Delete(_ context.Context, doctorID, id uuid.UUID) (bool, error) {
	var deleted bool
	err := m.tx.write(func(s *memState) error {
		education, ok := s.educations[id]
		deleted = ok && education.DoctorID == doctorID
		if deleted {
			delete(s.educations, id)
		}
		return nil
	})
	return deleted, err
}

func (m memEducations) DeleteByDoctor(_ context.Context, doctorID uuid.UUID) error {
	return m.tx.write(func(s *memState) error {
		for id, education := range s.educations {
			if education.DoctorID == doctorID {
				delete(s.educations, id)
			}
		}
		return nil
	})
}
