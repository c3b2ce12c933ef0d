package model

import (
	"time"

	"github.com/google/uuid"
)

type ConsultationStatus string

const (
	ConsultationStatusConfirmed ConsultationStatus = "confirmed" // Подтверждена
	ConsultationStatusWaiting   ConsultationStatus = "waiting"   // Ожидает
	ConsultationStatusStarted   ConsultationStatus = "started"   // Начата
	ConsultationStatusCompleted ConsultationStatus = "completed" // Завершена
)

// Valid проверяет, что статус входит в допустимый набор
func (s ConsultationStatus) Valid() bool {
	switch s {
	case ConsultationStatusConfirmed, ConsultationStatusWaiting, ConsultationStatusStarted, ConsultationStatusCompleted:
		return true
	}
	return false
}

// Label возвращает отображаемое название статуса
func (s ConsultationStatus) Label() string {
	labels := map[ConsultationStatus]string{
		ConsultationStatusConfirmed: "Подтверждена",
		ConsultationStatusWaiting:   "Ожидает",
		ConsultationStatusStarted:   "Начата",
		ConsultationStatusCompleted: "Завершена",
	}

	if label, ok := labels[s]; ok {
		return label
	}

	return "Неизвестно"
}

// rank порядок статусов в жизненном цикле консультации
func (s ConsultationStatus) rank() int {
	switch s {
	case ConsultationStatusWaiting:
		return 0
	case ConsultationStatusConfirmed:
		return 1
	case ConsultationStatusStarted:
		return 2
	case ConsultationStatusCompleted:
		return 3
	}
	return -1
}

// CanTransitionTo разрешает переходы только вперёд по жизненному циклу.
// Завершить можно только начатую консультацию. Повторная установка того же статуса допустима.
func (s ConsultationStatus) CanTransitionTo(next ConsultationStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if next == ConsultationStatusCompleted && s != ConsultationStatusStarted && s != ConsultationStatusCompleted {
		return false
	}
	return next.rank() >= s.rank()
}

type Consultation struct {
	ID        uuid.UUID          `json:"id"`
	StartTime time.Time          `json:"start_time"`
	EndTime   time.Time          `json:"end_time"`
	Status    ConsultationStatus `json:"status"`
	DoctorID  uuid.UUID          `json:"doctor_id"`
	PatientID uuid.UUID          `json:"patient_id"`
	ClinicID  uuid.UUID          `json:"clinic_id"`
	IsDeleted bool               `json:"is_deleted"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Overlaps проверяет пересечение полуоткрытых интервалов [start, end).
// Консультации встык не пересекаются.
func (c *Consultation) Overlaps(start, end time.Time) bool {
	return c.StartTime.Before(end) && c.EndTime.After(start)
}
