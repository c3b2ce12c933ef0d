package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Label возвращает отображаемое название пола
func (s Sex) Label() string {
	switch s {
	case SexMale:
		return "Мужской"
	case SexFemale:
		return "Женский"
	default:
		return "Неизвестно"
	}
}

// PersonKind тип учётной записи человека
type PersonKind string

const (
	PersonKindDoctor  PersonKind = "doctor"
	PersonKindPatient PersonKind = "patient"
	PersonKindAdmin   PersonKind = "admin"
)

// Person общие поля врача, пациента и администратора
type Person struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	PatronymicName *string   `json:"patronymic_name"`
	DateOfBirth    time.Time `json:"date_birth"`
	Sex            Sex       `json:"sex"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phone_number"` // +7XXXXXXXXXX
	PasswordHash   string    `json:"-"`
	IsDeleted      bool      `json:"is_deleted"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FullName возвращает ФИО в формате "Фамилия Имя Отчество"
func (p *Person) FullName() string {
	parts := []string{p.LastName, p.FirstName}
	if p.PatronymicName != nil && *p.PatronymicName != "" {
		parts = append(parts, *p.PatronymicName)
	}
	return strings.Join(parts, " ")
}

// Age возвращает полное количество лет на момент now
func (p *Person) Age(now time.Time) int {
	return fullYearsBetween(p.DateOfBirth, now)
}

// Contact запись в общем реестре контактов
type Contact struct {
	PersonID    uuid.UUID
	Kind        PersonKind
	Email       string
	PhoneNumber string
}

// ContactOf возвращает контакт человека для реестра
func ContactOf(p *Person, kind PersonKind) Contact {
	return Contact{
		PersonID:    p.ID,
		Kind:        kind,
		Email:       p.Email,
		PhoneNumber: p.PhoneNumber,
	}
}

// fullYearsBetween считает полные годы между датами, from <= to
func fullYearsBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	years := to.Year() - from.Year()
	if to.Month() < from.Month() || (to.Month() == from.Month() && to.Day() < from.Day()) {
		years--
	}
	return years
}
