package model

import (
	"time"

	"github.com/google/uuid"
)

type Doctor struct {
	Person
	Specialization  string     `json:"specialization"`
	EmploymentStart time.Time  `json:"date_start_work"`
	EmploymentEnd   *time.Time `json:"date_end_work"`
}

// ExperienceYears стаж в полных годах: от начала работы до окончания или до now
func (d *Doctor) ExperienceYears(now time.Time) int {
	end := now
	if d.EmploymentEnd != nil && d.EmploymentEnd.Before(now) {
		end = *d.EmploymentEnd
	}
	return fullYearsBetween(d.EmploymentStart, end)
}

// DoctorEducation запись об образовании врача
type DoctorEducation struct {
	ID          uuid.UUID  `json:"id"`
	DoctorID    uuid.UUID  `json:"doctor_id"`
	Institution string     `json:"institution"`
	Faculty     string     `json:"faculty"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Patient struct {
	Person
}

type Admin struct {
	Person
}
