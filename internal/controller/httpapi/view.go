package httpapi

import (
	"time"

	"github.com/Freeeeeet/clinic_scheduler/internal/model"
)

// personView человек с вычисляемыми полями для ответа
type personView struct {
	*model.Person
	FullName string `json:"full_name"`
	Age      int    `json:"age"`
	SexLabel string `json:"sex_label"`
}

type doctorView struct {
	*model.Doctor
	FullName   string `json:"full_name"`
	Age        int    `json:"age"`
	SexLabel   string `json:"sex_label"`
	Experience int    `json:"experience_years"`
}

func newPersonView(p *model.Person, now time.Time) personView {
	return personView{
		Person:   p,
		FullName: p.FullName(),
		Age:      p.Age(now),
		SexLabel: p.Sex.Label(),
	}
}

func newDoctorView(d *model.Doctor, now time.Time) doctorView {
	return doctorView{
		Doctor:     d,
		FullName:   d.FullName(),
		Age:        d.Age(now),
		SexLabel:   d.Sex.Label(),
		Experience: d.ExperienceYears(now),
	}
}

func newDoctorViews(doctors []*model.Doctor, now time.Time) []doctorView {
	views := make([]doctorView, 0, len(doctors))
	for _, d := range doctors {
		views = append(views, newDoctorView(d, now))
	}
	return views
}

func newPatientViews(patients []*model.Patient, now time.Time) []personView {
	views := make([]personView, 0, len(patients))
	for _, p := range patients {
		views = append(views, newPersonView(&p.Person, now))
	}
	return views
}

func newAdminViews(admins []*model.Admin, now time.Time) []personView {
	views := make([]personView, 0, len(admins))
	for _, a := range admins {
		views = append(views, newPersonView(&a.Person, now))
	}
	return views
}

// consultationView консультация с названием статуса
type consultationView struct {
	*model.Consultation
	StatusLabel string `json:"status_label"`
}

func newConsultationView(c *model.Consultation) consultationView {
	return consultationView{Consultation: c, StatusLabel: c.Status.Label()}
}

func newConsultationViews(consultations []*model.Consultation) []consultationView {
	views := make([]consultationView, 0, len(consultations))
	for _, c := range consultations {
		views = append(views, newConsultationView(c))
	}
	return views
}
