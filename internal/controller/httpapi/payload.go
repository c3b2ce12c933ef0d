package httpapi

import (
	"errors"
	"time"

	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"github.com/Freeeeeet/clinic_scheduler/internal/service"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

var errDateFormat = errors.New("date must be in YYYY-MM-DD format")

// Date календарная дата в JSON в виде "2006-01-02"
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return errDateFormat
	}
	if raw == "" {
		return nil
	}

	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return errDateFormat
	}

	d.Time = t
	return nil
}

// ptr возвращает nil для незаданной даты
func (d *Date) ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

func (d *Date) value() time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}

type personPayload struct {
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	PatronymicName *string   `json:"patronymic_name"`
	DateOfBirth    *Date     `json:"date_birth"`
	Sex            model.Sex `json:"sex"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phone_number"`
	Password       string    `json:"password"`
}

func (p personPayload) toRequest() service.PersonRequest {
	return service.PersonRequest{
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		PatronymicName: p.PatronymicName,
		DateOfBirth:    p.DateOfBirth.value(),
		Sex:            p.Sex,
		Email:          p.Email,
		PhoneNumber:    p.PhoneNumber,
		Password:       p.Password,
	}
}

type doctorPayload struct {
	personPayload
	Specialization  string `json:"specialization"`
	EmploymentStart *Date  `json:"date_start_work"`
	EmploymentEnd   *Date  `json:"date_end_work"`
}

func (p doctorPayload) toRequest() service.DoctorRequest {
	return service.DoctorRequest{
		PersonRequest:   p.personPayload.toRequest(),
		Specialization:  p.Specialization,
		EmploymentStart: p.EmploymentStart.value(),
		EmploymentEnd:   p.EmploymentEnd.ptr(),
	}
}

type educationPayload struct {
	Institution string `json:"institution"`
	Faculty     string `json:"faculty"`
	StartDate   *Date  `json:"start_date"`
	EndDate     *Date  `json:"end_date"`
}

func (p educationPayload) toRequest() service.EducationRequest {
	return service.EducationRequest{
		Institution: p.Institution,
		Faculty:     p.Faculty,
		StartDate:   p.StartDate.ptr(),
		EndDate:     p.EndDate.ptr(),
	}
}

type affiliationPayload struct {
	DoctorID uuid.UUID `json:"doctor"`
}

type statusPayload struct {
	Status model.ConsultationStatus `json:"status"`
}

type reschedulePayload struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type loginPayload struct {
	Kind     model.PersonKind `json:"kind"`
	Email    string           `json:"email"`
	Password string           `json:"password"`
}
