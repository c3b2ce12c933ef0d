package validation

import (
	"regexp"
	"strings"
	"time"
)

var reEmail = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// NormalizeEmail приводит email к нижнему регистру и проверяет формат
func NormalizeEmail(input string) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(input))
	return email, reEmail.MatchString(email)
}

// CheckBirthDate дата рождения не в будущем и не раньше 1900 года
func CheckBirthDate(birth, now time.Time) []string {
	var problems []string
	if DateOf(birth).After(DateOf(now)) {
		problems = append(problems, MsgBirthInFuture)
	}
	if birth.Year() < 1900 {
		problems = append(problems, MsgBirthBefore1900)
	}
	return problems
}

// CheckEmployment начало работы не в будущем, окончание не раньше начала
func CheckEmployment(start time.Time, end *time.Time, now time.Time) Errors {
	errs := Errors{}
	if start.IsZero() {
		return errs
	}
	if DateOf(start).After(DateOf(now)) {
		errs.Add("date_start_work", MsgWorkStartInFuture)
	}
	if end != nil && DateOf(*end).Before(DateOf(start)) {
		errs.Add("date_end_work", MsgWorkEndBeforeStart)
	}
	return errs
}

// CheckEducation начало обучения строго раньше окончания, если указаны обе даты
func CheckEducation(start, end *time.Time) Errors {
	errs := Errors{}
	if start != nil && end != nil && !DateOf(*start).Before(DateOf(*end)) {
		errs.Add("end_date", MsgEducationEndBeforeStart)
	}
	return errs
}

// CheckClinic название и оба адреса не пустые
func CheckClinic(name, registeredAddress, actualAddress string) Errors {
	errs := Errors{}
	if strings.TrimSpace(name) == "" {
		errs.Add("name", MsgClinicNameEmpty)
	}
	if strings.TrimSpace(registeredAddress) == "" {
		errs.Add("registered_address", MsgRegisteredAddressEmpty)
	}
	if strings.TrimSpace(actualAddress) == "" {
		errs.Add("actual_address", MsgActualAddressEmpty)
	}
	return errs
}

// DateOf отбрасывает время суток, оставляя календарную дату в UTC
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
