package validation

import (
	"regexp"
	"strings"
)

var rePhone = regexp.MustCompile(`^\+7\d{10}$`)

// NormalizePhone убирает все пробельные символы и проверяет формат +7XXXXXXXXXX.
// Возвращает каноническую запись номера.
func NormalizePhone(input string) (string, bool) {
	phone := strings.Join(strings.Fields(input), "")
	if !rePhone.MatchString(phone) {
		return phone, false
	}
	return phone, true
}
