package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// NonFieldErrors ключ для ошибок, не относящихся к конкретному полю
const NonFieldErrors = "non_field_errors"

// Errors набор сообщений об ошибках по полям
type Errors map[string][]string

// Add добавляет сообщение к полю
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Merge переносит все сообщения из other
func (e Errors) Merge(other Errors) {
	for field, messages := range other {
		e[field] = append(e[field], messages...)
	}
}

// Has сообщает, есть ли ошибки у поля
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

func (e Errors) Empty() bool {
	return len(e) == 0
}

// Err возвращает *Error или nil, если ошибок нет
func (e Errors) Err() error {
	if e.Empty() {
		return nil
	}
	return &Error{Fields: e}
}

// Error отказ валидации. Клиент может исправить данные и повторить запрос.
type Error struct {
	Fields Errors
}

// New создаёт ошибку с одним сообщением
func New(field, message string) *Error {
	errs := Errors{}
	errs.Add(field, message)
	return &Error{Fields: errs}
}

func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e.Fields[field], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// As достаёт *Error из цепочки ошибок
func As(err error) (*Error, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
