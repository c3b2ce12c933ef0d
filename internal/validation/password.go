package validation

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// CheckPassword возвращает все нарушенные правила парольной политики
func CheckPassword(password string) []string {
	var problems []string

	if utf8.RuneCountInString(password) < minPasswordLength {
		problems = append(problems, MsgPasswordTooShort)
	}

	var hasDigit, hasUpper, hasLower bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		}
	}

	if !hasDigit {
		problems = append(problems, MsgPasswordNoDigit)
	}
	if !hasUpper {
		problems = append(problems, MsgPasswordNoUpper)
	}
	if !hasLower {
		problems = append(problems, MsgPasswordNoLower)
	}

	return problems
}

// PasswordHasher необратимо хеширует пароль через bcrypt
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash проверяет пароль по политике и возвращает хеш.
// Нарушения политики возвращаются как *Error по полю password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if problems := CheckPassword(password); len(problems) > 0 {
		return "", &Error{Fields: Errors{"password": problems}}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", New("password", MsgPasswordTooLong)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hash), nil
}

// Compare сверяет пароль с хешем
func (h *PasswordHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
