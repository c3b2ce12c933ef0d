package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCheckPassword(t *testing.T) {
	assert.Equal(t, []string{MsgPasswordNoUpper}, CheckPassword("abc12345"))
	assert.Equal(t, []string{MsgPasswordNoDigit, MsgPasswordNoLower}, CheckPassword("ABCDEFGH"))
	assert.Empty(t, CheckPassword("Abcd1234"))
	assert.Equal(t, []string{MsgPasswordTooShort}, CheckPassword("Ab1"))
	assert.Empty(t, CheckPassword("Пароль2024"))
}

func TestPasswordHasher(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("Abcd1234")
	require.NoError(t, err)
	assert.NotEqual(t, "Abcd1234", hash)
	assert.True(t, hasher.Compare(hash, "Abcd1234"))
	assert.False(t, hasher.Compare(hash, "Abcd12345"))

	_, err = hasher.Hash("abc12345")
	verr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, []string{MsgPasswordNoUpper}, verr.Fields["password"])

	_, err = hasher.Hash("Aa1" + strings.Repeat("x", 80))
	verr, ok = As(err)
	require.True(t, ok)
	assert.Equal(t, []string{MsgPasswordTooLong}, verr.Fields["password"])
}
