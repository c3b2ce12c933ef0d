package httpapi

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctorPayload(t *testing.T) {
	raw := `{
		"first_name": "Иван",
		"last_name": "Петров",
		"date_birth": "1980-02-29",
		"sex": "male",
		"email": "ivan@example.com",
		"phone_number": "+7 999 123 45 67",
		"password": "Abcd1234",
		"specialization": "Хирург",
		"date_start_work": "2005-09-01",
		"date_end_work": null
	}`

	var payload doctorPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	req := payload.toRequest()
	assert.Equal(t, "Иван", req.FirstName)
	assert.Equal(t, time.Date(1980, 2, 29, 0, 0, 0, 0, time.UTC), req.DateOfBirth)
	assert.Equal(t, time.Date(2005, 9, 1, 0, 0, 0, 0, time.UTC), req.EmploymentStart)
	assert.Nil(t, req.EmploymentEnd)
	assert.Equal(t, "Хирург", req.Specialization)
}

func TestDatePayload_Invalid(t *testing.T) {
	var payload educationPayload
	err := json.Unmarshal([]byte(`{"institution": "МГМУ", "start_date": "01.09.2005"}`), &payload)
	assert.Error(t, err)
}

func TestEducationPayload_OptionalDates(t *testing.T) {
	var payload educationPayload
	require.NoError(t, json.Unmarshal([]byte(`{"institution": "МГМУ", "end_date": "2011-06-30"}`), &payload))

	req := payload.toRequest()
	assert.Nil(t, req.StartDate)
	require.NotNil(t, req.EndDate)
	assert.Equal(t, 2011, req.EndDate.Year())
}
