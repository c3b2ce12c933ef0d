package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/clinic_scheduler/internal/clock"
	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"github.com/Freeeeeet/clinic_scheduler/internal/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClinicCreate_Validation(t *testing.T) {
	svc := NewClinicService(newMemDB(), clock.Fixed(testNow), zap.NewNop())

	_, err := svc.Create(context.Background(), ClinicRequest{Name: "  ", RegisteredAddress: "ул. Ленина, 1"})
	verr, ok := validation.As(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields["name"], validation.MsgClinicNameEmpty)
	assert.Contains(t, verr.Fields["actual_address"], validation.MsgActualAddressEmpty)
	assert.NotContains(t, verr.Fields, "registered_address")

	clinic, err := svc.Create(context.Background(), ClinicRequest{
		Name:              "Здоровье",
		RegisteredAddress: "ул. Ленина, 1",
		ActualAddress:     "ул. Мира, 5",
	})
	require.NoError(t, err)
	assert.Equal(t, "Клиника Здоровье, Юридический адрес: ул. Ленина, 1, Фактический адрес: ул. Мира, 5", clinic.String())
}

func TestClinicAffiliation(t *testing.T) {
	f := newBookingFixture()
	svc := NewClinicService(f.db, clock.Fixed(testNow), zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.AffiliateDoctor(ctx, f.clinic2, f.doctor))
	require.NoError(t, svc.AffiliateDoctor(ctx, f.clinic2, f.doctor))

	doctors, err := svc.ListDoctors(ctx, f.clinic2, model.ScopeActive)
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, f.doctor, doctors[0].ID)

	_, err = f.svc.Book(ctx, f.request(f.patient1, f.clinic2, at(12, 0), at(12, 30)))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.RemoveDoctor(ctx, f.clinic2, f.doctor), ErrProtected)
	require.NoError(t, svc.RemoveDoctor(ctx, f.clinic, f.doctor))
	assert.ErrorIs(t, svc.RemoveDoctor(ctx, f.clinic, f.doctor), ErrNotFound)

	err = svc.AffiliateDoctor(ctx, f.clinic, uuid.New())
	requireFieldError(t, err, "doctor", validation.MsgDoctorNotFound)

	assert.ErrorIs(t, svc.AffiliateDoctor(ctx, uuid.New(), f.doctor), ErrNotFound)
}

func TestClinicRemoveDoctor_PastConsultationsDoNotBlock(t *testing.T) {
	f := newBookingFixture()
	ctx := context.Background()

	_, err := f.svc.Book(ctx, f.request(f.patient1, f.clinic, at(10, 0), at(10, 30)))
	require.NoError(t, err)

	svc := NewClinicService(f.db, clock.Fixed(at(10, 30).Add(time.Second)), zap.NewNop())
	require.NoError(t, svc.RemoveDoctor(ctx, f.clinic, f.doctor))
}

func TestClinicDelete(t *testing.T) {
	f := newBookingFixture()
	svc := NewClinicService(f.db, clock.Fixed(testNow), zap.NewNop())
	ctx := context.Background()

	consultation, err := f.svc.Book(ctx, f.request(f.patient1, f.clinic, at(10, 0), at(10, 30)))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, f.clinic), ErrProtected)

	require.NoError(t, f.svc.Delete(ctx, consultation.ID))
	require.NoError(t, svc.Delete(ctx, f.clinic))

	_, err = svc.Get(ctx, f.clinic, model.ScopeActive)
	assert.ErrorIs(t, err, ErrNotFound)

	deleted, err := svc.Get(ctx, f.clinic, model.ScopeAll)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)
	assert.Empty(t, deleted.DoctorIDs)

	active, err := svc.List(ctx, model.ScopeActive)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	_, err = f.svc.Book(ctx, f.request(f.patient1, f.clinic, at(11, 0), at(11, 30)))
	requireFieldError(t, err, "clinic", validation.MsgClinicNotFound)
}

func TestEducation(t *testing.T) {
	f := newBookingFixture()
	svc := NewEducationService(f.db, zap.NewNop())
	ctx := context.Background()

	start := time.Date(2005, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2011, 6, 30, 0, 0, 0, 0, time.UTC)

	_, err := svc.AddEducation(ctx, f.doctor, EducationRequest{Institution: "МГМУ", StartDate: &end, EndDate: &start})
	requireFieldError(t, err, "end_date", validation.MsgEducationEndBeforeStart)

	_, err = svc.AddEducation(ctx, f.doctor, EducationRequest{Faculty: "Лечебный"})
	requireFieldError(t, err, "institution", validation.MsgRequired)

	education, err := svc.AddEducation(ctx, f.doctor, EducationRequest{
		Institution: "МГМУ",
		Faculty:     "Лечебный",
		StartDate:   &start,
		EndDate:     &end,
	})
	require.NoError(t, err)

	educations, err := svc.ListEducation(ctx, f.doctor)
	require.NoError(t, err)
	require.Len(t, educations, 1)
	assert.Equal(t, "МГМУ", educations[0].Institution)

	_, err = svc.AddEducation(ctx, uuid.New(), EducationRequest{Institution: "МГМУ"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.DeleteEducation(ctx, uuid.New(), education.ID), ErrNotFound)
	require.NoError(t, svc.DeleteEducation(ctx, f.doctor, education.ID))

	educations, err = svc.ListEducation(ctx, f.doctor)
	require.NoError(t, err)
	assert.Empty(t, educations)
}
