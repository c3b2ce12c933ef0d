package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/clinic_scheduler/internal/service"
)

func (h *Handler) createClinic(w http.ResponseWriter, r *http.Request) {
	var req service.ClinicRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	clinic, err := h.clinics.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, clinic)
}

func (h *Handler) updateClinic(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req service.ClinicRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	clinic, err := h.clinics.Update(r.Context(), id, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, clinic)
}

func (h *Handler) deleteClinic(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.clinics.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getClinic(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	clinic, err := h.clinics.Get(r.Context(), id, scopeOf(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, clinic)
}

func (h *Handler) listClinics(w http.ResponseWriter, r *http.Request) {
	clinics, err := h.clinics.List(r.Context(), scopeOf(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, clinics)
}

func (h *Handler) listClinicDoctors(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	doctors, err := h.clinics.ListDoctors(r.Context(), id, scopeOf(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newDoctorViews(doctors, h.clock.Now()))
}

func (h *Handler) affiliateDoctor(w http.ResponseWriter, r *http.Request) {
	clinicID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var payload affiliationPayload
	if !h.decodeJSON(w, r, &payload) {
		return
	}

	if err := h.clinics.AffiliateDoctor(r.Context(), clinicID, payload.DoctorID); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeClinicDoctor(w http.ResponseWriter, r *http.Request) {
	clinicID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	doctorID, ok := h.pathID(w, r, "doctorID")
	if !ok {
		return
	}

	if err := h.clinics.RemoveDoctor(r.Context(), clinicID, doctorID); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addEducation(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var payload educationPayload
	if !h.decodeJSON(w, r, &payload) {
		return
	}

	education, err := h.educations.AddEducation(r.Context(), doctorID, payload.toRequest())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, education)
}

func (h *Handler) listEducation(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	educations, err := h.educations.ListEducation(r.Context(), doctorID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, educations)
}

func (h *Handler) deleteEducation(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	educationID, ok := h.pathID(w, r, "educationID")
	if !ok {
		return
	}

	if err := h.educations.DeleteEducation(r.Context(), doctorID, educationID); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
