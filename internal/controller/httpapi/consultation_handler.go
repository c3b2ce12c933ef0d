package httpapi

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/clinic_scheduler/internal/service"
	"github.com/Freeeeeet/clinic_scheduler/internal/validation"
)

func (h *Handler) bookConsultation(w http.ResponseWriter, r *http.Request) {
	var req service.BookingRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	consultation, err := h.consultations.Book(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, newConsultationView(consultation))
}

func (h *Handler) getConsultation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	consultation, err := h.consultations.Get(r.Context(), id, scopeOf(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newConsultationView(consultation))
}

func (h *Handler) updateConsultation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req service.BookingRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	consultation, err := h.consultations.Update(r.Context(), id, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newConsultationView(consultation))
}

func (h *Handler) deleteConsultation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.consultations.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) changeConsultationStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var payload statusPayload
	if !h.decodeJSON(w, r, &payload) {
		return
	}

	consultation, err := h.consultations.ChangeStatus(r.Context(), id, payload.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newConsultationView(consultation))
}

func (h *Handler) rescheduleConsultation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var payload reschedulePayload
	if !h.decodeJSON(w, r, &payload) {
		return
	}

	consultation, err := h.consultations.Reschedule(r.Context(), id, payload.StartTime, payload.EndTime)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newConsultationView(consultation))
}

// listDoctorConsultations расписание врача: ?from=...&to=... в RFC 3339
func (h *Handler) listDoctorConsultations(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	errs := validation.Errors{}
	from := queryTime(r, "from", errs)
	to := queryTime(r, "to", errs)
	if err := errs.Err(); err != nil {
		h.writeError(w, r, err)
		return
	}

	consultations, err := h.consultations.ListByDoctor(r.Context(), doctorID, from, to, scopeOf(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newConsultationViews(consultations))
}

func (h *Handler) listPatientConsultations(w http.ResponseWriter, r *http.Request) {
	patientID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	consultations, err := h.consultations.ListByPatient(r.Context(), patientID, scopeOf(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newConsultationViews(consultations))
}

func queryTime(r *http.Request, name string, errs validation.Errors) time.Time {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		errs.Add(name, validation.MsgRequired)
		return time.Time{}
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		errs.Add(name, msgInvalidDate)
		return time.Time{}
	}

	return t
}
