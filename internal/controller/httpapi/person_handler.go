package httpapi

import "net/http"

func (h *Handler) createDoctor(w http.ResponseWriter, r *http.Request) {
	var payload doctorPayload
	if !h.decodeJSON(w, r, &payload) {
		return
	}

	doctor, err := h.persons.CreateDoctor(r.Context(), payload.toRequest())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, newDoctorView(doctor, h.clock.Now()))
}

func (h *Handler) updateDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var payload doctorPayload
	if !h.decodeJSON(w, r, &payload) {
		return
	}

	doctor, err := h.persons.UpdateDoctor(r.Context(), id, payload.toRequest())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newDoctorView(doctor, h.clock.Now()))
}

func (h *Handler) deleteDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.persons.DeleteDoctor(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	doctor, err := h.persons.GetDoctor(r.Context(), id, scopeOf(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newDoctorView(doctor, h.clock.Now()))
}

func (h *Handler) listDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.persons.ListDoctors(r.Context(), scopeOf(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newDoctorViews(doctors, h.clock.Now()))
}

func (h *Handler) createPatient(w http.ResponseWriter, r *http.Request) {
	var payload personPayload
	if !h.decodeJSON(w, r, &payload) {
		return
	}

	patient, err := h.persons.CreatePatient(r.Context(), payload.toRequest())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, newPersonView(&patient.Person, h.clock.Now()))
}

func (h *Handler) updatePatient(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var payload personPayload
	if !h.decodeJSON(w, r, &payload) {
		return
	}

	patient, err := h.persons.UpdatePatient(r.Context(), id, payload.toRequest())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newPersonView(&patient.Person, h.clock.Now()))
}

func (h *Handler) deletePatient(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.persons.DeletePatient(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getPatient(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	patient, err := h.persons.GetPatient(r.Context(), id, scopeOf(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newPersonView(&patient.Person, h.clock.Now()))
}

func (h *Handler) listPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.persons.ListPatients(r.Context(), scopeOf(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newPatientViews(patients, h.clock.Now()))
}

func (h *Handler) createAdmin(w http.ResponseWriter, r *http.Request) {
	var payload personPayload
	if !h.decodeJSON(w, r, &payload) {
		return
	}

	admin, err := h.persons.CreateAdmin(r.Context(), payload.toRequest())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, newPersonView(&admin.Person, h.clock.Now()))
}

func (h *Handler) updateAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var payload personPayload
	if !h.decodeJSON(w, r, &payload) {
		return
	}

	admin, err := h.persons.UpdateAdmin(r.Context(), id, payload.toRequest())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newPersonView(&admin.Person, h.clock.Now()))
}

func (h *Handler) deleteAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.persons.DeleteAdmin(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	admin, err := h.persons.GetAdmin(r.Context(), id, scopeOf(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newPersonView(&admin.Person, h.clock.Now()))
}

func (h *Handler) listAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.persons.ListAdmins(r.Context(), scopeOf(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newAdminViews(admins, h.clock.Now()))
}

// login проверяет учётные данные; токены и сессии не выдаются
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if !h.decodeJSON(w, r, &payload) {
		return
	}

	person, err := h.persons.Authenticate(r.Context(), payload.Kind, payload.Email, payload.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newPersonView(person, h.clock.Now()))
}
