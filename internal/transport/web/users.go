package web

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/goliatone/go-protocol-registry/internal/domain"
)

type sectorChange struct {
	SectorID uuid.UUID `json:"sectorId"`
}

func (a *API) listUsers(w http.ResponseWriter, r *http.Request) {
	list(a, w, r, "users.list", a.Users.Page)
}

func (a *API) countUsers(w http.ResponseWriter, r *http.Request) {
	count(a, w, r, "users.count", a.Users.Count)
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request) {
	get(a, w, r, "users.get", a.Users.Get)
}

func (a *API) createUser(w http.ResponseWriter, r *http.Request) {
	create(a, w, r, "users.create", a.Users.Create)
}

func (a *API) updateUser(w http.ResponseWriter, r *http.Request) {
	update(a, w, r, "users.update", a.Users.Update)
}

func (a *API) deleteUser(w http.ResponseWriter, r *http.Request) {
	remove(a, w, r, "users.delete", a.Users.Delete)
}

func (a *API) changePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in domain.PasswordChange
	if !decode(w, r, &in) {
		return
	}
	if err := a.Users.ChangePassword(r.Context(), id, in); err != nil {
		a.fail(w, r, "users.password", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) changeSector(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in sectorChange
	if !decode(w, r, &in) {
		return
	}
	if in.SectorID == uuid.Nil {
		writeBadRequest(w, "sectorId is required")
		return
	}
	u, err := a.Users.ChangeSector(r.Context(), id, in.SectorID)
	if err != nil {
		a.fail(w, r, "users.sector", err)
		return
	}
	writeData(w, http.StatusOK, u)
}
