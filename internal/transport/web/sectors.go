package web

import "net/http"

func (a *API) listSectors(w http.ResponseWriter, r *http.Request) {
	list(a, w, r, "sectors.list", a.Sectors.Page)
}

func (a *API) countSectors(w http.ResponseWriter, r *http.Request) {
	count(a, w, r, "sectors.count", a.Sectors.Count)
}

// allSectors returns every sector with its users, for select inputs.
func (a *API) allSectors(w http.ResponseWriter, r *http.Request) {
	all, err := a.Sectors.All(r.Context())
	if err != nil {
		a.fail(w, r, "sectors.all", err)
		return
	}
	writeData(w, http.StatusOK, all)
}

func (a *API) getSector(w http.ResponseWriter, r *http.Request) {
	get(a, w, r, "sectors.get", a.Sectors.Get)
}

func (a *API) createSector(w http.ResponseWriter, r *http.Request) {
	create(a, w, r, "sectors.create", a.Sectors.Create)
}

func (a *API) updateSector(w http.ResponseWriter, r *http.Request) {
	update(a, w, r, "sectors.update", a.Sectors.Update)
}

func (a *API) deleteSector(w http.ResponseWriter, r *http.Request) {
	remove(a, w, r, "sectors.delete", a.Sectors.Delete)
}
