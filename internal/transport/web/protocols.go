package web

import "net/http"

func (a *API) listProtocols(w http.ResponseWriter, r *http.Request) {
	list(a, w, r, "protocols.list", a.Protocols.Page)
}

func (a *API) countProtocols(w http.ResponseWriter, r *http.Request) {
	count(a, w, r, "protocols.count", a.Protocols.Count)
}

func (a *API) getProtocol(w http.ResponseWriter, r *http.Request) {
	get(a, w, r, "protocols.get", a.Protocols.Get)
}

func (a *API) createProtocol(w http.ResponseWriter, r *http.Request) {
	create(a, w, r, "protocols.create", a.Protocols.Create)
}

func (a *API) updateProtocol(w http.ResponseWriter, r *http.Request) {
	update(a, w, r, "protocols.update", a.Protocols.Update)
}

func (a *API) deleteProtocol(w http.ResponseWriter, r *http.Request) {
	remove(a, w, r, "protocols.delete", a.Protocols.Delete)
}
