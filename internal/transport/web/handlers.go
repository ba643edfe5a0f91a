package web

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/goliatone/go-protocol-registry/paging"
)

// The helpers below are shared by the sector, user and protocol routes.

func list[P any](a *API, w http.ResponseWriter, r *http.Request, op string, page func(context.Context, paging.Request) (paging.Result[P], error)) {
	req, err := listRequest(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	res, err := page(r.Context(), req)
	if err != nil {
		a.fail(w, r, op, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

func count(a *API, w http.ResponseWriter, r *http.Request, op string, fn func(context.Context, string) (int, error)) {
	n, err := fn(r.Context(), searchParam(r))
	if err != nil {
		a.fail(w, r, op, err)
		return
	}
	writeData(w, http.StatusOK, n)
}

func get[T any](a *API, w http.ResponseWriter, r *http.Request, op string, fn func(context.Context, uuid.UUID) (T, error)) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	v, err := fn(r.Context(), id)
	if err != nil {
		a.fail(w, r, op, err)
		return
	}
	writeData(w, http.StatusOK, v)
}

func create[I, T any](a *API, w http.ResponseWriter, r *http.Request, op string, fn func(context.Context, I) (T, error)) {
	var in I
	if !decode(w, r, &in) {
		return
	}
	v, err := fn(r.Context(), in)
	if err != nil {
		a.fail(w, r, op, err)
		return
	}
	writeData(w, http.StatusCreated, v)
}

func update[I, T any](a *API, w http.ResponseWriter, r *http.Request, op string, fn func(context.Context, uuid.UUID, I) (T, error)) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in I
	if !decode(w, r, &in) {
		return
	}
	v, err := fn(r.Context(), id, in)
	if err != nil {
		a.fail(w, r, op, err)
		return
	}
	writeData(w, http.StatusOK, v)
}

func remove(a *API, w http.ResponseWriter, r *http.Request, op string, fn func(context.Context, uuid.UUID) error) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := fn(r.Context(), id); err != nil {
		a.fail(w, r, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
