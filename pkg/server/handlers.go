package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/entitymap/pkg/errors"
	"github.com/matzehuels/entitymap/pkg/model"
)

// GET /api/data
func (s *Server) getData(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.Load(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// POST /api/data
func (s *Server) replaceData(w http.ResponseWriter, r *http.Request) {
	var d model.Data
	if err := decodeJSON(r, &d); err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.Replace(r.Context(), d); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// POST /api/types
func (s *Server) createType(w http.ResponseWriter, r *http.Request) {
	var t model.Type
	if err := decodeJSON(r, &t); err != nil {
		writeError(w, err)
		return
	}
	created, err := s.store.CreateType(r.Context(), t)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// PUT /api/types/{id}
func (s *Server) updateType(w http.ResponseWriter, r *http.Request) {
	var t model.Type
	if err := decodeJSON(r, &t); err != nil {
		writeError(w, err)
		return
	}
	updated, err := s.store.UpdateType(r.Context(), chi.URLParam(r, "id"), t)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DELETE /api/types/{id}
func (s *Server) deleteType(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteType(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/entities
func (s *Server) createEntity(w http.ResponseWriter, r *http.Request) {
	var e model.Entity
	if err := decodeJSON(r, &e); err != nil {
		writeError(w, err)
		return
	}
	created, err := s.store.CreateEntity(r.Context(), e)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GET /api/entities/{id}
func (s *Server) getEntity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, err := s.store.Load(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	e := d.Entity(id)
	if e == nil {
		writeError(w, errors.New(errors.ErrCodeEntityNotFound, "entity %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// PUT /api/entities/{id}
func (s *Server) updateEntity(w http.ResponseWriter, r *http.Request) {
	var e model.Entity
	if err := decodeJSON(r, &e); err != nil {
		writeError(w, err)
		return
	}
	updated, err := s.store.UpdateEntity(r.Context(), chi.URLParam(r, "id"), e)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DELETE /api/entities/{id}
func (s *Server) deleteEntity(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteEntity(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/entities/{id}/backlinks
func (s *Server) backlinks(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, err := s.store.Load(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if d.Entity(id) == nil {
		writeError(w, errors.New(errors.ErrCodeEntityNotFound, "entity %q not found", id))
		return
	}
	links := d.Backlinks(id)
	if links == nil {
		links = []model.Entity{}
	}
	writeJSON(w, http.StatusOK, links)
}
