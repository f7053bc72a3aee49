package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/passkeeper/internal/common"
	"github.com/dmitrijs2005/passkeeper/internal/models"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadBody
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterRequest
	if err := decode(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.users.Register(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in models.LoginRequest
	if err := decode(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.users.Login(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) listPasswords(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	list, err := s.passwords.List(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) createPassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	var in models.Credential
	if err := decode(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	c, err := s.passwords.Create(r.Context(), userID, &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) updatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	var in models.Credential
	if err := decode(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	// the path wins over any id in the body
	in.ID = chi.URLParam(r, "id")

	c, err := s.passwords.Update(r.Context(), userID, &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) deletePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	if err := s.passwords.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createBackup(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	info, err := s.backups.Snapshot(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}
