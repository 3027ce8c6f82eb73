package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nzaccagnino/volon/internal/db"
)

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// Auth handlers

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (Credentials, bool) {
	var req Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return req, false
	}
	if req.Username == "" || req.Password == "" {
		jsonError(w, "username and password required", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := s.db.GetUserByUsername(req.Username)
	if err != nil {
		s.logger.Error("login lookup failed", "username", req.Username, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	if user == nil || !s.db.ValidatePassword(user, req.Password) {
		jsonError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if !user.Active {
		jsonError(w, "user is disabled", http.StatusForbidden)
		return
	}

	s.issueToken(w, user, http.StatusOK)
}

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	if len(req.Password) < 8 {
		jsonError(w, "password must be at least 8 characters", http.StatusBadRequest)
		return
	}

	existing, err := s.db.GetUserByUsername(req.Username)
	if err != nil {
		s.logger.Error("register lookup failed", "username", req.Username, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		jsonError(w, "username already exists", http.StatusConflict)
		return
	}

	user, err := s.db.CreateUser(req.Username, req.Password)
	if err != nil {
		s.logger.Error("create user failed", "username", req.Username, "error", err)
		jsonError(w, "failed to create user", http.StatusInternalServerError)
		return
	}
	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)

	s.issueToken(w, user, http.StatusCreated)
}

func (s *Server) issueToken(w http.ResponseWriter, user *db.User, status int) {
	token, expiresAt, err := s.jwt.Generate(user.ID, user.Username)
	if err != nil {
		s.logger.Error("token generation failed", "user_id", user.ID, "error", err)
		jsonError(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		UserID:    user.ID,
		Username:  user.Username,
	}, status)
}

// Notes handlers

// NoteRecord is the wire shape of one remote note.
type NoteRecord struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
	Content    string    `json:"content"`
	UserID     string    `json:"user_id"`
}

type NoteListResponse struct {
	Notes []NoteRecord `json:"notes"`
}

func toRecord(n db.ServerNote) NoteRecord {
	return NoteRecord{
		ID:         n.ID,
		CreatedAt:  n.CreatedAt.UTC(),
		ModifiedAt: n.ModifiedAt.UTC(),
		Content:    n.Content,
		UserID:     n.UserID,
	}
}

// decodeRecord reads a record body and binds it to the authenticated user.
// A record naming another user is rejected.
func decodeRecord(w http.ResponseWriter, r *http.Request, user *db.User) (db.ServerNote, bool) {
	var rec NoteRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return db.ServerNote{}, false
	}
	if rec.UserID != "" && rec.UserID != user.ID {
		jsonError(w, "user_id does not match token", http.StatusForbidden)
		return db.ServerNote{}, false
	}
	if rec.CreatedAt.IsZero() || rec.ModifiedAt.IsZero() {
		jsonError(w, "created_at and modified_at required", http.StatusBadRequest)
		return db.ServerNote{}, false
	}
	return db.ServerNote{
		ID:         rec.ID,
		UserID:     user.ID,
		Content:    rec.Content,
		CreatedAt:  rec.CreatedAt,
		ModifiedAt: rec.ModifiedAt,
	}, true
}

func (s *Server) listNotesHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	notes, err := s.db.ListNotesByUser(user.ID)
	if err != nil {
		s.logger.Error("list notes failed", "user_id", user.ID, "error", err)
		jsonError(w, "failed to list notes", http.StatusInternalServerError)
		return
	}

	response := NoteListResponse{Notes: make([]NoteRecord, len(notes))}
	for i, n := range notes {
		response.Notes[i] = toRecord(n)
	}
	jsonResponse(w, response, http.StatusOK)
}

func (s *Server) getNoteHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	noteID := chi.URLParam(r, "id")

	note, err := s.db.GetNote(noteID, user.ID)
	if err != nil {
		s.logger.Error("get note failed", "note_id", noteID, "error", err)
		jsonError(w, "failed to get note", http.StatusInternalServerError)
		return
	}
	if note == nil {
		jsonError(w, "note not found", http.StatusNotFound)
		return
	}
	jsonResponse(w, toRecord(*note), http.StatusOK)
}

func (s *Server) createNoteHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	note, ok := decodeRecord(w, r, user)
	if !ok {
		return
	}
	if note.ID == "" {
		jsonError(w, "id required", http.StatusBadRequest)
		return
	}

	if err := s.db.InsertNote(note); err != nil {
		if errors.Is(err, db.ErrNoteExists) {
			jsonError(w, "note already exists", http.StatusConflict)
			return
		}
		s.logger.Error("insert note failed", "note_id", note.ID, "error", err)
		jsonError(w, "failed to save note", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, toRecord(note), http.StatusCreated)
}

func (s *Server) updateNoteHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	note, ok := decodeRecord(w, r, user)
	if !ok {
		return
	}
	note.ID = chi.URLParam(r, "id")

	if err := s.db.UpdateNote(note); err != nil {
		if errors.Is(err, db.ErrNoteNotFound) {
			jsonError(w, "note not found", http.StatusNotFound)
			return
		}
		s.logger.Error("update note failed", "note_id", note.ID, "error", err)
		jsonError(w, "failed to save note", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, toRecord(note), http.StatusOK)
}

func (s *Server) deleteNoteHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	noteID := chi.URLParam(r, "id")

	if err := s.db.DeleteNote(noteID, user.ID); err != nil {
		s.logger.Error("delete note failed", "note_id", noteID, "error", err)
		jsonError(w, "failed to delete note", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteAllNotesHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	removed, err := s.db.DeleteNotesByUser(user.ID)
	if err != nil {
		s.logger.Error("delete all notes failed", "user_id", user.ID, "error", err)
		jsonError(w, "failed to delete notes", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]int64{"deleted": removed}, http.StatusOK)
}
