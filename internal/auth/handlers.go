package auth

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"bienestar-backend/internal/web"
)

type Handler struct {
	DB     *sql.DB
	Secret []byte
}

func NewHandler(db *sql.DB, secret []byte) *Handler {
	return &Handler{DB: db, Secret: secret}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "JSON inválido.")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		web.Error(w, http.StatusBadRequest, "email y password son requeridos.")
		return
	}

	var exists bool
	err := h.DB.QueryRowContext(r.Context(),
		`SELECT EXISTS (SELECT 1 FROM usuarios WHERE email = $1)`, req.Email,
	).Scan(&exists)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if exists {
		web.Error(w, http.StatusBadRequest, "el email ya está registrado.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	id := uuid.NewString()
	_, err = h.DB.ExecContext(r.Context(), `
		INSERT INTO usuarios (id, email, password, fecha_creacion)
		VALUES ($1, $2, $3, $4)
	`, id, req.Email, string(hash), time.Now().UTC())
	if err != nil {
		web.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	token, err := GenerateToken(h.Secret, id)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	web.RespondJSON(w, http.StatusOK, map[string]string{
		"usuario_id": id,
		"token":      token,
	})
}

// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "JSON inválido.")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var (
		id   string
		hash string
	)
	err := h.DB.QueryRowContext(r.Context(),
		`SELECT id, password FROM usuarios WHERE email = $1`, req.Email,
	).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		web.Error(w, http.StatusUnauthorized, "credenciales inválidas.")
		return
	}
	if err != nil {
		web.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		web.Error(w, http.StatusUnauthorized, "credenciales inválidas.")
		return
	}

	token, err := GenerateToken(h.Secret, id)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	web.RespondJSON(w, http.StatusOK, map[string]string{
		"usuario_id": id,
		"token":      token,
	})
}
