package chat

import (
	"encoding/json"
	"net/http"
	"time"

	"bienestar-backend/internal/analytics"
	"bienestar-backend/internal/web"
)

type Handler struct {
	Service   *Service
	Analytics *analytics.Logger
}

func NewHandler(svc *Service, logger *analytics.Logger) *Handler {
	return &Handler{Service: svc, Analytics: logger}
}

type converseRequest struct {
	UsuarioID string `json:"usuario_id"`
	Mensaje   string `json:"mensaje"`
}

// POST /chat/ia
func (h *Handler) Converse(w http.ResponseWriter, r *http.Request) {
	var body converseRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		web.Error(w, http.StatusBadRequest, "JSON inválido.")
		return
	}
	if body.UsuarioID == "" || body.Mensaje == "" {
		web.Error(w, http.StatusBadRequest, "usuario_id y mensaje son requeridos.")
		return
	}

	result, err := h.Service.Converse(r.Context(), body.UsuarioID, body.Mensaje)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	env := analytics.FromRequest(r)
	env.UsuarioID = body.UsuarioID
	h.Analytics.Log(r.Context(), env, "chat_mensaje", map[string]any{
		"tareas_generadas": len(result.TareasGeneradas),
	})

	web.RespondJSON(w, http.StatusOK, result)
}

type historyEntry struct {
	MensajeUsuario string    `json:"mensaje_usuario"`
	RespuestaIA    string    `json:"respuesta_ia"`
	Fecha          time.Time `json:"fecha"`
}

// GET /chat/ia/historial/{usuario_id}
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	usuarioID := r.PathValue("usuario_id")
	if usuarioID == "" {
		web.Error(w, http.StatusBadRequest, "usuario_id es obligatorio.")
		return
	}

	historial, err := h.Service.History(r.Context(), usuarioID)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]historyEntry, 0, len(historial))
	for _, t := range historial {
		out = append(out, historyEntry{
			MensajeUsuario: t.MensajeUsuario,
			RespuestaIA:    t.RespuestaIA,
			Fecha:          t.Fecha,
		})
	}
	web.RespondJSON(w, http.StatusOK, out)
}
