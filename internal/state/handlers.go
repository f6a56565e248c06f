package state

import (
	"encoding/json"
	"net/http"
	"strings"

	"bienestar-backend/internal/analytics"
	"bienestar-backend/internal/web"
)

type Handler struct {
	Evaluator *Evaluator
	Store     Store
	Analytics *analytics.Logger
}

func NewHandler(ev *Evaluator, store Store, logger *analytics.Logger) *Handler {
	return &Handler{Evaluator: ev, Store: store, Analytics: logger}
}

type evaluateRequest struct {
	UsuarioID  string   `json:"usuario_id"`
	Respuestas []Answer `json:"respuestas"`
}

// POST /evaluar-estado-emocional
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var body evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		web.Error(w, http.StatusBadRequest, "JSON inválido.")
		return
	}

	if body.UsuarioID == "" {
		web.Error(w, http.StatusBadRequest, "usuario_id es obligatorio.")
		return
	}
	if len(body.Respuestas) == 0 {
		web.Error(w, http.StatusBadRequest, "respuestas es requerido.")
		return
	}
	for _, resp := range body.Respuestas {
		if strings.TrimSpace(resp.Pregunta) == "" {
			web.Error(w, http.StatusBadRequest, "cada respuesta requiere una pregunta.")
			return
		}
		if resp.ValorRespuesta < 0 || resp.ValorRespuesta > 3 {
			web.Error(w, http.StatusBadRequest, "valor_respuesta debe estar entre 0 y 3.")
			return
		}
	}

	ev, err := h.Evaluator.Evaluate(r.Context(), body.UsuarioID, body.Respuestas)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	env := analytics.FromRequest(r)
	env.UsuarioID = body.UsuarioID
	h.Analytics.Log(r.Context(), env, "evaluacion_completada", map[string]any{
		"nivel": ev.Nivel,
	})

	web.RespondJSON(w, http.StatusOK, map[string]any{
		"mensaje": "Evaluación completada exitosamente.",
		"estado": map[string]any{
			"nivel":       ev.Nivel,
			"descripcion": ev.Descripcion,
		},
		"evaluacion": ev,
	})
}

// GET /activar-evaluacion-inicial?usuario_id=
func (h *Handler) CheckInitial(w http.ResponseWriter, r *http.Request) {
	usuarioID := r.URL.Query().Get("usuario_id")
	if usuarioID == "" {
		web.Error(w, http.StatusBadRequest, "usuario_id es obligatorio.")
		return
	}

	exists, err := h.Store.Exists(r.Context(), usuarioID)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if exists {
		web.RespondJSON(w, http.StatusOK, map[string]string{
			"estado":  "ya_registrado",
			"mensaje": "El perfil psicológico ya fue evaluado previamente.",
		})
		return
	}

	web.RespondJSON(w, http.StatusOK, map[string]string{
		"estado":  "pendiente",
		"mensaje": "Perfil psicológico aún no evaluado. El formulario puede ser mostrado.",
	})
}
