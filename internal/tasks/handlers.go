package tasks

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"bienestar-backend/internal/analytics"
	"bienestar-backend/internal/web"
)

type Handler struct {
	Store     Store
	Analytics *analytics.Logger
}

func NewHandler(store Store, logger *analytics.Logger) *Handler {
	return &Handler{Store: store, Analytics: logger}
}

type createRequest struct {
	UsuarioID         string     `json:"usuario_id"`
	Titulo            string     `json:"titulo"`
	Descripcion       *string    `json:"descripcion"`
	Prioridad         *string    `json:"prioridad"`
	FechaRecordatorio *time.Time `json:"fecha_recordatorio"`
	Origen            *string    `json:"origen"`
}

type updateRequest struct {
	Titulo            *string    `json:"titulo"`
	Descripcion       *string    `json:"descripcion"`
	Prioridad         *string    `json:"prioridad"`
	FechaRecordatorio *time.Time `json:"fecha_recordatorio"`
	Completada        *bool      `json:"completada"`
	Sincronizada      *bool      `json:"sincronizada"`
}

// POST /tareas
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var body createRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		web.Error(w, http.StatusBadRequest, "JSON inválido.")
		return
	}

	if body.UsuarioID == "" {
		web.Error(w, http.StatusBadRequest, "usuario_id es obligatorio.")
		return
	}
	if strings.TrimSpace(body.Titulo) == "" {
		web.Error(w, http.StatusBadRequest, "titulo es requerido.")
		return
	}

	prioridad := PriorityMedium
	if body.Prioridad != nil {
		prioridad = Priority(*body.Prioridad)
		if !prioridad.Valid() {
			web.Error(w, http.StatusBadRequest, "prioridad debe ser 'alta', 'media' o 'baja'")
			return
		}
	}

	origen := OriginUser
	if body.Origen != nil {
		origen = Origin(*body.Origen)
		if !origen.Valid() {
			web.Error(w, http.StatusBadRequest, "origen debe ser 'usuario' o 'ia'")
			return
		}
	}

	now := time.Now().UTC()
	t := Task{
		ID:                 uuid.NewString(),
		UsuarioID:          body.UsuarioID,
		Titulo:             TruncateTitle(body.Titulo),
		Descripcion:        body.Descripcion,
		Prioridad:          prioridad,
		FechaRecordatorio:  body.FechaRecordatorio,
		Origen:             origen,
		Completada:         false,
		Sincronizada:       false,
		FechaCreacion:      now,
		FechaActualizacion: now,
	}

	if err := h.Store.Create(r.Context(), t); err != nil {
		web.Error(w, http.StatusInternalServerError, "error al guardar la tarea: "+err.Error())
		return
	}

	env := analytics.FromRequest(r)
	env.UsuarioID = t.UsuarioID
	h.Analytics.Log(r.Context(), env, "tarea_creada", map[string]any{
		"origen":    t.Origen,
		"prioridad": t.Prioridad,
	})

	web.RespondJSON(w, http.StatusOK, t)
}

// PATCH /tareas/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var body updateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		web.Error(w, http.StatusBadRequest, "JSON inválido.")
		return
	}

	u := Update{
		Titulo:            body.Titulo,
		Descripcion:       body.Descripcion,
		FechaRecordatorio: body.FechaRecordatorio,
		Completada:        body.Completada,
		Sincronizada:      body.Sincronizada,
	}
	if body.Prioridad != nil {
		p := Priority(*body.Prioridad)
		if !p.Valid() {
			web.Error(w, http.StatusBadRequest, "prioridad debe ser 'alta', 'media' o 'baja'")
			return
		}
		u.Prioridad = &p
	}
	if body.Titulo != nil && strings.TrimSpace(*body.Titulo) == "" {
		web.Error(w, http.StatusBadRequest, "titulo no puede estar vacío.")
		return
	}
	if u.Empty() {
		web.Error(w, http.StatusBadRequest, "No se proporcionaron campos para actualizar.")
		return
	}

	t, err := h.Store.Update(r.Context(), id, u)
	if err != nil {
		h.storeError(w, err)
		return
	}
	web.RespondJSON(w, http.StatusOK, t)
}

// DELETE /tareas/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.storeError(w, err)
		return
	}
	web.RespondJSON(w, http.StatusOK, map[string]string{"mensaje": "Tarea eliminada correctamente."})
}

// GET /tarea/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	t, err := h.Store.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.storeError(w, err)
		return
	}
	web.RespondJSON(w, http.StatusOK, t)
}

// GET /tareas/{usuario_id}
func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	usuarioID := r.PathValue("usuario_id")
	if usuarioID == "" {
		web.Error(w, http.StatusBadRequest, "El usuario_id es requerido.")
		return
	}
	h.list(w, r, usuarioID, Filter{})
}

// GET /tareas/{usuario_id}/completadas?completadas=bool
func (h *Handler) ListCompleted(w http.ResponseWriter, r *http.Request) {
	completadas, err := strconv.ParseBool(r.URL.Query().Get("completadas"))
	if err != nil {
		web.Error(w, http.StatusBadRequest, "completadas debe ser true o false.")
		return
	}
	h.list(w, r, r.PathValue("usuario_id"), Filter{Completada: &completadas})
}

// GET /tareas/{usuario_id}/filtrar?prioridad=&origen=
func (h *Handler) FilterTasks(w http.ResponseWriter, r *http.Request) {
	var f Filter

	if v := r.URL.Query().Get("prioridad"); v != "" {
		p := Priority(v)
		if !p.Valid() {
			web.Error(w, http.StatusBadRequest, "prioridad debe ser 'alta', 'media' o 'baja'")
			return
		}
		f.Prioridad = &p
	}
	if v := r.URL.Query().Get("origen"); v != "" {
		o := Origin(v)
		if !o.Valid() {
			web.Error(w, http.StatusBadRequest, "origen debe ser 'usuario' o 'ia'")
			return
		}
		f.Origen = &o
	}

	h.list(w, r, r.PathValue("usuario_id"), f)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, usuarioID string, f Filter) {
	out, err := h.Store.ListByUser(r.Context(), usuarioID, f)
	if err != nil {
		web.Error(w, http.StatusInternalServerError, "error al consultar tareas: "+err.Error())
		return
	}
	if out == nil {
		out = []Task{}
	}
	web.RespondJSON(w, http.StatusOK, out)
}

// POST /tareas/{id}/completar?completada=bool
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	completada := true
	if v := r.URL.Query().Get("completada"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			web.Error(w, http.StatusBadRequest, "completada debe ser true o false.")
			return
		}
		completada = b
	}

	t, err := h.Store.SetCompleted(r.Context(), r.PathValue("id"), completada)
	if err != nil {
		h.storeError(w, err)
		return
	}
	web.RespondJSON(w, http.StatusOK, t)
}

// POST /tareas/sync
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	var batch []SyncRecord
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		web.Error(w, http.StatusBadRequest, "JSON inválido.")
		return
	}
	if len(batch) == 0 {
		web.Error(w, http.StatusBadRequest, "Se requiere una lista de tareas para sincronizar.")
		return
	}

	for _, rec := range batch {
		if rec.Prioridad != nil && !Priority(*rec.Prioridad).Valid() {
			web.Error(w, http.StatusBadRequest, "prioridad debe ser 'alta', 'media' o 'baja'")
			return
		}
		if rec.Origen != nil && !Origin(*rec.Origen).Valid() {
			web.Error(w, http.StatusBadRequest, "origen debe ser 'usuario' o 'ia'")
			return
		}
	}

	result, err := h.Store.Sync(r.Context(), batch)
	if err != nil {
		if errors.Is(err, ErrMissingUser) {
			web.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		web.Error(w, http.StatusInternalServerError, "error al sincronizar: "+err.Error())
		return
	}

	h.Analytics.Log(r.Context(), analytics.FromRequest(r), "tareas_sincronizadas", result)

	web.RespondJSON(w, http.StatusOK, map[string]any{
		"mensaje":   "Sincronización completa.",
		"resultado": result,
	})
}

func (h *Handler) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		web.Error(w, http.StatusNotFound, "Tarea no encontrada.")
	case errors.Is(err, ErrEmptyUpdate):
		web.Error(w, http.StatusBadRequest, "No se proporcionaron campos para actualizar.")
	default:
		web.Error(w, http.StatusInternalServerError, err.Error())
	}
}
