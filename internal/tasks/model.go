package tasks

import "time"

type Priority string

const (
	PriorityHigh   Priority = "alta"
	PriorityMedium Priority = "media"
	PriorityLow    Priority = "baja"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

type Origin string

const (
	OriginUser Origin = "usuario"
	OriginAI   Origin = "ia"
)

func (o Origin) Valid() bool {
	switch o {
	case OriginUser, OriginAI:
		return true
	}
	return false
}

const (
	MaxTitleLen  = 100
	DefaultTitle = "Sin título"
)

// TruncateTitle enforces the 100-char title limit (rune-based, the client
// sends accented Spanish text).
func TruncateTitle(s string) string {
	r := []rune(s)
	if len(r) <= MaxTitleLen {
		return s
	}
	return string(r[:MaxTitleLen])
}

type Task struct {
	ID                 string     `json:"id"`
	UsuarioID          string     `json:"usuario_id"`
	Titulo             string     `json:"titulo"`
	Descripcion        *string    `json:"descripcion,omitempty"`
	Prioridad          Priority   `json:"prioridad"`
	FechaRecordatorio  *time.Time `json:"fecha_recordatorio,omitempty"`
	Origen             Origin     `json:"origen"`
	Completada         bool       `json:"completada"`
	Sincronizada       bool       `json:"sincronizada"`
	FechaCreacion      time.Time  `json:"fecha_creacion"`
	FechaActualizacion time.Time  `json:"fecha_actualizacion"`
}

// Filter narrows ListByUser; nil fields mean "any".
type Filter struct {
	Prioridad  *Priority
	Origen     *Origin
	Completada *bool
}

// Update carries a partial update; nil fields are left untouched.
type Update struct {
	Titulo            *string
	Descripcion       *string
	Prioridad         *Priority
	FechaRecordatorio *time.Time
	Completada        *bool
	Sincronizada      *bool
}

func (u Update) Empty() bool {
	return u.Titulo == nil &&
		u.Descripcion == nil &&
		u.Prioridad == nil &&
		u.FechaRecordatorio == nil &&
		u.Completada == nil &&
		u.Sincronizada == nil
}

// SyncRecord is one task-like object from the client's sync batch. Every
// field is optional; absent fields keep server values (update) or get
// defaults (create).
type SyncRecord struct {
	ID                *string    `json:"id"`
	UsuarioID         *string    `json:"usuario_id"`
	Titulo            *string    `json:"titulo"`
	Descripcion       *string    `json:"descripcion"`
	Prioridad         *string    `json:"prioridad"`
	FechaRecordatorio *time.Time `json:"fecha_recordatorio"`
	Origen            *string    `json:"origen"`
	Completada        *bool      `json:"completada"`
	Sincronizada      *bool      `json:"sincronizada"`
}

type SyncResult struct {
	Creadas      int `json:"creadas"`
	Actualizadas int `json:"actualizadas"`
}
