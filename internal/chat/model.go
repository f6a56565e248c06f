package chat

import "time"

// Turn is one user message and its reply. Immutable once written.
type Turn struct {
	ID             string    `json:"id"`
	UsuarioID      string    `json:"usuario_id"`
	MensajeUsuario string    `json:"mensaje_usuario"`
	RespuestaIA    string    `json:"respuesta_ia"`
	Fecha          time.Time `json:"fecha"`
}
