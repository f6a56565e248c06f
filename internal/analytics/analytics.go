package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

type ctxKey string

const ctxUserIDKey ctxKey = "analytics_usuario_id"

// Envelope is what we store with every event.
// Backend-trustable header fields only; never raw message text.
type Envelope struct {
	UsuarioID  string
	SessionID  string
	Platform   string
	AppVersion string
	Locale     string
}

// FromRequest extracts the envelope from request headers.
func FromRequest(r *http.Request) Envelope {
	platform := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Platform")))
	switch platform {
	case "ios", "android", "web":
	default:
		platform = "unknown"
	}

	locale := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if locale == "" {
		locale = strings.TrimSpace(r.Header.Get("X-Device-Locale"))
	}

	return Envelope{
		SessionID:  strings.TrimSpace(r.Header.Get("X-Session-Id")),
		Platform:   platform,
		AppVersion: strings.TrimSpace(r.Header.Get("X-App-Version")),
		Locale:     locale,
	}
}

func WithUserID(ctx context.Context, usuarioID string) context.Context {
	return context.WithValue(ctx, ctxUserIDKey, usuarioID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(ctxUserIDKey).(string)
	return uid, ok && uid != ""
}

type Logger struct {
	DB *sql.DB
}

func NewLogger(db *sql.DB) *Logger {
	return &Logger{DB: db}
}

// Log inserts one event. Best effort: a nil logger or a storage failure
// never breaks the core flow.
func (l *Logger) Log(ctx context.Context, env Envelope, eventName string, props any) {
	if l == nil || l.DB == nil || eventName == "" {
		return
	}

	if env.UsuarioID == "" {
		if uid, ok := UserIDFromContext(ctx); ok {
			env.UsuarioID = uid
		}
	}

	b, err := json.Marshal(props)
	if err != nil {
		return
	}

	_, _ = l.DB.ExecContext(ctx, `
		INSERT INTO eventos_analitica (
			nombre_evento, fecha_evento,
			usuario_id, session_id,
			plataforma, version_app, locale,
			propiedades
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb)
	`,
		eventName, time.Now().UTC(),
		nullIfEmpty(env.UsuarioID), nullIfEmpty(env.SessionID),
		env.Platform, env.AppVersion, nullIfEmpty(env.Locale),
		string(b),
	)
}

func nullIfEmpty(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
