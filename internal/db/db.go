package db

import (
	"database/sql"

	_ "github.com/lib/pq"
)

func Connect(connString string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates the tables on boot, mirroring what the mobile
// client expects. Column names match the wire format (Spanish).
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS usuarios (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			fecha_creacion TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS tareas (
			id TEXT PRIMARY KEY,
			usuario_id TEXT NOT NULL,
			titulo VARCHAR(100) NOT NULL,
			descripcion TEXT,
			prioridad TEXT NOT NULL DEFAULT 'media',
			fecha_recordatorio TIMESTAMPTZ,
			origen TEXT NOT NULL DEFAULT 'usuario',
			completada BOOLEAN NOT NULL DEFAULT FALSE,
			sincronizada BOOLEAN NOT NULL DEFAULT FALSE,
			fecha_creacion TIMESTAMPTZ NOT NULL,
			fecha_actualizacion TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tareas_usuario
			ON tareas (usuario_id, fecha_creacion DESC)`,
		`CREATE TABLE IF NOT EXISTS estado_psicologico (
			id TEXT PRIMARY KEY,
			usuario_id TEXT NOT NULL,
			nivel TEXT NOT NULL,
			descripcion TEXT NOT NULL DEFAULT '',
			fecha TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_estado_usuario
			ON estado_psicologico (usuario_id, fecha DESC)`,
		`CREATE TABLE IF NOT EXISTS historial_chat (
			id TEXT PRIMARY KEY,
			usuario_id TEXT NOT NULL,
			mensaje_usuario TEXT NOT NULL,
			respuesta_ia TEXT NOT NULL,
			fecha TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_historial_usuario
			ON historial_chat (usuario_id, fecha DESC)`,
		`CREATE TABLE IF NOT EXISTS eventos_analitica (
			id BIGSERIAL PRIMARY KEY,
			nombre_evento TEXT NOT NULL,
			fecha_evento TIMESTAMPTZ NOT NULL,
			usuario_id TEXT,
			session_id TEXT,
			plataforma TEXT,
			version_app TEXT,
			locale TEXT,
			propiedades JSONB
		)`,
	}

	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}
