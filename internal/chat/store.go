package chat

import (
	"context"
	"database/sql"

	"bienestar-backend/internal/tasks"
)

type Store interface {
	// Recent returns the last n turns in chronological order.
	Recent(ctx context.Context, usuarioID string, n int) ([]Turn, error)
	// CreateTurnWithTasks persists a turn and its derived tasks atomically.
	CreateTurnWithTasks(ctx context.Context, turn Turn, tareas []tasks.Task) error
}

type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) Recent(ctx context.Context, usuarioID string, n int) ([]Turn, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, usuario_id, mensaje_usuario, respuesta_ia, fecha
		FROM historial_chat
		WHERE usuario_id = $1
		ORDER BY fecha DESC
		LIMIT $2
	`, usuarioID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.UsuarioID, &t.MensajeUsuario, &t.RespuestaIA, &t.Fecha); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// newest-first from the query; reverse to chronological
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (s *PostgresStore) CreateTurnWithTasks(ctx context.Context, turn Turn, tareas []tasks.Task) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO historial_chat (id, usuario_id, mensaje_usuario, respuesta_ia, fecha)
		VALUES ($1, $2, $3, $4, $5)
	`, turn.ID, turn.UsuarioID, turn.MensajeUsuario, turn.RespuestaIA, turn.Fecha)
	if err != nil {
		return err
	}

	for _, t := range tareas {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO tareas (
				id, usuario_id, titulo, descripcion, prioridad,
				fecha_recordatorio, origen, completada, sincronizada,
				fecha_creacion, fecha_actualizacion
			)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		`,
			t.ID, t.UsuarioID, t.Titulo, t.Descripcion, t.Prioridad,
			t.FechaRecordatorio, t.Origen, t.Completada, t.Sincronizada,
			t.FechaCreacion, t.FechaActualizacion,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
