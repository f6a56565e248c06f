package state

import (
	"context"
	"database/sql"
	"errors"
)

var ErrNotFound = errors.New("estado psicológico no encontrado")

type Store interface {
	Create(ctx context.Context, s State) error
	Latest(ctx context.Context, usuarioID string) (State, error)
	Exists(ctx context.Context, usuarioID string) (bool, error)
}

type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) Create(ctx context.Context, st State) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO estado_psicologico (id, usuario_id, nivel, descripcion, fecha)
		VALUES ($1, $2, $3, $4, $5)
	`, st.ID, st.UsuarioID, st.Nivel, st.Descripcion, st.Fecha)
	return err
}

func (s *PostgresStore) Latest(ctx context.Context, usuarioID string) (State, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, usuario_id, nivel, descripcion, fecha
		FROM estado_psicologico
		WHERE usuario_id = $1
		ORDER BY fecha DESC
		LIMIT 1
	`, usuarioID)

	var st State
	err := row.Scan(&st.ID, &st.UsuarioID, &st.Nivel, &st.Descripcion, &st.Fecha)
	if errors.Is(err, sql.ErrNoRows) {
		return State{}, ErrNotFound
	}
	return st, err
}

func (s *PostgresStore) Exists(ctx context.Context, usuarioID string) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM estado_psicologico WHERE usuario_id = $1)`,
		usuarioID,
	).Scan(&exists)
	return exists, err
}
