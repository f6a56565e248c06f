package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Store is what the HTTP layer (and the chat orchestrator's task listing)
// needs from task persistence.
type Store interface {
	Create(ctx context.Context, t Task) error
	GetByID(ctx context.Context, id string) (Task, error)
	ListByUser(ctx context.Context, usuarioID string, f Filter) ([]Task, error)
	Update(ctx context.Context, id string, u Update) (Task, error)
	Delete(ctx context.Context, id string) error
	SetCompleted(ctx context.Context, id string, completada bool) (Task, error)
	Sync(ctx context.Context, batch []SyncRecord) (SyncResult, error)
}

type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

const taskColumns = `id, usuario_id, titulo, descripcion, prioridad,
	fecha_recordatorio, origen, completada, sincronizada,
	fecha_creacion, fecha_actualizacion`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(rs rowScanner) (Task, error) {
	var (
		t    Task
		desc sql.NullString
		rec  sql.NullTime
	)
	err := rs.Scan(
		&t.ID, &t.UsuarioID, &t.Titulo, &desc, &t.Prioridad,
		&rec, &t.Origen, &t.Completada, &t.Sincronizada,
		&t.FechaCreacion, &t.FechaActualizacion,
	)
	if err != nil {
		return Task{}, err
	}
	if desc.Valid {
		t.Descripcion = &desc.String
	}
	if rec.Valid {
		v := rec.Time
		t.FechaRecordatorio = &v
	}
	return t, nil
}

func (s *PostgresStore) Create(ctx context.Context, t Task) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO tareas (`+taskColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		t.ID, t.UsuarioID, t.Titulo, t.Descripcion, t.Prioridad,
		t.FechaRecordatorio, t.Origen, t.Completada, t.Sincronizada,
		t.FechaCreacion, t.FechaActualizacion,
	)
	return err
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (Task, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT `+taskColumns+` FROM tareas WHERE id = $1
	`, id)

	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return t, err
}

func (s *PostgresStore) ListByUser(ctx context.Context, usuarioID string, f Filter) ([]Task, error) {
	where := []string{"usuario_id = $1"}
	args := []any{usuarioID}

	if f.Prioridad != nil {
		args = append(args, *f.Prioridad)
		where = append(where, fmt.Sprintf("prioridad = $%d", len(args)))
	}
	if f.Origen != nil {
		args = append(args, *f.Origen)
		where = append(where, fmt.Sprintf("origen = $%d", len(args)))
	}
	if f.Completada != nil {
		args = append(args, *f.Completada)
		where = append(where, fmt.Sprintf("completada = $%d", len(args)))
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM tareas
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY fecha_creacion DESC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, id string, u Update) (Task, error) {
	if u.Empty() {
		return Task{}, ErrEmptyUpdate
	}

	sets := []string{}
	args := []any{}
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if u.Titulo != nil {
		set("titulo", TruncateTitle(*u.Titulo))
	}
	if u.Descripcion != nil {
		set("descripcion", *u.Descripcion)
	}
	if u.Prioridad != nil {
		set("prioridad", *u.Prioridad)
	}
	if u.FechaRecordatorio != nil {
		set("fecha_recordatorio", *u.FechaRecordatorio)
	}
	if u.Completada != nil {
		set("completada", *u.Completada)
	}
	if u.Sincronizada != nil {
		set("sincronizada", *u.Sincronizada)
	}
	set("fecha_actualizacion", time.Now().UTC())

	args = append(args, id)
	row := s.DB.QueryRowContext(ctx, `
		UPDATE tareas SET `+strings.Join(sets, ", ")+`
		WHERE id = $`+fmt.Sprint(len(args))+`
		RETURNING `+taskColumns,
		args...,
	)

	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return t, err
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM tareas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) SetCompleted(ctx context.Context, id string, completada bool) (Task, error) {
	row := s.DB.QueryRowContext(ctx, `
		UPDATE tareas
		SET completada = $1, fecha_actualizacion = $2
		WHERE id = $3
		RETURNING `+taskColumns,
		completada, time.Now().UTC(), id,
	)

	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return t, err
}

// Sync reconciles a client batch against server state in one transaction:
// records without an id are skipped, known ids get the supplied fields
// applied, unknown ids are inserted with defaults.
func (s *PostgresStore) Sync(ctx context.Context, batch []SyncRecord) (SyncResult, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return SyncResult{}, err
	}
	defer tx.Rollback()

	var result SyncResult
	now := time.Now().UTC()

	for _, rec := range batch {
		if rec.ID == nil || *rec.ID == "" {
			continue
		}

		var exists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM tareas WHERE id = $1)`, *rec.ID,
		).Scan(&exists)
		if err != nil {
			return SyncResult{}, err
		}

		if exists {
			if err := syncUpdate(ctx, tx, rec, now); err != nil {
				return SyncResult{}, err
			}
			result.Actualizadas++
			continue
		}

		if rec.UsuarioID == nil || *rec.UsuarioID == "" {
			return SyncResult{}, ErrMissingUser
		}

		t := newFromSyncRecord(rec, now)
		_, err = tx.ExecContext(ctx, `
			INSERT INTO tareas (`+taskColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		`,
			t.ID, t.UsuarioID, t.Titulo, t.Descripcion, t.Prioridad,
			t.FechaRecordatorio, t.Origen, t.Completada, t.Sincronizada,
			t.FechaCreacion, t.FechaActualizacion,
		)
		if err != nil {
			return SyncResult{}, err
		}
		result.Creadas++
	}

	if err := tx.Commit(); err != nil {
		return SyncResult{}, err
	}
	return result, nil
}

func syncUpdate(ctx context.Context, tx *sql.Tx, rec SyncRecord, now time.Time) error {
	sets := []string{}
	args := []any{}
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if rec.Titulo != nil {
		set("titulo", TruncateTitle(*rec.Titulo))
	}
	if rec.Descripcion != nil {
		set("descripcion", *rec.Descripcion)
	}
	if rec.Prioridad != nil {
		set("prioridad", *rec.Prioridad)
	}
	if rec.FechaRecordatorio != nil {
		set("fecha_recordatorio", *rec.FechaRecordatorio)
	}
	if rec.Origen != nil {
		set("origen", *rec.Origen)
	}
	if rec.Completada != nil {
		set("completada", *rec.Completada)
	}
	if rec.Sincronizada != nil {
		set("sincronizada", *rec.Sincronizada)
	}
	set("fecha_actualizacion", now)

	args = append(args, *rec.ID)
	_, err := tx.ExecContext(ctx, `
		UPDATE tareas SET `+strings.Join(sets, ", ")+`
		WHERE id = $`+fmt.Sprint(len(args)),
		args...,
	)
	return err
}

// newFromSyncRecord materializes a task for an id the server has not seen,
// filling the sync-contract defaults for absent fields.
func newFromSyncRecord(rec SyncRecord, now time.Time) Task {
	t := Task{
		ID:                 *rec.ID,
		Titulo:             DefaultTitle,
		Prioridad:          PriorityMedium,
		Origen:             OriginUser,
		Completada:         false,
		Sincronizada:       true,
		FechaCreacion:      now,
		FechaActualizacion: now,
	}
	if rec.UsuarioID != nil {
		t.UsuarioID = *rec.UsuarioID
	}
	if rec.Titulo != nil {
		t.Titulo = TruncateTitle(*rec.Titulo)
	}
	if rec.Descripcion != nil {
		t.Descripcion = rec.Descripcion
	}
	if rec.Prioridad != nil {
		t.Prioridad = Priority(*rec.Prioridad)
	}
	if rec.FechaRecordatorio != nil {
		t.FechaRecordatorio = rec.FechaRecordatorio
	}
	if rec.Origen != nil {
		t.Origen = Origin(*rec.Origen)
	}
	if rec.Completada != nil {
		t.Completada = *rec.Completada
	}
	if rec.Sincronizada != nil {
		t.Sincronizada = *rec.Sincronizada
	}
	return t
}
