package tasks

import "errors"

var (
	ErrNotFound    = errors.New("tarea no encontrada")
	ErrEmptyUpdate = errors.New("no hay campos para actualizar")
	// ErrMissingUser is returned by Sync when a new record lacks usuario_id.
	ErrMissingUser = errors.New("usuario_id es requerido para crear una tarea")
)
