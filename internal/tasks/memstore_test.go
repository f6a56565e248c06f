package tasks

import (
	"context"
	"sort"
	"sync"
	"time"
)

// memStore is an in-memory Store for handler tests, implementing the same
// contract as PostgresStore.
type memStore struct {
	mu    sync.Mutex
	seq   int
	items map[string]Task
	order map[string]int
}

func newMemStore() *memStore {
	return &memStore{items: map[string]Task{}, order: map[string]int{}}
}

func (m *memStore) put(t Task) {
	m.seq++
	m.items[t.ID] = t
	m.order[t.ID] = m.seq
}

func (m *memStore) Create(_ context.Context, t Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(t)
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.items[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	return t, nil
}

func (m *memStore) ListByUser(_ context.Context, usuarioID string, f Filter) ([]Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Task
	for _, t := range m.items {
		if t.UsuarioID != usuarioID {
			continue
		}
		if f.Prioridad != nil && t.Prioridad != *f.Prioridad {
			continue
		}
		if f.Origen != nil && t.Origen != *f.Origen {
			continue
		}
		if f.Completada != nil && t.Completada != *f.Completada {
			continue
		}
		out = append(out, t)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].FechaCreacion.Equal(out[j].FechaCreacion) {
			return out[i].FechaCreacion.After(out[j].FechaCreacion)
		}
		return m.order[out[i].ID] > m.order[out[j].ID]
	})
	return out, nil
}

func (m *memStore) Update(_ context.Context, id string, u Update) (Task, error) {
	if u.Empty() {
		return Task{}, ErrEmptyUpdate
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.items[id]
	if !ok {
		return Task{}, ErrNotFound
	}

	if u.Titulo != nil {
		t.Titulo = TruncateTitle(*u.Titulo)
	}
	if u.Descripcion != nil {
		t.Descripcion = u.Descripcion
	}
	if u.Prioridad != nil {
		t.Prioridad = *u.Prioridad
	}
	if u.FechaRecordatorio != nil {
		t.FechaRecordatorio = u.FechaRecordatorio
	}
	if u.Completada != nil {
		t.Completada = *u.Completada
	}
	if u.Sincronizada != nil {
		t.Sincronizada = *u.Sincronizada
	}
	t.FechaActualizacion = time.Now().UTC()

	m.items[id] = t
	return t, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memStore) SetCompleted(_ context.Context, id string, completada bool) (Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.items[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	t.Completada = completada
	t.FechaActualizacion = time.Now().UTC()
	m.items[id] = t
	return t, nil
}

func (m *memStore) Sync(_ context.Context, batch []SyncRecord) (SyncResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result SyncResult
	now := time.Now().UTC()

	for _, rec := range batch {
		if rec.ID == nil || *rec.ID == "" {
			continue
		}

		if t, ok := m.items[*rec.ID]; ok {
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
			t.FechaActualizacion = now
			m.items[*rec.ID] = t
			result.Actualizadas++
			continue
		}

		if rec.UsuarioID == nil || *rec.UsuarioID == "" {
			return SyncResult{}, ErrMissingUser
		}
		m.put(newFromSyncRecord(rec, now))
		result.Creadas++
	}

	return result, nil
}
