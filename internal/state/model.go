package state

import "time"

// Level is the closed severity vocabulary. The wire values are the color
// scale the mobile client renders: verde (estable) → rojo (crítico).
type Level string

const (
	LevelStable   Level = "verde"
	LevelMild     Level = "amarillo_claro"
	LevelModerate Level = "amarillo"
	LevelSevere   Level = "naranja"
	LevelCritical Level = "rojo"
)

func (l Level) Valid() bool {
	switch l {
	case LevelStable, LevelMild, LevelModerate, LevelSevere, LevelCritical:
		return true
	}
	return false
}

// State is one immutable evaluation result. Only the most recent record per
// user is authoritative.
type State struct {
	ID          string    `json:"id"`
	UsuarioID   string    `json:"usuario_id"`
	Nivel       Level     `json:"nivel"`
	Descripcion string    `json:"descripcion"`
	Fecha       time.Time `json:"fecha"`
}
