package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"bienestar-backend/internal/ai"
	"bienestar-backend/internal/state"
	"bienestar-backend/internal/tasks"
)

const defaultHistoryLimit = 10

type Completer interface {
	Chat(ctx context.Context, messages []ai.Message, temperature float64, maxTokens int) (string, error)
}

// StateReader is the slice of the state store the orchestrator needs.
type StateReader interface {
	Latest(ctx context.Context, usuarioID string) (state.State, error)
}

type Service struct {
	AI     Completer
	Turns  Store
	States StateReader

	// HistoryLimit bounds the prompt window and the history endpoint.
	// Zero means the default of 10.
	HistoryLimit int
}

func NewService(aiClient Completer, turns Store, states StateReader) *Service {
	return &Service{AI: aiClient, Turns: turns, States: states}
}

type ConverseResult struct {
	Respuesta       string       `json:"respuesta"`
	TareasGeneradas []tasks.Task `json:"tareas_generadas"`
}

// Converse runs one grounded chat turn: prompt from state + history, one
// completion call, then the turn and any suggested tasks persisted together.
// Suggestions are only honored when the user has a psychological state.
func (s *Service) Converse(ctx context.Context, usuarioID, mensaje string) (ConverseResult, error) {
	var estado *state.State
	st, err := s.States.Latest(ctx, usuarioID)
	switch {
	case err == nil:
		estado = &st
	case errors.Is(err, state.ErrNotFound):
		// no evaluation yet; the prompt invites the user to complete it
	default:
		return ConverseResult{}, fmt.Errorf("consultar estado: %w", err)
	}

	historial, err := s.Turns.Recent(ctx, usuarioID, s.historyLimit())
	if err != nil {
		return ConverseResult{}, fmt.Errorf("consultar historial: %w", err)
	}

	prompt := BuildConversePrompt(historial, mensaje, estado)

	respuesta, err := s.AI.Chat(ctx, []ai.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	}, 0.6, 700)
	if err != nil {
		return ConverseResult{}, fmt.Errorf("completar chat: %w", err)
	}

	now := time.Now().UTC()
	turn := Turn{
		ID:             uuid.NewString(),
		UsuarioID:      usuarioID,
		MensajeUsuario: mensaje,
		RespuestaIA:    respuesta,
		Fecha:          now,
	}

	var generadas []tasks.Task
	if estado != nil {
		for _, sg := range ExtractSuggestions(respuesta) {
			generadas = append(generadas, materializeSuggestion(sg, usuarioID, now))
		}
	}

	if err := s.Turns.CreateTurnWithTasks(ctx, turn, generadas); err != nil {
		return ConverseResult{}, fmt.Errorf("guardar conversación: %w", err)
	}

	if generadas == nil {
		generadas = []tasks.Task{}
	}
	return ConverseResult{Respuesta: respuesta, TareasGeneradas: generadas}, nil
}

// History returns the last N turns in chronological order.
func (s *Service) History(ctx context.Context, usuarioID string) ([]Turn, error) {
	return s.Turns.Recent(ctx, usuarioID, s.historyLimit())
}

func (s *Service) historyLimit() int {
	if s.HistoryLimit > 0 {
		return s.HistoryLimit
	}
	return defaultHistoryLimit
}

func materializeSuggestion(sg Suggestion, usuarioID string, now time.Time) tasks.Task {
	titulo := sg.Titulo
	if strings.TrimSpace(titulo) == "" {
		titulo = tasks.DefaultTitle
	}

	prioridad := tasks.Priority(sg.Prioridad)
	if !prioridad.Valid() {
		prioridad = tasks.PriorityMedium
	}

	var descripcion *string
	if sg.Descripcion != "" {
		d := sg.Descripcion
		descripcion = &d
	}

	return tasks.Task{
		ID:                 uuid.NewString(),
		UsuarioID:          usuarioID,
		Titulo:             tasks.TruncateTitle(titulo),
		Descripcion:        descripcion,
		Prioridad:          prioridad,
		Origen:             tasks.OriginAI,
		Completada:         false,
		Sincronizada:       false,
		FechaCreacion:      now,
		FechaActualizacion: now,
	}
}
