package state

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"bienestar-backend/internal/ai"
)

type mockCompleter struct {
	reply string
	err   error
	calls int

	gotMessages    []ai.Message
	gotTemperature float64
	gotMaxTokens   int
}

func (m *mockCompleter) Chat(_ context.Context, messages []ai.Message, temperature float64, maxTokens int) (string, error) {
	m.calls++
	m.gotMessages = messages
	m.gotTemperature = temperature
	m.gotMaxTokens = maxTokens
	return m.reply, m.err
}

type memStates struct {
	created []State
}

func (m *memStates) Create(_ context.Context, s State) error {
	m.created = append(m.created, s)
	return nil
}

func (m *memStates) Latest(_ context.Context, usuarioID string) (State, error) {
	for i := len(m.created) - 1; i >= 0; i-- {
		if m.created[i].UsuarioID == usuarioID {
			return m.created[i], nil
		}
	}
	return State{}, ErrNotFound
}

func (m *memStates) Exists(_ context.Context, usuarioID string) (bool, error) {
	for _, s := range m.created {
		if s.UsuarioID == usuarioID {
			return true, nil
		}
	}
	return false, nil
}

const validEvaluationJSON = `{
  "nivel": "naranja",
  "calificaciones": {"animo": 2.5, "ansiedad": 3.0, "estres": 2.8, "apoyo": 0.5},
  "descripcion": "El usuario muestra signos graves de afectación emocional.",
  "recomendaciones": ["Buscar apoyo profesional", "Mantener rutinas de sueño", "Hablar con personas de confianza"]
}`

func TestDecodeEvaluationStrictJSON(t *testing.T) {
	ev := decodeEvaluation(validEvaluationJSON)

	require.Equal(t, LevelSevere, ev.Nivel)
	require.Equal(t, 2.5, ev.Calificaciones["animo"])
	require.Len(t, ev.Recomendaciones, 3)
}

func TestDecodeEvaluationFencedAndWrapped(t *testing.T) {
	ev := decodeEvaluation("Claro, aquí está el análisis:\n```json\n" + validEvaluationJSON + "\n```\nEspero que ayude.")

	require.Equal(t, LevelSevere, ev.Nivel)
	require.NotEmpty(t, ev.Descripcion)
}

func TestDecodeEvaluationGarbageFallsBack(t *testing.T) {
	ev := decodeEvaluation("Lo siento, no puedo evaluar eso.")

	require.Equal(t, LevelModerate, ev.Nivel)
	require.Empty(t, ev.Descripcion)
	require.Empty(t, ev.Recomendaciones)
}

func TestDecodeEvaluationUnknownLevelFallsBack(t *testing.T) {
	ev := decodeEvaluation(`{"nivel": "morado", "descripcion": "texto"}`)

	require.Equal(t, LevelModerate, ev.Nivel)
	require.Equal(t, "texto", ev.Descripcion)
}

func TestEvaluatePersistsOnlyLevelAndDescription(t *testing.T) {
	completer := &mockCompleter{reply: validEvaluationJSON}
	store := &memStates{}
	e := NewEvaluator(completer, store)

	ev, err := e.Evaluate(context.Background(), "u1", []Answer{
		{Pregunta: "¿Te has sentido decaído?", ValorRespuesta: 3},
		{Pregunta: "¿Cuentas con alguien de confianza?", ValorRespuesta: 0},
	})
	require.NoError(t, err)

	require.Equal(t, 0.3, completer.gotTemperature)
	require.Equal(t, 800, completer.gotMaxTokens)
	require.Contains(t, completer.gotMessages[1].Content, "¿Te has sentido decaído? → 3")

	require.Equal(t, LevelSevere, ev.Nivel)
	require.Len(t, ev.Recomendaciones, 3)

	require.Len(t, store.created, 1)
	st := store.created[0]
	require.NotEmpty(t, st.ID)
	require.Equal(t, "u1", st.UsuarioID)
	require.Equal(t, LevelSevere, st.Nivel)
	require.Equal(t, ev.Descripcion, st.Descripcion)
	require.False(t, st.Fecha.IsZero())
}

func TestEvaluateCompleterFailurePersistsNothing(t *testing.T) {
	completer := &mockCompleter{err: errors.New("timeout")}
	store := &memStates{}
	e := NewEvaluator(completer, store)

	_, err := e.Evaluate(context.Background(), "u1", []Answer{{Pregunta: "p", ValorRespuesta: 1}})
	require.Error(t, err)
	require.Empty(t, store.created)
}

func TestBuildRubricPromptListsLevelsAndAnswers(t *testing.T) {
	got := buildRubricPrompt([]Answer{{Pregunta: "¿Duermes bien?", ValorRespuesta: 2}})

	for _, nivel := range []string{"verde", "amarillo_claro", "amarillo", "naranja", "rojo"} {
		require.Contains(t, got, nivel)
	}
	require.Contains(t, got, "- ¿Duermes bien? → 2")
	require.Contains(t, got, "objeto JSON válido")
}
