package state

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"bienestar-backend/internal/ai"
)

// Completer is the slice of the AI client the evaluator needs.
type Completer interface {
	Chat(ctx context.Context, messages []ai.Message, temperature float64, maxTokens int) (string, error)
}

type Answer struct {
	Pregunta       string `json:"pregunta"`
	ValorRespuesta int    `json:"valor_respuesta"`
}

// Evaluation is the full result of one assessment. Only Nivel and
// Descripcion are persisted; the rest goes back to the caller.
type Evaluation struct {
	Nivel           Level              `json:"nivel"`
	Calificaciones  map[string]float64 `json:"calificaciones"`
	Descripcion     string             `json:"descripcion"`
	Recomendaciones []string           `json:"recomendaciones"`
}

type Evaluator struct {
	AI    Completer
	Store Store
}

func NewEvaluator(aiClient Completer, store Store) *Evaluator {
	return &Evaluator{AI: aiClient, Store: store}
}

const evaluatorSystemPrompt = "Eres un psicólogo clínico experto en salud mental."

// Evaluate scores the questionnaire through the reasoning service and
// persists a new immutable state record with the resulting level.
func (e *Evaluator) Evaluate(ctx context.Context, usuarioID string, respuestas []Answer) (Evaluation, error) {
	prompt := buildRubricPrompt(respuestas)

	content, err := e.AI.Chat(ctx, []ai.Message{
		{Role: "system", Content: evaluatorSystemPrompt},
		{Role: "user", Content: prompt},
	}, 0.3, 800)
	if err != nil {
		return Evaluation{}, fmt.Errorf("evaluación: %w", err)
	}

	ev := decodeEvaluation(content)

	st := State{
		ID:          uuid.NewString(),
		UsuarioID:   usuarioID,
		Nivel:       ev.Nivel,
		Descripcion: ev.Descripcion,
		Fecha:       time.Now().UTC(),
	}
	if err := e.Store.Create(ctx, st); err != nil {
		return Evaluation{}, fmt.Errorf("guardar estado: %w", err)
	}

	return ev, nil
}

// decodeEvaluation parses the model reply strictly as JSON. The reply is
// untrusted text: it is never interpreted, only decoded, and an unusable
// reply degrades to the moderate level.
func decodeEvaluation(content string) Evaluation {
	raw := extractJSONObject(content)

	var ev Evaluation
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		return Evaluation{Nivel: LevelModerate}
	}
	if !ev.Nivel.Valid() {
		ev.Nivel = LevelModerate
	}
	return ev
}

// extractJSONObject cuts the first {...} region out of the reply; models
// routinely wrap JSON in code fences or add prose around it.
func extractJSONObject(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return content
	}
	return content[start : end+1]
}

func buildRubricPrompt(respuestas []Answer) string {
	var b strings.Builder

	b.WriteString("Actúa como un psicólogo clínico especializado en bienestar emocional.\n\n")
	b.WriteString("A continuación se presentan las respuestas de un usuario a un cuestionario estructurado en 4 dimensiones: ánimo (depresión), ansiedad, estrés y apoyo emocional. Cada pregunta tiene una respuesta entre 0 (nunca) y 3 (siempre).\n\n")
	b.WriteString("Analiza las respuestas y realiza lo siguiente:\n\n")
	b.WriteString("1. Calcula el promedio por dimensión (depresión, ansiedad, estrés y apoyo).\n")
	b.WriteString("2. Estima el estado psicológico general del usuario según el siguiente sistema de niveles:\n")
	b.WriteString("   - verde: usuario estable y emocionalmente bien\n")
	b.WriteString("   - amarillo_claro: señales leves de afectación emocional\n")
	b.WriteString("   - amarillo: síntomas moderados que requieren atención\n")
	b.WriteString("   - naranja: signos graves que requieren acciones urgentes\n")
	b.WriteString("   - rojo: síntomas críticos, posible riesgo emocional\n\n")
	b.WriteString("3. Genera una descripción empática y profesional del estado del usuario.\n")
	b.WriteString("4. Sugiere al menos 3 recomendaciones prácticas para su bienestar emocional.\n\n")
	b.WriteString("Responde únicamente con un objeto JSON válido, sin texto adicional:\n")
	b.WriteString(`{
  "nivel": "amarillo",
  "calificaciones": {
    "animo": 2.5,
    "ansiedad": 3.2,
    "estres": 3.5,
    "apoyo": 1.0
  },
  "descripcion": "...",
  "recomendaciones": [
    "...", "...", "..."
  ]
}`)
	b.WriteString("\n\nRespuestas del usuario:\n")
	for _, r := range respuestas {
		fmt.Fprintf(&b, "- %s → %d\n", r.Pregunta, r.ValorRespuesta)
	}

	return strings.TrimSpace(b.String())
}
