package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractSuggestionsWithoutMarker(t *testing.T) {
	require.Nil(t, ExtractSuggestions("Te entiendo, suena como una semana difícil."))
	require.Nil(t, ExtractSuggestions(""))
	require.Nil(t, ExtractSuggestions(`[{"titulo":"x"}]`)) // array without marker
}

func TestExtractSuggestionsSingleItem(t *testing.T) {
	got := ExtractSuggestions("Bloque de tareas sugeridas:\n[{\"titulo\":\"x\",\"descripcion\":\"y\",\"prioridad\":\"alta\"}]")

	require.Len(t, got, 1)
	require.Equal(t, Suggestion{Titulo: "x", Descripcion: "y", Prioridad: "alta"}, got[0])
}

func TestExtractSuggestionsEmbeddedInReply(t *testing.T) {
	reply := `Lamento que te sientas así. Intenta descansar esta tarde.

Bloque de tareas sugeridas:
[
  {"titulo": "Salir a caminar 20 minutos", "descripcion": "Aire fresco ayuda a despejar la mente", "prioridad": "media"},
  {"titulo": "Escribir tres cosas positivas", "descripcion": "", "prioridad": "baja"}
]

Cuídate mucho.`

	got := ExtractSuggestions(reply)
	require.Len(t, got, 2)
	require.Equal(t, "Salir a caminar 20 minutos", got[0].Titulo)
	require.Equal(t, "baja", got[1].Prioridad)
}

func TestExtractSuggestionsUndecodableBlock(t *testing.T) {
	require.Nil(t, ExtractSuggestions("Bloque de tareas sugeridas:\n[{titulo sin comillas}]"))
}
