package state

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestHandler(completer *mockCompleter) (*Handler, *memStates) {
	store := &memStates{}
	return NewHandler(NewEvaluator(completer, store), store, nil), store
}

func postEvaluate(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/evaluar-estado-emocional", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Evaluate(w, req)
	return w
}

func TestEvaluateValidation(t *testing.T) {
	cases := map[string]string{
		"missing usuario_id": `{"respuestas":[{"pregunta":"p","valor_respuesta":1}]}`,
		"empty respuestas":   `{"usuario_id":"u1","respuestas":[]}`,
		"value above range":  `{"usuario_id":"u1","respuestas":[{"pregunta":"p","valor_respuesta":4}]}`,
		"value below range":  `{"usuario_id":"u1","respuestas":[{"pregunta":"p","valor_respuesta":-1}]}`,
		"blank pregunta":     `{"usuario_id":"u1","respuestas":[{"pregunta":" ","valor_respuesta":1}]}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			completer := &mockCompleter{reply: validEvaluationJSON}
			h, store := newTestHandler(completer)

			w := postEvaluate(h, body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			require.Zero(t, completer.calls)
			require.Empty(t, store.created)
		})
	}
}

func TestEvaluateRespondsWithStateAndFullEvaluation(t *testing.T) {
	h, store := newTestHandler(&mockCompleter{reply: validEvaluationJSON})

	w := postEvaluate(h, `{"usuario_id":"u1","respuestas":[{"pregunta":"p","valor_respuesta":2}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Mensaje string `json:"mensaje"`
		Estado  struct {
			Nivel       Level  `json:"nivel"`
			Descripcion string `json:"descripcion"`
		} `json:"estado"`
		Evaluacion Evaluation `json:"evaluacion"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Evaluación completada exitosamente.", resp.Mensaje)
	require.Equal(t, LevelSevere, resp.Estado.Nivel)
	require.Len(t, resp.Evaluacion.Recomendaciones, 3)
	require.Len(t, store.created, 1)
}

func TestCheckInitialStatus(t *testing.T) {
	h, store := newTestHandler(&mockCompleter{})

	get := func(target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		w := httptest.NewRecorder()
		h.CheckInitial(w, req)
		return w
	}

	w := get("/activar-evaluacion-inicial")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = get("/activar-evaluacion-inicial?usuario_id=u1")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"pendiente"`)

	require.NoError(t, store.Create(context.Background(), State{UsuarioID: "u1", Nivel: LevelStable}))

	w = get("/activar-evaluacion-inicial?usuario_id=u1")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"ya_registrado"`)
}
