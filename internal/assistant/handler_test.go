// AngelaMos | 2026
// handler_test.go

package assistant

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defensordigital/defensor-api/internal/core"
)

type fakeCompleter struct {
	answer     string
	err        error
	lastPrompt string
	lastInput  string
	lastMime   string
	lastImage  []byte
}

func (f *fakeCompleter) Complete(
	_ context.Context,
	systemPrompt, userMessage string,
) (string, error) {
	f.lastPrompt = systemPrompt
	f.lastInput = userMessage
	return f.answer, f.err
}

func (f *fakeCompleter) CompleteWithImage(
	_ context.Context,
	systemPrompt string,
	image []byte,
	mimeType string,
) (string, error) {
	f.lastPrompt = systemPrompt
	f.lastImage = image
	f.lastMime = mimeType
	return f.answer, f.err
}

// markerGate tags requests so tests can observe which stages a route
// composed and in what order.
func markerGate(name string, log *[]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*log = append(*log, name)
			next.ServeHTTP(w, r)
		})
	}
}

func newAssistantServer(
	completer Completer,
	log *[]string,
) http.Handler {
	router := chi.NewRouter()
	NewHandler(completer).RegisterRoutes(router, Gates{
		RateLimit: markerGate("ratelimit", log),
		Identity:  markerGate("identity", log),
		PaidPlan:  markerGate("plan", log),
	})
	return router
}

func postJSON(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestChatReturnsAnswer(t *testing.T) {
	var log []string
	completer := &fakeCompleter{answer: "Você tem direito ao reembolso."}
	router := newAssistantServer(completer, &log)

	rec := postJSON(router, "/chat", `{"message":"fui cobrado duas vezes"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "reembolso")
	assert.Equal(t, "fui cobrado duas vezes", completer.lastInput)
	assert.Equal(t, promptGeral, completer.lastPrompt)
}

func TestChatMissingMessage(t *testing.T) {
	var log []string
	router := newAssistantServer(&fakeCompleter{answer: "x"}, &log)

	rec := postJSON(router, "/chat", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatUpstreamFailure(t *testing.T) {
	var log []string
	completer := &fakeCompleter{
		err: fmt.Errorf("chat completion: timeout: %w", core.ErrUpstream),
	}
	router := newAssistantServer(completer, &log)

	rec := postJSON(router, "/chat", `{"message":"oi"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "UPSTREAM_UNAVAILABLE")
}

func TestSpecialistRoutesUseOwnPrompts(t *testing.T) {
	var log []string
	completer := &fakeCompleter{answer: "ok"}
	router := newAssistantServer(completer, &log)

	cases := map[string]string{
		"/chat-advogado":  promptAdvogado,
		"/chat-procon":    promptProcon,
		"/chat-telefonia": promptTelefonia,
		"/chat-nomesujo":  promptNomeSujo,
	}

	for path, prompt := range cases {
		rec := postJSON(router, path, `{"message":"preciso de ajuda"}`)

		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, prompt, completer.lastPrompt, path)
	}
}

func TestRouteGateComposition(t *testing.T) {
	completer := &fakeCompleter{answer: "ok"}

	t.Run("general chat skips plan stage", func(t *testing.T) {
		var log []string
		router := newAssistantServer(completer, &log)

		postJSON(router, "/chat", `{"message":"oi"}`)

		assert.Equal(t, []string{"ratelimit", "identity"}, log)
	})

	t.Run("specialist route runs all three in order", func(t *testing.T) {
		var log []string
		router := newAssistantServer(completer, &log)

		postJSON(router, "/chat-advogado", `{"message":"oi"}`)

		assert.Equal(t, []string{"ratelimit", "identity", "plan"}, log)
	})

	t.Run("image route skips plan stage", func(t *testing.T) {
		var log []string
		router := newAssistantServer(completer, &log)

		image := base64.StdEncoding.EncodeToString([]byte("fake image"))
		postJSON(router, "/chat-golpometro", `{"image":"`+image+`"}`)

		assert.Equal(t, []string{"ratelimit", "identity"}, log)
	})
}

func TestGolpometroMissingImage(t *testing.T) {
	var log []string
	router := newAssistantServer(&fakeCompleter{answer: "x"}, &log)

	rec := postJSON(router, "/chat-golpometro", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGolpometroRejectsBadBase64(t *testing.T) {
	var log []string
	router := newAssistantServer(&fakeCompleter{answer: "x"}, &log)

	rec := postJSON(router, "/chat-golpometro", `{"image":"%%%not-base64%%%"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGolpometroDecodesImage(t *testing.T) {
	var log []string
	completer := &fakeCompleter{answer: "<h1>Risco alto</h1>"}
	router := newAssistantServer(completer, &log)

	raw := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46}
	encoded := base64.StdEncoding.EncodeToString(raw)

	rec := postJSON(router, "/chat-golpometro", `{"image":"`+encoded+`"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, raw, completer.lastImage)
	assert.Equal(t, "image/jpeg", completer.lastMime)
	assert.Contains(t, rec.Body.String(), "Risco alto")
}

func TestDecodeImageDataURL(t *testing.T) {
	raw := []byte("png bytes")
	encoded := "data:image/png;base64," +
		base64.StdEncoding.EncodeToString(raw)

	image, mimeType, err := decodeImage(encoded)
	require.NoError(t, err)

	assert.Equal(t, raw, image)
	assert.Equal(t, "image/png", mimeType)
}
