// AngelaMos | 2026
// handler.go

package assistant

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/defensordigital/defensor-api/internal/core"
)

// Gates holds the middleware stages routes compose. Stage order is
// fixed: rate limit, then identity, then plan.
type Gates struct {
	RateLimit func(http.Handler) http.Handler
	Identity  func(http.Handler) http.Handler
	PaidPlan  func(http.Handler) http.Handler
}

type Handler struct {
	completer Completer
	validator *validator.Validate
}

func NewHandler(completer Completer) *Handler {
	return &Handler{
		completer: completer,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router, gates Gates) {
	for _, route := range Routes() {
		stages := []func(http.Handler) http.Handler{
			gates.RateLimit,
			gates.Identity,
		}
		if route.Paid {
			stages = append(stages, gates.PaidPlan)
		}

		endpoint := h.Chat(route)
		if route.Image {
			endpoint = h.ChatImage(route)
		}

		r.With(stages...).Post(route.Path, endpoint)
	}
}

func (h *Handler) Chat(route Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			core.BadRequest(w, "invalid request body")
			return
		}

		if err := h.validator.Struct(req); err != nil {
			core.BadRequest(w, core.FormatValidationError(err))
			return
		}

		answer, err := h.completer.Complete(
			r.Context(),
			route.Prompt,
			req.Message,
		)
		if err != nil {
			h.handleUpstreamError(w, err)
			return
		}

		core.OK(w, ChatResponse{Resposta: answer})
	}
}

func (h *Handler) ChatImage(route Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ImageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			core.BadRequest(w, "invalid request body")
			return
		}

		if err := h.validator.Struct(req); err != nil {
			core.BadRequest(w, core.FormatValidationError(err))
			return
		}

		image, mimeType, err := decodeImage(req.Image)
		if err != nil {
			core.BadRequest(w, "image must be valid base64")
			return
		}

		answer, err := h.completer.CompleteWithImage(
			r.Context(),
			route.Prompt,
			image,
			mimeType,
		)
		if err != nil {
			h.handleUpstreamError(w, err)
			return
		}

		core.OK(w, ChatResponse{Resposta: answer})
	}
}

func (h *Handler) handleUpstreamError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrUpstream) {
		core.JSONError(w, core.UpstreamError("assistant unavailable"))
		return
	}
	core.InternalServerError(w, err)
}

// decodeImage accepts raw base64 or a full data URL and returns the
// bytes plus a sniffed content type.
func decodeImage(encoded string) ([]byte, string, error) {
	mimeType := ""

	if strings.HasPrefix(encoded, "data:") {
		comma := strings.IndexByte(encoded, ',')
		if comma < 0 {
			return nil, "", errors.New("malformed data url")
		}
		header := encoded[len("data:"):comma]
		mimeType = strings.TrimSuffix(header, ";base64")
		encoded = encoded[comma+1:]
	}

	image, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", err
	}

	if mimeType == "" {
		mimeType = http.DetectContentType(image)
	}

	return image, mimeType, nil
}
