// AngelaMos | 2026
// dto.go

package assistant

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=8000"`
}

type ImageRequest struct {
	Image string `json:"image" validate:"required"`
}

type ChatResponse struct {
	Resposta string `json:"resposta"`
}
