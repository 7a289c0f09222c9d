// AngelaMos | 2026
// dto.go

package account

type CreateRecordRequest struct {
	UID   string `json:"uid"   validate:"required,max=128"`
	Email string `json:"email" validate:"required,email,max=255"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
