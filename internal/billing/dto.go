// AngelaMos | 2026
// dto.go

package billing

// PaymentEvent is the normalized form of one inbound PerfectPay
// notification. It lives for the duration of a single webhook call;
// no event log is kept.
type PaymentEvent struct {
	CustomerEmail string
	Status        string
}

// webhookPayload mirrors the fields of the provider payload this
// service consumes. Everything else in the body is ignored.
type webhookPayload struct {
	Customer struct {
		Email string `json:"email"`
	} `json:"customer"`
	SalesDetails struct {
		Status string `json:"status"`
	} `json:"sales_details"`
}

type webhookResponse struct {
	Message         string `json:"message"`
	Applied         bool   `json:"applied"`
	AccountsUpdated int    `json:"accounts_updated"`
}
