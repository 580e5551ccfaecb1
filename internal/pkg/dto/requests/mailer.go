package requests

// EmailPayload is the message consumed by the mail delivery worker.
type EmailPayload struct {
	Subject     string   `json:"subject" validate:"required"`
	From        string   `json:"from"`
	To          []string `json:"to" validate:"required,min=1,dive,email"`
	HTMLCode    string   `json:"html_code" validate:"required"`
	Category    string   `json:"category,omitempty"`
	ReferenceID string   `json:"reference_id,omitempty"`
}
