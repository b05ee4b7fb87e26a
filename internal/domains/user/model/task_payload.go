package model

// EmailTaskPayload is carried by the verification and password reset
// email tasks.
type EmailTaskPayload struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Token       string `json:"token"`
}
