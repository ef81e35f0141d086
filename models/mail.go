package models

// Mail is a transactional e-mail.
type Mail struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	// HTML is the message body.
	HTML string `json:"html"`
}
