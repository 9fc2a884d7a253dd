package models

// ContactMessage is the body of POST /api/contact.
type ContactMessage struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// ContactResponse is what the backend answers to a contact submission.
type ContactResponse struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message"`
}
