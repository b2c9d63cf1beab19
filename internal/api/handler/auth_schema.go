package handler

// Auth payloads keep the null-on-failure shape existing clients rely on:
// insertedId and token are always present, null when absent.

type credentialRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type insertedResponse struct {
	Message    string  `json:"message,omitempty"`
	InsertedID *string `json:"insertedId"`
}

type tokenResponse struct {
	Message string  `json:"message"`
	Token   *string `json:"token"`
}
