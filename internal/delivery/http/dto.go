package http

// NotifyRequest is the HTTP form of the hook payload. It uses `json`
// tags for unmarshalling and `binding` for validation with Gin.
type NotifyRequest struct {
	Event    string   `json:"event" binding:"required"`
	Title    string   `json:"title" binding:"required"`
	Content  string   `json:"content"`
	Level    string   `json:"level"`
	Channels []string `json:"channels,omitempty"`
	Force    bool     `json:"force,omitempty"`
}

// ErrorResponse defines a standard structure for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
