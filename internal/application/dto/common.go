package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Remaining solo se incluye en INSUFFICIENT_QUANTITY para que la UI
	// pueda corregir sin una segunda llamada.
	Remaining *string `json:"remaining,omitempty"`
}
