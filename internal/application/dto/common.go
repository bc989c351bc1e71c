package dto

// PageResponse metadatos de página en respuestas (forma compatible con el dashboard).
type PageResponse struct {
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	Number           int   `json:"number"`
	Size             int   `json:"size"`
	NumberOfElements int   `json:"numberOfElements"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	Empty            bool  `json:"empty"`
}

// NewPageResponse calcula los metadatos para la página number (base 0) de tamaño size.
func NewPageResponse(total int64, number, size, count int) PageResponse {
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return PageResponse{
		TotalElements:    total,
		TotalPages:       totalPages,
		Number:           number,
		Size:             size,
		NumberOfElements: count,
		First:            number == 0,
		Last:             number >= totalPages-1,
		Empty:            count == 0,
	}
}

// MessageResponse cuerpo de confirmación simple.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse cuerpo de error HTTP. Errors mapea campo -> mensaje en errores de validación.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}
