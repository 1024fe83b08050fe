package serverutils

// Response is the standard envelope for non-contract endpoints
// (the /api/generate, /api/execute and /api/step surfaces have their
// own fixed wire shapes and do not use this envelope).
type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(message string) Response[any] {
	return Response[any]{
		Success: false,
		Message: message,
	}
}
