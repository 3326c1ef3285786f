package dto

import "github.com/noxus/leadops/internal/models"

type LoginRequest struct {
	Email       string `json:"email" form:"email"`
	Username    string `json:"username" form:"username"`
	Password    string `json:"password" form:"password"`
	CallbackURL string `json:"callbackUrl" form:"callbackUrl"`
}

// Identifier is the login name; the form may send either field.
func (r LoginRequest) Identifier() string {
	if r.Email != "" {
		return r.Email
	}
	return r.Username
}

type LoginResponse struct {
	Success  bool   `json:"success"`
	Redirect string `json:"redirect"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Fail builds the uniform error envelope.
func Fail(message string) ErrorResponse {
	return ErrorResponse{Success: false, Message: message}
}

// DataResponse wraps a payload in the success envelope.
type DataResponse[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

func OK[T any](data T) DataResponse[T] {
	return DataResponse[T]{Success: true, Data: data}
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Upstream  string `json:"upstream"`
	LogSink   string `json:"log_sink"`
}

type TempoAtendimentoResponse struct {
	Success    bool               `json:"success"`
	TotalLojas int                `json:"total_lojas"`
	Data       []models.TempoLoja `json:"data"`
}
