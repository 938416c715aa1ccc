package models

type CreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type CreateUserResponse struct {
	ID     int64  `json:"id"`
	ApiKey string `json:"apiKey"`
}
