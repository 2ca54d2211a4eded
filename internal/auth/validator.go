package auth

import "github.com/go-playground/validator/v10"

var validate = validator.New()

type Credentials struct {
	Username string `json:"username" validate:"required,alphanum,min=3,max=32"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (c Credentials) Validate() error {
	return validate.Struct(c)
}
