package request

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

type Register struct {
	FullName string `validate:"required"       json:"full_name"`
	Email    string `validate:"required,email" json:"email"`
	Password string `validate:"required,min=8" json:"password"`
	Address  string `                          json:"address"`
}

func (r Register) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", r.Email).Str("full_name", r.FullName)
}

func (r Register) MarshalJSON() ([]byte, error) {
	r.Password = "***"
	type R Register
	return json.Marshal(R(r))
}
