package request

type Checkout struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email"     validate:"required,email"`
	Address  string `json:"address"`
	Notes    string `json:"notes"`
}
