package response

type User struct {
	Id       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
}

type Login struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
