package userservice

// User модель пользователя из UserService
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// UserListResponse ответ со справочником пользователей
type UserListResponse struct {
	Users []User `json:"users"`
}
