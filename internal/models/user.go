package models

// User roles
const (
	RoleAdmin  = "admin"
	RoleDriver = "driver"
)

type User struct {
	ID        string `json:"id" db:"id"`
	Email     string `json:"email" db:"email"`
	Password  string `json:"-" db:"password"` // bcrypt hash, never serialized
	Name      string `json:"name" db:"name"`
	Role      string `json:"role" db:"role"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
	UpdatedAt int64  `json:"updated_at" db:"updated_at"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (u *User) ToUserResponse() UserResponse {
	return UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	OK    bool          `json:"ok"`
	Token string        `json:"token,omitempty"`
	User  *UserResponse `json:"user,omitempty"`
}
