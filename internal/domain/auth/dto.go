// internal/domain/auth/dto.go
package auth

// SignUpRequest for account registration
type SignUpRequest struct {
	Name      string `json:"name" binding:"required,min=3"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=3"`
	IPAddress string `json:"-"`
}

// SignInRequest for email/password sign-in
type SignInRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	IPAddress string `json:"-"`
}

// UserInfo minimal user information
type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SessionResult is returned after a successful sign-in or sign-up.
type SessionResult struct {
	Token  string   `json:"-"`
	MaxAge int      `json:"max_age"`
	User   UserInfo `json:"user"`
}
