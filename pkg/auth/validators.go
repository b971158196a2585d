package auth

// RegisterPayload represents the registration request body.
type RegisterPayload struct {
	Username string `json:"username" validate:"required,min=3,max=50,username"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// SetupPayload represents the initial setup request body.
type SetupPayload struct {
	Username string `json:"username" validate:"required,min=3,max=50,username"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginPayload represents the login request body.
type LoginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterResponse represents the registration response.
type RegisterResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// SetupResponse carries the first admin's identity and bearer token.
type SetupResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// StatusResponse represents the auth status response.
type StatusResponse struct {
	NeedsSetup bool `json:"needs_setup"`
}

// LoginResponse carries the bearer token issued on login.
type LoginResponse struct {
	Token string `json:"token"`
}

// MeResponse represents the current user response.
type MeResponse struct {
	ID          int      `json:"id"`
	Username    string   `json:"username"`
	RoleID      int      `json:"role_id"`
	RoleName    string   `json:"role_name"`
	Permissions []string `json:"permissions"`
}
