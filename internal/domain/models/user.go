// internal/domain/models/user.go
package models

// AdminProfile is the lightweight profile returned by POST /admin/login
// alongside the bearer token. It is stored with the token and shown in the
// admin header; the backend stays the authority on what the admin may do.
type AdminProfile struct {
	ID       string `json:"_id,omitempty"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

// DisplayName picks the friendliest non-empty identifier.
func (p AdminProfile) DisplayName() string {
	switch {
	case p.Name != "":
		return p.Name
	case p.Username != "":
		return p.Username
	case p.Email != "":
		return p.Email
	}
	return "Admin"
}

// LoginResult is the body of a successful POST /admin/login.
type LoginResult struct {
	Token     string       `json:"token"`
	AdminInfo AdminProfile `json:"adminInfo"`
}
