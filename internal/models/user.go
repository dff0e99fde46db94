package models

// Role is a privilege rank. Higher ranks include every privilege of lower ones.
type Role int

// Role ranks, ordered from least to most privileged
const (
	RoleGuest Role = iota
	RoleWorker
	RoleModerator
	RoleAdmin
)

// String returns the lowercase role name
func (r Role) String() string {
	switch r {
	case RoleWorker:
		return "worker"
	case RoleModerator:
		return "moderator"
	case RoleAdmin:
		return "admin"
	default:
		return "guest"
	}
}

// RankFromFlags collapses independent role flags into a single rank.
// Admin wins over moderator, moderator over worker.
func RankFromFlags(isAdmin, isModerator, isWorker bool) Role {
	switch {
	case isAdmin:
		return RoleAdmin
	case isModerator:
		return RoleModerator
	case isWorker:
		return RoleWorker
	default:
		return RoleGuest
	}
}

// User represents a registered customer or staff member
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Never serialize password hash
	IsAdmin      bool   `json:"isAdmin"`
	IsModerator  bool   `json:"isModerator"`
	IsWorker     bool   `json:"isWorker"`
}

// Rank returns the user's effective role rank
func (u *User) Rank() Role {
	return RankFromFlags(u.IsAdmin, u.IsModerator, u.IsWorker)
}

// Principal is the identity attached to a single request.
// It is built from the verified session token, never from shared state.
type Principal struct {
	UserID          int    `json:"userId"`
	Username        string `json:"username"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	IsAdmin         bool   `json:"isAdmin"`
	IsModerator     bool   `json:"isModerator"`
	IsWorker        bool   `json:"isWorker"`
}

// Rank returns the principal's effective role rank.
// Unauthenticated principals are always guests.
func (p *Principal) Rank() Role {
	if p == nil || !p.IsAuthenticated {
		return RoleGuest
	}
	return RankFromFlags(p.IsAdmin, p.IsModerator, p.IsWorker)
}

// RegisterRequest represents a request to create an account
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest represents a login by username or email
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries a freshly issued access token
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresAt   int64  `json:"expiresAt"`
}

// UpdateRolesRequest represents an admin change of role flags.
// Omitted fields are left unchanged.
type UpdateRolesRequest struct {
	IsAdmin     *bool `json:"isAdmin,omitempty"`
	IsModerator *bool `json:"isModerator,omitempty"`
	IsWorker    *bool `json:"isWorker,omitempty"`
}

// DashboardResponse is the signed-in user's overview
type DashboardResponse struct {
	Principal    Principal `json:"principal"`
	Role         string    `json:"role"`
	BookingCount int       `json:"bookingCount"`
}
