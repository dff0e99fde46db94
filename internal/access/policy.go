// Package access decides whether a principal may reach a protected route.
//
// Role flags are stored independently on a user but evaluated as a single
// rank: admin satisfies moderator and worker requirements, moderator
// satisfies worker requirements. Evaluation is a pure function of its
// inputs and safe to call on every request.
package access

import (
	"errors"
	"fmt"

	"github.com/hotelbooking/backend/internal/models"
)

// Requirement is the minimum privilege a protected route demands
type Requirement int

// Route requirements
const (
	RequireNone Requirement = iota
	RequireWorker
	RequireModerator
	RequireAdmin
)

// MinRank returns the lowest role rank that satisfies the requirement
func (r Requirement) MinRank() models.Role {
	switch r {
	case RequireWorker:
		return models.RoleWorker
	case RequireModerator:
		return models.RoleModerator
	case RequireAdmin:
		return models.RoleAdmin
	default:
		return models.RoleGuest
	}
}

// String returns a readable name of the requirement
func (r Requirement) String() string {
	switch r {
	case RequireWorker:
		return "require_worker"
	case RequireModerator:
		return "require_moderator"
	case RequireAdmin:
		return "require_admin"
	default:
		return "none"
	}
}

// Reason tells why access was denied
type Reason int

// Denial reasons. ReasonNone accompanies an allowed decision.
const (
	ReasonNone Reason = iota
	ReasonNotAuthenticated
	ReasonInsufficientRole
)

// String returns the snake_case reason code used in responses and logs
func (r Reason) String() string {
	switch r {
	case ReasonNotAuthenticated:
		return "not_authenticated"
	case ReasonInsufficientRole:
		return "insufficient_role"
	default:
		return "none"
	}
}

// Sentinel errors returned by Decision.Err
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInsufficientRole = errors.New("insufficient role")
)

// Decision is the outcome of an access evaluation
type Decision struct {
	Allowed bool
	Reason  Reason
	// Missing is the role the principal lacked, set only for ReasonInsufficientRole
	Missing models.Role
}

// Err returns nil for allowed decisions and a sentinel-wrapping error otherwise
func (d Decision) Err() error {
	switch d.Reason {
	case ReasonNotAuthenticated:
		return ErrNotAuthenticated
	case ReasonInsufficientRole:
		return fmt.Errorf("%w: %s privileges required", ErrInsufficientRole, d.Missing)
	default:
		return nil
	}
}

// Message returns the user-facing notification text for a denial
func (d Decision) Message() string {
	switch d.Reason {
	case ReasonNotAuthenticated:
		return "Please log in to view this page"
	case ReasonInsufficientRole:
		switch d.Missing {
		case models.RoleAdmin:
			return "Administrator privileges are required to view this page"
		case models.RoleModerator:
			return "Moderator privileges are required to view this page"
		default:
			return "Staff privileges are required to view this page"
		}
	default:
		return ""
	}
}

// Evaluate decides whether principal may access a route with requirement req.
//
// A nil or unauthenticated principal is always denied with ReasonNotAuthenticated,
// even for RequireNone. Otherwise the principal's rank must be at least req.MinRank().
func Evaluate(principal *models.Principal, req Requirement) Decision {
	if principal == nil || !principal.IsAuthenticated {
		return Decision{Reason: ReasonNotAuthenticated}
	}

	if principal.Rank() < req.MinRank() {
		return Decision{Reason: ReasonInsufficientRole, Missing: req.MinRank()}
	}

	return Decision{Allowed: true}
}
