package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents a user's role in the system
type UserRole string

const (
	RoleAdmin        UserRole = "admin"
	RoleUser         UserRole = "user"
	RoleLawyer       UserRole = "lawyer"
	RoleFirm         UserRole = "firm"
	RoleInternalTeam UserRole = "internal_team"
)

// ValidRole reports whether r is a known role.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleUser, RoleLawyer, RoleFirm, RoleInternalTeam:
		return true
	}
	return false
}

// User represents a user entity
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize password hash
	Role         UserRole  `json:"role"`

	FullName *string `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`

	IsActive   bool `json:"is_active"`
	IsVerified bool `json:"is_verified"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`

	LawyerProfile *LawyerProfile `json:"lawyer_profile,omitempty"`
	FirmProfile   *FirmProfile   `json:"firm_profile,omitempty"`
}

// LawyerProfile is the extended profile for lawyer accounts
type LawyerProfile struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`

	BarCouncilNumber  *string `json:"bar_council_number,omitempty"`
	PracticeAreas     *string `json:"practice_areas,omitempty"`
	ExperienceYears   *int    `json:"experience_years,omitempty"`
	CourtJurisdiction *string `json:"court_jurisdiction,omitempty"`

	OfficeAddress *string `json:"office_address,omitempty"`
	City          *string `json:"city,omitempty"`
	State         *string `json:"state,omitempty"`
	Pincode       *string `json:"pincode,omitempty"`

	IsBarVerified bool `json:"is_bar_verified"`
}

// FirmProfile is the extended profile for firm accounts
type FirmProfile struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`

	FirmName           string  `json:"firm_name"`
	RegistrationNumber *string `json:"registration_number,omitempty"`
	EstablishedYear    *int    `json:"established_year,omitempty"`

	Website       *string `json:"website,omitempty"`
	OfficeAddress *string `json:"office_address,omitempty"`
	City          *string `json:"city,omitempty"`
	State         *string `json:"state,omitempty"`
	Pincode       *string `json:"pincode,omitempty"`

	LawyerCount   *int    `json:"lawyer_count,omitempty"`
	PracticeAreas *string `json:"practice_areas,omitempty"`

	IsVerified bool `json:"is_verified"`
}
