package domain

import (
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	ErrEmailTaken         = &Error{Kind: KindInvalid, Code: "email_taken", Message: "Cet email est déjà enregistré"}
	ErrInvalidCredentials = &Error{Kind: KindUnauthenticated, Code: "invalid_credentials", Message: "Identifiants invalides"}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Code: "user_not_found", Message: "Utilisateur introuvable"}
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// NormalizeEmail trims and lower-cases an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// User models an account stored in the credential store.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Identity is the minimal caller view attached to an authenticated request.
// It never carries the password hash.
type Identity struct {
	ID    string
	Email string
	Role  string
}

// IdentityOf projects a stored user onto its request identity.
func IdentityOf(u *User) Identity {
	return Identity{ID: u.ID, Email: u.Email, Role: u.Role}
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// TokenClaims is the verified payload of an identity token.
type TokenClaims struct {
	Subject   string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
