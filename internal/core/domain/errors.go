package domain

import (
	"errors"
	"strings"
)

// Kind classifies a domain error. The HTTP layer maps each kind to exactly
// one status code.
type Kind int

const (
	KindUnexpected Kind = iota
	KindInvalid
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindMethodNotAllowed
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "unexpected"
	}
}

// Error is the single error type surfaced by services and middleware.
// Message is safe to show to API clients.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details []string
}

func (e *Error) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}

// Is matches on Kind and Code, so a sentinel still matches after Details or
// Message were specialised with WithMessage / NewValidationError.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// WithMessage returns a copy of e carrying a more specific client message.
func (e *Error) WithMessage(msg string) *Error {
	clone := *e
	clone.Message = msg
	return &clone
}

const MsgValidationFailed = "Validation échouée"

// NewValidationError builds a ValidationFailed error carrying every violation.
func NewValidationError(details []string) *Error {
	return &Error{
		Kind:    KindInvalid,
		Code:    "validation_failed",
		Message: MsgValidationFailed,
		Details: details,
	}
}

var (
	ErrValidation = &Error{Kind: KindInvalid, Code: "validation_failed", Message: MsgValidationFailed}

	ErrMissingToken      = &Error{Kind: KindUnauthenticated, Code: "missing_token", Message: "Token manquant ou mal formé"}
	ErrInvalidToken      = &Error{Kind: KindUnauthenticated, Code: "invalid_token", Message: "Token invalide ou expiré"}
	ErrTokenUserNotFound = &Error{Kind: KindUnauthenticated, Code: "token_user_not_found", Message: "Utilisateur associé au token introuvable"}
	ErrUnauthenticated   = &Error{Kind: KindUnauthenticated, Code: "unauthenticated", Message: "Non authentifié"}
	ErrForbidden         = &Error{Kind: KindForbidden, Code: "forbidden", Message: "Accès refusé"}

	ErrMethodNotAllowed = &Error{Kind: KindMethodNotAllowed, Code: "method_not_allowed", Message: "Method not allowed"}
	ErrRateLimited      = &Error{Kind: KindRateLimited, Code: "rate_limited", Message: "Trop de requêtes, réessayez plus tard"}
	ErrInternal         = &Error{Kind: KindUnexpected, Code: "internal", Message: "Erreur interne du serveur"}
)

// KindOf returns the kind of err, or KindUnexpected for foreign errors.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnexpected
}
