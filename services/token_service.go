package services

import (
	"errors"
	"os"
	"strconv"
	"time"

	"research-cell-api/models"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the session token claims. BaseRole is the stored account role;
// ViewRole is set only after a role switch and never overrides BaseRole in
// the token itself.
type Claims struct {
	UserID   int    `json:"user_id"`
	Email    string `json:"email"`
	BaseRole string `json:"base_role"`
	ViewRole string `json:"view_role,omitempty"`
	jwt.RegisteredClaims
}

// EffectiveRole is the role a request is authorized as: the view role when a
// switch happened, the base role otherwise.
func (c *Claims) EffectiveRole() string {
	if c.ViewRole != "" {
		return c.ViewRole
	}
	return c.BaseRole
}

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

func tokenLifetime() time.Duration {
	expireHours, err := strconv.Atoi(os.Getenv("JWT_EXPIRE_HOURS"))
	if err != nil {
		expireHours = 24
	}
	return time.Duration(expireHours) * time.Hour
}

func signClaims(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret())
	if err != nil {
		return "", WrapError(KindInternal, "Failed to generate token", err)
	}
	return signed, nil
}

// IssueToken mints a session token for a verified account. The validity
// window is fixed at issuance.
func IssueToken(user models.User) (string, error) {
	if !user.IsVerified {
		return "", NewError(KindAuth, "Account is not verified")
	}

	now := time.Now()
	claims := Claims{
		UserID:   user.UserID,
		Email:    user.Email,
		BaseRole: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime())),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return signClaims(claims)
}

// RoleCapabilities returns the set of roles the account can act as. The base
// role always grants itself; the capability flags add the opposite role for
// dual teacher/reviewer accounts.
func RoleCapabilities(user models.User) map[string]bool {
	caps := map[string]bool{user.Role: true}
	if user.HasReviewerCapability {
		caps[models.RoleReviewer] = true
	}
	if user.HasTeacherCapability {
		caps[models.RoleTeacher] = true
	}
	return caps
}

// SwitchRole reissues a token whose view role is the requested role. Only
// teacher/reviewer switches are supported, and the account must hold both
// capabilities.
func SwitchRole(claims *Claims, user models.User, requestedRole string) (string, error) {
	if requestedRole != models.RoleTeacher && requestedRole != models.RoleReviewer {
		return "", NewError(KindForbiddenRoleSwitch, "Role switching is only available between teacher and reviewer")
	}

	caps := RoleCapabilities(user)
	if !caps[models.RoleTeacher] || !caps[models.RoleReviewer] {
		return "", NewError(KindForbiddenRoleSwitch, "Account does not hold both teacher and reviewer capabilities")
	}
	if !caps[requestedRole] {
		return "", NewError(KindForbiddenRoleSwitch, "Account lacks the requested role capability")
	}

	now := time.Now()
	next := Claims{
		UserID:   claims.UserID,
		Email:    claims.Email,
		BaseRole: claims.BaseRole,
		ViewRole: requestedRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime())),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return signClaims(next)
}

// RefreshToken reissues a still-valid token with a fresh validity window,
// preserving both base and view role.
func RefreshToken(claims *Claims) (string, error) {
	now := time.Now()
	next := Claims{
		UserID:   claims.UserID,
		Email:    claims.Email,
		BaseRole: claims.BaseRole,
		ViewRole: claims.ViewRole,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime())),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return signClaims(next)
}

// ParseToken validates a signed token. Expired tokens fail closed.
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, WrapError(KindAuth, "Token expired", err)
		}
		return nil, WrapError(KindAuth, "Invalid token", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, NewError(KindAuth, "Invalid token claims")
	}
	return claims, nil
}
