// Package middleware contains HTTP middleware functions for the Scorecard API.
// Middleware sits between the HTTP server and route handlers; it is the right place
// for cross-cutting concerns like authentication.
package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shrimpsizemoose/trekker/logger"
	"gorm.io/gorm"

	"github.com/trentd187/golf-scorecards/internal/config"
	"github.com/trentd187/golf-scorecards/internal/models"
)

// Claims defines the data we expect inside a bearer token. Besides the standard fields
// (Subject identifies the account) the issuer may add:
//
//	"role":  "admin" | "manager" | "user"
//	"email": the user's primary email address
//	"name":  display name, the caller's player name on new scorecards that leave it out
type Claims struct {
	jwt.RegisteredClaims
	Role  string `json:"role"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Keys under which Auth stores the caller in c.Locals.
const (
	LocalUserID   = "userID"
	LocalUserRole = "userRole"
	LocalUserName = "userName"
)

// Auth returns a Fiber middleware handler that:
//  1. Validates the JWT from the "Authorization: Bearer <token>" header
//  2. Finds the matching user in our database (or creates one on first visit)
//  3. Syncs the user's role from the token into the database
//  4. Stores the user's id, role, and display name in c.Locals for the handlers
//
// Tokens are verified with HS256 and cfg.AuthSecret. Only in development, with no secret
// configured, are tokens accepted unverified so the app can run against hand-made tokens.
func Auth(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or invalid authorization header",
			})
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := parseClaims(cfg, tokenStr)
		if err != nil {
			logger.Debug.Printf("Rejected bearer token: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		subject := claims.Subject
		if subject == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "token missing subject",
			})
		}

		user, err := syncUser(db.WithContext(c.UserContext()), subject, claims)
		if err != nil {
			logger.Error.Printf("Failed to sync user %s: %v", subject, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "database error",
			})
		}

		c.Locals(LocalUserID, user.ID.String())
		c.Locals(LocalUserRole, string(user.Role))
		c.Locals(LocalUserName, user.DisplayName)
		return c.Next()
	}
}

func parseClaims(cfg *config.Config, tokenStr string) (*Claims, error) {
	claims := &Claims{}

	if cfg.AuthSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, errors.New("AUTH_SECRET is not configured")
		}
		if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
			return nil, err
		}
		return claims, nil
	}

	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return []byte(cfg.AuthSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// syncUser is "lazy user sync": the first request from a subject creates the user row,
// later requests find it and pick up role changes from the token.
func syncUser(db *gorm.DB, subject string, claims *Claims) (*models.User, error) {
	role := roleFromClaim(claims.Role)

	var user models.User
	err := db.Where("subject = ?", subject).First(&user).Error
	if err == nil {
		if user.Role != role && claims.Role != "" {
			if err := db.Model(&user).Update("role", role).Error; err != nil {
				return nil, fmt.Errorf("failed to sync role: %w", err)
			}
			user.Role = role
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Placeholders keep the unique email column satisfied until real claims arrive.
	email := claims.Email
	if email == "" {
		email = fmt.Sprintf("%s@users.local", subject)
	}
	name := claims.Name
	if name == "" {
		name = "Golfer"
	}

	user = models.User{
		Subject:     &subject,
		DisplayName: name,
		Email:       email,
		Role:        role,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user record: %w", err)
	}
	return &user, nil
}

// roleFromClaim converts the raw role string from the token into our typed UserRole.
// A missing or unrecognised claim means "user" (least privileged).
func roleFromClaim(s string) models.UserRole {
	switch s {
	case "admin":
		return models.UserRoleAdmin
	case "manager":
		return models.UserRoleManager
	default:
		return models.UserRoleUser
	}
}
