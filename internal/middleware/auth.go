package middleware

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"inkshelf/internal/config"
	"inkshelf/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

var (
	errMissingToken   = errors.New("authorization header required")
	errHeaderFormat   = errors.New("invalid authorization header format")
	errInvalidToken   = errors.New("invalid or expired token")
	errInvalidSubject = errors.New("invalid token subject")
)

// AuthRequired enforces a valid bearer token and stores the user ID in locals.
func AuthRequired(c *fiber.Ctx) error {
	token, err := bearerToken(c.Get("Authorization"))
	if err != nil {
		return unauthorized(c, err)
	}
	return authenticate(c, token)
}

// WebSocketAuthRequired accepts the token from the "token" query parameter,
// falling back to the Authorization header.
func WebSocketAuthRequired(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		var err error
		if token, err = bearerToken(c.Get("Authorization")); err != nil {
			return unauthorized(c, err)
		}
	}
	return authenticate(c, token)
}

func authenticate(c *fiber.Ctx, token string) error {
	userID, err := ParseUserID(token)
	if err != nil {
		return unauthorized(c, err)
	}
	c.Locals("userID", userID)
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))
	return c.Next()
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingToken
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errHeaderFormat
	}
	return parts[1], nil
}

// ParseUserID validates an HS256/384/512 token that carries an expiry and
// returns the user ID in its "sub" claim.
func ParseUserID(tokenString string) (uint, error) {
	if cfg == nil {
		return 0, errInvalidToken
	}
	token, err := jwt.Parse(tokenString,
		func(*jwt.Token) (interface{}, error) { return []byte(cfg.JWTSecret), nil },
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return 0, errInvalidToken
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return 0, errInvalidSubject
	}
	id, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || id == 0 {
		return 0, errInvalidSubject
	}
	return uint(id), nil
}

func unauthorized(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError(err.Error()))
}
