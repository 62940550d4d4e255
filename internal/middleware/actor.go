package middleware

import (
	"strings"

	"quiz-engine/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	ActorIDKey          = "actorID" // Key for storing the actor id in fiber.Ctx locals
)

// OptionalActor resolves the caller's identity from a Bearer token when one
// is present. Anonymous requests pass through untouched; attempts they start
// simply carry no actor id.
func OptionalActor(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return c.Next()
		}

		if !strings.HasPrefix(authHeader, BearerSchema) {
			logger.Get().Debug("OptionalActor: Authorization scheme is not Bearer, proceeding as anonymous.")
			return c.Next()
		}

		tokenString := strings.TrimPrefix(authHeader, BearerSchema)
		if tokenString == "" {
			return c.Next()
		}

		actorID, err := parseActorID(tokenString, jwtSecret)
		if err != nil {
			logger.Get().Debug("OptionalActor: token validation failed, proceeding as anonymous.", zap.Error(err))
			return c.Next()
		}

		c.Locals(ActorIDKey, actorID)
		return c.Next()
	}
}

// RequireActor rejects requests that did not resolve to an actor id.
// It must run after OptionalActor.
func RequireActor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetActorID(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "A valid Bearer token is required",
				Status:  fiber.StatusUnauthorized,
			})
		}
		return c.Next()
	}
}

// GetActorID returns the actor id set by OptionalActor, or "" for anonymous.
func GetActorID(c *fiber.Ctx) string {
	if id, ok := c.Locals(ActorIDKey).(string); ok {
		return id
	}
	return ""
}

func parseActorID(tokenString, jwtSecret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return sub, nil
}
