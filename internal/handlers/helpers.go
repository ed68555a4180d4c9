package handlers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/trentd187/golf-scorecards/internal/middleware"
)

// validate checks request bodies against their `validate` struct tags. Field names in
// its errors are the JSON names the client sent.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Broadcaster pushes a message to everyone watching a scorecard.
// *websocket.Hub implements it.
type Broadcaster interface {
	BroadcastToScorecard(scorecardID string, data []byte)
}

// currentUser reads the caller's id, which the Auth middleware stored in c.Locals.
func currentUser(c *fiber.Ctx) (uuid.UUID, bool) {
	s, _ := c.Locals(middleware.LocalUserID).(string)
	id, err := uuid.Parse(s)
	return id, err == nil
}

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func invalidUser(c *fiber.Ctx) error {
	return errorJSON(c, fiber.StatusUnauthorized, "invalid user ID")
}

// parseBody decodes the JSON body into v and runs the validator on it. The returned
// message is safe to send back to the client.
func parseBody(c *fiber.Ctx, v any) (string, bool) {
	if err := c.BodyParser(v); err != nil {
		return "invalid request body", false
	}
	if err := validate.Struct(v); err != nil {
		return validationMessage(err), false
	}
	return "", true
}

// validationMessage flattens validator errors into "field: rule" pairs, e.g.
// "players[0].reference: uuid".
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace is "Request.field.sub"; drop the struct name.
		_, field, _ := strings.Cut(fe.Namespace(), ".")
		parts = append(parts, field+": "+fe.Tag())
	}
	return "invalid request body: " + strings.Join(parts, ", ")
}
