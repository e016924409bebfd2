package middleware

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/pressops/wpgate/internal/logger"
)

// Context keys under which validated input is stored.
const (
	QueryKey = "queryParams"
	BodyKey  = "validatedBody"
)

// Validator is a struct that holds the validator instance
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate validates the struct against its validate tags
func (v *Validator) Validate(s interface{}) error {
	return v.validate.Struct(s)
}

// ValidateQuery parses the query string into a fresh T, validates it
// and stores the result under QueryKey. Each request gets its own
// value, so handlers may mutate it freely.
func ValidateQuery[T any]() fiber.Handler {
	v := NewValidator()

	return func(c *fiber.Ctx) error {
		params := new(T)
		if err := c.QueryParser(params); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid query parameters",
				"msg":   err.Error(),
			})
		}

		if err := v.Validate(params); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  "Invalid query parameters",
				"fields": fieldErrors(err),
			})
		}

		c.Locals(QueryKey, params)
		return c.Next()
	}
}

// ValidateBody parses the JSON body into a fresh T, validates it and
// stores the result under BodyKey.
func ValidateBody[T any]() fiber.Handler {
	v := NewValidator()

	return func(c *fiber.Ctx) error {
		body := new(T)
		if err := c.BodyParser(body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
				"msg":   err.Error(),
			})
		}

		if err := v.Validate(body); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  "Validation failed",
				"fields": fieldErrors(err),
			})
		}

		c.Locals(BodyKey, body)
		return c.Next()
	}
}

func fieldErrors(err error) map[string]string {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
	}
	return fields
}

// ErrorHandler renders errors as JSON in a consistent shape
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	logger.Get().Error().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", code).
		Msg("HTTP error")

	return c.Status(code).JSON(fiber.Map{
		"error": http.StatusText(code),
	})
}
