package handlers

import (
	"fmt"
	"strings"

	"socialfeed/internal/apperrors"
	"socialfeed/internal/middleware"
	"socialfeed/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrorHandler renders every error returned by a handler or middleware as
// {"error": message} with the status code of its kind.
func ErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		status := apperrors.StatusCode(err)
		if status >= fiber.StatusInternalServerError {
			log.WithError(err).WithFields(logrus.Fields{
				"method": c.Method(),
				"path":   c.Path(),
			}).Error("request failed")
		}
		return c.Status(status).JSON(fiber.Map{"error": apperrors.PublicMessage(err)})
	}
}

// NotFound answers requests that matched no route.
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Endpoint not found"})
}

// parseBody decodes the request body into out and runs its validate tags.
func parseBody(c *fiber.Ctx, v *validator.Validate, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.Validation("Invalid request body")
	}
	if v == nil {
		return nil
	}
	if err := v.Struct(out); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return apperrors.Validation("Invalid request body")
		}
		messages := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			messages = append(messages, fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag()))
		}
		return apperrors.Validation(strings.Join(messages, "; "))
	}
	return nil
}

// paramID parses the :id route parameter; label names the resource in the error.
func paramID(c *fiber.Ctx, label string) (models.ID, error) {
	id, err := models.ParseID(c.Params("id"))
	if err != nil {
		return "", apperrors.Validation("Invalid " + label + " id")
	}
	return id, nil
}

// caller returns the identity set by middleware.AuthRequired.
func caller(c *fiber.Ctx) (models.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return models.Identity{}, apperrors.Unauthorized("Unauthorized")
	}
	return id, nil
}
