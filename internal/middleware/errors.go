package middleware

import (
	"errors"

	"go-retail-admin/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type errorBody struct {
	Code    apperr.Kind `json:"code"`
	Message string      `json:"message"`
}

// WriteError renders err as {"error": {"code", "message"}} with the matching status.
func WriteError(c *fiber.Ctx, err error) error {
	return c.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{
		"error": errorBody{Code: apperr.KindOf(err), Message: apperr.PublicMessage(err)},
	})
}

// ErrorHandler is the fiber.Config ErrorHandler: framework errors keep their status,
// everything else is logged and reported as internal.
func ErrorHandler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			kind := apperr.KindInternal
			switch fe.Code {
			case fiber.StatusNotFound:
				kind = apperr.KindNotFound
			case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
				kind = apperr.KindValidation
			}
			return c.Status(fe.Code).JSON(fiber.Map{
				"error": errorBody{Code: kind, Message: fe.Message},
			})
		}

		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		}).Error("request failed")
		return WriteError(c, err)
	}
}
