package handler

import (
	"strconv"

	"go-retail-admin/internal/apperr"
	"go-retail-admin/internal/middleware"
	"go-retail-admin/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// actor returns who is calling, taken from the session set by RequireAuth
func actor(c *fiber.Ctx) model.Actor {
	if sess := middleware.CurrentSession(c); sess != nil {
		return sess.Actor()
	}
	return model.SystemActor
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid %s", name)
	}
	return id, nil
}

// queryInt reads a positive integer query parameter; absent or malformed values yield 0.
func queryInt(c *fiber.Ctx, name string) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperr.Validation("invalid JSON body")
	}
	return nil
}

func fail(c *fiber.Ctx, err error) error {
	return middleware.WriteError(c, err)
}
