// Package http exposes the posting engine and its operator services
// over HTTP, wired with gofiber/fiber/v2 (spec §6/§7). Handlers are
// thin: bind, call the matching internal/services UseCase, translate
// the result, following the teacher's ports/http handler shape of
// "struct holding UseCases, one method per route".
package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/meridianpay/ledgercore/pkg/merr"
)

// errorBody is spec §6's error envelope: {error, code, name, correlation_id?}.
type errorBody struct {
	Error         string `json:"error"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// writeError maps any error to its spec-mandated JSON shape and status
// code. A *merr.DomainError maps through merr.HTTPStatus; anything else
// is wrapped as merr.Internal first so unknown errors still escape as
// INTERNAL_ERROR with the original message preserved.
func writeError(c *fiber.Ctx, err error) error {
	var domainErr *merr.DomainError
	if !errors.As(err, &domainErr) {
		domainErr = merr.Internal(err)
	}

	correlationID, _ := c.Locals(correlationIDLocal).(string)

	return c.Status(merr.HTTPStatus(domainErr.Code)).JSON(errorBody{
		Error:         domainErr.Error(),
		Code:          string(domainErr.Code),
		Name:          domainErr.Name,
		CorrelationID: correlationID,
	})
}

func writeOK(c *fiber.Ctx, body any) error {
	return c.Status(fiber.StatusOK).JSON(body)
}

func writeCreated(c *fiber.Ctx, body any) error {
	return c.Status(fiber.StatusCreated).JSON(body)
}
