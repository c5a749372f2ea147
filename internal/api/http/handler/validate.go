package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// bindJSON decodes and validates the request body. On failure it renders the
// 400 response itself and returns ok=false.
func bindJSON(c fiber.Ctx, dst any) (bool, error) {
	if err := c.Bind().JSON(dst); err != nil {
		return false, badRequest(c, "invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return false, badRequest(c, validationDetails(err))
	}
	return true, nil
}

func validationDetails(err error) any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	fields := make([]fiber.Map, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fiber.Map{
			"field": fe.Field(),
			"rule":  fe.Tag(),
			"param": fe.Param(),
		})
	}
	return fiber.Map{"fields": fields}
}
