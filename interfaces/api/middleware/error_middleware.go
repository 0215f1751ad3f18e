package middleware

import (
	"github.com/gofiber/fiber/v2"

	"linetask/application/serviceimpl"
	"linetask/pkg/logger"
	"linetask/pkg/utils"
)

// ErrorHandler maps domain errors onto the response envelope:
// VALIDATION_ERROR→400, PERMISSION_DENIED→403, NOT_FOUND→404,
// CONFLICT→409, DEPENDENCY_ERROR→502
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if domainErr, ok := serviceimpl.AsDomainError(err); ok {
			status := fiber.StatusInternalServerError
			switch domainErr.Code {
			case serviceimpl.CodeValidation:
				status = fiber.StatusBadRequest
			case serviceimpl.CodePermissionDenied:
				status = fiber.StatusForbidden
			case serviceimpl.CodeNotFound:
				status = fiber.StatusNotFound
			case serviceimpl.CodeConflict:
				status = fiber.StatusConflict
			case serviceimpl.CodeDependency:
				status = fiber.StatusBadGateway
			}
			return utils.ErrorResponse(c, status, domainErr.Code, domainErr.Message, domainErr.Details)
		}

		code := fiber.StatusInternalServerError
		errCode := utils.ErrCodeInternalError
		message := "Internal server error"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
			switch code {
			case fiber.StatusBadRequest:
				errCode = utils.ErrCodeBadRequest
			case fiber.StatusUnauthorized:
				errCode = utils.ErrCodeUnauthorized
			case fiber.StatusForbidden:
				errCode = utils.ErrCodeForbidden
			case fiber.StatusNotFound:
				errCode = utils.ErrCodeNotFound
			case fiber.StatusConflict:
				errCode = utils.ErrCodeConflict
			}
		}

		if code >= 500 {
			logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
		}

		return utils.ErrorResponse(c, code, errCode, message, nil)
	}
}
