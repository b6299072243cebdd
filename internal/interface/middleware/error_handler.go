package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Vladislavlhp7/data-lineage/pkg/apperror"
	"github.com/Vladislavlhp7/data-lineage/pkg/logger"
)

// ErrorResponse はエラーレスポンス構造を定義します
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
	Meta  ErrorMeta `json:"meta"`
}

// ErrorBody はエラー本体を定義します
type ErrorBody struct {
	Code    string                `json:"code"`
	Message string                `json:"message"`
	Details []apperror.FieldError `json:"details,omitempty"`
}

// ErrorMeta は問い合わせ用のリクエストIDを保持します
type ErrorMeta struct {
	RequestID string `json:"requestId,omitempty"`
}

// CustomHTTPErrorHandler はエラーをAppErrorに正規化してJSONで返します
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	appErr := normalizeError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error(c.Request().Context(), "request failed",
			"code", appErr.Code,
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err.Error(),
		)
	}

	_ = c.JSON(appErr.HTTPStatus, ErrorResponse{
		Error: ErrorBody{
			Code:    string(appErr.Code),
			Message: appErr.Message,
			Details: appErr.Details,
		},
		Meta: ErrorMeta{RequestID: GetRequestID(c)},
	})
}

// normalizeError はecho由来のエラーや未知のエラーをAppErrorに変換します
func normalizeError(err error) *apperror.AppError {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return fromHTTPError(he)
	}

	return apperror.NewInternalError(err)
}

func fromHTTPError(he *echo.HTTPError) *apperror.AppError {
	message := http.StatusText(he.Code)
	if he.Message != nil {
		message = fmt.Sprintf("%v", he.Message)
	}

	var code apperror.ErrorCode
	switch he.Code {
	case http.StatusNotFound:
		code = apperror.CodeNotFound
	case http.StatusTooManyRequests:
		code = apperror.CodeRateLimitExceeded
	case http.StatusServiceUnavailable:
		code = apperror.CodeServiceUnavailable
	default:
		if he.Code >= http.StatusInternalServerError {
			code = apperror.CodeInternalError
		} else {
			code = apperror.CodeInvalidRequest
		}
	}

	return &apperror.AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: he.Code,
		Err:        he.Internal,
	}
}
