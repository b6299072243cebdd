package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode はエラーコードを表します
type ErrorCode string

const (
	CodeValidationError    ErrorCode = "VALIDATION_ERROR"
	CodeInvalidRequest     ErrorCode = "INVALID_REQUEST"
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodeConflict           ErrorCode = "CONFLICT"
	CodeRateLimitExceeded  ErrorCode = "RATE_LIMIT_EXCEEDED"
	CodeInternalError      ErrorCode = "INTERNAL_ERROR"
	CodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	// ドキュメントストア固有のコード
	CodeDuplicateFile       ErrorCode = "DUPLICATE_FILE"
	CodeFileNotFound        ErrorCode = "FILE_NOT_FOUND"
	CodeVersionNotFound     ErrorCode = "VERSION_NOT_FOUND"
	CodeStorageWrite        ErrorCode = "STORAGE_WRITE_FAILED"
	CodeStorageNotFound     ErrorCode = "STORAGE_NOT_FOUND"
	CodeUnsupportedFormat   ErrorCode = "UNSUPPORTED_FORMAT"
	CodeDecoding            ErrorCode = "DECODING_FAILED"
	CodeConcurrencyConflict ErrorCode = "CONCURRENCY_CONFLICT"
)

// AppError はアプリケーションエラーを表します
type AppError struct {
	Code       ErrorCode    `json:"code"`
	Message    string       `json:"message"`
	Details    []FieldError `json:"details,omitempty"`
	HTTPStatus int          `json:"-"`
	Err        error        `json:"-"`
}

// FieldError はフィールドエラーを表します
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error はerrorインターフェースを実装します
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap は元のエラーを返します
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError はバリデーションエラーを作成します
func NewValidationError(message string, details []FieldError) *AppError {
	return &AppError{
		Code:       CodeValidationError,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInvalidRequestError は不正リクエストエラーを作成します
func NewInvalidRequestError(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidRequest,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFoundError はリソース不在エラーを作成します
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewConflictError は競合エラーを作成します
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewTooManyRequestsError はレート制限超過エラーを作成します
func NewTooManyRequestsError(message string) *AppError {
	return &AppError{
		Code:       CodeRateLimitExceeded,
		Message:    message,
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// NewInternalError は内部エラーを作成します
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewServiceUnavailableError はサービス利用不可エラーを作成します
func NewServiceUnavailableError(message string) *AppError {
	return &AppError{
		Code:       CodeServiceUnavailable,
		Message:    message,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// NewDuplicateFileError は同名ファイルが既に存在する場合のエラーを作成します
func NewDuplicateFileError(filename string) *AppError {
	return &AppError{
		Code:       CodeDuplicateFile,
		Message:    fmt.Sprintf("file %q already exists", filename),
		HTTPStatus: http.StatusConflict,
	}
}

// NewFileNotFoundError はファイル不在エラーを作成します
func NewFileNotFoundError(fileID fmt.Stringer) *AppError {
	return &AppError{
		Code:       CodeFileNotFound,
		Message:    fmt.Sprintf("file %s not found", fileID),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewVersionNotFoundError はバージョン不在エラーを作成します
func NewVersionNotFoundError(fileID fmt.Stringer, versionNumber int) *AppError {
	return &AppError{
		Code:       CodeVersionNotFound,
		Message:    fmt.Sprintf("version %d of file %s not found", versionNumber, fileID),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewStorageWriteError はストレージ書き込み失敗エラーを作成します
func NewStorageWriteError(location string, err error) *AppError {
	return &AppError{
		Code:       CodeStorageWrite,
		Message:    fmt.Sprintf("failed to write %s", location),
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewStorageNotFoundError はストレージ上にオブジェクトが存在しない場合のエラーを作成します
func NewStorageNotFoundError(location string) *AppError {
	return &AppError{
		Code:       CodeStorageNotFound,
		Message:    fmt.Sprintf("stored content %s not found", location),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewUnsupportedFormatError は未対応フォーマットエラーを作成します
func NewUnsupportedFormatError(filename string) *AppError {
	return &AppError{
		Code:       CodeUnsupportedFormat,
		Message:    fmt.Sprintf("unsupported document format: %s", filename),
		HTTPStatus: http.StatusUnsupportedMediaType,
	}
}

// NewDecodingError はテキストのデコード失敗エラーを作成します
func NewDecodingError(filename string, err error) *AppError {
	return &AppError{
		Code:       CodeDecoding,
		Message:    fmt.Sprintf("failed to decode %s", filename),
		HTTPStatus: http.StatusUnprocessableEntity,
		Err:        err,
	}
}

// NewConcurrencyConflictError は楽観ロック失敗エラーを作成します
func NewConcurrencyConflictError(fileID fmt.Stringer) *AppError {
	return &AppError{
		Code:       CodeConcurrencyConflict,
		Message:    fmt.Sprintf("file %s was modified concurrently", fileID),
		HTTPStatus: http.StatusConflict,
	}
}

// HasCode はエラーが特定のコードかどうかを判定します
func (e *AppError) HasCode(code ErrorCode) bool {
	return e.Code == code
}

// Is はラップされたエラーを含めて、指定コードのAppErrorかどうかを判定します
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsNotFound はリソース不在系のエラーかどうかを判定します
func IsNotFound(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	switch appErr.Code {
	case CodeNotFound, CodeFileNotFound, CodeVersionNotFound, CodeStorageNotFound:
		return true
	}
	return false
}
