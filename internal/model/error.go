package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeMissingField       = "MISSING_FIELD"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeVinylNotFound      = "VINYL_NOT_FOUND"
	ErrCodeOrderNotFound      = "ORDER_NOT_FOUND"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeCartEmpty          = "CART_EMPTY"
	ErrCodeLoginRequired      = "LOGIN_REQUIRED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeInvalidVerifyCode  = "INVALID_VERIFICATION_CODE"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeInvalidStatus      = "INVALID_STATUS"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeFileTooLarge       = "FILE_TOO_LARGE"
	ErrCodeUnsupportedFile    = "UNSUPPORTED_FILE_TYPE"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidQuantity    = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrVinylNotFound      = NewDomainError(ErrCodeVinylNotFound, "One or more vinyls not found")
	ErrOrderNotFound      = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrUserNotFound       = NewDomainError(ErrCodeUserNotFound, "User not found")
	ErrCartEmpty          = NewDomainError(ErrCodeCartEmpty, "Cart is empty")
	ErrLoginRequired      = NewDomainError(ErrCodeLoginRequired, "Please log in to continue")
	ErrInvalidCredentials = NewDomainError(ErrCodeInvalidCredentials, "Invalid email or password")
	ErrInvalidVerifyCode  = NewDomainError(ErrCodeInvalidVerifyCode, "Verification code is invalid or expired")
	ErrEmailTaken         = NewDomainError(ErrCodeEmailTaken, "An account with this email already exists")
	ErrInvalidStatus      = NewDomainError(ErrCodeInvalidStatus, "Order status must be pending, completed or cancelled")
	ErrFileTooLarge       = NewDomainError(ErrCodeFileTooLarge, "File exceeds the maximum upload size")
	ErrUnsupportedFile    = NewDomainError(ErrCodeUnsupportedFile, "Only image files are allowed")
)
