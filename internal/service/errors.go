package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the inventory services. Handlers map them
// to HTTP status codes; services and tests match them with errors.Is.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrShopNotFound      = errors.New("shop not found")
	ErrItemNotFound      = errors.New("item not found")
	ErrShopMismatch      = errors.New("product does not belong to the shop")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInvalidPrice      = errors.New("price must not be negative")
	ErrEmptyPayload      = errors.New("transaction payload is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateBarcode  = errors.New("barcode already registered")

	ErrMissingBarcodes           = errors.New("serialized product requires barcodes")
	ErrBarcodeCountMismatch      = errors.New("barcode count does not match quantity")
	ErrDuplicateBarcodeInRequest = errors.New("duplicate barcode in request")
	ErrUnexpectedBarcodes        = errors.New("barcodes are only accepted for serialized products")
	ErrBarcodeWrongProduct       = errors.New("barcode belongs to a different product")
	ErrInvalidRestockLine        = errors.New("restock requires either quantity or barcodes, not both")

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotVerified    = errors.New("account not verified")
	ErrInvalidOTP         = errors.New("invalid or expired code")
	ErrInvitationInvalid  = errors.New("invitation is invalid or expired")
	ErrForbidden          = errors.New("operation not allowed for this user")
)

// LineError wraps a sentinel with the cart index it occurred at, so
// clients can point at the offending line.
type LineError struct {
	Index int
	Err   error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Index, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }
