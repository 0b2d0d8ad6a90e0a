package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/StockSmart-AI/stock-smart-backend/internal/apierror"
	"github.com/StockSmart-AI/stock-smart-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// writeServiceError maps domain sentinels to HTTP status codes. Errors
// that are none of the known sentinels become a 500 through c.Error so
// the ErrorHandler middleware logs them.
func writeServiceError(c *gin.Context, err error) {
	var lineErr *service.LineError
	if errors.As(err, &lineErr) {
		c.JSON(statusFor(lineErr.Err), apierror.New(err.Error()))
		return
	}
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		return
	}
	c.JSON(status, apierror.New(err.Error()))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrShopNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrDuplicateBarcode),
		errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrEmptyPayload),
		errors.Is(err, service.ErrMissingBarcodes),
		errors.Is(err, service.ErrBarcodeCountMismatch),
		errors.Is(err, service.ErrDuplicateBarcodeInRequest),
		errors.Is(err, service.ErrUnexpectedBarcodes),
		errors.Is(err, service.ErrBarcodeWrongProduct),
		errors.Is(err, service.ErrInvalidRestockLine),
		errors.Is(err, service.ErrShopMismatch),
		errors.Is(err, service.ErrInvitationInvalid):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidOTP):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrUserNotVerified),
		errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
