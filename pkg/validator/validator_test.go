package validator

import (
	"testing"

	"go-retail-admin/internal/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stockRequest struct {
	ProductID uuid.UUID       `validate:"uuid_required"`
	Quantity  int             `validate:"gt=0"`
	Price     decimal.Decimal `validate:"gte=0"`
}

func TestValidatePasses(t *testing.T) {
	req := stockRequest{ProductID: uuid.New(), Quantity: 1, Price: decimal.Zero}
	assert.NoError(t, Validate(req))
	assert.Empty(t, ValidateStruct(req))
}

func TestValidateCollectsFields(t *testing.T) {
	req := stockRequest{Quantity: 0, Price: decimal.NewFromInt(-1)}

	errs := ValidateStruct(req)
	require.Len(t, errs, 3)
	assert.Equal(t, "stockRequest.ProductID", errs[0].FailedField)
	assert.Equal(t, "uuid_required", errs[0].Tag)

	err := Validate(req)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "Quantity")
	assert.Contains(t, err.Error(), "Price")
}
