package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string   `json:"name" validate:"required,notblank,max=10"`
	Price    *float64 `json:"price" validate:"required"`
	Quantity int      `json:"quantity" validate:"gte=0"`
}

func TestValidateStructPasses(t *testing.T) {
	zero := 0.0
	assert.Empty(t, ValidateStruct(sample{Name: "Shirt", Price: &zero}))
}

func TestValidateStructReportsJSONFieldNames(t *testing.T) {
	errs := ValidateStruct(sample{Name: "", Quantity: -1})
	require.Len(t, errs, 3)

	assert.Equal(t, "name", errs[0].FailedField)
	assert.Equal(t, "required", errs[0].Tag)
	assert.Equal(t, "price", errs[1].FailedField)
	assert.Equal(t, "quantity", errs[2].FailedField)
	assert.Equal(t, "gte", errs[2].Tag)
	assert.Equal(t, "0", errs[2].Value)
}

func TestValidateStructNotBlank(t *testing.T) {
	one := 1.0
	errs := ValidateStruct(sample{Name: "   ", Price: &one})
	require.Len(t, errs, 1)
	assert.Equal(t, "notblank", errs[0].Tag)
}
