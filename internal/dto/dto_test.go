package dto

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pest-erp/pkg/customvalidator"
)

func newValidator(t *testing.T) *validator.Validate {
	v := validator.New()
	require.NoError(t, customvalidator.RegisterCustomValidations(v, []int{10, 25, 50, 100}))
	return v
}

func TestComputeTotals(t *testing.T) {
	var req LineItemsRequestDTO
	require.NoError(t, json.Unmarshal([]byte(`{
		"invoice_no": "INV-2024/07",
		"items": [
			{"description": "Cypermethrin 10% EC", "quantity": "2.5", "rate": "410.333"},
			{"description": "Gel bait", "quantity": 3, "rate": 0.1}
		]
	}`), &req))

	out, err := ComputeTotals(req)
	require.NoError(t, err)

	require.Len(t, out.Lines, 2)
	assert.Equal(t, "1025.83", out.Lines[0].Amount.StringFixed(2))
	assert.Equal(t, "0.30", out.Lines[1].Amount.StringFixed(2))
	assert.Equal(t, "1026.13", out.GrandTotal.StringFixed(2))
}

func TestComputeTotals_Negative(t *testing.T) {
	_, err := ComputeTotals(LineItemsRequestDTO{Items: []LineItemDTO{
		{Description: "x", Quantity: decimal.NewFromInt(-1), Rate: decimal.NewFromInt(5)},
	}})
	assert.Error(t, err)
}

func TestLineItemsRequestValidation(t *testing.T) {
	v := newValidator(t)

	ok := LineItemsRequestDTO{InvoiceNo: "PO-11/A", Items: []LineItemDTO{{Description: "Trap"}}}
	assert.NoError(t, v.Struct(ok))

	bad := LineItemsRequestDTO{InvoiceNo: "PO 11", Items: []LineItemDTO{{Description: "Trap"}}}
	assert.Error(t, v.Struct(bad))

	empty := LineItemsRequestDTO{InvoiceNo: "PO-1"}
	assert.Error(t, v.Struct(empty))
}

func TestCustomerFormMaskedThenValid(t *testing.T) {
	v := newValidator(t)

	form := CustomerFormDTO{
		Name:  " Green Leaf Foods ",
		Phone: "98765-43210 ext",
		Email: "ops@greenleaf.in",
		City:  "  Navi   Mumbai 2 ",
	}.Masked()

	assert.Equal(t, "9876543210", form.Phone)
	assert.Equal(t, "Navi Mumbai", form.City)
	assert.NoError(t, v.Struct(form))

	assert.Error(t, v.Struct(CustomerFormDTO{Name: "A", Phone: "12345", City: "Pune"}))
}

func TestListQueryDTOValidation(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Struct(ListQueryDTO{}))
	assert.NoError(t, v.Struct(ListQueryDTO{PageSize: 25, Format: FormatXLSX, Scope: "all"}))
	assert.Error(t, v.Struct(ListQueryDTO{PageSize: 30}))
	assert.Error(t, v.Struct(ListQueryDTO{Format: "docx"}))
	assert.True(t, ListQueryDTO{Scope: "all"}.AllRows())
}
