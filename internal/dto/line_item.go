package dto

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// LineItemDTO - строка документа (закупка, выдача материалов, перемещение).
type LineItemDTO struct {
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

type LineItemsRequestDTO struct {
	InvoiceNo string        `json:"invoice_no" validate:"required,invoice_no"`
	Items     []LineItemDTO `json:"items" validate:"required,min=1,dive"`
}

type LineAmountDTO struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

type LineItemsTotalDTO struct {
	InvoiceNo  string          `json:"invoice_no"`
	Lines      []LineAmountDTO `json:"lines"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// LineAmount = quantity * rate, округление до 2 знаков.
func LineAmount(quantity, rate decimal.Decimal) decimal.Decimal {
	return quantity.Mul(rate).Round(2)
}

// ComputeTotals считает суммы строк и итог. Итог - сумма уже округлённых строк,
// чтобы совпадать с тем, что видно в таблице.
func ComputeTotals(req LineItemsRequestDTO) (LineItemsTotalDTO, error) {
	out := LineItemsTotalDTO{
		InvoiceNo:  req.InvoiceNo,
		Lines:      make([]LineAmountDTO, 0, len(req.Items)),
		GrandTotal: decimal.Zero,
	}
	for i, item := range req.Items {
		if item.Quantity.IsNegative() {
			return out, fmt.Errorf("строка %d: количество не может быть отрицательным", i+1)
		}
		if item.Rate.IsNegative() {
			return out, fmt.Errorf("строка %d: цена не может быть отрицательной", i+1)
		}
		amount := LineAmount(item.Quantity, item.Rate)
		out.Lines = append(out.Lines, LineAmountDTO{
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Amount:      amount,
		})
		out.GrandTotal = out.GrandTotal.Add(amount)
	}
	return out, nil
}
