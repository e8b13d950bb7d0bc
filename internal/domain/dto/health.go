package dto

// CropData is the input of the health-assessment endpoints. Pointers
// distinguish a missing field from an explicit zero.
type CropData struct {
	CropType            *string  `json:"cropType"`
	GovernmentSubsidy   *float64 `json:"governmentSubsidy"`
	SalePricePerQuintal *float64 `json:"salePricePerQuintal"`
	TotalCost           *float64 `json:"totalCost"`
	QuantitySold        *float64 `json:"quantitySold"`
}

// Missing returns the JSON names of absent fields, in declaration order.
func (c CropData) Missing() []string {
	var out []string
	if c.CropType == nil {
		out = append(out, "cropType")
	}
	if c.GovernmentSubsidy == nil {
		out = append(out, "governmentSubsidy")
	}
	if c.SalePricePerQuintal == nil {
		out = append(out, "salePricePerQuintal")
	}
	if c.TotalCost == nil {
		out = append(out, "totalCost")
	}
	if c.QuantitySold == nil {
		out = append(out, "quantitySold")
	}
	return out
}

// HealthReport is the computed financial picture of one crop.
type HealthReport struct {
	TotalIncome        float64 `json:"totalIncome"`
	Profit             float64 `json:"profit"`
	FinancialStability float64 `json:"financialStability"`
	CashFlow           float64 `json:"cashFlow"`
	TotalExpense       float64 `json:"totalExpense"`
}

// SavedResponse wraps a persisted record.
type SavedResponse[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}
