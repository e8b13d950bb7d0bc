package healthassessment

import (
	"github.com/agribizboost/agriadmin/internal/domain/dto"
)

// Calculate derives the financial picture of one crop. Ratios are
// percentages and are zero when their denominator is zero.
func Calculate(subsidy, pricePerQuintal, totalCost, quantitySold float64) dto.HealthReport {
	income := quantitySold * pricePerQuintal
	profit := income + subsidy - totalCost

	var stability, cashFlow float64
	if totalCost != 0 {
		stability = profit / totalCost * 100
	}
	if income != 0 {
		cashFlow = totalCost / income * 100
	}

	return dto.HealthReport{
		TotalIncome:        income,
		Profit:             profit,
		FinancialStability: stability,
		CashFlow:           cashFlow,
		TotalExpense:       totalCost,
	}
}
