package extraction

import "github.com/shopspring/decimal"

// SummaryTotals aggregates an extraction result for display and export.
type SummaryTotals struct {
	RowCount    int             `json:"row_count"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
}

// Summary computes row count and debit/credit totals over the result's
// transactions.
func (r *ExtractionResult) Summary() SummaryTotals {
	totals := SummaryTotals{
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, txn := range r.Transactions {
		totals.RowCount++
		if txn.Debit != nil {
			totals.TotalDebit = totals.TotalDebit.Add(*txn.Debit)
		}
		if txn.Credit != nil {
			totals.TotalCredit = totals.TotalCredit.Add(*txn.Credit)
		}
	}
	return totals
}
