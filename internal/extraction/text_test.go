package extraction

import (
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineToTransaction(t *testing.T) {
	t.Run("negative amount routes to debit", func(t *testing.T) {
		var warnings []string
		txn := lineToTransaction("2024-05-02 Grocery Store -45.67", 1, &warnings)
		require.NotNil(t, txn)
		assert.Equal(t, "2024-05-02", txn.Date.ISO())
		require.NotNil(t, txn.Debit)
		assert.True(t, txn.Debit.Equal(decimal.NewFromFloat(45.67)))
		assert.Nil(t, txn.Credit)
		assert.Contains(t, txn.ID, "fallback")
		assert.Empty(t, warnings)
	})

	t.Run("positive amount routes to credit", func(t *testing.T) {
		var warnings []string
		txn := lineToTransaction("05/10/2024 Salary 2,500.00", 1, &warnings)
		require.NotNil(t, txn)
		require.NotNil(t, txn.Credit)
		assert.True(t, txn.Credit.Equal(decimal.NewFromFloat(2500)))
		assert.Nil(t, txn.Debit)
	})

	t.Run("last amount on the line wins", func(t *testing.T) {
		var warnings []string
		txn := lineToTransaction("05/10/2024 ATM fee 2.50 -1,800.00", 1, &warnings)
		require.NotNil(t, txn)
		require.NotNil(t, txn.Debit)
		assert.True(t, txn.Debit.Equal(decimal.NewFromFloat(1800)))
	})

	t.Run("no date is not a candidate", func(t *testing.T) {
		var warnings []string
		assert.Nil(t, lineToTransaction("Grocery Store -45.67", 1, &warnings))
		assert.Empty(t, warnings)
	})

	t.Run("no amount is not a candidate", func(t *testing.T) {
		var warnings []string
		assert.Nil(t, lineToTransaction("Opening statement period", 1, &warnings))
		assert.Empty(t, warnings)
	})

	t.Run("description is the line minus the date", func(t *testing.T) {
		var warnings []string
		txn := lineToTransaction("2024-05-02 Grocery Store -45.67", 1, &warnings)
		require.NotNil(t, txn)
		assert.Equal(t, "Grocery Store -45.67", txn.Description)
	})
}

func TestTextExtractorProduce(t *testing.T) {
	doc := &document{pages: []page{
		{
			number: 1,
			rows: []textRow{
				{line: "Statement period May 2024"},
				{line: "2024-05-02 Grocery Store -45.67"},
				{line: "2024-05-03 Salary 2,500.00"},
			},
		},
		{
			number: 2,
			rows: []textRow{
				{line: "04/05/2024 Coffee -3.20"},
			},
		},
	}}

	te := &textExtractor{log: slog.Default()}
	var warnings []string
	transactions := te.produce(doc, &warnings)

	require.Len(t, transactions, 3)
	assert.Equal(t, "2024-05-02", transactions[0].Date.ISO())
	assert.Equal(t, "2024-05-04", transactions[2].Date.ISO())
	for _, txn := range transactions {
		assert.Contains(t, txn.ID, "fallback")
	}
}
