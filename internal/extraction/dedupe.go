package extraction

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Overlapping strategies can emit near-identical candidates; deduplication
// keeps the first occurrence per normalized key and preserves relative order.
// Running it on its own output changes nothing.

// DedupeTransactions collapses transactions with identical (date, description,
// debit, credit, balance) tuples.
func DedupeTransactions(transactions []Transaction) []Transaction {
	seen := make(map[string]struct{}, len(transactions))
	out := make([]Transaction, 0, len(transactions))
	for _, txn := range transactions {
		key := strings.Join([]string{
			txn.Date.ISO(),
			fuzzyKeyPart(txn.Description),
			decimalKeyPart(txn.Debit),
			decimalKeyPart(txn.Credit),
			decimalKeyPart(txn.Balance),
		}, "|")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, txn)
	}
	return out
}

// DedupeDetections collapses detections on (date, description, debit, credit).
// Balance is deliberately left out of the key: running balances repeat across
// adjacent rows and would defeat the collapse.
func DedupeDetections(detections []DetectedTransaction) []DetectedTransaction {
	seen := make(map[string]struct{}, len(detections))
	out := make([]DetectedTransaction, 0, len(detections))
	for _, det := range detections {
		key := strings.Join([]string{
			fuzzyKeyPart(det.Date),
			fuzzyKeyPart(det.Description),
			fuzzyKeyPart(det.Debit),
			fuzzyKeyPart(det.Credit),
		}, "|")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, det)
	}
	return out
}

// fuzzyKeyPart lower-cases a value and strips all whitespace.
func fuzzyKeyPart(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "")
}

func decimalKeyPart(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
