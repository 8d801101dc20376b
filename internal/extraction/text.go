package extraction

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// dateRe matches the four supported date shapes: numeric with slashes or
// dashes, ISO, "Month DD, YYYY" and "DD Month YYYY".
var dateRe = regexp.MustCompile(
	`(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})` +
		`|(\d{4}-\d{2}-\d{2})` +
		`|([A-Za-z]{3,9}\s+\d{1,2},\s+\d{2,4})` +
		`|(\d{1,2}\s+[A-Za-z]{3,9}\s+\d{2,4})`,
)

// amountRe matches monetary amounts with an optional sign, currency symbol
// and thousands separators.
var amountRe = regexp.MustCompile(`[-+]?[$£€]?\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?`)

// textExtractor scans raw page text line by line. It is the committed-path
// fallback entered only when table extraction yields nothing, and marks its
// ids with a "fallback" namespace so consumers can flag the lower-trust
// origin.
type textExtractor struct {
	log *slog.Logger
}

func (te *textExtractor) name() string { return "text" }

func (te *textExtractor) produce(doc *document, warnings *[]string) []Transaction {
	var transactions []Transaction
	for _, pg := range doc.pages {
		for _, line := range pg.lines() {
			if txn := lineToTransaction(line, pg.number, warnings); txn != nil {
				transactions = append(transactions, *txn)
			}
		}
	}
	te.log.Debug("text fallback scan complete", "transactions", len(transactions))
	return transactions
}

// lineToTransaction treats a line as a candidate when it contains at least one
// date match and one amount match. The last amount on the line is read as
// signed: positive routes to credit, negative to debit.
func lineToTransaction(line string, pageNumber int, warnings *[]string) *Transaction {
	dateMatch := dateRe.FindString(line)
	amountMatches := amountRe.FindAllString(line, -1)
	if dateMatch == "" || len(amountMatches) == 0 {
		return nil
	}

	date, err := ParseDate(dateMatch)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("Fallback parser could not parse date in line %q.", line))
		return nil
	}

	description := cleanText(strings.Replace(line, dateMatch, "", 1))
	amount := ParseAmount(amountMatches[len(amountMatches)-1])

	txn := &Transaction{
		ID:          fmt.Sprintf("%s-fallback-%d-%04x", date.ISO(), pageNumber, shortHash(description)),
		Date:        date,
		Description: description,
	}
	if amount != nil {
		if amount.Sign() > 0 {
			txn.Credit = amount
		} else if amount.Sign() < 0 {
			abs := amount.Abs()
			txn.Debit = &abs
		}
	}
	return txn
}
