package extraction

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"time"
)

// headerKeywords maps each logical column to the header labels that identify
// it. Matching is exact against the normalized (lower-cased, whitespace
// collapsed) header cell.
var headerKeywords = map[string][]string{
	"date":        {"date"},
	"description": {"description", "details", "transaction", "narrative"},
	"debit":       {"debit", "withdrawal", "paid out"},
	"credit":      {"credit", "deposit", "paid in"},
	"amount":      {"amount", "value"},
	"balance":     {"balance", "running"},
}

// isHeaderKeyword reports whether a normalized cell matches any header label.
func isHeaderKeyword(cell string) bool {
	for _, labels := range headerKeywords {
		for _, label := range labels {
			if cell == label {
				return true
			}
		}
	}
	return false
}

// tableExtractor recognizes tabular statement layouts and converts data rows
// into transactions. It is the highest-priority committed-path strategy.
type tableExtractor struct {
	log *slog.Logger
}

func (te *tableExtractor) name() string { return "table" }

// produce scans every page for transaction tables and converts their rows.
// Pages or tables without a usable header are skipped silently: a table whose
// columns cannot be identified is simply not a transaction table.
func (te *tableExtractor) produce(doc *document, warnings *[]string) []Transaction {
	var transactions []Transaction
	for _, pg := range doc.pages {
		for tableIndex, tbl := range detectTables(pg) {
			context := fmt.Sprintf("page %d, table %d", pg.number, tableIndex+1)
			for _, row := range tbl.rows {
				if txn := rowToTransaction(row, tbl.header, context, warnings); txn != nil {
					transactions = append(transactions, *txn)
				}
			}
			te.log.Debug("table converted",
				"page", pg.number,
				"table", tableIndex+1,
				"rows", len(tbl.rows))
		}
	}
	return transactions
}

// table is one recognized transaction table: its inferred header map and the
// data rows projected onto the header's columns.
type table struct {
	header headerMap
	rows   [][]string
}

// detectTables reconstructs tables from a page's positioned rows. A table
// starts at a row whose cells form a usable header map and extends until the
// next header row or the end of the page. Data cells are assigned to the
// nearest header column by horizontal center, which tolerates ragged rows.
func detectTables(pg page) []table {
	var tables []table
	var current *table
	var centers []float64

	for _, row := range pg.rows {
		if hm := inferHeaderMap(rowCellTexts(row)); hm != nil {
			if current != nil {
				tables = append(tables, *current)
			}
			current = &table{header: hm}
			centers = cellCenters(row.cells)
			continue
		}
		if current == nil || len(row.cells) == 0 {
			continue
		}
		current.rows = append(current.rows, projectRow(row.cells, centers))
	}
	if current != nil {
		tables = append(tables, *current)
	}
	return tables
}

func rowCellTexts(row textRow) []string {
	out := make([]string, len(row.cells))
	for i, c := range row.cells {
		out[i] = c.text
	}
	return out
}

func cellCenters(cells []cell) []float64 {
	centers := make([]float64, len(cells))
	for i, c := range cells {
		centers[i] = c.x + c.w/2
	}
	return centers
}

// projectRow maps a data row's cells onto the header columns by nearest
// center. Cells landing on the same column are joined with a space.
func projectRow(cells []cell, centers []float64) []string {
	out := make([]string, len(centers))
	for _, c := range cells {
		idx := nearestColumn(c.x+c.w/2, centers)
		if out[idx] == "" {
			out[idx] = c.text
		} else {
			out[idx] += " " + c.text
		}
	}
	return out
}

func nearestColumn(center float64, centers []float64) int {
	best := 0
	bestDist := -1.0
	for i, c := range centers {
		dist := center - c
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	return best
}

// inferHeaderMap matches normalized header cells against the keyword sets.
// A table is usable only when both date and description columns are present
// and at least one of debit, credit or amount is identified.
func inferHeaderMap(cells []string) headerMap {
	hm := headerMap{}
	for index, raw := range cells {
		normalized := normalizeCell(raw)
		if normalized == "" {
			continue
		}
		for field, labels := range headerKeywords {
			for _, label := range labels {
				if normalized == label {
					if _, taken := hm[field]; !taken {
						hm[field] = index
					}
				}
			}
		}
	}

	if _, ok := hm["date"]; !ok {
		return nil
	}
	if _, ok := hm["description"]; !ok {
		return nil
	}
	_, hasDebit := hm["debit"]
	_, hasCredit := hm["credit"]
	_, hasAmount := hm["amount"]
	if !hasDebit && !hasCredit && !hasAmount {
		return nil
	}
	return hm
}

// rowToTransaction converts one data row using the header map. A row whose
// date does not parse is dropped with a warning; a missing description warns
// but keeps the row.
func rowToTransaction(row []string, hm headerMap, context string, warnings *[]string) *Transaction {
	date, err := ParseDate(cellAt(row, hm, "date"))
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("Unable to parse date for row in %s.", context))
		return nil
	}

	description := cleanText(cellAt(row, hm, "description"))
	if description == "" {
		*warnings = append(*warnings, fmt.Sprintf("Missing description for row in %s.", context))
	}

	debit := ParseAmount(cellAt(row, hm, "debit"))
	credit := ParseAmount(cellAt(row, hm, "credit"))

	if debit == nil && credit == nil {
		amount := ParseAmount(cellAt(row, hm, "amount"))
		switch {
		case amount == nil:
			*warnings = append(*warnings, fmt.Sprintf("No debit/credit amount found for row in %s.", context))
		case amount.Sign() >= 0:
			credit = amount
		default:
			abs := amount.Abs()
			debit = &abs
		}
	}

	balance := ParseAmount(cellAt(row, hm, "balance"))

	return &Transaction{
		ID:          transactionID(date, description),
		Date:        date,
		Description: description,
		Debit:       debit,
		Credit:      credit,
		Balance:     balance,
	}
}

func cellAt(row []string, hm headerMap, field string) string {
	index, ok := hm[field]
	if !ok || index < 0 || index >= len(row) {
		return ""
	}
	return row[index]
}

// transactionID synthesizes an id from the date, a short description hash and
// a nanosecond timestamp, keeping ids practically unique even for repeated
// date/description pairs within one run.
func transactionID(date Date, description string) string {
	return fmt.Sprintf("%s-%04x-%d", date.ISO(), shortHash(description), time.Now().UnixNano())
}

func shortHash(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32() & 0xFFFF
}
