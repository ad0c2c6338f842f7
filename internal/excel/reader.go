package excel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/HusseinZein235/SalesAssociate/internal/model"
)

// Column layout of a product sheet. The first row is headers; every later
// row is one product. All fields sit at fixed positions except the expiry
// date, which is located by header name with colExpiryDefault as fallback.
const (
	colItem = iota
	colDescription
	colUnits
	colCategory
	colAmount
	colCostPerUnit
	colWholesalePrice
	colNotes
	colExpiryDefault
	colBarcode
	colPhoto
)

// maxHeaderScan bounds the expiry header search on ragged header rows.
const maxHeaderScan = 20

var expiryHeaderHints = []string{
	"expirydate",
	"expiration date",
	"expiration",
	"expire date",
	"expire",
	"expiry",
}

// ReadProducts parses the first sheet of the workbook at path into products.
// Rows with an empty item cell, and rows whose cells cannot be coerced, are
// skipped; only a workbook that cannot be opened at all fails the import.
func ReadProducts(path string) ([]model.Product, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	return ReadProductsFromWorkbook(f)
}

// ReadProductsFromWorkbook parses an already-open workbook.
func ReadProductsFromWorkbook(f *excelize.File) ([]model.Product, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) <= 1 {
		return []model.Product{}, nil
	}

	expiryCol := FindExpiryColumn(rows[0])

	products := make([]model.Product, 0, len(rows)-1)
	for _, row := range rows[1:] {
		item := getCell(row, colItem)
		if item == "" {
			continue
		}

		products = append(products, model.Product{
			Item:           item,
			Description:    getCell(row, colDescription),
			Units:          getCell(row, colUnits),
			Category:       getCell(row, colCategory),
			Amount:         parseInt(getCell(row, colAmount)),
			CostPerUnit:    parseFloat(getCell(row, colCostPerUnit)),
			WholesalePrice: parseFloat(getCell(row, colWholesalePrice)),
			Notes:          getCell(row, colNotes),
			ExpiryDate:     ParseExpiry(getCell(row, expiryCol)),
			Barcode:        getCell(row, colBarcode),
			Photo:          getCell(row, colPhoto),
		})
	}

	return products, nil
}

// FindExpiryColumn locates the expiry date column by case-insensitive
// substring match against the header row, falling back to the fixed
// default position when no header matches.
func FindExpiryColumn(headers []string) int {
	limit := len(headers)
	if limit > maxHeaderScan {
		limit = maxHeaderScan
	}
	for i := 0; i < limit; i++ {
		header := strings.ToLower(strings.TrimSpace(headers[i]))
		if header == "" {
			continue
		}
		for _, hint := range expiryHeaderHints {
			if strings.Contains(header, hint) {
				return i
			}
		}
	}
	return colExpiryDefault
}

func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// parseInt tolerates float-formatted cells; "50.0" counts as 50.
func parseInt(s string) int {
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(f)
}
