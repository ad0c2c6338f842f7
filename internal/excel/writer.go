package excel

import (
	"errors"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/HusseinZein235/SalesAssociate/internal/model"
)

// expiryDisplayFormat is re-applied to every rewritten expiry cell.
const expiryDisplayFormat = "dd/mm/yyyy"

// UpdateReport summarizes an in-place workbook update.
type UpdateReport struct {
	Updated int      `json:"updated"`
	Missing []string `json:"missing,omitempty"` // products with no matching sheet row
}

// UpdateWorkbook rewrites the workbook at path in place, updating only the
// quantity, notes and expiry cells of rows whose first-column item name
// matches a product. Rows without a matching product are left untouched.
// Products without a matching row are never inserted; they are reported in
// the UpdateReport so the caller can surface the drift.
func UpdateWorkbook(path string, products []model.Product) (*UpdateReport, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	report, err := updateWorkbook(f, products)
	if err != nil {
		return nil, err
	}

	if err := f.Save(); err != nil {
		return nil, fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return report, nil
}

func updateWorkbook(f *excelize.File, products []model.Product) (*UpdateReport, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, errors.New("workbook has no header row")
	}

	expiryCol := FindExpiryColumn(rows[0])

	byName := make(map[string]model.Product, len(products))
	for _, p := range products {
		byName[p.Item] = p
	}

	numFmt := expiryDisplayFormat
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return nil, fmt.Errorf("failed to create date style: %w", err)
	}

	matched := make(map[string]bool, len(products))
	report := &UpdateReport{}

	for i, row := range rows[1:] {
		rowNum := i + 2
		item := getCell(row, colItem)
		if item == "" {
			continue
		}
		p, ok := byName[item]
		if !ok {
			continue
		}
		matched[item] = true

		if err := setCell(f, sheet, colAmount, rowNum, p.Amount); err != nil {
			return nil, err
		}
		if err := setCell(f, sheet, colNotes, rowNum, p.Notes); err != nil {
			return nil, err
		}
		if p.ExpiryDate != nil {
			cell, err := excelize.CoordinatesToCellName(expiryCol+1, rowNum)
			if err != nil {
				return nil, fmt.Errorf("bad cell coordinates: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, p.ExpiryDate.Time()); err != nil {
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
			if err := f.SetCellStyle(sheet, cell, cell, dateStyle); err != nil {
				return nil, fmt.Errorf("failed to style cell %s: %w", cell, err)
			}
		}
		report.Updated++
	}

	for _, p := range products {
		if !matched[p.Item] {
			report.Missing = append(report.Missing, p.Item)
		}
	}
	sort.Strings(report.Missing)

	return report, nil
}

func setCell(f *excelize.File, sheet string, col, rowNum int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
	if err != nil {
		return fmt.Errorf("bad cell coordinates: %w", err)
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}
