// Package export writes inventory views to Excel workbooks so the
// operator can hand a filtered stock list to a supplier or accountant.
package export

import (
	"fmt"
	"io"

	"github.com/dukerupert/vend/internal/domain"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Inventory"

var headers = []string{
	"No", "Name", "Type", "Location", "Stock", "Piece / Cost",
	"Cost", "Sell (Lower)", "Sell (Avg)", "Profit", "Description", "Remark",
}

// WriteInventory writes the given view (already filtered and sorted)
// as one sheet, one row per product, in view order.
func WriteInventory(w io.Writer, view []domain.Product) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, p := range view {
		values := []any{
			p.ID, p.Name, p.Type, p.Location, p.Stock, p.PiecePerCost,
			p.Cost, p.SellPriceLower, p.SellPriceAvg, p.Profit,
			p.Description, p.Remark,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("row cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", i+1, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
