package inventory

import (
	"context"
	"fmt"
	"time"

	"equipreg/internal/domain"
	"equipreg/internal/repository"

	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Equipment"

var exportHeader = []string{
	"Name",
	"Inventory Number",
	"Category",
	"Room",
	"Date Added",
}

var exportColumnWidths = []float64{30, 20, 20, 15, 15}

// Export builds an XLSX workbook of the full filtered, sorted result set
// (no pagination) and returns the file bytes plus the download filename.
func (s *Service) Export(ctx context.Context, f repository.EquipmentFilters) ([]byte, string, error) {
	if f.SortBy != "" {
		if _, ok := repository.EquipmentSortColumn(f.SortBy); !ok {
			return nil, "", ErrInvalidSortField
		}
	}

	f.Page = 0
	f.PageSize = 0

	items, _, err := s.equipment.List(ctx, f)
	if err != nil {
		return nil, "", err
	}

	data, err := buildWorkbook(items)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("equipment_export_%s.xlsx", time.Now().Format("2006-01-02"))
	return data, filename, nil
}

func buildWorkbook(items []domain.Equipment) ([]byte, error) {
	file := excelize.NewFile()

	index, err := file.NewSheet(exportSheetName)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	file.DeleteSheet("Sheet1")
	file.SetActiveSheet(index)

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			file.Close()
			return nil, err
		}
		if err := file.SetCellValue(exportSheetName, cell, title); err != nil {
			file.Close()
			return nil, err
		}
		if err := file.SetCellStyle(exportSheetName, cell, cell, headerStyle); err != nil {
			file.Close()
			return nil, err
		}

		colName, _ := excelize.ColumnNumberToName(col + 1)
		if err := file.SetColWidth(exportSheetName, colName, colName, exportColumnWidths[col]); err != nil {
			file.Close()
			return nil, err
		}
	}

	for i, item := range items {
		categoryName := ""
		if item.Category != nil {
			categoryName = item.Category.Name
		}
		row := []any{
			item.Name,
			item.InventoryNumber,
			categoryName,
			item.Room,
			item.DateAdded.Format("02.01.2006"),
		}
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				file.Close()
				return nil, err
			}
			if err := file.SetCellValue(exportSheetName, cell, value); err != nil {
				file.Close()
				return nil, err
			}
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	file.Close()

	return buf.Bytes(), nil
}
