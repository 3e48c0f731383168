package report

import (
	"fmt"

	"communestats/internal/models"
	"communestats/internal/population"

	"github.com/xuri/excelize/v2"
)

const (
	departmentsSheet = "Departements"
	communesSheet    = "Communes"
	statsSheet       = "Stats_Departements"
)

// WriteWorkbook saves departments, communes and per-department totals to an
// xlsx file, one sheet each.
func WriteWorkbook(path string, d *population.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", departmentsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writePairsSheet(f, departmentsSheet, []string{"Code", "Departement"}, d.Departments()); err != nil {
		return err
	}

	if _, err := f.NewSheet(communesSheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", communesSheet, err)
	}
	if err := writePairsSheet(f, communesSheet, []string{"Code", "Commune"}, d.Communes()); err != nil {
		return err
	}

	if _, err := f.NewSheet(statsSheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", statsSheet, err)
	}
	if err := writeStatsSheet(f, d.Departments(), d.DepartmentIndex()); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header %s!%s: %w", sheet, cell, err)
		}
		if err := f.SetColWidth(sheet, colName(i), colName(i), 22); err != nil {
			return err
		}
	}
	return nil
}

func colName(i int) string {
	name, _ := excelize.ColumnNumberToName(i + 1)
	return name
}

func writePairsSheet(f *excelize.File, sheet string, headers []string, pairs []models.Pair) error {
	if err := writeHeader(f, sheet, headers); err != nil {
		return err
	}
	for i, p := range pairs {
		row := i + 2
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &[]any{p.Code, p.Name}); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
		}
	}
	return nil
}

func writeStatsSheet(f *excelize.File, deps []models.Pair, index models.DepartmentIndex) error {
	if err := writeHeader(f, statsSheet, []string{"Code", "Departement", "Communes", "Population totale"}); err != nil {
		return err
	}
	row := 2
	for _, dep := range deps {
		s, err := population.StatByDepartment(index, dep.Code)
		if err != nil {
			return err
		}
		values := []any{dep.Code, dep.Name, s.CommuneCount, models.RoundPopulation(s.TotalPopulation)}
		if err := f.SetSheetRow(statsSheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", statsSheet, row, err)
		}
		row++
	}
	return nil
}
