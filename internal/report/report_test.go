package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"communestats/internal/models"
	"communestats/internal/population"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func record(dep, depName, code, name, pop, year string) models.Record {
	return models.NewRecord(map[string]string{
		models.FieldRegionCode:     "27",
		models.FieldRegionName:     "Bourgogne-Franche-Comté",
		models.FieldDepartmentCode: dep,
		models.FieldDepartmentName: depName,
		models.FieldCommuneCode:    code,
		models.FieldCommuneName:    name,
		models.FieldPopulation:     pop,
		models.FieldCensusYear:     year,
	})
}

func dataset() *population.Dataset {
	return population.New([]models.Record{
		record("39", "Jura", "39124", "Chaumergy", "492.0", "2018"),
		record("39", "Jura", "39001", "Abergement-la-Ronce", "350.0", "2018"),
		record("21", "Côte-d'Or", "21231", "Dijon", "156920.0", "2018"),
		record("58", "Nièvre", "58194", "Nevers", "33279.0", "2018"),
	})
}

func TestFull(t *testing.T) {
	var buf bytes.Buffer
	err := Full(&buf, dataset(), Options{CommuneCode: "39124", DepartmentCode: "39"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "departements\n\n21\tCôte-d'Or\n39\tJura\n58\tNièvre\n")
	assert.Contains(t, out, "39124\tChaumergy\t492\t2018\n")
	assert.Contains(t, out, "stat departement\n\n39\t2\t842\n")
	assert.Less(t, strings.Index(out, "departements"), strings.Index(out, "communes"))
	assert.NotContains(t, out, "records")
}

func TestFullUnknownDepartment(t *testing.T) {
	var buf bytes.Buffer
	err := Full(&buf, dataset(), Options{DepartmentCode: "Corse"})
	require.Error(t, err)
	assert.ErrorIs(t, err, population.ErrDepartmentNotFound)
	assert.Contains(t, buf.String(), "communes")
}

func TestPrinterCommuneNotFound(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Commune("00000", models.CommunePopulation{}, false)
	require.NoError(t, p.Err())
	assert.Equal(t, "00000\tnot found\n", buf.String())
}

func TestPrinterRecords(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Records([]models.Record{models.NewRecord(map[string]string{"b": "2", "a": "1"})})
	assert.Equal(t, "a=1; b=2\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, os.ErrClosed
}

func TestPrinterKeepsFirstError(t *testing.T) {
	p := NewPrinter(failingWriter{})
	p.Section("x")
	p.Pairs([]models.Pair{{Code: "1", Name: "a"}})
	assert.ErrorIs(t, p.Err(), os.ErrClosed)
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "population.xlsx")
	require.NoError(t, WriteWorkbook(path, dataset()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{departmentsSheet, communesSheet, statsSheet}, f.GetSheetList())

	rows, err := f.GetRows(departmentsSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Code", "Departement"}, {"21", "Côte-d'Or"}, {"39", "Jura"}, {"58", "Nièvre"}}, rows)

	rows, err = f.GetRows(statsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"39", "Jura", "2", "842"}, rows[2])

	rows, err = f.GetRows(communesSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 5)
}

func TestTopDepartments(t *testing.T) {
	index := models.DepartmentIndex{
		"01": {CommuneCount: 1, TotalPopulation: 10},
		"02": {CommuneCount: 1, TotalPopulation: 30},
		"03": {CommuneCount: 1, TotalPopulation: 20},
		"04": {CommuneCount: 1, TotalPopulation: 30},
	}
	assert.Equal(t, []string{"02", "04"}, TopDepartments(index, 2))
	assert.Equal(t, []string{"02", "04", "03", "01"}, TopDepartments(index, 0))
}

func TestWriteChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.png")
	require.NoError(t, WriteChart(path, dataset().DepartmentIndex(), 10))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	assert.ErrorIs(t, WriteChart(path, models.DepartmentIndex{}, 10), ErrEmptyIndex)
}
