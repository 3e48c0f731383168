package population

import (
	"fmt"
	"log"

	"communestats/internal/models"

	"golang.org/x/exp/slices"
)

// Departments returns the distinct (code, name) department pairs sorted by
// code then name.
func (d *Dataset) Departments() []models.Pair {
	return d.uniquePairs(models.Record.Department)
}

// Communes returns the distinct (code, name) commune pairs sorted by code
// then name.
func (d *Dataset) Communes() []models.Pair {
	return d.uniquePairs(models.Record.Commune)
}

func (d *Dataset) Regions() []models.Pair {
	return d.uniquePairs(models.Record.Region)
}

// uniquePairs skips records whose code or name is empty.
func (d *Dataset) uniquePairs(pick func(models.Record) models.Pair) []models.Pair {
	pairs := make([]models.Pair, 0, 128)
	for _, r := range d.records {
		if p := pick(r); p.Complete() {
			pairs = append(pairs, p)
		}
	}
	slices.SortFunc(pairs, models.ComparePairs)
	return slices.Compact(pairs)
}

// CommunePopulation returns the name, population and census year for code.
// The boolean is false when no record carries that code.
func (d *Dataset) CommunePopulation(code string) (models.CommunePopulation, bool) {
	var (
		found  models.Record
		ok     bool
		bestYr string
	)
	for _, r := range d.records {
		if r.Value(models.FieldCommuneCode) != code {
			continue
		}
		if d.policy == FirstMatch {
			found, ok = r, true
			break
		}
		if y := r.CensusYear(); !ok || y > bestYr {
			found, ok, bestYr = r, true, y
		}
	}
	if !ok {
		return models.CommunePopulation{}, false
	}

	pop, err := found.Population()
	if err != nil {
		log.Printf("Warning: commune %s has unparseable population %q: %v", code, found.Value(models.FieldPopulation), err)
	}
	return models.CommunePopulation{
		Name:       found.Value(models.FieldCommuneName),
		Population: models.RoundPopulation(pop),
		CensusYear: found.CensusYear(),
	}, true
}

// DepartmentIndex aggregates record count and total population per
// department code in one pass. Rows are grouped by code alone; only rows
// with an empty department code are left out.
func (d *Dataset) DepartmentIndex() models.DepartmentIndex {
	index := make(models.DepartmentIndex)
	invalid := 0
	for _, r := range d.records {
		dep := r.Department()
		if dep.Code == "" {
			continue
		}
		pop, err := r.Population()
		if err != nil {
			invalid++
			pop = 0
		}
		s := index[dep.Code]
		s.CommuneCount++
		s.TotalPopulation += pop
		index[dep.Code] = s
	}
	if invalid > 0 {
		log.Printf("Warning: %d records had an unparseable %q and counted as 0", invalid, models.FieldPopulation)
	}
	return index
}

// StatByDepartment looks code up in index. Unknown codes return an error
// wrapping ErrDepartmentNotFound.
func StatByDepartment(index models.DepartmentIndex, code string) (models.DepartmentStats, error) {
	s, ok := index[code]
	if !ok {
		return models.DepartmentStats{}, fmt.Errorf("%w: %q", ErrDepartmentNotFound, code)
	}
	return s, nil
}

// SortedCodes returns the index keys in ascending order.
func SortedCodes(index models.DepartmentIndex) []string {
	codes := make([]string, 0, len(index))
	for code := range index {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}
