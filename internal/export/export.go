// Package export pushes the derived department and commune figures to a
// document store.
package export

import (
	"fmt"
	"log"

	"communestats/internal/models"
	"communestats/internal/population"
)

type Store interface {
	UpsertDepartment(collectionName string, doc models.DepartmentDocument) (bool, error)
	UpsertCommune(collectionName string, doc models.CommuneDocument) (bool, error)
}

type Options struct {
	DepartmentCollection string
	CommuneCollection    string
	// CensusYear is stamped on department documents when the dataset was
	// filtered to one year.
	CensusYear string
	// Progress, when set, is called after each document.
	Progress func(done, total int)
}

type Result struct {
	TotalDocuments   int
	NewDocuments     int
	UpdatedDocuments int
	FailedDocuments  int
}

// DepartmentDocuments joins department names with the aggregated index.
func DepartmentDocuments(d *population.Dataset, year string) []models.DepartmentDocument {
	index := d.DepartmentIndex()
	deps := d.Departments()
	docs := make([]models.DepartmentDocument, 0, len(deps))
	for _, dep := range deps {
		s := index[dep.Code]
		docs = append(docs, models.DepartmentDocument{
			Code:            dep.Code,
			Name:            dep.Name,
			CommuneCount:    s.CommuneCount,
			TotalPopulation: s.TotalPopulation,
			CensusYear:      year,
		})
	}
	return docs
}

// CommuneDocuments emits one document per commune and census year, keeping
// the first record in file order for each pair.
func CommuneDocuments(d *population.Dataset) []models.CommuneDocument {
	type key struct{ code, year string }
	seen := make(map[key]bool)
	var docs []models.CommuneDocument
	for _, r := range d.Records() {
		c := r.Commune()
		if !c.Complete() {
			continue
		}
		k := key{c.Code, r.CensusYear()}
		if seen[k] {
			continue
		}
		seen[k] = true
		pop, err := r.Population()
		if err != nil {
			pop = 0
		}
		docs = append(docs, models.CommuneDocument{
			Code:           c.Code,
			Name:           c.Name,
			DepartmentCode: r.Value(models.FieldDepartmentCode),
			Population:     models.RoundPopulation(pop),
			CensusYear:     k.year,
		})
	}
	return docs
}

// Run upserts every document. Individual failures are logged and counted;
// Run only returns an error when nothing could be written.
func Run(store Store, d *population.Dataset, opts Options) (Result, error) {
	var result Result

	deps := DepartmentDocuments(d, opts.CensusYear)
	var communes []models.CommuneDocument
	if opts.CommuneCollection != "" {
		communes = CommuneDocuments(d)
	}
	result.TotalDocuments = len(deps) + len(communes)

	done := 0
	tally := func(replaced bool, err error, what string) {
		done++
		switch {
		case err != nil:
			result.FailedDocuments++
			log.Printf("Failed to export %s: %v", what, err)
		case replaced:
			result.UpdatedDocuments++
		default:
			result.NewDocuments++
		}
		if opts.Progress != nil {
			opts.Progress(done, result.TotalDocuments)
		}
		if done%1000 == 0 {
			log.Printf("Exported %d documents...", done)
		}
	}

	for _, doc := range deps {
		replaced, err := store.UpsertDepartment(opts.DepartmentCollection, doc)
		tally(replaced, err, "department "+doc.Code)
	}
	for _, doc := range communes {
		replaced, err := store.UpsertCommune(opts.CommuneCollection, doc)
		tally(replaced, err, fmt.Sprintf("commune %s (%s)", doc.Code, doc.CensusYear))
	}

	if result.TotalDocuments > 0 && result.FailedDocuments == result.TotalDocuments {
		return result, fmt.Errorf("export failed: none of %d documents were written", result.TotalDocuments)
	}
	return result, nil
}
