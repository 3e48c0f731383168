package export

import (
	"errors"
	"testing"

	"communestats/internal/models"
	"communestats/internal/population"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	departments map[string]models.DepartmentDocument
	communes    map[string]models.CommuneDocument
	fail        bool
}

func newMemStore() *memStore {
	return &memStore{
		departments: map[string]models.DepartmentDocument{},
		communes:    map[string]models.CommuneDocument{},
	}
}

func (m *memStore) UpsertDepartment(_ string, doc models.DepartmentDocument) (bool, error) {
	if m.fail {
		return false, errors.New("unavailable")
	}
	_, ok := m.departments[doc.Code]
	m.departments[doc.Code] = doc
	return ok, nil
}

func (m *memStore) UpsertCommune(_ string, doc models.CommuneDocument) (bool, error) {
	if m.fail {
		return false, errors.New("unavailable")
	}
	k := doc.Code + "/" + doc.CensusYear
	_, ok := m.communes[k]
	m.communes[k] = doc
	return ok, nil
}

func record(dep, depName, code, name, pop, year string) models.Record {
	return models.NewRecord(map[string]string{
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
		record("39", "Jura", "39124", "Chaumergy", "481.0", "2015"),
		record("39", "Jura", "39124", "Chaumergy", "492.0", "2018"),
		record("87", "Haute-Vienne", "87085", "Limoges", "131479.0", "2018"),
	})
}

func TestDepartmentDocuments(t *testing.T) {
	docs := DepartmentDocuments(dataset(), "")
	assert.Equal(t, []models.DepartmentDocument{
		{Code: "39", Name: "Jura", CommuneCount: 2, TotalPopulation: 973},
		{Code: "87", Name: "Haute-Vienne", CommuneCount: 1, TotalPopulation: 131479},
	}, docs)
}

func TestCommuneDocuments(t *testing.T) {
	docs := CommuneDocuments(dataset())
	require.Len(t, docs, 3)
	assert.Equal(t, models.CommuneDocument{
		Code: "39124", Name: "Chaumergy", DepartmentCode: "39", Population: 492, CensusYear: "2018",
	}, docs[1])
}

func TestRun(t *testing.T) {
	store := newMemStore()
	var last [2]int
	opts := Options{
		DepartmentCollection: "departements",
		CommuneCollection:    "communes",
		Progress:             func(done, total int) { last = [2]int{done, total} },
	}

	res, err := Run(store, dataset(), opts)
	require.NoError(t, err)
	assert.Equal(t, Result{TotalDocuments: 5, NewDocuments: 5}, res)
	assert.Equal(t, [2]int{5, 5}, last)

	res, err = Run(store, dataset(), opts)
	require.NoError(t, err)
	assert.Equal(t, 5, res.UpdatedDocuments)
	assert.Len(t, store.communes, 3)
}

func TestRunWithoutCommunes(t *testing.T) {
	store := newMemStore()
	res, err := Run(store, dataset(), Options{DepartmentCollection: "departements", CensusYear: "2018"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalDocuments)
	assert.Empty(t, store.communes)
	assert.Equal(t, "2018", store.departments["87"].CensusYear)
}

func TestRunAllFailed(t *testing.T) {
	store := newMemStore()
	store.fail = true
	res, err := Run(store, dataset(), Options{DepartmentCollection: "departements"})
	require.Error(t, err)
	assert.Equal(t, 2, res.FailedDocuments)
}
