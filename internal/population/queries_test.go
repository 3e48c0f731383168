package population

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"communestats/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "Code Officiel Région;Nom Officiel Région;Code Officiel Département;Nom Officiel Département;" +
	"Code Officiel Commune / Arrondissement Municipal;Nom Officiel Commune / Arrondissement Municipal;" +
	"Population totale;Année de recensement"

var fixtureRows = []string{
	"27;Bourgogne-Franche-Comté;39;Jura;39124;Chaumergy;481.0;2015",
	"27;Bourgogne-Franche-Comté;39;Jura;39124;Chaumergy;492.0;2018",
	"27;Bourgogne-Franche-Comté;39;Jura;39001;Abergement-la-Ronce;350.0;2018",
	"75;Nouvelle-Aquitaine;87;Haute-Vienne;87085;Limoges;131479.0;2018",
	"75;Nouvelle-Aquitaine;87;Haute-Vienne;87001;Aixe-sur-Vienne;5741.0;2018",
	"94;Corse;2A;Corse-du-Sud;2A004;Ajaccio;70817.0;2018",
	"84;Auvergne-Rhône-Alpes;01;Ain;01001;L'Abergement-Clémenciat;776.0;2018",
	"84;Auvergne-Rhône-Alpes;01;Ain;01001;L'Abergement-Clémenciat;767.0;2016",
}

func writeFixture(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "population.csv")
	content := header + "\n" + strings.Join(rows, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadFixture(t *testing.T, opts ...Option) *Dataset {
	t.Helper()
	d, err := Load(writeFixture(t, fixtureRows...), opts...)
	require.NoError(t, err)
	return d
}

func TestLoad(t *testing.T) {
	d := loadFixture(t)
	require.Equal(t, len(fixtureRows), d.Len())

	first := d.Records()[0]
	assert.Equal(t, 8, first.Len())
	assert.Equal(t, "Jura", first.Value(models.FieldDepartmentName))
	assert.Equal(t, "481.0", first.Value(models.FieldPopulation))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDepartments(t *testing.T) {
	d := loadFixture(t)
	deps := d.Departments()

	assert.Equal(t, []models.Pair{
		{Code: "01", Name: "Ain"},
		{Code: "2A", Name: "Corse-du-Sud"},
		{Code: "39", Name: "Jura"},
		{Code: "87", Name: "Haute-Vienne"},
	}, deps)

	seen := map[string]bool{}
	for i, p := range deps {
		assert.False(t, seen[p.Code], "duplicate code %s", p.Code)
		seen[p.Code] = true
		if i > 0 {
			assert.Less(t, deps[i-1].Code, p.Code)
		}
	}

	for _, p := range deps {
		found := false
		for _, r := range d.Records() {
			if r.Department() == p {
				found = true
				break
			}
		}
		assert.True(t, found, "pair %v not present in any record", p)
	}
}

func TestDepartmentsSkipsIncompleteRecords(t *testing.T) {
	d, err := Load(writeFixture(t,
		"27;Bourgogne-Franche-Comté;;Jura;39124;Chaumergy;492.0;2018",
		"27;Bourgogne-Franche-Comté;39;;39124;Chaumergy;492.0;2018",
		"27;Bourgogne-Franche-Comté;39;Jura;39124;Chaumergy;492.0;2018",
	))
	require.NoError(t, err)

	assert.Equal(t, []models.Pair{{Code: "39", Name: "Jura"}}, d.Departments())
	index := d.DepartmentIndex()
	require.Len(t, index, 1)
	assert.Equal(t, models.DepartmentStats{CommuneCount: 2, TotalPopulation: 984}, index["39"])
}

func TestDepartmentIndexGroupsByCodeOnly(t *testing.T) {
	d, err := Load(writeFixture(t,
		"75;Nouvelle-Aquitaine;87;Haute-Vienne;87085;Limoges;131479.0;2018",
		"75;Nouvelle-Aquitaine;87;;87001;Aixe-sur-Vienne;5741.0;2018",
	))
	require.NoError(t, err)

	index := d.DepartmentIndex()
	assert.Equal(t, models.DepartmentStats{CommuneCount: 2, TotalPopulation: 137220}, index["87"])

	var fromRecords float64
	for _, r := range d.Records() {
		if _, ok := index[r.Value(models.FieldDepartmentCode)]; ok {
			pop, err := r.Population()
			require.NoError(t, err)
			fromRecords += pop
		}
	}
	assert.InDelta(t, fromRecords, index["87"].TotalPopulation, 1e-6)
	assert.Equal(t, []models.Pair{{Code: "87", Name: "Haute-Vienne"}}, d.Departments())
}

func TestCommunes(t *testing.T) {
	d := loadFixture(t)
	communes := d.Communes()

	require.Len(t, communes, 6)
	assert.Equal(t, models.Pair{Code: "01001", Name: "L'Abergement-Clémenciat"}, communes[0])
	assert.Equal(t, models.Pair{Code: "87085", Name: "Limoges"}, communes[len(communes)-1])
}

func TestRegionsAndYears(t *testing.T) {
	d := loadFixture(t)

	assert.Len(t, d.Regions(), 4)
	assert.Equal(t, []string{"2015", "2016", "2018"}, d.CensusYears())
	assert.Equal(t, 6, d.FilterYear("2018").Len())
	assert.Same(t, d, d.FilterYear(""))
}

func TestCommunePopulation(t *testing.T) {
	tests := []struct {
		name   string
		policy LookupPolicy
		code   string
		want   models.CommunePopulation
		found  bool
	}{
		{"latest census", LatestCensus, "39124", models.CommunePopulation{Name: "Chaumergy", Population: 492, CensusYear: "2018"}, true},
		{"first match", FirstMatch, "39124", models.CommunePopulation{Name: "Chaumergy", Population: 481, CensusYear: "2015"}, true},
		{"latest before older row", LatestCensus, "01001", models.CommunePopulation{Name: "L'Abergement-Clémenciat", Population: 776, CensusYear: "2018"}, true},
		{"corsica", LatestCensus, "2A004", models.CommunePopulation{Name: "Ajaccio", Population: 70817, CensusYear: "2018"}, true},
		{"unknown", LatestCensus, "00000", models.CommunePopulation{}, false},
		{"unknown first match", FirstMatch, "00000", models.CommunePopulation{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := loadFixture(t, WithLookupPolicy(tt.policy))
			got, ok := d.CommunePopulation(tt.code)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDepartmentIndex(t *testing.T) {
	d := loadFixture(t)
	index := d.DepartmentIndex()

	require.Len(t, index, 4)
	assert.Equal(t, models.DepartmentStats{CommuneCount: 3, TotalPopulation: 1323}, index["39"])
	assert.Equal(t, models.DepartmentStats{CommuneCount: 2, TotalPopulation: 137220}, index["87"])
	assert.Equal(t, models.DepartmentStats{CommuneCount: 1, TotalPopulation: 70817}, index["2A"])

	var fromIndex, fromRecords float64
	for _, s := range index {
		fromIndex += s.TotalPopulation
	}
	for _, r := range d.Records() {
		if _, ok := index[r.Value(models.FieldDepartmentCode)]; ok {
			pop, err := r.Population()
			require.NoError(t, err)
			fromRecords += pop
		}
	}
	assert.InDelta(t, fromRecords, fromIndex, 1e-6)
}

func TestDepartmentIndexUnparseablePopulation(t *testing.T) {
	d, err := Load(writeFixture(t,
		"75;Nouvelle-Aquitaine;87;Haute-Vienne;87085;Limoges;n/a;2018",
		"75;Nouvelle-Aquitaine;87;Haute-Vienne;87001;Aixe-sur-Vienne;5741.0;2018",
	))
	require.NoError(t, err)

	assert.Equal(t, models.DepartmentStats{CommuneCount: 2, TotalPopulation: 5741}, d.DepartmentIndex()["87"])
}

func TestStatByDepartment(t *testing.T) {
	index := loadFixture(t).DepartmentIndex()

	s, err := StatByDepartment(index, "87")
	require.NoError(t, err)
	assert.Equal(t, 2, s.CommuneCount)
	assert.Equal(t, float64(137220), s.TotalPopulation)

	_, err = StatByDepartment(index, "Corse")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDepartmentNotFound)
}

func TestSortedCodes(t *testing.T) {
	index := loadFixture(t).DepartmentIndex()
	assert.Equal(t, []string{"01", "2A", "39", "87"}, SortedCodes(index))
}

func TestLookupPolicyString(t *testing.T) {
	assert.Equal(t, "latest-census", LatestCensus.String())
	assert.Equal(t, "first-match", FirstMatch.String())
}
