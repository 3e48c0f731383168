package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"communestats/internal/population"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `Code Officiel Région;Nom Officiel Région;Code Officiel Département;Nom Officiel Département;Code Officiel Commune / Arrondissement Municipal;Nom Officiel Commune / Arrondissement Municipal;Population totale;Année de recensement
27;Bourgogne-Franche-Comté;39;Jura;39124;Chaumergy;481.0;2015
27;Bourgogne-Franche-Comté;39;Jura;39124;Chaumergy;492.0;2018
75;Nouvelle-Aquitaine;87;Haute-Vienne;87085;Limoges;131479.0;2018
32;Hauts-de-France;80;Somme;80021;Amiens;133755.0;2018
`

func writeCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "population.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))
	return path
}

// resetFlags restores every flag to its default; cobra keeps parsed values
// between Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDepartementsCommand(t *testing.T) {
	out, err := execute(t, "departements", "--csv", writeCSV(t))
	require.NoError(t, err)
	assert.Equal(t, "39\tJura\n80\tSomme\n87\tHaute-Vienne\n", out)
}

func TestCommuneCommand(t *testing.T) {
	csv := writeCSV(t)

	out, err := execute(t, "commune", "--csv", csv, "39124", "00000")
	require.NoError(t, err)
	assert.Equal(t, "39124\tChaumergy\t492\t2018\n00000\tnot found\n", out)

	out, err = execute(t, "commune", "--csv", csv, "--first-match", "39124")
	require.NoError(t, err)
	assert.Equal(t, "39124\tChaumergy\t481\t2015\n", out)
}

func TestStatsCommand(t *testing.T) {
	csv := writeCSV(t)

	out, err := execute(t, "stats", "--csv", csv, "--year", "2018", "39")
	require.NoError(t, err)
	assert.Equal(t, "39\t1\t492\n", out)

	_, err = execute(t, "stats", "--csv", csv, "Corse")
	require.Error(t, err)
	assert.ErrorIs(t, err, population.ErrDepartmentNotFound)
}

func TestRootPrintsReport(t *testing.T) {
	out, err := execute(t, "--csv", writeCSV(t))
	require.NoError(t, err)
	for _, section := range []string{"departements", "communes", "population commune", "stat departement"} {
		assert.Contains(t, out, section)
	}
	assert.True(t, strings.HasSuffix(out, "80\t1\t133755\n"))
}

func TestMissingCSV(t *testing.T) {
	_, err := execute(t, "communes", "--csv", filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnvSelectsCSV(t *testing.T) {
	t.Setenv("POPULATION_CSV", writeCSV(t))
	out, err := execute(t, "regions")
	require.NoError(t, err)
	assert.Contains(t, out, "75\tNouvelle-Aquitaine\n")

	_, err = execute(t, "regions", "--csv", filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err, "explicit --csv must win over POPULATION_CSV")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfirmAction(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, confirmAction(strings.NewReader("yes\n"), &out, "ok?"))
	assert.False(t, confirmAction(strings.NewReader("\n"), &out, "ok?"))
	assert.False(t, confirmAction(strings.NewReader(""), &out, "ok?"))
	assert.Contains(t, out.String(), "ok? (y/N): ")
}
