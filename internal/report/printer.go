package report

import (
	"fmt"
	"io"
	"strings"

	"communestats/internal/models"
	"communestats/internal/population"

	"golang.org/x/exp/slices"
)

const ruler = "//////////////////////////////////////////"

// Printer writes query results as plain text. The first write error is kept
// and returned by Err; later writes are skipped.
type Printer struct {
	w   io.Writer
	err error
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Err() error {
	return p.err
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) Section(title string) {
	p.printf("\n%s\n%s\n\n", ruler, title)
}

func (p *Printer) Pairs(pairs []models.Pair) {
	for _, pair := range pairs {
		p.printf("%s\t%s\n", pair.Code, pair.Name)
	}
}

// Records prints every field of every record, keys sorted by name.
func (p *Printer) Records(records []models.Record) {
	for _, r := range records {
		fields := r.Fields()
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, fields[k]))
		}
		p.printf("%s\n", strings.Join(parts, "; "))
	}
}

func (p *Printer) Commune(code string, c models.CommunePopulation, ok bool) {
	if !ok {
		p.printf("%s\tnot found\n", code)
		return
	}
	p.printf("%s\t%s\t%d\t%s\n", code, c.Name, c.Population, c.CensusYear)
}

func (p *Printer) DepartmentStat(code string, s models.DepartmentStats) {
	p.printf("%s\t%d\t%.0f\n", code, s.CommuneCount, s.TotalPopulation)
}

func (p *Printer) DepartmentIndex(index models.DepartmentIndex) {
	for _, code := range population.SortedCodes(index) {
		p.DepartmentStat(code, index[code])
	}
}

// Options selects the sample lookups printed by Full.
type Options struct {
	CommuneCode    string
	DepartmentCode string
	WithRecords    bool
}

// Full prints every derived structure in sequence. A department code absent
// from the index is returned as an error after the other sections are written.
func Full(w io.Writer, d *population.Dataset, opts Options) error {
	p := NewPrinter(w)

	if opts.WithRecords {
		p.Section("records")
		p.Records(d.Records())
	}

	p.Section("departements")
	p.Pairs(d.Departments())

	p.Section("communes")
	p.Pairs(d.Communes())

	if opts.CommuneCode != "" {
		p.Section("population commune")
		c, ok := d.CommunePopulation(opts.CommuneCode)
		p.Commune(opts.CommuneCode, c, ok)
	}

	index := d.DepartmentIndex()
	p.Section("departement: communes, population")
	p.DepartmentIndex(index)

	if opts.DepartmentCode != "" {
		p.Section("stat departement")
		s, err := population.StatByDepartment(index, opts.DepartmentCode)
		if err != nil {
			if p.Err() != nil {
				return p.Err()
			}
			return err
		}
		p.DepartmentStat(opts.DepartmentCode, s)
	}

	return p.Err()
}
