// Package population answers aggregation queries over a loaded population
// export: department and commune listings, commune lookups and per-department
// totals.
package population

import (
	"errors"
	"fmt"
	"log"

	"communestats/internal/csv"
	"communestats/internal/models"

	"golang.org/x/exp/slices"
)

// ErrDepartmentNotFound is returned by StatByDepartment for unknown codes.
var ErrDepartmentNotFound = errors.New("department not found")

// LookupPolicy selects which record CommunePopulation returns when a commune
// appears for several census years.
type LookupPolicy int

const (
	// LatestCensus picks the greatest census year, first in file order on ties.
	LatestCensus LookupPolicy = iota
	// FirstMatch picks the first matching record in file order.
	FirstMatch
)

func (p LookupPolicy) String() string {
	switch p {
	case LatestCensus:
		return "latest-census"
	case FirstMatch:
		return "first-match"
	}
	return fmt.Sprintf("LookupPolicy(%d)", int(p))
}

// Dataset is an ordered, read-only sequence of records.
type Dataset struct {
	records []models.Record
	policy  LookupPolicy
}

type Option func(*Dataset)

func WithLookupPolicy(p LookupPolicy) Option {
	return func(d *Dataset) {
		d.policy = p
	}
}

func New(records []models.Record, opts ...Option) *Dataset {
	d := &Dataset{records: records, policy: LatestCensus}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Load reads a ';'-delimited export from path.
func Load(path string, opts ...Option) (*Dataset, error) {
	records, err := csv.NewParser(path).ParseRecords()
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	log.Printf("Loaded %d records from %s", len(records), path)
	return New(records, opts...), nil
}

func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns the records in file order. Callers must not modify the slice.
func (d *Dataset) Records() []models.Record {
	return d.records
}

func (d *Dataset) Policy() LookupPolicy {
	return d.policy
}

// FilterYear returns a dataset restricted to one census year. An empty year
// returns d unchanged.
func (d *Dataset) FilterYear(year string) *Dataset {
	if year == "" {
		return d
	}
	filtered := make([]models.Record, 0, len(d.records))
	for _, r := range d.records {
		if r.CensusYear() == year {
			filtered = append(filtered, r)
		}
	}
	return &Dataset{records: filtered, policy: d.policy}
}

// CensusYears lists the distinct census years, ascending.
func (d *Dataset) CensusYears() []string {
	seen := make(map[string]struct{})
	var years []string
	for _, r := range d.records {
		y := r.CensusYear()
		if y == "" {
			continue
		}
		if _, ok := seen[y]; !ok {
			seen[y] = struct{}{}
			years = append(years, y)
		}
	}
	slices.Sort(years)
	return years
}
