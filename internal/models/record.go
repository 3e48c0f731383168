package models

import (
	"math"
	"strconv"
	"strings"
)

// Column headers of the INSEE population export, kept verbatim.
const (
	FieldRegionCode     = "Code Officiel Région"
	FieldRegionName     = "Nom Officiel Région"
	FieldDepartmentCode = "Code Officiel Département"
	FieldDepartmentName = "Nom Officiel Département"
	FieldCommuneCode    = "Code Officiel Commune / Arrondissement Municipal"
	FieldCommuneName    = "Nom Officiel Commune / Arrondissement Municipal"
	FieldPopulation     = "Population totale"
	FieldCensusYear     = "Année de recensement"
)

// Row is the schema every data row must satisfy. The loader decodes into it
// to reject files that lack one of the columns the queries rely on.
type Row struct {
	RegionCode     string `csv:"Code Officiel Région"`
	RegionName     string `csv:"Nom Officiel Région"`
	DepartmentCode string `csv:"Code Officiel Département"`
	DepartmentName string `csv:"Nom Officiel Département"`
	CommuneCode    string `csv:"Code Officiel Commune / Arrondissement Municipal"`
	CommuneName    string `csv:"Nom Officiel Commune / Arrondissement Municipal"`
	Population     string `csv:"Population totale"`
	CensusYear     string `csv:"Année de recensement"`
}

// Record is one CSV row keyed by header name. It is never mutated after load.
type Record struct {
	fields map[string]string
}

func NewRecord(fields map[string]string) Record {
	return Record{fields: fields}
}

func (r Record) Get(field string) (string, bool) {
	v, ok := r.fields[field]
	return v, ok
}

// Value returns the field or "" when absent.
func (r Record) Value(field string) string {
	return r.fields[field]
}

func (r Record) Len() int {
	return len(r.fields)
}

// Fields returns a copy of the underlying mapping.
func (r Record) Fields() map[string]string {
	out := make(map[string]string, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}

func (r Record) Department() Pair {
	return Pair{Code: r.Value(FieldDepartmentCode), Name: r.Value(FieldDepartmentName)}
}

func (r Record) Commune() Pair {
	return Pair{Code: r.Value(FieldCommuneCode), Name: r.Value(FieldCommuneName)}
}

func (r Record) Region() Pair {
	return Pair{Code: r.Value(FieldRegionCode), Name: r.Value(FieldRegionName)}
}

func (r Record) CensusYear() string {
	return r.Value(FieldCensusYear)
}

// Population parses "Population totale", which the export writes as a float
// ("1898.0").
func (r Record) Population() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(r.Value(FieldPopulation)), 64)
}

// Pair is a (code, name) couple for a region, department or commune.
type Pair struct {
	Code string `bson:"code" json:"code"`
	Name string `bson:"name" json:"name"`
}

// Complete reports whether both code and name are set.
func (p Pair) Complete() bool {
	return p.Code != "" && p.Name != ""
}

func ComparePairs(a, b Pair) int {
	if c := strings.Compare(a.Code, b.Code); c != 0 {
		return c
	}
	return strings.Compare(a.Name, b.Name)
}

type CommunePopulation struct {
	Name       string `bson:"name" json:"name"`
	Population int64  `bson:"population" json:"population"`
	CensusYear string `bson:"census_year" json:"census_year"`
}

func RoundPopulation(v float64) int64 {
	return int64(math.Round(v))
}

type DepartmentStats struct {
	CommuneCount    int     `bson:"commune_count" json:"commune_count"`
	TotalPopulation float64 `bson:"total_population" json:"total_population"`
}

// DepartmentIndex maps a department code to its aggregated figures.
type DepartmentIndex map[string]DepartmentStats

// DepartmentDocument is the shape stored in MongoDB by the export command.
type DepartmentDocument struct {
	Code            string  `bson:"Code"`
	Name            string  `bson:"Name"`
	CommuneCount    int     `bson:"CommuneCount"`
	TotalPopulation float64 `bson:"TotalPopulation"`
	CensusYear      string  `bson:"CensusYear,omitempty"`
}

// CommuneDocument is the per-commune shape stored in MongoDB.
type CommuneDocument struct {
	Code           string `bson:"Code"`
	Name           string `bson:"Name"`
	DepartmentCode string `bson:"DepartmentCode"`
	Population     int64  `bson:"Population"`
	CensusYear     string `bson:"CensusYear"`
}
