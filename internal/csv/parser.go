package csv

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"communestats/internal/models"

	"github.com/jszwec/csvutil"
)

const DefaultDelimiter = ';'

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrMissingColumns is returned when the header lacks a column the queries need.
var ErrMissingColumns = errors.New("CSV header is missing required columns")

var requiredColumns = []string{
	models.FieldRegionCode,
	models.FieldRegionName,
	models.FieldDepartmentCode,
	models.FieldDepartmentName,
	models.FieldCommuneCode,
	models.FieldCommuneName,
	models.FieldPopulation,
	models.FieldCensusYear,
}

// MissingColumns lists the required columns absent from headers.
func MissingColumns(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	var missing []string
	for _, c := range requiredColumns {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	return missing
}

type Parser struct {
	filename  string
	delimiter rune
}

type Option func(*Parser)

// WithDelimiter overrides the default ';' separator.
func WithDelimiter(d rune) Option {
	return func(p *Parser) {
		p.delimiter = d
	}
}

func NewParser(filename string, opts ...Option) *Parser {
	p := &Parser{filename: filename, delimiter: DefaultDelimiter}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) ParseRecords() ([]models.Record, error) {
	file, err := os.Open(p.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

// Parse reads a header row followed by data rows. Every row is checked
// against models.Row so a file missing a required column fails here rather
// than in a later query.
func (p *Parser) Parse(r io.Reader) ([]models.Record, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.Comma = p.delimiter
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("failed to read CSV headers: empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	headers = append([]string(nil), headers...)
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}
	if missing := MissingColumns(headers); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	decoder, err := csvutil.NewDecoder(reader, headers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV decoder: %w", err)
	}
	decoder.DisallowMissingColumns = true

	var records []models.Record
	for {
		var row models.Row
		if err := decoder.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", len(records)+1, err)
		}

		raw := decoder.Record()
		fields := make(map[string]string, len(headers))
		for i, value := range raw {
			if i < len(headers) {
				fields[headers[i]] = value
			}
		}
		records = append(records, models.NewRecord(fields))
	}

	return records, nil
}
