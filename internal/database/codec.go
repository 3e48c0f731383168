package database

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// Format is the on-disk encoding of a collection dump.
type Format string

const (
	FormatBSON Format = "bson"
	FormatJSON Format = "json"
)

const restoreBatchSize = 1000

// maxLineSize bounds one extended JSON document in a dump.
const maxLineSize = 16 * 1024 * 1024

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatBSON, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("invalid format: %s. Use 'bson' or 'json'", s)
}

// FormatFromPath detects the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	f, err := ParseFormat(ext)
	if err != nil {
		return "", fmt.Errorf("cannot auto-detect format from extension '%s'", filepath.Ext(path))
	}
	return f, nil
}

func (f Format) Ext() string {
	return "." + string(f)
}

// EncodeDocument writes doc as raw BSON, or as one relaxed extended JSON line.
func EncodeDocument(w io.Writer, doc bson.Raw, format Format) error {
	var data []byte
	switch format {
	case FormatJSON:
		js, err := bson.MarshalExtJSON(doc, false, false)
		if err != nil {
			return fmt.Errorf("failed to marshal to JSON: %w", err)
		}
		data = append(js, '\n')
	case FormatBSON:
		data = doc
	default:
		return fmt.Errorf("invalid format: %s", format)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write backup data: %w", err)
	}
	return nil
}

// DecodeDocuments calls fn for every document in r. Each document passed to
// fn is a fresh slice the callee may retain.
func DecodeDocuments(r io.Reader, format Format, fn func(bson.Raw) error) error {
	switch format {
	case FormatJSON:
		return decodeJSONLines(r, fn)
	case FormatBSON:
		return decodeBSON(r, fn)
	}
	return fmt.Errorf("invalid format: %s", format)
}

func decodeJSONLines(r io.Reader, fn func(bson.Raw) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var doc bson.D
		if err := bson.UnmarshalExtJSON(text, false, &doc); err != nil {
			return fmt.Errorf("failed to decode JSON on line %d: %w", line, err)
		}
		raw, err := bson.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to convert line %d to BSON: %w", line, err)
		}
		if err := fn(raw); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read JSON backup: %w", err)
	}
	return nil
}

func decodeBSON(r io.Reader, fn func(bson.Raw) error) error {
	br := bufio.NewReader(r)
	for n := 1; ; n++ {
		raw, err := bson.NewFromIOReader(br)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read BSON document %d: %w", n, err)
		}
		if err := fn(raw); err != nil {
			return err
		}
	}
}
