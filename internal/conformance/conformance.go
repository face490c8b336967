// Package conformance checks classification vectors shared between implementations.
//
// A dataset is a CSV file with the header file_name,size_bytes,type,confidence. Every
// implementation must map each (file_name, size_bytes) pair to the same type and
// confidence.
package conformance

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	classifier "github.com/FrenchMajesty/waste-classifier"
)

// MaxDatasetSize caps how many rows are checked when no limit is given
const MaxDatasetSize = 10000

var header = []string{"file_name", "size_bytes", "type", "confidence"}

// Vector is one expected classification
type Vector struct {
	FileName   string
	SizeBytes  int64
	Type       string
	Confidence float64
}

// Mismatch is a vector the catalog disagrees with
type Mismatch struct {
	Line     int
	Expected Vector
	Got      Vector
}

// Report summarises a conformance check
type Report struct {
	CheckedAt  time.Time
	Total      int
	Passed     int
	Failed     int
	Mismatches []Mismatch
}

// OK reports whether every vector matched
func (r Report) OK() bool {
	return r.Failed == 0
}

// LoadDataset loads vectors from the CSV file at path
func LoadDataset(path string, limit int) ([]Vector, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	return ReadDataset(file, limit)
}

// ReadDataset parses vectors from r, skipping the header row
func ReadDataset(r io.Reader, limit int) ([]Vector, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(header)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("dataset file must have at least a header and one row")
	}

	dataset := make([]Vector, 0, len(records)-1)
	for i, record := range records[1:] {
		size, err := strconv.ParseInt(record[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid size_bytes %q: %w", i+2, record[1], err)
		}
		confidence, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid confidence %q: %w", i+2, record[3], err)
		}

		dataset = append(dataset, Vector{
			FileName:   record[0],
			SizeBytes:  size,
			Type:       record[2],
			Confidence: confidence,
		})
	}

	return trimDataset(dataset, limit), nil
}

// trimDataset trims the dataset to the specified limit
func trimDataset(dataset []Vector, limit int) []Vector {
	if limit <= 0 {
		limit = MaxDatasetSize
	}
	if len(dataset) > limit {
		return dataset[:limit]
	}
	return dataset
}

// Check evaluates every vector against the catalog
func Check(catalog *classifier.Catalog, dataset []Vector) Report {
	report := Report{CheckedAt: time.Now(), Total: len(dataset)}

	for i, want := range dataset {
		res := catalog.Evaluate(want.FileName, want.SizeBytes)
		got := Vector{
			FileName:   want.FileName,
			SizeBytes:  want.SizeBytes,
			Type:       res.Type,
			Confidence: res.Confidence,
		}

		if got.Type == want.Type && math.Abs(got.Confidence-want.Confidence) < 1e-9 {
			report.Passed++
			continue
		}

		report.Failed++
		report.Mismatches = append(report.Mismatches, Mismatch{Line: i + 2, Expected: want, Got: got})
	}

	return report
}

// Generate computes the vectors for the given inputs
func Generate(catalog *classifier.Catalog, inputs []Vector) []Vector {
	out := make([]Vector, len(inputs))
	for i, in := range inputs {
		res := catalog.Evaluate(in.FileName, in.SizeBytes)
		out[i] = Vector{
			FileName:   in.FileName,
			SizeBytes:  in.SizeBytes,
			Type:       res.Type,
			Confidence: res.Confidence,
		}
	}
	return out
}

// WriteDataset writes vectors as CSV with a header row
func WriteDataset(w io.Writer, dataset []Vector) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, v := range dataset {
		if err := writer.Write([]string{
			v.FileName,
			strconv.FormatInt(v.SizeBytes, 10),
			v.Type,
			strconv.FormatFloat(v.Confidence, 'f', -1, 64),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// SaveReport writes the report as JSON into dir and returns the file path
func SaveReport(report Report, dir string) (string, error) {
	timestamp := report.CheckedAt.Format("20060102_150405")
	random := uuid.New().String()[:8]
	filename := filepath.Join(dir, fmt.Sprintf("conformance_%s_%s.json", timestamp, random))

	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return "", err
	}

	return filename, nil
}
