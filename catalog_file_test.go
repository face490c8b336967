package classifier_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	classifier "github.com/FrenchMajesty/waste-classifier"
)

const sampleCatalog = `waste_types:
  - type: Paper
    base_confidence: 80
    confidence_spread: 20
    recyclable: true
    origin: Office
    instructions: Keep it dry.
    tips:
      - Paper fibres can be recycled five to seven times.
  - type: Battery
    base_confidence: 90
    confidence_spread: 5
    recyclable: false
    origin: Consumer Electronics
    instructions: Drop off at a collection point.
    tips:
      - Never put batteries in household waste.
      - Tape the terminals of lithium batteries.
`

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0644))

	catalog, err := classifier.LoadCatalogFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, catalog.Len())

	battery := catalog.At(1)
	assert.Equal(t, "Battery", battery.Type)
	assert.Equal(t, 90, battery.BaseConfidence)
	assert.Equal(t, 5, battery.ConfidenceSpread)
	assert.False(t, battery.Recyclable)
	assert.Len(t, battery.Tips, 2)
}

func TestLoadCatalogFile_Missing(t *testing.T) {
	_, err := classifier.LoadCatalogFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open catalog file")
}

func TestLoadCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty document", ""},
		{"no records", "waste_types: []\n"},
		{"zero spread", "waste_types:\n  - type: Paper\n    base_confidence: 80\n    confidence_spread: 0\n    tips: [a]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := classifier.LoadCatalog(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, classifier.ErrInvalidCatalog)
		})
	}
}

func TestLoadCatalog_UnknownField(t *testing.T) {
	doc := "waste_types:\n  - type: Paper\n    colour: blue\n"
	_, err := classifier.LoadCatalog(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode catalog")
}

func TestWriteCatalog_RoundTripsDefault(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, classifier.WriteCatalog(&buf, classifier.DefaultCatalog()))

	loaded, err := classifier.LoadCatalog(&buf)
	require.NoError(t, err)

	if diff := cmp.Diff(classifier.DefaultCatalog().Types(), loaded.Types()); diff != "" {
		t.Errorf("catalog mismatch (-default +loaded):\n%s", diff)
	}
}
