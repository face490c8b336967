package render

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	classifier "github.com/FrenchMajesty/waste-classifier"
)

// ToStruct converts a result, with its derived guidance, to a protobuf Struct
func ToStruct(res classifier.Result) (*structpb.Struct, error) {
	tips := make([]any, len(res.Tips))
	for i, tip := range res.Tips {
		tips[i] = tip
	}

	fields := map[string]any{
		"type":                 res.Type,
		"confidence":           res.Confidence,
		"confidence_band":      string(ConfidenceBand(res.Confidence)),
		"recyclable":           res.Recyclable,
		"origin":               res.Origin,
		"instructions":         res.Instructions,
		"tips":                 tips,
		"where_to_recycle":     WhereToRecycle(res),
		"environmental_impact": EnvironmentalImpact(res),
		"seed":                 res.Seed,
		"index":                res.Index,
	}

	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to convert result: %w", err)
	}
	return s, nil
}

// ExportFile pairs a result with the file it was computed for
type ExportFile struct {
	Name   string
	Size   int64
	Result classifier.Result
}

// MarshalResults renders results as indented JSON
func MarshalResults(files []ExportFile) ([]byte, error) {
	items := make([]any, 0, len(files))
	for _, f := range files {
		s, err := ToStruct(f.Result)
		if err != nil {
			return nil, err
		}
		entry := s.AsMap()
		entry["file"] = f.Name
		entry["size_bytes"] = f.Size
		items = append(items, entry)
	}

	list, err := structpb.NewList(items)
	if err != nil {
		return nil, fmt.Errorf("failed to convert results: %w", err)
	}

	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal results: %w", err)
	}
	return data, nil
}
