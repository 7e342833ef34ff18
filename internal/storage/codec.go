package storage

import (
	"encoding/json"
	"fmt"

	"github.com/habitual/habitual/internal/models"
)

// EncodeUnits serializes the habit to unit mapping
func EncodeUnits(units map[string]string) (string, error) {
	if units == nil {
		units = map[string]string{}
	}
	data, err := json.Marshal(units)
	if err != nil {
		return "", fmt.Errorf("failed to encode units: %w", err)
	}
	return string(data), nil
}

// EncodePeriods serializes the habit to periodicity mapping
func EncodePeriods(periods map[string]models.Periodicity) (string, error) {
	if periods == nil {
		periods = map[string]models.Periodicity{}
	}
	data, err := json.Marshal(periods)
	if err != nil {
		return "", fmt.Errorf("failed to encode periods: %w", err)
	}
	return string(data), nil
}

// DecodeUnits parses a serialized unit mapping. An empty string is an empty map.
func DecodeUnits(s string) (map[string]string, error) {
	units := make(map[string]string)
	if s == "" {
		return units, nil
	}
	if err := json.Unmarshal([]byte(s), &units); err != nil {
		return nil, fmt.Errorf("failed to decode units: %w", err)
	}
	return units, nil
}

// DecodePeriods parses a serialized periodicity mapping. Values are kept as
// stored so integrity checks can report invalid ones.
func DecodePeriods(s string) (map[string]models.Periodicity, error) {
	periods := make(map[string]models.Periodicity)
	if s == "" {
		return periods, nil
	}
	if err := json.Unmarshal([]byte(s), &periods); err != nil {
		return nil, fmt.Errorf("failed to decode periods: %w", err)
	}
	return periods, nil
}
