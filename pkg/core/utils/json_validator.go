package utils

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// RepairJSON attempts to fix common JSON errors in model output: missing
// quotes around keys, single quotes, unclosed objects, trailing commas,
// comments and stray markdown fences.
func RepairJSON(malformedJSON string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformedJSON)
	if err != nil {
		return "", fmt.Errorf("JSON_REPAIR_FAILED: %v", err)
	}
	return repaired, nil
}

// MustRepairJSON is like RepairJSON but returns an empty object on failure.
func MustRepairJSON(malformedJSON string) string {
	repaired, err := jsonrepair.RepairJSON(malformedJSON)
	if err != nil {
		return "{}"
	}
	return repaired
}

// ParseHJSON parses Human-friendly JSON (comments, unquoted keys, optional
// commas) and returns standard JSON. The most lenient fallback in the chain.
func ParseHJSON(hjsonData string) (string, error) {
	var result interface{}
	if err := hjson.Unmarshal([]byte(hjsonData), &result); err != nil {
		return "", fmt.Errorf("HJSON_PARSE_ERROR: %v", err)
	}
	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("JSON_MARSHAL_ERROR: %v", err)
	}
	return string(jsonBytes), nil
}

// SmartParse tries multiple parsing strategies to get valid JSON into schema:
// standard parse, then repair, then Hjson.
func SmartParse(input string, schema interface{}) (string, error) {
	if err := json.Unmarshal([]byte(input), schema); err == nil {
		return input, nil
	}

	repaired, err := RepairJSON(input)
	if err == nil {
		if err := json.Unmarshal([]byte(repaired), schema); err == nil {
			return repaired, nil
		}
	}

	hjsonResult, err := ParseHJSON(input)
	if err == nil {
		if err := json.Unmarshal([]byte(hjsonResult), schema); err == nil {
			return hjsonResult, nil
		}
	}

	return "", fmt.Errorf("SMART_PARSE_FAILED: all parsing strategies failed for input")
}
