package aggregates

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// decodePassed unpacks a lessons-passed JSON column into its bucket map
// (level key or level:phase key -> passed lesson ids). A missing or empty
// column decodes to an empty map.
func decodePassed(raw datatypes.JSON) (map[string][]string, error) {
	out := map[string][]string{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string][]string{}
	}
	return out, nil
}

func encodePassed(m map[string][]string) (datatypes.JSON, error) {
	if m == nil {
		m = map[string][]string{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
