package store

import "encoding/json"

// The structured columns (points, contacts, tables) are stored as JSON
// text. The decode side is deliberately lenient: corrupt stored data yields
// an empty sequence, never an error — readers must not fail on a bad row.

// encodeList serializes a sequence column. A value that cannot be
// marshaled (which cannot happen for the coerced document shapes) falls
// back to the empty array literal.
func encodeList(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// decodeStringList deserializes a points/contacts column.
// Empty on any decode failure.
func decodeStringList(s string) []string {
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

// decodeValueList deserializes a tables column.
// Empty on any decode failure.
func decodeValueList(s string) []any {
	var out []any
	if err := json.Unmarshal([]byte(s), &out); err != nil || out == nil {
		return []any{}
	}
	return out
}
