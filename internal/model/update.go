package model

import "encoding/json"

// Update is a closed set of document mutations. Exactly one command is
// applied per call: overwrite named fields, or append one element to an
// array field (creating the array when absent).
type Update interface {
	apply(doc map[string]interface{})
}

type setFields map[string]interface{}

func (u setFields) apply(doc map[string]interface{}) {
	for k, v := range u {
		doc[k] = normalize(v)
	}
}

type push struct {
	field string
	value interface{}
}

func (u push) apply(doc map[string]interface{}) {
	arr, _ := doc[u.field].([]interface{})
	doc[u.field] = append(arr, normalize(u.value))
}

// SetFields overwrites the named fields, leaving all others untouched.
func SetFields(fields map[string]interface{}) Update {
	return setFields(fields)
}

// Push appends value to the named array field.
func Push(field string, value interface{}) Update {
	return push{field: field, value: value}
}

// normalize flattens structs and typed slices into the plain map/slice
// shapes the document store works with.
func normalize(v interface{}) interface{} {
	switch v.(type) {
	case nil, string, bool, int, int32, int64, float32, float64:
		return v
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}
