package breakingpoint

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
)

// MarshalJSON writes the record as a flat object in table column order.
// NULL numeric cells are written as null.
func (r RawStatRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(col.value(&r))
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", col.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object written by MarshalJSON. Missing keys and
// nulls leave the field NULL.
func (r *RawStatRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*r = RawStatRecord{}
	for _, col := range columns {
		raw, ok := fields[col.Key]
		if !ok {
			continue
		}
		if err := col.decode(r, raw); err != nil {
			return fmt.Errorf("decoding %s: %w", col.Key, err)
		}
	}
	return nil
}

func (c column) value(r *RawStatRecord) interface{} {
	switch {
	case c.asText != nil:
		return *c.asText(r)
	case c.asFloat != nil:
		if v := c.asFloat(r); v.Valid {
			return v.Float64
		}
	case c.asInt != nil:
		if v := c.asInt(r); v.Valid {
			return v.Int64
		}
	}
	return nil
}

func (c column) decode(r *RawStatRecord, raw json.RawMessage) error {
	switch {
	case c.asText != nil:
		return json.Unmarshal(raw, c.asText(r))
	case c.asFloat != nil:
		var v *float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		if v != nil {
			*c.asFloat(r) = sql.NullFloat64{Float64: *v, Valid: true}
		}
	case c.asInt != nil:
		var v *int64
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		if v != nil {
			*c.asInt(r) = sql.NullInt64{Int64: *v, Valid: true}
		}
	}
	return nil
}
