package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Param is a single named request parameter.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered parameter mapping. Keys are unique; setting an existing
// key replaces its value in place so the original position is kept.
type Params struct {
	entries []Param
}

// NewParams builds Params from key/value pairs in the given order.
func NewParams(pairs ...Param) Params {
	var p Params
	for _, pair := range pairs {
		p.Set(pair.Key, pair.Value)
	}
	return p
}

// Set assigns value to key.
func (p *Params) Set(key string, value any) {
	for i := range p.entries {
		if p.entries[i].Key == key {
			p.entries[i].Value = value
			return
		}
	}
	p.entries = append(p.entries, Param{Key: key, Value: value})
}

// Get returns the value stored for key.
func (p Params) Get(key string) (any, bool) {
	for _, entry := range p.entries {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return nil, false
}

// Len returns the number of entries, including nil-valued ones.
func (p Params) Len() int {
	return len(p.entries)
}

// Entries returns a copy of the entries in insertion order.
func (p Params) Entries() []Param {
	out := make([]Param, len(p.entries))
	copy(out, p.entries)
	return out
}

// Query encodes the parameters as a query string in insertion order.
// Nil values are omitted rather than sent as empty strings.
func (p Params) Query() string {
	var buf bytes.Buffer
	for _, entry := range p.entries {
		if entry.Value == nil {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteByte('&')
		}
		buf.WriteString(url.QueryEscape(entry.Key))
		buf.WriteByte('=')
		buf.WriteString(url.QueryEscape(formatValue(entry.Value)))
	}
	return buf.String()
}

// MarshalJSON encodes the parameters as a JSON object preserving key order.
// Nil values are encoded as JSON null.
func (p Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range p.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, fmt.Errorf("encode param %q: %w", entry.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
