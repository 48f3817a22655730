package output

import (
	"bytes"
	"encoding/json"

	"github.com/coinrelay/coinrelay/internal/routes"
)

type routeRecord struct {
	Method   string   `json:"method"`
	Path     string   `json:"path"`
	Upstream string   `json:"upstream"`
	Summary  string   `json:"summary,omitempty"`
	Params   []string `json:"params,omitempty"`
}

func routeRecords(table []routes.Route) []routeRecord {
	records := make([]routeRecord, 0, len(table))
	for _, r := range table {
		rec := routeRecord{
			Method:   r.Method,
			Path:     r.Path,
			Upstream: "/" + r.Upstream,
			Summary:  r.Summary,
		}
		for _, p := range r.Params {
			rec.Params = append(rec.Params, p.Name)
		}
		records = append(records, rec)
	}
	return records
}

// PrettyJSON indents a JSON document. Input that is not valid JSON is
// returned unchanged.
func PrettyJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
