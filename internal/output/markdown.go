package output

import (
	"fmt"
	"strings"

	"github.com/coinrelay/coinrelay/internal/outcome"
)

// FormatOutcome renders the result of a single forwarded call. Successful
// JSON output is the upstream body itself.
func FormatOutcome(format Format, result outcome.Outcome) (string, error) {
	switch format {
	case FormatJSON:
		if result.OK() {
			return PrettyJSON(result.Body), nil
		}
		return marshalIndent(outcomeError(result))
	case FormatMarkdown:
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("**%s** (%d)\n\n", result.Kind, result.StatusCode))
		if result.OK() {
			sb.WriteString("```json\n")
			sb.WriteString(PrettyJSON(result.Body))
			sb.WriteString("\n```\n")
		} else {
			sb.WriteString(escapeMarkdownCell(result.Message))
			sb.WriteString("\n")
		}
		return sb.String(), nil
	default:
		t := newTable()
		t.AppendHeader(tableRow("Outcome", "Status", "Detail"))
		detail := result.Message
		if result.OK() {
			detail = fmt.Sprintf("%d bytes", len(result.Body))
		}
		t.AppendRow(tableRow(string(result.Kind), result.StatusCode, detail))
		return t.Render(), nil
	}
}

type outcomeErrorRecord struct {
	Error struct {
		Code           string `json:"code"`
		Message        string `json:"message"`
		Status         int    `json:"status"`
		UpstreamStatus int    `json:"upstream_status,omitempty"`
	} `json:"error"`
}

func outcomeError(result outcome.Outcome) outcomeErrorRecord {
	var rec outcomeErrorRecord
	rec.Error.Code = result.ErrorCode()
	rec.Error.Message = result.Message
	rec.Error.Status = result.StatusCode
	rec.Error.UpstreamStatus = result.UpstreamStatus
	return rec
}

func escapeMarkdownCell(value string) string {
	return strings.ReplaceAll(value, "|", "\\|")
}
