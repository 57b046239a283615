package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/tidwall/gjson"

	"github.com/catsop/sophttp/packages/bench"
	"github.com/catsop/sophttp/packages/history"
	"github.com/catsop/sophttp/packages/http"
	"github.com/catsop/sophttp/packages/ptree"
)

// JSONResponse is the machine-readable envelope for a single response.
type JSONResponse struct {
	StatusCode     int               `json:"statusCode"`
	TransportError bool              `json:"transportError,omitempty"`
	Headers        map[string]string `json:"headers,omitempty"`
	Body           json.RawMessage   `json:"body,omitempty"`
	Duration       float64           `json:"duration"`
}

// JSONBenchReport is the machine-readable envelope for a bench run.
// Latencies are milliseconds.
type JSONBenchReport struct {
	Duration  float64 `json:"duration"`
	Total     int64   `json:"total"`
	Success   int64   `json:"success"`
	Errors    int64   `json:"errors"`
	ErrorRate float64 `json:"errorRate"`
	RPS       float64 `json:"rps"`
	P50       float64 `json:"p50"`
	P95       float64 `json:"p95"`
	P99       float64 `json:"p99"`
	Min       float64 `json:"min"`
	Mean      float64 `json:"mean"`
	Max       float64 `json:"max"`
	Time      string  `json:"time"`
}

// JSONHistoryEntry is one recorded request.
type JSONHistoryEntry struct {
	ID         string  `json:"id"`
	Time       string  `json:"time"`
	Method     string  `json:"method"`
	URL        string  `json:"url"`
	StatusCode int     `json:"statusCode"`
	Duration   float64 `json:"duration"`
	Bytes      int     `json:"bytes"`
}

// JSONFormatter renders the same surfaces as ConsoleFormatter but as
// indented JSON, for scripting.
type JSONFormatter struct {
	writer io.Writer
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatResponse(resp *http.Response) error {
	out := JSONResponse{
		StatusCode:     resp.StatusCode,
		TransportError: resp.IsTransportError(),
		Headers:        resp.Headers,
		Body:           bodyMessage(resp.Body),
		Duration:       float64(resp.DurationMs()),
	}
	return f.encode(out)
}

func (f *JSONFormatter) FormatTree(tree *ptree.Tree) error {
	if tree == nil {
		return f.encode(json.RawMessage("null"))
	}
	return f.encode(json.RawMessage(tree.Raw()))
}

func (f *JSONFormatter) FormatBenchReport(report *bench.Report) error {
	out := JSONBenchReport{
		Duration:  ms(report.Duration),
		Total:     report.Total,
		Success:   report.Success,
		Errors:    report.Errors,
		ErrorRate: report.ErrorRate,
		RPS:       report.RPS,
		P50:       ms(report.P50),
		P95:       ms(report.P95),
		P99:       ms(report.P99),
		Min:       ms(report.Min),
		Mean:      ms(report.Mean),
		Max:       ms(report.Max),
		Time:      time.Now().Format(time.RFC3339),
	}
	return f.encode(out)
}

func (f *JSONFormatter) FormatHistory(entries []history.Entry) error {
	out := make([]JSONHistoryEntry, len(entries))
	for i, e := range entries {
		out[i] = JSONHistoryEntry{
			ID:         e.ID,
			Time:       e.Timestamp.Format(time.RFC3339),
			Method:     e.Method,
			URL:        e.URL,
			StatusCode: e.StatusCode,
			Duration:   float64(e.DurationMs),
			Bytes:      e.Bytes,
		}
	}
	return f.encode(out)
}

func (f *JSONFormatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// bodyMessage embeds JSON bodies verbatim and quotes everything else.
func bodyMessage(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if gjson.ValidBytes(body) {
		return json.RawMessage(body)
	}
	quoted, err := json.Marshal(string(body))
	if err != nil {
		return nil
	}
	return json.RawMessage(quoted)
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
