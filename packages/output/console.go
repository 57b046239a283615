package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/catsop/sophttp/packages/bench"
	"github.com/catsop/sophttp/packages/history"
	"github.com/catsop/sophttp/packages/http"
	"github.com/catsop/sophttp/packages/ptree"
)

type ConsoleFormatter struct {
	writer     io.Writer
	verbose    bool
	noColor    bool
	prettyJSON bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

// WithPrettyJSON re-indents and syntax-colors JSON bodies.
func WithPrettyJSON(p bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.prettyJSON = p
	}
}

// FormatResponse prints the status line, the captured header lines when
// verbose, then the body.
func (f *ConsoleFormatter) FormatResponse(resp *http.Response) {
	cyan := color.New(color.FgCyan).SprintFunc()

	status := fmt.Sprintf("HTTP %d", resp.StatusCode)
	if resp.IsTransportError() {
		status = "transport failure"
	}
	meta := fmt.Sprintf("(%dms, %d bytes)", resp.DurationMs(), len(resp.Body))
	fmt.Fprintf(f.writer, "%s %s\n", statusSprint(resp.StatusCode)(status), cyan(meta))

	if f.verbose && len(resp.Headers) > 0 {
		names := make([]string, 0, len(resp.Headers))
		for name := range resp.Headers {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(f.writer, "  %s: %s\n", name, resp.Headers[name])
		}
	}

	if len(resp.Body) == 0 {
		return
	}
	fmt.Fprintf(f.writer, "%s\n", f.renderBody(resp.Body))
}

// FormatTree prints a property tree as JSON.
func (f *ConsoleFormatter) FormatTree(tree *ptree.Tree) {
	if tree == nil {
		f.FormatError(fmt.Errorf("no document to display"))
		return
	}
	fmt.Fprintf(f.writer, "%s\n", f.renderBody([]byte(tree.Raw())))
}

// FormatPathValue prints a single extracted path alongside its value.
func (f *ConsoleFormatter) FormatPathValue(path, value string) {
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(f.writer, "%s = %s\n", cyan(path), value)
}

// FormatBenchReport prints the summary of a completed bench run.
func (f *ConsoleFormatter) FormatBenchReport(report *bench.Report) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n", bold("BENCH SUMMARY"))
	fmt.Fprintf(f.writer, "%s\n", strings.Repeat("-", 40))

	fmt.Fprintf(f.writer, "Duration:   %s\n", report.Duration.Round(time.Millisecond))
	fmt.Fprintf(f.writer, "Total:      %s requests (%.1f req/s)\n",
		bold(fmt.Sprintf("%d", report.Total)), report.RPS)
	fmt.Fprintf(f.writer, "Success:    %s\n", green(fmt.Sprintf("%d", report.Success)))

	failed := fmt.Sprintf("%d (%.1f%%)", report.Errors, report.ErrorRate*100)
	if report.Errors > 0 {
		failed = red(failed)
	}
	fmt.Fprintf(f.writer, "Failed:     %s\n", failed)

	fmt.Fprintf(f.writer, "\n%s\n", bold("LATENCY"))
	fmt.Fprintf(f.writer, "  p50: %-10s p95: %-10s p99: %s\n",
		formatLatency(report.P50), formatLatency(report.P95), formatLatency(report.P99))
	fmt.Fprintf(f.writer, "  min: %-10s mean: %-9s max: %s\n",
		formatLatency(report.Min), formatLatency(report.Mean), formatLatency(report.Max))
	fmt.Fprintf(f.writer, "\n")
}

// FormatHistory prints recorded requests, newest first.
func (f *ConsoleFormatter) FormatHistory(entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(f.writer, "history is empty")
		return
	}

	dim := color.New(color.Faint).SprintFunc()
	for _, e := range entries {
		status := statusSprint(e.StatusCode)(fmt.Sprintf("%4d", e.StatusCode))
		meta := fmt.Sprintf("(%dms, %d bytes)", e.DurationMs, e.Bytes)
		fmt.Fprintf(f.writer, "%s  %s  %-6s %s %s\n",
			dim(e.Timestamp.Format("2006-01-02 15:04:05")),
			status, e.Method, e.URL, dim(meta))
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("sophttp"), version)
}

func (f *ConsoleFormatter) renderBody(body []byte) string {
	if !f.prettyJSON || !gjson.ValidBytes(body) {
		return strings.TrimRight(string(body), "\n")
	}
	out := pretty.Pretty(body)
	if !color.NoColor {
		out = pretty.Color(out, nil)
	}
	return strings.TrimRight(string(out), "\n")
}

func statusSprint(code int) func(a ...interface{}) string {
	switch {
	case code == http.StatusTransportError:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case code >= 200 && code < 300:
		return color.New(color.FgGreen).SprintFunc()
	case code >= 300 && code < 400:
		return color.New(color.FgYellow).SprintFunc()
	default:
		return color.New(color.FgRed).SprintFunc()
	}
}

func formatLatency(d time.Duration) string {
	return d.Round(10 * time.Microsecond).String()
}
