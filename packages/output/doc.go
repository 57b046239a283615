// Package output renders responses, property trees, bench reports and
// request history for the terminal.
//
// The console formatter colors status lines by outcome and can pretty-print
// JSON bodies; color handling degrades to plain text when disabled or when
// stdout is not a terminal. The JSON formatter emits the same surfaces as
// indented JSON for scripting.
package output
