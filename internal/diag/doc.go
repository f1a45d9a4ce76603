// Package diag defines the diagnostic model shared by the lexer, parser,
// macro engines, expansion driver and plugin server.
//
// Diagnostic is the central record: Severity, a numeric Code with a stable
// string ID (LEX/SYN/IO/MAC/CFG/OBS/PLG prefixes), a short Message, the
// Primary span, optional Notes and optional Fix suggestions made of
// TextEdits. Fixes are data only; internal/fix applies them.
//
// Producers emit through a Reporter (usually BagReporter) with the
// ReportBuilder helpers; the Bag keeps a bounded, sortable list. Package
// diag does no formatting or IO; rendering lives in internal/diagfmt.
package diag
