// Package macros holds the expansion engines for #buildURLRequest,
// @OSLogger and @Equatable together with the helpers they share:
// argument lookup, expression-shape classification and the per-macro
// diagnostic taxonomy.
//
// Engines are pure functions over an already parsed fragment. They never
// mutate the AST, never log and keep no state between calls; diagnostics go
// to a caller-owned Sink. The driver and the plugin server turn the returned
// text into source edits or wire messages.
package macros
