// Package plugin serves the out-of-process macro plugin protocol: framed
// JSON requests from a host compiler on stdin, one framed response per
// request on stdout.
package plugin
