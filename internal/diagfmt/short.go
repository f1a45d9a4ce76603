package diagfmt

import (
	"fmt"
	"io"

	"macplugins/internal/diag"
	"macplugins/internal/source"
)

// Short печатает одну строку на диагностику: path:line:col: SEV CODE: message.
// Формат совместим с quickfix-списками редакторов.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode) {
	for _, d := range bag.Items() {
		f := fs.Get(d.Primary.File)
		if f == nil {
			fmt.Fprintf(w, "%s %s: %s\n", d.Severity, d.Code.ID(), d.Message)
			continue
		}
		pos, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", formatPath(fs, f, mode), pos.Line, pos.Col, d.Severity, d.Code.ID(), d.Message)
	}
}
