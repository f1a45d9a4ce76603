package diag

import "macplugins/internal/source"

// Reporter принимает диагностики от лексера, парсера, макросов и конфига.
// В проекте две реализации: BagReporter и macros.ReporterSink поверх него.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix)
}

// BagReporter складывает всё в Bag; с nil Bag молча ничего не делает.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix) {
	if r.Bag != nil {
		r.Bag.Add(Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes, Fixes: fixes})
	}
}

// ReportBuilder копит заметки и исправления, пока не вызван Emit.
// Все методы допускают nil receiver.
type ReportBuilder struct {
	to      Reporter
	d       Diagnostic
	emitted bool
}

func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{to: r, d: New(sev, code, primary, msg)}
}

func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, msg)
}

func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, primary, msg)
}

func ReportInfo(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevInfo, code, primary, msg)
}

func (b *ReportBuilder) update(fn func(Diagnostic) Diagnostic) *ReportBuilder {
	if b != nil {
		b.d = fn(b.d)
	}
	return b
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	return b.update(func(d Diagnostic) Diagnostic { return d.WithNote(sp, msg) })
}

func (b *ReportBuilder) WithFix(title string, edits ...TextEdit) *ReportBuilder {
	return b.update(func(d Diagnostic) Diagnostic { return d.WithFix(title, edits...) })
}

func (b *ReportBuilder) WithFixSuggestion(fix Fix) *ReportBuilder {
	return b.update(func(d Diagnostic) Diagnostic { return d.WithFixSuggestion(fix) })
}

// Emit срабатывает один раз; повторные вызовы игнорируются.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	b.emitted = true
	b.d.ReportTo(b.to)
}
