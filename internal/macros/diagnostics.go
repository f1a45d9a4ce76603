package macros

import (
	"macplugins/internal/diag"
	"macplugins/internal/source"
)

// Domain is the diagnostic domain shared by every engine in this package.
const Domain = "MacpluginsMacros"

// MessageID — стабильная идентичность диагностики: домен + имя случая.
type MessageID struct {
	Domain string
	ID     string
}

func (m MessageID) String() string {
	return m.Domain + "." + m.ID
}

// DiagInfo is what an engine knows about one of its diagnostics.
type DiagInfo struct {
	Severity diag.Severity
	Message  string
	ID       MessageID
	Code     diag.Code
}

// BuildRequestDiag enumerates #buildURLRequest diagnostics.
type BuildRequestDiag uint8

const (
	InvalidURLString BuildRequestDiag = iota
	InvalidMethodString
	InvalidHeaders
)

func (d BuildRequestDiag) Info() DiagInfo {
	switch d {
	case InvalidURLString:
		return errorInfo("invalidURLString", "Value for URL is invalid", diag.MacInvalidURLString)
	case InvalidMethodString:
		return errorInfo("invalidMethodString", "Could not parse method parameter", diag.MacInvalidMethodString)
	case InvalidHeaders:
		return errorInfo("invalidHeaders", "Could not parse headers parameter", diag.MacInvalidHeaders)
	}
	return errorInfo("unknown", "unknown diagnostic", diag.UnknownCode)
}

// OSLoggerDiag enumerates @OSLogger diagnostics.
type OSLoggerDiag uint8

const (
	WrongType OSLoggerDiag = iota
	BadLoggerNameValue
	BadSubsystemValue
	BadCategoryValue
)

func (d OSLoggerDiag) Info() DiagInfo {
	switch d {
	case WrongType:
		return errorInfo("wrongType", "OSLogger can only be attached to class or struct", diag.MacWrongType)
	case BadLoggerNameValue:
		return errorInfo("badLoggerNameValue", "OSLogger variable name must be an identifier or a non-empty string", diag.MacBadLoggerNameValue)
	case BadSubsystemValue:
		return errorInfo("badSubsystemValue", "OSLogger subsystem must be an identifier or a non-empty string", diag.MacBadSubsystemValue)
	case BadCategoryValue:
		return errorInfo("badCategoryValue", "OSLogger category must be an identifier or a non-empty string", diag.MacBadCategoryValue)
	}
	return errorInfo("unknown", "unknown diagnostic", diag.UnknownCode)
}

func errorInfo(id, msg string, code diag.Code) DiagInfo {
	return DiagInfo{
		Severity: diag.SevError,
		Message:  msg,
		ID:       MessageID{Domain: Domain, ID: id},
		Code:     code,
	}
}

// Sink принимает диагностики движка. Владеет им вызывающий.
type Sink interface {
	Report(span source.Span, info DiagInfo)
}

// Report — одна диагностика, накопленная Collector'ом.
type Report struct {
	Span source.Span
	Info DiagInfo
}

// Collector накапливает диагностики в порядке поступления.
type Collector struct {
	Reports []Report
}

func (c *Collector) Report(span source.Span, info DiagInfo) {
	c.Reports = append(c.Reports, Report{Span: span, Info: info})
}

// HasErrors reports whether any collected diagnostic is an error.
func (c *Collector) HasErrors() bool {
	for _, r := range c.Reports {
		if r.Info.Severity == diag.SevError {
			return true
		}
	}
	return false
}

// ReporterSink переводит диагностики движка в diag.Reporter. MessageID
// попадает в note, чтобы не терялся в текстовых форматах.
type ReporterSink struct {
	Reporter diag.Reporter
}

func (s ReporterSink) Report(span source.Span, info DiagInfo) {
	if s.Reporter == nil {
		return
	}
	notes := []diag.Note{{Span: span, Msg: "id: " + info.ID.String()}}
	s.Reporter.Report(info.Code, info.Severity, span, info.Message, notes, nil)
}
