package macros

import "fmt"

const (
	defaultMethod  = `"GET"`
	defaultHeaders = "[:]"
)

// ExpandBuildRequest раскрывает #buildURLRequest(url, method:, headers:).
//
// Слоты проверяются по порядку url → method → headers; первый неудачный
// даёт свою диагностику на весь сайт и плейсхолдер `nil as URLRequest?`.
// Частичного раскрытия не бывает.
func ExpandBuildRequest(in FreestandingInput, sink Sink) ExprExpansion {
	fail := func(d BuildRequestDiag) ExprExpansion {
		sink.Report(in.Node, d.Info())
		return ExprExpansion{Placeholder: true, PlaceholderType: "URLRequest"}
	}

	var url string
	arg, ok := FirstUnlabeled(in.Args)
	if !ok {
		return fail(InvalidURLString)
	}
	switch c := in.classify(arg.Expr); c.Shape {
	case ShapeIdentifier, ShapeString:
		url = c.Text
	case ShapeMapping, ShapeUnrecognized:
		return fail(InvalidURLString)
	}

	method := defaultMethod
	if arg, ok := ByLabel(in.Args, "method"); ok {
		switch c := in.classify(arg.Expr); c.Shape {
		case ShapeIdentifier, ShapeString:
			method = c.Text
		case ShapeMapping, ShapeUnrecognized:
			return fail(InvalidMethodString)
		}
	}

	headers := defaultHeaders
	if arg, ok := ByLabel(in.Args, "headers"); ok {
		switch c := in.classify(arg.Expr); c.Shape {
		case ShapeIdentifier, ShapeMapping:
			headers = c.Text
		case ShapeString, ShapeUnrecognized:
			return fail(InvalidHeaders)
		}
	}

	return ExprExpansion{Statements: []string{
		fmt.Sprintf("guard let url = URL(string: %s) else {\n%sreturn nil\n}", url, IndentUnit),
		"var result = URLRequest(url: url)",
		"result.httpMethod = " + method,
		"let headers: [String: String] = " + headers,
		fmt.Sprintf("for (header, value) in headers {\n%sresult.setValue(value, forHTTPHeaderField: header)\n}", IndentUnit),
		"return result",
	}}
}
