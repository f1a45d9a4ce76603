package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"macplugins/internal/diag"
	"macplugins/internal/macros"
)

func newTestServer() *Server {
	return NewServer(macros.DefaultRegistry(), zerolog.Nop())
}

func ref(name, typeName string) MacroRef {
	return MacroRef{ModuleName: macros.ModuleName, TypeName: typeName, Name: name}
}

func syntax(kind, src string, offset int) Syntax {
	return Syntax{Kind: kind, Source: src, Location: SourceLocation{FileName: "main.swift", Offset: offset, Line: 1, Column: 1}}
}

func freestanding(src string) HostMessage {
	return HostMessage{ExpandFreestandingMacro: &ExpandFreestandingMacro{
		Macro:         ref("buildURLRequest", macros.BuildURLRequestType),
		MacroRole:     "expression",
		Discriminator: "$s4main0016buildURLRequestfMf_",
		Syntax:        syntax("expression", src, 40),
	}}
}

func attached(name, typeName, role, attr, decl string) HostMessage {
	return HostMessage{ExpandAttachedMacro: &ExpandAttachedMacro{
		Macro:           ref(name, typeName),
		MacroRole:       role,
		Discriminator:   "$s4main3FooV",
		AttributeSyntax: syntax("attribute", attr, 100),
		DeclSyntax:      syntax("declaration", decl, 100),
	}}
}

func expand(t *testing.T, s *Server, msg HostMessage) ExpandMacroResult {
	t.Helper()
	resp, err := s.HandleMessage(msg)
	require.NoError(t, err)
	require.NotNil(t, resp.ExpandMacroResult)
	return *resp.ExpandMacroResult
}

func TestCapability(t *testing.T) {
	resp, err := newTestServer().Handle([]byte(`{"getCapability":{"capability":{"protocolVersion":6}}}`))
	require.NoError(t, err)
	require.NotNil(t, resp.GetCapabilityResult)
	require.Equal(t, ProtocolVersion, resp.GetCapabilityResult.Capability.ProtocolVersion)

	payload, err := json.Marshal(resp)
	require.NoError(t, err)
	require.JSONEq(t, `{"getCapabilityResult":{"capability":{"protocolVersion":7}}}`, string(payload))
}

func TestExpandFreestanding(t *testing.T) {
	res := expand(t, newTestServer(), freestanding(`#buildURLRequest("https://www.apple.com", method: "PUT")`))
	require.Empty(t, res.Diagnostics)
	require.NotNil(t, res.ExpandedSource)
	require.True(t, strings.HasPrefix(*res.ExpandedSource, "{\n    guard let url = URL(string: \"https://www.apple.com\") else {"))
	require.Contains(t, *res.ExpandedSource, `result.httpMethod = "PUT"`)
	require.True(t, strings.HasSuffix(*res.ExpandedSource, "\n}()"))
}

func TestExpandFreestandingFailure(t *testing.T) {
	res := expand(t, newTestServer(), freestanding(`#buildURLRequest("https://a.b", method: 1)`))
	require.NotNil(t, res.ExpandedSource)
	require.Equal(t, "nil as URLRequest?", *res.ExpandedSource)
	require.Len(t, res.Diagnostics, 1)

	d := res.Diagnostics[0]
	require.Equal(t, "Could not parse method parameter", d.Message)
	require.Equal(t, "error", d.Severity)
	require.Equal(t, DiagnosticID{Domain: macros.Domain, ID: "invalidMethodString"}, d.ID)
	// диагностика стоит на всём сайте, т.е. в начале фрагмента
	require.Equal(t, Position{FileName: "main.swift", Offset: 40}, d.Position)
}

func TestDiagnosticWireShape(t *testing.T) {
	src := `#buildURLRequest("")`
	resp, err := newTestServer().HandleMessage(freestanding(src))
	require.NoError(t, err)
	require.NotNil(t, resp.ExpandMacroResult)
	require.Len(t, resp.ExpandMacroResult.Diagnostics, 1)
	d := resp.ExpandMacroResult.Diagnostics[0]
	require.Equal(t, []PositionRange{{FileName: "main.swift", StartOffset: 40, EndOffset: 40 + len(src)}}, d.Highlights)

	payload, err := json.Marshal(resp)
	require.NoError(t, err)
	var wire struct {
		ExpandMacroResult struct {
			Diagnostics []map[string]json.RawMessage `json:"diagnostics"`
		} `json:"expandMacroResult"`
	}
	require.NoError(t, json.Unmarshal(payload, &wire))
	require.Len(t, wire.ExpandMacroResult.Diagnostics, 1)
	got := wire.ExpandMacroResult.Diagnostics[0]
	for _, key := range []string{"message", "severity", "position", "highlights", "notes", "fixIts"} {
		require.Contains(t, got, key)
	}
	require.JSONEq(t, `[]`, string(got["notes"]))
	require.JSONEq(t, `[]`, string(got["fixIts"]))

	// ошибки адаптера тоже несут все поля
	payload, err = json.Marshal(hostError(diag.PlgUnknownMacro, syntax("expression", "#x()", 7), "no"))
	require.NoError(t, err)
	require.Contains(t, string(payload), `"highlights":[{"fileName":"main.swift","startOffset":7,"endOffset":11}]`)
	require.Contains(t, string(payload), `"notes":[]`)
	require.Contains(t, string(payload), `"fixIts":[]`)
}

func TestExpandAttachedMember(t *testing.T) {
	res := expand(t, newTestServer(), attached("OSLogger", macros.OSLoggerType, "member",
		`@OSLogger(category: "net")`, "@OSLogger(category: \"net\")\nfinal class Client {\n}"))
	require.Empty(t, res.Diagnostics)
	require.NotNil(t, res.ExpandedSource)
	require.Equal(t, `private let logger = Logger(subsystem: Bundle.main.bundleIdentifier ?? "Unknown", category: "net")`, *res.ExpandedSource)
}

func TestExpandAttachedWithoutAttributeInDecl(t *testing.T) {
	res := expand(t, newTestServer(), attached("OSLogger", macros.OSLoggerType, "member",
		`@OSLogger("log")`, "struct Bar {}"))
	require.Empty(t, res.Diagnostics)
	require.NotNil(t, res.ExpandedSource)
	require.True(t, strings.HasPrefix(*res.ExpandedSource, "private let log = Logger("))
}

func TestExpandAttachedWrongType(t *testing.T) {
	res := expand(t, newTestServer(), attached("OSLogger", macros.OSLoggerType, "member",
		"@OSLogger", "@OSLogger\nenum Foo {\n}"))
	require.Nil(t, res.ExpandedSource)
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, "OSLogger can only be attached to class or struct", res.Diagnostics[0].Message)
	require.Equal(t, "wrongType", res.Diagnostics[0].ID.ID)
	require.Equal(t, 100, res.Diagnostics[0].Position.Offset)
}

func TestExpandAttachedExtension(t *testing.T) {
	msg := attached("Equatable", macros.EquatableType, "extension", "@Equatable", "@Equatable\nstruct Inner {}")
	res := expand(t, newTestServer(), msg)
	require.Empty(t, res.Diagnostics)
	require.Equal(t, "extension Inner: Equatable {\n}", *res.ExpandedSource)

	msg.ExpandAttachedMacro.ExtendedTypeSyntax = &Syntax{Kind: "type", Source: "Outer.Inner"}
	res = expand(t, newTestServer(), msg)
	require.Equal(t, "extension Outer.Inner: Equatable {\n}", *res.ExpandedSource)
}

func TestExpandErrorsAreDiagnostics(t *testing.T) {
	cases := []struct {
		name string
		msg  HostMessage
		code diag.Code
	}{
		{
			"unknown type",
			HostMessage{ExpandFreestandingMacro: &ExpandFreestandingMacro{
				Macro:  ref("stringify", "StringifyMacro"),
				Syntax: syntax("expression", "#stringify(a)", 0),
			}},
			diag.PlgUnknownMacro,
		},
		{
			"foreign module",
			HostMessage{ExpandFreestandingMacro: &ExpandFreestandingMacro{
				Macro:  MacroRef{ModuleName: "Other", TypeName: macros.BuildURLRequestType, Name: "buildURLRequest"},
				Syntax: syntax("expression", `#buildURLRequest("a")`, 0),
			}},
			diag.PlgUnknownMacro,
		},
		{
			"attached type as freestanding",
			HostMessage{ExpandFreestandingMacro: &ExpandFreestandingMacro{
				Macro:  ref("Equatable", macros.EquatableType),
				Syntax: syntax("expression", "#Equatable()", 0),
			}},
			diag.PlgWrongRole,
		},
		{
			"role mismatch",
			attached("Equatable", macros.EquatableType, "member", "@Equatable", "@Equatable struct S {}"),
			diag.PlgWrongRole,
		},
		{
			"not a type",
			attached("Equatable", macros.EquatableType, "extension", "@Equatable", "@Equatable func f() {}"),
			diag.PlgWrongRole,
		},
		{
			"protocol conformance",
			attached("Equatable", macros.EquatableType, "extension", "@Equatable", "@Equatable protocol P {}"),
			diag.PlgWrongRole,
		},
		{
			"no site",
			freestanding("let x = 1"),
			diag.PlgBadSyntax,
		},
		{
			"broken fragment",
			freestanding(`#buildURLRequest("a"`),
			diag.PlgBadSyntax,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := expand(t, newTestServer(), tc.msg)
			require.Nil(t, res.ExpandedSource)
			require.NotEmpty(t, res.Diagnostics)
			require.Equal(t, "error", res.Diagnostics[0].Severity)
			require.Equal(t, DiagnosticID{Domain: hostDomain, ID: tc.code.ID()}, res.Diagnostics[0].ID)
		})
	}
}

func TestDecodeUnknownMessage(t *testing.T) {
	_, err := DecodeHostMessage([]byte(`{"loadPluginLibrary":{"libraryPath":"x"}}`))
	require.ErrorIs(t, err, ErrUnknownMessage)
	require.Contains(t, err.Error(), "loadPluginLibrary")

	_, err = DecodeHostMessage([]byte(`{}`))
	require.ErrorIs(t, err, ErrUnknownMessage)
}

func frames(t *testing.T, payloads ...string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	for _, p := range payloads {
		require.NoError(t, WriteMessage(&buf, []byte(p)))
	}
	return &buf
}

func encode(t *testing.T, msg HostMessage) string {
	t.Helper()
	data, err := EncodeHostMessage(msg)
	require.NoError(t, err)
	return string(data)
}

func TestServeLoop(t *testing.T) {
	in := frames(t,
		`{"getCapability":{}}`,
		`{"loadPluginLibrary":{}}`,
		`not json`,
		encode(t, freestanding(`#buildURLRequest("https://a.b")`)),
	)
	var out bytes.Buffer
	var logs bytes.Buffer
	s := NewServer(macros.DefaultRegistry(), zerolog.New(&logs))
	require.NoError(t, s.Serve(context.Background(), in, &out))

	var responses []PluginMessage
	for {
		data, err := ReadMessage(&out)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		var msg PluginMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		responses = append(responses, msg)
	}
	require.Len(t, responses, 4, "every request gets a reply")
	require.NotNil(t, responses[0].GetCapabilityResult)
	for _, bad := range responses[1:3] {
		require.NotNil(t, bad.ExpandMacroResult)
		require.Nil(t, bad.ExpandMacroResult.ExpandedSource)
		require.Len(t, bad.ExpandMacroResult.Diagnostics, 1)
		require.Equal(t, DiagnosticID{Domain: hostDomain, ID: diag.PlgBadMessage.ID()}, bad.ExpandMacroResult.Diagnostics[0].ID)
	}
	require.Contains(t, responses[1].ExpandMacroResult.Diagnostics[0].Message, "loadPluginLibrary")
	require.NotNil(t, responses[3].ExpandMacroResult)
	require.NotNil(t, responses[3].ExpandMacroResult.ExpandedSource)
	require.Contains(t, logs.String(), "unsupported plugin message")
	require.Contains(t, logs.String(), "loadPluginLibrary")
}

func TestServeTruncatedInput(t *testing.T) {
	in := frames(t, `{"getCapability":{}}`)
	in.Truncate(in.Len() - 1)
	err := newTestServer().Serve(context.Background(), in, io.Discard)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestServeCancelled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- newTestServer().Serve(ctx, r, io.Discard) }()
	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
