package plugin

import "encoding/json"

// ProtocolVersion is reported in getCapabilityResult.
const ProtocolVersion = 7

// Имена сообщений на проводе.
const (
	kindGetCapability           = "getCapability"
	kindExpandFreestandingMacro = "expandFreestandingMacro"
	kindExpandAttachedMacro     = "expandAttachedMacro"
)

type MacroRef struct {
	ModuleName string `json:"moduleName"`
	TypeName   string `json:"typeName"`
	Name       string `json:"name"`
}

type SourceLocation struct {
	FileID   string `json:"fileID,omitempty"`
	FileName string `json:"fileName"`
	Offset   int    `json:"offset"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// Syntax — фрагмент исходника, который хост присылает вместе с позицией.
type Syntax struct {
	Kind     string         `json:"kind"`
	Source   string         `json:"source"`
	Location SourceLocation `json:"location"`
}

type Capability struct {
	ProtocolVersion int `json:"protocolVersion"`
}

type GetCapability struct {
	Capability *Capability `json:"capability,omitempty"`
}

type ExpandFreestandingMacro struct {
	Macro         MacroRef `json:"macro"`
	MacroRole     string   `json:"macroRole,omitempty"`
	Discriminator string   `json:"discriminator"`
	Syntax        Syntax   `json:"syntax"`
}

type ExpandAttachedMacro struct {
	Macro              MacroRef `json:"macro"`
	MacroRole          string   `json:"macroRole"`
	Discriminator      string   `json:"discriminator"`
	AttributeSyntax    Syntax   `json:"attributeSyntax"`
	DeclSyntax         Syntax   `json:"declSyntax"`
	ParentDeclSyntax   *Syntax  `json:"parentDeclSyntax,omitempty"`
	ExtendedTypeSyntax *Syntax  `json:"extendedTypeSyntax,omitempty"`
}

// HostMessage is a decoded request. Exactly one field is set.
type HostMessage struct {
	GetCapability           *GetCapability
	ExpandFreestandingMacro *ExpandFreestandingMacro
	ExpandAttachedMacro     *ExpandAttachedMacro
}

type Position struct {
	FileName string `json:"fileName"`
	Offset   int    `json:"offset"`
}

type DiagnosticID struct {
	Domain string `json:"domain"`
	ID     string `json:"id"`
}

// PositionRange — полуинтервал [StartOffset, EndOffset) в файле хоста.
type PositionRange struct {
	FileName    string `json:"fileName"`
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
}

type DiagnosticNote struct {
	Position Position `json:"position"`
	Message  string   `json:"message"`
}

type FixItChange struct {
	Range   PositionRange `json:"range"`
	NewText string        `json:"newText"`
}

type FixIt struct {
	Message string        `json:"message"`
	Changes []FixItChange `json:"changes"`
}

// Diagnostic is a finding reported back to the host. The host requires
// highlights, notes and fixIts to be present, so they are encoded as []
// when empty. ID is an extension the host ignores.
type Diagnostic struct {
	Message    string           `json:"message"`
	Severity   string           `json:"severity"`
	Position   Position         `json:"position"`
	Highlights []PositionRange  `json:"highlights"`
	Notes      []DiagnosticNote `json:"notes"`
	FixIts     []FixIt          `json:"fixIts"`
	ID         DiagnosticID     `json:"id"`
}

func (d Diagnostic) MarshalJSON() ([]byte, error) {
	type wire Diagnostic
	w := wire(d)
	if w.Highlights == nil {
		w.Highlights = []PositionRange{}
	}
	if w.Notes == nil {
		w.Notes = []DiagnosticNote{}
	}
	if w.FixIts == nil {
		w.FixIts = []FixIt{}
	}
	return json.Marshal(w)
}

type CapabilityResult struct {
	Capability Capability `json:"capability"`
}

type ExpandMacroResult struct {
	ExpandedSource *string      `json:"expandedSource"`
	Diagnostics    []Diagnostic `json:"diagnostics"`
}

// PluginMessage is a response. Exactly one field is set.
type PluginMessage struct {
	GetCapabilityResult *CapabilityResult  `json:"getCapabilityResult,omitempty"`
	ExpandMacroResult   *ExpandMacroResult `json:"expandMacroResult,omitempty"`
}

// DecodeHostMessage разбирает запрос вида {"<kind>": {...}}. Неизвестный
// вид даёт ErrUnknownMessage с именем вида.
func DecodeHostMessage(data []byte) (HostMessage, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return HostMessage{}, err
	}
	if len(envelope) != 1 {
		return HostMessage{}, unknownMessage(envelope)
	}
	var msg HostMessage
	for kind, body := range envelope {
		var err error
		switch kind {
		case kindGetCapability:
			msg.GetCapability = &GetCapability{}
			err = json.Unmarshal(body, msg.GetCapability)
		case kindExpandFreestandingMacro:
			msg.ExpandFreestandingMacro = &ExpandFreestandingMacro{}
			err = json.Unmarshal(body, msg.ExpandFreestandingMacro)
		case kindExpandAttachedMacro:
			msg.ExpandAttachedMacro = &ExpandAttachedMacro{}
			err = json.Unmarshal(body, msg.ExpandAttachedMacro)
		default:
			return HostMessage{}, unknownMessage(envelope)
		}
		if err != nil {
			return HostMessage{}, err
		}
	}
	return msg, nil
}

// EncodeHostMessage is the inverse of DecodeHostMessage; used by tests and
// by `macplugins plugin --request`.
func EncodeHostMessage(msg HostMessage) ([]byte, error) {
	switch {
	case msg.GetCapability != nil:
		return json.Marshal(map[string]any{kindGetCapability: msg.GetCapability})
	case msg.ExpandFreestandingMacro != nil:
		return json.Marshal(map[string]any{kindExpandFreestandingMacro: msg.ExpandFreestandingMacro})
	case msg.ExpandAttachedMacro != nil:
		return json.Marshal(map[string]any{kindExpandAttachedMacro: msg.ExpandAttachedMacro})
	}
	return nil, ErrUnknownMessage
}
