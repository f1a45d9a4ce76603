package ast

import (
	"slices"
)

// AttrTargetMask describes a set of declaration kinds an attribute may be applied to.
type AttrTargetMask uint16

const (
	AttrTargetNone  AttrTargetMask = 0
	AttrTargetType  AttrTargetMask = 1 << iota // class/struct/enum/actor/protocol
	AttrTargetFunc                             // functions, initializers
	AttrTargetVar                              // stored and computed properties
	AttrTargetParam                            // closure and function parameters
	AttrTargetAny   = AttrTargetType | AttrTargetFunc | AttrTargetVar | AttrTargetParam
)

// AttrSpec describes a built-in language attribute. Anything not listed here
// is treated as an attached macro.
type AttrSpec struct {
	Name    string
	Targets AttrTargetMask
}

// Allows reports whether the attribute can be applied to the provided target bit.
func (spec AttrSpec) Allows(target AttrTargetMask) bool {
	return spec.Targets&target != 0
}

var attrRegistry = map[string]AttrSpec{
	"available":           {Name: "available", Targets: AttrTargetAny},
	"objc":                {Name: "objc", Targets: AttrTargetType | AttrTargetFunc | AttrTargetVar},
	"objcMembers":         {Name: "objcMembers", Targets: AttrTargetType},
	"nonobjc":             {Name: "nonobjc", Targets: AttrTargetFunc | AttrTargetVar},
	"MainActor":           {Name: "MainActor", Targets: AttrTargetAny},
	"Sendable":            {Name: "Sendable", Targets: AttrTargetFunc | AttrTargetParam},
	"discardableResult":   {Name: "discardableResult", Targets: AttrTargetFunc},
	"escaping":            {Name: "escaping", Targets: AttrTargetParam},
	"autoclosure":         {Name: "autoclosure", Targets: AttrTargetParam},
	"inlinable":           {Name: "inlinable", Targets: AttrTargetFunc | AttrTargetVar},
	"usableFromInline":    {Name: "usableFromInline", Targets: AttrTargetAny},
	"frozen":              {Name: "frozen", Targets: AttrTargetType},
	"main":                {Name: "main", Targets: AttrTargetType},
	"propertyWrapper":     {Name: "propertyWrapper", Targets: AttrTargetType},
	"resultBuilder":       {Name: "resultBuilder", Targets: AttrTargetType},
	"dynamicMemberLookup": {Name: "dynamicMemberLookup", Targets: AttrTargetType},
	"dynamicCallable":     {Name: "dynamicCallable", Targets: AttrTargetType},
	"IBOutlet":            {Name: "IBOutlet", Targets: AttrTargetVar},
	"IBAction":            {Name: "IBAction", Targets: AttrTargetFunc},
	"IBDesignable":        {Name: "IBDesignable", Targets: AttrTargetType},
	"IBInspectable":       {Name: "IBInspectable", Targets: AttrTargetVar},
	"NSManaged":           {Name: "NSManaged", Targets: AttrTargetVar},
	"testable":            {Name: "testable", Targets: AttrTargetNone},
	"preconcurrency":      {Name: "preconcurrency", Targets: AttrTargetAny},
	"unchecked":           {Name: "unchecked", Targets: AttrTargetNone},
	"retroactive":         {Name: "retroactive", Targets: AttrTargetNone},
	"freestanding":        {Name: "freestanding", Targets: AttrTargetNone},
	"attached":            {Name: "attached", Targets: AttrTargetNone},
	"State":               {Name: "State", Targets: AttrTargetVar},
	"Binding":             {Name: "Binding", Targets: AttrTargetVar},
	"Published":           {Name: "Published", Targets: AttrTargetVar},
	"Environment":         {Name: "Environment", Targets: AttrTargetVar},
	"ObservedObject":      {Name: "ObservedObject", Targets: AttrTargetVar},
	"StateObject":         {Name: "StateObject", Targets: AttrTargetVar},
	"EnvironmentObject":   {Name: "EnvironmentObject", Targets: AttrTargetVar},
}

// LookupAttr returns metadata for a built-in attribute. Swift attribute
// names are case-sensitive.
func LookupAttr(name string) (AttrSpec, bool) {
	if name == "" {
		return AttrSpec{}, false
	}
	spec, ok := attrRegistry[name]
	return spec, ok
}

// IsBuiltinAttr reports whether name is a language attribute rather than a macro.
func IsBuiltinAttr(name string) bool {
	_, ok := LookupAttr(name)
	return ok
}

// AttrSpecs returns a stable slice of all registered attribute specifications sorted by name.
func AttrSpecs() []AttrSpec {
	names := make([]string, 0, len(attrRegistry))
	for name := range attrRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	result := make([]AttrSpec, 0, len(names))
	for _, name := range names {
		result = append(result, attrRegistry[name])
	}
	return result
}
