package macros

// ExpandEquatable always yields one empty extension declaring Equatable
// conformance. Generic parameters are not repeated in the extended name.
func ExpandEquatable(in AttachedInput) []ExtensionDecl {
	return []ExtensionDecl{{
		TypeName: in.TypeName,
		Source:   "extension " + in.TypeName + ": Equatable {\n}",
	}}
}
