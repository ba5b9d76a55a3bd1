// Package record is the serialization engine behind record declarations.
//
// A record type declares a static table of typed field descriptors (Field[R]). The
// table drives every direction of the mapping: attribute maps into structs, structs into
// namespace-qualified domain.Node trees, response trees back into structs, and structs
// into the JSON view used by the CLI and batch checks. No runtime reflection is involved.
package record
