// Package jsonschema generates JSON Schema documents from Go types using
// reflection.
//
// Structs, primitives, slices, maps and pointers are supported. Recursive
// struct types are emitted once under $defs and referenced with $ref.
//
// The main entry point is [GenerateJSONSchema], which derives a [Schema] from
// a type parameter without needing a runtime value.
package jsonschema
