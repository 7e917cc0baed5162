// Package models parses data-model documents into a [ProjectModel].
//
// A model document declares enums and entities:
//
//	enum Mood {
//	  happy
//	  mad
//	  "very sad"
//	}
//
//	type Person {
//	  name: string [required] {example: "Ada", format: name} "Person name"
//	  friends: []Person "Known people"
//	  mood: Mood "Current mood"
//	}
//
// The keywords type and entity are interchangeable. A field is an
// identifier, a free-form type token (prefixed with [] for arrays), an
// optional marker list, an optional tag list and a mandatory quoted
// description. The example tag also fills Field.Example, and a field whose
// type names an enum of the same document lists that enum's values in
// Field.AllowedValues.
//
// Declaring a field identifier twice in one entity keeps the later field.
// Enum values keep their order, duplicates included.
//
// Any grammar mismatch fails the whole document with a
// *dslerrors.SyntaxError; there are no partial results.
package models
