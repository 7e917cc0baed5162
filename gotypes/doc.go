// Package gotypes generates Go declarations from a model document.
//
// Each enum becomes a string type with one constant per distinct value and
// a Valid method; each entity becomes a struct with json tags:
//
//	enum Species { cat dog }
//	type Pet {
//	  name: string [required] "Pet name"
//	  species: Species "Kind of pet"
//	}
//
// renders as
//
//	type Species string
//
//	const (
//		SpeciesCat Species = "cat"
//		SpeciesDog Species = "dog"
//	)
//
//	type Pet struct {
//		// Pet name
//		Name string `json:"name"`
//		// Kind of pet
//		Species Species `json:"species,omitempty"`
//	}
//
// Output is formatted and its imports are fixed with golang.org/x/tools/imports.
package gotypes
