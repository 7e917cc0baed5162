// Package project builds the semantic model of an API document.
//
// An API document declares catalogs of headers, path parameters, query
// arguments and status codes, groups over those catalogs, and an apis block
// of endpoints whose verbs reference catalog entries by name, alias or
// $group:
//
//	title: "Pet Store"
//	headers:
//	  x-my-auth string alias auth required: "Auth token"
//	headers_groups:
//	  common: [auth]
//	apis:
//	  /pets:
//	    get: "List pets"
//	      headers: [$common]
//	      status_codes: [200, 404]
//	      produces: [json]
//
// # Order matters
//
// The document is walked once, top to bottom. A group reference expands
// against the groups declared above it; a reference to a group declared
// further down expands to nothing. Names are kept as written and resolved
// on demand through the Resolve methods of [Project], which silently drop
// anything they cannot find.
//
// # Diagnostics
//
// Dropped references never fail a build. [BuildWithOptions] reports them in
// [Result.Issues] as warnings, each carrying a [dslerrors.ReferenceError].
// A document that does not match the grammar fails with a
// [dslerrors.SyntaxError] and no Project.
//
// # Usage
//
//	result, err := project.BuildWithOptions(
//	    project.WithAPIFile("api.apish"),
//	    project.WithModelFile("models.apish"),
//	    project.WithExamplesFile("examples.json"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, issue := range result.Issues {
//	    fmt.Println(issue)
//	}
package project
