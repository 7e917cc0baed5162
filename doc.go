// Package apish compiles two small text DSLs into a typed API project.
//
// An API document declares reusable headers, path parameters, query
// parameters and status codes, named groups of them, and endpoints that
// reference both. A model document declares entities and enums. A third,
// optional input is a JSON or YAML bag of request/response examples.
//
// # Overview
//
// The module is organised as a pipeline:
//
//   - grammar: a packrat PEG engine producing a parse tree with positions
//   - models: parses the model document into a ProjectModel
//   - examples: decodes the examples bag
//   - project: parses the API document, expands groups and resolves names
//   - openapi: projects a Project onto an OpenAPI 3.0.3 document
//   - gotypes: renders Go types for the entities and enums of a ProjectModel
//   - watch: rebuilds whenever an input file changes
//
// # Quick start
//
//	result, err := project.BuildWithOptions(
//		project.WithAPIFile("api.apish"),
//		project.WithModelFile("models.apish"),
//		project.WithExamplesFile("examples.json"),
//	)
//	if err != nil {
//		log.Fatal(err) // a *dslerrors.SyntaxError with line and column
//	}
//	for _, issue := range result.Issues {
//		fmt.Println(issue) // dropped references, never fatal
//	}
//	doc, err := openapi.Generate(result.Project)
//
// # API document
//
//	title: "Pet Store"
//	version: "1.0.0"
//
//	headers:
//	  x-my-auth string alias auth required (none): "Auth token"
//
//	params:
//	  id number required: "Pet identifier"
//
//	headers_groups:
//	  common: [auth]
//
//	apis:
//	  /pets/{id}:
//	    get: "Fetch one pet"
//	      params: [id]
//	      headers: [$common]
//	      status_codes: [200, 404]
//	      produces: [json]
//	      response_model: Pet
//
// Declarations are processed in document order. A group must be declared
// before an endpoint uses it; a later declaration does not apply
// retroactively. References that cannot be resolved are dropped from the
// result and reported in Result.Issues.
//
// # Model document
//
//	enum Species { cat dog "guinea pig" }
//
//	type Pet {
//	  id: number [required] {example: 7} "Identifier"
//	  species: Species "Kind of pet"
//	  tags: []string "Free-form labels"
//	}
//
// # Errors
//
// Only malformed DSL text fails a build, with a *dslerrors.SyntaxError
// naming the deepest failure position. Oversized input and runaway nesting
// yield a *dslerrors.ResourceLimitError and bad options a
// *dslerrors.ConfigError. Use errors.Is with the dslerrors sentinels to
// classify them.
//
// # Command line
//
// The apish command wraps the packages above:
//
//	apish compile  -models models.apish api.apish
//	apish openapi  -format yaml -o openapi.yaml api.apish
//	apish gotypes  -package petstore models.apish
//	apish serve    -addr :8080 api.apish
//
// See cmd/apish for every command and flag.
package apish
