// Package openapi projects a built project onto an OpenAPI 3.0.3 document.
//
// The projection follows the resolved project exactly: a header, query
// argument, path parameter or status code that does not resolve is absent
// from the output, and nothing is reported. Use project.Result.Issues to
// find out what was left out.
//
//	result, err := project.BuildWithOptions(project.WithAPIFile("api.apish"))
//	if err != nil {
//	    return err
//	}
//	doc, err := openapi.Generate(result.Project, openapi.WithServer("https://api.example.com", ""))
//	if err != nil {
//	    return err
//	}
//	data, err := openapi.MarshalYAML(doc)
//
// Entities and enums of the model document become components.schemas.
// request_model and response_model references become $ref schemas; bodies
// without a model use a plain string schema.
package openapi
