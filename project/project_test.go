package project

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erraggy/apish/dslerrors"
	"github.com/erraggy/apish/examples"
	"github.com/erraggy/apish/internal/issues"
	"github.com/erraggy/apish/internal/severity"
	"github.com/erraggy/apish/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petstoreDir = "../testdata/petstore"

func buildPetstore(t *testing.T) *Result {
	t.Helper()
	result, err := BuildWithOptions(
		WithAPIFile(filepath.Join(petstoreDir, "api.apish")),
		WithModelFile(filepath.Join(petstoreDir, "models.apish")),
		WithExamplesFile(filepath.Join(petstoreDir, "examples.json")),
	)
	require.NoError(t, err)
	require.NotNil(t, result.Project)
	return result
}

func mustBuild(t *testing.T, doc string) *Result {
	t.Helper()
	result, err := BuildWithOptions(WithAPIBytes([]byte(doc)))
	require.NoError(t, err)
	return result
}

func names(defs []ArgumentDefinition) []string {
	out := make([]string, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Name)
	}
	return out
}

func codes(defs []StatusCodeDefinition) []string {
	out := make([]string, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Code)
	}
	return out
}

func TestBuildPetstore(t *testing.T) {
	result := buildPetstore(t)
	p := result.Project

	assert.Empty(t, result.Issues, "fixture should resolve cleanly")
	assert.False(t, result.HasWarnings())
	assert.Equal(t, "Pet Store", p.Title)
	assert.Equal(t, "1.0.0", p.Version)
	assert.Equal(t, []string{"/pets", "/pets/{id}"}, p.Paths())

	t.Run("header catalog", func(t *testing.T) {
		require.Len(t, p.Headers, 2)
		auth := p.Headers[0]
		assert.Equal(t, "x-my-auth", auth.Name)
		assert.Equal(t, "auth", auth.Alias)
		assert.Equal(t, TypeString, auth.Type)
		assert.True(t, auth.Required)
		assert.Equal(t, "none", auth.DefaultValue)
		assert.Equal(t, "Auth token", auth.Description)

		reqID := p.Headers[1]
		assert.Equal(t, "x-request-id", reqID.Name)
		assert.Equal(t, TypeString, reqID.Type)
		assert.False(t, reqID.Required)
		assert.Empty(t, reqID.DefaultValue)
	})

	t.Run("query catalog keeps declared types", func(t *testing.T) {
		require.Len(t, p.Query, 2)
		assert.Equal(t, TypeNumber, p.Query[0].Type)
		assert.Equal(t, "20", p.Query[0].DefaultValue)
	})

	t.Run("group expansion keeps reference order", func(t *testing.T) {
		cfg := p.Endpoints["/pets"].Configuration(VerbGet)
		require.NotNil(t, cfg)
		assert.Equal(t, "listPets", cfg.OperationID)
		assert.Equal(t, "List pets", cfg.Description)
		assert.Equal(t, []string{"Owner browses pets"}, cfg.UseCases)
		assert.Equal(t, []string{"auth", "x-request-id"}, cfg.Headers)
		assert.Equal(t, []string{"limit", "species"}, cfg.QueryString)
		assert.Equal(t, []string{"200", "404", "503"}, cfg.StatusCodes)

		assert.Equal(t, []string{"x-my-auth", "x-request-id"}, names(p.ResolveHeaders(cfg)))
		assert.Equal(t, []string{"limit", "species"}, names(p.ResolveQuery(cfg)))
	})

	t.Run("status codes resolve through catalog then table", func(t *testing.T) {
		cfg := p.Endpoints["/pets"].Configuration(VerbGet)
		resolved := p.ResolveStatusCodes(cfg)
		require.Len(t, resolved, 3)
		assert.Equal(t, "Everything went fine", resolved[0].Description)
		assert.Equal(t, "Not Found", resolved[1].Description)
		assert.Equal(t, "Try again later", resolved[2].Description)
		assert.True(t, resolved[2].Retryable)
	})

	t.Run("bare list form", func(t *testing.T) {
		cfg := p.Endpoints["/pets"].Configuration(VerbPost)
		require.NotNil(t, cfg)
		assert.Equal(t, []string{"201", "400"}, cfg.StatusCodes)
		assert.Equal(t, []string{"Created", "Bad Request"}, []string{
			p.ResolveStatusCodes(cfg)[0].Description,
			p.ResolveStatusCodes(cfg)[1].Description,
		})
	})

	t.Run("media types", func(t *testing.T) {
		cfg := p.Endpoints["/pets/{id}"].Configuration(VerbGet)
		assert.Equal(t, []string{"json", "xml"}, cfg.Produces)
		assert.Equal(t, []string{"application/json", "application/xml"}, p.ResolveProduces(cfg))
		post := p.Endpoints["/pets"].Configuration(VerbPost)
		assert.Equal(t, []string{"application/json"}, p.ResolveConsumes(post))
	})

	t.Run("path params", func(t *testing.T) {
		cfg := p.Endpoints["/pets/{id}"].Configuration(VerbDelete)
		require.NotNil(t, cfg)
		params := p.ResolvePathParams(cfg)
		require.Len(t, params, 1)
		assert.Equal(t, TypeNumber, params[0].Type)
		assert.Empty(t, cfg.OperationID)
		assert.Empty(t, cfg.Description)
	})

	t.Run("examples", func(t *testing.T) {
		cfg := p.Endpoints["/pets/{id}"].Configuration(VerbGet)
		got := p.ResolveExamples(cfg)
		require.Len(t, got, 1)
		assert.Nil(t, got[0].Request)
		assert.NotNil(t, got[0].Response)

		none := p.Endpoints["/pets/{id}"].Configuration(VerbDelete)
		assert.Nil(t, p.ResolveExamples(none))
	})

	t.Run("models", func(t *testing.T) {
		cfg := p.Endpoints["/pets"].Configuration(VerbPost)
		req, ok := p.ResolveRequestModel(cfg)
		require.True(t, ok)
		assert.Equal(t, ModelRef{Name: "Pet", Kind: models.KindEntity}, req)

		_, ok = p.ResolveRequestModel(p.Endpoints["/pets"].Configuration(VerbGet))
		assert.False(t, ok, "no request model declared")

		pet, ok := p.Models.Entity("Pet")
		require.True(t, ok)
		assert.Equal(t, []string{"cat", "dog", "guinea pig"}, pet.Fields["species"].AllowedValues)
	})

	t.Run("verbs in output order", func(t *testing.T) {
		assert.Equal(t, []Verb{VerbGet, VerbPost}, p.Endpoints["/pets"].Verbs())
		assert.Equal(t, []Verb{VerbGet, VerbDelete}, p.Endpoints["/pets/{id}"].Verbs())
	})

	assert.Equal(t, filepath.Join(petstoreDir, "api.apish"), result.SourcePath)
}

func TestAliasEquivalence(t *testing.T) {
	result := mustBuild(t, `headers:
 x-auth string alias auth required: "token"
apis:
  /a:
    get:
      headers: [auth]
    post:
      headers: [x-auth]
`)
	p := result.Project
	viaAlias := p.ResolveHeaders(p.Endpoints["/a"].Configuration(VerbGet))
	viaName := p.ResolveHeaders(p.Endpoints["/a"].Configuration(VerbPost))

	require.Len(t, viaAlias, 1)
	assert.Equal(t, viaAlias, viaName)
	assert.Equal(t, "x-auth", viaAlias[0].Name)
	assert.Equal(t, "auth", viaAlias[0].Alias)
	assert.True(t, viaAlias[0].Required)
	assert.Empty(t, result.Issues)
}

func TestForwardGroupReference(t *testing.T) {
	result := mustBuild(t, `headers:
  x-auth: "token"
apis:
  /a:
    get:
      headers: [$common]
headers_groups:
  common: [x-auth]
`)
	cfg := result.Project.Endpoints["/a"].Configuration(VerbGet)
	require.NotNil(t, cfg)
	assert.Empty(t, cfg.Headers)
	assert.Empty(t, result.Project.ResolveHeaders(cfg))

	// the group itself is still declared
	require.Len(t, result.Project.HeadersGroups, 1)
	assert.Equal(t, []string{"x-auth"}, result.Project.HeadersGroups[0].Members)

	require.Len(t, result.Issues, 1)
	issue := result.Issues[0]
	assert.Equal(t, severity.SeverityWarning, issue.Severity)
	assert.Equal(t, "apis./a.get.headers", issue.Path)
	assert.Equal(t, 6, issue.Line)

	var refErr *dslerrors.ReferenceError
	require.True(t, errors.As(issue.Unwrap(), &refErr))
	assert.Equal(t, "group", refErr.Kind)
	assert.Equal(t, "common", refErr.Name)
	assert.Equal(t, "headers_groups", refErr.Section)
	assert.ErrorIs(t, issue.Cause, dslerrors.ErrReference)
}

func TestStatusCodeResolution(t *testing.T) {
	p := mustBuild(t, `status_codes:
  404: "Gone fishing"
  404: "Shadowed"
status_codes:
  500: "Boom" retryable
`).Project

	tests := []struct {
		code      string
		want      string
		retryable bool
		found     bool
	}{
		{"404", "Gone fishing", false, true},
		{" 404 ", "Gone fishing", false, true},
		{"500", "Boom", true, true},
		{"200", "Ok", false, true},
		{"599", "", false, false},
		{"abc", "", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			def, ok := p.ResolveStatusCode(tt.code)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, def.Description)
			assert.Equal(t, tt.retryable, def.Retryable)
		})
	}

	t.Run("catalog sections append", func(t *testing.T) {
		assert.Equal(t, []string{"404", "404", "500"}, codes(p.StatusCodes))
	})

	t.Run("table only", func(t *testing.T) {
		bare := mustBuild(t, "").Project
		def, ok := bare.ResolveStatusCode("404")
		require.True(t, ok)
		assert.Equal(t, StatusCodeDefinition{Code: "404", Description: "Not Found"}, def)
		_, ok = bare.ResolveStatusCode("599")
		assert.False(t, ok)
	})
}

func TestStatusCodeGroups(t *testing.T) {
	result := mustBuild(t, `status_codes_groups:
  errors: [400, 404]
  ok: [200]
apis:
  /a:
    get:
      status_codes: [$ok, 201, $errors, 599]
`)
	p := result.Project
	cfg := p.Endpoints["/a"].Configuration(VerbGet)
	assert.Equal(t, []string{"200", "201", "400", "404", "599"}, cfg.StatusCodes)
	assert.Equal(t, []string{"200", "201", "400", "404"}, codes(p.ResolveStatusCodes(cfg)))

	require.Len(t, result.Issues, 1)
	assert.Contains(t, result.Issues[0].Message, `"599"`)
	assert.Equal(t, "apis./a.get.status_codes", result.Issues[0].Path)
}

func TestGroupExpansion(t *testing.T) {
	result := mustBuild(t, `query:
  a: "A"
  b: "B"
  c: "C"
query_groups:
  first: [a, b]
  last: [c]
apis:
  /q:
    get:
      query: [$last, a, $first]
      tags: [$first]
`)
	p := result.Project
	cfg := p.Endpoints["/q"].Configuration(VerbGet)
	assert.Equal(t, []string{"c", "a", "a", "b"}, cfg.QueryString)
	assert.Equal(t, []string{"c", "a", "a", "b"}, names(p.ResolveQuery(cfg)))

	// tags have no group catalog
	assert.Empty(t, cfg.Tags)
	require.Len(t, result.Issues, 1)
	assert.Contains(t, result.Issues[0].Message, "option has no group catalog")
}

func TestUnresolvedReferencesAreOmitted(t *testing.T) {
	result := mustBuild(t, `headers:
  x-known: "known"
apis:
  /a/{id}:
    get:
      headers: [x-unknown, x-known]
      params: [id]
      query: [missing]
      example: nowhere
      response_model: Ghost
`)
	p := result.Project
	cfg := p.Endpoints["/a/{id}"].Configuration(VerbGet)

	assert.Equal(t, []string{"x-known"}, names(p.ResolveHeaders(cfg)))
	assert.Empty(t, p.ResolvePathParams(cfg))
	assert.Empty(t, p.ResolveQuery(cfg))
	assert.Nil(t, p.ResolveExamples(cfg))
	_, ok := p.ResolveResponseModel(cfg)
	assert.False(t, ok)

	var paths []string
	for _, issue := range result.Issues {
		paths = append(paths, issue.Path)
		assert.Equal(t, severity.SeverityWarning, issue.Severity)
	}
	assert.Equal(t, []string{
		"apis./a/{id}.get.params",
		"apis./a/{id}.get.query",
		"apis./a/{id}.get.headers",
		"apis./a/{id}.get.example",
		"apis./a/{id}.get.response_model",
	}, paths)
	assert.True(t, result.HasWarnings())
	assert.Equal(t, 5, issues.Count(result.Issues, severity.SeverityWarning))
}

func TestRedeclaration(t *testing.T) {
	t.Run("catalog section replaces", func(t *testing.T) {
		p := mustBuild(t, `headers:
  a: "A"
  b: "B"
headers:
  c: "C"
`).Project
		assert.Equal(t, []string{"c"}, names(p.Headers))
	})

	t.Run("group section replaces", func(t *testing.T) {
		p := mustBuild(t, `params_groups:
  one: [a]
params_groups:
  two: [b]
`).Project
		require.Len(t, p.ParamsGroups, 1)
		assert.Equal(t, "two", p.ParamsGroups[0].ID)
	})

	t.Run("later title wins", func(t *testing.T) {
		p := mustBuild(t, "title: first\ntitle: \"second\"\n").Project
		assert.Equal(t, "second", p.Title)
	})

	t.Run("repeated path replaces the endpoint", func(t *testing.T) {
		p := mustBuild(t, `apis:
  /a:
    get: "old"
    post: "old"
apis:
  /a:
    put: "new"
`).Project
		assert.Equal(t, []Verb{VerbPut}, p.Endpoints["/a"].Verbs())
	})

	t.Run("repeated verb keeps the last block", func(t *testing.T) {
		p := mustBuild(t, `apis:
  /a:
    get: "first"
      tags: [one]
    GET: "second"
`).Project
		cfg := p.Endpoints["/a"].Configuration(VerbGet)
		assert.Equal(t, "second", cfg.Description)
		assert.Empty(t, cfg.Tags)
	})

	t.Run("repeated list options append", func(t *testing.T) {
		p := mustBuild(t, `apis:
  /a:
    get:
      tags: [one]
      tags: two, "three"
      produces: [json]
      produces: [custom/type]
`).Project
		cfg := p.Endpoints["/a"].Configuration(VerbGet)
		assert.Equal(t, []string{"one", "two", "three"}, cfg.Tags)
		assert.Equal(t, []string{"application/json", "custom/type"}, p.ResolveProduces(cfg))
	})

	t.Run("empty operation keeps the previous id", func(t *testing.T) {
		p := mustBuild(t, `apis:
  /a:
    get:
      operation: first
      operation:
`).Project
		assert.Equal(t, "first", p.Endpoints["/a"].Configuration(VerbGet).OperationID)
	})
}

func TestQuotedEscapes(t *testing.T) {
	doc := "title: \"The \\\"Pet\\\" Store\"\n" +
		"headers:\n  x-auth: \"Token, e.g. \\\"abc\\\"\"\n"
	p, err := Build([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, `The "Pet" Store`, p.Title)
	def, ok := p.ResolveArgument(SectionHeaders, "x-auth")
	require.True(t, ok)
	assert.Equal(t, `Token, e.g. "abc"`, def.Description)
}

func TestListSyntax(t *testing.T) {
	p := mustBuild(t, `apis:
  /a:
    get:
      tags: [
        one,
        "two words",
        three,
      ]
      use_cases: []
`).Project
	cfg := p.Endpoints["/a"].Configuration(VerbGet)
	assert.Equal(t, []string{"one", "two words", "three"}, cfg.Tags)
	assert.Empty(t, cfg.UseCases)
	assert.NotNil(t, cfg.UseCases)
}

func TestCommentsAndBlankLines(t *testing.T) {
	p := mustBuild(t, `# leading comment
title: Demo # trailing

apis:
  # a comment between endpoints

  /a:

    get: "x" # after a verb

      tags: [t]
`).Project
	assert.Equal(t, "Demo", p.Title)
	assert.Equal(t, []string{"t"}, p.Endpoints["/a"].Configuration(VerbGet).Tags)
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		line int
		rule string
		want string
	}{
		{"argument without description", "headers:\n  x-auth string\n", 2, "argument", `":"`},
		{"unknown verb", "apis:\n  /a:\n    fetch:\n", 3, "", ""},
		{"unknown top-level keyword", "title: x\nbogus: y\n", 2, "", ""},
		{"unterminated list", "apis:\n  /a:\n    get:\n      tags: [a, b", 4, "", ""},
		{"bad status code", "status_codes:\n  20: \"short\"\n", 2, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := BuildWithOptions(WithAPIBytes([]byte(tt.doc)), WithSourceName("api.apish"))
			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, dslerrors.ErrSyntax)

			var syntaxErr *dslerrors.SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, "api.apish", syntaxErr.Source)
			assert.Equal(t, tt.line, syntaxErr.Line)
			if tt.rule != "" {
				assert.Equal(t, tt.rule, syntaxErr.Rule)
			}
			if tt.want != "" {
				assert.Contains(t, syntaxErr.Expected, tt.want)
			}
		})
	}

	t.Run("Build returns no project", func(t *testing.T) {
		p, err := Build([]byte("apis\n"))
		require.Error(t, err)
		assert.Nil(t, p)
	})
}

func TestBuildInputs(t *testing.T) {
	api := []byte("apis:\n  /a:\n    get:\n      example: ping\n      request_model: Ping\n")

	t.Run("missing api source", func(t *testing.T) {
		_, err := BuildWithOptions()
		require.Error(t, err)
		assert.ErrorIs(t, err, dslerrors.ErrConfig)
	})

	t.Run("two api sources", func(t *testing.T) {
		_, err := BuildWithOptions(WithAPIBytes(api), WithAPIFile("api.apish"))
		var cfgErr *dslerrors.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, 2, cfgErr.Value)
	})

	t.Run("missing api file", func(t *testing.T) {
		_, err := BuildWithOptions(WithAPIFile(filepath.Join(t.TempDir(), "nope.apish")))
		require.Error(t, err)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("api from reader", func(t *testing.T) {
		result, err := BuildWithOptions(WithAPIReader(strings.NewReader(string(api))))
		require.NoError(t, err)
		assert.Contains(t, result.Project.Endpoints, "/a")
	})

	t.Run("document too large", func(t *testing.T) {
		_, err := BuildWithOptions(WithAPIBytes(api), WithMaxDocumentSize(4))
		assert.ErrorIs(t, err, dslerrors.ErrResourceLimit)
	})

	t.Run("invalid limits", func(t *testing.T) {
		_, err := BuildWithOptions(WithAPIBytes(api), WithMaxDocumentSize(-1))
		assert.ErrorIs(t, err, dslerrors.ErrConfig)
		_, err = BuildWithOptions(WithAPIBytes(api), WithMaxDepth(0))
		assert.ErrorIs(t, err, dslerrors.ErrConfig)
	})

	t.Run("missing model file is an empty model", func(t *testing.T) {
		result, err := BuildWithOptions(
			WithAPIBytes(api),
			WithModelFile(filepath.Join(t.TempDir(), "models.apish")),
		)
		require.NoError(t, err)
		assert.True(t, result.Project.Models.IsEmpty())
		_, ok := result.Project.ResolveRequestModel(result.Project.Endpoints["/a"].Configuration(VerbGet))
		assert.False(t, ok)
	})

	t.Run("model syntax error fails the build", func(t *testing.T) {
		_, err := BuildWithOptions(WithAPIBytes(api), WithModelBytes([]byte("type Ping {\n  x string \"y\"\n}\n")))
		assert.ErrorIs(t, err, dslerrors.ErrSyntax)
	})

	t.Run("model bytes link request model", func(t *testing.T) {
		result, err := BuildWithOptions(WithAPIBytes(api), WithModelBytes([]byte("enum Ping { a b }\n")))
		require.NoError(t, err)
		ref, ok := result.Project.ResolveRequestModel(result.Project.Endpoints["/a"].Configuration(VerbGet))
		require.True(t, ok)
		assert.Equal(t, models.KindEnum, ref.Kind)
	})

	t.Run("nil models rejected", func(t *testing.T) {
		_, err := BuildWithOptions(WithAPIBytes(api), WithModels(nil))
		assert.ErrorIs(t, err, dslerrors.ErrConfig)
	})

	t.Run("two model sources", func(t *testing.T) {
		_, err := BuildWithOptions(WithAPIBytes(api), WithModelBytes(nil), WithModels(models.NewProjectModel()))
		assert.ErrorIs(t, err, dslerrors.ErrConfig)
	})

	t.Run("malformed examples are an empty bag", func(t *testing.T) {
		result, err := BuildWithOptions(
			WithAPIBytes(api),
			WithExamplesBytes([]byte("{not json"), examples.FormatJSON),
		)
		require.NoError(t, err)
		assert.Empty(t, result.Project.Examples)

		require.NotEmpty(t, result.Issues)
		first := result.Issues[0]
		assert.Equal(t, severity.SeverityError, first.Severity)
		assert.Equal(t, "examples", first.Path)
		assert.Contains(t, first.Message, "examples document ignored")
	})

	t.Run("missing examples file is an empty bag", func(t *testing.T) {
		result, err := BuildWithOptions(
			WithAPIBytes(api),
			WithExamplesFile(filepath.Join(t.TempDir(), "examples.yaml")),
		)
		require.NoError(t, err)
		assert.Empty(t, result.Project.Examples)
		assert.Equal(t, 0, issues.Count(result.Issues, severity.SeverityError))
	})

	t.Run("examples value", func(t *testing.T) {
		bag := examples.Bag{"ping": {{Response: "pong"}}}
		result, err := BuildWithOptions(WithAPIBytes(api), WithExamples(bag))
		require.NoError(t, err)
		got := result.Project.ResolveExamples(result.Project.Endpoints["/a"].Configuration(VerbGet))
		require.Len(t, got, 1)
		assert.Equal(t, "pong", got[0].Response)
	})

	t.Run("yaml examples bytes", func(t *testing.T) {
		result, err := BuildWithOptions(
			WithAPIBytes(api),
			WithExamplesBytes([]byte("ping:\n  response: pong\n"), examples.FormatYAML),
		)
		require.NoError(t, err)
		assert.True(t, result.Project.Examples.Has("ping"))
	})
}

func TestEmptyDocument(t *testing.T) {
	for _, doc := range []string{"", "\n\n", "# only a comment\n"} {
		p, err := Build([]byte(doc))
		require.NoError(t, err)
		assert.Empty(t, p.Title)
		assert.Empty(t, p.Endpoints)
		assert.NotNil(t, p.Headers)
		assert.NotNil(t, p.Examples)
	}
}

func TestBuilderDirect(t *testing.T) {
	b := NewBuilder(nil)
	b.Arguments(SectionHeaders, []ArgumentDefinition{{Name: "x-a", Alias: "a"}})
	b.Groups(SectionHeaders, []ArgumentGroup{{ID: "g", Members: []string{"a"}}})

	members, ok := b.ExpandGroup(SectionHeaders, "g")
	require.True(t, ok)
	members[0] = "mutated"
	again, _ := b.ExpandGroup(SectionHeaders, "g")
	assert.Equal(t, []string{"a"}, again, "expansion must be a copy")

	_, ok = b.ExpandGroup(SectionQuery, "g")
	assert.False(t, ok)

	b.Arguments(SectionHeaders, nil)
	b.Endpoint("/x", VerbGet, newEndpointConfiguration())
	p := b.Project()
	assert.NotNil(t, p.Headers)
	assert.Empty(t, p.Headers)
	assert.Equal(t, []string{"/x"}, p.Paths())
	assert.Empty(t, b.Issues())
}

func TestOptionKinds(t *testing.T) {
	grammarRules := make(map[string]bool)
	for _, name := range newGrammar().Rules() {
		grammarRules[name] = true
	}

	seen := make(map[string]bool)
	for _, k := range optionKinds() {
		t.Run(k.String(), func(t *testing.T) {
			assert.NotEqual(t, "unknown", k.Keyword())
			assert.False(t, seen[k.Keyword()], "duplicate keyword")
			seen[k.Keyword()] = true
			assert.True(t, grammarRules[k.rule()], "missing grammar rule %s", k.rule())

			_, grouped := k.GroupSection()
			if grouped {
				assert.True(t, k.IsList())
			}
		})
	}
	assert.Equal(t, "unknown", numOptionKinds.Keyword())
	assert.Equal(t, "unknown", OptionKind(-1).String())
}

func TestParseHelpers(t *testing.T) {
	t.Run("verbs", func(t *testing.T) {
		v, ok := ParseVerb(" PATCH ")
		assert.True(t, ok)
		assert.Equal(t, VerbPatch, v)
		_, ok = ParseVerb("head")
		assert.False(t, ok)
	})

	t.Run("argument types", func(t *testing.T) {
		tests := map[string]ArgumentType{
			"":       TypeString,
			"string": TypeString,
			"number": TypeNumber,
			"bool":   TypeBoolean,
			"uuid":   TypeUnknown,
		}
		for token, want := range tests {
			assert.Equal(t, want, ParseArgumentType(token), token)
		}
		text, err := TypeBoolean.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, "boolean", string(text))
	})

	t.Run("matches", func(t *testing.T) {
		def := ArgumentDefinition{Name: "x-a", Alias: "a"}
		assert.True(t, def.Matches(" a "))
		assert.True(t, def.Matches("x-a"))
		assert.False(t, def.Matches("A"))
		assert.False(t, ArgumentDefinition{Name: "x"}.Matches(""))
	})

	t.Run("sections", func(t *testing.T) {
		assert.Equal(t, "status_codes_groups", SectionStatusCodes.GroupsKeyword())
		assert.Nil(t, (&Project{}).Catalog(SectionStatusCodes))
		assert.Equal(t, "section(9)", Section(9).String())
	})
}
