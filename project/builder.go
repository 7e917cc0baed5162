package project

import (
	"github.com/erraggy/apish/dslerrors"
	"github.com/erraggy/apish/internal/issues"
	"github.com/erraggy/apish/internal/severity"
	"github.com/erraggy/apish/logger"
)

// Builder accumulates a Project one document section at a time. Its
// methods must be called in document order: ExpandGroup only sees groups
// passed to Groups before it.
type Builder struct {
	project *Project
	log     logger.Logger
	source  string
	issues  []issues.Issue
}

// NewBuilder returns a Builder for an empty project.
func NewBuilder(log logger.Logger) *Builder {
	return &Builder{project: newProject(), log: logger.OrNop(log)}
}

// Title sets the project title. A later call wins.
func (b *Builder) Title(title string) {
	b.project.Title = title
}

// Version sets the project version. A later call wins.
func (b *Builder) Version(version string) {
	b.project.Version = version
}

// Arguments replaces the argument catalog of section.
func (b *Builder) Arguments(section Section, defs []ArgumentDefinition) {
	if defs == nil {
		defs = []ArgumentDefinition{}
	}
	switch section {
	case SectionHeaders:
		b.project.Headers = defs
	case SectionParams:
		b.project.Params = defs
	case SectionQuery:
		b.project.Query = defs
	case SectionStatusCodes:
		b.log.Warn("status codes have no argument catalog", "count", len(defs))
	}
}

// StatusCodes appends to the status code catalog.
func (b *Builder) StatusCodes(defs []StatusCodeDefinition) {
	b.project.StatusCodes = append(b.project.StatusCodes, defs...)
}

// Groups replaces the group catalog of section.
func (b *Builder) Groups(section Section, groups []ArgumentGroup) {
	if groups == nil {
		groups = []ArgumentGroup{}
	}
	switch section {
	case SectionHeaders:
		b.project.HeadersGroups = groups
	case SectionParams:
		b.project.ParamsGroups = groups
	case SectionQuery:
		b.project.QueryGroups = groups
	case SectionStatusCodes:
		b.project.StatusCodesGroups = groups
	}
}

// ExpandGroup returns the members of group id in section's group catalog
// as it stands now. A group that has not been declared yet expands to
// nothing.
func (b *Builder) ExpandGroup(section Section, id string) ([]string, bool) {
	for _, grp := range b.project.Groups(section) {
		if grp.ID == id {
			return append([]string(nil), grp.Members...), true
		}
	}
	return nil, false
}

// Endpoint stores the configuration of verb on path. A later configuration
// for the same path and verb replaces the earlier one.
func (b *Builder) Endpoint(path string, verb Verb, cfg *EndpointConfiguration) {
	ep, ok := b.project.Endpoints[path]
	if !ok {
		ep = &Endpoint{Path: path, Configurations: make(map[Verb]*EndpointConfiguration)}
		b.project.Endpoints[path] = ep
	}
	ep.Configurations[verb] = cfg
}

// ReplaceEndpoint drops everything stored for path so a redeclared path
// starts empty.
func (b *Builder) ReplaceEndpoint(path string) {
	delete(b.project.Endpoints, path)
}

// Issues returns the diagnostics recorded so far.
func (b *Builder) Issues() []issues.Issue {
	return b.issues
}

// Project returns the accumulated project. The Builder must not be used
// afterwards.
func (b *Builder) Project() *Project {
	p := b.project
	b.project = nil
	return p
}

func (b *Builder) warn(path string, line, column int, cause *dslerrors.ReferenceError) {
	b.log.Debug("dropped reference", "kind", cause.Kind, "name", cause.Name, "at", path, "line", line)
	b.issues = append(b.issues, issues.Issue{
		Path:     path,
		Message:  cause.Error(),
		Severity: severity.SeverityWarning,
		Line:     line,
		Column:   column,
		File:     b.source,
		Cause:    cause,
	})
}
