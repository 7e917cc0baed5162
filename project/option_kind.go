package project

// OptionKind is the closed set of options a verb block accepts. Every kind
// has its own grammar rule; the builder switches over all of them.
type OptionKind int

const (
	OptionOperation OptionKind = iota
	OptionUseCases
	OptionParams
	OptionQuery
	OptionHeaders
	OptionTags
	OptionProduces
	OptionConsumes
	OptionStatusCodes
	OptionExample
	OptionRequestModel
	OptionResponseModel

	numOptionKinds
)

var optionKeywords = [numOptionKinds]string{
	OptionOperation:     "operation",
	OptionUseCases:      "use_cases",
	OptionParams:        "params",
	OptionQuery:         "query",
	OptionHeaders:       "headers",
	OptionTags:          "tags",
	OptionProduces:      "produces",
	OptionConsumes:      "consumes",
	OptionStatusCodes:   "status_codes",
	OptionExample:       "example",
	OptionRequestModel:  "request_model",
	OptionResponseModel: "response_model",
}

// Keyword returns the option keyword as written in documents.
func (k OptionKind) Keyword() string {
	if k < 0 || k >= numOptionKinds {
		return "unknown"
	}
	return optionKeywords[k]
}

// String implements fmt.Stringer.
func (k OptionKind) String() string { return k.Keyword() }

// rule returns the grammar rule that matches the option.
func (k OptionKind) rule() string { return k.Keyword() + "_option" }

// GroupSection returns the group catalog that $references in the option's
// list resolve against. Options without a group catalog return false.
func (k OptionKind) GroupSection() (Section, bool) {
	switch k {
	case OptionParams:
		return SectionParams, true
	case OptionQuery:
		return SectionQuery, true
	case OptionHeaders:
		return SectionHeaders, true
	case OptionStatusCodes:
		return SectionStatusCodes, true
	default:
		return 0, false
	}
}

// IsList reports whether the option takes a list of items.
func (k OptionKind) IsList() bool {
	switch k {
	case OptionOperation, OptionExample, OptionRequestModel, OptionResponseModel:
		return false
	default:
		return true
	}
}

// optionKinds lists every kind in declaration order.
func optionKinds() []OptionKind {
	kinds := make([]OptionKind, numOptionKinds)
	for i := range kinds {
		kinds[i] = OptionKind(i)
	}
	return kinds
}

// optionKindByRule maps grammar rule names back to kinds.
func optionKindByRule() map[string]OptionKind {
	m := make(map[string]OptionKind, numOptionKinds)
	for _, k := range optionKinds() {
		m[k.rule()] = k
	}
	return m
}
