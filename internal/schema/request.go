package schema

import "sort"

// Part names used in FieldError.In.
const (
	InParams = "params"
	InQuery  = "query"
	InBody   = "body"
)

// Part is the schema of one request part: its fields plus container-level constraints.
type Part struct {
	Fields       map[string]Field
	MaxKeys      int
	MinKeys      int
	AllowUnknown bool
}

// Object declares a closed Part with the given fields.
func Object(fields map[string]Field) *Part {
	return &Part{Fields: fields}
}

// Max caps the number of keys the client may send.
func (p *Part) Max(n int) *Part { p.MaxKeys = n; return p }

// Min requires at least n keys.
func (p *Part) Min(n int) *Part { p.MinKeys = n; return p }

// Unknown lets keys that are not declared pass through untouched.
func (p *Part) Unknown() *Part { p.AllowUnknown = true; return p }

// Request maps request parts to their schemas. A nil part accepts no keys at all.
type Request struct {
	Params *Part
	Query  *Part
	Body   *Part
}

// Input is a decoded request: each part is a flat map of field name to value.
type Input struct {
	Params map[string]any
	Query  map[string]any
	Body   map[string]any
}

// Validate checks in against r. It returns freshly allocated normalized maps, or an
// *Error listing every violation in every part. The input is never modified.
func (r Request) Validate(in Input) (Input, error) {
	var (
		out    Input
		issues []FieldError
	)
	out.Params, issues = validatePart(InParams, r.Params, in.Params, issues)
	out.Query, issues = validatePart(InQuery, r.Query, in.Query, issues)
	out.Body, issues = validatePart(InBody, r.Body, in.Body, issues)
	if len(issues) > 0 {
		return Input{}, &Error{Code: CodeValidation, Fields: issues}
	}
	return out, nil
}

// Validate checks a single part, for callers that only deal with one map.
func (p *Part) Validate(in string, raw map[string]any) (map[string]any, error) {
	out, issues := validatePart(in, p, raw, nil)
	if len(issues) > 0 {
		return nil, &Error{Code: CodeValidation, Fields: issues}
	}
	return out, nil
}

func validatePart(in string, p *Part, raw map[string]any, issues []FieldError) (map[string]any, []FieldError) {
	out := map[string]any{}
	if p == nil {
		for _, k := range sortedKeys(raw) {
			issues = append(issues, FieldError{In: in, Name: k, Reason: ReasonUnknown})
		}
		return out, issues
	}

	if p.MaxKeys > 0 && len(raw) > p.MaxKeys {
		issues = append(issues, FieldError{In: in, Reason: ReasonTooManyKeys})
	}
	if p.MinKeys > 0 && len(raw) < p.MinKeys {
		issues = append(issues, FieldError{In: in, Reason: ReasonTooFewKeys})
	}

	for _, k := range sortedKeys(raw) {
		if _, ok := p.Fields[k]; ok {
			continue
		}
		if p.AllowUnknown {
			out[k] = raw[k]
			continue
		}
		issues = append(issues, FieldError{In: in, Name: k, Reason: ReasonUnknown})
	}

	names := make([]string, 0, len(p.Fields))
	for name := range p.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		f := p.Fields[name]
		v, present := raw[name]
		if !present {
			switch {
			case f.hasDef:
				out[name] = f.def
			case f.optional, f.deny, f.forbidden:
			default:
				issues = append(issues, FieldError{In: in, Name: name, Reason: ReasonRequired})
			}
			continue
		}
		if f.forbidden {
			issues = append(issues, FieldError{In: in, Name: name, Reason: ReasonForbidden})
			continue
		}
		if f.deny {
			issues = append(issues, FieldError{In: in, Name: name, Reason: ReasonDenied})
			continue
		}
		if v == nil {
			if f.nullable {
				out[name] = nil
			} else {
				issues = append(issues, FieldError{In: in, Name: name, Reason: ReasonNull})
			}
			continue
		}

		norm, probs := f.check(v)
		if len(probs) == 0 {
			out[name] = norm
			continue
		}
		for _, pr := range probs {
			n := name
			if pr.sub != "" {
				n += "." + pr.sub
			}
			issues = append(issues, FieldError{In: in, Name: n, Reason: pr.reason})
		}
	}
	return out, issues
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
