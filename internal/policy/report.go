package policy

// IdentityResult is the outcome of applying a policy to one identity.
type IdentityResult struct {
	Name    string
	Err     error
	Skipped bool
}

// TemplateResult is the outcome of processing one template.
type TemplateResult struct {
	Template   string
	PolicyName string
	PolicyARN  string
	Saved      []string
	Err        error
	Identities []IdentityResult
}

func (r TemplateResult) OK() bool {
	if r.Err != nil {
		return false
	}
	for _, id := range r.Identities {
		if id.Err != nil {
			return false
		}
	}
	return true
}

// Report collects per-template results in processing order.
type Report struct {
	Templates []TemplateResult
}

// Failed counts failed templates plus failed identities.
func (r *Report) Failed() int {
	n := 0
	for _, t := range r.Templates {
		if t.Err != nil {
			n++
		}
		for _, id := range t.Identities {
			if id.Err != nil {
				n++
			}
		}
	}
	return n
}
