package policy

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"tasnim.dev/aws-recipes/internal/aws/iam"
)

// ErrUsage marks option combinations the applier refuses to run.
var ErrUsage = errors.New("invalid usage")

// ExistsPolicy decides what happens when a managed policy of the same name
// already exists.
type ExistsPolicy string

const (
	ExistsFail   ExistsPolicy = "fail"
	ExistsReuse  ExistsPolicy = "reuse"
	ExistsUpdate ExistsPolicy = "update"
)

func ParseExistsPolicy(s string) (ExistsPolicy, error) {
	switch p := ExistsPolicy(strings.ToLower(s)); p {
	case "":
		return ExistsFail, nil
	case ExistsFail, ExistsReuse, ExistsUpdate:
		return p, nil
	}
	return "", fmt.Errorf("%w: on-exists must be one of fail, reuse, update (got %q)", ErrUsage, s)
}

// IAMClient is the subset of the IAM client the applier drives.
type IAMClient interface {
	PutInlinePolicy(ctx context.Context, kind iam.TargetKind, identity, name, document string) error
	AttachPolicy(ctx context.Context, kind iam.TargetKind, identity, policyARN string) error
	CreatePolicy(ctx context.Context, name, document, description string) (iam.ManagedPolicy, error)
	GetPolicy(ctx context.Context, policyARN string) (iam.ManagedPolicy, error)
	CreatePolicyVersion(ctx context.Context, policyARN, document string) (string, error)
}

// Account identifies where policies are applied.
type Account struct {
	ID      string
	Profile string
}

type Options struct {
	Templates []string
	Managed   bool
	Kind      iam.TargetKind
	Targets   []string
	Save      bool
	DryRun    bool
	OnExists  ExistsPolicy
}

func (o Options) Validate() error {
	if len(o.Templates) == 0 {
		return fmt.Errorf("%w: you must specify the path to the template IAM policies", ErrUsage)
	}
	if !o.Managed {
		if !o.Kind.IsIdentity() {
			return fmt.Errorf("%w: you must either create a managed policy or specify the type of IAM entity the policy will be attached to", ErrUsage)
		}
		if len(o.Targets) == 0 {
			return fmt.Errorf("%w: you must provide the name of at least one IAM %s you will attach this inline policy to", ErrUsage, o.Kind)
		}
		return nil
	}
	if len(o.Targets) > 0 && !o.Kind.IsIdentity() {
		return fmt.Errorf("%w: attaching a managed policy requires --type group, role or user", ErrUsage)
	}
	return nil
}

type Applier struct {
	iam      IAMClient
	account  Account
	prompter Prompter
	sinks    []Sink
	log      zerolog.Logger
}

// NewApplier returns an applier for account. A nil prompter disables
// description prompts.
func NewApplier(client IAMClient, account Account, prompter Prompter, log zerolog.Logger, sinks ...Sink) *Applier {
	return &Applier{
		iam:      client,
		account:  account,
		prompter: prompter,
		sinks:    sinks,
		log:      log,
	}
}

// Apply processes every template in order. Per-template and inline
// per-identity failures are recorded in the report and do not stop the
// batch. A managed policy create or attach failure stops the batch and is
// returned together with the report so far.
func (a *Applier) Apply(ctx context.Context, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.OnExists == "" {
		opts.OnExists = ExistsFail
	}

	report := &Report{}
	for _, path := range opts.Templates {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res, err := a.applyTemplate(ctx, path, opts)
		report.Templates = append(report.Templates, res)
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

func (a *Applier) applyTemplate(ctx context.Context, path string, opts Options) (TemplateResult, error) {
	res := TemplateResult{Template: path, PolicyName: PolicyName(path)}

	tmpl, err := LoadTemplate(path)
	if err != nil {
		a.log.Error().Err(err).Str("template", path).Msg("skipping template")
		res.Err = err
		return res, nil
	}
	rendered := tmpl.Render(a.account.ID)
	if err := CheckDocument(rendered.Document); err != nil {
		a.log.Error().Err(err).Str("template", path).Msg("skipping template")
		res.Err = err
		return res, nil
	}

	switch {
	case opts.DryRun:
		for _, target := range opts.Targets {
			res.Identities = append(res.Identities, IdentityResult{Name: target, Skipped: true})
		}
	case !opts.Managed:
		res.Identities = a.putInline(ctx, rendered, opts)
	default:
		desc, err := a.description(path, rendered.Name)
		if err != nil {
			a.log.Error().Err(err).Str("template", path).Msg("skipping template")
			res.Err = err
			return res, nil
		}
		rendered.Description = desc
		arn, err := a.createManaged(ctx, rendered, opts)
		res.PolicyARN = arn
		if err != nil {
			res.Err = err
			return res, err
		}
		// Attach failures are recorded on the identity only.
		ids, err := a.attachManaged(ctx, rendered, arn, opts)
		res.Identities = ids
		if err != nil {
			return res, err
		}
	}

	if opts.Save {
		for _, sink := range a.sinks {
			loc, err := sink.Save(ctx, rendered, a.account.Profile)
			if err != nil {
				a.log.Error().Err(err).Str("policy", rendered.Name).Msg("saving policy")
				res.Err = errors.Join(res.Err, err)
				continue
			}
			a.log.Info().Str("policy", rendered.Name).Str("location", loc).Msg("saved policy")
			res.Saved = append(res.Saved, loc)
		}
	}
	return res, nil
}

func (a *Applier) putInline(ctx context.Context, r Rendered, opts Options) []IdentityResult {
	results := make([]IdentityResult, 0, len(opts.Targets))
	for _, target := range opts.Targets {
		a.log.Info().
			Str("policy", r.Name).
			Str(opts.Kind.String(), target).
			Msgf("creating policy %q for the %q IAM %s", r.Name, target, opts.Kind)
		err := a.iam.PutInlinePolicy(ctx, opts.Kind, target, r.Name, r.Document)
		if err != nil {
			a.log.Error().Err(err).Str(opts.Kind.String(), target).Msg("creating inline policy")
		}
		results = append(results, IdentityResult{Name: target, Err: err})
	}
	return results
}

func (a *Applier) createManaged(ctx context.Context, r Rendered, opts Options) (string, error) {
	a.log.Info().Str("policy", r.Name).Msgf("creating policy %q", r.Name)
	p, err := a.iam.CreatePolicy(ctx, r.Name, r.Document, r.Description)
	arn := p.ARN
	if err != nil {
		if opts.OnExists == ExistsFail || !iam.IsAlreadyExists(err) {
			return "", err
		}
		arn, err = a.existing(ctx, r, opts.OnExists)
		if err != nil {
			return arn, err
		}
	}
	if arn == "" {
		arn = iam.PolicyARN(a.account.ID, r.Name)
	}
	return arn, nil
}

// attachManaged attaches arn to each target, stopping at the first failure.
func (a *Applier) attachManaged(ctx context.Context, r Rendered, arn string, opts Options) ([]IdentityResult, error) {
	results := make([]IdentityResult, 0, len(opts.Targets))
	for _, target := range opts.Targets {
		a.log.Info().
			Str("policy", r.Name).
			Str(opts.Kind.String(), target).
			Msgf("attaching policy to the %q IAM %s", target, opts.Kind)
		if err := a.iam.AttachPolicy(ctx, opts.Kind, target, arn); err != nil {
			a.log.Error().Err(err).Str(opts.Kind.String(), target).Msg("attaching policy")
			results = append(results, IdentityResult{Name: target, Err: err})
			return results, err
		}
		results = append(results, IdentityResult{Name: target})
	}
	return results, nil
}

// existing resolves an already-created managed policy according to policy.
func (a *Applier) existing(ctx context.Context, r Rendered, policy ExistsPolicy) (string, error) {
	arn := iam.PolicyARN(a.account.ID, r.Name)
	p, err := a.iam.GetPolicy(ctx, arn)
	if err != nil {
		return "", err
	}
	if p.ARN != "" {
		arn = p.ARN
	}
	a.log.Warn().Str("policy", r.Name).Str("arn", arn).Msg("policy already exists")

	if policy == ExistsUpdate {
		version, err := a.iam.CreatePolicyVersion(ctx, arn, r.Document)
		if err != nil {
			return arn, err
		}
		a.log.Info().Str("policy", r.Name).Str("version", version).Msg("published new default version")
	}
	return arn, nil
}

func (a *Applier) description(templatePath, name string) (string, error) {
	data, err := os.ReadFile(DescriptionPath(templatePath))
	if err == nil {
		return strings.TrimSpace(string(data)), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("reading description: %w", err)
	}
	if a.prompter == nil {
		return "", nil
	}
	ok, err := a.prompter.YesNo(fmt.Sprintf("Do you want to add a description to the '%s' policy", name))
	if err != nil || !ok {
		return "", err
	}
	v, err := a.prompter.Value("Enter the policy description:")
	return strings.TrimSpace(v), err
}
