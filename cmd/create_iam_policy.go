package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	awsclient "tasnim.dev/aws-recipes/internal/aws"
	"tasnim.dev/aws-recipes/internal/aws/iam"
	"tasnim.dev/aws-recipes/internal/aws/s3"
	"tasnim.dev/aws-recipes/internal/config"
	"tasnim.dev/aws-recipes/internal/console"
	"tasnim.dev/aws-recipes/internal/policy"
)

// session is what a recipe needs from an authenticated AWS connection.
type session struct {
	IAM       policy.IAMClient
	S3        policy.ObjectPutter
	AccountID string
}

type connectFunc func(ctx context.Context, profile, region string) (*session, error)

func connect(ctx context.Context, profile, region string) (*session, error) {
	cfg, err := awsclient.LoadConfig(ctx, profile, region)
	if err != nil {
		return nil, aborted(err)
	}
	if err := awsclient.CheckCredentials(ctx, cfg); err != nil {
		return nil, aborted(fmt.Errorf("reading credentials for profile %q: %w", config.ProfileName(profile), err))
	}
	client, err := awsclient.NewServiceClient(ctx, cfg)
	if err != nil {
		return nil, aborted(err)
	}
	return &session{IAM: client.IAM, S3: client.S3, AccountID: client.AccountID}, nil
}

func NewCreateIAMPolicyCmd() *cobra.Command {
	return newCreateIAMPolicyCmd(connect)
}

func newCreateIAMPolicyCmd(connect connectFunc) *cobra.Command {
	var (
		profile   string
		region    string
		kind      string
		onExists  string
		saveDir   string
		s3URI     string
		managed   bool
		save      bool
		dryRun    bool
		debug     bool
		targets   []string
		templates []string
	)

	cmd := &cobra.Command{
		Use:   "create-iam-policy [templates...]",
		Short: "Create or attach IAM policies from JSON templates",
		Long: `Create IAM policies from local JSON templates.

Every occurrence of ` + policy.AccountIDPlaceholder + ` in a template is replaced with the
account id of the selected profile. The policy is named after the template file
up to its first dot.

Without --managed the document is put as an inline policy on each --targets
identity of the given --type. With --managed a managed policy is created once,
with its description read from descriptions/<name>.txt next to the template or
prompted for, and attached to any --targets.`,
		Example: `  aws-recipes create-iam-policy --managed policies/admin.json --save
  aws-recipes create-iam-policy --type role --targets deployer,ci policies/deploy.json
  aws-recipes create-iam-policy --managed --type user --targets alice --on-exists reuse policies/readonly.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := console.NewLogger(cmd.ErrOrStderr(), debug)

			cfg, err := config.Load()
			if err != nil {
				return aborted(fmt.Errorf("loading config: %w", err))
			}
			profile, region = cfg.Merge(profile, region)
			if onExists == "" {
				onExists = cfg.OnExists
			}
			if saveDir == "" {
				saveDir = cfg.SaveDir
			}

			targetKind, err := iam.ParseTargetKind(kind)
			if err != nil {
				return aborted(fmt.Errorf("%w: --type must be one of %s", policy.ErrUsage, kindList()))
			}
			exists, err := policy.ParseExistsPolicy(onExists)
			if err != nil {
				return aborted(err)
			}
			opts := policy.Options{
				Templates: append(templates, args...),
				Managed:   managed,
				Kind:      targetKind,
				Targets:   targets,
				Save:      save || s3URI != "",
				DryRun:    dryRun,
				OnExists:  exists,
			}
			if err := opts.Validate(); err != nil {
				return aborted(err)
			}
			var bucket, prefix string
			if s3URI != "" {
				bucket, prefix, err = s3.ParseURI(s3URI)
				if err != nil {
					return aborted(fmt.Errorf("%w: %w", policy.ErrUsage, err))
				}
			}

			ctx := cmd.Context()
			sess, err := connect(ctx, profile, region)
			if err != nil {
				return err
			}
			log.Debug().Str("profile", profile).Str("account", sess.AccountID).Msg("connected")

			var sinks []policy.Sink
			if save {
				sinks = append(sinks, policy.NewLocalSink(saveDir))
			}
			if bucket != "" {
				sinks = append(sinks, policy.NewS3Sink(sess.S3, bucket, prefix))
			}

			account := policy.Account{ID: sess.AccountID, Profile: config.ProfileName(profile)}
			applier := policy.NewApplier(sess.IAM, account, newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()), log, sinks...)

			report, err := applier.Apply(ctx, opts)
			if report != nil {
				console.PrintReport(cmd.OutOrStdout(), report)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&profile, "profile", "p", "", "AWS profile to use")
	cmd.Flags().StringVarP(&region, "region", "r", "", "AWS region to use")
	cmd.Flags().BoolVar(&managed, "managed", false, "Create a managed policy")
	cmd.Flags().StringVar(&kind, "type", "", "Type of target that the policy will apply or be attached to ("+kindList()+")")
	cmd.Flags().StringSliceVar(&targets, "targets", nil, "Name of the IAM entities the policy will be added to (required for inline policies)")
	cmd.Flags().StringArrayVar(&templates, "templates", nil, "Path to a template IAM policy that will be created (repeatable)")
	cmd.Flags().BoolVar(&save, "save", false, "Save the rendered policies locally as <policy>-<profile>.json")
	cmd.Flags().StringVar(&saveDir, "save-dir", "", "Directory for --save (default: current directory)")
	cmd.Flags().StringVar(&s3URI, "s3-uri", "", "Also upload rendered policies to s3://bucket/prefix")
	cmd.Flags().StringVar(&onExists, "on-exists", "", "When a managed policy already exists: fail, reuse or update (default: fail)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Render and save policies without calling IAM")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	return cmd
}

func newPrompter(in io.Reader, out io.Writer) policy.Prompter {
	if f, ok := in.(*os.File); ok {
		return policy.NewConsolePrompter(f, out)
	}
	return policy.NewPrompter(in, out)
}

func kindList() string {
	names := make([]string, len(iam.Kinds))
	for i, k := range iam.Kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}
