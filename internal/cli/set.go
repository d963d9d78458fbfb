package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cargo-set/internal/app"
)

type setOptions struct {
	Crate        string
	Version      string
	Bump         string
	Workspace    bool
	WriteMembers bool
	DryRun       bool
}

func newSetCommand() *cobra.Command {
	opts := setOptions{}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set a crate's version and every workspace reference to it",
		Long: "Set a crate's version and every workspace reference to it.\n\n" +
			"By default only the root manifest and members without a [package] table are\n" +
			"written back. Use --write-members to also write members whose content changed.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := log.Logger.WithContext(cmd.Context())
			return runSet(ctx, cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Crate, "crate", "", "Name of the crate to update")
	cmd.Flags().StringVar(&opts.Version, "set-version", "", "Version to set")
	cmd.Flags().StringVar(&opts.Bump, "bump", "", "Bump the current version (patch, minor, major)")
	cmd.Flags().BoolVar(&opts.Workspace, "workspace", false, "Apply to the whole workspace")
	cmd.Flags().BoolVar(&opts.WriteMembers, "write-members", false, "Also write members whose own version changed")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report changes without writing manifests")
	_ = cmd.MarkFlagRequired("crate")
	cmd.MarkFlagsMutuallyExclusive("set-version", "bump")
	cmd.MarkFlagsOneRequired("set-version", "bump")
	_ = viper.BindPFlag("write_members", cmd.Flags().Lookup("write-members"))
	return cmd
}

func runSet(ctx context.Context, cmd *cobra.Command, opts setOptions) error {
	req := app.SetRequest{
		Path:         viper.GetString("path"),
		Crate:        opts.Crate,
		Version:      opts.Version,
		Bump:         opts.Bump,
		Workspace:    opts.Workspace,
		WriteMembers: resolveBool(cmd, opts.WriteMembers, "write_members", "write-members"),
		DryRun:       opts.DryRun,
	}
	log.Ctx(ctx).Trace().
		Bool("workspace", req.Workspace).
		Str("crate", req.Crate).
		Str("path", req.Path).
		Str("set_version", req.Version).
		Str("bump", req.Bump).
		Msg("command - set")

	service := newAppService()
	result, err := service.Set(ctx, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, change := range result.Report.Changes {
		old := change.Old
		if old == "" {
			old = "(none)"
		}
		fmt.Fprintf(out, "%s: %s %s -> %s\n", change.Path, change.Field, old, change.New)
	}
	if req.DryRun {
		fmt.Fprintf(out, "dry run: %d changes, nothing written\n", len(result.Report.Changes))
		return nil
	}
	for _, path := range result.Report.Written {
		fmt.Fprintf(out, "wrote %s\n", path)
	}
	fmt.Fprintf(out, "set %s to %s\n", req.Crate, result.Version)
	return nil
}
