package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cargo-set/internal/app"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that workspace dependency requirements match package versions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := log.Logger.WithContext(cmd.Context())
			return runValidate(ctx, cmd)
		},
	}
	return cmd
}

func runValidate(ctx context.Context, cmd *cobra.Command) error {
	service := newAppService()
	result, err := service.Validate(ctx, app.ValidateRequest{
		Path: viper.GetString("path"),
	})
	out := cmd.OutOrStdout()
	for _, drift := range result.Drift {
		fmt.Fprintf(out, "%s: %s.%s requires %s, workspace has %s\n",
			drift.Path, drift.Table, drift.Name, drift.Requirement, drift.Current)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "validated: %d manifests\n", result.Manifests)
	return nil
}
