package cli

import (
	"context"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cargo-set/internal/adapters"
	"cargo-set/internal/app"
)

type inspectOptions struct {
	Format string
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show workspace manifests and the versions they reference",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := log.Logger.WithContext(cmd.Context())
			return runInspect(ctx, cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Format, "format", string(adapters.SummaryFormatText), "Output format (text, yaml)")
	_ = viper.BindPFlag("format", cmd.Flags().Lookup("format"))
	return cmd
}

func runInspect(ctx context.Context, cmd *cobra.Command, opts inspectOptions) error {
	format := adapters.SummaryFormat(resolveString(cmd, opts.Format, "format", "format"))
	if format != adapters.SummaryFormatText && format != adapters.SummaryFormatYAML {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("format must be text or yaml")
	}
	service := newAppService()
	result, err := service.Inspect(ctx, app.InspectRequest{
		Path: viper.GetString("path"),
	})
	if err != nil {
		return err
	}
	writer := adapters.NewSummaryWriterAdapter(format)
	return writer.WriteSummaries(cmd.OutOrStdout(), result.Manifests)
}
