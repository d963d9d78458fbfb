package adapters

import (
	"fmt"
	"io"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"cargo-set/internal/ports"
	"cargo-set/internal/types"
)

type SummaryFormat string

const (
	SummaryFormatText SummaryFormat = "text"
	SummaryFormatYAML SummaryFormat = "yaml"
)

type SummaryWriterAdapter struct {
	Format SummaryFormat
}

func NewSummaryWriterAdapter(format SummaryFormat) SummaryWriterAdapter {
	return SummaryWriterAdapter{Format: format}
}

func (a SummaryWriterAdapter) WriteSummaries(w io.Writer, summaries []types.ManifestSummary) error {
	switch a.Format {
	case SummaryFormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(summaries); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to encode summary yaml").
				WithCause(err)
		}
		if err := encoder.Close(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to flush summary yaml").
				WithCause(err)
		}
		return nil
	case SummaryFormatText, "":
		return writeSummaryText(w, summaries)
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported summary format %s", a.Format))
	}
}

func writeSummaryText(w io.Writer, summaries []types.ManifestSummary) error {
	var b strings.Builder
	for _, summary := range summaries {
		label := "(virtual)"
		if summary.Package != "" {
			label = summary.Package + " " + summary.Version
		}
		fmt.Fprintf(&b, "%s: %s\n", summary.Path, label)
		for _, dep := range summary.Dependencies {
			version := dep.Version
			if version == "" {
				version = "-"
			}
			fmt.Fprintf(&b, "  %s %s (%s) %s\n", dep.Table, dep.Name, dep.Kind, version)
		}
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write summary").
			WithCause(err)
	}
	return nil
}

var _ ports.SummaryWriterPort = SummaryWriterAdapter{}
