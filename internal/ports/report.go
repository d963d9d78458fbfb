package ports

import (
	"io"

	"cargo-set/internal/types"
)

// SummaryWriterPort renders manifest summaries for the inspect command.
type SummaryWriterPort interface {
	WriteSummaries(w io.Writer, summaries []types.ManifestSummary) error
}
