package report

import "codegrader/internal/ui/report/formats"

type Report = formats.Report
type TypeRow = formats.TypeRow
type MarkdownOptions = formats.MarkdownOptions
