package output

import (
	"fmt"

	"github.com/temirov/bundle/internal/types"
	"github.com/temirov/bundle/internal/utils"
)

// FormatRunSummary formats the diagnostic summary line logged after a
// successful run. The line never enters the artifact.
func FormatRunSummary(summary types.RunSummary) string {
	label := "files"
	if summary.FileCount == 1 {
		label = "file"
	}
	tokenPart := ""
	if summary.TokenCount > 0 {
		tokenPart = fmt.Sprintf(", %d tokens", summary.TokenCount)
	}
	modelSuffix := ""
	if summary.ModelName != "" {
		modelSuffix = fmt.Sprintf(" (model: %s)", summary.ModelName)
	}
	return fmt.Sprintf("Summary: %d %s, %s%s%s", summary.FileCount, label, utils.FormatFileSize(summary.TotalBytes), tokenPart, modelSuffix)
}
