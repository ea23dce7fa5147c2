package executor

import (
	"fmt"

	"github.com/archonlabs/archon/pkg/models"
)

// alternativesByIntent lists substitute approaches for a failed subtask.
// The first entry is the one the retry uses; the rest document the
// escalation order a future multi-attempt strategy would follow.
var alternativesByIntent = map[models.TaskIntent][]string{
	models.IntentFileOperation: {
		"Use different file access method",
		"Check file permissions and retry",
		"Try with absolute path instead of relative",
	},
	models.IntentCodeGeneration: {
		"Break down into smaller code chunks",
		"Use different design pattern",
		"Generate simpler implementation first",
	},
	models.IntentBugFix: {
		"Add more debugging output",
		"Try different fix approach",
		"Isolate the problem further",
	},
	models.IntentTesting: {
		"Use different testing framework",
		"Write simpler test cases first",
		"Mock external dependencies",
	},
}

// alternativeApproach builds a replacement for a failed subtask: same
// identity, intent, context and dependencies, but a substitute description,
// reset to pending with its call/output history cleared.
func alternativeApproach(failed *models.Task) *models.Task {
	descriptions, ok := alternativesByIntent[failed.Intent]
	if !ok {
		descriptions = []string{
			fmt.Sprintf("Retry: %s", failed.Description),
			fmt.Sprintf("Simplify: %s", failed.Description),
			fmt.Sprintf("Alternative approach for: %s", failed.Description),
		}
	}

	alt := failed.Clone()
	alt.Description = descriptions[0]
	alt.Status = models.TaskStatusPending
	alt.ToolCalls = nil
	alt.Outputs = nil
	alt.CompletedAt = nil
	return alt
}
