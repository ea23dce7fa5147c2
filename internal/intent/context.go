package intent

import (
	"strings"

	"github.com/archonlabs/archon/pkg/models"
)

// AnalyzeContext extracts project context from the request text. All of it
// is heuristic: file paths are tokens that look like paths, build commands
// and project type come from ecosystem keywords.
func AnalyzeContext(request string) models.TaskContext {
	var ctx models.TaskContext

	for _, word := range strings.Fields(request) {
		if !strings.Contains(word, ".") {
			continue
		}
		if !strings.Contains(word, "/") && !strings.Contains(word, "\\") {
			continue
		}
		ctx.FilesInvolved = append(ctx.FilesInvolved, word)
		if strings.Contains(word, "_test.") || strings.Contains(word, "test/") {
			ctx.TestFiles = append(ctx.TestFiles, word)
		}
	}

	lower := strings.ToLower(request)
	switch {
	case strings.Contains(lower, "cargo"):
		ctx.BuildCommands = []string{"cargo build", "cargo test"}
		ctx.ProjectType = "rust"
	case strings.Contains(lower, "npm") || strings.Contains(lower, "node"):
		ctx.BuildCommands = []string{"npm install", "npm test"}
		ctx.ProjectType = "javascript"
	case strings.Contains(lower, "python") || strings.Contains(lower, "pip"):
		ctx.BuildCommands = []string{"python -m pytest"}
		ctx.ProjectType = "python"
	case strings.Contains(lower, "golang"):
		ctx.BuildCommands = []string{"go build ./...", "go test ./..."}
		ctx.ProjectType = "go"
	}

	if ctx.ProjectType == "" {
		switch {
		case strings.Contains(lower, "rust"):
			ctx.ProjectType = "rust"
		case strings.Contains(lower, "typescript"), strings.Contains(lower, "javascript"):
			ctx.ProjectType = "javascript"
		}
	}

	return ctx
}
