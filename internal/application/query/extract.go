package query

import "strings"

// extractCommand strips markdown fences or a leading "command:" label that
// models sometimes add despite instructions. Plain text is returned trimmed.
func extractCommand(content string) string {
	if code := extractCodeBlock(content); code != "" {
		return code
	}
	if cmd := extractCommandLine(content); cmd != "" {
		return cmd
	}
	return strings.TrimSpace(content)
}

func extractCodeBlock(content string) string {
	start := strings.Index(content, "```")
	if start == -1 {
		return ""
	}
	suffix := content[start+3:]
	end := strings.Index(suffix, "```")
	if end == -1 {
		return ""
	}

	lines := strings.Split(strings.TrimLeft(suffix[:end], " \t"), "\n")
	// A single word on the opening line is a language tag when a body follows.
	if len(lines) > 1 && !strings.ContainsAny(strings.TrimSpace(lines[0]), " \t") {
		lines = lines[1:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func extractCommandLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(line), "command:") {
			return strings.TrimSpace(line[len("command:"):])
		}
	}
	return ""
}
