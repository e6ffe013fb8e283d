package ai

import "fmt"

// DefaultSystemPrompt instructs the model to answer with a bare command.
const DefaultSystemPrompt = `You are a shell command generator. Convert the user's natural language request into a single executable shell command.

Rules:
1. Output ONLY the command, with no explanations and no markdown formatting.
2. The command must be valid for the user's operating system.
3. Avoid unsafe or destructive operations unless the user explicitly asks for them.
4. Chain multiple steps with && or pipes when needed.
5. If the request cannot be expressed as a command, output a command that echoes a short explanation.`

const formatTemplate = "Given this shell command output and the user's original query, provide a clean, formatted summary of the relevant information.\n\nUser Query: %s\nCommand Output:\n%s\n\nProvide a concise, well-formatted response:"

func buildFormatPrompt(output, query string) string {
	return fmt.Sprintf(formatTemplate, query, output)
}
