package query

import (
	"fmt"
	"runtime"
)

// DetectOS returns a human readable name for the running platform.
func DetectOS() string {
	return osName(runtime.GOOS)
}

func osName(goos string) string {
	switch goos {
	case "darwin":
		return "macOS"
	case "windows":
		return "Windows"
	case "linux":
		return "Linux"
	default:
		return goos
	}
}

// BuildPrompt prefixes the query with the operating system so the model can
// pick platform appropriate tools.
func BuildPrompt(query string) string {
	return fmt.Sprintf("Current OS: %s\n\n%s", DetectOS(), query)
}
