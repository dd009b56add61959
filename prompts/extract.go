package prompts

import "strings"

// Extract converts a markdown guidance file to the plain text form embedded
// in prompts. Title lines ("# ") are dropped, collection starts at the first
// section header or bullet, "## X" becomes "X:", "### X" becomes "X", and
// everything else passes through unchanged.
func Extract(markdown string) string {
	var out []string
	inContent := false

	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(line, "# ") {
			continue
		}
		if strings.HasPrefix(line, "## ") || strings.HasPrefix(line, "### ") || strings.HasPrefix(line, "- ") {
			inContent = true
		}
		if !inContent {
			continue
		}
		switch {
		case strings.HasPrefix(line, "### "):
			out = append(out, line[4:])
		case strings.HasPrefix(line, "## "):
			out = append(out, line[3:]+":")
		default:
			out = append(out, line)
		}
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}
