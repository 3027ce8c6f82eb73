package ui

import (
	"regexp"
	"strings"
)

var (
	boldRe   = regexp.MustCompile(`\*\*([^*]+)\*\*|__([^_]+)__`)
	italicRe = regexp.MustCompile(`\*([^*]+)\*|_([^_]+)_`)
	codeRe   = regexp.MustCompile("`([^`]+)`")
	linkRe   = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	taskRe   = regexp.MustCompile(`^(\s*)[-*+] \[([ xX])\] (.*)$`)
	bulletRe = regexp.MustCompile(`^(\s*)[-*+] (.*)$`)
)

// renderPreview styles markdown line by line for the terminal.
// It is a reading aid, not a full renderer; HTML export goes through goldmark.
func renderPreview(content string, width int) string {
	var out []string
	inCode := false

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			inCode = !inCode
			continue
		}
		if inCode {
			out = append(out, CodeStyle.Render("  "+line))
			continue
		}

		switch {
		case trimmed == "":
			out = append(out, "")
		case strings.HasPrefix(trimmed, "#"):
			level := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
			text := strings.TrimSpace(trimmed[level:])
			if level == 1 {
				out = append(out, TitleStyle.Render(text))
			} else {
				out = append(out, HeadingStyle.Render(text))
			}
		case trimmed == "---" || trimmed == "***" || trimmed == "___":
			out = append(out, MutedStyle.Render(strings.Repeat("─", max(width, 1))))
		case strings.HasPrefix(trimmed, ">"):
			out = append(out, MutedStyle.Render("│ "+inline(strings.TrimSpace(trimmed[1:]))))
		default:
			if m := taskRe.FindStringSubmatch(line); m != nil {
				box := "☐"
				if m[2] != " " {
					box = "☑"
				}
				out = append(out, m[1]+box+" "+inline(m[3]))
			} else if m := bulletRe.FindStringSubmatch(line); m != nil {
				out = append(out, m[1]+"• "+inline(m[2]))
			} else {
				out = append(out, inline(line))
			}
		}
	}

	return wrapText(strings.Join(out, "\n"), width)
}

func inline(s string) string {
	s = codeRe.ReplaceAllStringFunc(s, func(m string) string {
		return CodeStyle.Render(strings.Trim(m, "`"))
	})
	s = linkRe.ReplaceAllStringFunc(s, func(m string) string {
		parts := linkRe.FindStringSubmatch(m)
		return SelectedStyle.Render(parts[1]) + MutedStyle.Render(" ("+parts[2]+")")
	})
	s = boldRe.ReplaceAllStringFunc(s, func(m string) string {
		return SelectedStyle.Bold(true).Render(strings.Trim(m, "*_"))
	})
	s = italicRe.ReplaceAllStringFunc(s, func(m string) string {
		return MutedStyle.Italic(true).Render(strings.Trim(m, "*_"))
	})
	return s
}
