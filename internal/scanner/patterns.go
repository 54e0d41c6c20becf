package scanner

import (
	"regexp"
	"sort"
)

type Pattern struct {
	Name     string
	Regex    *regexp.Regexp
	Severity string
}

// Patterns covers credentials that tend to get pasted into agent prompts.
var Patterns = []Pattern{
	{
		Name:     "Anthropic API Key",
		Regex:    regexp.MustCompile(`(?:^|[^A-Za-z0-9_-])(sk-ant-[a-zA-Z0-9\-_]{80,})`),
		Severity: "high",
	},
	{
		// Anthropic keys share the sk- prefix; Scan reports the more specific name only.
		// The leading class keeps words like "disk-usage-..." from matching.
		Name:     "OpenAI API Key",
		Regex:    regexp.MustCompile(`(?:^|[^A-Za-z0-9_-])(sk-(?:proj-)?[a-zA-Z0-9_-]{20,})`),
		Severity: "high",
	},
	{
		Name:     "AWS Access Key ID",
		Regex:    regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
		Severity: "high",
	},
	{
		Name:     "GitHub Token",
		Regex:    regexp.MustCompile(`gh[pousr]_[0-9a-zA-Z]{36}`),
		Severity: "high",
	},
	{
		Name:     "GitHub Fine-Grained PAT",
		Regex:    regexp.MustCompile(`github_pat_[0-9a-zA-Z_]{22,}`),
		Severity: "high",
	},
	{
		Name:     "GitLab Personal Access Token",
		Regex:    regexp.MustCompile(`glpat-[0-9a-zA-Z\-]{20}`),
		Severity: "high",
	},
	{
		Name:     "Slack Token",
		Regex:    regexp.MustCompile(`xox[baprs]-[0-9]{10,13}-[0-9]{10,13}(?:-[0-9a-zA-Z]{24})?`),
		Severity: "high",
	},
	{
		Name:     "Stripe Secret Key",
		Regex:    regexp.MustCompile(`[sr]k_(?:live|test)_[0-9a-zA-Z]{24,}`),
		Severity: "high",
	},
	{
		Name:     "Google API Key",
		Regex:    regexp.MustCompile(`AIza[0-9A-Za-z_-]{35}`),
		Severity: "high",
	},
	{
		Name:     "Private Key",
		Regex:    regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA |OPENSSH )?PRIVATE KEY-----`),
		Severity: "high",
	},
	{
		Name:     "JWT Token",
		Regex:    regexp.MustCompile(`eyJ[a-zA-Z0-9_-]*\.eyJ[a-zA-Z0-9_-]*\.[a-zA-Z0-9_-]*`),
		Severity: "medium",
	},
}

type Finding struct {
	Pattern Pattern
	Offset  int
	Match   string
}

// Scan returns every credential-looking substring of text, ordered by offset.
// A span already claimed by an earlier pattern is not reported again. When a
// pattern has a capture group, the group is the reported span, so other
// patterns must only use non-capturing groups.
func Scan(text string) []Finding {
	var findings []Finding
	var claimed [][2]int

	overlaps := func(start, end int) bool {
		for _, c := range claimed {
			if start < c[1] && c[0] < end {
				return true
			}
		}
		return false
	}

	for _, p := range Patterns {
		for _, loc := range p.Regex.FindAllStringSubmatchIndex(text, -1) {
			start, end := loc[0], loc[1]
			if len(loc) >= 4 && loc[2] >= 0 {
				start, end = loc[2], loc[3]
			}
			if overlaps(start, end) {
				continue
			}
			claimed = append(claimed, [2]int{start, end})
			findings = append(findings, Finding{
				Pattern: p,
				Offset:  start,
				Match:   text[start:end],
			})
		}
	}

	sort.Slice(findings, func(i, j int) bool { return findings[i].Offset < findings[j].Offset })
	return findings
}
