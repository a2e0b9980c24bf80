package scanner

import (
	"regexp"
	"strings"
)

// Pattern is a credential shape. When Regexp has a capture group, the first
// group is the secret part of the match.
type Pattern struct {
	Name        string
	Regexp      *regexp.Regexp
	Severity    Severity
	Description string
}

// DefaultPatterns returns the built-in credential patterns
func DefaultPatterns() []Pattern {
	return []Pattern{
		{
			Name:        "aws_access_key_id",
			Regexp:      regexp.MustCompile(`\b((?:AKIA|ASIA)[0-9A-Z]{16})\b`),
			Severity:    SeverityCritical,
			Description: "AWS access key ID",
		},
		{
			Name:        "aws_secret_access_key",
			Regexp:      regexp.MustCompile(`(?i)aws[_\-\s]?secret[_\-\s]?(?:access[_\-\s]?)?key["']?\s*[:=]\s*["']?([A-Za-z0-9/+=]{40})`),
			Severity:    SeverityCritical,
			Description: "AWS secret access key assignment",
		},
		{
			Name:        "jwt",
			Regexp:      regexp.MustCompile(`\b(eyJ[A-Za-z0-9_\-]{10,}\.eyJ[A-Za-z0-9_\-]{10,}\.[A-Za-z0-9_\-]{10,})`),
			Severity:    SeverityHigh,
			Description: "JSON Web Token",
		},
		{
			Name:        "private_key",
			Regexp:      regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA |OPENSSH |PGP |ENCRYPTED )?PRIVATE KEY(?: BLOCK)?-----`),
			Severity:    SeverityCritical,
			Description: "PEM private key header",
		},
		{
			Name:        "github_token",
			Regexp:      regexp.MustCompile(`\b(gh[pousr]_[A-Za-z0-9]{36,255})\b`),
			Severity:    SeverityHigh,
			Description: "GitHub token",
		},
		{
			Name:        "slack_token",
			Regexp:      regexp.MustCompile(`\b(xox[baprs]-[A-Za-z0-9\-]{10,})`),
			Severity:    SeverityHigh,
			Description: "Slack token",
		},
		{
			Name:        "stripe_secret_key",
			Regexp:      regexp.MustCompile(`\b([rs]k_(?:live|test)_[A-Za-z0-9]{16,})\b`),
			Severity:    SeverityHigh,
			Description: "Stripe secret key",
		},
		{
			Name:        "google_api_key",
			Regexp:      regexp.MustCompile(`\b(AIza[0-9A-Za-z_\-]{35})`),
			Severity:    SeverityHigh,
			Description: "Google API key",
		},
		{
			Name:        "database_url",
			Regexp:      regexp.MustCompile(`(?i)\b(?:postgres(?:ql)?|mysql|mariadb|mongodb(?:\+srv)?|redis|amqps?)://[^\s:/@]+:([^\s@/]+)@[^\s/"']+`),
			Severity:    SeverityHigh,
			Description: "Connection URL with an inline password",
		},
		{
			Name:        "envault_cli_token",
			Regexp:      regexp.MustCompile(`\b(envault_[0-9a-f]{64})\b`),
			Severity:    SeverityCritical,
			Description: "envault CLI token",
		},
		{
			Name:        "generic_secret_assignment",
			Regexp:      regexp.MustCompile(`(?i)[A-Za-z0-9_]*(?:secret|password|passwd|api[_\-]?key|token|access[_\-]?key)[A-Za-z0-9_]*["']?\s*[:=]\s*["']?([^\s"']{8,})`),
			Severity:    SeverityMedium,
			Description: "Secret-looking value assigned to a sensitive name",
		},
	}
}

var (
	raisingKeywords  = []string{"prod", "live", "private"}
	loweringKeywords = []string{"example", "test", "dummy", "placeholder"}
)

// classifySeverity adjusts base by keywords in the match: production and
// private material is critical, example and test material is low.
func classifySeverity(match string, base Severity) Severity {
	lower := strings.ToLower(match)
	for _, kw := range raisingKeywords {
		if strings.Contains(lower, kw) {
			return SeverityCritical
		}
	}
	for _, kw := range loweringKeywords {
		if strings.Contains(lower, kw) {
			return SeverityLow
		}
	}
	return base
}
