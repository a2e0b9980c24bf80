// Package editor finds environment variable references in source lines and
// answers completion and hover requests with values from the envault CLI.
package editor

import "regexp"

const keyPattern = `([A-Za-z_][A-Za-z0-9_]*)`

// Reference is an environment variable read in a line of code. Start and
// End are byte offsets of the whole expression.
type Reference struct {
	Key   string `json:"key"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

var referencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`process\.env\.` + keyPattern),
	regexp.MustCompile(`process\.env\[\s*["'` + "`" + `]` + keyPattern + `["'` + "`" + `]\s*\]`),
	regexp.MustCompile(`import\.meta\.env\.` + keyPattern),
	regexp.MustCompile(`os\.Getenv\(\s*"` + keyPattern + `"\s*\)`),
	regexp.MustCompile(`os\.LookupEnv\(\s*"` + keyPattern + `"\s*\)`),
	regexp.MustCompile(`os\.environ\[\s*["']` + keyPattern + `["']\s*\]`),
	regexp.MustCompile(`os\.environ\.get\(\s*["']` + keyPattern + `["']`),
	regexp.MustCompile(`os\.getenv\(\s*["']` + keyPattern + `["']`),
	regexp.MustCompile(`ENV\[\s*["']` + keyPattern + `["']\s*\]`),
	regexp.MustCompile(`ENV\.fetch\(\s*["']` + keyPattern + `["']`),
}

// FindReference returns the reference under the cursor at byte offset col,
// or false when there is none
func FindReference(line string, col int) (Reference, bool) {
	for _, re := range referencePatterns {
		for _, m := range re.FindAllStringSubmatchIndex(line, -1) {
			if col >= m[0] && col <= m[1] {
				return Reference{Key: line[m[2]:m[3]], Start: m[0], End: m[1]}, true
			}
		}
	}
	return Reference{}, false
}

// FindReferences returns every reference in line ordered by position
func FindReferences(line string) []Reference {
	var refs []Reference
	for _, re := range referencePatterns {
		for _, m := range re.FindAllStringSubmatchIndex(line, -1) {
			refs = append(refs, Reference{Key: line[m[2]:m[3]], Start: m[0], End: m[1]})
		}
	}
	for i := 1; i < len(refs); i++ {
		for j := i; j > 0 && refs[j].Start < refs[j-1].Start; j-- {
			refs[j], refs[j-1] = refs[j-1], refs[j]
		}
	}
	return refs
}

var completionTriggers = []*regexp.Regexp{
	regexp.MustCompile(`process\.env\.([A-Za-z0-9_]*)$`),
	regexp.MustCompile(`process\.env\[\s*["'` + "`" + `]([A-Za-z0-9_]*)$`),
	regexp.MustCompile(`import\.meta\.env\.([A-Za-z0-9_]*)$`),
	regexp.MustCompile(`os\.(?:Getenv|LookupEnv)\(\s*"([A-Za-z0-9_]*)$`),
	regexp.MustCompile(`os\.environ\[\s*["']([A-Za-z0-9_]*)$`),
	regexp.MustCompile(`os\.(?:environ\.get|getenv)\(\s*["']([A-Za-z0-9_]*)$`),
	regexp.MustCompile(`ENV(?:\[|\.fetch\()\s*["']([A-Za-z0-9_]*)$`),
}

// CompletionPrefix returns the partial key typed after a trigger such as
// `process.env.` at the end of linePrefix
func CompletionPrefix(linePrefix string) (string, bool) {
	for _, re := range completionTriggers {
		if m := re.FindStringSubmatch(linePrefix); m != nil {
			return m[1], true
		}
	}
	return "", false
}
