package scanner

//go:generate go run github.com/dmarkham/enumer -type Severity -trimprefix Severity -transform lower -json -text -output severity.gen.go

// Severity orders findings from informational to critical
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// AtLeast reports whether s is as severe as threshold
func (s Severity) AtLeast(threshold Severity) bool {
	return s >= threshold
}
