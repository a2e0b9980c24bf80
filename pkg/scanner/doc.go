// Package scanner flags text that looks like a leaked credential.
//
// It applies a fixed list of regular expressions (AWS keys, JWTs, private
// key headers, vendor tokens, connection URLs and generic secret
// assignments) and grades each match by keyword. Findings carry a masked
// excerpt only.
//
//	findings := scanner.New().ScanText("config/app.env", contents)
//	if sev, ok := scanner.Highest(findings); ok && sev.AtLeast(scanner.SeverityHigh) {
//	    ...
//	}
package scanner
