package export

import (
	"bytes"
	"strings"

	"github.com/envault/envault/pkg/validate"
)

const csvHeader = "KEY,VALUE"

func csvField(s string) string {
	if !strings.ContainsAny(s, ",\"\r\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ExportCSV writes a KEY,VALUE header followed by one row per entry.
// Fields containing a comma, quote, CR or LF are quoted with quotes doubled.
func ExportCSV(entries []Entry) []byte {
	var buf bytes.Buffer
	buf.WriteString(csvHeader)
	buf.WriteByte('\n')
	for _, e := range sorted(entries) {
		buf.WriteString(csvField(e.Key))
		buf.WriteByte(',')
		buf.WriteString(csvField(e.Value))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// splitCSV splits data into records in a single pass. Quoted fields may
// contain delimiters, doubled quotes and line breaks, all kept verbatim.
// Stray quotes inside unquoted fields are taken literally.
func splitCSV(data string) [][]string {
	var (
		records [][]string
		record  []string
		field   strings.Builder
		quoted  bool // inside a quoted field
		started bool // current field began with a quote
	)

	endField := func() {
		record = append(record, field.String())
		field.Reset()
		started = false
	}
	endRecord := func() {
		endField()
		// A blank line is not a record
		if !(len(record) == 1 && record[0] == "") {
			records = append(records, record)
		}
		record = nil
	}

	for i := 0; i < len(data); i++ {
		c := data[i]
		if quoted {
			if c == '"' {
				if i+1 < len(data) && data[i+1] == '"' {
					field.WriteByte('"')
					i++
				} else {
					quoted = false
				}
				continue
			}
			field.WriteByte(c)
			continue
		}

		switch c {
		case '"':
			if field.Len() == 0 && !started {
				quoted, started = true, true
			} else {
				field.WriteByte(c)
			}
		case ',':
			endField()
		case '\r':
			if i+1 < len(data) && data[i+1] == '\n' {
				continue
			}
			field.WriteByte(c)
		case '\n':
			endRecord()
		default:
			field.WriteByte(c)
		}
	}
	if field.Len() > 0 || len(record) > 0 || started {
		endRecord()
	}
	return records
}

// ParseCSV reads KEY,VALUE rows. A leading KEY,VALUE header is skipped in
// any case. Rows with fewer than two fields or an invalid key are skipped
// and counted. Fields beyond the second are joined back with commas.
func ParseCSV(data []byte) ([]Entry, int) {
	records := splitCSV(string(data))

	var (
		entries []Entry
		skipped int
	)
	for i, rec := range records {
		if i == 0 && len(rec) >= 2 &&
			strings.EqualFold(strings.TrimSpace(rec[0]), "KEY") &&
			strings.EqualFold(strings.TrimSpace(rec[1]), "VALUE") {
			continue
		}
		if len(rec) < 2 {
			skipped++
			continue
		}
		key := strings.TrimSpace(rec[0])
		if !validate.IsSecretKey(key) {
			skipped++
			continue
		}
		entries = append(entries, Entry{Key: key, Value: strings.Join(rec[1:], ",")})
	}
	return entries, skipped
}
