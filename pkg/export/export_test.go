package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var tricky = []Entry{
	{Key: "PLAIN", Value: "value"},
	{Key: "EMPTY", Value: ""},
	{Key: "WITH_COMMA", Value: "a,b,c"},
	{Key: "WITH_QUOTE", Value: `say "hi"`},
	{Key: "SINGLE_QUOTE", Value: "it's"},
	{Key: "MULTILINE", Value: "line1\nline2\r\nline3"},
	{Key: "HASH", Value: "abc#def"},
	{Key: "SPACES", Value: "  padded  "},
	{Key: "BACKSLASH", Value: `C:\path\n`},
	{Key: "EQUALS", Value: "a=b=c"},
	{Key: "UNICODE", Value: "héllo wörld ✓"},
	{Key: "URL", Value: "postgres://user:p@ss@host:5432/db?sslmode=disable"},
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in       string
		expected Format
	}{
		{"csv", FormatCSV},
		{"JSON", FormatJSON},
		{"yml", FormatYAML},
		{"yaml", FormatYAML},
		{"dotenv", FormatEnv},
		{".env", FormatEnv},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			f, err := ParseFormat(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f)
		})
	}

	_, err := ParseFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestExportCSV(t *testing.T) {
	out := ExportCSV([]Entry{
		{Key: "B", Value: `x"y`},
		{Key: "A", Value: "1,2"},
		{Key: "C", Value: "plain"},
	})
	assert.Equal(t, "KEY,VALUE\nA,\"1,2\"\nB,\"x\"\"y\"\nC,plain\n", string(out))
}

func TestCSVRoundTrip(t *testing.T) {
	entries, skipped := ParseCSV(ExportCSV(tricky))
	assert.Zero(t, skipped)
	assert.Equal(t, sorted(tricky), entries)
}

func TestParseCSV(t *testing.T) {
	input := "key,value\r\n" +
		"API_KEY,abc\r\n" +
		"\r\n" +
		"lowercase,skipped\r\n" +
		"ONLY_KEY\r\n" +
		"EXTRA,a,b,c\r\n" +
		"QUOTED,\"x\"\"y, z\"\r\n"

	entries, skipped := ParseCSV([]byte(input))
	assert.Equal(t, 2, skipped)
	assert.Equal(t, []Entry{
		{Key: "API_KEY", Value: "abc"},
		{Key: "EXTRA", Value: "a,b,c"},
		{Key: "QUOTED", Value: `x"y, z`},
	}, entries)
}

func TestParseCSV_NoHeader(t *testing.T) {
	entries, skipped := ParseCSV([]byte("A,1\nB,2"))
	assert.Zero(t, skipped)
	assert.Equal(t, []Entry{{Key: "A", Value: "1"}, {Key: "B", Value: "2"}}, entries)
}

func TestExportJSON(t *testing.T) {
	out, err := ExportJSON([]Entry{{Key: "B", Value: "<2>"}, {Key: "A", Value: "1"}})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"A\": \"1\",\n  \"B\": \"<2>\"\n}\n", string(out))

	var obj map[string]string
	require.NoError(t, json.Unmarshal(out, &obj))
	assert.Equal(t, "<2>", obj["B"])
}

func TestParseJSON(t *testing.T) {
	entries, skipped, err := ParseJSON([]byte(`{"PORT": 8080, "DEBUG": true, "NAME": "api", "NESTED": {"a": 1}, "bad": "x", "NIL": null}`))
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	assert.Equal(t, []Entry{
		{Key: "DEBUG", Value: "true"},
		{Key: "NAME", Value: "api"},
		{Key: "NIL", Value: ""},
		{Key: "PORT", Value: "8080"},
	}, entries)

	_, _, err = ParseJSON([]byte(`[1,2]`))
	assert.Error(t, err)
}

func TestExportYAML(t *testing.T) {
	out, err := ExportYAML([]Entry{{Key: "B", Value: `say "hi"`}, {Key: "A", Value: "true"}})
	require.NoError(t, err)
	assert.Equal(t, "A: \"true\"\nB: \"say \\\"hi\\\"\"\n", string(out))

	var obj map[string]string
	require.NoError(t, yaml.Unmarshal(out, &obj))
	assert.Equal(t, "true", obj["A"])
	assert.Equal(t, `say "hi"`, obj["B"])
}

func TestYAMLRoundTrip(t *testing.T) {
	out, err := ExportYAML(tricky)
	require.NoError(t, err)

	entries, skipped, err := ParseYAML(out)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Equal(t, sorted(tricky), entries)
}

func TestExportYAML_Empty(t *testing.T) {
	out, err := ExportYAML(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(out))
}

func TestExportDotenv(t *testing.T) {
	out := ExportDotenv([]Entry{
		{Key: "PLAIN", Value: "abc"},
		{Key: "SPACE", Value: "a b"},
		{Key: "HASH", Value: "a#b"},
		{Key: "NEWLINE", Value: "a\nb"},
		{Key: "QUOTE", Value: `a"b`},
	})
	assert.Equal(t,
		"HASH=\"a#b\"\nNEWLINE=\"a\\nb\"\nPLAIN=abc\nQUOTE=\"a\\\"b\"\nSPACE=\"a b\"\n",
		string(out))
}

func TestDotenvRoundTrip(t *testing.T) {
	entries, skipped, err := ParseDotenv(ExportDotenv(tricky))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Equal(t, sorted(tricky), entries)
}

func TestDotenvRoundTrip_UnicodeWhitespace(t *testing.T) {
	padded := []Entry{
		{Key: "A", Value: "x\u00a0"},
		{Key: "B", Value: "\vy"},
		{Key: "C", Value: "z\f"},
		{Key: "D", Value: "\u2003em\u2003"},
		{Key: "E", Value: "mid\u00a0dle"},
	}
	out := ExportDotenv(padded)
	assert.Contains(t, string(out), "A=\"x\u00a0\"\n")

	entries, skipped, err := ParseDotenv(out)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Equal(t, padded, entries)
}

func TestParseDotenv_LongLine(t *testing.T) {
	long := strings.Repeat("x", 2*1024*1024)
	input := "FIRST=1\nBIG=" + long + "\nLAST=2\n"

	entries, skipped, err := ParseDotenv([]byte(input))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, entries, 3)
	assert.Equal(t, "BIG", entries[1].Key)
	assert.Len(t, entries[1].Value, len(long))
	assert.Equal(t, Entry{Key: "LAST", Value: "2"}, entries[2])
}

func TestParseDotenv(t *testing.T) {
	input := `# comment
export API_KEY=abc123

DB_URL = "postgres://localhost/db" # trailing comment
SINGLE='raw \n value'
INLINE=value # comment
ESCAPED="line1\nline2 \"quoted\" back\\slash"
not_valid=1
NO_EQUALS
UNTERMINATED="oops
`
	entries, skipped, err := ParseDotenv([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, 3, skipped)
	assert.Equal(t, []Entry{
		{Key: "API_KEY", Value: "abc123"},
		{Key: "DB_URL", Value: "postgres://localhost/db"},
		{Key: "SINGLE", Value: `raw \n value`},
		{Key: "INLINE", Value: "value"},
		{Key: "ESCAPED", Value: "line1\nline2 \"quoted\" back\\slash"},
	}, entries)
}

func TestExport_AllFormats(t *testing.T) {
	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			out, err := Export(f, tricky)
			require.NoError(t, err)
			assert.NotEmpty(t, out)

			entries, skipped, err := Parse(f, out)
			require.NoError(t, err)
			assert.Zero(t, skipped)
			assert.Equal(t, sorted(tricky), entries)
		})
	}
}

func TestContentTypeAndExtension(t *testing.T) {
	assert.Equal(t, "text/csv; charset=utf-8", ContentType(FormatCSV))
	assert.Equal(t, "application/json", ContentType(FormatJSON))
	assert.Equal(t, ".yaml", FileExtension(FormatYAML))
	assert.Equal(t, ".env", FileExtension(FormatEnv))
	assert.Equal(t, "my-api-production.csv", Filename("My API production", FormatCSV))
	assert.Equal(t, "secrets.env", Filename("///", FormatEnv))
}
