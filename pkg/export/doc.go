// Package export converts environment secrets to and from the file formats
// offered for download and upload: CSV, JSON, YAML and dotenv.
//
// Export always writes entries sorted by key. For every set of entries with
// valid keys, ParseCSV and ParseDotenv return exactly what ExportCSV and
// ExportDotenv were given.
package export
