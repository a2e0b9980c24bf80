package main

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/envault/envault/pkg/scanner"
)

// skippedDirs are never descended into
var skippedDirs = map[string]bool{".git": true, "node_modules": true, "vendor": true}

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [paths...]",
	Short: "Scan files for leaked credentials",
	Long: `Scan files for strings that look like credentials. Directories are walked
recursively, skipping .git, node_modules and vendor. Matches are masked.

The command exits 1 when any finding is at or above --fail-on.

Example:
  envaultctl scan .
  envaultctl scan --fail-on critical --output json config/ deploy.sh`,
	Run: func(cmd *cobra.Command, args []string) {
		failOn, _ := cmd.Flags().GetString("fail-on")
		output, _ := cmd.Flags().GetString("output")

		threshold, err := scanner.SeverityString(strings.ToLower(failOn))
		if err != nil {
			fail("--fail-on must be one of %s", strings.Join(scanner.SeverityStrings(), ", "))
		}
		if len(args) == 0 {
			args = []string{"."}
		}

		findings, err := scanPaths(scanner.New(), args)
		if err != nil {
			fail("%v", err)
		}

		if output == "json" {
			body, _ := json.MarshalIndent(map[string]interface{}{
				"findings": nonNilFindings(findings),
				"summary":  scanner.Summarize(findings),
			}, "", "  ")
			fmt.Println(string(body))
		} else {
			printFindings(findings)
		}

		if len(scanner.Filter(findings, threshold)) > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().String("fail-on", "high", "Lowest severity that fails the scan")
	scanCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

// scanPaths scans files and walks directories. Findings keep the file path
// as their source.
func scanPaths(sc *scanner.Scanner, paths []string) ([]scanner.Finding, error) {
	var findings []scanner.Finding
	scanFile := func(path string) error {
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		found, err := sc.ScanReader(path, file)
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", path, err)
		}
		findings = append(findings, found...)
		return nil
	}

	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && skippedDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			return scanFile(path)
		})
		if err != nil {
			return nil, err
		}
	}
	return findings, nil
}

func nonNilFindings(findings []scanner.Finding) []scanner.Finding {
	if findings == nil {
		return []scanner.Finding{}
	}
	return findings
}

func printFindings(findings []scanner.Finding) {
	if len(findings) == 0 {
		succeed("No credentials found")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEVERITY\tLOCATION\tPATTERN\tMATCH")
	for _, f := range findings {
		fmt.Fprintf(w, "%s\t%s:%d:%d\t%s\t%s\n", severityLabel(f.Severity), f.Source, f.Line, f.Column, f.Pattern, f.Match)
	}
	_ = w.Flush()

	sum := scanner.Summarize(findings)
	fmt.Printf("\n%d findings: %d critical, %d high, %d medium, %d low, %d info\n",
		sum.Total, sum.Critical, sum.High, sum.Medium, sum.Low, sum.Info)
}

func severityLabel(s scanner.Severity) string {
	switch {
	case s.AtLeast(scanner.SeverityHigh):
		return uiError.Sprintf("%s", s)
	case s.AtLeast(scanner.SeverityMedium):
		return uiWarning.Sprintf("%s", s)
	default:
		return uiInfo.Sprintf("%s", s)
	}
}
