package main

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// formatter colours CLI output unless NO_COLOR is set or stdout is not a terminal
type formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

func (f formatter) Sprintf(format string, a ...interface{}) string {
	text := fmt.Sprintf(format, a...)
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

func noColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}

var (
	uiCode    = formatter{color.New(color.FgYellow), "`", "`"}
	uiPath    = formatter{color.New(color.FgYellow), "", ""}
	uiSuccess = formatter{color.New(color.FgGreen), "", ""}
	uiError   = formatter{color.New(color.FgRed), "", ""}
	uiWarning = formatter{color.New(color.FgYellow), "", ""}
	uiInfo    = formatter{color.New(color.FgCyan), "", ""}
)

// fail prints a red error line and exits 1
func fail(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, uiError.Sprintf("✗ ")+fmt.Sprintf(format, a...))
	os.Exit(1)
}

func succeed(format string, a ...interface{}) {
	fmt.Println(uiSuccess.Sprintf("✓ ") + fmt.Sprintf(format, a...))
}

// startSpinner shows progress on stderr. The returned func stops it.
func startSpinner(message string) func() {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	_ = s.Color("cyan")
	s.Start()
	return s.Stop
}
