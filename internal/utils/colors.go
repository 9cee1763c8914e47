package utils

import "os"

// Terminal color codes using ANSI escape sequences
const (
	ResetColor   = "\033[0m"
	RedColor     = "\033[31m" // fatal run errors
	GreenColor   = "\033[32m" // completed lessons
	YellowColor  = "\033[33m" // lesson failures, cleanup problems
	BlueColor    = "\033[34m" // progress
	MagentaColor = "\033[35m"
	CyanColor    = "\033[36m"
)

// ColorsEnabled turns ANSI coloring on or off. Honors https://no-color.org.
var ColorsEnabled = os.Getenv("NO_COLOR") == ""

// ColoredText wraps text with color codes and reset at the end
func ColoredText(text string, color string) string {
	if !ColorsEnabled {
		return text
	}
	return color + text + ResetColor
}

// Info returns blue-colored text for progress messages
func Info(text string) string {
	return ColoredText(text, BlueColor)
}

// Success returns green-colored text for success messages
func Success(text string) string {
	return ColoredText(text, GreenColor)
}

// Warning returns yellow-colored text for warning messages
func Warning(text string) string {
	return ColoredText(text, YellowColor)
}

// Error returns red-colored text for error messages
func Error(text string) string {
	return ColoredText(text, RedColor)
}

// Highlight returns magenta-colored text for lesson titles and ids
func Highlight(text string) string {
	return ColoredText(text, MagentaColor)
}

// Debug returns cyan-colored text for debug info
func Debug(text string) string {
	return ColoredText(text, CyanColor)
}
