package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

type welcomeBannerOptions struct {
	Version   string
	Provider  string
	Model     string
	Persona   string
	ToolCount int
}

func printWelcomeBanner(w io.Writer, opts welcomeBannerOptions) {
	width := terminalWidth(w)

	logo := []string{
		"        _             ",
		"   __ _(_)_ __   __ _ ",
		"  / _` | | '_ \\ / _` |",
		" | (_| | | | | | (_| |",
		"  \\__, |_|_| |_|\\__,_|",
		"  |___/               ",
	}

	fmt.Fprintln(w)
	for _, line := range logo {
		fmt.Fprintln(w, center(line, width))
	}
	fmt.Fprintln(w)

	if version := strings.TrimSpace(opts.Version); version != "" {
		fmt.Fprintln(w, center(fmt.Sprintf("Version: %s", version), width))
	}
	fmt.Fprintln(w, center(fmt.Sprintf("Provider: %s", opts.Provider), width))
	fmt.Fprintln(w, center(fmt.Sprintf("Model: %s", opts.Model), width))
	if persona := strings.TrimSpace(opts.Persona); persona != "" {
		fmt.Fprintln(w, center(fmt.Sprintf("Persona: %s", persona), width))
	}
	fmt.Fprintln(w, center(fmt.Sprintf("Tools: %d", opts.ToolCount), width))
	fmt.Fprintln(w)
	fmt.Fprintln(w, center("Type a message and press enter. Ctrl-D or /quit to exit.", width))
	fmt.Fprintln(w)
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 0
	}
	return width
}

func center(text string, width int) string {
	if width <= 0 {
		// Fallback for non-interactive outputs.
		return "  " + text
	}

	textLen := len([]rune(text))
	if textLen >= width {
		return text
	}

	padding := (width - textLen) / 2
	return strings.Repeat(" ", padding) + text
}
