package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for Patter.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Using a subtle gradient-like color scheme (Indigo/Violet)
	s1 := termenv.String("                _   _            ").Foreground(p.Color("#818cf8"))
	s2 := termenv.String("  _ __   __ _ _| |_| |_ ___ _ __ ").Foreground(p.Color("#a78bfa"))
	s3 := termenv.String(" | '_ \\ / _` |_  __|  __/ _ \\ '__|").Foreground(p.Color("#c084fc"))
	s4 := termenv.String(" | |_) | (_| | | |_| |_|  __/ |   ").Foreground(p.Color("#e879f9"))
	s5 := termenv.String(" | .__/ \\__,_|  \\__|\\__\\___|_|   ").Foreground(p.Color("#f472b6"))
	s6 := termenv.String(" |_|").Foreground(p.Color("#fb7185"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	if version != "" {
		fmt.Println(termenv.String("      v" + version).Foreground(p.Color("#9ca3af")))
	}
	fmt.Println()
}

// Muted styles secondary text (prompts, hints).
func Muted(s string) string {
	p := termenv.ColorProfile()
	return termenv.String(s).Foreground(p.Color("#9ca3af")).String()
}

// Accent styles highlighted text (choice numbers, sequence names).
func Accent(s string) string {
	p := termenv.ColorProfile()
	return termenv.String(s).Foreground(p.Color("#a78bfa")).Bold().String()
}
