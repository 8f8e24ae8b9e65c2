package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pleimann/hookpad/internal/utils"
)

type example struct {
	cmd  string
	desc string
}

// PrintUsage displays the styled help/usage text
func PrintUsage(version string) {
	printBanner(version, ColorMuted)
	fmt.Println(Muted("Headset and media-key gestures for MPRIS players"))
	fmt.Println()

	name := utils.ExecutableName()
	printSection("Usage", []string{
		name + " [flags]              Listen for button gestures",
		name + " list-devices         List available HID devices",
		name + " set-device [args]    Configure the HID device",
		name + " history [flags]      Show recently recognized gestures",
		name + " help                 Show this help message",
	})

	printSection("Flags", []string{
		"-config string    Path to configuration file (default \"config.yaml\")",
		"-verbose          Enable debug logging",
		"-version          Print version and exit",
	})

	printCommandSection()
	printGestureSection()

	printExamples([]example{
		{name, "Run with default config.yaml"},
		{name + " -config ~/.config/hookpad.yaml", "Run with custom config file"},
		{name + " list-devices", "List connected HID devices"},
		{name + " set-device", "Interactive device selection"},
		{name + " set-device 0x046D 0x0A44", "Set device by vendor/product ID"},
		{name + " history -limit 50", "Show the last 50 gestures"},
	})
}

func printBanner(version string, versionColor lipgloss.Color) {
	banner := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Render(utils.ExecutableName())

	versionTag := lipgloss.NewStyle().
		Foreground(versionColor).
		Render("v" + version)

	fmt.Printf("%s %s\n", banner, versionTag)
}

func printSection(title string, items []string) {
	fmt.Println(Bold(title))
	for _, item := range items {
		fmt.Printf("  %s\n", item)
	}
	fmt.Println()
}

func printCommandSection() {
	fmt.Println(Bold("Commands"))

	cmdStyle := lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)

	fmt.Printf("  %s\n", cmdStyle.Render("list-devices"))
	fmt.Printf("      List available HID devices, marking media-control interfaces\n")
	fmt.Println()

	fmt.Printf("  %s\n", cmdStyle.Render("set-device"))
	fmt.Printf("      Set the HID device in the config file\n")
	fmt.Printf("      Run %s for more information\n", Code(utils.ExecutableName()+" set-device --help"))
	fmt.Println()

	fmt.Printf("  %s\n", cmdStyle.Render("history"))
	fmt.Printf("      Print gestures recorded in the journal\n")
	fmt.Printf("      Run %s for more information\n", Code(utils.ExecutableName()+" history --help"))
	fmt.Println()
}

func printGestureSection() {
	printSection("Gestures", []string{
		"tap play/pause     Toggle playback",
		"tap next           Seek forward 5 minutes",
		"tap previous       Seek back 5 minutes",
		"hold any button    Step back, fast forward or rewind; release resumes",
		"stop               Stop immediately",
		"Taps add up: next + play/pause reads as previous, and so on.",
	})
}

func printExamples(examples []example) {
	fmt.Println(Bold("Examples"))

	cmdStyle := lipgloss.NewStyle().
		Foreground(ColorSecondary)

	maxLen := 0
	for _, ex := range examples {
		if len(ex.cmd) > maxLen {
			maxLen = len(ex.cmd)
		}
	}

	for _, ex := range examples {
		padding := strings.Repeat(" ", maxLen-len(ex.cmd)+2)
		fmt.Printf("  %s%s%s\n", cmdStyle.Render(ex.cmd), padding, Muted(ex.desc))
	}
	fmt.Println()
}

// PrintSetDeviceUsage displays the styled help text for set-device subcommand
func PrintSetDeviceUsage() {
	name := utils.ExecutableName()

	fmt.Println(Bold("Usage:"), name+" set-device [options] [vendor_id product_id]")
	fmt.Println()
	fmt.Println("Set the HID device in the configuration file.")
	fmt.Println()
	fmt.Println(Muted("If vendor_id and product_id are provided, updates the config directly."))
	fmt.Println(Muted("Otherwise, displays a list of connected devices to choose from."))
	fmt.Println()

	fmt.Println(Bold("Arguments"))
	fmt.Printf("  %s    Device vendor ID (hex with 0x prefix or decimal)\n", SubtitleStyle.Render("vendor_id"))
	fmt.Printf("  %s   Device product ID (hex with 0x prefix or decimal)\n", SubtitleStyle.Render("product_id"))
	fmt.Println()

	fmt.Println(Bold("Options"))
	fmt.Printf("  %s    Path to configuration file (default \"config.yaml\")\n", SubtitleStyle.Render("-config string"))
	fmt.Println()

	printExamples([]example{
		{name + " set-device", "Interactive selection"},
		{name + " set-device 0x046D 0x0A44", "Direct specification"},
		{name + " set-device -config my.yaml", "Use different config"},
	})
}

// PrintHistoryUsage displays the styled help text for the history subcommand
func PrintHistoryUsage() {
	name := utils.ExecutableName()

	fmt.Println(Bold("Usage:"), name+" history [options]")
	fmt.Println()
	fmt.Println("Print the most recent gestures from the journal, newest first.")
	fmt.Println()

	fmt.Println(Bold("Options"))
	fmt.Printf("  %s    Path to configuration file (default \"config.yaml\")\n", SubtitleStyle.Render("-config string"))
	fmt.Printf("  %s        Number of gestures to show (default 20)\n", SubtitleStyle.Render("-limit int"))
	fmt.Println()

	printExamples([]example{
		{name + " history", "Last 20 gestures"},
		{name + " history -limit 100", "Last 100 gestures"},
	})
}

// PrintVersion displays the styled version information
func PrintVersion(version string) {
	printBanner(version, ColorSuccess)
}

// PrintFatalError displays a styled fatal error message with context
func PrintFatalError(context, message string) {
	fmt.Println()
	fmt.Println(Error(context))
	fmt.Printf("  %s\n", Muted(message))
	fmt.Println()
}
