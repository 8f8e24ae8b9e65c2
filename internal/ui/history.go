package ui

import (
	"fmt"
	"time"
)

// HistoryEntry is a recorded gesture for display
type HistoryEntry struct {
	At         time.Time
	Kind       string
	Weight     int
	Command    string
	WasPlaying bool
}

// PrintHistory displays recorded gestures, newest first
func PrintHistory(path string, entries []HistoryEntry) {
	if len(entries) == 0 {
		fmt.Println(Warning("No gestures recorded yet"))
		fmt.Printf("  %s %s\n", Muted("Journal:"), path)
		return
	}

	fmt.Println()
	fmt.Println(Title("Gesture History"))
	fmt.Println(Muted(fmt.Sprintf("%d most recent from %s", len(entries), path)))
	fmt.Println()

	for _, e := range entries {
		fmt.Println("  " + formatHistoryEntry(e))
	}
	fmt.Println()
}

func formatHistoryEntry(e HistoryEntry) string {
	state := "paused"
	if e.WasPlaying {
		state = "playing"
	}
	return fmt.Sprintf("%s  %s %s %s",
		TimestampStyle.Render(e.At.Local().Format("2006-01-02 15:04:05.000")),
		GestureStyle.Render(describeGesture(e)),
		CommandStyle.Render(e.Command),
		Muted("(was "+state+")"),
	)
}

func describeGesture(e HistoryEntry) string {
	switch e.Kind {
	case "tap":
		if e.Weight == 1 {
			return "tap"
		}
		return fmt.Sprintf("tap x%d", e.Weight)
	case "hold":
		return fmt.Sprintf("hold (w%d)", e.Weight)
	default:
		return e.Kind
	}
}
