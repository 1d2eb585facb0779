package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/api/response"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/allocation"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/session"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Health:
		fmt.Printf("Status: %s\n", v.Status)
		fmt.Printf("Active sessions: %d\n", v.ActiveSessions)
	case response.Seating:
		o.printSeating(v)
	case response.AutoAssign:
		o.printReport(v.Report)
		fmt.Println()
		o.printSeating(v.Seating)
	case response.Save:
		fmt.Printf("Save: %s\n", v.Outcome)
		o.printNotice(v.Seating.SaveNotice)
	case response.Layout:
		fmt.Printf("Generated %d tables on a %.0fx%.0f board\n",
			len(v.Layout.Tables), v.Layout.Dimensions.Width, v.Layout.Dimensions.Height)
		for _, t := range v.Layout.Tables {
			o.printTableLine(t)
		}
	case response.Table:
		o.printTableLine(v.Table)
	case response.Unassigned:
		o.printAttendees(v.Attendees)
	case response.Metadata:
		o.printMeta(v.Meta)
	case response.Import:
		fmt.Printf("Imported: %d\n", v.Report.Imported)
		for _, reason := range v.Report.Skipped {
			fmt.Printf("  skipped: %s\n", reason)
		}
	case response.ViewState:
		fmt.Printf("Zoom: %.2f\n", v.Zoom)
		fmt.Printf("Pan: %.0f, %.0f\n", v.PanX, v.PanY)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printSeating(v response.Seating) {
	o.printMeta(v.Meta)
	fmt.Printf("Revision: %d (%s)\n", v.Revision, v.SaveState)
	fmt.Printf("Seats: %d/%d occupied, %d seated, %d unassigned\n",
		v.Stats.OccupiedSeats, v.Stats.TotalSeats, v.Stats.SeatedAttendees, v.Stats.UnassignedAttendees)
	if v.FetchError != "" {
		fmt.Printf("Warning: %s\n", v.FetchError)
	}
	o.printNotice(v.SaveNotice)

	fmt.Printf("\nTables (%d):\n", len(v.Tables))
	for _, t := range v.Tables {
		o.printTableLine(t)
		for _, occ := range t.Occupants {
			if occ.IsCompanion() {
				continue
			}
			fmt.Printf("      - %s (%s, party of %d)\n", occ.Attendee.Name, occ.Attendee.ID, occ.Attendee.Seats())
		}
	}

	fmt.Printf("\nUnassigned (%d):\n", len(v.Unassigned))
	o.printAttendees(v.Unassigned)
}

func (o *Output) printMeta(m model.ArrangementMeta) {
	fmt.Printf("Plan: %s\n", m.Name)
	if m.Description != "" {
		fmt.Printf("Description: %s\n", m.Description)
	}
	fmt.Printf("Board: %.0fx%.0f\n", m.Dimensions.Width, m.Dimensions.Height)
}

func (o *Output) printTableLine(t model.Table) {
	fmt.Printf("  [%s] %s: %d/%d seats, %s at (%.0f, %.0f)\n",
		t.ID, t.Name, allocation.OccupiedSeats(t), t.Capacity, t.Shape, t.Position.X, t.Position.Y)
}

func (o *Output) printAttendees(attendees []model.Attendee) {
	for _, a := range attendees {
		extra := []string{string(a.Side), string(a.Confirmation)}
		if a.Group != "" {
			extra = append(extra, a.Group)
		}
		fmt.Printf("  - %s (%s) x%d [%s]\n", a.Name, a.ID, a.Seats(), strings.Join(extra, ", "))
	}
}

func (o *Output) printReport(r allocation.Report) {
	fmt.Printf("Placed: %d parties, %d seats\n", r.PlacedCount, r.PlacedSeats)
	if len(r.Failed) > 0 {
		ids := make([]string, len(r.Failed))
		for i, id := range r.Failed {
			ids[i] = string(id)
		}
		fmt.Printf("No room for: %s\n", strings.Join(ids, ", "))
	}
}

func (o *Output) printNotice(n *session.SaveNotice) {
	if n == nil {
		return
	}
	status := "ok"
	if !n.OK {
		status = "failed"
	}
	fmt.Printf("Last save: %s at %s (%s)\n", status, n.At.Format("15:04:05"), n.Message)
}
