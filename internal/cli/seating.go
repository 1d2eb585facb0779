package cli

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/api/request"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/api/response"
)

// eventCall sends a request to a path under the selected event and prints the result
func eventCall[T any](method, path string, body any) error {
	base, err := cfg.EventPath()
	if err != nil {
		return err
	}

	var result T
	if err := client.Do(method, base+path, body, &result); err != nil {
		return err
	}

	out := NewOutput(cfg.Output)
	out.Print(result)
	return nil
}

func newSeatingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seating",
		Short: "Seating arrangement commands",
	}

	cmd.AddCommand(newSeatingGetCmd())
	cmd.AddCommand(newSeatingReloadCmd())
	cmd.AddCommand(newSeatingAssignCmd())
	cmd.AddCommand(newSeatingRemoveCmd())
	cmd.AddCommand(newSeatingAutoAssignCmd())
	cmd.AddCommand(newSeatingClearCmd())
	cmd.AddCommand(newSeatingSaveCmd())

	return cmd
}

func newSeatingGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the current arrangement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return eventCall[response.Seating](http.MethodGet, "/seating", nil)
		},
	}
}

func newSeatingReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Save pending edits and reload from the store and directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return eventCall[response.Seating](http.MethodPost, "/seating/reload", nil)
		},
	}
}

func newSeatingAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <attendee> <table>",
		Short: "Seat an attendee and their companions at a table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := request.AssignRequest{AttendeeID: args[0], TableID: args[1]}
			return eventCall[response.Seating](http.MethodPost, "/seating/assign", body)
		},
	}
}

func newSeatingRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <attendee>",
		Short: "Return an attendee to the unassigned list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := request.RemoveRequest{AttendeeID: args[0]}
			return eventCall[response.Seating](http.MethodPost, "/seating/remove", body)
		},
	}
}

func newSeatingAutoAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auto-assign",
		Short: "Seat confirmed attendees wherever their party fits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return eventCall[response.AutoAssign](http.MethodPost, "/seating/auto-assign", nil)
		},
	}
}

func newSeatingClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Unseat everyone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return eventCall[response.Seating](http.MethodPost, "/seating/clear", request.ClearRequest{Confirm: yes})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm clearing every table")

	return cmd
}

func newSeatingSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Save now instead of waiting for the quiet period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return eventCall[response.Save](http.MethodPost, "/seating/save", nil)
		},
	}
}

func newTablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Table commands",
	}

	cmd.AddCommand(newTablesAddCmd())
	cmd.AddCommand(newTablesMoveCmd())

	return cmd
}

func newTablesAddCmd() *cobra.Command {
	var req request.AddTableRequest

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an empty table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return eventCall[response.Table](http.MethodPost, "/seating/tables", req)
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Table name (default: Table N)")
	cmd.Flags().IntVar(&req.Capacity, "capacity", 10, "Number of seats")
	cmd.Flags().StringVar(&req.Shape, "shape", "", "round or rectangular")
	cmd.Flags().Float64Var(&req.Position.X, "x", 0, "Board x coordinate")
	cmd.Flags().Float64Var(&req.Position.Y, "y", 0, "Board y coordinate")

	return cmd
}

func newTablesMoveCmd() *cobra.Command {
	var req request.MoveTableRequest

	cmd := &cobra.Command{
		Use:   "move <table>",
		Short: "Move a table on the board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return eventCall[response.Table](http.MethodPatch, "/seating/tables/"+url.PathEscape(args[0]), req)
		},
	}

	cmd.Flags().Float64Var(&req.Position.X, "x", 0, "Board x coordinate")
	cmd.Flags().Float64Var(&req.Position.Y, "y", 0, "Board y coordinate")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")

	return cmd
}

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Layout commands",
	}

	cmd.AddCommand(newLayoutGenerateCmd())

	return cmd
}

func newLayoutGenerateCmd() *cobra.Command {
	var req request.LayoutRequest

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Replace the tables with a generated grid",
		Long: `Generate empty tables for a guest count and lay them out on a grid.

The fixed policy creates identical tables. The mixed policy creates
--large-count rectangular tables followed by enough standard round tables.
A guest count of zero uses every attendee who may be seated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Policy != "fixed" && req.Policy != "mixed" {
				return fmt.Errorf("policy must be fixed or mixed, got %q", req.Policy)
			}
			return eventCall[response.Layout](http.MethodPost, "/seating/layout", req)
		},
	}

	cmd.Flags().IntVar(&req.GuestCount, "guests", 0, "Guest count (default: from the directory)")
	cmd.Flags().StringVar(&req.Policy, "policy", "fixed", "fixed or mixed")
	cmd.Flags().IntVar(&req.Capacity, "capacity", 10, "Seats per table (fixed)")
	cmd.Flags().StringVar(&req.Shape, "shape", "", "Table shape (fixed)")
	cmd.Flags().IntVar(&req.LargeCount, "large-count", 0, "Number of large tables (mixed)")
	cmd.Flags().IntVar(&req.LargeCapacity, "large-capacity", 0, "Seats per large table (mixed)")
	cmd.Flags().IntVar(&req.StandardCapacity, "standard-capacity", 10, "Seats per standard table (mixed)")

	return cmd
}

func newMetadataCmd() *cobra.Command {
	var (
		name, description string
		guestCount        int
		width, height     float64
		isDefault         bool
	)

	cmd := &cobra.Command{
		Use:   "metadata",
		Short: "Update the plan's name, description and board size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req request.MetadataRequest
			flags := cmd.Flags()
			if flags.Changed("name") {
				req.Name = &name
			}
			if flags.Changed("description") {
				req.Description = &description
			}
			if flags.Changed("guest-count") {
				req.GuestCountHint = &guestCount
			}
			if flags.Changed("width") || flags.Changed("height") {
				if !flags.Changed("width") || !flags.Changed("height") {
					return fmt.Errorf("--width and --height must be given together")
				}
				req.Dimensions = &request.Dimensions{Width: width, Height: height}
			}
			if flags.Changed("default") {
				req.IsDefault = &isDefault
			}
			return eventCall[response.Metadata](http.MethodPatch, "/seating/metadata", req)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Plan name")
	cmd.Flags().StringVar(&description, "description", "", "Plan description")
	cmd.Flags().IntVar(&guestCount, "guest-count", 0, "Expected guest count")
	cmd.Flags().Float64Var(&width, "width", 0, "Board width")
	cmd.Flags().Float64Var(&height, "height", 0, "Board height")
	cmd.Flags().BoolVar(&isDefault, "default", false, "Mark as the event's default plan")

	return cmd
}

func newUnassignedCmd() *cobra.Command {
	var query, side, status string

	cmd := &cobra.Command{
		Use:   "unassigned",
		Short: "List unassigned attendees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := url.Values{}
			if query != "" {
				params.Set("q", query)
			}
			if side != "" {
				params.Set("side", side)
			}
			if status != "" {
				params.Set("status", status)
			}
			path := "/seating/unassigned"
			if len(params) > 0 {
				path += "?" + params.Encode()
			}
			return eventCall[response.Unassigned](http.MethodGet, path, nil)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Match name, phone, notes or group")
	cmd.Flags().StringVar(&side, "side", "", "bride, groom or shared")
	cmd.Flags().StringVar(&status, "status", "", "pending, confirmed or declined")

	return cmd
}
