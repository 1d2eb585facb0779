package cli

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/api/request"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/api/response"
)

func newViewStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view-state",
		Short: "Canvas viewport commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the stored zoom and pan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return eventCall[response.ViewState](http.MethodGet, "/view-state", nil)
		},
	})

	var req request.ViewStateRequest
	set := &cobra.Command{
		Use:   "set",
		Short: "Store the zoom and pan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return eventCall[response.ViewState](http.MethodPut, "/view-state", req)
		},
	}
	set.Flags().Float64Var(&req.Zoom, "zoom", 1, "Zoom factor")
	set.Flags().Float64Var(&req.PanX, "pan-x", 0, "Horizontal pan")
	set.Flags().Float64Var(&req.PanY, "pan-y", 0, "Vertical pan")
	cmd.AddCommand(set)

	return cmd
}
