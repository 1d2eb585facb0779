package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/api/request"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/api/response"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/services/directory"
)

func newAttendeesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendees",
		Short: "Attendee directory commands",
	}

	cmd.AddCommand(newAttendeesImportCmd())
	cmd.AddCommand(newAttendeesConfirmCmd())

	return cmd
}

func newAttendeesImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the event's attendee list",
		Long: `Replace the event's attendee list from a JSON or YAML file ("-" reads stdin).

The file holds either a list of records or an object with an "attendees" list.
Each record has id, name, party_size, side, confirmed (true, false or null),
and optionally phone, notes and group.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			records, err := ParseRecords(data, filepath.Ext(args[0]))
			if err != nil {
				return err
			}
			return eventCall[response.Import](http.MethodPut, "/attendees", request.ImportAttendeesRequest{Attendees: records})
		},
	}
}

func newAttendeesConfirmCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "confirm <attendee>",
		Short: "Set an attendee's RSVP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := model.Confirmation(strings.ToLower(status))
			if !c.Valid() {
				return fmt.Errorf("status must be pending, confirmed or declined, got %q", status)
			}
			path := "/attendees/" + url.PathEscape(args[0]) + "/confirmation"
			return eventCall[response.Seating](http.MethodPatch, path, request.ConfirmationRequest{Confirmed: c.Wire()})
		},
	}

	cmd.Flags().StringVar(&status, "status", string(model.ConfirmationConfirmed), "pending, confirmed or declined")

	return cmd
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// ParseRecords decodes attendee records from JSON (.json) or YAML (anything else).
// Both a bare list and an object with an "attendees" key are accepted.
func ParseRecords(data []byte, ext string) ([]directory.Record, error) {
	var wrapped struct {
		Attendees []directory.Record `json:"attendees" yaml:"attendees"`
	}
	var list []directory.Record

	if strings.EqualFold(ext, ".json") {
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			if err := json.Unmarshal(data, &list); err != nil {
				return nil, fmt.Errorf("parsing attendees: %w", err)
			}
			return list, nil
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("parsing attendees: %w", err)
		}
		return wrapped.Attendees, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing attendees: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.SequenceNode {
		if err := root.Decode(&list); err != nil {
			return nil, fmt.Errorf("parsing attendees: %w", err)
		}
		return list, nil
	}
	if err := root.Decode(&wrapped); err != nil {
		return nil, fmt.Errorf("parsing attendees: %w", err)
	}
	return wrapped.Attendees, nil
}
