package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"buildbeacon-agent/src/buildname"
)

var prefixFlag string

// nameCmd shows how build names are shortened for the display.
var nameCmd = &cobra.Command{
	Use:         "name <raw build name>...",
	Short:       "Show the display label and changelist derived from build names",
	Args:        cobra.MinimumNArgs(1),
	Annotations: map[string]string{skipConfig: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix := prefixFlag
		if prefix == "" {
			prefix = os.Getenv("BUILDBEACON_PROJECT_PREFIX")
		}
		interp, err := buildname.New(prefix)
		if err != nil {
			return fmt.Errorf("invalid project prefix (set --prefix or BUILDBEACON_PROJECT_PREFIX): %w", err)
		}
		return printNames(cmd.OutOrStdout(), interp, args)
	},
}

func printNames(w io.Writer, interp *buildname.Interpreter, names []string) error {
	for _, raw := range names {
		friendly := interp.Interpret(raw)
		cl := "unparsed"
		if friendly.Valid() {
			cl = fmt.Sprintf("%d", friendly.Changelist)
		}
		if _, err := fmt.Fprintf(w, "%q\n  label:      %s\n  changelist: %s\n", raw, friendly.Label, cl); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	nameCmd.Flags().StringVar(&prefixFlag, "prefix", "", "project prefix (default $BUILDBEACON_PROJECT_PREFIX)")
}
