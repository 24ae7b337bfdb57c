package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/actioncheck/internal/schema"
)

// SchemaResult is the JSON payload of the schema command.
type SchemaResult struct {
	Language string `json:"language"`
	Source   string `json:"source"`
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "schema",
		Short:         "Print the CUE schema scenario files must satisfy",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			if formatter.JSON() {
				return formatter.Success(SchemaResult{Language: "cue", Source: schema.Source()})
			}
			_, err := cmd.OutOrStdout().Write([]byte(schema.Source()))
			return err
		},
	}
}
