package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func addList(topLevel *cobra.Command, o *options) {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the title of every stored document",
		Example: `
termnotes list
termnotes list --backend disk
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := o.setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			for _, header := range e.notes.Headers().Sorted() {
				fmt.Fprintln(cmd.OutOrStdout(), header)
			}
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
