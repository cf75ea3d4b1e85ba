package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"termnotes/buffer"
	"termnotes/files"
)

func addPull(topLevel *cobra.Command, o *options) {
	var output string
	cmd := &cobra.Command{
		Use:   "pull TITLE",
		Short: "Write a stored document to a file or stdout",
		Example: `
termnotes pull groceries
termnotes pull groceries -o groceries.txt
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			content, err := e.notes.Fetch(cmd.Context(), buffer.HeaderFor(args[0]))
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}
			return files.Write(output, strings.NewReader(content))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write, stdout when empty")

	topLevel.AddCommand(cmd)
}

func addPush(topLevel *cobra.Command, o *options) {
	cmd := &cobra.Command{
		Use:   "push TITLE FILE",
		Short: "Create or update a stored document from a file (- for stdin)",
		Example: `
termnotes push groceries groceries.txt
echo hello | termnotes push scratch -
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			content, err := files.Read(args[1])
			if err != nil {
				return err
			}
			op, err := e.notes.Push(cmd.Context(), buffer.HeaderFor(args[0]), content)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", op.Header, op.Kind)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

func addVersion(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the termnotes version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}

	topLevel.AddCommand(cmd)
}
