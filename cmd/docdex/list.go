package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/docdex/docdex/internal/ui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all documents in reading order",
	Long: `List every indexed document's metadata, ordered by sort key
descending with slug descending as tiebreak. Bodies are not shown.`,
	Run: func(cmd *cobra.Command, args []string) {
		st, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening index: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()

		metas, err := st.Documents()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing documents: %v\n", err)
			os.Exit(1)
		}

		if len(metas) == 0 {
			fmt.Printf("%s No documents indexed\n", ui.RenderWarn("⚠"))
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SLUG\tSORT\tCATEGORY\tTITLE")
		for _, m := range metas {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", m.Slug, m.Sort, m.Category, m.Title)
		}
		_ = w.Flush()

		fmt.Printf("\n%s %d documents\n", ui.RenderPass("✓"), len(metas))
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
