package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var slugsCmd = &cobra.Command{
	Use:   "slugs",
	Short: "List every indexed slug",
	Long: `Print one slug per line. No ordering is applied; use this for
scripting and existence checks, not for display.`,
	Run: func(cmd *cobra.Command, args []string) {
		st, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening index: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()

		slugs, err := st.Slugs()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing slugs: %v\n", err)
			os.Exit(1)
		}

		for _, slug := range slugs {
			fmt.Println(slug)
		}
	},
}

func init() {
	rootCmd.AddCommand(slugsCmd)
}
