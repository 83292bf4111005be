package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/docdex/docdex/internal/ui"
)

var reseedCmd = &cobra.Command{
	Use:   "reseed",
	Short: "Wipe and repopulate the index from the docs directory",
	Long: `Re-parse every markdown document and rebuild the cache in a single
transaction. Readers see either the old row set or the new one, never a
partial mix.`,
	Run: func(cmd *cobra.Command, args []string) {
		st, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening index: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()

		// Open already ran a full seed; run another pass so the command
		// reports its own timing against the current source state.
		fmt.Printf("%s Reseeding from %s...\n", ui.RenderAccent("🔄"), st.DocsDir())
		start := time.Now()

		if err := st.Seed(); err != nil {
			fmt.Fprintf(os.Stderr, "Error during reseed: %v\n", err)
			os.Exit(1)
		}

		elapsed := time.Since(start)
		count, _ := st.Count()

		fmt.Printf("%s Reseed complete in %v\n", ui.RenderPass("✓"), elapsed.Round(time.Millisecond))
		fmt.Printf("   Documents: %d\n", count)
		fmt.Printf("   Cache: %s\n", st.Path())
	},
}

func init() {
	rootCmd.AddCommand(reseedCmd)
}
