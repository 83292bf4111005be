package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docdex/docdex/internal/export"
	"github.com/docdex/docdex/internal/ui"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the index as JSONL",
	Long: `Write every indexed document as JSON, one object per line, in
listing order. With --out the write is atomic (temp file plus rename);
without it the stream goes to stdout.`,
	Run: func(cmd *cobra.Command, args []string) {
		outPath, _ := cmd.Flags().GetString("out")

		st, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening index: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()

		ctx := context.Background()

		if outPath == "" {
			if _, err := export.WriteJSONL(ctx, st, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "Error during export: %v\n", err)
				os.Exit(1)
			}
			return
		}

		result, err := export.ExportFile(ctx, st, outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error during export: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%s Exported %d documents to %s (%d bytes)\n",
			ui.RenderPass("✓"), result.Documents, outPath, result.BytesWritten)
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "Output file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}
