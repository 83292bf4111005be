package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/docdex/docdex/internal/content"
	"github.com/docdex/docdex/internal/store"
	"github.com/docdex/docdex/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index status",
	Long: `Display the current state of the document index.

Shows:
  - Docs directory and cache file location
  - Cache file size and modification time
  - Number of indexed documents`,
	Run: func(cmd *cobra.Command, args []string) {
		docsDir := viper.GetString("docs")
		if docsDir == "" {
			resolved, err := content.ResolveDocsDir()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			docsDir = resolved
		}

		dbPath := viper.GetString("db")
		if dbPath == "" {
			dbPath = store.DefaultPath(docsDir)
		}

		// Check the cache file before opening, since opening creates it
		info, err := os.Stat(dbPath)
		if os.IsNotExist(err) {
			fmt.Printf("\n%s Index not initialized\n", ui.RenderWarn("⚠"))
			fmt.Printf("   Run 'docdex reseed' to create the cache\n\n")
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error checking cache: %v\n", err)
			os.Exit(1)
		}

		st, err := store.Open(dbPath, docsDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening index: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()

		count, err := st.Count()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error counting documents: %v\n", err)
			os.Exit(1)
		}

		// Format file size
		size := info.Size()
		sizeStr := fmt.Sprintf("%d bytes", size)
		if size > 1024*1024 {
			sizeStr = fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
		} else if size > 1024 {
			sizeStr = fmt.Sprintf("%.1f KB", float64(size)/1024)
		}

		fmt.Printf("\n%s Document Index Status\n\n", ui.RenderAccent("📊"))
		fmt.Printf("Docs: %s\n", docsDir)
		fmt.Printf("Cache: %s\n", dbPath)
		fmt.Printf("Size: %s\n", sizeStr)
		fmt.Printf("Documents: %d\n", count)
		fmt.Printf("Modified: %s\n", info.ModTime().Format("2006-01-02 15:04:05"))
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
