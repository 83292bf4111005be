// Command docdex manages a SQLite-backed index of front-matter markdown
// documents: seed it from a docs directory, query it, export it, and serve
// it over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/docdex/docdex/internal/content"
	"github.com/docdex/docdex/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "docdex",
	Short: "Document index backed by a local SQLite cache",
	Long: `docdex seeds a local SQLite cache from a directory of markdown
documents with YAML front matter and serves fixed queries against it.

The docs directory is resolved automatically (./docs, ../docs, or next to
the executable) unless --docs is given. The cache file defaults to a
sibling data/ directory next to the docs directory.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("docs", "", "Docs directory (default: auto-resolved)")
	rootCmd.PersistentFlags().String("db", "", "Cache file path (default: <docs>/../data/docdex.db)")

	_ = viper.BindPFlag("docs", rootCmd.PersistentFlags().Lookup("docs"))
	_ = viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))

	viper.SetEnvPrefix("DOCDEX")
	viper.AutomaticEnv()
}

// openStore resolves the docs directory and cache path from flags and
// environment, then opens (and seeds) the store.
func openStore() (*store.Store, error) {
	docsDir := viper.GetString("docs")
	if docsDir == "" {
		resolved, err := content.ResolveDocsDir()
		if err != nil {
			return nil, err
		}
		docsDir = resolved
	}

	dbPath := viper.GetString("db")
	if dbPath == "" {
		dbPath = store.DefaultPath(docsDir)
	}

	return store.Open(dbPath, docsDir)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
