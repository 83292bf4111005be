package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docdex/docdex/internal/store"
	"github.com/docdex/docdex/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Show a single document, body included",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		slug := args[0]

		st, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening index: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()

		doc, err := st.DocumentBySlug(slug)
		if err != nil {
			if errors.Is(err, store.ErrDocumentNotFound) {
				fmt.Fprintf(os.Stderr, "%s No document with slug %q\n", ui.RenderErr("✗"), slug)
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "Error fetching document: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%s %s\n", ui.RenderAccent("📄"), doc.Slug)
		if doc.Title != "" {
			fmt.Printf("Title: %s\n", doc.Title)
		}
		if doc.ID != "" {
			fmt.Printf("ID: %s\n", doc.ID)
		}
		if doc.Description != "" {
			fmt.Printf("Description: %s\n", doc.Description)
		}
		if doc.Date != "" {
			fmt.Printf("Date: %s\n", doc.Date)
		}
		if doc.Category != "" {
			label := doc.Category
			if doc.CategoryLabel != "" {
				label = doc.CategoryLabel
			}
			fmt.Printf("Category: %s\n", label)
		}
		if len(doc.Points) > 0 {
			fmt.Printf("Points: %s\n", strings.Join(doc.Points, ", "))
		}
		if len(doc.Contacts) > 0 {
			fmt.Printf("Contacts: %s\n", strings.Join(doc.Contacts, ", "))
		}
		fmt.Printf("Sort: %d\n", doc.Sort)
		fmt.Println()
		fmt.Print(doc.Content)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
