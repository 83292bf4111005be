package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/docdex/docdex/internal/dashboard"
	"github.com/docdex/docdex/internal/ui"
	"github.com/docdex/docdex/internal/watch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the index over HTTP with a real-time dashboard",
	Long: `Start the dashboard server, exposing the query surface over REST
and broadcasting seed events to WebSocket clients.

Endpoints:
  GET  /api/documents          Ordered metadata listing
  GET  /api/documents/{slug}   Single document, body included
  GET  /api/slugs              Slug listing
  POST /api/reseed             Wipe and repopulate the index
  GET  /health                 Health check
  WS   /ws                     Seed events and statistics

With --watch, the docs directory is monitored and edits trigger an
automatic reseed after a short quiet period.

Example usage:
  docdex serve                   # Start on default port 8080
  docdex serve --port 9000       # Start on custom port
  docdex serve --watch           # Reseed on document changes`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetInt("port")
		watchDocs, _ := cmd.Flags().GetBool("watch")
		logFile, _ := cmd.Flags().GetString("log-file")

		var logOut io.Writer = os.Stderr
		if logFile != "" {
			logOut = &lumberjack.Logger{
				Filename:   logFile,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
			}
		}
		logger := log.New(logOut, "[docdex] ", log.LstdFlags)

		st, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening index: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()

		config := &dashboard.Config{
			Port:   port,
			Logger: logger,
		}
		server := dashboard.NewServer(config, st)

		if err := server.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to start server: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%s Serving index from %s\n", ui.RenderAccent("🚀"), st.DocsDir())
		fmt.Printf("   API: http://localhost:%d/api/documents\n", port)
		fmt.Printf("   WebSocket: ws://localhost:%d/ws\n", port)
		fmt.Printf("   Health: http://localhost:%d/health\n", port)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if watchDocs {
			watcher, err := watch.NewWatcher()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error creating watcher: %v\n", err)
				os.Exit(1)
			}
			if err := watcher.Start(st.DocsDir()); err != nil {
				fmt.Fprintf(os.Stderr, "Error watching docs: %v\n", err)
				os.Exit(1)
			}
			defer watcher.Stop()

			fmt.Printf("%s Watching %s for changes\n", ui.RenderAccent("👁"), st.DocsDir())

			triggers := watch.Coalesce(watcher.Events(), 500*time.Millisecond)
			go func() {
				for range triggers {
					start := time.Now()
					if err := st.SeedContext(ctx); err != nil {
						logger.Printf("Watch reseed failed: %v", err)
						continue
					}
					count, err := st.CountContext(ctx)
					if err != nil {
						logger.Printf("Failed to count documents: %v", err)
						continue
					}
					server.NotifySeedComplete(ctx, count, time.Since(start))
				}
			}()

			go func() {
				for err := range watcher.Errors() {
					logger.Printf("Watcher error: %v", err)
				}
			}()
		}

		fmt.Println("\nPress Ctrl+C to stop...")
		<-ctx.Done()

		fmt.Println("\nShutting down...")
		if err := server.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Server stopped")
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().Bool("watch", false, "Reseed automatically when documents change")
	serveCmd.Flags().String("log-file", "", "Write server logs to a rotating file")
	rootCmd.AddCommand(serveCmd)
}
