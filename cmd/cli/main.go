package main

import (
	"fmt"
	"os"

	"github.com/SamuelMasih777/micro-feed/internal/client"
	"github.com/spf13/cobra"
)

var (
	authToken string
	apiURL    string = "http://localhost:8080"
	output    string = "text" // "text" or "json"
)

var rootCmd = &cobra.Command{
	Use:   "microfeed",
	Short: "Micro-feed CLI - Post, browse and like from the terminal",
	Long: `Micro-feed CLI provides command-line access to a micro-feed server.
Browse the feed, publish and edit posts, and toggle likes.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if authToken == "" {
			authToken = os.Getenv("MICROFEED_TOKEN")
		}
		if authToken == "" && cmd.Name() != "help" && cmd.Parent() != nil {
			fmt.Fprintf(os.Stderr, "Error: MICROFEED_TOKEN environment variable not set\n")
			fmt.Fprintf(os.Stderr, "Please set your auth token: export MICROFEED_TOKEN=<your-token>\n")
			os.Exit(1)
		}
	},
}

func apiClient() *client.Client {
	return client.NewClient(apiURL, authToken)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "Authentication token (defaults to MICROFEED_TOKEN env var)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", apiURL, "API server URL")
	rootCmd.PersistentFlags().StringVar(&output, "output", output, "Output format: text or json")

	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(postCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
