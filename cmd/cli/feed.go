package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SamuelMasih777/micro-feed/internal/client"
	"github.com/spf13/cobra"
)

var (
	feedQuery  string
	feedFilter string
	feedLimit  int
	feedPages  int
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Browse the feed",
	Long:  "Fetch the feed newest-first, optionally filtered to your own posts or a search query",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showFeed()
	},
}

func init() {
	feedCmd.Flags().StringVar(&feedQuery, "query", "", "Search posts by content substring")
	feedCmd.Flags().StringVar(&feedFilter, "filter", "all", "Feed filter: all or mine")
	feedCmd.Flags().IntVar(&feedLimit, "limit", 10, "Posts per page (1-50)")
	feedCmd.Flags().IntVar(&feedPages, "pages", 1, "Number of pages to fetch")
}

func showFeed() error {
	feed := client.NewFeed(apiClient())
	feed.SetQuery(feedQuery)
	feed.SetFilter(feedFilter)
	feed.Limit = feedLimit

	ctx := context.Background()
	if err := feed.Refresh(ctx); err != nil {
		return err
	}
	for page := 1; page < feedPages && feed.HasMore(); page++ {
		if err := feed.LoadMore(ctx); err != nil {
			return err
		}
	}

	posts := feed.Posts()
	if output == "json" {
		encoded, err := json.MarshalIndent(posts, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode posts: %w", err)
		}
		fmt.Println(string(encoded))
		return nil
	}

	if len(posts) == 0 {
		fmt.Println("No posts found")
		return nil
	}
	for _, post := range posts {
		liked := " "
		if post.IsLiked {
			liked = "*"
		}
		fmt.Printf("[%s] %s @%s (%d likes)\n", liked, post.CreatedAt.Local().Format("2006-01-02 15:04"), post.Author.Username, post.LikesCount)
		fmt.Printf("    %s\n", post.Content)
		fmt.Printf("    id: %s\n", post.ID)
	}
	if feed.HasMore() {
		fmt.Println("... more posts available")
	}
	return nil
}
