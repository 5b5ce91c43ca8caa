package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SamuelMasih777/micro-feed/internal/client"
	"github.com/spf13/cobra"
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Post management commands",
	Long:  "Create, edit, delete and like posts",
}

var postCreateCmd = &cobra.Command{
	Use:   "create <content>",
	Short: "Publish a new post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		post, err := apiClient().CreatePost(context.Background(), args[0])
		if err != nil {
			return err
		}
		return printPost(post, "Post created")
	},
}

var postEditCmd = &cobra.Command{
	Use:   "edit <post-id> <content>",
	Short: "Edit one of your posts",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		post, err := apiClient().UpdatePost(context.Background(), args[0], args[1])
		if err != nil {
			return err
		}
		return printPost(post, "Post updated")
	},
}

var postDeleteCmd = &cobra.Command{
	Use:   "delete <post-id>",
	Short: "Delete one of your posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiClient().DeletePost(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Println("Post deleted")
		return nil
	},
}

var postLikeCmd = &cobra.Command{
	Use:   "like <post-id>",
	Short: "Like a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiClient().LikePost(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Println("Post liked")
		return nil
	},
}

var postUnlikeCmd = &cobra.Command{
	Use:   "unlike <post-id>",
	Short: "Remove your like from a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiClient().UnlikePost(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Println("Post unliked")
		return nil
	},
}

func init() {
	postCmd.AddCommand(postCreateCmd)
	postCmd.AddCommand(postEditCmd)
	postCmd.AddCommand(postDeleteCmd)
	postCmd.AddCommand(postLikeCmd)
	postCmd.AddCommand(postUnlikeCmd)
}

func printPost(post *client.Post, message string) error {
	if output == "json" {
		encoded, err := json.MarshalIndent(post, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode post: %w", err)
		}
		fmt.Println(string(encoded))
		return nil
	}
	fmt.Printf("%s: %s\n", message, post.ID)
	fmt.Printf("    %s\n", post.Content)
	return nil
}
