package main

import (
	"fmt"
	"os"

	"github.com/collabblog/blogclient/internal/api"
	"github.com/spf13/cobra"
)

func listFlags(cmd *cobra.Command, params *api.ListParams) {
	cmd.Flags().IntVar(&params.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&params.Limit, "limit", 10, "page size")
	cmd.Flags().StringVar(&params.Search, "search", "", "search term")
}

func newArticlesCmd(appOf func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "articles",
		Short: "Browse and manage articles",
	}

	var listParams api.ListParams
	var mine bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List articles, paginated",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appOf()
			var (
				page api.PostPage
				err  error
			)
			if mine {
				page, err = a.posts.Mine(cmd.Context(), listParams)
			} else {
				page, err = a.posts.List(cmd.Context(), listParams)
			}
			if err != nil {
				return err
			}
			for _, p := range page.Posts {
				author := p.UserID
				if p.Author != nil && p.Author.FullName != "" {
					author = p.Author.FullName
				}
				fmt.Printf("%s  %-40s  %s  %s\n",
					p.ID, p.Title, author, p.CreatedAt.Format("2006-01-02"))
			}
			fmt.Printf("page %d/%d (%d total)\n",
				page.Pagination.Page, page.Pagination.TotalPages, page.Pagination.Total)
			return nil
		},
	}
	listFlags(list, &listParams)
	list.Flags().BoolVar(&mine, "mine", false, "only my articles")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			post, err := appOf().posts.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(post)
		},
	}

	var create api.CreatePostData
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a new article",
		RunE: func(cmd *cobra.Command, args []string) error {
			post, err := appOf().posts.Create(cmd.Context(), create)
			if err != nil {
				return err
			}
			fmt.Println("created", post.ID)
			return nil
		},
	}
	createCmd.Flags().StringVar(&create.Title, "title", "", "article title")
	createCmd.Flags().StringVar(&create.Content, "content", "", "article body")
	createCmd.Flags().StringVar(&create.Image, "image", "", "cover image url")
	createCmd.Flags().StringSliceVar(&create.Tags, "tags", nil, "tags")
	_ = createCmd.MarkFlagRequired("title")
	_ = createCmd.MarkFlagRequired("content")

	var title, content string
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data api.UpdatePostData
			if cmd.Flags().Changed("title") {
				data.Title = &title
			}
			if cmd.Flags().Changed("content") {
				data.Content = &content
			}
			post, err := appOf().posts.Update(cmd.Context(), args[0], data)
			if err != nil {
				return err
			}
			fmt.Println("updated", post.ID)
			return nil
		},
	}
	updateCmd.Flags().StringVar(&title, "title", "", "new title")
	updateCmd.Flags().StringVar(&content, "content", "", "new body")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appOf().posts.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("deleted", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, get, createCmd, updateCmd, deleteCmd)
	return cmd
}

func newCommentsCmd(appOf func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Read and write article comments",
	}

	list := &cobra.Command{
		Use:   "list <article-id>",
		Short: "List comments on an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comments, err := appOf().comments.ListForPost(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(comments)
		},
	}

	add := &cobra.Command{
		Use:   "add <article-id> <content>",
		Short: "Comment on an article",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := appOf().comments.Add(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Println("comment", c.ID)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <comment-id>",
		Short: "Delete a comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appOf().comments.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("deleted", args[0])
			return nil
		},
	}

	var replyParams api.ListParams
	replies := &cobra.Command{
		Use:   "replies <comment-id>",
		Short: "List replies to a comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := appOf().comments.ListReplies(cmd.Context(), args[0], replyParams)
			if err != nil {
				return err
			}
			return printJSON(page)
		},
	}
	listFlags(replies, &replyParams)

	reply := &cobra.Command{
		Use:   "reply <comment-id> <content>",
		Short: "Reply to a comment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := appOf().comments.AddReply(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Println("reply", r.ID)
			return nil
		},
	}

	cmd.AddCommand(list, add, del, replies, reply)
	return cmd
}

func newUploadCmd(appOf func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a cover image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := appOf().uploads.UploadImage(cmd.Context(), args[0], f)
			if err != nil {
				return err
			}
			fmt.Println(res.URL)
			return nil
		},
	}
}
