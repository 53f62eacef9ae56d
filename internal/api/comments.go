package api

import (
	"context"
	"net/http"
	"time"
)

type Comment struct {
	ID        string    `json:"_id"`
	Content   string    `json:"content"`
	UserID    UserRef   `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Reply struct {
	ID        string    `json:"_id"`
	Content   string    `json:"content"`
	UserID    UserRef   `json:"userId"`
	CommentID string    `json:"commentId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ReplyPage struct {
	Replies    []Reply `json:"replies"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"totalPages"`
}

// CommentsAPI covers threaded comments and replies under /comments and
// /replies.
type CommentsAPI struct {
	c *Client
}

func NewCommentsAPI(c *Client) *CommentsAPI { return &CommentsAPI{c: c} }

func (a *CommentsAPI) ListForPost(ctx context.Context, postID string) ([]Comment, error) {
	var comments []Comment
	if err := a.c.do(ctx, http.MethodGet, "/comments/articles/"+postID, nil, nil, &comments); err != nil {
		return nil, mapError(err, "comments for article "+postID)
	}
	return comments, nil
}

func (a *CommentsAPI) Add(ctx context.Context, postID, content string) (Comment, error) {
	body := map[string]string{"content": content}
	var comment Comment
	if err := a.c.do(ctx, http.MethodPost, "/comments/articles/"+postID, nil, body, &comment); err != nil {
		return Comment{}, mapError(err, "add comment")
	}
	return comment, nil
}

func (a *CommentsAPI) Delete(ctx context.Context, commentID string) error {
	if err := a.c.do(ctx, http.MethodDelete, "/comments/"+commentID, nil, nil, nil); err != nil {
		return mapError(err, "delete comment "+commentID)
	}
	return nil
}

func (a *CommentsAPI) ListReplies(ctx context.Context, commentID string, params ListParams) (ReplyPage, error) {
	var page ReplyPage
	err := a.c.do(ctx, http.MethodGet, "/replies/comments/"+commentID, params.query(), nil, &page)
	if err != nil {
		return ReplyPage{}, mapError(err, "replies for comment "+commentID)
	}
	return page, nil
}

func (a *CommentsAPI) AddReply(ctx context.Context, commentID, content string) (Reply, error) {
	body := map[string]string{"content": content, "commentId": commentID}
	var reply Reply
	if err := a.c.do(ctx, http.MethodPost, "/replies", nil, body, &reply); err != nil {
		return Reply{}, mapError(err, "add reply")
	}
	return reply, nil
}
