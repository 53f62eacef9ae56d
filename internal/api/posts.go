package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	customErrors "github.com/collabblog/blogclient/internal/auth/errors"
)

// UserRef is the embedded author shape the server attaches to posts,
// comments and replies.
type UserRef struct {
	ID        string `json:"_id"`
	Email     string `json:"email"`
	FullName  string `json:"fullName,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

type Post struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Image     string    `json:"image,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	UserID    string    `json:"userId"`
	Author    *UserRef  `json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PostPage struct {
	Posts      []Post
	Pagination Pagination
}

type ListParams struct {
	Page   int
	Limit  int
	Search string
}

func (p ListParams) query() url.Values {
	q := url.Values{}
	page, limit := p.Page, p.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	return q
}

type CreatePostData struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Image   string   `json:"image,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

type UpdatePostData struct {
	Title   *string  `json:"title,omitempty"`
	Content *string  `json:"content,omitempty"`
	Image   *string  `json:"image,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// PostsAPI covers the /articles endpoints. Listing works with or without a
// session; everything else requires one, which the transport enforces via
// bearer decoration.
type PostsAPI struct {
	c *Client
}

func NewPostsAPI(c *Client) *PostsAPI { return &PostsAPI{c: c} }

func (p *PostsAPI) List(ctx context.Context, params ListParams) (PostPage, error) {
	return p.list(ctx, "/articles", params)
}

// Mine lists only the caller's own articles (writer dashboard).
func (p *PostsAPI) Mine(ctx context.Context, params ListParams) (PostPage, error) {
	return p.list(ctx, "/articles/my-articles", params)
}

func (p *PostsAPI) list(ctx context.Context, path string, params ListParams) (PostPage, error) {
	env, err := p.c.doEnvelope(ctx, http.MethodGet, path, params.query(), nil)
	if err != nil {
		return PostPage{}, mapError(err, "list articles")
	}

	var page PostPage
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &page.Posts); err != nil {
			return PostPage{}, customErrors.WrapInternal(err, "decode articles")
		}
	}
	if env.Pagination != nil {
		page.Pagination = *env.Pagination
	}
	return page, nil
}

func (p *PostsAPI) Get(ctx context.Context, id string) (Post, error) {
	var post Post
	if err := p.c.do(ctx, http.MethodGet, "/articles/"+id, nil, nil, &post); err != nil {
		return Post{}, mapError(err, "article "+id)
	}
	return post, nil
}

func (p *PostsAPI) Create(ctx context.Context, data CreatePostData) (Post, error) {
	var post Post
	if err := p.c.do(ctx, http.MethodPost, "/articles", nil, data, &post); err != nil {
		return Post{}, mapError(err, "create article")
	}
	return post, nil
}

func (p *PostsAPI) Update(ctx context.Context, id string, data UpdatePostData) (Post, error) {
	var post Post
	if err := p.c.do(ctx, http.MethodPut, "/articles/"+id, nil, data, &post); err != nil {
		return Post{}, mapError(err, "update article "+id)
	}
	return post, nil
}

func (p *PostsAPI) Delete(ctx context.Context, id string) error {
	if err := p.c.do(ctx, http.MethodDelete, "/articles/"+id, nil, nil, nil); err != nil {
		return mapError(err, "delete article "+id)
	}
	return nil
}
