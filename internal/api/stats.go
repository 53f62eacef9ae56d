package api

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

type StatsOverview struct {
	TotalArticles int `json:"totalArticles"`
	TotalAuthors  int `json:"totalAuthors"`
	TotalComments int `json:"totalComments"`
	TotalTags     int `json:"totalTags"`
}

type MonthlyArticleCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type ArticleStats struct {
	ID           string    `json:"_id"`
	Title        string    `json:"title"`
	Views        int       `json:"views,omitempty"`
	CommentCount int       `json:"commentCount,omitempty"`
	CoverImage   string    `json:"coverImage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type TagStats struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type TopAuthor struct {
	AuthorID     string `json:"authorId"`
	Name         string `json:"name,omitempty"`
	ArticleCount int    `json:"articleCount"`
}

// Dashboard bundles every statistics widget the admin overview renders at
// once.
type Dashboard struct {
	Overview    StatsOverview
	Monthly     []MonthlyArticleCount
	TopArticles []ArticleStats
	TopTags     []TagStats
	TopAuthors  []TopAuthor
}

type StatsAPI struct {
	c *Client
}

func NewStatsAPI(c *Client) *StatsAPI { return &StatsAPI{c: c} }

func (a *StatsAPI) Overview(ctx context.Context) (StatsOverview, error) {
	var out StatsOverview
	if err := a.c.do(ctx, http.MethodGet, "/stats/overview", nil, nil, &out); err != nil {
		return StatsOverview{}, mapError(err, "stats overview")
	}
	return out, nil
}

func (a *StatsAPI) MonthlyArticles(ctx context.Context) ([]MonthlyArticleCount, error) {
	var out []MonthlyArticleCount
	if err := a.c.do(ctx, http.MethodGet, "/stats/articles/monthly", nil, nil, &out); err != nil {
		return nil, mapError(err, "monthly articles")
	}
	return out, nil
}

func (a *StatsAPI) TopArticles(ctx context.Context) ([]ArticleStats, error) {
	var out []ArticleStats
	if err := a.c.do(ctx, http.MethodGet, "/stats/articles/top", nil, nil, &out); err != nil {
		return nil, mapError(err, "top articles")
	}
	return out, nil
}

func (a *StatsAPI) TopTags(ctx context.Context) ([]TagStats, error) {
	var out []TagStats
	if err := a.c.do(ctx, http.MethodGet, "/stats/tags/top", nil, nil, &out); err != nil {
		return nil, mapError(err, "top tags")
	}
	return out, nil
}

func (a *StatsAPI) TopAuthors(ctx context.Context) ([]TopAuthor, error) {
	var out []TopAuthor
	if err := a.c.do(ctx, http.MethodGet, "/stats/authors/top", nil, nil, &out); err != nil {
		return nil, mapError(err, "top authors")
	}
	return out, nil
}

// FetchDashboard loads all widgets concurrently; the first failure cancels
// the rest.
func (a *StatsAPI) FetchDashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		d.Overview, err = a.Overview(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.Monthly, err = a.MonthlyArticles(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.TopArticles, err = a.TopArticles(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.TopTags, err = a.TopTags(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.TopAuthors, err = a.TopAuthors(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}
