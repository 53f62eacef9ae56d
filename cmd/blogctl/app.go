package main

import (
	"net/url"

	"github.com/collabblog/blogclient/internal/api"
	"github.com/collabblog/blogclient/internal/auth/session"
	"github.com/collabblog/blogclient/internal/auth/token"
	"github.com/collabblog/blogclient/internal/config"
	lg "github.com/collabblog/blogclient/internal/infra/log"
	"github.com/collabblog/blogclient/internal/router"
	"github.com/collabblog/blogclient/internal/transport"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// app wires the whole client together: token store, transport chain,
// session manager, navigator and the API services. Constructed once per
// invocation; the session resolves from persisted state before any
// command runs.
type app struct {
	cfg  *config.Config
	log  *zap.Logger
	sess *session.Manager
	nav  *router.Navigator

	auth     *api.AuthAPI
	posts    *api.PostsAPI
	comments *api.CommentsAPI
	users    *api.UsersAPI
	stats    *api.StatsAPI
	uploads  *api.UploadAPI

	store token.Store
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	zapLog := lg.Must(cfg.LogLevel)

	var store token.Store
	switch cfg.TokenStore {
	case "redis":
		cli := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		store = token.NewRedisStore(cli, cfg.RedisPrefix, zapLog)
	default:
		store = token.NewFileStore(cfg.CredentialsPath, zapLog)
	}

	httpClient, unauthorized := transport.NewChain(transport.ChainConfig{
		Tokens:         store,
		Log:            zapLog,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Timeout:        cfg.RequestTimeout,
	})

	client, err := api.NewClient(cfg.APIBaseURL, httpClient, zapLog)
	if err != nil {
		return nil, err
	}

	authAPI := api.NewAuthAPI(client)
	sess := session.NewManager(store, authAPI, zapLog)

	nav := router.NewNavigator(routeTable(zapLog), sess, originOf(cfg.APIBaseURL), zapLog)
	sess.AttachNavigator(nav)
	unauthorized.SetHandler(func(attemptedPath string) {
		sess.ExpireSession()
		nav.NavigateTo(router.LoginPath, url.Values{"returnUrl": {attemptedPath}})
	})

	sess.Initialize()

	return &app{
		cfg:      cfg,
		log:      zapLog,
		sess:     sess,
		nav:      nav,
		auth:     authAPI,
		posts:    api.NewPostsAPI(client),
		comments: api.NewCommentsAPI(client),
		users:    api.NewUsersAPI(client),
		stats:    api.NewStatsAPI(client),
		uploads:  api.NewUploadAPI(client),
		store:    store,
	}, nil
}

func originOf(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
