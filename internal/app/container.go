package app

import (
	"log"

	"jobnest/internal/config"
	"jobnest/internal/infrastructure/cache"
	"jobnest/internal/infrastructure/httpapi"
	"jobnest/internal/infrastructure/tokenstore"
	"jobnest/internal/realtime"
	"jobnest/internal/repository"
	"jobnest/internal/usecase"
	"jobnest/internal/usecase/auth"
	"jobnest/internal/ws"
)

// Container holds the long-lived pieces shared by the CLI and the gateway.
type Container struct {
	Config config.Config
	Logger *log.Logger

	API     *httpapi.Client
	Cache   *cache.Redis
	Tokens  tokenstore.Store
	Session *auth.Session

	Jobs          *usecase.JobList
	Notifications *usecase.NotificationCenter
	Subscriber    *realtime.Subscriber

	Hub   *ws.Hub
	Relay *ws.Relay
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	api := httpapi.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger)

	rdb := cache.NewRedis(cfg.Redis, logger)
	store, err := tokenstore.New(cfg.Storage, rdb, logger)
	if err != nil {
		_ = rdb.Close()
		return nil, err
	}

	session := auth.NewSession(repository.NewHTTPAuthRepository(api), store, api, logger)
	hub := ws.NewHub(logger)

	return &Container{
		Config:        cfg,
		Logger:        logger,
		API:           api,
		Cache:         rdb,
		Tokens:        store,
		Session:       session,
		Jobs:          usecase.NewJobListUsecase(repository.NewHTTPJobRepository(api), rdb, cfg.Listing, rdb.TTL(), logger),
		Notifications: usecase.NewNotificationCenter(repository.NewHTTPNotificationRepository(api), 0, logger),
		Subscriber:    realtime.NewSubscriber(cfg.Realtime, session.AccessToken, logger),
		Hub:           hub,
		Relay:         ws.NewRelay(hub),
	}, nil
}

func (c *Container) Close() error {
	if c == nil || c.Cache == nil {
		return nil
	}
	return c.Cache.Close()
}
