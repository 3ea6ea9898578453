package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v3"

	"jobnest/internal/config"
	"jobnest/internal/delivery/http/handler"
	"jobnest/internal/delivery/http/middleware"
	"jobnest/internal/delivery/http/routes"
	v1 "jobnest/internal/delivery/http/routes/v1"
	"jobnest/internal/realtime"
	"jobnest/internal/usecase/auth"
	"jobnest/internal/ws"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap wires the gateway and starts its background loops: the relay hub,
// session restore and the live notification subscription. cleanup stops them.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg, log.Default())
	if err != nil {
		return nil, nil, err
	}
	app := New(c)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		c.Hub.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		c.Session.Restore(ctx)
		runNotifications(ctx, c)
	}()

	cleanup := func() error {
		cancel()
		wg.Wait()
		return c.Close()
	}
	return app, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger) {
	if app == nil {
		return
	}

	errMw := middleware.NewErrorMiddleware(logger)
	app.Use(errMw.Middleware())

	accessMw := middleware.NewAccessLogMiddleware(logger, "/health")
	app.Use(accessMw.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	backend := handler.NewBackend(c.API, c.Session, c.Notifications, c.Logger)
	health := handler.NewHealthHandler(c.Cache, c.Hub, c.Subscriber.State)

	routes.NewRegistry(health, ws.NewHandler(c.Hub, c.Logger, c.Config.App.RelayOrigins...), v1.Handlers{
		Jobs:          handler.NewJobsHandler(c.Jobs, backend),
		Me:            handler.NewMeHandler(backend),
		Notifications: handler.NewNotificationsHandler(backend),
		Community:     handler.NewCommunityHandler(backend),
		Session:       handler.NewSessionHandler(c.Session),
	}).Register(app)
}

// runNotifications keeps the subscription on whoever the session is logged in
// as. Messages go to the relay and the notification center.
func runNotifications(ctx context.Context, c *Container) {
	stopState := c.Subscriber.OnState(c.Relay.State)
	defer stopState()

	changed := make(chan struct{}, 1)
	var mu sync.Mutex
	last := c.Session.UserID()

	stopSession := c.Session.OnChange(func(s auth.Snapshot) {
		id := ""
		if s.Authenticated() {
			id = c.Session.UserID()
		}
		mu.Lock()
		same := id == last
		last = id
		mu.Unlock()
		if same {
			return
		}
		c.Notifications.Reset()
		c.Subscriber.Switch(id)
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer stopSession()

	handle := func(m realtime.Message) {
		c.Relay.Handle(m)
		c.Notifications.Push(m)
	}

	for {
		mu.Lock()
		id := last
		mu.Unlock()

		if id != "" {
			if _, _, err := c.Notifications.Refresh(ctx); err != nil {
				c.Logger.Printf("[Notifications] refresh failed user=%s err=%v", id, err)
			}
			mu.Lock()
			stale := id != last
			mu.Unlock()
			if stale {
				select {
				case <-changed:
				default:
				}
				continue
			}
			if err := c.Subscriber.Run(ctx, id, handle); err != nil {
				c.Logger.Printf("[Notifications] subscription ended user=%s err=%v", id, err)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-changed:
		}
	}
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
