package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"code.superseriousbusiness.org/httpsig"
	"github.com/Wididit/Wididit-server/internal/api"
	"github.com/Wididit/Wididit-server/internal/client"
	"github.com/Wididit/Wididit-server/internal/config"
	"github.com/Wididit/Wididit-server/internal/db"
	dbimpl "github.com/Wididit/Wididit-server/internal/db/impl"
	"github.com/Wididit/Wididit-server/internal/federation"
	"github.com/Wididit/Wididit-server/internal/gateway"
	"github.com/Wididit/Wididit-server/internal/initialization"
	"github.com/Wididit/Wididit-server/internal/search"
	"github.com/Wididit/Wididit-server/internal/service"
	core "github.com/Wididit/Wididit-server/internal/service/impl"
	"github.com/Wididit/Wididit-server/internal/tokens"
	"github.com/Wididit/Wididit-server/internal/web"
	"github.com/Wididit/Wididit-server/internal/wellknown"
	"github.com/alexedwards/scs"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	app := &cli.App{
		Name:   "wididit",
		Usage:  "federated microblogging server",
		Before: setup,
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the server",
				Action: serve,
				Flags:  serveFlags,
			},
			{
				Name:   "migrate",
				Usage:  "apply database migrations and create the instance keys",
				Action: migrate,
			},
			{
				Name:   "adduser",
				Usage:  "create an account, even when registration is closed",
				Action: addUser,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"WIDIDIT_ADDUSER_PASSWORD"}},
					&cli.BoolFlag{Name: "admin"},
				},
			},
		},
		Flags: serveFlags,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}

var serveFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:    "migrate",
		Usage:   "apply migrations before serving",
		EnvVars: []string{"SETUP"},
	},
}

var cfg config.Configuration

func setup(*cli.Context) (err error) {
	cfg, err = config.ReadConfig()
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return nil
}

// openDB connects to the main database, migrating it first when asked to.
func openDB(migrate bool) (*sql.DB, error) {
	d, err := initialization.OpenDB(cfg.DbUrl)
	if err != nil {
		return nil, err
	}
	log.Info().Msg("database connection established")

	if migrate {
		if err = initialization.SetupDB(&cfg, d, cfg.MigrationsFolder, "wididit"); err != nil {
			return nil, err
		}
	}
	if err = initialization.EnsureInstance(d, &cfg); err != nil {
		return nil, err
	}
	return d, nil
}

func migrate(*cli.Context) error {
	d, err := openDB(true)
	if err != nil {
		return err
	}
	log.Info().Str("hostname", cfg.Hostname).Msg("database ready")
	return d.Close()
}

func addUser(c *cli.Context) error {
	d, err := openDB(false)
	if err != nil {
		return err
	}
	defer d.Close()

	s := core.New(cfg, dbimpl.New(cfg, d), nil, nil)
	p, err := s.CreateAccount(c.Context, service.NewAccount{
		Username: c.String("username"),
		Email:    c.String("email"),
		Password: c.String("password"),
		Admin:    c.Bool("admin"),
	})
	if err != nil {
		return err
	}
	fmt.Println(p.UserID())
	return nil
}

func sessionManager() *scs.Manager {
	key := cfg.SessionKey
	if key == "" {
		key = (rand.Text() + rand.Text())[:32]
		log.Warn().Msg("session_key is not set; web sessions will not survive a restart")
	}

	gob.Register(web.Session{})
	manager := scs.NewCookieManager(key)
	manager.Lifetime(30 * 24 * time.Hour)
	manager.Persist(true)
	manager.Secure(cfg.Https)
	manager.HttpOnly(true)
	return manager
}

func federationGateway(ctx context.Context, store db.DB) (*gateway.FedGatewayImpl, *search.Service, error) {
	var index *search.Service
	if cfg.MeiliURL != "" {
		m := search.NewMeili(cfg.MeiliURL, cfg.MeiliKey)
		go func() {
			<-ctx.Done()
			m.Close()
		}()
		index = search.NewService(m)
	}

	key, err := store.GetInstanceKey(ctx)
	if err != nil {
		return nil, nil, err
	}

	httpClient, err := client.New(store, &http.Client{Timeout: 30 * time.Second}, key, []httpsig.Algorithm{httpsig.RSA_SHA256}, federation.KeyID(cfg.Url.JoinPath("actor")))
	if err != nil {
		return nil, nil, err
	}
	httpClient.UserAgent = "wididit (+" + cfg.Url.String() + ")"
	if !cfg.Https {
		httpClient.Scheme = "http"
	}

	q, err := initialization.InitQueue(&cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open the queue database: %w", err)
	}

	gw := gateway.New(store, httpClient, &cfg, q, index)
	gw.Start(ctx)
	return gw, index, nil
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Debug().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("took", time.Since(start)).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}

// mount registers the API, webfinger and web routes on r.
func mount(r chi.Router, s service.Service, tokenStore *tokens.RedisStore, manager *scs.Manager) {
	api.New(&cfg, s, tokenStore).Mount(r)
	wellknown.Mount(&cfg, s, r)
	h := web.New(&cfg, s, manager)
	h.Mount(r)
}

func serve(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := openDB(c.Bool("migrate"))
	if err != nil {
		return err
	}
	defer d.Close()
	store := dbimpl.New(cfg, d)

	gw, index, err := federationGateway(ctx, store)
	if err != nil {
		return err
	}

	var tokenStore *tokens.RedisStore
	if cfg.RedisURL != "" {
		if tokenStore, err = tokens.NewRedisStore(cfg.RedisURL, cfg.TokenTTL); err != nil {
			return fmt.Errorf("unable to connect to redis: %w", err)
		}
		defer tokenStore.Close()
	}

	s := core.New(cfg, store, gw, index)

	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	if cfg.Debug {
		router.Use(middleware.RequestID, accessLog)
	}
	router.Use(middleware.Recoverer)

	mount(router, s, tokenStore, sessionManager())

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(int(cfg.Port)),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Info().Uint16("port", cfg.Port).Str("url", cfg.Url.String()).Msg("started server")
		errs <- server.ListenAndServe()
	}()

	select {
	case err = <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdown)
}
