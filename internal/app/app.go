package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Viacheslav828206/WeatherBot/internal/config"
	"github.com/Viacheslav828206/WeatherBot/internal/metrics"
	"github.com/Viacheslav828206/WeatherBot/internal/narrator"
	"github.com/Viacheslav828206/WeatherBot/internal/notify"
	"github.com/Viacheslav828206/WeatherBot/internal/scheduler"
	"github.com/Viacheslav828206/WeatherBot/internal/speech"
	"github.com/Viacheslav828206/WeatherBot/internal/store"
	"github.com/Viacheslav828206/WeatherBot/internal/telegram"
	"github.com/Viacheslav828206/WeatherBot/internal/timezone"
	"github.com/Viacheslav828206/WeatherBot/internal/weather"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	bot     *tgbotapi.BotAPI
	httpSrv *http.Server
	repo    store.Repo
	sched   *scheduler.Scheduler
	narr    *narrator.Generator
	router  *telegram.Router
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, bot: bot, httpSrv: srv}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting weather bot",
		zap.String("http", a.cfg.HTTPAddr),
		zap.String("default_tz", a.cfg.DefaultTZ),
	)

	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.log.Info("sqlite ready", zap.String("path", a.cfg.DBPath))

	httpClient := &http.Client{Timeout: a.cfg.ClientTimeout}

	wclient := weather.NewClient(httpClient, a.cfg.WeatherAPIKey, a.cfg.WeatherLang)
	resolver := timezone.NewResolver(httpClient, a.cfg.TimezoneDBKey, a.cfg.DefaultTZ, a.log)

	var narr notify.Narrator
	if a.cfg.GeminiAPIKey != "" {
		gen, err := narrator.New(ctx, a.cfg.GeminiAPIKey)
		if err != nil {
			a.log.Warn("narration disabled", zap.Error(err))
		} else {
			a.narr = gen
			narr = gen
		}
	}

	var synth notify.Synthesizer
	if a.cfg.SpeechLang != "" {
		synth = speech.NewSynthesizer(httpClient, a.cfg.SpeechLang)
	}

	pipeline := notify.New(repo, wclient, narr, synth, telegram.NewSender(a.bot), a.log)

	a.sched = scheduler.New(a.log)
	deliver := func(chatID int64) {
		dctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
		defer cancel()
		err := pipeline.Deliver(dctx, chatID, metrics.TriggerScheduled)
		if err != nil && !errors.Is(err, notify.ErrNoLocation) {
			a.log.Error("scheduled delivery failed", zap.Int64("chatID", chatID), zap.Error(err))
		}
	}

	// Job schedules live only in the store; rebuild them before any
	// user-driven schedule change can arrive.
	if err := a.sched.Reconcile(ctx, repo, deliver); err != nil {
		return err
	}
	a.sched.Start()

	a.router = telegram.NewRouter(a.bot, a.log, repo, a.sched, pipeline, resolver, deliver)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")
			a.shutdown()
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}

func (a *App) shutdown() {
	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := a.httpSrv.Shutdown(shCtx); err != nil {
		a.log.Warn("http server shutdown error", zap.Error(err))
	}
	cancel()

	// Let in-flight firings finish, bounded.
	select {
	case <-a.sched.Stop().Done():
	case <-time.After(10 * time.Second):
		a.log.Warn("scheduler stop timed out")
	}

	if a.narr != nil {
		_ = a.narr.Close()
	}
	if a.repo != nil {
		_ = a.repo.Close()
	}
}
