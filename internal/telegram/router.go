package telegram

import (
	"context"
	"regexp"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Viacheslav828206/WeatherBot/internal/domain"
	"github.com/Viacheslav828206/WeatherBot/internal/notify"
	"github.com/Viacheslav828206/WeatherBot/internal/scheduler"
	"github.com/Viacheslav828206/WeatherBot/internal/store"
	"github.com/Viacheslav828206/WeatherBot/internal/timezone"
)

// inputKind tags a classified inbound message.
type inputKind int

const (
	kindCommand inputKind = iota
	kindLocation
	kindTimeInput
	kindFreeText
)

// input is the classified form of an inbound message. Exactly one dispatch
// function consumes it; handlers never inspect the raw update again.
type input struct {
	kind    inputKind
	command string

	lat, lon float64

	// time input
	notifyAtM int
	timeErr   error // set when the text was time-shaped but out of range

	text string
}

var timeShaped = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// classify maps a Telegram message to a tagged input.
func classify(msg *tgbotapi.Message) input {
	if msg.Location != nil {
		return input{kind: kindLocation, lat: msg.Location.Latitude, lon: msg.Location.Longitude}
	}
	if msg.IsCommand() {
		return input{kind: kindCommand, command: msg.Command()}
	}
	text := strings.TrimSpace(msg.Text)
	if timeShaped.MatchString(text) {
		mins, err := domain.ParseHHMM(text)
		return input{kind: kindTimeInput, notifyAtM: mins, timeErr: err, text: text}
	}
	return input{kind: kindFreeText, text: text}
}

// Router classifies Telegram updates and dispatches them to handlers.
type Router struct {
	bot      *tgbotapi.BotAPI
	log      *zap.Logger
	repo     store.Repo
	sched    *scheduler.Scheduler
	pipeline *notify.Pipeline
	resolver *timezone.Resolver
	deliver  func(chatID int64) // callback bound into new notification jobs
}

func NewRouter(
	bot *tgbotapi.BotAPI,
	log *zap.Logger,
	repo store.Repo,
	sched *scheduler.Scheduler,
	pipeline *notify.Pipeline,
	resolver *timezone.Resolver,
	deliver func(chatID int64),
) *Router {
	return &Router{
		bot:      bot,
		log:      log,
		repo:     repo,
		sched:    sched,
		pipeline: pipeline,
		resolver: resolver,
		deliver:  deliver,
	}
}

// HandleUpdate routes a single update.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	chatID := upd.Message.Chat.ID

	switch in := classify(upd.Message); in.kind {
	case kindCommand:
		if in.command == "start" {
			r.handleStart(chatID)
		}
	case kindLocation:
		r.handleLocation(ctx, chatID, in.lat, in.lon)
	case kindTimeInput:
		r.handleTimeInput(ctx, chatID, in)
	case kindFreeText:
		switch in.text {
		case btnSetupTime:
			r.sendText(chatID, askTimeText)
		case btnForecastNow:
			r.handleInstantForecast(ctx, chatID)
		default:
			// Unprompted free text: ignore.
		}
	}
}

func (r *Router) sendText(chatID int64, text string) {
	if _, err := r.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.log.Warn("send failed", zap.Int64("chatID", chatID), zap.Error(err))
	}
}
