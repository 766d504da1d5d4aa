package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Viacheslav828206/WeatherBot/internal/domain"
	"github.com/Viacheslav828206/WeatherBot/internal/metrics"
	"github.com/Viacheslav828206/WeatherBot/internal/notify"
	"github.com/Viacheslav828206/WeatherBot/internal/store"
)

func (r *Router) handleStart(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, startText)
	msg.ReplyMarkup = mainMenuKeyboard()
	if _, err := r.bot.Send(msg); err != nil {
		r.log.Warn("send failed", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

// handleLocation stores the coordinates and the resolved timezone. This is
// also where a profile comes into existence for a new user.
func (r *Router) handleLocation(ctx context.Context, chatID int64, lat, lon float64) {
	tz := r.resolver.Resolve(ctx, lat, lon)

	err := r.repo.UpsertUser(ctx, chatID, domain.Patch{
		Latitude:  &lat,
		Longitude: &lon,
		TZ:        &tz,
	})
	if err != nil {
		r.log.Error("save location failed", zap.Int64("chatID", chatID), zap.Error(err))
		r.sendText(chatID, storageErrorText)
		return
	}

	r.log.Info("location stored",
		zap.Int64("chatID", chatID), zap.Float64("lat", lat), zap.Float64("lon", lon),
		zap.String("tz", tz))
	r.sendText(chatID, fmt.Sprintf(locationSavedFmt, tz))
}

// handleTimeInput installs or replaces the user's daily notification job and
// persists the chosen time.
func (r *Router) handleTimeInput(ctx context.Context, chatID int64, in input) {
	if in.timeErr != nil {
		r.sendText(chatID, badTimeText)
		return
	}

	u, err := r.repo.GetUser(ctx, chatID)
	if errors.Is(err, store.ErrNotFound) {
		r.sendText(chatID, needLocationText)
		return
	}
	if err != nil {
		r.log.Error("read profile failed", zap.Int64("chatID", chatID), zap.Error(err))
		r.sendText(chatID, storageErrorText)
		return
	}
	// A notification time is meaningful only with a timezone.
	if u.TZ == "" {
		r.sendText(chatID, needLocationText)
		return
	}

	hour, minute := domain.SplitMinutes(in.notifyAtM)
	if err := r.sched.Schedule(chatID, hour, minute, u.TZ, func() { r.deliver(chatID) }); err != nil {
		r.log.Error("schedule failed", zap.Int64("chatID", chatID),
			zap.String("tz", u.TZ), zap.Error(err))
		r.sendText(chatID, storageErrorText)
		return
	}

	if err := r.repo.UpsertUser(ctx, chatID, domain.Patch{NotifyAtM: &in.notifyAtM}); err != nil {
		// The job is installed but not durable; surface the failure instead
		// of pretending the setting stuck.
		r.log.Error("save notification time failed", zap.Int64("chatID", chatID), zap.Error(err))
		r.sendText(chatID, storageErrorText)
		return
	}

	r.log.Info("notification scheduled", zap.Int64("chatID", chatID),
		zap.String("at", domain.FormatMinutes(in.notifyAtM)), zap.String("tz", u.TZ))
	r.sendText(chatID, fmt.Sprintf(timeSetFmt, domain.FormatMinutes(in.notifyAtM)))
}

// handleInstantForecast runs the same delivery pipeline a scheduled firing
// uses. The only divergence is user-facing: a missing location becomes a
// prompt instead of a silent no-op.
func (r *Router) handleInstantForecast(ctx context.Context, chatID int64) {
	err := r.pipeline.Deliver(ctx, chatID, metrics.TriggerOnDemand)
	if errors.Is(err, notify.ErrNoLocation) {
		r.sendText(chatID, forecastNeedLocationText)
		return
	}
	if err != nil {
		r.log.Error("instant forecast failed", zap.Int64("chatID", chatID), zap.Error(err))
		r.sendText(chatID, storageErrorText)
	}
}
