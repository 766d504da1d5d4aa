// Package notify implements the forecast delivery pipeline. All collaborator
// fallback policy lives here: callers only decide what to tell the user when
// the pipeline reports that no location is stored.
package notify

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Viacheslav828206/WeatherBot/internal/metrics"
	"github.com/Viacheslav828206/WeatherBot/internal/store"
	"github.com/Viacheslav828206/WeatherBot/internal/weather"
)

// ErrNoLocation reports a profile without stored coordinates. Scheduled
// firings treat it as a silent no-op; the on-demand handler turns it into a
// share-your-location prompt.
var ErrNoLocation = errors.New("no stored location")

// FallbackText is sent when narration generation fails.
const FallbackText = "🌤️ Прогноз погоди на сьогодні: гарна погода!"

type WeatherProvider interface {
	Current(ctx context.Context, lat, lon float64) (*weather.Snapshot, error)
}

type Narrator interface {
	Describe(ctx context.Context, snap *weather.Snapshot) (string, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (path string, cleanup func(), err error)
}

type Sender interface {
	SendText(chatID int64, text string) error
	SendAudio(chatID int64, path string) error
}

// Pipeline produces and sends one weather notification for a user "now".
// Behaviour is identical whether a scheduled firing or an on-demand request
// triggered it; the trigger only labels logs and metrics.
type Pipeline struct {
	repo     store.Repo
	weather  WeatherProvider
	narrator Narrator    // nil disables narration, FallbackText is used
	speech   Synthesizer // nil disables voice messages
	sender   Sender
	log      *zap.Logger
}

func New(repo store.Repo, w WeatherProvider, n Narrator, s Synthesizer, sender Sender, log *zap.Logger) *Pipeline {
	return &Pipeline{
		repo:     repo,
		weather:  w,
		narrator: n,
		speech:   s,
		sender:   sender,
		log:      log,
	}
}

// Deliver reads the profile, fetches weather, narrates it and pushes the
// result to the user's chat. Collaborator failures degrade per the documented
// policy and are never returned; storage failures propagate.
func (p *Pipeline) Deliver(ctx context.Context, chatID int64, trigger string) error {
	u, err := p.repo.GetUser(ctx, chatID)
	if errors.Is(err, store.ErrNotFound) {
		metrics.Deliveries.WithLabelValues(trigger, "no_location").Inc()
		return ErrNoLocation
	}
	if err != nil {
		metrics.Deliveries.WithLabelValues(trigger, "storage_error").Inc()
		return err
	}
	if !u.HasLocation() {
		metrics.Deliveries.WithLabelValues(trigger, "no_location").Inc()
		return ErrNoLocation
	}

	snap, err := p.weather.Current(ctx, *u.Latitude, *u.Longitude)
	if err != nil {
		// No retry within this delivery; the job stays installed and the
		// next firing tries again.
		p.log.Warn("weather fetch failed, skipping delivery",
			zap.Int64("chatID", chatID), zap.String("trigger", trigger), zap.Error(err))
		metrics.Deliveries.WithLabelValues(trigger, "weather_failed").Inc()
		return nil
	}

	text := FallbackText
	if p.narrator != nil {
		narrated, err := p.narrator.Describe(ctx, snap)
		if err != nil {
			p.log.Warn("narration failed, using generic text",
				zap.Int64("chatID", chatID), zap.Error(err))
		} else {
			text = narrated
		}
	}

	if err := p.sender.SendText(chatID, text); err != nil {
		p.log.Error("text delivery failed",
			zap.Int64("chatID", chatID), zap.String("trigger", trigger), zap.Error(err))
		metrics.Deliveries.WithLabelValues(trigger, "send_failed").Inc()
		return nil
	}

	p.deliverSpeech(ctx, chatID, text)

	metrics.Deliveries.WithLabelValues(trigger, "delivered").Inc()
	return nil
}

// deliverSpeech renders and sends the voice version. Best effort: the text is
// already delivered, so failures are only logged. The temp artifact is
// released even when the audio send fails.
func (p *Pipeline) deliverSpeech(ctx context.Context, chatID int64, text string) {
	if p.speech == nil {
		return
	}

	path, cleanup, err := p.speech.Synthesize(ctx, text)
	if err != nil {
		p.log.Warn("speech synthesis failed", zap.Int64("chatID", chatID), zap.Error(err))
		return
	}
	defer cleanup()

	if err := p.sender.SendAudio(chatID, path); err != nil {
		p.log.Warn("audio delivery failed", zap.Int64("chatID", chatID), zap.Error(err))
	}
}
