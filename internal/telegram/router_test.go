package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestClassify_Location(t *testing.T) {
	msg := &tgbotapi.Message{Location: &tgbotapi.Location{Latitude: 50.45, Longitude: 30.52}}
	in := classify(msg)
	if in.kind != kindLocation {
		t.Fatalf("want kindLocation, got %d", in.kind)
	}
	if in.lat != 50.45 || in.lon != 30.52 {
		t.Fatalf("coordinates not carried through: %v %v", in.lat, in.lon)
	}
}

func TestClassify_Command(t *testing.T) {
	msg := &tgbotapi.Message{
		Text:     "/start",
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
	}
	in := classify(msg)
	if in.kind != kindCommand || in.command != "start" {
		t.Fatalf("want start command, got kind=%d command=%q", in.kind, in.command)
	}
}

func TestClassify_TimeInput(t *testing.T) {
	in := classify(&tgbotapi.Message{Text: "8:00"})
	if in.kind != kindTimeInput {
		t.Fatalf("want kindTimeInput, got %d", in.kind)
	}
	if in.timeErr != nil {
		t.Fatalf("8:00 is valid: %v", in.timeErr)
	}
	if in.notifyAtM != 8*60 {
		t.Fatalf("want 480 minutes, got %d", in.notifyAtM)
	}
}

// "25:99" is time-shaped, so it routes to the time handler, but carries a
// validation error the handler surfaces to the user.
func TestClassify_TimeInputOutOfRange(t *testing.T) {
	in := classify(&tgbotapi.Message{Text: "25:99"})
	if in.kind != kindTimeInput {
		t.Fatalf("want kindTimeInput, got %d", in.kind)
	}
	if in.timeErr == nil {
		t.Fatal("25:99 must be rejected")
	}
}

func TestClassify_FreeText(t *testing.T) {
	for _, text := range []string{btnForecastNow, btnSetupTime, "просто текст", "12:345"} {
		in := classify(&tgbotapi.Message{Text: text})
		if in.kind != kindFreeText {
			t.Fatalf("classify(%q): want kindFreeText, got %d", text, in.kind)
		}
		if in.text != text {
			t.Fatalf("classify(%q): text not carried through", text)
		}
	}
}
