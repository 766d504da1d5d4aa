package telegram

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// Menu button labels. Free-text matching on these labels is how Telegram
// reply keyboards work, so they double as routing keys.
const (
	btnShareLocation = "Відправити місцезнаходження 📍"
	btnForecastNow   = "Отримати прогноз зараз 🌤️"
	btnSetupTime     = "Налаштувати сповіщення ⏰"
)

const (
	startText = "Привіт! Надішли своє місцезнаходження або вибери опцію з меню."

	locationSavedFmt = "📍 Локацію збережено!\nЧасовий пояс: %s\nТепер встановіть час сповіщень:"

	askTimeText      = "⏰ Введіть час у форматі HH:MM (наприклад 08:00):"
	timeSetFmt       = "✅ Сповіщення встановлено на %s вашого часу!"
	badTimeText      = "‼️ Невірний формат! Використовуйте HH:MM"
	needLocationText = "❌ Спочатку вкажіть локацію!"

	forecastNeedLocationText = "🔍 Спочатку відправте своє місцезнаходження, щоб отримати прогноз."

	storageErrorText = "‼️ Сталася помилка. Спробуйте ще раз пізніше."
)

// mainMenuKeyboard builds the persistent reply keyboard with the location
// request button and the two action buttons.
func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonLocation(btnShareLocation),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnForecastNow),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSetupTime),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}
