package keyboard

import (
	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxHistoryButtons caps the project list; Telegram rejects huge keyboards.
const maxHistoryButtons = 10

// Builder creates inline keyboards
type Builder struct{}

// NewBuilder creates a keyboard builder
func NewBuilder() *Builder {
	return &Builder{}
}

// ConfirmKeyboard is attached to the analysis card.
func (b *Builder) ConfirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Подтвердить", EncodeCallback(ActionConfirm, "analysis")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🆕 Другая идея", EncodeCallback(ActionNew, "")),
		),
	)
}

// DownloadKeyboard offers every export format.
func (b *Builder) DownloadKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📄 PRD .md", EncodeCallback(ActionDownload, string(entity.FormatPRDMarkdown))),
			tgbotapi.NewInlineKeyboardButtonData("📕 PRD .pdf", EncodeCallback(ActionDownload, string(entity.FormatPRDPDF))),
			tgbotapi.NewInlineKeyboardButtonData("📘 PRD .docx", EncodeCallback(ActionDownload, string(entity.FormatPRDDOCX))),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Презентация .pptx", EncodeCallback(ActionDownload, string(entity.FormatDeckPPTX))),
			tgbotapi.NewInlineKeyboardButtonData("📝 Слайды .md", EncodeCallback(ActionDownload, string(entity.FormatDeckMarkdown))),
		),
	)
}

// HistoryKeyboard creates one button per saved project.
func (b *Builder) HistoryKeyboard(items []entity.ProjectHistoryItem) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}

	for i, it := range items {
		if i == maxHistoryButtons {
			break
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(it.Title, EncodeCallback(ActionLoad, it.ID)),
		))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🆕 Новый проект", EncodeCallback(ActionNew, "")),
	))

	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}
