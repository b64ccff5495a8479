package localization

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"rts-lobby/internal/models"
)

//go:embed locales/*.json
var localeFS embed.FS

// Localizer resolves message ids to text in the configured language.
type Localizer struct {
	localizer *i18n.Localizer
}

// New loads the embedded message files and prefers lang, falling back to
// English for missing ids.
func New(lang string) (*Localizer, error) {
	bundle := i18n.NewBundle(language.English)

	files, err := fs.Glob(localeFS, "locales/*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list locales: %w", err)
	}
	for _, f := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, f); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	return &Localizer{localizer: i18n.NewLocalizer(bundle, lang, language.English.String())}, nil
}

// Text returns the localized message, or the id itself when no language
// has it. A message missing only from the preferred language still comes
// back in English, together with a not-found error that is ignored here.
func (l *Localizer) Text(id string, data map[string]interface{}) string {
	msg, _ := l.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if msg == "" {
		return id
	}
	return msg
}

var joinFailureIDs = map[models.JoinResult]string{
	models.JoinFull:        "lobby.join_failed.full",
	models.JoinBadPassword: "lobby.join_failed.bad_password",
	models.JoinNotFound:    "lobby.join_failed.not_found",
	models.JoinCRCMismatch: "lobby.join_failed.crc_mismatch",
	models.JoinBanned:      "lobby.join_failed.banned",
	models.JoinInProgress:  "lobby.join_failed.in_progress",
	models.JoinTimeout:     "lobby.join_failed.timeout",
}

// JoinFailureMessageID maps a backend result code to its message id.
// Codes without an entry, success included, use the generic failure text.
func JoinFailureMessageID(code models.JoinResult) string {
	if id, ok := joinFailureIDs[code]; ok {
		return id
	}
	return "lobby.join_failed.generic"
}
