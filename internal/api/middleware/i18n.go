package middleware

import (
	"net/http"
	"time"

	"github.com/creamcroissant/shopadmin/internal/api/requestctx"
	"github.com/creamcroissant/shopadmin/internal/support/i18n"
)

// LangCookie remembers a language picked with ?lang=.
const LangCookie = "shopadmin_lang"

// I18n resolves the viewer's language from ?lang, the language cookie, then
// Accept-Language, and stores the best supported match in the context.
func I18n(manager *i18n.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			explicit := r.URL.Query().Get("lang")
			var cookie string
			if c, err := r.Cookie(LangCookie); err == nil {
				cookie = c.Value
			}

			lang := i18n.DefaultLang
			if manager != nil {
				// The first non-empty preference decides.
				switch {
				case explicit != "":
					lang = manager.Match(explicit)
				case cookie != "":
					lang = manager.Match(cookie)
				default:
					lang = manager.Match(r.Header.Get("Accept-Language"))
				}
			}

			if explicit != "" {
				http.SetCookie(w, &http.Cookie{
					Name:     LangCookie,
					Value:    lang,
					Path:     "/",
					Expires:  time.Now().Add(365 * 24 * time.Hour),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := requestctx.WithLanguage(r.Context(), lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
