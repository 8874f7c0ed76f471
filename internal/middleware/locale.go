package middleware

import (
	"context"
	"net/http"

	"github.com/soaringjerry/formdrop/internal/utils"
)

type localeKey struct{}

// Locale extracts the request locale from the lang query parameter or the
// Accept-Language header and stores it in the request context.
func Locale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := utils.DetermineLocale(
			r.URL.Query().Get("lang"),
			r.Header.Get("Accept-Language"),
			[]string{"en", "zh"}, "en",
		)
		ctx := context.WithValue(r.Context(), localeKey{}, locale)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LocaleFrom retrieves the locale stored by Locale, defaulting to English.
func LocaleFrom(ctx context.Context) string {
	if s, ok := ctx.Value(localeKey{}).(string); ok {
		return s
	}
	return "en"
}
