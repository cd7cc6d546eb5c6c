package middleware

import (
	"crypto/subtle"
	"net/http"
)

// SecretTokenHeader заголовок, в котором Telegram передаёт secret_token webhook'а.
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookSecret пропускает только запросы с ожидаемым секретом.
// Пустой secret отклоняет все запросы.
func WebhookSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(SecretTokenHeader)
			if got == "" {
				http.Error(w, "missing secret token", http.StatusUnauthorized)
				return
			}
			if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				http.Error(w, "invalid secret token", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
