package handlers

import "net/http"

// RefreshCookieName — имя куки с refresh-токеном.
const RefreshCookieName = "refresh_token"

// setRefreshCookie привязывает refresh-токен к HttpOnly-куке.
// SameSite=Lax, Path=/; Secure управляется окружением (всегда true вне
// локальной разработки).
func setRefreshCookie(w http.ResponseWriter, token string, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearRefreshCookie принудительно удаляет куку на клиенте:
// то же имя/путь, мгновенное истечение.
func clearRefreshCookie(w http.ResponseWriter, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
