// Package cookie centralizes the browser cookies the API issues. Handler and
// middleware code share it so names and attributes never drift apart.
package cookie

import (
	"net/http"
	"time"
)

// Cookie names. SessionBackup is readable by page script on purpose: it lets
// an installed PWA restore a session after the browser evicts the HttpOnly
// primary cookie.
const (
	Session             = "session"
	SessionBackup       = "session_backup"
	PendingVerification = "pendingVerification"
)

const (
	backupTTL  = 365 * 24 * time.Hour
	pendingTTL = 15 * time.Minute
)

// SetSession writes the primary HttpOnly session cookie.
func SetSession(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     Session,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetBackup writes the long-lived script-readable backup copy of the token.
func SetBackup(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionBackup,
		Value:    token,
		Path:     "/",
		MaxAge:   int(backupTTL.Seconds()),
		HttpOnly: false,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetPending marks the browser as mid email verification for the given agent.
func SetPending(w http.ResponseWriter, agentID string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     PendingVerification,
		Value:    agentID,
		Path:     "/",
		MaxAge:   int(pendingTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the named cookie.
func Clear(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: name != SessionBackup,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
