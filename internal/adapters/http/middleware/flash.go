package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/securecookie"
)

// FlashCookieName is the cookie holding pending flash messages.
const FlashCookieName = "watchlist_flash"

// Flasher stores one-shot messages in an HMAC-signed cookie.
// Messages survive exactly one redirect and are cleared when read.
type Flasher struct {
	codec  *securecookie.SecureCookie
	secure bool
}

// NewFlasher creates a Flasher signing with hashKey (32 or 64 bytes).
func NewFlasher(hashKey []byte, secure bool) *Flasher {
	codec := securecookie.New(hashKey, nil)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(3600)
	return &Flasher{codec: codec, secure: secure}
}

// Add appends msg to the messages pending for the client. Messages added
// earlier in the same response are kept.
// PRE: msg is non-empty
// POST: w carries exactly one flash cookie holding all pending messages
func (f *Flasher) Add(w http.ResponseWriter, r *http.Request, msg string) {
	msgs := append(f.pending(w, r), msg)
	encoded, err := f.codec.Encode(FlashCookieName, msgs)
	if err != nil {
		slog.Error("flash_encode", "error", err)
		return
	}
	dropFlashCookie(w.Header())
	http.SetCookie(w, f.cookie(encoded, 0))
}

// Pop returns the pending messages and clears the cookie.
// PRE: none
// POST: returns nil when nothing is pending or the cookie fails verification
func (f *Flasher) Pop(w http.ResponseWriter, r *http.Request) []string {
	msgs := f.pending(w, r)
	_, reqErr := r.Cookie(FlashCookieName)
	if dropFlashCookie(w.Header()) || reqErr == nil {
		http.SetCookie(w, f.cookie("", -1))
	}
	return msgs
}

// pending returns the messages already set on the response, falling back to
// those the request carried.
func (f *Flasher) pending(w http.ResponseWriter, r *http.Request) []string {
	var set *http.Cookie
	for _, line := range w.Header().Values("Set-Cookie") {
		if c, err := http.ParseSetCookie(line); err == nil && c.Name == FlashCookieName {
			set = c
		}
	}
	if set != nil {
		if set.MaxAge < 0 {
			return nil
		}
		return f.decode(set.Value)
	}

	c, err := r.Cookie(FlashCookieName)
	if err != nil {
		return nil
	}
	return f.decode(c.Value)
}

func (f *Flasher) decode(value string) []string {
	if value == "" {
		return nil
	}
	var msgs []string
	if err := f.codec.Decode(FlashCookieName, value, &msgs); err != nil {
		slog.Debug("flash_decode", "error", err)
		return nil
	}
	return msgs
}

// dropFlashCookie removes flash Set-Cookie lines from h and reports whether
// there were any.
func dropFlashCookie(h http.Header) bool {
	lines := h.Values("Set-Cookie")
	kept := lines[:0:0]
	for _, line := range lines {
		if c, err := http.ParseSetCookie(line); err == nil && c.Name == FlashCookieName {
			continue
		}
		kept = append(kept, line)
	}
	if len(kept) == len(lines) {
		return false
	}
	h.Del("Set-Cookie")
	for _, line := range kept {
		h.Add("Set-Cookie", line)
	}
	return true
}

func (f *Flasher) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     FlashCookieName,
		Value:    value,
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   maxAge,
	}
}
