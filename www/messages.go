package www

import (
	"net/http"

	"github.com/gorilla/sessions"
)

// Flash message types, the page styles the message box after them.
const (
	MessageError     = "ERROR"
	MessageWarning   = "WARNING"
	MessageInfo      = "INFO"
	MessageImportant = "IMPORTANT"
)

const (
	sessionName    = "histoplot"
	flashText      = "message"
	flashType      = "messageType"
	sessionMaxAgeS = 60 * 60
)

// FlashMessage is shown once on the next page rendered for the session.
type FlashMessage struct {
	Text string
	Type string
}

func (m FlashMessage) Empty() bool {
	return m.Text == ""
}

func NewSessionStore(key []byte) *sessions.CookieStore {
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAgeS,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// SetMessage replaces any pending message of the session.
func SetMessage(store sessions.Store, w http.ResponseWriter, r *http.Request, text, msgType string) error {
	// A cookie signed with an old key gives an error and a fresh session.
	sess, _ := store.Get(r, sessionName)
	sess.Flashes(flashText)
	sess.Flashes(flashType)
	sess.AddFlash(text, flashText)
	sess.AddFlash(msgType, flashType)
	return sess.Save(r, w)
}

// PopMessage returns the pending message and removes it from the session.
// The type defaults to INFO.
func PopMessage(store sessions.Store, w http.ResponseWriter, r *http.Request) (FlashMessage, error) {
	sess, _ := store.Get(r, sessionName)
	texts := sess.Flashes(flashText)
	types := sess.Flashes(flashType)
	if len(texts) == 0 {
		return FlashMessage{}, nil
	}

	msg := FlashMessage{Type: MessageInfo}
	if s, ok := texts[len(texts)-1].(string); ok {
		msg.Text = s
	}
	if len(types) > 0 {
		if s, ok := types[len(types)-1].(string); ok && s != "" {
			msg.Type = s
		}
	}
	return msg, sess.Save(r, w)
}
