package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/hwaller/rosterdesk/pkg/model"
)

// ErrLoginRequired is returned when a mutating operation is attempted
// without an authenticated session. No request is sent in that case.
var ErrLoginRequired = errors.New("client: teacher login required")

// Session is the derived authentication state. It is recomputed from the
// credential on every read and never cached on its own, so every rendering
// decision that depends on it agrees with every other.
type Session struct {
	Authenticated bool
	Identity      string
}

// NoticeKind classifies a transient notification.
type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeError
)

// Notice is a transient, auto-dismissing user notification.
type Notice struct {
	Text string
	Kind NoticeKind
}

// Fallback notices shown when the server provides no detail.
const (
	msgLoginRequired    = "Teacher login required"
	msgLoginFailed      = "Login failed. Please try again."
	msgSignupFailed     = "Failed to sign up. Please try again."
	msgUnregisterFailed = "Failed to unregister. Please try again."
	msgLoggedOut        = "Logged out"
)

// noticeTTL is how long a notice stays visible before auto-dismissing.
const noticeTTL = 5 * time.Second

// Engine is the client core that wires together the API, the credential
// store, and the rendering callbacks. It owns two lifecycles:
//
//   - authentication: login, logout, startup validation, and the gating of
//     mutating operations;
//   - roster: fetching and re-fetching the activity snapshot, so that after
//     every mutation the display reflects server truth rather than a local
//     prediction.
//
// Operations block on network I/O; UIs run them in goroutines. All
// callbacks fire on the calling goroutine.
type Engine struct {
	mu sync.RWMutex

	cred   model.Credential
	roster *model.Roster

	api      *API
	sessions *SessionStore

	ctx    context.Context
	cancel context.CancelFunc

	noticeMu    sync.Mutex
	noticeTimer *time.Timer
	noticeTTL   time.Duration

	// Callbacks for UI updates
	OnSessionChange     func(s Session)
	OnRoster            func(r *model.Roster)
	OnRosterUnavailable func()
	OnNotice            func(n Notice)
	OnNoticeDismiss     func()
	OnSignupAccepted    func()
}

// NewEngine creates a new client engine.
func NewEngine(api *API, sessions *SessionStore) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		api:       api,
		sessions:  sessions,
		ctx:       ctx,
		cancel:    cancel,
		noticeTTL: noticeTTL,
	}
}

// Session returns the current derived authentication state.
func (e *Engine) Session() Session {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return sessionOf(e.cred)
}

func sessionOf(cred model.Credential) Session {
	if !cred.Valid() {
		return Session{}
	}
	return Session{Authenticated: true, Identity: cred.Identity}
}

// Roster returns the latest fetched snapshot, or nil before the first
// successful fetch.
func (e *Engine) Roster() *model.Roster {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.roster
}

// Start validates any stored credential against the server and then loads
// the roster. The session state is settled (and rendered) before the first
// roster render, so the first paint never shows a stale privileged view.
//
// A stored credential that fails validation is cleared silently: an expired
// session is the expected outcome, not an error the user needs to see.
func (e *Engine) Start() {
	if cred := e.sessions.Load(); cred != nil {
		identity, err := e.api.Me(e.ctx, cred.Token)
		if err != nil {
			slog.Info("stored session rejected", "err", err)
			e.sessions.Clear()
		} else {
			// The server may know the operator under a refreshed identity.
			refreshed := model.Credential{Token: cred.Token, Identity: identity}
			if err := e.sessions.Save(refreshed); err != nil {
				slog.Error("persist session", "err", err)
			}
			e.mu.Lock()
			e.cred = refreshed
			e.mu.Unlock()
		}
	}

	e.notifySession()
	_ = e.FetchRoster()
}

// FetchRoster fetches a fresh roster snapshot and renders it. On transport
// or decoding failure the roster view degrades to an "unavailable"
// placeholder; the failure is logged and never propagates as a fatal error
// to the UI.
func (e *Engine) FetchRoster() error {
	roster, err := e.api.Activities(e.ctx)
	if err != nil {
		slog.Error("fetch activities", "err", err)
		if e.OnRosterUnavailable != nil {
			e.OnRosterUnavailable()
		}
		return err
	}

	e.mu.Lock()
	e.roster = roster
	e.mu.Unlock()

	if e.OnRoster != nil {
		e.OnRoster(roster)
	}
	return nil
}

// Login submits the entered username and password verbatim. On success the
// credential is persisted and the roster re-fetched; on failure the session
// stays anonymous and the server's error detail is surfaced. The engine
// never touches the entered values, so a UI can keep them populated for
// retry.
func (e *Engine) Login(username, password string) error {
	cred, err := e.api.Login(e.ctx, username, password)
	if err != nil {
		e.notifyError(err, msgLoginFailed)
		return err
	}

	if err := e.sessions.Save(cred); err != nil {
		slog.Error("persist session", "err", err)
	}
	e.mu.Lock()
	e.cred = cred
	e.mu.Unlock()

	e.notifySession()
	e.notify(Notice{Text: "Logged in as " + cred.Identity, Kind: NoticeSuccess})
	_ = e.FetchRoster()
	return nil
}

// Logout ends the session. The server is notified best-effort with the
// token snapshotted at call time; its response, or a transport failure, is
// ignored — logout always succeeds locally.
func (e *Engine) Logout() {
	e.mu.Lock()
	cred := e.cred
	e.cred = model.Credential{}
	e.mu.Unlock()

	if cred.Valid() {
		if err := e.api.Logout(e.ctx, cred.Token); err != nil {
			slog.Debug("logout notify failed", "err", err)
		}
	}
	e.sessions.Clear()

	e.notifySession()
	_ = e.FetchRoster()
	e.notify(Notice{Text: msgLoggedOut, Kind: NoticeSuccess})
}

// SignUp enrolls email in the named activity. It requires an authenticated
// session; when there is none, no request is sent and a single
// login-required notice is shown. On success the server's message is shown,
// the UI is told to clear its signup input, and the roster is re-fetched
// unconditionally — the mutation response carries no roster, and the client
// never trusts a locally predicted state.
func (e *Engine) SignUp(activity, email string) error {
	cred, ok := e.credentialSnapshot()
	if !ok {
		e.notify(Notice{Text: msgLoginRequired, Kind: NoticeError})
		return ErrLoginRequired
	}

	msg, err := e.api.SignUp(e.ctx, cred.Token, activity, email)
	if err != nil {
		e.notifyError(err, msgSignupFailed)
		return err
	}

	e.notify(Notice{Text: msg, Kind: NoticeSuccess})
	if e.OnSignupAccepted != nil {
		e.OnSignupAccepted()
	}
	_ = e.FetchRoster()
	return nil
}

// Unregister removes email from the named activity. Same gate, same
// error contract, and same unconditional re-fetch as SignUp.
func (e *Engine) Unregister(activity, email string) error {
	cred, ok := e.credentialSnapshot()
	if !ok {
		e.notify(Notice{Text: msgLoginRequired, Kind: NoticeError})
		return ErrLoginRequired
	}

	msg, err := e.api.Unregister(e.ctx, cred.Token, activity, email)
	if err != nil {
		e.notifyError(err, msgUnregisterFailed)
		return err
	}

	e.notify(Notice{Text: msg, Kind: NoticeSuccess})
	_ = e.FetchRoster()
	return nil
}

// Close cancels any in-flight requests. Used on shutdown.
func (e *Engine) Close() {
	e.cancel()
	e.noticeMu.Lock()
	if e.noticeTimer != nil {
		e.noticeTimer.Stop()
	}
	e.noticeMu.Unlock()
}

// credentialSnapshot returns the credential valid right now. Requests carry
// this snapshot even if a logout lands before the response does.
func (e *Engine) credentialSnapshot() (model.Credential, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cred, e.cred.Valid()
}

func (e *Engine) notifySession() {
	if e.OnSessionChange != nil {
		e.OnSessionChange(e.Session())
	}
}

// notify shows a notice and (re)arms the dismiss timer. A new notice
// cancels the previous timer, so the display state is timed and
// cancellable rather than a blocking confirmation.
func (e *Engine) notify(n Notice) {
	if e.OnNotice != nil {
		e.OnNotice(n)
	}

	e.noticeMu.Lock()
	defer e.noticeMu.Unlock()
	if e.noticeTimer != nil {
		e.noticeTimer.Stop()
	}
	e.noticeTimer = time.AfterFunc(e.noticeTTL, func() {
		if e.OnNoticeDismiss != nil {
			e.OnNoticeDismiss()
		}
	})
}

// notifyError surfaces a request failure: the server's detail verbatim when
// it sent one, the generic fallback otherwise.
func (e *Engine) notifyError(err error, fallback string) {
	text := fallback
	var se *ServerError
	if errors.As(err, &se) && se.Detail != "" {
		text = se.Detail
	}
	e.notify(Notice{Text: text, Kind: NoticeError})
}
