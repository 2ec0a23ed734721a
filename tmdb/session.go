package tmdb

import (
	"context"
	"net/http"
)

// Stage identifies one round trip of the login pipeline.
type Stage int

const (
	StageRequestToken Stage = iota + 1
	StageValidateLogin
	StageCreateSession
	StageResolveAccount
)

func (s Stage) String() string {
	switch s {
	case StageRequestToken:
		return "request token"
	case StageValidateLogin:
		return "validate login"
	case StageCreateSession:
		return "create session"
	case StageResolveAccount:
		return "resolve account"
	default:
		return "unknown"
	}
}

// State is the position of a login pipeline.
type State int

const (
	StateIdle State = iota
	StateTokenObtained
	StateLoginValidated
	StateSessionEstablished
	StateAccountResolved
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTokenObtained:
		return "token obtained"
	case StateLoginValidated:
		return "login validated"
	case StateSessionEstablished:
		return "session established"
	case StateAccountResolved:
		return "account resolved"
	default:
		return "unknown"
	}
}

// Credentials are consumed by the validate-login stage and never stored.
type Credentials struct {
	Username string
	Password string
}

// Session is the outcome of a successful login. It is threaded explicitly
// into every authenticated call.
type Session struct {
	ID        string `json:"session_id"`
	AccountID int    `json:"account_id"`
	Username  string `json:"username,omitempty"`
}

// Valid reports whether the session carries both identifiers.
func (s Session) Valid() bool {
	return s.ID != "" && s.AccountID != 0
}

// sessionState is threaded through the pipeline. AccountID is only set once
// SessionID is set, and SessionID only once the token was validated.
type sessionState struct {
	state        State
	requestToken string
	sessionID    string
	accountID    int
	username     string
}

// Login runs the four-stage handshake: request token, validate it with the
// credentials, exchange it for a session id, resolve the account id. The
// first failing stage ends the pipeline with a *StageError; nothing from the
// earlier stages is returned.
func (c *Client) Login(ctx context.Context, creds Credentials) (Session, error) {
	if creds.Username == "" || creds.Password == "" {
		return Session{}, ErrMissingCredentials
	}

	st := &sessionState{state: StateIdle}

	steps := []struct {
		stage Stage
		run   func(context.Context, *sessionState) error
	}{
		{StageRequestToken, c.requestToken},
		{StageValidateLogin, func(ctx context.Context, st *sessionState) error {
			return c.validateWithLogin(ctx, st, creds)
		}},
		{StageCreateSession, c.createSession},
		{StageResolveAccount, c.resolveAccount},
	}

	for _, step := range steps {
		if err := step.run(ctx, st); err != nil {
			c.logger.Debug().
				Str("stage", step.stage.String()).
				Str("state", st.state.String()).
				Err(err).
				Msg("Login pipeline halted")
			return Session{}, &StageError{Stage: step.stage, Err: err}
		}
	}

	c.logger.Info().Int("account_id", st.accountID).Msg("Login succeeded")
	return Session{ID: st.sessionID, AccountID: st.accountID, Username: st.username}, nil
}

// Idle -> TokenObtained
func (c *Client) requestToken(ctx context.Context, st *sessionState) error {
	p, err := c.doJSON(ctx, http.MethodGet, "/authentication/token/new", nil, nil)
	if err != nil {
		return err
	}
	if err := CheckSuccess(p); err != nil {
		return err
	}
	token, err := p.String(KeyRequestToken)
	if err != nil {
		return err
	}
	st.requestToken = token
	st.state = StateTokenObtained
	return nil
}

// TokenObtained -> LoginValidated
func (c *Client) validateWithLogin(ctx context.Context, st *sessionState, creds Credentials) error {
	body := map[string]string{
		ParamUsername:     creds.Username,
		ParamPassword:     creds.Password,
		ParamRequestToken: st.requestToken,
	}
	p, err := c.doJSON(ctx, http.MethodPost, "/authentication/token/validate_with_login", nil, body)
	if err != nil {
		return err
	}
	if err := CheckSuccess(p); err != nil {
		return err
	}
	st.state = StateLoginValidated
	return nil
}

// LoginValidated -> SessionEstablished. The token is spent afterwards.
func (c *Client) createSession(ctx context.Context, st *sessionState) error {
	body := map[string]string{ParamRequestToken: st.requestToken}
	p, err := c.doJSON(ctx, http.MethodPost, "/authentication/session/new", nil, body)
	if err != nil {
		return err
	}
	if err := CheckSuccess(p); err != nil {
		return err
	}
	id, err := p.String(KeySessionID)
	if err != nil {
		return err
	}
	st.sessionID = id
	st.requestToken = ""
	st.state = StateSessionEstablished
	return nil
}

// SessionEstablished -> AccountResolved
func (c *Client) resolveAccount(ctx context.Context, st *sessionState) error {
	if st.sessionID == "" {
		return ErrNoSession
	}
	account, err := c.GetAccount(ctx, st.sessionID)
	if err != nil {
		return err
	}
	st.accountID = account.ID
	st.username = account.Username
	st.state = StateAccountResolved
	return nil
}

// Account is the subset of the account details used by the client.
type Account struct {
	ID       int
	Username string
}

// GetAccount resolves the account behind a session id.
func (c *Client) GetAccount(ctx context.Context, sessionID string) (Account, error) {
	p, err := c.doJSON(ctx, http.MethodGet, "/account", Params{ParamSessionID: sessionID}, nil)
	if err != nil {
		return Account{}, err
	}
	if err := InterpretRead(p); err != nil {
		return Account{}, err
	}
	id, err := p.Int(KeyID)
	if err != nil {
		return Account{}, err
	}
	if id == 0 {
		return Account{}, &MissingFieldError{Name: KeyID}
	}
	account := Account{ID: id}
	if name, err := p.String(KeyUsername); err == nil {
		account.Username = name
	}
	return account, nil
}

// Logout deletes the session on the provider side.
func (c *Client) Logout(ctx context.Context, session Session) error {
	if session.ID == "" {
		return ErrNoSession
	}
	p, err := c.doJSON(ctx, http.MethodDelete, "/authentication/session", nil,
		map[string]string{ParamSessionID: session.ID})
	if err != nil {
		return err
	}
	ok, present, err := p.Bool(KeySuccess)
	if err != nil {
		return err
	}
	if !present {
		return &MissingFieldError{Name: KeySuccess}
	}
	if !ok {
		return rejection(p)
	}
	return nil
}
