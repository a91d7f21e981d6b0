package gdrive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
)

const (
	tokenFilePerms = 0o600
	tokenDirPerms  = 0o700

	callbackShutdownTimeout = 5 * time.Second
)

// CredentialStore owns the persisted OAuth token. It loads it, refreshes it when
// expired and runs the browser consent flow when there is nothing usable on disk.
type CredentialStore struct {
	tokenPath  string
	secretPath string
	scopes     []string

	// OpenURL is called with the consent URL. When nil or failing, the URL is
	// only printed to Prompt.
	OpenURL func(string) error
	// Prompt receives the instructions for the consent flow. Defaults to stdout.
	Prompt io.Writer

	oauthConfig *oauth2.Config
}

func NewCredentialStore(tokenPath, secretPath string, scopes ...string) *CredentialStore {
	if len(scopes) == 0 {
		scopes = []string{drive.DriveScope}
	}
	return &CredentialStore{
		tokenPath:  tokenPath,
		secretPath: secretPath,
		scopes:     scopes,
		Prompt:     os.Stdout,
	}
}

// Load returns the persisted credential, or nil when the token file is absent
// or unreadable.
func (s *CredentialStore) Load() *Credential {
	data, err := os.ReadFile(s.tokenPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		logrus.WithError(err).WithField("path", s.tokenPath).Warn("unable to read token file")
		return nil
	}
	cred := &Credential{}
	if err := json.Unmarshal(data, cred); err != nil || cred.Token == nil {
		logrus.WithError(err).WithField("path", s.tokenPath).Warn("ignoring malformed token file")
		return nil
	}
	return cred
}

// Save writes the credential atomically (temp file + rename) with owner-only permissions.
func (s *CredentialStore) Save(cred *Credential) error {
	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}
	dir := filepath.Dir(s.tokenPath)
	if err := os.MkdirAll(dir, tokenDirPerms); err != nil {
		return fmt.Errorf("creating token directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".token-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp token file: %w", err)
	}
	tmpPath := tmp.Name()
	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := tmp.Chmod(tokenFilePerms); err != nil {
		tmp.Close()
		return fmt.Errorf("setting token permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing token: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing token: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing token: %w", err)
	}
	if err := os.Rename(tmpPath, s.tokenPath); err != nil {
		return fmt.Errorf("renaming token: %w", err)
	}
	success = true
	return nil
}

// EnsureValid makes sure a usable credential is on disk and returns it.
func (s *CredentialStore) EnsureValid(ctx context.Context) (*Credential, error) {
	cred := s.Load()
	switch {
	case cred != nil && cred.Token.Valid():
		return cred, nil
	case cred != nil && cred.Token.RefreshToken != "":
		refreshed, err := s.refresh(ctx, cred)
		if err != nil {
			return nil, &AuthError{Err: err}
		}
		return refreshed, nil
	}

	cred, err := s.consent(ctx)
	if err != nil {
		return nil, &AuthError{Err: err}
	}
	return cred, nil
}

// TokenSource returns a token source for API calls. Tokens renewed during the
// session are written back to the token file.
func (s *CredentialStore) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	cred, err := s.EnsureValid(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := s.config()
	if err != nil {
		// without the client secret the token cannot be renewed, but it is valid for now
		logrus.WithError(err).Warn("client secret unavailable, token will not be refreshed")
		return oauth2.StaticTokenSource(cred.Token), nil
	}
	return &persistingTokenSource{
		store:  s,
		src:    cfg.TokenSource(ctx, cred.Token),
		scopes: cred.Scopes,
		last:   cred.Token.AccessToken,
	}, nil
}

func (s *CredentialStore) config() (*oauth2.Config, error) {
	if s.oauthConfig != nil {
		return s.oauthConfig, nil
	}
	secret, err := os.ReadFile(s.secretPath)
	if err != nil {
		return nil, fmt.Errorf("reading client secret: %w", err)
	}
	cfg, err := google.ConfigFromJSON(secret, s.scopes...)
	if err != nil {
		return nil, fmt.Errorf("parsing client secret: %w", err)
	}
	s.oauthConfig = cfg
	return cfg, nil
}

func (s *CredentialStore) refresh(ctx context.Context, cred *Credential) (*Credential, error) {
	cfg, err := s.config()
	if err != nil {
		return nil, err
	}
	expired := *cred.Token
	expired.AccessToken = ""
	tok, err := cfg.TokenSource(ctx, &expired).Token()
	if err != nil {
		return nil, fmt.Errorf("refreshing token: %w", err)
	}
	logrus.WithField("expiry", tok.Expiry).Info("token refreshed")

	refreshed := &Credential{Token: tok, Scopes: cred.Scopes}
	if err := s.Save(refreshed); err != nil {
		return nil, err
	}
	return refreshed, nil
}

type callbackResult struct {
	code string
	err  error
}

// consent runs the authorization code flow against a local callback listener and
// blocks until the user authorizes or ctx is done.
func (s *CredentialStore) consent(ctx context.Context) (*Credential, error) {
	cfg, err := s.config()
	if err != nil {
		return nil, err
	}

	lc := net.ListenConfig{}
	listener, err := lc.Listen(ctx, "tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("binding callback listener: %w", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port

	// copy so the redirect url of a previous flow does not leak
	flowCfg := *cfg
	flowCfg.RedirectURL = fmt.Sprintf("http://127.0.0.1:%d/", port)

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	resultCh := make(chan callbackResult, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		handleCallback(w, r, state, resultCh)
	})
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: callbackShutdownTimeout}
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sendResult(resultCh, callbackResult{err: fmt.Errorf("callback server: %w", err)})
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), callbackShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Warn("callback server shutdown")
		}
	}()

	authURL := flowCfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))
	fmt.Fprintf(s.Prompt, "Please visit this URL to authorize this application: %s\n", authURL)
	if s.OpenURL != nil {
		if err := s.OpenURL(authURL); err != nil {
			logrus.WithError(err).Warn("unable to open browser")
		}
	}

	var code string
	select {
	case res := <-resultCh:
		if res.err != nil {
			return nil, res.err
		}
		code = res.code
	case <-ctx.Done():
		return nil, fmt.Errorf("consent canceled: %w", ctx.Err())
	}

	tok, err := flowCfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	logrus.WithField("expiry", tok.Expiry).Info("authorization granted")

	cred := &Credential{Token: tok, Scopes: s.scopes}
	if err := s.Save(cred); err != nil {
		return nil, err
	}
	return cred, nil
}

func handleCallback(w http.ResponseWriter, r *http.Request, state string, resultCh chan<- callbackResult) {
	q := r.URL.Query()
	if q.Get("state") != state {
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		sendResult(resultCh, callbackResult{err: errors.New("oauth state mismatch")})
		return
	}
	if e := q.Get("error"); e != "" {
		http.Error(w, "Authorization failed: "+e, http.StatusBadRequest)
		sendResult(resultCh, callbackResult{err: fmt.Errorf("authorization failed: %s", e)})
		return
	}
	code := q.Get("code")
	if code == "" {
		http.Error(w, "Missing authorization code", http.StatusBadRequest)
		sendResult(resultCh, callbackResult{err: errors.New("callback missing authorization code")})
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "The authentication flow has completed. You may close this window.")
	sendResult(resultCh, callbackResult{code: code})
}

// sendResult never blocks: only the first callback outcome matters.
func sendResult(ch chan<- callbackResult, res callbackResult) {
	select {
	case ch <- res:
	default:
	}
}

type persistingTokenSource struct {
	mu     sync.Mutex
	store  *CredentialStore
	src    oauth2.TokenSource
	scopes []string
	last   string
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tok, err := p.src.Token()
	if err != nil {
		return nil, &AuthError{Err: err}
	}
	if tok.AccessToken != p.last {
		p.last = tok.AccessToken
		if err := p.store.Save(&Credential{Token: tok, Scopes: p.scopes}); err != nil {
			logrus.WithError(err).Warn("unable to persist refreshed token")
		}
	}
	return tok, nil
}
