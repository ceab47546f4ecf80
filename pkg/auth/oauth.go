package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	// ClientSecretsFile is the OAuth client downloaded from the Google Cloud
	// console, expected in the config directory.
	ClientSecretsFile = "credentials.json"

	// TokenFile caches the access and refresh token in the config directory.
	TokenFile = "token.json"

	// LocalhostAuthPort receives the OAuth redirect. It must match the
	// redirect URI registered for the client.
	LocalhostAuthPort = "6789"

	authTimeout = 5 * time.Minute
)

// Scopes needed to manage task events.
var Scopes = []string{
	calendar.CalendarEventsScope,
	calendar.CalendarReadonlyScope,
}

// GetConfig reads the client secrets in dir and points the redirect at the
// local callback listener.
func GetConfig(dir string, scopes []string) (*oauth2.Config, error) {
	clientSecretsFile := filepath.Join(dir, ClientSecretsFile)
	b, err := os.ReadFile(clientSecretsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file %s: %w", clientSecretsFile, err)
	}

	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	config.RedirectURL = localRedirect(config.RedirectURL)
	return config, nil
}

// localRedirect forces localhost and out-of-band redirects onto
// LocalhostAuthPort; other redirects are kept with a warning.
func localRedirect(raw string) string {
	if raw == "" || raw == "urn:ietf:wg:oauth:2.0:oob" {
		return fmt.Sprintf("http://localhost:%s/oauth2callback", LocalhostAuthPort)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		log.Printf("[Auth] Could not parse RedirectURL %q: %v. Using it as is.", raw, err)
		return raw
	}
	host := parsed.Hostname()
	if host != "localhost" && host != "127.0.0.1" {
		log.Printf("[Auth] RedirectURL %q is not a localhost callback. Ensure this is correct for your setup.", raw)
		return raw
	}
	if port := parsed.Port(); port != "" && port != LocalhostAuthPort {
		log.Printf("[Auth] Redirect port %s in credentials.json replaced by %s", port, LocalhostAuthPort)
	}
	parsed.Host = net.JoinHostPort(host, LocalhostAuthPort)
	return parsed.String()
}

// GetClient returns an HTTP client that refreshes its token as needed. When
// no token is cached, the browser authorization flow runs first.
func GetClient(ctx context.Context, dir string, scopes []string) (*http.Client, error) {
	config, err := GetConfig(dir, scopes)
	if err != nil {
		return nil, err
	}

	tokenFile := filepath.Join(dir, TokenFile)
	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		log.Printf("[Auth] No usable token at %s. Starting web authorization flow...", tokenFile)
		tok, err = getTokenFromWeb(ctx, config)
		if err != nil {
			return nil, fmt.Errorf("failed to get token from web: %w", err)
		}
		if err := saveToken(tokenFile, tok); err != nil {
			return nil, err
		}
	}

	// Refresh now so a rotated token is cached before the client is used.
	src := config.TokenSource(ctx, tok)
	current, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	if current.AccessToken != tok.AccessToken || current.RefreshToken != tok.RefreshToken {
		if err := saveToken(tokenFile, current); err != nil {
			log.Printf("[Auth] Could not save refreshed token: %v", err)
		}
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(current, src)), nil
}

// getTokenFromWeb runs the authorization code flow, capturing the redirect
// on a local listener.
func getTokenFromWeb(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	listener, err := net.Listen("tcp", net.JoinHostPort("localhost", LocalhostAuthPort))
	if err != nil {
		return nil, fmt.Errorf("failed to start listener on port %s: %w", LocalhostAuthPort, err)
	}

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "Authorization code not found", http.StatusBadRequest)
				select {
				case errCh <- fmt.Errorf("authorization code not found in redirect URL"):
				default:
				}
				return
			}
			fmt.Fprintf(w, "Authentication successful! You can close this window.")
			select {
			case codeCh <- code:
			default:
			}
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			select {
			case errCh <- fmt.Errorf("HTTP server error: %w", err):
			default:
			}
		}
	}()
	defer server.Shutdown(context.Background())

	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Printf("Open the following URL in your browser to authorize todo:\n%s\n", authURL)
	log.Println("[Auth] Waiting for authorization code...")

	select {
	case code := <-codeCh:
		exchangeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		tok, err := config.Exchange(exchangeCtx, code)
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve token from Google: %w", err)
		}
		return tok, nil
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(authTimeout):
		return nil, fmt.Errorf("authorization timed out. Please try again")
	}
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token from file %s: %w", file, err)
	}
	return tok, nil
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("could not create token directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache OAuth token to %s: %w", path, err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// RemoveToken deletes the cached token so the next client runs the
// authorization flow again.
func RemoveToken(dir string) error {
	err := os.Remove(filepath.Join(dir, TokenFile))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// GetCalendarService returns an authenticated Calendar API service.
func GetCalendarService(ctx context.Context, dir string) (*calendar.Service, error) {
	client, err := GetClient(ctx, dir, Scopes)
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticated client for Calendar API: %w", err)
	}
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Google Calendar service: %w", err)
	}
	return srv, nil
}
