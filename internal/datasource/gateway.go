package datasource

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iasiv5/a-share-analyst/internal/ratelimit"
	"github.com/iasiv5/a-share-analyst/pkg/model"
)

var errUnauthorized = errors.New("unauthorized")

// gatewayTokenCache is the on-disk token cache format.
type gatewayTokenCache struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Gateway implements Source against a self-hosted market-data gateway,
// a REST service that fronts the upstream feeds behind JWT auth.
type Gateway struct {
	baseURL   string
	appKey    string
	client    *http.Client
	limiter   *ratelimit.Limiter
	cacheFile string

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

// NewGateway creates a Gateway source for the given base URL and app key.
// Issued tokens are cached on disk, keyed by app key and base URL so
// multiple gateways don't clobber each other.
func NewGateway(baseURL, appKey string) *Gateway {
	hash := sha256.Sum256([]byte(appKey + baseURL))
	suffix := hex.EncodeToString(hash[:6])

	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	cacheFile := filepath.Join(cacheDir, "a-share-analyst", fmt.Sprintf("token-%s.json", suffix))

	g := &Gateway{
		baseURL:   strings.TrimRight(baseURL, "/"),
		appKey:    appKey,
		client:    &http.Client{Timeout: 30 * time.Second},
		limiter:   ratelimit.NewLimiter("gateway", 300),
		cacheFile: cacheFile,
	}
	g.loadCachedToken()
	return g
}

// Name returns the source name
func (g *Gateway) Name() string {
	return "gateway"
}

func (g *Gateway) loadCachedToken() {
	data, err := os.ReadFile(g.cacheFile)
	if err != nil {
		return
	}
	var cache gatewayTokenCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return
	}
	if time.Now().Add(5 * time.Minute).Before(cache.ExpiresAt) {
		g.token = cache.Token
		g.expiresAt = cache.ExpiresAt
	}
}

func (g *Gateway) saveCachedToken() error {
	cache := gatewayTokenCache{Token: g.token, ExpiresAt: g.expiresAt}
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal token cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(g.cacheFile), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(g.cacheFile, data, 0o600); err != nil {
		return fmt.Errorf("write token cache %s: %w", g.cacheFile, err)
	}
	return nil
}

// accessToken returns a valid token, requesting a fresh one when the
// cached token is within 5 minutes of expiry.
func (g *Gateway) accessToken(ctx context.Context) (string, error) {
	g.mu.RLock()
	if g.token != "" && time.Now().Add(5*time.Minute).Before(g.expiresAt) {
		token := g.token
		g.mu.RUnlock()
		return token, nil
	}
	g.mu.RUnlock()

	return g.refreshToken(ctx)
}

func (g *Gateway) refreshToken(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// Double-check
	if g.token != "" && time.Now().Add(5*time.Minute).Before(g.expiresAt) {
		return g.token, nil
	}

	reqBody, err := json.Marshal(map[string]string{"app_key": g.appKey})
	if err != nil {
		return "", fmt.Errorf("marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/auth/token", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", &SourceError{Source: g.Name(), Err: fmt.Errorf("token request: %w", err), Retryable: true}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &SourceError{
			Source:    g.Name(),
			Err:       fmt.Errorf("token request failed: %d - %s", resp.StatusCode, string(body)),
			Retryable: resp.StatusCode >= 500,
		}
	}

	var tokenResp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("unmarshal token response: %w", err)
	}
	if tokenResp.Token == "" {
		return "", fmt.Errorf("empty token in response: %s", string(body))
	}

	// The gateway verifies the signature server-side; the client only
	// needs the expiry claim to schedule refreshes.
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenResp.Token, claims); err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	expiresAt := time.Now().Add(time.Hour)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	g.token = tokenResp.Token
	g.expiresAt = expiresAt

	if err := g.saveCachedToken(); err != nil {
		log.Printf("[gateway] failed to cache token: %v", err)
	}
	return g.token, nil
}

func (g *Gateway) invalidate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.token = ""
	g.expiresAt = time.Time{}
}

func (g *Gateway) fetch(ctx context.Context, path string, out any) error {
	token, err := g.accessToken(ctx)
	if err != nil {
		return err
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return &SourceError{Source: g.Name(), Err: err, Retryable: true}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return errUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return &SourceError{Source: g.Name(), Err: fmt.Errorf("%w: %s", ErrNotFound, path)}
	case resp.StatusCode == http.StatusTooManyRequests:
		g.limiter.SignalRateLimited()
		return &SourceError{Source: g.Name(), Err: fmt.Errorf("rate limited"), Retryable: true}
	case resp.StatusCode != http.StatusOK:
		return &SourceError{
			Source:    g.Name(),
			Err:       fmt.Errorf("status %d", resp.StatusCode),
			Retryable: resp.StatusCode >= 500,
		}
	}
	g.limiter.ResetBackoff()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// getJSON fetches one endpoint, re-authenticating once on a 401 so an
// expired-but-cached token heals without surfacing an error.
func (g *Gateway) getJSON(ctx context.Context, path string, out any) error {
	err := g.fetch(ctx, path, out)
	if errors.Is(err, errUnauthorized) {
		g.invalidate()
		err = g.fetch(ctx, path, out)
	}
	if errors.Is(err, errUnauthorized) {
		return &SourceError{Source: g.Name(), Err: fmt.Errorf("authentication rejected")}
	}
	return err
}

// DailyBars fetches daily klines for one stock.
func (g *Gateway) DailyBars(ctx context.Context, code string, days int) (model.Series, error) {
	var bars model.Series
	path := fmt.Sprintf("/api/v1/bars?code=%s&days=%d", url.QueryEscape(code), days)
	if err := g.getJSON(ctx, path, &bars); err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, &SourceError{Source: g.Name(), Err: fmt.Errorf("%w: %s", ErrNotFound, code)}
	}
	return bars, nil
}

// Quote fetches the realtime snapshot row for one stock.
func (g *Gateway) Quote(ctx context.Context, code string) (*model.Quote, error) {
	var quote model.Quote
	if err := g.getJSON(ctx, "/api/v1/spot/"+url.PathEscape(code), &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// Snapshot fetches the full A-share spot table.
func (g *Gateway) Snapshot(ctx context.Context) ([]model.Quote, error) {
	var quotes []model.Quote
	if err := g.getJSON(ctx, "/api/v1/spot", &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}

// IndexQuotes fetches the benchmark index snapshots.
func (g *Gateway) IndexQuotes(ctx context.Context) ([]model.IndexQuote, error) {
	var quotes []model.IndexQuote
	if err := g.getJSON(ctx, "/api/v1/indices", &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}

// ConceptBoards fetches the concept board table.
func (g *Gateway) ConceptBoards(ctx context.Context) ([]model.BoardQuote, error) {
	var boards []model.BoardQuote
	if err := g.getJSON(ctx, "/api/v1/boards/concept", &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// IndustryBoards fetches the industry board table.
func (g *Gateway) IndustryBoards(ctx context.Context) ([]model.BoardQuote, error) {
	var boards []model.BoardQuote
	if err := g.getJSON(ctx, "/api/v1/boards/industry", &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// BoardMembers fetches the spot rows of one board's constituents.
func (g *Gateway) BoardMembers(ctx context.Context, boardCode string) ([]model.Quote, error) {
	var quotes []model.Quote
	path := fmt.Sprintf("/api/v1/boards/%s/members", url.PathEscape(boardCode))
	if err := g.getJSON(ctx, path, &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}

// LimitUpPool fetches the limit-up pool for a YYYYMMDD date.
func (g *Gateway) LimitUpPool(ctx context.Context, date string) ([]model.LimitStock, error) {
	return g.limitPool(ctx, "/api/v1/limit/up", date)
}

// LimitDownPool fetches the limit-down pool for a YYYYMMDD date.
func (g *Gateway) LimitDownPool(ctx context.Context, date string) ([]model.LimitStock, error) {
	return g.limitPool(ctx, "/api/v1/limit/down", date)
}

func (g *Gateway) limitPool(ctx context.Context, path, date string) ([]model.LimitStock, error) {
	if date != "" {
		path += "?date=" + url.QueryEscape(date)
	}
	var pool []model.LimitStock
	if err := g.getJSON(ctx, path, &pool); err != nil {
		return nil, err
	}
	return pool, nil
}

// NorthFlow fetches today's northbound net inflows.
func (g *Gateway) NorthFlow(ctx context.Context) (*model.NorthFlow, error) {
	var flow model.NorthFlow
	if err := g.getJSON(ctx, "/api/v1/northflow", &flow); err != nil {
		return nil, err
	}
	return &flow, nil
}

// FundFlow fetches the latest session's money flows for one stock.
func (g *Gateway) FundFlow(ctx context.Context, code string) (*model.FundFlow, error) {
	var flow model.FundFlow
	if err := g.getJSON(ctx, "/api/v1/fundflow/"+url.PathEscape(code), &flow); err != nil {
		return nil, err
	}
	return &flow, nil
}
