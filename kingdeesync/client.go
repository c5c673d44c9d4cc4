package kingdeesync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync/atomic"
	"time"

	"bitbucket.org/mmdatafocus/erp_sync/config"
	"github.com/sirupsen/logrus"
)

const (
	loginPath = "/Kingdee.BOS.WebApi.ServicesStub.AuthService.LoginByAppSecret.common.kdsvc"
	queryPath = "/Kingdee.BOS.WebApi.ServicesStub.DynamicFormService.ExecuteBillQuery.common.kdsvc"

	loginTimeout = 30 * time.Second
	queryTimeout = 60 * time.Second
)

// Row is one raw result row: field values positionally aligned to the
// requested field keys. Numbers decode as json.Number.
type Row []any

// Client holds the one authenticated Kingdee WebAPI session. The cookie
// jar carries the session state set by Login; all queries ride on it.
// Login and Query are sequential (the syncer drives them one at a
// time); IsLoggedIn may be read from other goroutines, so the flag is
// atomic.
type Client struct {
	cfg      config.KingdeeConfig
	http     *http.Client
	logger   *logrus.Logger
	loggedIn atomic.Bool
}

func NewClient(cfg config.KingdeeConfig, logger *logrus.Logger) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Jar: jar},
		logger: logger,
	}
}

func (c *Client) IsLoggedIn() bool {
	return c.loggedIn.Load()
}

type loginResult struct {
	LoginResultType int    `json:"LoginResultType"`
	Message         string `json:"Message"`
	Context         struct {
		UserName string `json:"UserName"`
	} `json:"Context"`
}

// Login authenticates with the app secret. Idempotent: once a login has
// succeeded, further calls return true without another round trip. On
// any failure the session stays unauthenticated; there is no retry.
func (c *Client) Login(ctx context.Context) bool {
	if c.loggedIn.Load() {
		return true
	}

	parameters, _ := json.Marshal([]any{
		c.cfg.AcctID, c.cfg.Username, c.cfg.AppID, c.cfg.AppSecret, c.cfg.LCID,
	})
	body := map[string]any{
		"format":     1,
		"useragent":  "ApiClient",
		"rid":        "1",
		"parameters": string(parameters),
		"timestamp":  "0",
		"v":          "1.0",
	}

	raw, err := c.post(ctx, loginPath, body, loginTimeout)
	if err != nil {
		c.logger.WithFields(logrus.Fields{"module": "kingdeesync", "op": "login"}).Warn(err.Error())
		return false
	}

	var result loginResult
	if err := json.Unmarshal(raw, &result); err != nil {
		c.logger.WithFields(logrus.Fields{"module": "kingdeesync", "op": "login"}).Warnf("malformed login response: %v", err)
		return false
	}
	if result.LoginResultType != 1 {
		msg := strings.TrimSpace(result.Message)
		if msg == "" {
			msg = "unknown error"
		}
		c.logger.WithFields(logrus.Fields{"module": "kingdeesync", "op": "login"}).Warnf("login rejected: %s", msg)
		return false
	}

	c.loggedIn.Store(true)
	c.logger.WithFields(logrus.Fields{"user": result.Context.UserName}).Info("logged in to Kingdee")
	return true
}

// Query runs one ExecuteBillQuery page against the named form. The
// response is either a bare row list or an envelope whose Result field
// holds it; both shapes are handled. No auto-pagination: callers pick a
// limit large enough for the expected volume.
func (c *Client) Query(ctx context.Context, formID string, fieldKeys string, filter string, limit int) ([]Row, error) {
	payload := map[string]any{
		"data": map[string]any{
			"FormId":       formID,
			"FieldKeys":    fieldKeys,
			"FilterString": filter,
			"OrderString":  "",
			"TopRowCount":  0,
			"StartRow":     0,
			"Limit":        limit,
			"SubSystemId":  "",
		},
	}

	raw, err := c.post(ctx, queryPath, payload, queryTimeout)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", formID, err)
	}

	rows, err := decodeRows(raw)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", formID, err)
	}
	return rows, nil
}

func (c *Client) post(ctx context.Context, path string, body any, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("kingdee api error %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}

// decodeRows unwraps the two response shapes ExecuteBillQuery produces:
// a bare JSON array of rows, or {"Result": [...]}. Anything else is an
// empty result.
func decodeRows(raw []byte) ([]Row, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		return parseRows(trimmed)
	}

	var envelope struct {
		Result json.RawMessage `json:"Result"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("malformed response body: %w", err)
	}
	if len(envelope.Result) == 0 {
		return nil, nil
	}
	return parseRows(envelope.Result)
}

func parseRows(raw []byte) ([]Row, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var rows []Row
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("malformed row list: %w", err)
	}
	return rows, nil
}
