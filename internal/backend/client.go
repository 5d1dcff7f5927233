package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"testpark-console/internal/entities"
)

const (
	sessionCookieName = "sessionid"
	csrfCookieName    = "csrftoken"
	csrfHeaderName    = "X-CSRFToken"
)

// GatewayInterface - все операции над REST API Django, которые нужны консоли.
type GatewayInterface interface {
	ListOrders(ctx context.Context, creds Credentials) ([]entities.Order, error)
	GetOrder(ctx context.Context, creds Credentials, no int64) (*entities.Order, error)
	ListCompanies(ctx context.Context, creds Credentials) ([]entities.Company, error)
	UpdateStatus(ctx context.Context, creds Credentials, no int64, req StatusUpdateRequest) (*MutationResult, error)
	UpdateField(ctx context.Context, creds Credentials, no int64, req FieldUpdateRequest) (*MutationResult, error)
	AddMemo(ctx context.Context, creds Credentials, no int64, req MemoRequest) (*MutationResult, error)
	AddQuoteLink(ctx context.Context, creds Credentials, no int64, req QuoteLinkRequest) (*MutationResult, error)
	BulkDelete(ctx context.Context, creds Credentials, req BulkDeleteRequest) (*BulkDeleteResult, error)
	PostToCafe(ctx context.Context, creds Credentials, no int64, req CafePostRequest) (*CafePostResult, error)

	Login(ctx context.Context, req LoginRequest) (Credentials, error)
	Logout(ctx context.Context, creds Credentials) error
	Me(ctx context.Context, creds Credentials) (*entities.User, error)
}

// Client - тонкая обёртка над resty. Один HTTP-вызов на операцию, без повторов.
type Client struct {
	httpClient *resty.Client
	baseURL    string
	logger     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: client,
		baseURL:    baseURL,
		logger:     logger,
	}
}

var _ GatewayInterface = (*Client)(nil)

// call выполняет запрос и возвращает тело успешного ответа.
// Ошибка всегда *Error.
func (c *Client) call(ctx context.Context, op string, creds *Credentials, method, path string, body interface{}) (*resty.Response, []byte, error) {
	resp, raw, err := c.send(ctx, op, creds, method, path, body)
	if err != nil {
		return resp, nil, err
	}
	// 200 с success=false - отказ на уровне приложения.
	if env, ok := parseEnvelope(raw); ok && env.Success != nil && !*env.Success {
		return resp, nil, &Error{Kind: KindApplication, Op: op, StatusCode: resp.StatusCode(), Message: env.text()}
	}
	return resp, raw, nil
}

// send - то же, что call, но тело 200 не разбирается: success=false
// отдаётся вызывающему как есть.
func (c *Client) send(ctx context.Context, op string, creds *Credentials, method, path string, body interface{}) (*resty.Response, []byte, error) {
	req := c.httpClient.R().SetContext(ctx)

	if creds != nil {
		if creds.SessionID != "" {
			req.SetCookie(&http.Cookie{Name: sessionCookieName, Value: creds.SessionID})
		}
		if method != http.MethodGet && creds.CSRFToken != "" {
			req.SetCookie(&http.Cookie{Name: csrfCookieName, Value: creds.CSRFToken})
			req.SetHeader(csrfHeaderName, creds.CSRFToken)
			// Django проверяет Referer у HTTPS-запросов с CSRF.
			req.SetHeader("Referer", c.baseURL+"/")
		}
	}
	if body != nil {
		req.SetBody(body)
	}

	started := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Warn("Бэкенд недоступен",
			zap.String("op", op),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		cause := err
		if ctxErr := ctx.Err(); ctxErr != nil {
			cause = ctxErr
		}
		return resp, nil, &Error{Kind: KindNetwork, Op: op, Err: cause}
	}

	raw := resp.Body()
	c.logger.Debug("Ответ бэкенда",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("duration", time.Since(started)),
	)

	if code := resp.StatusCode(); code >= http.StatusBadRequest {
		kind := KindClient
		if code >= http.StatusInternalServerError {
			kind = KindServer
		}
		return resp, nil, &Error{Kind: kind, Op: op, StatusCode: code, Message: errorText(raw)}
	}

	return resp, raw, nil
}

func (c *Client) decode(op string, raw []byte, out interface{}) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Kind: KindDecode, Op: op, Err: err}
	}
	return nil
}

func parseEnvelope(raw []byte) (envelope, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return envelope{}, false
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return envelope{}, false
	}
	return env, true
}

func errorText(raw []byte) string {
	if env, ok := parseEnvelope(raw); ok {
		if t := env.text(); t != "" {
			return t
		}
	}
	text := strings.TrimSpace(string(raw))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}

// decodeList принимает как голый массив, так и страницу DRF {"results": [...]}.
func decodeList[T any](op string, raw []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return []T{}, nil
	}

	if trimmed[0] == '[' {
		var list []T
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, &Error{Kind: KindDecode, Op: op, Err: err}
		}
		return list, nil
	}

	var page struct {
		Results []T `json:"results"`
		Orders  []T `json:"orders"`
		Data    []T `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, &Error{Kind: KindDecode, Op: op, Err: err}
	}
	switch {
	case page.Results != nil:
		return page.Results, nil
	case page.Orders != nil:
		return page.Orders, nil
	case page.Data != nil:
		return page.Data, nil
	}
	return []T{}, nil
}

func orderPath(no int64, action string) string {
	if action == "" {
		return fmt.Sprintf("/order/api/orders/%d/", no)
	}
	return fmt.Sprintf("/order/api/orders/%d/%s/", no, action)
}
