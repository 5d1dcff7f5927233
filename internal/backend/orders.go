package backend

import (
	"context"
	"net/http"

	"testpark-console/internal/entities"
)

const (
	ordersPath     = "/order/api/orders/"
	companiesPath  = "/order/api/companies/"
	bulkDeletePath = "/order/api/orders/bulk_delete/"
)

func (c *Client) ListOrders(ctx context.Context, creds Credentials) ([]entities.Order, error) {
	const op = "list_orders"
	_, raw, err := c.call(ctx, op, &creds, http.MethodGet, ordersPath, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[entities.Order](op, raw)
}

func (c *Client) GetOrder(ctx context.Context, creds Credentials, no int64) (*entities.Order, error) {
	const op = "get_order"
	_, raw, err := c.call(ctx, op, &creds, http.MethodGet, orderPath(no, ""), nil)
	if err != nil {
		return nil, err
	}
	var order entities.Order
	if err := c.decode(op, raw, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) ListCompanies(ctx context.Context, creds Credentials) ([]entities.Company, error) {
	const op = "list_companies"
	_, raw, err := c.call(ctx, op, &creds, http.MethodGet, companiesPath, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[entities.Company](op, raw)
}

// UpdateStatus отправляет смену статуса и сообщение одним запросом:
// бэкенд сам фиксирует оба изменения.
func (c *Client) UpdateStatus(ctx context.Context, creds Credentials, no int64, req StatusUpdateRequest) (*MutationResult, error) {
	return c.mutate(ctx, "update_status", creds, orderPath(no, "update_status"), req)
}

func (c *Client) UpdateField(ctx context.Context, creds Credentials, no int64, req FieldUpdateRequest) (*MutationResult, error) {
	return c.mutate(ctx, "update_field", creds, orderPath(no, "update_field"), req)
}

func (c *Client) AddMemo(ctx context.Context, creds Credentials, no int64, req MemoRequest) (*MutationResult, error) {
	return c.mutate(ctx, "add_memo", creds, orderPath(no, "add_memo"), req)
}

func (c *Client) AddQuoteLink(ctx context.Context, creds Credentials, no int64, req QuoteLinkRequest) (*MutationResult, error) {
	return c.mutate(ctx, "add_quote_link", creds, orderPath(no, "add_quote_link"), req)
}

func (c *Client) BulkDelete(ctx context.Context, creds Credentials, req BulkDeleteRequest) (*BulkDeleteResult, error) {
	const op = "bulk_delete"
	_, raw, err := c.call(ctx, op, &creds, http.MethodPost, bulkDeletePath, req)
	if err != nil {
		return nil, err
	}
	var res BulkDeleteResult
	if err := c.decode(op, raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// PostToCafe не трактует status != success как ошибку: разбор исхода
// (success / manual_required / прочее) остаётся за вызывающим.
// Бэкенд может сопровождать manual_required флагом success=false,
// поэтому success=false считается отказом только без поля status.
func (c *Client) PostToCafe(ctx context.Context, creds Credentials, no int64, req CafePostRequest) (*CafePostResult, error) {
	const op = "post_to_cafe"
	resp, raw, err := c.send(ctx, op, &creds, http.MethodPost, orderPath(no, "post_to_cafe"), req)
	if err != nil {
		return nil, err
	}
	var res CafePostResult
	if err := c.decode(op, raw, &res); err != nil {
		return nil, err
	}
	if res.Status == "" {
		if env, ok := parseEnvelope(raw); ok && env.Success != nil && !*env.Success {
			return nil, &Error{Kind: KindApplication, Op: op, StatusCode: resp.StatusCode(), Message: env.text()}
		}
	}
	return &res, nil
}

func (c *Client) mutate(ctx context.Context, op string, creds Credentials, path string, body interface{}) (*MutationResult, error) {
	_, raw, err := c.call(ctx, op, &creds, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	var res MutationResult
	if err := c.decode(op, raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
