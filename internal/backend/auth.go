package backend

import (
	"context"
	"net/http"

	"testpark-console/internal/entities"
)

const (
	csrfPath   = "/accounts/api/csrf/"
	loginPath  = "/accounts/api/login/"
	logoutPath = "/accounts/api/logout/"
	mePath     = "/accounts/api/me/"
)

// Login получает csrftoken, затем логинится и забирает sessionid из Set-Cookie.
func (c *Client) Login(ctx context.Context, req LoginRequest) (Credentials, error) {
	const op = "login"

	resp, _, err := c.call(ctx, op, nil, http.MethodGet, csrfPath, nil)
	if err != nil {
		return Credentials{}, err
	}
	creds := Credentials{CSRFToken: cookieValue(resp.Cookies(), csrfCookieName)}

	resp, _, err = c.call(ctx, op, &creds, http.MethodPost, loginPath, req)
	if err != nil {
		return Credentials{}, err
	}

	creds.SessionID = cookieValue(resp.Cookies(), sessionCookieName)
	// После логина Django ротирует CSRF-токен.
	if rotated := cookieValue(resp.Cookies(), csrfCookieName); rotated != "" {
		creds.CSRFToken = rotated
	}
	if creds.SessionID == "" {
		return Credentials{}, &Error{Kind: KindApplication, Op: op, StatusCode: resp.StatusCode(), Message: "sessionid cookie missing"}
	}
	return creds, nil
}

func (c *Client) Logout(ctx context.Context, creds Credentials) error {
	_, _, err := c.call(ctx, "logout", &creds, http.MethodPost, logoutPath, nil)
	return err
}

func (c *Client) Me(ctx context.Context, creds Credentials) (*entities.User, error) {
	const op = "me"
	_, raw, err := c.call(ctx, op, &creds, http.MethodGet, mePath, nil)
	if err != nil {
		return nil, err
	}
	var user entities.User
	if err := c.decode(op, raw, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func cookieValue(cookies []*http.Cookie, name string) string {
	for _, ck := range cookies {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}
