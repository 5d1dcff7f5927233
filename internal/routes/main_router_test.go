package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"testpark-console/internal/backend"
	"testpark-console/internal/backend/backendtest"
	"testpark-console/internal/entities"
	"testpark-console/internal/repositories"
	"testpark-console/pkg/config"
	"testpark-console/pkg/constants"
	"testpark-console/pkg/customvalidator"
	"testpark-console/pkg/eventbus"
	"testpark-console/pkg/service"
	"testpark-console/pkg/utils"
	appwebsocket "testpark-console/pkg/websocket"
)

// ConsoleTestSuite гоняет консоль целиком: echo -> middleware -> сервисы ->
// поддельный Django, сессии в miniredis.
type ConsoleTestSuite struct {
	suite.Suite
	Echo    *echo.Echo
	Backend *backendtest.Server
	Redis   *miniredis.Miniredis
	Token   string
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Body    json.RawMessage `json:"body"`
}

func (s *ConsoleTestSuite) SetupTest() {
	nopLogger := zap.NewNop()

	s.Backend = backendtest.New(s.T())
	s.Backend.AddOrder(entities.Order{
		No: 1, ReceiptDate: "2026-03-02 09:15", Name: "이영희", Phone: "010-1234-5678",
		Area: "서울 강남구", Schedule: "4월 초", ConstructionType: "욕실 리모델링",
		RecentStatus: constants.StatusWaiting,
	})
	s.Backend.AddOrder(entities.Order{No: 2, Area: "부산", ConstructionType: "도배", RecentStatus: constants.StatusCompleted})

	s.Redis = miniredis.RunT(s.T())
	rdb := redis.NewClient(&redis.Options{Addr: s.Redis.Addr()})
	s.T().Cleanup(func() { _ = rdb.Close() })

	v, err := customvalidator.New()
	s.Require().NoError(err)

	e := echo.New()
	e.Validator = utils.NewValidator(v)

	cfg := &config.Config{Cafe: config.CafeConfig{CafeID: "29829680", MenuID: "26"}}
	deps := Deps{
		Gateway:   backend.NewClient(s.Backend.URL, 5*time.Second, nopLogger),
		Cache:     repositories.NewRedisCacheRepository(rdb),
		JWT:       service.NewJWTService("test-secret", time.Hour, nopLogger),
		Validator: v,
		Bus:       eventbus.New(nopLogger),
		Hub:       appwebsocket.NewHub(nopLogger),
	}
	InitRouter(e, deps, &Loggers{Main: nopLogger, Auth: nopLogger, Order: nopLogger}, cfg)
	s.Echo = e

	s.Token = s.login()
}

func (s *ConsoleTestSuite) do(method, path string, body interface{}, token string) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get(echo.HeaderContentType) == echo.MIMEApplicationJSON {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func (s *ConsoleTestSuite) login() string {
	rec, env := s.do(http.MethodPost, "/console/api/auth/login",
		map[string]string{"username": backendtest.Username, "password": backendtest.Password}, "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.Unmarshal(env.Body, &res))
	s.Require().NotEmpty(res.Token)
	return res.Token
}

func (s *ConsoleTestSuite) TestSessionLifecycle() {
	rec, env := s.do(http.MethodGet, "/console/api/auth/me", nil, s.Token)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(string(env.Body), `"orders:view"`)

	rec, _ = s.do(http.MethodPost, "/console/api/auth/logout", nil, s.Token)
	s.Equal(http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodGet, "/console/api/auth/me", nil, s.Token)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *ConsoleTestSuite) TestWrongPassword() {
	rec, env := s.do(http.MethodPost, "/console/api/auth/login",
		map[string]string{"username": backendtest.Username, "password": "nope"}, "")
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.False(env.Status)
}

func (s *ConsoleTestSuite) TestOrdersRequireToken() {
	rec, _ := s.do(http.MethodGet, "/console/api/orders", nil, "")
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *ConsoleTestSuite) TestListOrdersWithFilter() {
	rec, env := s.do(http.MethodGet, "/console/api/orders?"+url.Values{"filter[recent_status]": {constants.StatusWaiting}}.Encode(), nil, s.Token)
	s.Require().Equal(http.StatusOK, rec.Code)

	var res struct {
		List  []entities.Order `json:"list"`
		Stats struct {
			TotalCount int `json:"total_count"`
		} `json:"stats"`
	}
	s.Require().NoError(json.Unmarshal(env.Body, &res))
	s.Require().Len(res.List, 1)
	s.Equal(int64(1), res.List[0].No)
	s.Equal(2, res.Stats.TotalCount)
}

func (s *ConsoleTestSuite) TestStatusMessageWithoutRecipientIsRejected() {
	rec, _ := s.do(http.MethodPost, "/console/api/orders/1/status",
		map[string]interface{}{"status": constants.StatusCompanySent, "send_message": true, "content": "안녕하세요"}, s.Token)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Empty(s.Backend.RequestsTo("/order/api/orders/1/update_status/"))
}

func (s *ConsoleTestSuite) TestStatusChange() {
	rec, env := s.do(http.MethodPost, "/console/api/orders/1/status",
		map[string]interface{}{"status": constants.StatusReInquiry}, s.Token)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var order entities.Order
	s.Require().NoError(json.Unmarshal(env.Body, &order))
	s.Equal(constants.StatusReInquiry, order.RecentStatus)
	s.Equal(1, order.ReRequestCount)
}

func (s *ConsoleTestSuite) TestStatusChangeAcceptedButRefetchFails() {
	s.Backend.Override(http.MethodPost, "/order/api/orders/1/update_status/", http.StatusOK, `{"success":true}`)
	s.Backend.Override(http.MethodGet, "/order/api/orders/1/", http.StatusBadGateway, `bad gateway`)

	rec, env := s.do(http.MethodPost, "/console/api/orders/1/status",
		map[string]interface{}{"status": constants.StatusCompleted}, s.Token)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.True(env.Status)
	s.Equal(constants.RefetchHint, env.Message)

	var res struct {
		No      int64 `json:"no"`
		Refetch bool  `json:"refetch"`
	}
	s.Require().NoError(json.Unmarshal(env.Body, &res))
	s.Equal(int64(1), res.No)
	s.True(res.Refetch)
	s.Len(s.Backend.RequestsTo("/order/api/orders/1/update_status/"), 1)
}

func (s *ConsoleTestSuite) TestBulkDeleteNeedsPermission() {
	rec, env := s.do(http.MethodPost, "/console/api/orders/bulk-delete",
		map[string]interface{}{"order_ids": []int64{1, 2}}, s.Token)
	s.Equal(http.StatusForbidden, rec.Code)
	s.Contains(string(env.Body), "orders:delete")
	s.Empty(s.Backend.RequestsTo("/order/api/orders/bulk_delete/"))
}

func (s *ConsoleTestSuite) TestCafeManualRequiredHandsOff() {
	s.Backend.SetCafeResult(map[string]interface{}{"status": "manual_required", "message": "로그인이 필요합니다"})

	rec, env := s.do(http.MethodPost, "/console/api/orders/1/cafe/post", nil, s.Token)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Outcome string `json:"outcome"`
		Post    struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		} `json:"post"`
		Handoff struct {
			Clipboard string `json:"clipboard"`
			OpenURL   string `json:"open_url"`
		} `json:"handoff"`
	}
	s.Require().NoError(json.Unmarshal(env.Body, &res))
	s.Equal("manual_required", res.Outcome)
	s.Equal(res.Post.Title+"\n\n"+res.Post.Content, res.Handoff.Clipboard)
	s.Equal("https://cafe.naver.com/f-e/cafes/29829680/menus/26", res.Handoff.OpenURL)
	s.Empty(s.Backend.RequestsTo("/order/api/orders/1/update_field/"))
}

func (s *ConsoleTestSuite) TestCafeFailureStillReturnsPost() {
	s.Backend.SetCafeResult(map[string]interface{}{"status": "error", "message": "카페 오류"})

	rec, env := s.do(http.MethodPost, "/console/api/orders/1/cafe/post", nil, s.Token)
	s.Equal(http.StatusBadGateway, rec.Code)
	s.False(env.Status)
	s.Contains(string(env.Body), "욕실 리모델링")
}

func (s *ConsoleTestSuite) TestCafeRejectedSessionSendsOperatorToLogin() {
	s.Backend.Override(http.MethodPost, "/order/api/orders/1/post_to_cafe/", http.StatusForbidden, `{"detail":"CSRF Failed"}`)

	rec, env := s.do(http.MethodPost, "/console/api/orders/1/cafe/post", nil, s.Token)
	s.Equal(http.StatusUnauthorized, rec.Code, rec.Body.String())
	s.False(env.Status)
}

func (s *ConsoleTestSuite) TestCafeLinkMustBeURL() {
	rec, _ := s.do(http.MethodPut, "/console/api/orders/1/cafe/link", map[string]string{"link": "not-a-url"}, s.Token)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Empty(s.Backend.RequestsTo("/order/api/orders/1/update_field/"))
}

func (s *ConsoleTestSuite) TestExportXLSX() {
	rec, _ := s.do(http.MethodGet, "/console/api/orders/export", nil, s.Token)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get(echo.HeaderContentType))
	s.Contains(rec.Header().Get("Content-Disposition"), "attachment")
	s.NotZero(rec.Body.Len())
}

func TestConsoleTestSuite(t *testing.T) {
	suite.Run(t, new(ConsoleTestSuite))
}
