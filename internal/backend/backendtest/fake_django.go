// Package backendtest поднимает поддельный Django REST API для тестов.
package backendtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"testpark-console/internal/entities"
)

const (
	Username  = "staff"
	Password  = "secret"
	SessionID = "sess-1"
	CSRFToken = "csrf-1"
)

// Recorded - запрос, дошедший до поддельного бэкенда.
type Recorded struct {
	Method  string
	Path    string
	Body    map[string]interface{}
	CSRF    string
	Session string
}

type override struct {
	status int
	body   string
}

type Server struct {
	*httptest.Server

	mu        sync.Mutex
	orders    map[int64]*entities.Order
	companies []entities.Company
	user      entities.User
	requests  []Recorded
	overrides map[string]override
	cafe      map[string]interface{}
	nextID    int64
}

func New(t testing.TB) *Server {
	s := &Server{
		orders:    make(map[int64]*entities.Order),
		overrides: make(map[string]override),
		user: entities.User{
			ID: 7, Username: Username, DisplayName: "김관리", IsStaff: true,
			Permissions: []string{"orders:view", "orders:update", "orders:status", "orders:memo",
				"orders:quote", "orders:cafe", "orders:export", "companies:view"},
		},
		cafe: map[string]interface{}{"status": "success", "post_link": "https://cafe.naver.com/f-e/29829680/999"},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /accounts/api/csrf/{$}", s.handleCSRF)
	mux.HandleFunc("POST /accounts/api/login/{$}", s.handleLogin)
	mux.HandleFunc("POST /accounts/api/logout/{$}", s.authed(s.handleLogout))
	mux.HandleFunc("GET /accounts/api/me/{$}", s.authed(s.handleMe))
	mux.HandleFunc("GET /order/api/orders/{$}", s.authed(s.handleListOrders))
	mux.HandleFunc("GET /order/api/orders/{id}/{$}", s.authed(s.handleGetOrder))
	mux.HandleFunc("GET /order/api/companies/{$}", s.authed(s.handleCompanies))
	mux.HandleFunc("POST /order/api/orders/bulk_delete/{$}", s.authed(s.handleBulkDelete))
	mux.HandleFunc("POST /order/api/orders/{id}/{action}/{$}", s.authed(s.handleAction))

	s.Server = httptest.NewServer(s.record(mux))
	t.Cleanup(s.Close)
	return s
}

// AddOrder кладёт заявку в хранилище бэкенда.
func (s *Server) AddOrder(o entities.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := o
	s.orders[o.No] = &cp
}

func (s *Server) AddCompany(c entities.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies = append(s.companies, c)
}

func (s *Server) SetUser(u entities.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// Order возвращает копию сохранённой заявки.
func (s *Server) Order(no int64) (entities.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[no]
	if !ok {
		return entities.Order{}, false
	}
	return *o, true
}

// SetCafeResult задаёт тело ответа post_to_cafe.
func (s *Server) SetCafeResult(body map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cafe = body
}

// Override подменяет ответ для METHOD+path.
func (s *Server) Override(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[method+" "+path] = override{status: status, body: body}
}

func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Recorded, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) RequestsTo(path string) []Recorded {
	var out []Recorded
	for _, r := range s.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := Recorded{Method: r.Method, Path: r.URL.Path, CSRF: r.Header.Get("X-CSRFToken")}
		if ck, err := r.Cookie("sessionid"); err == nil {
			rec.Session = ck.Value
		}
		if r.Body != nil && r.Method != http.MethodGet {
			var body map[string]interface{}
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				rec.Body = body
			}
		}

		s.mu.Lock()
		s.requests = append(s.requests, rec)
		ov, hasOverride := s.overrides[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if hasOverride {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(ov.status)
			_, _ = w.Write([]byte(ov.body))
			return
		}

		r = r.WithContext(withRecorded(r.Context(), rec))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie("sessionid")
		if err != nil || ck.Value != SessionID {
			writeJSON(w, http.StatusForbidden, map[string]interface{}{"detail": "Authentication credentials were not provided."})
			return
		}
		if r.Method != http.MethodGet && r.Header.Get("X-CSRFToken") != CSRFToken {
			writeJSON(w, http.StatusForbidden, map[string]interface{}{"detail": "CSRF Failed: CSRF token missing."})
			return
		}
		next(w, r)
	}
}

func (s *Server) handleCSRF(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "csrf-0", Path: "/"})
	writeJSON(w, http.StatusOK, map[string]interface{}{"detail": "CSRF cookie set"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	rec := recordedFrom(r.Context())
	if rec.CSRF != "csrf-0" {
		writeJSON(w, http.StatusForbidden, map[string]interface{}{"detail": "CSRF Failed"})
		return
	}
	if rec.Body["username"] != Username || rec.Body["password"] != Password {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": "아이디 또는 비밀번호가 올바르지 않습니다"})
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: SessionID, Path: "/"})
	http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: CSRFToken, Path: "/"})
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	u := s.user
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	list := make([]entities.Order, 0, len(s.orders))
	for _, o := range s.orders {
		list = append(list, *o)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"count": len(list), "results": list})
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	no, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"detail": "Not found."})
		return
	}
	o, ok := s.Order(no)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"detail": "Not found."})
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	list := append([]entities.Company{}, s.companies...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	rec := recordedFrom(r.Context())
	ids, _ := rec.Body["order_ids"].([]interface{})

	s.mu.Lock()
	deleted := 0
	for _, raw := range ids {
		if f, ok := raw.(float64); ok {
			if _, exists := s.orders[int64(f)]; exists {
				delete(s.orders, int64(f))
				deleted++
			}
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "deleted_count": deleted})
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	rec := recordedFrom(r.Context())
	no, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"detail": "Not found."})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[no]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"detail": "Not found."})
		return
	}

	switch r.PathValue("action") {
	case "update_status":
		status, _ := rec.Body["status"].(string)
		order.RecentStatus = status
		if status == "재문의" {
			order.ReRequestCount++
		}
		if sent, _ := rec.Body["message_sent"].(bool); sent {
			now := time.Now()
			content, _ := rec.Body["message_content"].(string)
			recipient, _ := rec.Body["message_recipient"].(string)
			order.Messages = append(order.Messages, entities.Message{
				ID: s.id(), OrderNo: no, Content: content, Recipient: recipient, SentAt: &now, Status: "sent",
			})
		}
	case "update_field":
		field, _ := rec.Body["field"].(string)
		if err := setField(order, field, rec.Body["value"]); err != nil {
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": false, "error": err.Error()})
			return
		}
	case "add_memo":
		content, _ := rec.Body["memo"].(string)
		author, _ := rec.Body["author"].(string)
		order.Memos = append(order.Memos, entities.Memo{ID: s.id(), OrderNo: no, Content: content, Author: author, CreatedAt: time.Now()})
	case "add_quote_link":
		stage, _ := rec.Body["quote_type"].(string)
		link, _ := rec.Body["link"].(string)
		order.QuoteLinks = append(order.QuoteLinks, entities.Quote{ID: s.id(), OrderNo: no, Stage: stage, Link: link, CreatedAt: time.Now()})
	case "post_to_cafe":
		writeJSON(w, http.StatusOK, s.cafe)
		return
	default:
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"detail": "Not found."})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "order": order})
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

// setField меняет поле через JSON-представление заявки, как это делает update_field.
func setField(order *entities.Order, field string, value interface{}) error {
	raw, err := json.Marshal(order)
	if err != nil {
		return err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return err
	}
	if _, ok := m[field]; !ok && field != "google_sheet_id" {
		return fmt.Errorf("unknown field %q", field)
	}
	m[field] = value
	raw, err = json.Marshal(m)
	if err != nil {
		return err
	}
	var updated entities.Order
	if err := json.Unmarshal(raw, &updated); err != nil {
		return err
	}
	*order = updated
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
