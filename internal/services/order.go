package services

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"testpark-console/internal/authz"
	"testpark-console/internal/backend"
	"testpark-console/internal/dto"
	"testpark-console/internal/entities"
	"testpark-console/internal/events"
	"testpark-console/pkg/constants"
	apperrors "testpark-console/pkg/errors"
	"testpark-console/pkg/types"
)

const (
	defaultOrderLimit = 50
	maxOrderLimit     = 500
)

type OrderServiceInterface interface {
	GetOrders(ctx context.Context, p *authz.Principal, filter types.Filter) (*dto.OrderListResponseDTO, error)
	FindOrder(ctx context.Context, p *authz.Principal, no int64) (*entities.Order, error)
	GetCompanies(ctx context.Context, p *authz.Principal, onlyAvailable bool) ([]entities.Company, error)
	UpdateField(ctx context.Context, p *authz.Principal, no int64, in dto.FieldUpdateDTO) (*entities.Order, error)
	AddMemo(ctx context.Context, p *authz.Principal, no int64, in dto.MemoDTO) (*entities.Order, error)
	AddQuoteLink(ctx context.Context, p *authz.Principal, no int64, in dto.QuoteLinkDTO) (*entities.Order, error)
	BulkDelete(ctx context.Context, p *authz.Principal, in dto.BulkDeleteDTO) (*dto.BulkDeleteResponseDTO, error)
}

type OrderService struct {
	*BaseService
}

func NewOrderService(base *BaseService) OrderServiceInterface {
	return &OrderService{BaseService: base}
}

// GetOrders: бэкенд отдаёт список целиком, поиск, фильтры, сортировка
// и пагинация применяются здесь. Статистика считается по всему списку.
func (s *OrderService) GetOrders(ctx context.Context, p *authz.Principal, filter types.Filter) (*dto.OrderListResponseDTO, error) {
	if err := s.CheckPermission(p, authz.OrdersView); err != nil {
		return nil, err
	}
	all, err := s.gateway.ListOrders(ctx, p.Credentials)
	if err != nil {
		return nil, err
	}

	stats := s.computeStats(all)
	matched := applyOrderFilter(all, filter)
	sortOrders(matched, filter.Sort)

	page, pagination := paginate(matched, filter)
	return &dto.OrderListResponseDTO{
		List:       page,
		Stats:      stats,
		Pagination: pagination,
	}, nil
}

func (s *OrderService) FindOrder(ctx context.Context, p *authz.Principal, no int64) (*entities.Order, error) {
	if err := s.CheckPermission(p, authz.OrdersView); err != nil {
		return nil, err
	}
	order, err := s.gateway.GetOrder(ctx, p.Credentials, no)
	if err != nil {
		if be, ok := backend.AsError(err); ok && be.StatusCode == 404 {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) GetCompanies(ctx context.Context, p *authz.Principal, onlyAvailable bool) ([]entities.Company, error) {
	if err := s.CheckPermission(p, authz.CompaniesView); err != nil {
		return nil, err
	}
	companies, err := s.gateway.ListCompanies(ctx, p.Credentials)
	if err != nil {
		return nil, err
	}
	if !onlyAvailable {
		return companies, nil
	}
	available := make([]entities.Company, 0, len(companies))
	for _, c := range companies {
		if c.HasCapacity() {
			available = append(available, c)
		}
	}
	return available, nil
}

// UpdateField меняет одно поле из белого списка. Ссылки проверяются как URL
// до отправки запроса.
func (s *OrderService) UpdateField(ctx context.Context, p *authz.Principal, no int64, in dto.FieldUpdateDTO) (*entities.Order, error) {
	if err := s.CheckPermission(p, authz.OrdersUpdate); err != nil {
		return nil, err
	}
	if err := s.validate(in); err != nil {
		return nil, err
	}
	value, err := s.normalizeFieldValue(in.Field, in.Value)
	if err != nil {
		return nil, err
	}

	res, err := s.gateway.UpdateField(ctx, p.Credentials, no, backend.FieldUpdateRequest{Field: in.Field, Value: value})
	if err != nil {
		return nil, err
	}

	s.publish(p, events.ActionField, in.Field, no)
	s.logger.Info("Поле заявки изменено",
		zap.Int64("orderNo", no),
		zap.String("field", in.Field),
		zap.String("actor", p.Actor()),
	)
	return s.refresh(ctx, p, no, res.Order), nil
}

func (s *OrderService) normalizeFieldValue(field string, raw interface{}) (interface{}, error) {
	if raw == nil {
		if field == constants.FieldGoogleSheetID {
			return nil, nil
		}
		return nil, apperrors.NewValidationError("value", "값을 입력해 주세요")
	}
	value, ok := raw.(string)
	if !ok {
		return nil, apperrors.NewValidationError("value", "문자열 값이어야 합니다")
	}
	value = strings.TrimSpace(value)

	switch {
	case constants.IsLinkField(field):
		if err := s.validateVar("value", value, "required,http_url"); err != nil {
			return nil, err
		}
	case field == constants.FieldDesignationType:
		if err := s.validateVar("value", value, "required,designation_type"); err != nil {
			return nil, err
		}
	case field == constants.FieldPhone:
		if err := s.validateVar("value", value, "omitempty,kr_phone"); err != nil {
			return nil, err
		}
	default:
		if err := s.validateVar("value", value, "max=500"); err != nil {
			return nil, err
		}
	}
	return value, nil
}

// AddMemo: автор заметки всегда текущий оператор.
func (s *OrderService) AddMemo(ctx context.Context, p *authz.Principal, no int64, in dto.MemoDTO) (*entities.Order, error) {
	if err := s.CheckPermission(p, authz.OrdersMemo); err != nil {
		return nil, err
	}
	in.Memo = strings.TrimSpace(in.Memo)
	if err := s.validate(in); err != nil {
		return nil, err
	}

	res, err := s.gateway.AddMemo(ctx, p.Credentials, no, backend.MemoRequest{Memo: in.Memo, Author: p.Actor()})
	if err != nil {
		return nil, err
	}
	s.publish(p, events.ActionMemo, "", no)
	return s.refresh(ctx, p, no, res.Order), nil
}

func (s *OrderService) AddQuoteLink(ctx context.Context, p *authz.Principal, no int64, in dto.QuoteLinkDTO) (*entities.Order, error) {
	if err := s.CheckPermission(p, authz.OrdersQuote); err != nil {
		return nil, err
	}
	in.Link = strings.TrimSpace(in.Link)
	if err := s.validate(in); err != nil {
		return nil, err
	}

	res, err := s.gateway.AddQuoteLink(ctx, p.Credentials, no, backend.QuoteLinkRequest{QuoteType: in.QuoteType, Link: in.Link})
	if err != nil {
		return nil, err
	}
	s.publish(p, events.ActionQuote, in.QuoteType, no)
	return s.refresh(ctx, p, no, res.Order), nil
}

func (s *OrderService) BulkDelete(ctx context.Context, p *authz.Principal, in dto.BulkDeleteDTO) (*dto.BulkDeleteResponseDTO, error) {
	if err := s.CheckPermission(p, authz.OrdersDelete); err != nil {
		return nil, err
	}
	if err := s.validate(in); err != nil {
		return nil, err
	}
	ids := uniqueIDs(in.OrderIDs)

	res, err := s.gateway.BulkDelete(ctx, p.Credentials, backend.BulkDeleteRequest{OrderIDs: ids})
	if err != nil {
		return nil, err
	}

	s.publish(p, events.ActionBulkDelete, strconv.Itoa(res.DeletedCount), ids...)
	s.logger.Warn("Заявки удалены",
		zap.Int64s("orderNos", ids),
		zap.Int("deleted", res.DeletedCount),
		zap.String("actor", p.Actor()),
	)
	return &dto.BulkDeleteResponseDTO{DeletedCount: res.DeletedCount, OrderIDs: ids}, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// --- Статистика ---

func (s *OrderService) computeStats(orders []entities.Order) types.OrderStats {
	today := s.now().Format("2006-01-02")
	stats := types.OrderStats{
		TotalCount: len(orders),
		ByStatus:   make(map[string]int, len(constants.OrderStatuses)),
	}
	for _, st := range constants.OrderStatuses {
		stats.ByStatus[st] = 0
	}
	for _, o := range orders {
		stats.ByStatus[o.RecentStatus]++
		stats.ReRequestTotal += o.ReRequestCount
		if strings.HasPrefix(o.ReceiptDate, today) {
			stats.TodayCount++
		}
	}
	return stats
}

// --- Фильтрация ---

// Поля, по которым разрешён filter[...] в запросе.
var orderFilterFields = map[string]func(entities.Order) string{
	"recent_status":     func(o entities.Order) string { return o.RecentStatus },
	"designation_type":  func(o entities.Order) string { return o.DesignationType },
	"assigned_company":  func(o entities.Order) string { return o.AssignedCompany },
	"area":              func(o entities.Order) string { return o.Area },
	"construction_type": func(o entities.Order) string { return o.ConstructionType },
}

func applyOrderFilter(orders []entities.Order, f types.Filter) []entities.Order {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]entities.Order, 0, len(orders))

	for _, o := range orders {
		if !matchesFilters(o, f.Filter) {
			continue
		}
		if search != "" && !matchesSearch(o, search) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func matchesFilters(o entities.Order, filters map[string]string) bool {
	for key, want := range filters {
		get, ok := orderFilterFields[key]
		if !ok || want == "" {
			continue
		}
		// Несколько значений через запятую: filter[recent_status]=대기중,재문의
		matched := false
		for _, v := range strings.Split(want, ",") {
			if strings.TrimSpace(v) == get(o) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func matchesSearch(o entities.Order, needle string) bool {
	haystack := []string{
		strconv.FormatInt(o.No, 10),
		o.Nickname, o.NaverID, o.Name, o.Phone,
		o.PostTitle, o.Area, o.ConstructionType, o.AssignedCompany,
	}
	for _, h := range haystack {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

var orderSortKeys = map[string]func(a, b entities.Order) bool{
	"no":               func(a, b entities.Order) bool { return a.No < b.No },
	"receipt_date":     func(a, b entities.Order) bool { return a.ReceiptDate < b.ReceiptDate },
	"re_request_count": func(a, b entities.Order) bool { return a.ReRequestCount < b.ReRequestCount },
	"recent_status":    func(a, b entities.Order) bool { return a.RecentStatus < b.RecentStatus },
}

// sortOrders: по умолчанию новые заявки сверху.
func sortOrders(orders []entities.Order, sortBy map[string]string) {
	key, dir := "no", "desc"
	for k, d := range sortBy {
		if _, ok := orderSortKeys[k]; ok {
			key, dir = k, strings.ToLower(d)
			break
		}
	}
	less := orderSortKeys[key]
	sort.SliceStable(orders, func(i, j int) bool {
		if dir == "asc" {
			return less(orders[i], orders[j])
		}
		return less(orders[j], orders[i])
	})
}

func paginate(orders []entities.Order, f types.Filter) ([]entities.Order, types.Pagination) {
	total := len(orders)
	if !f.WithPagination {
		return orders, types.Pagination{TotalCount: total, Page: 1, Limit: total, TotalPages: 1}
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultOrderLimit
	}
	if limit > maxOrderLimit {
		limit = maxOrderLimit
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit
	if f.Offset > 0 {
		offset = f.Offset
	}

	pages := (total + limit - 1) / limit
	if pages == 0 {
		pages = 1
	}
	pagination := types.Pagination{TotalCount: total, Page: page, Limit: limit, TotalPages: pages}

	if offset >= total {
		return []entities.Order{}, pagination
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return orders[offset:end], pagination
}
