package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testpark-console/internal/dto"
	"testpark-console/internal/entities"
	"testpark-console/internal/events"
	"testpark-console/pkg/constants"
	apperrors "testpark-console/pkg/errors"
	"testpark-console/pkg/types"
)

func seedOrders(f *fixture) {
	f.srv.AddOrder(entities.Order{No: 1, ReceiptDate: "2026-03-01 10:00", Area: "서울 강남구", Name: "김철수", RecentStatus: constants.StatusWaiting})
	f.srv.AddOrder(entities.Order{No: 2, ReceiptDate: "2026-03-02 08:00", Area: "부산 해운대구", Name: "이영희", RecentStatus: constants.StatusReInquiry, ReRequestCount: 2})
	f.srv.AddOrder(entities.Order{No: 3, ReceiptDate: "2026-03-02 09:30", Area: "서울 마포구", Name: "박민수", RecentStatus: constants.StatusCompleted, ReRequestCount: 1})
}

func TestGetOrders_StatsAndDefaultSort(t *testing.T) {
	f := newFixture(t)
	seedOrders(f)

	res, err := NewOrderService(f.base).GetOrders(context.Background(), f.staff, types.Filter{})
	require.NoError(t, err)

	require.Len(t, res.List, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{res.List[0].No, res.List[1].No, res.List[2].No})

	assert.Equal(t, 3, res.Stats.TotalCount)
	assert.Equal(t, 2, res.Stats.TodayCount)
	assert.Equal(t, 3, res.Stats.ReRequestTotal)
	assert.Equal(t, 1, res.Stats.ByStatus[constants.StatusWaiting])
	assert.Equal(t, 0, res.Stats.ByStatus[constants.StatusOnHold])
}

func TestGetOrders_FilterSearchAndPagination(t *testing.T) {
	f := newFixture(t)
	seedOrders(f)
	svc := NewOrderService(f.base)

	res, err := svc.GetOrders(context.Background(), f.staff, types.Filter{Search: "서울"})
	require.NoError(t, err)
	assert.Len(t, res.List, 2)
	assert.Equal(t, 3, res.Stats.TotalCount, "статистика считается по всему списку")

	res, err = svc.GetOrders(context.Background(), f.staff, types.Filter{
		Filter: map[string]string{"recent_status": constants.StatusWaiting + "," + constants.StatusReInquiry},
	})
	require.NoError(t, err)
	assert.Len(t, res.List, 2)

	res, err = svc.GetOrders(context.Background(), f.staff, types.Filter{
		Sort:           map[string]string{"no": "asc"},
		Limit:          2,
		Page:           2,
		WithPagination: true,
	})
	require.NoError(t, err)
	require.Len(t, res.List, 1)
	assert.Equal(t, int64(3), res.List[0].No)
	assert.Equal(t, types.Pagination{TotalCount: 3, Page: 2, Limit: 2, TotalPages: 2}, res.Pagination)
}

func TestFindOrder_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := NewOrderService(f.base).FindOrder(context.Background(), f.staff, 404)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetCompanies_OnlyAvailable(t *testing.T) {
	f := newFixture(t)
	f.srv.AddCompany(entities.Company{ID: 1, Name: "가능", IsActive: true, Capacity: 5, CurrentLoad: 2})
	f.srv.AddCompany(entities.Company{ID: 2, Name: "꽉참", IsActive: true, Capacity: 3, CurrentLoad: 3})
	f.srv.AddCompany(entities.Company{ID: 3, Name: "휴업", IsActive: false})

	svc := NewOrderService(f.base)
	all, err := svc.GetCompanies(context.Background(), f.staff, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	available, err := svc.GetCompanies(context.Background(), f.staff, true)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "가능", available[0].Name)
}

func TestUpdateField_RejectsMalformedLinkBeforePersist(t *testing.T) {
	f := newFixture(t)
	f.srv.AddOrder(sampleOrder(1))
	svc := NewOrderService(f.base)

	for _, field := range []string{constants.FieldPostLink, constants.FieldCafeLink} {
		_, err := svc.UpdateField(context.Background(), f.staff, 1, dto.FieldUpdateDTO{Field: field, Value: "not-a-url"})
		require.Error(t, err, field)
		assert.True(t, apperrors.IsValidation(err), field)
	}
	assert.Empty(t, f.srv.RequestsTo("/order/api/orders/1/update_field/"))
}

func TestUpdateField_RejectsFieldOutsideAllowlist(t *testing.T) {
	f := newFixture(t)
	svc := NewOrderService(f.base)

	_, err := svc.UpdateField(context.Background(), f.staff, 1, dto.FieldUpdateDTO{Field: "recent_status", Value: constants.StatusCompleted})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.UpdateField(context.Background(), f.staff, 1, dto.FieldUpdateDTO{Field: constants.FieldArea, Value: 42})
	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, f.srv.Requests())
}

func TestUpdateField_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.srv.AddOrder(sampleOrder(1))
	svc := NewOrderService(f.base)
	in := dto.FieldUpdateDTO{Field: constants.FieldAssignedCompany, Value: "새한건설"}

	first, err := svc.UpdateField(context.Background(), f.staff, 1, in)
	require.NoError(t, err)
	second, err := svc.UpdateField(context.Background(), f.staff, 1, in)
	require.NoError(t, err)

	assert.Equal(t, "새한건설", first.AssignedCompany)
	assert.Equal(t, first.AssignedCompany, second.AssignedCompany)
	stored, _ := f.srv.Order(1)
	assert.Equal(t, "새한건설", stored.AssignedCompany)
	assert.Len(t, f.srv.RequestsTo("/order/api/orders/1/update_field/"), 2)
}

func TestAddMemo_AuthorIsOperator(t *testing.T) {
	f := newFixture(t)
	f.srv.AddOrder(sampleOrder(1))

	order, err := NewOrderService(f.base).AddMemo(context.Background(), f.staff, 1, dto.MemoDTO{Memo: "  고객 부재중  "})
	require.NoError(t, err)
	require.Len(t, order.Memos, 1)
	assert.Equal(t, "고객 부재중", order.Memos[0].Content)
	assert.Equal(t, "김관리", order.Memos[0].Author)
}

func TestAddQuoteLink_ValidatesStage(t *testing.T) {
	f := newFixture(t)
	f.srv.AddOrder(sampleOrder(1))
	svc := NewOrderService(f.base)

	_, err := svc.AddQuoteLink(context.Background(), f.staff, 1, dto.QuoteLinkDTO{QuoteType: "4th", Link: "https://docs.example.com/q"})
	assert.True(t, apperrors.IsValidation(err))

	order, err := svc.AddQuoteLink(context.Background(), f.staff, 1, dto.QuoteLinkDTO{QuoteType: constants.QuoteFirst, Link: "https://docs.example.com/q"})
	require.NoError(t, err)
	require.Len(t, order.QuoteLinks, 1)
	assert.Equal(t, constants.QuoteFirst, order.QuoteLinks[0].Stage)
}

func TestBulkDelete_DeduplicatesAndPublishes(t *testing.T) {
	f := newFixture(t)
	seedOrders(f)
	admin := principalWith(f.srv, "orders:view", "orders:delete")

	res, err := NewOrderService(f.base).BulkDelete(context.Background(), admin, dto.BulkDeleteDTO{OrderIDs: []int64{1, 2, 2}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.DeletedCount)
	assert.Equal(t, []int64{1, 2}, res.OrderIDs)

	f.bus.Wait()
	evs := f.events.all()
	require.Len(t, evs, 1)
	assert.Equal(t, events.ActionBulkDelete, evs[0].(events.OrderChangedEvent).Action)
}

func TestBulkDelete_EmptySelectionRejected(t *testing.T) {
	f := newFixture(t)

	_, err := NewOrderService(f.base).BulkDelete(context.Background(), f.staff, dto.BulkDeleteDTO{})
	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, f.srv.Requests())
}
