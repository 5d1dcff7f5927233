package services

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"testpark-console/internal/authz"
	"testpark-console/internal/entities"
	"testpark-console/pkg/types"
)

const exportSheet = "견적요청"

var exportHeaders = []interface{}{
	"번호", "접수일", "상태", "지정", "지정 유형", "닉네임", "네이버 ID", "이름", "연락처",
	"지역", "일정", "공사 종류", "배정 업체", "재문의", "원글", "카페 링크", "견적 수",
}

type ExportServiceInterface interface {
	ExportOrders(ctx context.Context, p *authz.Principal, filter types.Filter, w io.Writer) (int, error)
}

// ExportService выгружает отфильтрованный список заявок в xlsx.
type ExportService struct {
	*BaseService
}

func NewExportService(base *BaseService) ExportServiceInterface {
	return &ExportService{BaseService: base}
}

func (s *ExportService) ExportOrders(ctx context.Context, p *authz.Principal, filter types.Filter, w io.Writer) (int, error) {
	if err := s.CheckPermission(p, authz.OrdersExport); err != nil {
		return 0, err
	}
	all, err := s.gateway.ListOrders(ctx, p.Credentials)
	if err != nil {
		return 0, err
	}
	orders := applyOrderFilter(all, filter)
	sortOrders(orders, filter.Sort)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return 0, fmt.Errorf("лист xlsx: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return 0, fmt.Errorf("заголовок xlsx: %w", err)
	}
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	_ = f.SetCellStyle(exportSheet, "A1", lastCol+"1", style)

	for i, o := range orders {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := exportRow(o)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return 0, fmt.Errorf("строка %d xlsx: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(exportSheet, "B", "B", 20)
	_ = f.SetColWidth(exportSheet, "J", "M", 22)
	_ = f.SetColWidth(exportSheet, "O", "P", 45)

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("запись xlsx: %w", err)
	}
	s.logger.Info("Выгрузка заявок", zap.Int("rows", len(orders)), zap.String("actor", p.Actor()))
	return len(orders), nil
}

func exportRow(o entities.Order) []interface{} {
	return []interface{}{
		strconv.FormatInt(o.No, 10), o.ReceiptDate, o.RecentStatus, o.Designation, o.DesignationType,
		o.Nickname, o.NaverID, o.Name, o.Phone,
		o.Area, o.Schedule, o.ConstructionType, o.AssignedCompany, o.ReRequestCount,
		o.PostLink, o.CafeLink, len(o.QuoteLinks),
	}
}
