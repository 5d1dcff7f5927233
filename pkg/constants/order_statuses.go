package constants

// --- СТАТУСЫ ЗАЯВОК (совпадают со значениями recent_status в Django) ---
const (
	StatusWaiting      = "대기중"
	StatusNumberNotice = "번호안내"
	StatusReInquiry    = "재문의"
	StatusCompanySent  = "업체전달"
	StatusQuoting      = "견적진행"
	StatusContracted   = "계약완료"
	StatusConstructing = "공사진행"
	StatusCompleted    = "완료"
	StatusOnHold       = "보류"
	StatusCancelled    = "취소"
)

// OrderStatuses - порядок совпадает с порядком карточек статистики.
var OrderStatuses = []string{
	StatusWaiting,
	StatusNumberNotice,
	StatusReInquiry,
	StatusCompanySent,
	StatusQuoting,
	StatusContracted,
	StatusConstructing,
	StatusCompleted,
	StatusOnHold,
	StatusCancelled,
}

// Финальные статусы. Переходы из них не запрещены, список нужен только для отображения.
var FinalStatuses = []string{
	StatusCompleted,
	StatusCancelled,
}

func IsOrderStatus(code string) bool {
	for _, s := range OrderStatuses {
		if s == code {
			return true
		}
	}
	return false
}

func IsFinalStatus(code string) bool {
	for _, s := range FinalStatuses {
		if s == code {
			return true
		}
	}
	return false
}

// --- ТИПЫ ЗАЯВЛЕННЫХ ПОЖЕЛАНИЙ (designation_type) ---
const (
	DesignationNone     = "지정없음"
	DesignationCompany  = "업체지정"
	DesignationRegion   = "지역지정"
	DesignationPriority = "우선처리"
)

var DesignationTypes = []string{DesignationNone, DesignationCompany, DesignationRegion, DesignationPriority}

// --- ПОЛУЧАТЕЛИ СООБЩЕНИЙ ---
const (
	RecipientCompany  = "company"
	RecipientCustomer = "customer"
	RecipientBoth     = "both"
)

var MessageRecipients = []string{RecipientCompany, RecipientCustomer, RecipientBoth}

func IsRecipient(v string) bool {
	for _, r := range MessageRecipients {
		if r == v {
			return true
		}
	}
	return false
}

// --- СТАТУСЫ ДОСТАВКИ СООБЩЕНИЙ ---
const (
	DeliverySent      = "sent"
	DeliveryDelivered = "delivered"
	DeliveryFailed    = "failed"
)

// --- СТАДИИ СМЕТЫ ---
const (
	QuoteDraft  = "draft"
	QuoteFirst  = "1st"
	QuoteSecond = "2nd"
	QuoteThird  = "3rd"
	QuoteFinal  = "final"
)

var QuoteStages = []string{QuoteDraft, QuoteFirst, QuoteSecond, QuoteThird, QuoteFinal}

func IsQuoteStage(v string) bool {
	for _, s := range QuoteStages {
		if s == v {
			return true
		}
	}
	return false
}
