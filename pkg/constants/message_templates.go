package constants

// Шаблоны сообщений, отправляемых при смене статуса.
// Плейсхолдеры в фигурных скобках подставляются из полей заявки.
const (
	TemplateCompanyAssign          = "company_assign"
	TemplateCustomerNotice         = "customer_notice"
	TemplateCustomerCompanyContact = "customer_company_contact"
	TemplateReRequest              = "re_request"
	TemplateCancelNotice           = "cancel_notice"
)

var MessageTemplates = map[string]string{
	TemplateCompanyAssign: "[테스트파크] 신규 견적 요청이 전달되었습니다.\n" +
		"주문번호: {no}\n고객명: {customer}\n연락처: {phone}\n지역: {area}\n" +
		"공사 내용: {construction}\n희망 일정: {schedule}\n빠른 연락 부탁드립니다.",
	TemplateCustomerNotice: "[테스트파크] {customer}님, 견적 요청이 접수되었습니다.\n" +
		"담당 업체 배정 후 다시 안내드리겠습니다.",
	TemplateCustomerCompanyContact: "[테스트파크] {customer}님, 요청하신 {construction} 견적을 위해 " +
		"{company} 업체가 배정되었습니다. 곧 연락드릴 예정입니다.",
	TemplateReRequest: "[테스트파크] {customer}님의 재요청이 접수되었습니다.\n" +
		"주문번호: {no}\n지역: {area}\n공사 내용: {construction}",
	TemplateCancelNotice: "[테스트파크] 주문번호 {no} 견적 요청이 취소되었습니다.",
}

// Заголовок и тело поста для Naver Cafe.
const (
	CafePostTitleTemplate = "[{area}] {construction} 견적 문의"

	CafePostContentTemplate = "안녕하세요, 테스트파크입니다.\n\n" +
		"■ 공사 종류: {construction}\n" +
		"■ 지역: {area}\n" +
		"■ 지정 여부: {designation}\n" +
		"■ 희망 일정: {schedule}\n\n" +
		"견적 참여를 원하시는 업체는 댓글 또는 쪽지로 연락 부탁드립니다."
)

// Пустые поля в посте заменяются этим значением.
const CafeEmptyValue = "미정"

// Подсказка оператору, когда кафе не приняло автоматическую публикацию.
const CafeManualInstruction = "자동 등록이 불가하여 게시글 내용을 클립보드에 복사했습니다. 열린 카페 글쓰기 화면에 붙여넣어 주세요."

// Изменение принято бэкендом, но свежую заявку получить не удалось.
const RefetchHint = "변경되었습니다. 최신 정보를 다시 불러와 주세요."
