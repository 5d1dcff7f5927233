// pkg/constants/constants.go
package constants

//============== ORDER FIELDS ==============

// Поля заявки, которые разрешено менять через update_field.
// no, recent_status и счетчики меняет только бэкенд.
const (
	FieldDesignation      = "designation"
	FieldDesignationType  = "designation_type"
	FieldNickname         = "nickname"
	FieldNaverID          = "naver_id"
	FieldName             = "name"
	FieldPhone            = "phone"
	FieldPostLink         = "post_link"
	FieldArea             = "area"
	FieldSchedule         = "schedule"
	FieldConstructionType = "construction_type"
	FieldAssignedCompany  = "assigned_company"
	FieldCafeLink         = "cafe_link"
	FieldGoogleSheetID    = "google_sheet_id"
)

var EditableOrderFields = []string{
	FieldDesignation,
	FieldDesignationType,
	FieldNickname,
	FieldNaverID,
	FieldName,
	FieldPhone,
	FieldPostLink,
	FieldArea,
	FieldSchedule,
	FieldConstructionType,
	FieldAssignedCompany,
	FieldCafeLink,
	FieldGoogleSheetID,
}

func IsEditableOrderField(field string) bool {
	for _, f := range EditableOrderFields {
		if f == field {
			return true
		}
	}
	return false
}

// Поля со ссылками проверяются как URL.
func IsLinkField(field string) bool {
	return field == FieldPostLink || field == FieldCafeLink
}

//============== NAVER CAFE ==============

// Формат: https://cafe.naver.com/f-e/cafes/<cafeId>/menus/<menuId>
const CafeWriteURLFormat = "https://cafe.naver.com/f-e/cafes/%s/menus/%s"

const (
	CafePostSuccess        = "success"
	CafePostManualRequired = "manual_required"
)

//============== CACHE KEYS ==============

const (
	// Формат: console_session:<sessionID> -> JSON Principal
	CacheKeySession = "console_session:%s"

	// Формат: offline:<versionTag>:<path> -> JSON кешированного ответа
	CacheKeyOfflineEntry = "offline:%s:%s"

	// Шаблон для SCAN всех записей офлайн-кеша.
	CacheKeyOfflinePattern = "offline:*"
)

//============== API PREFIXES ==============

// Запросы с этими префиксами офлайн-кеш всегда отправляет в сеть.
var APIPathPrefixes = []string{"/api/", "/order/api/", "/console/api/", "/accounts/api/"}
