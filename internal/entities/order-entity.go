package entities

import (
	"testpark-console/pkg/types"
)

// Order - заявка на ремонт в том виде, в каком её отдаёт Django.
// Консоль её не хранит: копия живёт только в рамках одного запроса.
type Order struct {
	No              int64  `json:"no"`
	ReceiptDate     string `json:"receipt_date"`
	Designation     string `json:"designation"`
	DesignationType string `json:"designation_type"`

	Nickname string `json:"nickname"`
	NaverID  string `json:"naver_id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`

	PostTitle        string `json:"post_title"`
	PostLink         string `json:"post_link"`
	Area             string `json:"area"`
	Schedule         string `json:"schedule"`
	ConstructionType string `json:"construction_type"`
	AssignedCompany  string `json:"assigned_company"`
	RecentStatus     string `json:"recent_status"`
	ReRequestCount   int    `json:"re_request_count"`

	PrivacyConsent    bool `json:"privacy_consent"`
	ThirdPartyConsent bool `json:"third_party_consent"`
	MarketingConsent  bool `json:"marketing_consent"`

	GoogleSheetID *string `json:"google_sheet_id,omitempty"`
	CafeLink      string  `json:"cafe_link"`

	QuoteLinks []Quote   `json:"quote_links"`
	Memos      []Memo    `json:"memos,omitempty"`
	Messages   []Message `json:"messages,omitempty"`

	types.BaseEntity
}
