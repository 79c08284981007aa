package response

import (
	"time"

	"payscan/internal/usecase/commands"
	"payscan/internal/usecase/queries"
)

type VerificationResponse struct {
	FormatValid   bool `json:"format_valid"`
	CryptoValid   bool `json:"crypto_valid"`
	DomainValid   bool `json:"domain_valid"`
	ProviderKnown bool `json:"provider_known"`
}

type ScanResponse struct {
	ScanID              string               `json:"scan_id"`
	Timestamp           time.Time            `json:"timestamp"`
	ContentType         string               `json:"content_type"`
	ParsedData          any                  `json:"parsed_data,omitempty"`
	AuthStatus          string               `json:"auth_status"`
	Warnings            []string             `json:"warnings"`
	VerificationResults VerificationResponse `json:"verification_results"`
	IsDuplicate         bool                 `json:"is_duplicate"`
	UsageCount          int64                `json:"usage_count"`
	FirstSeen           *time.Time           `json:"first_seen"`
}

func FromScanResult(r *commands.ScanResult) *ScanResponse {
	resp := &ScanResponse{
		ScanID:      r.ScanID.String(),
		Timestamp:   r.Timestamp,
		ContentType: string(r.ContentType),
		ParsedData:  r.ParsedData,
		AuthStatus:  string(r.AuthStatus),
		Warnings:    r.Warnings,
		VerificationResults: VerificationResponse{
			FormatValid:   r.Verification.FormatValid,
			CryptoValid:   r.Verification.CryptoValid,
			DomainValid:   r.Verification.DomainValid,
			ProviderKnown: r.Verification.ProviderKnown,
		},
		IsDuplicate: r.IsDuplicate,
		UsageCount:  r.UsageCount,
		FirstSeen:   r.FirstSeen,
	}
	if resp.Warnings == nil {
		resp.Warnings = []string{}
	}
	return resp
}

type ScanDetailResponse struct {
	ScanID              string               `json:"scan_id"`
	Timestamp           time.Time            `json:"timestamp"`
	RawContent          string               `json:"raw_content"`
	ContentType         string               `json:"content_type"`
	ParsedData          any                  `json:"parsed_data,omitempty"`
	AuthStatus          string               `json:"auth_status"`
	Warnings            []string             `json:"warnings"`
	VerificationResults VerificationResponse `json:"verification_results"`
	IsDuplicate         bool                 `json:"is_duplicate"`
	UsageCount          int64                `json:"usage_count"`
	FirstSeen           *time.Time           `json:"first_seen"`
	Provider            *string              `json:"provider,omitempty"`
	UserAction          *string              `json:"user_action,omitempty"`
	Outcome             *string              `json:"outcome,omitempty"`
}

func FromScanView(v *queries.ScanView) *ScanDetailResponse {
	return &ScanDetailResponse{
		ScanID:      v.ScanID.String(),
		Timestamp:   v.Timestamp,
		RawContent:  v.RawContent,
		ContentType: string(v.ContentType),
		ParsedData:  v.ParsedData,
		AuthStatus:  string(v.AuthStatus),
		Warnings:    v.Warnings,
		VerificationResults: VerificationResponse{
			FormatValid:   v.Verification.FormatValid,
			CryptoValid:   v.Verification.CryptoValid,
			DomainValid:   v.Verification.DomainValid,
			ProviderKnown: v.Verification.ProviderKnown,
		},
		IsDuplicate: v.IsDuplicate,
		UsageCount:  v.UsageCount,
		FirstSeen:   v.FirstSeen,
		Provider:    v.Provider,
		UserAction:  v.UserAction,
		Outcome:     v.Outcome,
	}
}

type ScanListItemResponse struct {
	ScanID      string    `json:"scan_id"`
	Timestamp   time.Time `json:"timestamp"`
	ContentType string    `json:"content_type"`
	AuthStatus  string    `json:"auth_status"`
	IsDuplicate bool      `json:"is_duplicate"`
	Provider    *string   `json:"provider,omitempty"`
}

func FromScanList(items []*queries.ScanListItem) []*ScanListItemResponse {
	res := make([]*ScanListItemResponse, len(items))
	for i, it := range items {
		res[i] = &ScanListItemResponse{
			ScanID:      it.ScanID.String(),
			Timestamp:   it.Timestamp,
			ContentType: string(it.ContentType),
			AuthStatus:  string(it.AuthStatus),
			IsDuplicate: it.IsDuplicate,
			Provider:    it.Provider,
		}
	}
	return res
}
