//go:build unit

package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"payscan/internal/domain/payload"
	"payscan/internal/handler/api"
	"payscan/internal/pkg/errs"
	"payscan/internal/usecase/commands"
	"payscan/internal/usecase/queries"
	commandsmock "payscan/tests/mock/commands"
	queriesmock "payscan/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ScanHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockScanCommands
	mockQueries  *queriesmock.MockScanQueries
	handler      *api.ScanHandler
}

func (s *ScanHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockScanCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockScanQueries(s.mockCtrl)
	s.handler = api.NewScanHandler(s.mockCommands, s.mockQueries)

	s.router.POST("/scans", s.handler.Create)
	s.router.GET("/scans", s.handler.List)
	s.router.GET("/scans/:id", s.handler.Get)
	s.router.PUT("/scans/:id/action", s.handler.RecordAction)
}

func (s *ScanHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestScanHandlerSuite(t *testing.T) {
	suite.Run(t, new(ScanHandlerTestSuite))
}

func (s *ScanHandlerTestSuite) doJSON(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func sampleResult() *commands.ScanResult {
	first := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &commands.ScanResult{
		ScanID:      uuid.New(),
		Timestamp:   first,
		ContentType: payload.TypeLightningAddress,
		ParsedData: &payload.LightningAddress{
			Address:  "user@strike.me",
			Username: "user",
			Domain:   "strike.me",
			LnurlURL: "https://strike.me/.well-known/lnurlp/user",
		},
		AuthStatus: payload.StatusVerified,
		Warnings:   []string{},
		Verification: payload.VerificationResult{
			FormatValid:   true,
			CryptoValid:   true,
			DomainValid:   true,
			ProviderKnown: true,
		},
		UsageCount: 1,
		FirstSeen:  &first,
	}
}

func (s *ScanHandlerTestSuite) TestCreate_Success() {
	result := sampleResult()
	s.mockCommands.EXPECT().
		Scan(gomock.Any(), gomock.Any()).
		Return(result, nil)

	w := s.doJSON(http.MethodPost, "/scans", map[string]any{"content": "user@strike.me"})

	s.Equal(http.StatusOK, w.Code)
	var resp map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(result.ScanID.String(), resp["scan_id"])
	s.Equal("LIGHTNING_ADDRESS", resp["content_type"])
	s.Equal("Verified", resp["auth_status"])
	s.Equal([]any{}, resp["warnings"])

	vr, ok := resp["verification_results"].(map[string]any)
	s.Require().True(ok)
	s.Equal(true, vr["format_valid"])
}

func (s *ScanHandlerTestSuite) TestCreate_MissingContent() {
	w := s.doJSON(http.MethodPost, "/scans", map[string]any{})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ScanHandlerTestSuite) TestCreate_EmptyContent() {
	s.mockCommands.EXPECT().
		Scan(gomock.Any(), gomock.Any()).
		Return(nil, errs.ErrContentRequired)

	w := s.doJSON(http.MethodPost, "/scans", map[string]any{"content": "   "})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ScanHandlerTestSuite) TestCreate_OversizedContent() {
	s.mockCommands.EXPECT().
		Scan(gomock.Any(), gomock.Any()).
		Return(nil, errs.ErrContentTooLong)

	w := s.doJSON(http.MethodPost, "/scans", map[string]any{"content": strings.Repeat("a", 2001)})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ScanHandlerTestSuite) TestCreate_ForwardsDeviceID() {
	s.mockCommands.EXPECT().
		Scan(gomock.Any(), gomock.Cond(func(in commands.ScanInput) bool {
			return in.DeviceID != nil && *in.DeviceID == "device-7"
		})).
		Return(sampleResult(), nil)

	w := s.doJSON(http.MethodPost, "/scans", map[string]any{
		"content":   "user@strike.me",
		"device_id": "device-7",
	})
	s.Equal(http.StatusOK, w.Code)
}

func (s *ScanHandlerTestSuite) TestGet_Success() {
	id := uuid.New()
	view := &queries.ScanView{
		ScanID:      id,
		Timestamp:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		RawContent:  "user@strike.me",
		ContentType: payload.TypeLightningAddress,
		AuthStatus:  payload.StatusVerified,
		Warnings:    []string{},
	}
	s.mockQueries.EXPECT().
		GetByID(gomock.Any(), id).
		Return(view, nil)

	w := s.doJSON(http.MethodGet, "/scans/"+id.String(), nil)

	s.Equal(http.StatusOK, w.Code)
	var resp map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(id.String(), resp["scan_id"])
	s.Equal("user@strike.me", resp["raw_content"])
}

func (s *ScanHandlerTestSuite) TestGet_NotFound() {
	id := uuid.New()
	s.mockQueries.EXPECT().
		GetByID(gomock.Any(), id).
		Return(nil, errs.ErrScanNotFound)

	w := s.doJSON(http.MethodGet, "/scans/"+id.String(), nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ScanHandlerTestSuite) TestGet_InvalidID() {
	w := s.doJSON(http.MethodGet, "/scans/not-a-uuid", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ScanHandlerTestSuite) TestList_Success() {
	items := []*queries.ScanListItem{
		{ScanID: uuid.New(), Timestamp: time.Now(), ContentType: payload.TypeBip21, AuthStatus: payload.StatusVerified},
	}
	s.mockQueries.EXPECT().
		ListRecent(gomock.Any(), 10).
		Return(items, nil)

	w := s.doJSON(http.MethodGet, "/scans?limit=10", nil)

	s.Equal(http.StatusOK, w.Code)
	var resp []map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Len(resp, 1)
}

func (s *ScanHandlerTestSuite) TestRecordAction_Success() {
	id := uuid.New()
	s.mockCommands.EXPECT().
		RecordAction(gomock.Any(), id, "proceeded", "paid").
		Return(nil)

	w := s.doJSON(http.MethodPut, "/scans/"+id.String()+"/action", map[string]any{
		"user_action": "proceeded",
		"outcome":     "paid",
	})
	s.Equal(http.StatusNoContent, w.Code)
}

func (s *ScanHandlerTestSuite) TestRecordAction_NotFound() {
	id := uuid.New()
	s.mockCommands.EXPECT().
		RecordAction(gomock.Any(), id, "cancelled", "abandoned").
		Return(errs.ErrScanNotFound)

	w := s.doJSON(http.MethodPut, "/scans/"+id.String()+"/action", map[string]any{
		"user_action": "cancelled",
		"outcome":     "abandoned",
	})
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *ScanHandlerTestSuite) TestRecordAction_InvalidAction() {
	w := s.doJSON(http.MethodPut, "/scans/"+uuid.New().String()+"/action", map[string]any{
		"user_action": "shrugged",
		"outcome":     "unknown",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}
