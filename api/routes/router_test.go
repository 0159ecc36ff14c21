package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Reshigan/SalesSync-sub013/internal/promotion"
	"github.com/Reshigan/SalesSync-sub013/internal/trademarketing"
	"github.com/Reshigan/SalesSync-sub013/pkg/config"
	"github.com/Reshigan/SalesSync-sub013/pkg/logger"
	"github.com/Reshigan/SalesSync-sub013/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubPromotionService struct{}

func (stubPromotionService) CreatePromotion(ctx context.Context, userID uuid.UUID, input promotion.CreatePromotionInput) (*promotion.CreatePromotionResult, error) {
	return &promotion.CreatePromotionResult{PromotionID: uuid.New(), PromotionCode: "PCT2509001"}, nil
}

func (stubPromotionService) ApplyPromotion(ctx context.Context, input promotion.ApplyPromotionInput) (*promotion.AppliedPromotion, error) {
	return &promotion.AppliedPromotion{}, nil
}

func (stubPromotionService) GetPromotionAnalytics(ctx context.Context, promotionID uuid.UUID, from, to time.Time) (*promotion.Analytics, error) {
	return &promotion.Analytics{PromotionID: promotionID}, nil
}

func (stubPromotionService) ListPromotions(ctx context.Context, params promotion.ListParams) (*promotion.ListResult, error) {
	return &promotion.ListResult{}, nil
}

type stubCampaignService struct{}

func (stubCampaignService) CreateCampaign(ctx context.Context, userID uuid.UUID, input trademarketing.CreateCampaignInput) (*trademarketing.CreateCampaignResult, error) {
	return &trademarketing.CreateCampaignResult{CampaignID: uuid.New(), CampaignCode: "TP2509001"}, nil
}

func (stubCampaignService) TrackTradeSpend(ctx context.Context, userID uuid.UUID, input trademarketing.TrackSpendInput) (*trademarketing.TrackSpendResult, error) {
	return &trademarketing.TrackSpendResult{SpendID: uuid.New()}, nil
}

func (stubCampaignService) CreateCoopCampaign(ctx context.Context, userID uuid.UUID, input trademarketing.CreateCoopCampaignInput) (*trademarketing.CreateCampaignResult, error) {
	return &trademarketing.CreateCampaignResult{CampaignID: uuid.New(), CampaignCode: "CA2509001"}, nil
}

func (stubCampaignService) CreateMerchandisingCampaign(ctx context.Context, userID uuid.UUID, input trademarketing.CreateMerchandisingCampaignInput) (*trademarketing.CreateCampaignResult, error) {
	return &trademarketing.CreateCampaignResult{CampaignID: uuid.New(), CampaignCode: "MD2509001"}, nil
}

func (stubCampaignService) CalculateCampaignROI(ctx context.Context, campaignID uuid.UUID) (*trademarketing.ROIReport, error) {
	return &trademarketing.ROIReport{CampaignID: campaignID}, nil
}

func (stubCampaignService) GetCampaignDashboard(ctx context.Context, campaignID uuid.UUID) (*trademarketing.Dashboard, error) {
	return &trademarketing.Dashboard{}, nil
}

func (stubCampaignService) AdvanceWorkflow(ctx context.Context, campaignID uuid.UUID) (*trademarketing.WorkflowPosition, error) {
	return &trademarketing.WorkflowPosition{CampaignID: campaignID, CurrentStage: "approval"}, nil
}

func newTestRouter() http.Handler {
	cfg := &config.Config{App: config.AppConfig{Env: "test", Port: "0"}}
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		&redis.Client{},
		stubPromotionService{},
		stubCampaignService{},
		nil,
	)
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestAPIGroupRejectsMissingIdentity(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/promotions", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity got %d", resp.Code)
	}
}

func TestPromotionListSucceedsWithIdentity(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/promotions", nil)
	req.Header.Set("X-User-Id", uuid.NewString())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestPromotionApplyRequiresIdempotencyKey(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/promotions/apply", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", uuid.NewString())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without idempotency key got %d", resp.Code)
	}
}

func TestCampaignSpendRequiresIdempotencyKey(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/campaigns/"+uuid.NewString()+"/spend", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", uuid.NewString())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without idempotency key got %d", resp.Code)
	}
}

func TestCampaignROIRouteWired(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/campaigns/"+uuid.NewString()+"/roi", nil)
	req.Header.Set("X-User-Id", uuid.NewString())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCampaignDashboardRouteWired(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/campaigns/"+uuid.NewString()+"/dashboard", nil)
	req.Header.Set("X-User-Id", uuid.NewString())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
