package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/biddaddy/auction-api/internal/core/domain"
	"github.com/biddaddy/auction-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stub services
// ---------------------------------------------------------------------------

type stubAuctionService struct {
	lastCreate ports.CreateAuctionInput
	auction    *domain.Auction
	bidders    []domain.Bid
	err        error
	removed    []string
}

func (s *stubAuctionService) Create(_ context.Context, input ports.CreateAuctionInput) (*domain.Auction, error) {
	s.lastCreate = input
	if s.err != nil {
		return nil, s.err
	}
	return s.auction, nil
}

func (s *stubAuctionService) Republish(_ context.Context, _ ports.RepublishInput) (*ports.RepublishResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &ports.RepublishResult{Auction: s.auction, Owner: &domain.User{ID: s.auction.CreatedBy}}, nil
}

func (s *stubAuctionService) Remove(_ context.Context, id, _, _ string) error {
	if s.err != nil {
		return s.err
	}
	s.removed = append(s.removed, id)
	return nil
}

func (s *stubAuctionService) List(_ context.Context, _ ports.AuctionFilter) ([]*domain.Auction, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*domain.Auction{s.auction}, nil
}

func (s *stubAuctionService) Detail(_ context.Context, _ string) (*domain.Auction, []domain.Bid, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.auction, s.bidders, nil
}

type stubBidService struct {
	lastInput ports.PlaceBidInput
	auction   *domain.Auction
	err       error
}

func (s *stubBidService) Place(_ context.Context, input ports.PlaceBidInput) (*domain.Auction, error) {
	s.lastInput = input
	if s.err != nil {
		return nil, s.err
	}
	return s.auction, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func fixtureAuction() *domain.Auction {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Auction{
		ID:          "auc_1",
		Title:       "Antique clock",
		Category:    "antiques",
		StartingBid: 100,
		StartTime:   now,
		EndTime:     now.Add(24 * time.Hour),
		CreatedBy:   "seller_1",
		Bids:        []domain.Bid{},
	}
}

func newTestContext(t *testing.T, req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func authenticate(c echo.Context, userID, userName, role string) {
	c.Set("user_id", userID)
	c.Set("user_name", userName)
	c.Set("role", role)
}

// multipartAuctionForm builds the create-auction form with an attached
// PNG and the given field overrides.
func multipartAuctionForm(t *testing.T, fields map[string]string, withImage bool) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if withImage {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="clock.png"`)
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create image part: %v", err)
		}
		if _, err := part.Write([]byte("fake png bytes")); err != nil {
			t.Fatalf("write image: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestAuctionHandler_Create_Success(t *testing.T) {
	svc := &stubAuctionService{auction: fixtureAuction()}
	h := NewAuctionHandler(svc)

	body, contentType := multipartAuctionForm(t, map[string]string{
		"title":        "Antique clock",
		"description":  "A very old clock",
		"category":     "antiques",
		"condition":    "used",
		"starting_bid": "100",
		"start_time":   "2026-09-01T12:00:00Z",
		"end_time":     "2026-09-02T12:00:00Z",
	}, true)

	req := httptest.NewRequest(http.MethodPost, "/v1/auctions", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, rec := newTestContext(t, req)
	authenticate(c, "seller_1", "alice", "Auctioneer")

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	if svc.lastCreate.SellerID != "seller_1" {
		t.Errorf("seller id: want seller_1, got %q", svc.lastCreate.SellerID)
	}
	if svc.lastCreate.Title != "Antique clock" {
		t.Errorf("title not forwarded: %q", svc.lastCreate.Title)
	}
	if svc.lastCreate.StartingBid != 100 {
		t.Errorf("starting bid not parsed: %v", svc.lastCreate.StartingBid)
	}
	if svc.lastCreate.Image == nil {
		t.Fatal("image attachment not forwarded")
	}
	if svc.lastCreate.Image.ContentType != "image/png" {
		t.Errorf("image content type: %q", svc.lastCreate.Image.ContentType)
	}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Error("success must be true")
	}
	if !strings.HasPrefix(resp.Message, "Auction is created and is scheduled for ") {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestAuctionHandler_Create_MissingImageReachesService(t *testing.T) {
	// The handler passes a nil image through; the required-image decision
	// belongs to the service.
	svc := &stubAuctionService{auction: fixtureAuction(), err: domain.ErrImageRequired}
	h := NewAuctionHandler(svc)

	body, contentType := multipartAuctionForm(t, map[string]string{"title": "x"}, false)
	req := httptest.NewRequest(http.MethodPost, "/v1/auctions", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, _ := newTestContext(t, req)
	authenticate(c, "seller_1", "alice", "Auctioneer")

	err := h.Create(c)
	if err != domain.ErrImageRequired {
		t.Errorf("expected ErrImageRequired passthrough, got %v", err)
	}
	if svc.lastCreate.Image != nil {
		t.Error("image must be nil when the attachment is missing")
	}
}

func TestAuctionHandler_Create_MalformedStartTime(t *testing.T) {
	h := NewAuctionHandler(&stubAuctionService{auction: fixtureAuction()})

	body, contentType := multipartAuctionForm(t, map[string]string{
		"start_time": "next tuesday",
	}, true)
	req := httptest.NewRequest(http.MethodPost, "/v1/auctions", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, _ := newTestContext(t, req)
	authenticate(c, "seller_1", "alice", "Auctioneer")

	err := h.Create(c)
	var he *echo.HTTPError
	if !errorsAs(err, &he) || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed start_time, got %v", err)
	}
}

func TestAuctionHandler_Create_Unauthenticated(t *testing.T) {
	h := NewAuctionHandler(&stubAuctionService{auction: fixtureAuction()})

	body, contentType := multipartAuctionForm(t, nil, true)
	req := httptest.NewRequest(http.MethodPost, "/v1/auctions", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c, _ := newTestContext(t, req)

	err := h.Create(c)
	var he *echo.HTTPError
	if !errorsAs(err, &he) || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without claims, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Detail / Remove
// ---------------------------------------------------------------------------

func TestAuctionHandler_Detail(t *testing.T) {
	svc := &stubAuctionService{
		auction: fixtureAuction(),
		bidders: []domain.Bid{
			{BidderID: "u2", Amount: 150},
			{BidderID: "u1", Amount: 100},
		},
	}
	h := NewAuctionHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/v1/auctions/auc_1", nil)
	c, rec := newTestContext(t, req)
	c.SetParamNames("id")
	c.SetParamValues("auc_1")

	if err := h.Detail(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Success     bool            `json:"success"`
		AuctionItem *domain.Auction `json:"auctionItem"`
		Bidders     []domain.Bid    `json:"bidders"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AuctionItem == nil || resp.AuctionItem.ID != "auc_1" {
		t.Error("auctionItem missing from detail response")
	}
	if len(resp.Bidders) != 2 || resp.Bidders[0].BidderID != "u2" {
		t.Errorf("bidders not rendered in rank order: %+v", resp.Bidders)
	}
}

func TestAuctionHandler_Detail_NotFound(t *testing.T) {
	h := NewAuctionHandler(&stubAuctionService{err: domain.ErrAuctionNotFound})

	req := httptest.NewRequest(http.MethodGet, "/v1/auctions/missing", nil)
	c, _ := newTestContext(t, req)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.Detail(c); err != domain.ErrAuctionNotFound {
		t.Errorf("expected ErrAuctionNotFound passthrough, got %v", err)
	}
}

func TestAuctionHandler_Remove(t *testing.T) {
	svc := &stubAuctionService{auction: fixtureAuction()}
	h := NewAuctionHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/v1/auctions/auc_1", nil)
	c, rec := newTestContext(t, req)
	c.SetParamNames("id")
	c.SetParamValues("auc_1")
	authenticate(c, "seller_1", "alice", "Auctioneer")

	if err := h.Remove(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(svc.removed) != 1 || svc.removed[0] != "auc_1" {
		t.Errorf("expected auc_1 removed, got %v", svc.removed)
	}
	if !strings.Contains(rec.Body.String(), "Auction item deleted successfully.") {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

// errorsAs is a tiny local alias to keep the assertions on one line.
func errorsAs(err error, target **echo.HTTPError) bool {
	if err == nil {
		return false
	}
	he, ok := err.(*echo.HTTPError)
	if ok {
		*target = he
	}
	return ok
}
