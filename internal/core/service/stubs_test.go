package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/biddaddy/auction-api/internal/core/domain"
	"github.com/biddaddy/auction-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory auction repository
// ---------------------------------------------------------------------------

type stubAuctionRepo struct {
	auctions map[string]*domain.Auction
	nextID   int

	createErr error // if set, Create returns this error
	findErr   error // if set, FindByID returns this error
}

func newStubAuctionRepo() *stubAuctionRepo {
	return &stubAuctionRepo{auctions: make(map[string]*domain.Auction)}
}

func (r *stubAuctionRepo) Create(_ context.Context, a *domain.Auction) (*domain.Auction, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	clone := *a
	clone.ID = fmt.Sprintf("auc_%d", r.nextID)
	r.auctions[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubAuctionRepo) FindByID(_ context.Context, id string) (*domain.Auction, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	a, ok := r.auctions[id]
	if !ok {
		return nil, domain.ErrAuctionNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAuctionRepo) Find(_ context.Context, filter ports.AuctionFilter) ([]*domain.Auction, error) {
	var out []*domain.Auction
	for _, a := range r.auctions {
		if filter.CreatedBy != "" && a.CreatedBy != filter.CreatedBy {
			continue
		}
		clone := *a
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubAuctionRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.auctions[id]; !ok {
		return domain.ErrAuctionNotFound
	}
	delete(r.auctions, id)
	return nil
}

func (r *stubAuctionRepo) FindActiveBySeller(_ context.Context, sellerID string, now time.Time) ([]*domain.Auction, error) {
	var out []*domain.Auction
	for _, a := range r.auctions {
		if a.CreatedBy != sellerID {
			continue
		}
		// Mirrors the Mongo filter: end_time >= now counts as active.
		if a.EndTime.Before(now) {
			continue
		}
		clone := *a
		out = append(out, &clone)
	}
	return out, nil
}

// Republish mirrors the conditional update of the real Mongo repo: it
// matches only once the window has closed.
func (r *stubAuctionRepo) Republish(_ context.Context, id string, start, end, now time.Time) (*domain.Auction, error) {
	a, ok := r.auctions[id]
	if !ok {
		return nil, domain.ErrAuctionNotFound
	}
	if !a.IsClosed(now) {
		return nil, domain.ErrAuctionStillActive
	}
	a.StartTime = start
	a.EndTime = end
	a.Bids = []domain.Bid{}
	a.CommissionCalculated = false
	clone := *a
	return &clone, nil
}

// AppendBid mirrors the real repo: the push only matches while the
// bidding window is open.
func (r *stubAuctionRepo) AppendBid(_ context.Context, id string, bid domain.Bid, now time.Time) (*domain.Auction, error) {
	a, ok := r.auctions[id]
	if !ok {
		return nil, domain.ErrAuctionNotFound
	}
	if !a.IsOpen(now) {
		return nil, domain.ErrAuctionNotOpen
	}
	a.Bids = append(a.Bids, bid)
	clone := *a
	return &clone, nil
}

func (r *stubAuctionRepo) MarkCommissionCalculated(_ context.Context, id string) (bool, error) {
	a, ok := r.auctions[id]
	if !ok || a.CommissionCalculated {
		return false, nil
	}
	a.CommissionCalculated = true
	return true, nil
}

func (r *stubAuctionRepo) ClearCommissionCalculated(_ context.Context, id string) error {
	a, ok := r.auctions[id]
	if !ok {
		return domain.ErrAuctionNotFound
	}
	a.CommissionCalculated = false
	return nil
}

func (r *stubAuctionRepo) FindClosedUnsettled(_ context.Context, now time.Time) ([]*domain.Auction, error) {
	var out []*domain.Auction
	for _, a := range r.auctions {
		if a.IsClosed(now) && !a.CommissionCalculated {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int

	createErr  error
	accrueErr  error
	recordErr  error
	resetCalls int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	clone := *u
	clone.ID = fmt.Sprintf("user_%d", r.nextID)
	r.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ResetCommission(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	r.resetCalls++
	u.ResetCommission()
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) AccrueCommission(_ context.Context, id string, amount float64) error {
	if r.accrueErr != nil {
		return r.accrueErr
	}
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.AccrueCommission(amount)
	return nil
}

func (r *stubUserRepo) RecordWin(_ context.Context, id string, amount float64) error {
	if r.recordErr != nil {
		return r.recordErr
	}
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.RecordWin(amount)
	return nil
}

func (r *stubUserRepo) FindSpenders(_ context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if u.MoneySpent > 0 {
			clone := *u
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MoneySpent > out[j].MoneySpent })
	return out, nil
}

func (r *stubUserRepo) seed(id string, u domain.User) *domain.User {
	u.ID = id
	r.users[id] = &u
	return &u
}

// ---------------------------------------------------------------------------
// Media store, seller lock, dedup checker
// ---------------------------------------------------------------------------

type stubMediaStore struct {
	uploads   []string // folders of successful uploads
	uploadErr error
}

func (m *stubMediaStore) Upload(_ context.Context, file ports.MediaFile, folder string) (domain.ImageRef, error) {
	if m.uploadErr != nil {
		return domain.ImageRef{}, m.uploadErr
	}
	m.uploads = append(m.uploads, folder)
	return domain.ImageRef{
		MediaID: folder + "/" + file.Name,
		URL:     "https://cdn.example.com/" + folder + "/" + file.Name,
	}, nil
}

type stubSellerLock struct {
	denied     bool // Acquire returns false
	acquireErr error
	acquired   int
	released   int
}

func (l *stubSellerLock) Acquire(_ context.Context, _ string) (bool, error) {
	if l.acquireErr != nil {
		return false, l.acquireErr
	}
	if l.denied {
		return false, nil
	}
	l.acquired++
	return true, nil
}

func (l *stubSellerLock) Release(_ context.Context, _ string) error {
	l.released++
	return nil
}

type stubDedup struct {
	dup    bool
	isErr  error
	marked map[string]bool
}

func newStubDedup() *stubDedup {
	return &stubDedup{marked: make(map[string]bool)}
}

func (d *stubDedup) IsDuplicate(_ context.Context, auctionID string) (bool, error) {
	if d.isErr != nil {
		return false, d.isErr
	}
	return d.dup || d.marked[auctionID], nil
}

func (d *stubDedup) Mark(_ context.Context, auctionID string) error {
	d.marked[auctionID] = true
	return nil
}

// ---------------------------------------------------------------------------
// Shared fixtures
// ---------------------------------------------------------------------------

func pngFile(name string) *ports.MediaFile {
	return &ports.MediaFile{
		Name:        name,
		ContentType: "image/png",
		Size:        1024,
		Reader:      strings.NewReader("not really a png"),
	}
}

func seedAuction(repo *stubAuctionRepo, id, sellerID string, start, end time.Time, bids ...domain.Bid) *domain.Auction {
	a := &domain.Auction{
		ID:          id,
		Title:       "Antique clock",
		Description: "A very old clock",
		Category:    "antiques",
		Condition:   "used",
		StartingBid: 100,
		StartTime:   start,
		EndTime:     end,
		Bids:        bids,
		CreatedBy:   sellerID,
		CreatedAt:   start.Add(-time.Hour),
	}
	repo.auctions[id] = a
	return a
}
