package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/biddaddy/auction-api/internal/core/domain"
	"github.com/biddaddy/auction-api/internal/core/ports"
)

const collectionAuctions = "auctions"

type AuctionRepository struct {
	col *mongo.Collection
}

func NewAuctionRepository(db *mongo.Database) *AuctionRepository {
	return &AuctionRepository{col: db.Collection(collectionAuctions)}
}

// parseID validates the 24-char hex id format before it reaches a query.
func parseID(id string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", domain.ErrInvalidID
	}
	return oid.Hex(), nil
}

// Create inserts a new auction document with a generated id.
func (r *AuctionRepository) Create(ctx context.Context, a *domain.Auction) (*domain.Auction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	a.ID = primitive.NewObjectID().Hex()
	if _, err := r.col.InsertOne(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AuctionRepository) FindByID(ctx context.Context, id string) (*domain.Auction, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Auction
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAuctionNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AuctionRepository) Find(ctx context.Context, filter ports.AuctionFilter) ([]*domain.Auction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.CreatedBy != "" {
		query["created_by"] = filter.CreatedBy
	}

	cursor, err := r.col.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var auctions []*domain.Auction
	if err := cursor.All(ctx, &auctions); err != nil {
		return nil, err
	}
	return auctions, nil
}

func (r *AuctionRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrAuctionNotFound
	}
	return nil
}

// FindActiveBySeller returns the seller's auctions whose end time is at
// or after now.
func (r *AuctionRepository) FindActiveBySeller(ctx context.Context, sellerID string, now time.Time) ([]*domain.Auction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{
		"created_by": sellerID,
		"end_time":   bson.M{"$gte": now},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var auctions []*domain.Auction
	if err := cursor.All(ctx, &auctions); err != nil {
		return nil, err
	}
	return auctions, nil
}

// Republish rearms a closed auction in a single conditional update: the
// filter matches only when the auction has closed, so a race against a
// still-running auction cannot wipe its ledger.
func (r *AuctionRepository) Republish(ctx context.Context, id string, start, end, now time.Time) (*domain.Auction, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":      oid,
		"end_time": bson.M{"$lte": now},
	}
	update := bson.M{"$set": bson.M{
		"start_time":            start,
		"end_time":              end,
		"bids":                  []domain.Bid{},
		"commission_calculated": false,
	}}

	var a domain.Auction
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAuctionStillActive
		}
		return nil, err
	}
	return &a, nil
}

// AppendBid pushes a bid onto the ledger while the window is open. The
// filter enforces start_time <= now < end_time so a bid racing the close
// is rejected by the store itself.
func (r *AuctionRepository) AppendBid(ctx context.Context, id string, bid domain.Bid, now time.Time) (*domain.Auction, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":        oid,
		"start_time": bson.M{"$lte": now},
		"end_time":   bson.M{"$gt": now},
	}
	update := bson.M{"$push": bson.M{"bids": bid}}

	var a domain.Auction
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAuctionNotOpen
		}
		return nil, err
	}
	return &a, nil
}

// MarkCommissionCalculated flips the commission flag false→true. The
// boolean result reports whether this call won the compare-and-set.
func (r *AuctionRepository) MarkCommissionCalculated(ctx context.Context, id string) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "commission_calculated": false},
		bson.M{"$set": bson.M{"commission_calculated": true}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// ClearCommissionCalculated rolls the commission flag back to false so
// the settlement sweep retries the auction.
func (r *AuctionRepository) ClearCommissionCalculated(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"commission_calculated": false}},
	)
	return err
}

// FindClosedUnsettled lists closed auctions still awaiting settlement.
func (r *AuctionRepository) FindClosedUnsettled(ctx context.Context, now time.Time) ([]*domain.Auction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{
		"end_time":              bson.M{"$lte": now},
		"commission_calculated": false,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var auctions []*domain.Auction
	if err := cursor.All(ctx, &auctions); err != nil {
		return nil, err
	}
	return auctions, nil
}

// EnsureIndexes creates necessary indexes on the auctions collection.
func (r *AuctionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_by", Value: 1}, {Key: "end_time", Value: -1}}},
		{Keys: bson.D{{Key: "end_time", Value: 1}, {Key: "commission_calculated", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
