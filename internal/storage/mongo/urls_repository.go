package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/nexuslabs/nexus-shortener/internal/infrastructure/db"
	"github.com/nexuslabs/nexus-shortener/internal/shortener"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type URLsRepository struct {
	coll *mongo.Collection
}

type urlDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	ShortCode   string             `bson:"shortCode"`
	OriginalURL string             `bson:"originalUrl"`
	CreatedAt   time.Time          `bson:"createdAt"`
	ClickCount  int64              `bson:"clickCount"`
	IsActive    bool               `bson:"isActive"`
	CreatorIP   string             `bson:"creatorIp,omitempty"`
}

func NewURLsRepository(m *db.Mongo) (*URLsRepository, error) {
	repo := &URLsRepository{coll: m.Collection("urls")}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "shortCode", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_shortCode"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("createdAt_desc"),
		},
	})
	if err != nil {
		return nil, err
	}

	return repo, nil
}

// Insert is the atomic create-if-absent: the unique index on shortCode
// turns a race into a duplicate-key error surfaced as ErrCodeTaken.
func (r *URLsRepository) Insert(ctx context.Context, record *shortener.URLRecord) error {
	doc := urlDoc{
		ShortCode:   record.ShortCode,
		OriginalURL: record.OriginalURL,
		CreatedAt:   record.CreatedAt.UTC(),
		ClickCount:  record.ClickCount,
		IsActive:    record.IsActive,
		CreatorIP:   record.CreatorIP,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return shortener.ErrCodeTaken
		}
		return err
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		record.ID = oid.Hex()
	}
	return nil
}

// FindActiveByCode returns ErrNotFound for both absent and deactivated
// codes; callers cannot tell the two apart.
func (r *URLsRepository) FindActiveByCode(ctx context.Context, code string) (*shortener.URLRecord, error) {
	var doc urlDoc
	err := r.coll.FindOne(ctx, bson.M{"shortCode": code, "isActive": true}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, shortener.ErrNotFound
		}
		return nil, err
	}

	return mapURLDoc(doc), nil
}

// IncrementClicks is a single atomic $inc; concurrent redirects to the same
// code never lose an update.
func (r *URLsRepository) IncrementClicks(ctx context.Context, code string) error {
	res, err := r.coll.UpdateOne(
		ctx,
		bson.M{"shortCode": code},
		bson.M{"$inc": bson.M{"clickCount": 1}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return shortener.ErrNotFound
	}
	return nil
}

func (r *URLsRepository) List(ctx context.Context, offset, limit int64) ([]shortener.URLRecord, error) {
	cur, err := r.coll.Find(
		ctx,
		bson.M{},
		options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip(offset).
			SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []shortener.URLRecord
	for cur.Next(ctx) {
		var doc urlDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, *mapURLDoc(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func mapURLDoc(doc urlDoc) *shortener.URLRecord {
	return &shortener.URLRecord{
		ID:          doc.ID.Hex(),
		ShortCode:   doc.ShortCode,
		OriginalURL: doc.OriginalURL,
		CreatedAt:   doc.CreatedAt.UTC(),
		ClickCount:  doc.ClickCount,
		IsActive:    doc.IsActive,
		CreatorIP:   doc.CreatorIP,
	}
}
