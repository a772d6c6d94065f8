package mongo

import (
	"context"
	"time"

	"github.com/nexuslabs/nexus-shortener/internal/infrastructure/db"
	"github.com/nexuslabs/nexus-shortener/internal/shortener"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ClicksRepository is the append-only click event log. Documents are never
// updated or deleted here.
type ClicksRepository struct {
	coll *mongo.Collection
}

type clickDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	EventID   string             `bson:"eventId"`
	ShortCode string             `bson:"shortCode"`
	ClickedAt time.Time          `bson:"clickedAt"`
	IPAddress string             `bson:"ipAddress,omitempty"`
	UserAgent string             `bson:"userAgent,omitempty"`
	Referer   string             `bson:"referer,omitempty"`
	Country   string             `bson:"country,omitempty"`
	City      string             `bson:"city,omitempty"`
	Browser   string             `bson:"browser,omitempty"`
	Device    string             `bson:"device,omitempty"`
}

func NewClicksRepository(m *db.Mongo) (*ClicksRepository, error) {
	repo := &ClicksRepository{coll: m.Collection("clicks")}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "shortCode", Value: 1}, {Key: "clickedAt", Value: 1}},
			Options: options.Index().SetName("shortCode_clickedAt"),
		},
	})
	if err != nil {
		return nil, err
	}

	return repo, nil
}

func (r *ClicksRepository) Append(ctx context.Context, event *shortener.ClickEvent) error {
	doc := clickDoc{
		EventID:   event.ID,
		ShortCode: event.ShortCode,
		ClickedAt: event.ClickedAt.UTC(),
		IPAddress: event.IPAddress,
		UserAgent: event.UserAgent,
		Referer:   event.Referer,
		Country:   event.Country,
		City:      event.City,
		Browser:   event.Browser,
		Device:    event.Device,
	}

	_, err := r.coll.InsertOne(ctx, doc)
	return err
}

// Iterate streams events for one code ordered by clickedAt, calling fn per
// event. The cursor keeps memory flat regardless of event-set size.
func (r *ClicksRepository) Iterate(ctx context.Context, code string, since, until time.Time, fn func(shortener.ClickEvent) error) error {
	filter := bson.M{
		"shortCode": code,
		"clickedAt": bson.M{
			"$gte": since.UTC(),
			"$lte": until.UTC(),
		},
	}

	cur, err := r.coll.Find(
		ctx,
		filter,
		options.Find().SetSort(bson.D{{Key: "clickedAt", Value: 1}}),
	)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc clickDoc
		if err := cur.Decode(&doc); err != nil {
			return err
		}
		if err := fn(mapClickDoc(doc)); err != nil {
			return err
		}
	}
	return cur.Err()
}

func mapClickDoc(doc clickDoc) shortener.ClickEvent {
	return shortener.ClickEvent{
		ID:        doc.EventID,
		ShortCode: doc.ShortCode,
		ClickedAt: doc.ClickedAt.UTC(),
		IPAddress: doc.IPAddress,
		UserAgent: doc.UserAgent,
		Referer:   doc.Referer,
		Country:   doc.Country,
		City:      doc.City,
		Browser:   doc.Browser,
		Device:    doc.Device,
	}
}
