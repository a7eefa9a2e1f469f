package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nekogravitycat/vehicle-service-backend/internal/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "bookings"

// MongoIndexes mirror the Postgres schema. The partial unique index holds the
// slot invariant; slot_active is rewritten from status on every write.
var MongoIndexes = db.IndexSet{
	Collection: collectionName,
	Models: []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "vehicle_id", Value: 1},
				{Key: "scheduled_date", Value: 1},
				{Key: "scheduled_time", Value: 1},
			},
			Options: options.Index().
				SetName("active_slot").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"slot_active": true}),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "service_id", Value: 1}, {Key: "status", Value: 1}}},
	},
}

type mongoBooking struct {
	Booking    `bson:",inline"`
	SlotActive bool `bson:"slot_active"`
}

func toDocument(b *Booking) mongoBooking {
	return mongoBooking{Booking: *b, SlotActive: b.Status.IsActive()}
}

type MongoRepository struct {
	Collection *mongo.Collection
}

func NewMongoRepository(database *mongo.Database) Repository {
	return &MongoRepository{Collection: database.Collection(collectionName)}
}

func (r *MongoRepository) Create(ctx context.Context, b *Booking) error {
	if _, err := r.Collection.InsertOne(ctx, toDocument(b)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlotConflict
		}
		return fmt.Errorf("insert booking failed: %w", err)
	}
	return nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	var doc mongoBooking
	if err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find booking failed: %w", err)
	}
	return &doc.Booking, nil
}

func (r *MongoRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	q := bson.M{}
	if filter.UserID != "" {
		q["user_id"] = filter.UserID
	}
	if filter.ServiceID != "" {
		q["service_id"] = filter.ServiceID
	}
	if filter.Status != "" {
		q["status"] = filter.Status
	}
	if filter.RatedOnly {
		q["rating"] = bson.M{"$exists": true}
	}

	total, err := r.Collection.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("count bookings failed: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 10
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64((filter.Page - 1) * filter.PageSize)).
		SetLimit(int64(filter.PageSize))

	cursor, err := r.Collection.Find(ctx, q, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find bookings failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoBooking
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode bookings failed: %w", err)
	}

	bookings := make([]*Booking, len(docs))
	for i := range docs {
		bookings[i] = &docs[i].Booking
	}
	return bookings, int(total), nil
}

func (r *MongoRepository) Update(ctx context.Context, b *Booking) error {
	set := bson.M{
		"status":              b.Status,
		"slot_active":         b.Status.IsActive(),
		"payment_status":      b.PaymentStatus,
		"technician_notes":    b.TechnicianNotes,
		"completion_notes":    b.CompletionNotes,
		"review":              b.Review,
		"cancellation_reason": b.CancellationReason,
		"cancelled_by":        b.CancelledBy,
		"updated_at":          b.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if b.Rating != nil {
		set["rating"] = *b.Rating
	} else {
		update["$unset"] = bson.M{"rating": ""}
	}

	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": b.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlotConflict
		}
		return fmt.Errorf("update booking failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) HasActiveSlot(ctx context.Context, vehicleID string, date time.Time, clock, excludeID string) (bool, error) {
	q := bson.M{
		"vehicle_id":     vehicleID,
		"scheduled_date": date,
		"scheduled_time": clock,
		"slot_active":    true,
	}
	if excludeID != "" {
		q["_id"] = bson.M{"$ne": excludeID}
	}

	n, err := r.Collection.CountDocuments(ctx, q, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("slot check failed: %w", err)
	}
	return n > 0, nil
}

func (r *MongoRepository) Totals(ctx context.Context) (Totals, error) {
	isStatus := func(s Status) bson.M {
		return bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", s}}, 1, 0}}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":       nil,
			"total":     bson.M{"$sum": 1},
			"pending":   bson.M{"$sum": isStatus(StatusPending)},
			"completed": bson.M{"$sum": isStatus(StatusCompleted)},
			"revenue": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", StatusCompleted}}, "$total_amount", 0,
			}}},
		}}},
	}

	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return Totals{}, fmt.Errorf("aggregate booking totals failed: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total     int   `bson:"total"`
		Pending   int   `bson:"pending"`
		Completed int   `bson:"completed"`
		Revenue   int64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return Totals{}, fmt.Errorf("decode booking totals failed: %w", err)
	}
	if len(rows) == 0 {
		return Totals{}, nil
	}
	return Totals{Total: rows[0].Total, Pending: rows[0].Pending, Completed: rows[0].Completed, Revenue: rows[0].Revenue}, nil
}

func (r *MongoRepository) RatingSummary(ctx context.Context, serviceID string) (RatingSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"service_id": serviceID,
			"status":     StatusCompleted,
			"rating":     bson.M{"$exists": true},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"average": bson.M{"$avg": "$rating"},
			"count":   bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return RatingSummary{}, fmt.Errorf("aggregate ratings failed: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Average float64 `bson:"average"`
		Count   int     `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return RatingSummary{}, fmt.Errorf("decode ratings failed: %w", err)
	}
	if len(rows) == 0 {
		return RatingSummary{}, nil
	}
	return RatingSummary{Average: rows[0].Average, Count: rows[0].Count}, nil
}
