package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/evenzaa/events-api/internal/core/domain"
	"github.com/evenzaa/events-api/internal/core/ports"
)

const eventsCollection = "events"

type EventRepository struct {
	col *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection(eventsCollection)}
}

type mongoEvent struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Title          string             `bson:"title"`
	Description    string             `bson:"description"`
	Category       string             `bson:"category"`
	Location       string             `bson:"location"`
	Image          string             `bson:"image,omitempty"`
	Date           time.Time          `bson:"date"`
	OrganizerEmail string             `bson:"organizer_email"`
	OrganizerName  string             `bson:"organizer_name"`
	Attendees      []string           `bson:"attendees"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func (m *mongoEvent) toDomain() *domain.Event {
	attendees := m.Attendees
	if attendees == nil {
		attendees = []string{}
	}
	return &domain.Event{
		ID:             m.ID.Hex(),
		Title:          m.Title,
		Description:    m.Description,
		Category:       m.Category,
		Location:       m.Location,
		Image:          m.Image,
		Date:           m.Date.UTC(),
		OrganizerEmail: m.OrganizerEmail,
		OrganizerName:  m.OrganizerName,
		Attendees:      attendees,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

// Create inserts a new event document.
func (r *EventRepository) Create(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoEvent{
		Title:          e.Title,
		Description:    e.Description,
		Category:       e.Category,
		Location:       e.Location,
		Image:          e.Image,
		Date:           e.Date.UTC(),
		OrganizerEmail: e.OrganizerEmail,
		OrganizerName:  e.OrganizerName,
		Attendees:      e.Attendees,
		CreatedAt:      e.CreatedAt.UTC(),
		UpdatedAt:      e.UpdatedAt.UTC(),
	}
	if doc.Attendees == nil {
		doc.Attendees = []string{}
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

// FindByID retrieves an event by its hex id. Malformed ids are reported as
// not found.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrEventNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var me mongoEvent
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&me); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return me.toDomain(), nil
}

// List returns a page of events ordered by date and the total match count.
func (r *EventRepository) List(ctx context.Context, f ports.ListEventsFilter) ([]*domain.Event, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := listFilter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find events: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoEvent
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode events: %w", err)
	}

	events := make([]*domain.Event, 0, len(docs))
	for i := range docs {
		events = append(events, docs[i].toDomain())
	}
	return events, total, nil
}

func listFilter(f ports.ListEventsFilter) bson.M {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Organizer != "" {
		filter["organizer_email"] = f.Organizer
	}
	if f.Attendee != "" {
		filter["attendees"] = f.Attendee
	}
	if f.Search != "" {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
	}

	date := bson.M{}
	if !f.DateFrom.IsZero() {
		date["$gte"] = f.DateFrom.UTC()
	}
	if !f.DateTo.IsZero() {
		date["$lte"] = f.DateTo.UTC()
	}
	if len(date) > 0 {
		filter["date"] = date
	}
	return filter
}

// Update overwrites the non-nil fields of u and returns the new document.
func (r *EventRepository) Update(ctx context.Context, id string, u ports.EventUpdate) (*domain.Event, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.Location != nil {
		set["location"] = *u.Location
	}
	if u.Image != nil {
		set["image"] = *u.Image
	}
	if u.Date != nil {
		set["date"] = u.Date.UTC()
	}
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrEventNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// AddAttendee atomically adds email to the attendee set.
func (r *EventRepository) AddAttendee(ctx context.Context, id, email string) (*domain.Event, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{
		"$addToSet": bson.M{"attendees": email},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
}

// RemoveAttendee atomically pulls email from the attendee set.
func (r *EventRepository) RemoveAttendee(ctx context.Context, id, email string) (*domain.Event, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{
		"$pull": bson.M{"attendees": email},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *EventRepository) findOneAndUpdate(ctx context.Context, id string, update bson.M) (*domain.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrEventNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var me mongoEvent
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&me)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return me.toDomain(), nil
}

// EnsureIndexes creates necessary indexes on the events collection.
func (r *EventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "organizer_email", Value: 1}}},
		{Keys: bson.D{{Key: "attendees", Value: 1}}},
	}

	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("event indexes: %w", err)
	}
	return nil
}
