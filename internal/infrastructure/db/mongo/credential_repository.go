package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/evenzaa/events-api/internal/core/domain"
)

const credentialsCollection = "credentials"

type CredentialRepository struct {
	coll *mongo.Collection
}

func NewCredentialRepository(db *mongo.Database) *CredentialRepository {
	return &CredentialRepository{coll: db.Collection(credentialsCollection)}
}

// session_token is stored as null, not omitted, while no session is active.
type mongoCredential struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	SessionToken *string            `bson:"session_token"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func (m *mongoCredential) toDomain() *domain.Credential {
	return &domain.Credential{
		ID:           m.ID.Hex(),
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		SessionToken: m.SessionToken,
		CreatedAt:    unixToTime(m.CreatedAt),
		UpdatedAt:    unixToTime(m.UpdatedAt),
	}
}

func (r *CredentialRepository) FindByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *CredentialRepository) FindByToken(ctx context.Context, token string) (*domain.Credential, error) {
	if token == "" {
		return nil, domain.ErrCredentialNotFound
	}
	return r.findOne(ctx, bson.M{"session_token": token})
}

func (r *CredentialRepository) findOne(ctx context.Context, filter bson.M) (*domain.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoCredential
	if err := r.coll.FindOne(ctx, filter).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *CredentialRepository) Insert(ctx context.Context, email, passwordHash string) (*domain.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC().Unix()
	doc := mongoCredential{
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, fmt.Errorf("insert credential: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

// SetToken reports whether a credential with email was matched.
func (r *CredentialRepository) SetToken(ctx context.Context, email string, token *string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"session_token": token, "updated_at": time.Now().UTC().Unix()}},
	)
	if err != nil {
		return false, fmt.Errorf("set session token: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// ClearTokenByToken reports whether a credential holding token was cleared.
func (r *CredentialRepository) ClearTokenByToken(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"session_token": token},
		bson.M{"$set": bson.M{"session_token": nil, "updated_at": time.Now().UTC().Unix()}},
	)
	if err != nil {
		return false, fmt.Errorf("clear session token: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

// EnsureIndexes makes email unique, so concurrent registrations for one email
// cannot both succeed, and indexes the active session tokens.
func (r *CredentialRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("credentials_email_unique"),
		},
		{
			Keys: bson.D{{Key: "session_token", Value: 1}},
			Options: options.Index().
				SetName("credentials_session_token").
				SetPartialFilterExpression(bson.M{"session_token": bson.M{"$type": "string"}}),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("credential indexes: %w", err)
	}
	return nil
}
