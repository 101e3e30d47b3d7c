package mongodb

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dukerupert/forever/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password"`
	Cart         domain.Cart        `bson:"cartData"`
	CartTotal    float64            `bson:"cartTotal"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

func (d userDoc) toDomain() *domain.User {
	cart := d.Cart
	if cart == nil {
		cart = domain.Cart{}
	}
	return &domain.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Cart:         cart,
		CartTotal:    d.CartTotal,
		CreatedAt:    d.CreatedAt,
	}
}

// UserStore implements domain.UserStore on a MongoDB collection. The cart
// is embedded in the user document.
type UserStore struct {
	coll *mongo.Collection
}

var _ domain.UserStore = (*UserStore)(nil)

// NewUserStore returns a store over db's users collection.
func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection(usersCollection)}
}

func (s *UserStore) CreateUser(ctx context.Context, u *domain.User) error {
	doc := userDoc{
		Name:         u.Name,
		Email:        strings.ToLower(u.Email),
		PasswordHash: u.PasswordHash,
		Cart:         domain.Cart{},
		CreatedAt:    time.Now().UTC(),
	}

	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return domain.Internal(err, "user.create", "failed to create user")
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid.Hex()
	}
	u.Email = doc.Email
	u.Cart = doc.Cart
	u.CartTotal = 0
	u.CreatedAt = doc.CreatedAt
	return nil
}

func (s *UserStore) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return s.findOne(ctx, "user.get", bson.M{"_id": oid})
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findOne(ctx, "user.get_by_email", bson.M{"email": strings.ToLower(email)})
}

func (s *UserStore) findOne(ctx context.Context, op string, filter bson.M) (*domain.User, error) {
	var doc userDoc
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.Internal(err, op, "failed to load user")
	}
	return doc.toDomain(), nil
}

func (s *UserStore) SaveCart(ctx context.Context, userID string, cart domain.Cart, total float64) error {
	oid, ok := objectID(userID)
	if !ok {
		return domain.ErrUserNotFound
	}
	if cart == nil {
		cart = domain.Cart{}
	}

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"cartData": cart, "cartTotal": total}},
	)
	if err != nil {
		return domain.Internal(err, "cart.save", "failed to save cart")
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
