// Package mongostore persists the catalog, accounts and orders in MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/auth"
	"storefront/catalog"
	"storefront/models"
)

const (
	productsCollection = "products"
	usersCollection    = "users"
	ordersCollection   = "orders"
)

type Store struct {
	db *mongo.Database
}

func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) Products() *Products { return &Products{coll: s.db.Collection(productsCollection)} }
func (s *Store) Users() *Users       { return &Users{coll: s.db.Collection(usersCollection)} }
func (s *Store) Orders() *Orders     { return &Orders{coll: s.db.Collection(ordersCollection)} }

// EnsureIndexes creates the indexes the queries rely on. It is idempotent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		productsCollection: {
			{Keys: bson.D{{Key: "gender", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
		},
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "verifyToken", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
		ordersCollection: {
			{Keys: bson.D{{Key: "orderNumber", Value: 1}}},
		},
	}
	for name, specs := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

type productDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	models.Product `bson:",inline"`
}

func (d productDoc) model() models.Product {
	p := d.Product
	p.ID = d.ID.Hex()
	return p
}

// patchDoc is the $set body of an update; nil patch fields are omitted.
type patchDoc struct {
	models.ProductPatch `bson:",inline"`
	UpdatedAt           time.Time `bson:"updatedAt"`
}

// productFilter matches gender exactly and the category as a literal,
// case-insensitive substring of title or any category.
func productFilter(q catalog.Query) bson.M {
	filter := bson.M{}
	if q.Gender != "" {
		filter["gender"] = q.Gender
	}
	if q.Category != "" {
		re := primitive.Regex{Pattern: q.CategoryPattern(), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"categories": re},
			bson.M{"title": re},
		}
	}
	return filter
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

type Products struct {
	coll *mongo.Collection
}

func (r *Products) Find(ctx context.Context, q catalog.Query) ([]models.Product, int64, error) {
	filter := productFilter(q)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(newestFirst).
		SetSkip(q.Offset()).
		SetLimit(q.Limit())
	products, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *Products) FindAll(ctx context.Context) ([]models.Product, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
}

func (r *Products) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.Product, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (r *Products) FindByID(ctx context.Context, id string) (models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Product{}, catalog.ErrNotFound
	}

	var doc productDoc
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		return models.Product{}, notFound(err)
	}
	return doc.model(), nil
}

func (r *Products) Insert(ctx context.Context, p models.Product) (models.Product, error) {
	doc := productDoc{ID: primitive.NewObjectID(), Product: p}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return models.Product{}, err
	}
	return doc.model(), nil
}

func (r *Products) Update(ctx context.Context, id string, patch models.ProductPatch, updatedAt time.Time) (models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Product{}, catalog.ErrNotFound
	}

	update := bson.M{"$set": patchDoc{ProductPatch: patch, UpdatedAt: updatedAt}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc productDoc
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if err != nil {
		return models.Product{}, notFound(err)
	}
	return doc.model(), nil
}

func (r *Products) Delete(ctx context.Context, id string) (models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Product{}, catalog.ErrNotFound
	}

	var doc productDoc
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return models.Product{}, notFound(err)
	}
	return doc.model(), nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return catalog.ErrNotFound
	}
	return err
}

type userDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	models.User `bson:",inline"`
}

func (d userDoc) model() models.User {
	u := d.User
	u.ID = d.ID.Hex()
	return u
}

type Users struct {
	coll *mongo.Collection
}

func (r *Users) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, auth.ErrUserNotFound
		}
		return models.User{}, err
	}
	return doc.model(), nil
}

func (r *Users) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *Users) FindByVerifyToken(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, auth.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"verifyToken": token})
}

func (r *Users) Insert(ctx context.Context, u models.User) (models.User, error) {
	doc := userDoc{ID: primitive.NewObjectID(), User: u}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, auth.ErrConflict
		}
		return models.User{}, err
	}
	return doc.model(), nil
}

// MarkVerified flips the flag and drops the token in one conditional
// update, so a token can only be redeemed once.
func (r *Users) MarkVerified(ctx context.Context, id, token string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil || token == "" {
		return auth.ErrUserNotFound
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "verifyToken": token, "verified": false},
		bson.M{
			"$set":   bson.M{"verified": true},
			"$unset": bson.M{"verifyToken": ""},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

type orderDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	models.Order `bson:",inline"`
}

type Orders struct {
	coll *mongo.Collection
}

func (r *Orders) Insert(ctx context.Context, o models.Order) (models.Order, error) {
	doc := orderDoc{ID: primitive.NewObjectID(), Order: o}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return models.Order{}, err
	}
	o.ID = doc.ID.Hex()
	return o, nil
}
