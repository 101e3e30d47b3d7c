package mongodb

import (
	"context"
	"errors"

	"github.com/dukerupert/forever/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type productDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Images      []string           `bson:"image"`
	Category    string             `bson:"category"`
	SubCategory string             `bson:"subCategory"`
	Sizes       []string           `bson:"sizes"`
	Bestseller  bool               `bson:"bestseller"`
	Stock       int                `bson:"stock"`
	Date        int64              `bson:"date"`
}

func newProductDoc(p *domain.Product) productDoc {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	sizes := p.Sizes
	if sizes == nil {
		sizes = []string{}
	}
	return productDoc{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Images:      images,
		Category:    p.Category,
		SubCategory: p.SubCategory,
		Sizes:       sizes,
		Bestseller:  p.Bestseller,
		Stock:       p.Stock,
		Date:        p.Date,
	}
}

func (d productDoc) toDomain() domain.Product {
	return domain.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Images:      d.Images,
		Category:    d.Category,
		SubCategory: d.SubCategory,
		Sizes:       d.Sizes,
		Bestseller:  d.Bestseller,
		Stock:       d.Stock,
		Date:        d.Date,
	}
}

// ProductStore implements domain.ProductStore on a MongoDB collection.
type ProductStore struct {
	coll *mongo.Collection
}

var _ domain.ProductStore = (*ProductStore)(nil)

// NewProductStore returns a store over db's products collection.
func NewProductStore(db *mongo.Database) *ProductStore {
	return &ProductStore{coll: db.Collection(productsCollection)}
}

func (s *ProductStore) CreateProduct(ctx context.Context, p *domain.Product) error {
	res, err := s.coll.InsertOne(ctx, newProductDoc(p))
	if err != nil {
		return domain.Internal(err, "product.create", "failed to save product")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid.Hex()
	}
	return nil
}

func (s *ProductStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	var doc productDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, "product.get", "failed to load product")
	}
	p := doc.toDomain()
	return &p, nil
}

func (s *ProductStore) ListProducts(ctx context.Context, q domain.ProductQuery) ([]domain.Product, int64, error) {
	filter := productFilter(q.Filter)

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, domain.Internal(err, "product.list", "failed to count products")
	}

	sort, err := productSort(q.Sort)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(sort).
		SetSkip(int64(q.Offset())).
		SetLimit(int64(q.Limit))

	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, domain.Internal(err, "product.list", "failed to list products")
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, domain.Internal(err, "product.list", "failed to read products")
	}

	products := make([]domain.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.toDomain())
	}
	return products, total, nil
}

func (s *ProductStore) UpdateProduct(ctx context.Context, id string, u domain.ProductUpdate) (*domain.Product, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	if u.IsEmpty() {
		return s.GetProduct(ctx, id)
	}

	var doc productDoc
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": productSet(u)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, "product.update", "failed to update product")
	}
	p := doc.toDomain()
	return &p, nil
}

func (s *ProductStore) DeleteProduct(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrProductNotFound
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return domain.Internal(err, "product.delete", "failed to delete product")
	}
	if res.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func productFilter(f domain.ProductFilter) bson.M {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.SubCategory != "" {
		filter["subCategory"] = f.SubCategory
	}
	if f.Bestseller != nil {
		filter["bestseller"] = *f.Bestseller
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		filter["price"] = price
	}
	return filter
}

var sortFields = map[string]string{
	domain.SortByDate:  "date",
	domain.SortByPrice: "price",
	domain.SortByName:  "name",
}

func productSort(s domain.ProductSort) (bson.D, error) {
	field, ok := sortFields[s.Field]
	if !ok {
		return nil, domain.Invalid("product.list", "Invalid sort parameter")
	}
	dir := 1
	if s.Desc {
		dir = -1
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: 1}}, nil
}

func productSet(u domain.ProductUpdate) bson.M {
	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.SubCategory != nil {
		set["subCategory"] = *u.SubCategory
	}
	if u.Sizes != nil {
		set["sizes"] = nonNil(*u.Sizes)
	}
	if u.Bestseller != nil {
		set["bestseller"] = *u.Bestseller
	}
	if u.Stock != nil {
		set["stock"] = *u.Stock
	}
	if u.Images != nil {
		set["image"] = nonNil(*u.Images)
	}
	return set
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
