package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sweetshop/domain"
)

// MongoStore is the document-database implementation of domain.Store.
type MongoStore struct {
	client    *mongo.Client
	sweets    *mongo.Collection
	customers *mongo.Collection
	purchases *mongo.Collection
}

// compile-time assertion that MongoStore implements domain.Store
var _ domain.Store = (*MongoStore)(nil)

// NewMongoStore connects to the given URI and prepares the collections,
// including the unique index on customer mobile numbers.
func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(dbName)
	s := &MongoStore{
		client:    client,
		sweets:    db.Collection("sweets"),
		customers: db.Collection("customers"),
		purchases: db.Collection("purchases"),
	}

	_, err = s.customers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "mobile", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("create mobile index: %w", err)
	}
	return s, nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type sweetDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Category string             `bson:"category"`
	Price    float64            `bson:"price"`
	Quantity int                `bson:"quantity"`
}

func (d sweetDoc) toDomain() domain.Sweet {
	return domain.Sweet{
		ID:       d.ID.Hex(),
		Name:     d.Name,
		Category: d.Category,
		Price:    d.Price,
		Quantity: d.Quantity,
	}
}

type customerDoc struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	Name   string             `bson:"name"`
	Mobile string             `bson:"mobile"`
}

func (d customerDoc) toDomain() domain.Customer {
	return domain.Customer{ID: d.ID.Hex(), Name: d.Name, Mobile: d.Mobile}
}

type purchaseDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Customer        primitive.ObjectID `bson:"customer"`
	Sweet           primitive.ObjectID `bson:"sweet"`
	Quantity        int                `bson:"quantity"`
	PriceAtPurchase float64            `bson:"priceAtPurchase"`
	TotalPrice      float64            `bson:"totalPrice"`
	PurchasedAt     time.Time          `bson:"purchasedAt"`
}

func (d purchaseDoc) toDomain() domain.Purchase {
	return domain.Purchase{
		ID:              d.ID.Hex(),
		CustomerID:      d.Customer.Hex(),
		SweetID:         d.Sweet.Hex(),
		Quantity:        d.Quantity,
		PriceAtPurchase: d.PriceAtPurchase,
		TotalPrice:      d.TotalPrice,
		PurchasedAt:     d.PurchasedAt,
	}
}

func (s *MongoStore) CreateSweet(ctx context.Context, sweet domain.Sweet) (domain.Sweet, error) {
	if err := domain.ValidateSweet(sweet); err != nil {
		return domain.Sweet{}, err
	}
	doc := sweetDoc{
		ID:       primitive.NewObjectID(),
		Name:     sweet.Name,
		Category: sweet.Category,
		Price:    sweet.Price,
		Quantity: sweet.Quantity,
	}
	if _, err := s.sweets.InsertOne(ctx, doc); err != nil {
		return domain.Sweet{}, fmt.Errorf("insert sweet: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *MongoStore) GetSweet(ctx context.Context, id string) (domain.Sweet, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Sweet{}, domain.NewNotFoundError("Sweet", id)
	}
	var doc sweetDoc
	err = s.sweets.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Sweet{}, domain.NewNotFoundError("Sweet", id)
	}
	if err != nil {
		return domain.Sweet{}, fmt.Errorf("find sweet: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *MongoStore) UpdateSweet(ctx context.Context, id string, sweet domain.Sweet) error {
	if err := domain.ValidateSweet(sweet); err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.NewNotFoundError("Sweet", id)
	}
	res, err := s.sweets.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"name":     sweet.Name,
		"category": sweet.Category,
		"price":    sweet.Price,
		"quantity": sweet.Quantity,
	}})
	if err != nil {
		return fmt.Errorf("update sweet: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.NewNotFoundError("Sweet", id)
	}
	return nil
}

func (s *MongoStore) DeleteSweet(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.NewNotFoundError("Sweet", id)
	}
	res, err := s.sweets.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete sweet: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.NewNotFoundError("Sweet", id)
	}
	return nil
}

func (s *MongoStore) ListSweets(ctx context.Context, filter domain.SweetFilter) ([]domain.Sweet, error) {
	query := bson.M{}
	if filter.Name != "" {
		query["name"] = primitive.Regex{Pattern: filter.Name, Options: "i"}
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	price := bson.M{}
	if filter.MinPrice != nil {
		price["$gte"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		price["$lte"] = *filter.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}

	opts := options.Find()
	if filter.SortBy != "" {
		order := 1
		if filter.Order == "desc" {
			order = -1
		}
		opts.SetSort(bson.D{{Key: filter.SortBy, Value: order}})
	}

	cur, err := s.sweets.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find sweets: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]domain.Sweet, 0)
	for cur.Next(ctx) {
		var doc sweetDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode sweet: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate sweets: %w", err)
	}
	return out, nil
}

// DecrementStock performs the sufficiency check and the decrement as one
// conditional update, so concurrent purchases cannot oversell.
func (s *MongoStore) DecrementStock(ctx context.Context, id string, n int) (domain.Sweet, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Sweet{}, domain.NewNotFoundError("Sweet", id)
	}
	var doc sweetDoc
	err = s.sweets.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "quantity": bson.M{"$gte": n}},
		bson.M{"$inc": bson.M{"quantity": -n}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// no match: either the sweet is gone or the stock was short
		sw, gerr := s.GetSweet(ctx, id)
		if gerr != nil {
			return domain.Sweet{}, gerr
		}
		return domain.Sweet{}, domain.NewInsufficientStockError(id, n, sw.Quantity)
	}
	if err != nil {
		return domain.Sweet{}, fmt.Errorf("decrement stock: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *MongoStore) IncrementStock(ctx context.Context, id string, n int) (domain.Sweet, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Sweet{}, domain.NewNotFoundError("Sweet", id)
	}
	var doc sweetDoc
	err = s.sweets.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$inc": bson.M{"quantity": n}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Sweet{}, domain.NewNotFoundError("Sweet", id)
	}
	if err != nil {
		return domain.Sweet{}, fmt.Errorf("increment stock: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *MongoStore) CreateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	doc := customerDoc{
		ID:     primitive.NewObjectID(),
		Name:   customer.Name,
		Mobile: customer.Mobile,
	}
	if _, err := s.customers.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.Customer{}, domain.NewConflictError("Mobile number already in use")
		}
		return domain.Customer{}, fmt.Errorf("insert customer: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *MongoStore) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Customer{}, domain.NewNotFoundError("Customer", id)
	}
	var doc customerDoc
	err = s.customers.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Customer{}, domain.NewNotFoundError("Customer", id)
	}
	if err != nil {
		return domain.Customer{}, fmt.Errorf("find customer: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *MongoStore) FindCustomerByMobile(ctx context.Context, mobile string) (domain.Customer, error) {
	var doc customerDoc
	err := s.customers.FindOne(ctx, bson.M{"mobile": mobile}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Customer{}, domain.NewNotFoundError("Customer", mobile)
	}
	if err != nil {
		return domain.Customer{}, fmt.Errorf("find customer by mobile: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *MongoStore) CreatePurchase(ctx context.Context, purchase domain.Purchase) (domain.Purchase, error) {
	customerID, err := primitive.ObjectIDFromHex(purchase.CustomerID)
	if err != nil {
		return domain.Purchase{}, domain.NewNotFoundError("Customer", purchase.CustomerID)
	}
	sweetID, err := primitive.ObjectIDFromHex(purchase.SweetID)
	if err != nil {
		return domain.Purchase{}, domain.NewNotFoundError("Sweet", purchase.SweetID)
	}
	doc := purchaseDoc{
		ID:              primitive.NewObjectID(),
		Customer:        customerID,
		Sweet:           sweetID,
		Quantity:        purchase.Quantity,
		PriceAtPurchase: purchase.PriceAtPurchase,
		TotalPrice:      purchase.TotalPrice,
		PurchasedAt:     purchase.PurchasedAt,
	}
	if _, err := s.purchases.InsertOne(ctx, doc); err != nil {
		return domain.Purchase{}, fmt.Errorf("insert purchase: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *MongoStore) ListPurchasesByCustomer(ctx context.Context, customerID string) ([]domain.Purchase, error) {
	oid, err := primitive.ObjectIDFromHex(customerID)
	if err != nil {
		return nil, domain.NewNotFoundError("Customer", customerID)
	}
	return s.findPurchases(ctx, bson.M{"customer": oid})
}

func (s *MongoStore) ListPurchases(ctx context.Context) ([]domain.Purchase, error) {
	return s.findPurchases(ctx, bson.M{})
}

func (s *MongoStore) findPurchases(ctx context.Context, query bson.M) ([]domain.Purchase, error) {
	opts := options.Find().SetSort(bson.D{{Key: "purchasedAt", Value: -1}})
	cur, err := s.purchases.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find purchases: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]domain.Purchase, 0)
	for cur.Next(ctx) {
		var doc purchaseDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode purchase: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchases: %w", err)
	}
	return out, nil
}
