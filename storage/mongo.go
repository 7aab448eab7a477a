package storage

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"partsapi/models"
)

type MongoStore struct {
	client *mongo.Client

	parts    *mongo.Collection
	orders   *mongo.Collection
	users    *mongo.Collection
	reviews  *mongo.Collection
	payments *mongo.Collection
}

// NewMongoStore connects to uri, verifies the connection and makes sure the
// email index on users exists.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, "ping mongo")
	}

	db := client.Database(database)
	s := &MongoStore{
		client:   client,
		parts:    db.Collection(PartsCollection),
		orders:   db.Collection(OrdersCollection),
		users:    db.Collection(UsersCollection),
		reviews:  db.Collection(ReviewsCollection),
		payments: db.Collection(PaymentsCollection),
	}

	_, err = s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, "create users email index")
	}
	return s, nil
}

func (s *MongoStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	res := []models.Product{}
	return res, findAll(ctx, s.parts, bson.M{}, &res)
}

func (s *MongoStore) FindProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	if err := findOne(ctx, s.parts, bson.M{"_id": id}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *MongoStore) InsertProduct(ctx context.Context, p *models.Product) (primitive.ObjectID, error) {
	p.ID = primitive.NewObjectID()
	if _, err := s.parts.InsertOne(ctx, p); err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "insert part")
	}
	return p.ID, nil
}

func (s *MongoStore) DeleteProduct(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return deleteOne(ctx, s.parts, bson.M{"_id": id})
}

func (s *MongoStore) InsertOrder(ctx context.Context, o *models.Order) (primitive.ObjectID, error) {
	o.ID = primitive.NewObjectID()
	if _, err := s.orders.InsertOne(ctx, o); err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "insert order")
	}
	return o.ID, nil
}

func (s *MongoStore) FindOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var o models.Order
	if err := findOne(ctx, s.orders, bson.M{"_id": id}, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *MongoStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	res := []models.Order{}
	return res, findAll(ctx, s.orders, bson.M{}, &res)
}

func (s *MongoStore) ListOrdersByEmail(ctx context.Context, email string) ([]models.Order, error) {
	res := []models.Order{}
	return res, findAll(ctx, s.orders, bson.M{"email": email}, &res)
}

func (s *MongoStore) DeleteOrder(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return deleteOne(ctx, s.orders, bson.M{"_id": id})
}

func (s *MongoStore) DeleteOrderOwnedBy(ctx context.Context, id primitive.ObjectID, email string) (int64, error) {
	return deleteOne(ctx, s.orders, bson.M{"_id": id, "email": email})
}

func (s *MongoStore) MarkOrderPaid(ctx context.Context, id primitive.ObjectID, transactionID, status string) error {
	res, err := s.orders.UpdateOne(ctx,
		bson.M{"_id": id, "paid": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"paid": true, "transactionId": transactionID, "status": status}},
	)
	if err != nil {
		return errors.Wrap(err, "mark order paid")
	}
	if res.MatchedCount == 1 {
		return nil
	}

	n, err := s.orders.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "count order")
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrAlreadyPaid
}

func (s *MongoStore) SetOrderStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := s.orders.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return errors.Wrap(err, "set order status")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) UpsertUser(ctx context.Context, u models.User) (*models.User, error) {
	set := bson.M{"email": u.Email}
	onInsert := bson.M{}
	if u.Role != "" {
		set["role"] = u.Role
	} else {
		onInsert["role"] = models.RoleCustomer
	}
	if u.Name != "" {
		set["name"] = u.Name
	}
	update := bson.M{"$set": set}
	if len(onInsert) > 0 {
		update["$setOnInsert"] = onInsert
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var out models.User
	err := s.users.FindOneAndUpdate(ctx, bson.M{"email": u.Email}, update, opts).Decode(&out)
	if err != nil {
		return nil, errors.Wrap(err, "upsert user")
	}
	return &out, nil
}

func (s *MongoStore) FindUser(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := findOne(ctx, s.users, bson.M{"email": email}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]models.User, error) {
	res := []models.User{}
	return res, findAll(ctx, s.users, bson.M{}, &res)
}

func (s *MongoStore) SetRole(ctx context.Context, email, role string) (int64, int64, error) {
	res, err := s.users.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return 0, 0, errors.Wrap(err, "set user role")
	}
	return res.MatchedCount, res.ModifiedCount, nil
}

func (s *MongoStore) InsertReview(ctx context.Context, r *models.Review) (primitive.ObjectID, error) {
	r.ID = primitive.NewObjectID()
	if _, err := s.reviews.InsertOne(ctx, r); err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "insert review")
	}
	return r.ID, nil
}

func (s *MongoStore) ListReviews(ctx context.Context) ([]models.Review, error) {
	res := []models.Review{}
	return res, findAll(ctx, s.reviews, bson.M{}, &res)
}

func (s *MongoStore) InsertPayment(ctx context.Context, p *models.Payment) (primitive.ObjectID, error) {
	p.ID = primitive.NewObjectID()
	if _, err := s.payments.InsertOne(ctx, p); err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "insert payment")
	}
	return p.ID, nil
}

func (s *MongoStore) ListPaymentsByOrder(ctx context.Context, orderID primitive.ObjectID) ([]models.Payment, error) {
	res := []models.Payment{}
	return res, findAll(ctx, s.payments, bson.M{"orderId": orderID}, &res)
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func findAll(ctx context.Context, c *mongo.Collection, filter bson.M, out interface{}) error {
	cur, err := c.Find(ctx, filter)
	if err != nil {
		return errors.Wrapf(err, "find %s", c.Name())
	}
	defer cur.Close(ctx)
	return errors.Wrapf(cur.All(ctx, out), "decode %s", c.Name())
}

func findOne(ctx context.Context, c *mongo.Collection, filter bson.M, out interface{}) error {
	err := c.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return errors.Wrapf(err, "find one in %s", c.Name())
}

func deleteOne(ctx context.Context, c *mongo.Collection, filter bson.M) (int64, error) {
	res, err := c.DeleteOne(ctx, filter)
	if err != nil {
		return 0, errors.Wrapf(err, "delete from %s", c.Name())
	}
	return res.DeletedCount, nil
}
