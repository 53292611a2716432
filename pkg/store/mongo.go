package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/entitymap/pkg/errors"
	"github.com/matzehuels/entitymap/pkg/model"
)

// Collection names.
const (
	CollectionTypes    = "types"
	CollectionEntities = "entities"
)

// MongoStore keeps types and entities in two MongoDB collections.
type MongoStore struct {
	client   *mongo.Client
	types    *mongo.Collection
	entities *mongo.Collection
}

type typeDoc struct {
	model.Type `bson:",inline"`
	Position   int64 `bson:"position"`
}

type entityDoc struct {
	model.Entity `bson:",inline"`
	Position     int64 `bson:"position"`
}

// OpenMongo connects to uri and uses the named database. An empty database
// is seeded with [model.Default].
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongodb")
	}

	db := client.Database(database)
	s := &MongoStore{
		client:   client,
		types:    db.Collection(CollectionTypes),
		entities: db.Collection(CollectionEntities),
	}

	n, err := s.types.CountDocuments(ctx, bson.D{})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStore, err, "count types")
	}
	if n == 0 {
		if err := s.Replace(ctx, model.Default()); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
	}
	return s, nil
}

func byPosition() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
}

func (s *MongoStore) Load(ctx context.Context) (model.Data, error) {
	var d model.Data

	var types []typeDoc
	if err := findAll(ctx, s.types, &types); err != nil {
		return d, errors.Wrap(errors.ErrCodeStore, err, "load types")
	}
	var entities []entityDoc
	if err := findAll(ctx, s.entities, &entities); err != nil {
		return d, errors.Wrap(errors.ErrCodeStore, err, "load entities")
	}

	d.Types = make([]model.Type, len(types))
	for i, t := range types {
		d.Types[i] = t.Type
	}
	d.Entities = make([]model.Entity, len(entities))
	for i, e := range entities {
		d.Entities[i] = e.Entity
	}
	normalize(&d)
	return d, nil
}

func findAll[T any](ctx context.Context, c *mongo.Collection, out *[]T) error {
	cur, err := c.Find(ctx, bson.D{}, byPosition())
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

// Replace drops and rewrites both collections. MongoDB transactions need a
// replica set, so a failure midway can leave a partial document.
func (s *MongoStore) Replace(ctx context.Context, data model.Data) error {
	if err := data.Validate(); err != nil {
		return err
	}
	normalize(&data)

	if _, err := s.types.DeleteMany(ctx, bson.D{}); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "clear types")
	}
	if _, err := s.entities.DeleteMany(ctx, bson.D{}); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "clear entities")
	}

	if len(data.Types) > 0 {
		docs := make([]any, len(data.Types))
		for i, t := range data.Types {
			docs[i] = typeDoc{Type: t, Position: int64(i)}
		}
		if _, err := s.types.InsertMany(ctx, docs); err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "insert types")
		}
	}
	if len(data.Entities) > 0 {
		docs := make([]any, len(data.Entities))
		for i, e := range data.Entities {
			docs[i] = entityDoc{Entity: e, Position: int64(i)}
		}
		if _, err := s.entities.InsertMany(ctx, docs); err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "insert entities")
		}
	}
	return nil
}

// nextPosition orders new documents after everything written by Replace.
func nextPosition() int64 { return time.Now().UnixNano() }

func (s *MongoStore) CreateType(ctx context.Context, t model.Type) (model.Type, error) {
	t, err := prepareType(t)
	if err != nil {
		return t, err
	}
	t.ID = newID()
	if _, err := s.types.InsertOne(ctx, typeDoc{Type: t, Position: nextPosition()}); err != nil {
		return t, errors.Wrap(errors.ErrCodeStore, err, "insert type")
	}
	return t, nil
}

func (s *MongoStore) UpdateType(ctx context.Context, id string, t model.Type) (model.Type, error) {
	t, err := prepareType(t)
	if err != nil {
		return t, err
	}
	t.ID = id
	res, err := s.types.UpdateByID(ctx, id, bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: t.Name},
		{Key: "attributes", Value: t.Attributes},
	}}})
	if err != nil {
		return t, errors.Wrap(errors.ErrCodeStore, err, "update type")
	}
	if res.MatchedCount == 0 {
		return t, typeNotFound(id)
	}
	return t, nil
}

func (s *MongoStore) DeleteType(ctx context.Context, id string) error {
	res, err := s.types.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete type")
	}
	if res.DeletedCount == 0 {
		return typeNotFound(id)
	}
	return nil
}

func (s *MongoStore) CreateEntity(ctx context.Context, e model.Entity) (model.Entity, error) {
	t, err := s.typeByID(ctx, e.TypeID)
	if err != nil {
		return e, err
	}
	if e, err = prepareEntity(e, t); err != nil {
		return e, err
	}
	e.ID = newID()
	if _, err := s.entities.InsertOne(ctx, entityDoc{Entity: e, Position: nextPosition()}); err != nil {
		return e, errors.Wrap(errors.ErrCodeStore, err, "insert entity")
	}
	return e, nil
}

func (s *MongoStore) UpdateEntity(ctx context.Context, id string, e model.Entity) (model.Entity, error) {
	e.ID = id
	n, err := s.entities.CountDocuments(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return e, errors.Wrap(errors.ErrCodeStore, err, "lookup entity")
	}
	if n == 0 {
		return e, entityNotFound(id)
	}
	t, err := s.typeByID(ctx, e.TypeID)
	if err != nil {
		return e, err
	}
	if e, err = prepareEntity(e, t); err != nil {
		return e, err
	}
	_, err = s.entities.UpdateByID(ctx, id, bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: e.Name},
		{Key: "type_id", Value: e.TypeID},
		{Key: "attributes", Value: e.Attributes},
	}}})
	if err != nil {
		return e, errors.Wrap(errors.ErrCodeStore, err, "update entity")
	}
	return e, nil
}

func (s *MongoStore) DeleteEntity(ctx context.Context, id string) error {
	res, err := s.entities.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete entity")
	}
	if res.DeletedCount == 0 {
		return entityNotFound(id)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) typeByID(ctx context.Context, id string) (*model.Type, error) {
	var doc typeDoc
	err := s.types.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup type %s: %w", id, err)
	}
	return &doc.Type, nil
}

var _ Store = (*MongoStore)(nil)
