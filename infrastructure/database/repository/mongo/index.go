package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"vericlass.io/infrastructure/database/connection/datastore"
	"vericlass.io/infrastructure/logger"
)

func (repo *MongoRepository[T]) newCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, datastore.QueryTimeout())
}

func (repo *MongoRepository[T]) CreateOne(ctx context.Context, payload T, opts ...*options.InsertOneOptions) (*T, error) {
	c, cancel := repo.newCtx(ctx)
	defer cancel()

	parsed := payload.ParseModel().(*T)
	_, err := repo.Model.InsertOne(c, parsed, opts...)
	if err != nil {
		logger.Error("an error occured while creating an entry", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return nil, err
	}
	return parsed, nil
}

func (repo *MongoRepository[T]) FindOneByFilter(ctx context.Context, filter map[string]interface{}, opts ...*options.FindOneOptions) (*T, error) {
	c, cancel := repo.newCtx(ctx)
	defer cancel()

	var result T
	err := repo.Model.FindOne(c, filter, opts...).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		logger.Error("an error occured while running FindOneByFilter", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return nil, err
	}
	return &result, nil
}

func (repo *MongoRepository[T]) FindByID(ctx context.Context, id string, opts ...*options.FindOneOptions) (*T, error) {
	return repo.FindOneByFilter(ctx, map[string]interface{}{"_id": id}, opts...)
}

func (repo *MongoRepository[T]) FindMany(ctx context.Context, filter map[string]interface{}, opts *FindOptions) (*[]T, error) {
	c, cancel := repo.newCtx(ctx)
	defer cancel()

	findOpts := options.Find()
	if opts != nil {
		if opts.Sort != nil {
			findOpts.SetSort(*opts.Sort)
		}
		if opts.Projection != nil {
			findOpts.SetProjection(*opts.Projection)
		}
		if opts.Skip != nil {
			findOpts.SetSkip(*opts.Skip)
		}
		if opts.Limit != nil {
			findOpts.SetLimit(*opts.Limit)
		}
	}

	cursor, err := repo.Model.Find(c, filter, findOpts)
	if err != nil {
		logger.Error("an error occured while running FindMany", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return nil, err
	}
	results := []T{}
	if err = cursor.All(c, &results); err != nil {
		logger.Error("an error occured while decoding FindMany results", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return nil, err
	}
	return &results, nil
}

func (repo *MongoRepository[T]) CountDocs(ctx context.Context, filter map[string]interface{}) (int64, error) {
	c, cancel := repo.newCtx(ctx)
	defer cancel()

	count, err := repo.Model.CountDocuments(c, filter)
	if err != nil {
		logger.Error("an error occured while running CountDocs", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return 0, err
	}
	return count, nil
}

func (repo *MongoRepository[T]) UpdatePartialByFilter(ctx context.Context, filter map[string]interface{}, update map[string]interface{}) (bool, error) {
	c, cancel := repo.newCtx(ctx)
	defer cancel()

	update["updatedAt"] = time.Now()
	result, err := repo.Model.UpdateOne(c, filter, bson.M{"$set": update})
	if err != nil {
		logger.Error("an error occured while running UpdatePartialByFilter", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

func (repo *MongoRepository[T]) UpdateOrCreateByFilter(ctx context.Context, filter map[string]interface{}, update map[string]interface{}) (bool, error) {
	c, cancel := repo.newCtx(ctx)
	defer cancel()

	now := time.Now()
	update["updatedAt"] = now
	result, err := repo.Model.UpdateOne(c, filter, bson.M{
		"$set":         update,
		"$setOnInsert": bson.M{"createdAt": now},
	}, options.Update().SetUpsert(true))
	if err != nil {
		logger.Error("an error occured while running UpdateOrCreateByFilter", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return false, err
	}
	return result.ModifiedCount == 1 || result.UpsertedCount == 1, nil
}

func (repo *MongoRepository[T]) IncrementField(ctx context.Context, filter map[string]interface{}, field string, amount int64) (bool, error) {
	c, cancel := repo.newCtx(ctx)
	defer cancel()

	result, err := repo.Model.UpdateOne(c, filter, bson.M{"$inc": bson.M{field: amount}})
	if err != nil {
		logger.Error("an error occured while running IncrementField", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

func (repo *MongoRepository[T]) DeleteByID(ctx context.Context, id string) (bool, error) {
	c, cancel := repo.newCtx(ctx)
	defer cancel()

	result, err := repo.Model.DeleteOne(c, bson.M{"_id": id})
	if err != nil {
		logger.Error("an error occured while running DeleteByID", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return false, err
	}
	return result.DeletedCount == 1, nil
}
