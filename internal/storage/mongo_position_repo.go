package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/annel0/tileworld/internal/vec"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig содержит параметры подключения к MongoDB.
type MongoConfig struct {
	URI        string // mongodb://localhost:27017
	Database   string
	Collection string
}

// MongoPositionRepo реализует PositionRepo на MongoDB.
// Документ: {_id: userID, x, y, z, updated_at}; userID хранится как int64
// с тем же битовым представлением.
type MongoPositionRepo struct {
	client     *mongo.Client
	collection *mongo.Collection
}

type positionDoc struct {
	UserID    int64     `bson:"_id"`
	X         int64     `bson:"x"`
	Y         int64     `bson:"y"`
	Z         int64     `bson:"z"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoPositionRepo подключается к MongoDB и проверяет соединение.
func NewMongoPositionRepo(ctx context.Context, cfg MongoConfig) (*MongoPositionRepo, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = "tileworld"
	}
	if cfg.Collection == "" {
		cfg.Collection = "player_positions"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("не удалось проверить соединение с MongoDB: %w", err)
	}

	return &MongoPositionRepo{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func toDoc(userID uint64, pos vec.Tripoint) positionDoc {
	return positionDoc{
		UserID:    int64(userID),
		X:         int64(pos.X),
		Y:         int64(pos.Y),
		Z:         int64(pos.Z),
		UpdatedAt: time.Now().UTC(),
	}
}

// Save сохраняет позицию игрока (upsert по _id).
func (r *MongoPositionRepo) Save(ctx context.Context, userID uint64, pos vec.Tripoint) error {
	if err := validatePosition(userID, pos); err != nil {
		return err
	}

	doc := toDoc(userID, pos)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.UserID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		storageErrors.WithLabelValues("mongo", "save").Inc()
		return fmt.Errorf("ошибка сохранения позиции для пользователя %d: %w", userID, err)
	}
	storageOps.WithLabelValues("mongo", "save").Inc()
	return nil
}

// Load загружает позицию игрока.
func (r *MongoPositionRepo) Load(ctx context.Context, userID uint64) (vec.Tripoint, bool, error) {
	if userID == 0 {
		return vec.TripointMin, false, fmt.Errorf("%w: %d", ErrInvalidUser, userID)
	}

	var doc positionDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": int64(userID)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return vec.TripointMin, false, nil
	}
	if err != nil {
		storageErrors.WithLabelValues("mongo", "load").Inc()
		return vec.TripointMin, false, fmt.Errorf("ошибка загрузки позиции для пользователя %d: %w", userID, err)
	}

	storageOps.WithLabelValues("mongo", "load").Inc()
	return vec.Tripoint{X: int(doc.X), Y: int(doc.Y), Z: int(doc.Z)}, true, nil
}

// Delete удаляет сохраненную позицию игрока.
func (r *MongoPositionRepo) Delete(ctx context.Context, userID uint64) error {
	if userID == 0 {
		return fmt.Errorf("%w: %d", ErrInvalidUser, userID)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": int64(userID)})
	if err != nil {
		storageErrors.WithLabelValues("mongo", "delete").Inc()
		return fmt.Errorf("ошибка удаления позиции для пользователя %d: %w", userID, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("позиция пользователя %d: %w", userID, ErrNotFound)
	}

	storageOps.WithLabelValues("mongo", "delete").Inc()
	return nil
}

// BatchSave сохраняет позиции одним BulkWrite из upsert-операций.
func (r *MongoPositionRepo) BatchSave(ctx context.Context, positions map[uint64]vec.Tripoint) error {
	if len(positions) == 0 {
		return nil
	}
	if err := validateBatch(positions); err != nil {
		return err
	}

	models := make([]mongo.WriteModel, 0, len(positions))
	for userID, pos := range positions {
		doc := toDoc(userID, pos)
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": doc.UserID}).
			SetReplacement(doc).
			SetUpsert(true))
	}

	if _, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		storageErrors.WithLabelValues("mongo", "batch_save").Inc()
		return fmt.Errorf("ошибка пакетного сохранения позиций: %w", err)
	}

	storageOps.WithLabelValues("mongo", "batch_save").Inc()
	return nil
}

// Close отключается от MongoDB.
func (r *MongoPositionRepo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}
