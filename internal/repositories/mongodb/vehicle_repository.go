package mongodb

import (
	"context"
	"errors"
	"fmt"

	"luxedrive/internal/models"
	"luxedrive/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const vehiclesCollection = "vehicles"

// vehicleDocument stores a vehicle with its catalog position, which keeps
// listing order stable across inserts and deletes.
type vehicleDocument struct {
	models.Vehicle `bson:",inline"`
	Position       int64 `bson:"position"`
}

type vehicleRepository struct {
	collection *mongo.Collection
}

func NewVehicleRepository(db *mongo.Database) interfaces.VehicleRepository {
	return &vehicleRepository{
		collection: db.Collection(vehiclesCollection),
	}
}

// SeedDocuments turns a fleet into insertable documents in catalog order.
func SeedDocuments(vehicles []*models.Vehicle) []interface{} {
	docs := make([]interface{}, 0, len(vehicles))
	for i, v := range vehicles {
		docs = append(docs, vehicleDocument{Vehicle: *v, Position: int64(i + 1)})
	}
	return docs
}

func (r *vehicleRepository) List(ctx context.Context) ([]*models.Vehicle, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer cursor.Close(ctx)

	vehicles := make([]*models.Vehicle, 0)
	for cursor.Next(ctx) {
		var doc vehicleDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode vehicle: %w", err)
		}
		vehicle := doc.Vehicle
		vehicles = append(vehicles, &vehicle)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vehicles: %w", err)
	}

	return vehicles, nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id string) (*models.Vehicle, error) {
	var doc vehicleDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("vehicle %s: %w", id, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	return &doc.Vehicle, nil
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	position, err := r.nextPosition(ctx)
	if err != nil {
		return err
	}

	_, err = r.collection.InsertOne(ctx, vehicleDocument{Vehicle: *vehicle, Position: position})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("vehicle %s: %w", vehicle.ID, interfaces.ErrExists)
		}
		return fmt.Errorf("failed to create vehicle: %w", err)
	}

	return nil
}

func (r *vehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	updates := bson.M{
		"name":         vehicle.Name,
		"brand":        vehicle.Brand,
		"type":         vehicle.Type,
		"year":         vehicle.Year,
		"seats":        vehicle.Seats,
		"transmission": vehicle.Transmission,
		"fuel":         vehicle.Fuel,
		"price":        vehicle.Price,
		"image":        vehicle.Image,
		"available":    vehicle.Available,
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": vehicle.ID}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("vehicle %s: %w", vehicle.ID, interfaces.ErrNotFound)
	}

	return nil
}

func (r *vehicleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("vehicle %s: %w", id, interfaces.ErrNotFound)
	}

	return nil
}

func (r *vehicleRepository) nextPosition(ctx context.Context) (int64, error) {
	var last vehicleDocument
	opts := options.FindOne().
		SetSort(bson.D{{Key: "position", Value: -1}}).
		SetProjection(bson.M{"position": 1})

	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read catalog position: %w", err)
	}
	return last.Position + 1, nil
}
