package mongodb

import (
	"context"
	"testing"

	"luxedrive/internal/models"
	"luxedrive/internal/repositories/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func vehicleDoc(id, name, brand string, position int64) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: name},
		{Key: "brand", Value: brand},
		{Key: "type", Value: "Sedan"},
		{Key: "price", Value: 100.0},
		{Key: "available", Value: true},
		{Key: "position", Value: position},
	}
}

func TestVehicleRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("list keeps cursor order", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + vehiclesCollection
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, vehicleDoc("1", "S-Class", "Mercedes-Benz", 1)),
			mtest.CreateCursorResponse(0, ns, mtest.NextBatch, vehicleDoc("2", "X7", "BMW", 2)),
		)

		vehicles, err := NewVehicleRepository(mt.DB).List(ctx)
		require.NoError(mt, err)
		require.Len(mt, vehicles, 2)
		assert.Equal(mt, "1", vehicles[0].ID)
		assert.Equal(mt, "BMW", vehicles[1].Brand)
	})

	mt.Run("get by id", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + vehiclesCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, vehicleDoc("3", "911", "Porsche", 3)))

		vehicle, err := NewVehicleRepository(mt.DB).GetByID(ctx, "3")
		require.NoError(mt, err)
		assert.Equal(mt, "911", vehicle.Name)
		assert.Equal(mt, 100.0, vehicle.Price)
	})

	mt.Run("get missing", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + vehiclesCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := NewVehicleRepository(mt.DB).GetByID(ctx, "nope")
		assert.ErrorIs(mt, err, interfaces.ErrNotFound)
	})

	mt.Run("create appends after last position", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + vehiclesCollection
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "_id", Value: "2"}, {Key: "position", Value: int64(2)}}),
			mtest.CreateSuccessResponse(),
		)

		err := NewVehicleRepository(mt.DB).Create(ctx, &models.Vehicle{ID: "9", Name: "R8", Brand: "Audi", Type: "Sports", Price: 500})
		require.NoError(mt, err)

		find := mt.GetStartedEvent()
		require.NotNil(mt, find)
		assert.Equal(mt, "find", find.CommandName)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "insert", started.CommandName)

		docs := started.Command.Lookup("documents").Array()
		values, err := docs.Values()
		require.NoError(mt, err)
		require.Len(mt, values, 1)
		assert.Equal(mt, int64(3), values[0].Document().Lookup("position").Int64())
	})

	mt.Run("create duplicate", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + vehiclesCollection
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key error"}),
		)

		err := NewVehicleRepository(mt.DB).Create(ctx, &models.Vehicle{ID: "1"})
		assert.ErrorIs(mt, err, interfaces.ErrExists)
	})

	mt.Run("update missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := NewVehicleRepository(mt.DB).Update(ctx, &models.Vehicle{ID: "nope"})
		assert.ErrorIs(mt, err, interfaces.ErrNotFound)
	})

	mt.Run("update existing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		err := NewVehicleRepository(mt.DB).Update(ctx, &models.Vehicle{ID: "1", Price: 275})
		assert.NoError(mt, err)
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		err := NewVehicleRepository(mt.DB).Delete(ctx, "1")
		assert.NoError(mt, err)
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := NewVehicleRepository(mt.DB).Delete(ctx, "nope")
		assert.ErrorIs(mt, err, interfaces.ErrNotFound)
	})
}

func TestSeedDocumentsNumbersPositions(t *testing.T) {
	docs := SeedDocuments(models.DefaultFleet())
	require.NotEmpty(t, docs)

	for i, d := range docs {
		doc, ok := d.(vehicleDocument)
		require.True(t, ok)
		assert.Equal(t, int64(i+1), doc.Position)
	}
}
