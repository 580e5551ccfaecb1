package clinics

import (
	"clinic-appointment-service/internal/app/contracts"
	"clinic-appointment-service/internal/app/models"
	"clinic-appointment-service/internal/pkg/constvars"
	"clinic-appointment-service/internal/pkg/exceptions"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ClinicMongoRepository struct {
	Collection *mongo.Collection
}

func NewClinicMongoRepository(db *mongo.Client, dbName string) contracts.ClinicRepository {
	return &ClinicMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionClinics),
	}
}

func (r *ClinicMongoRepository) FindByID(ctx context.Context, clinicID string) (*models.Clinic, error) {
	objectID, err := primitive.ObjectIDFromHex(clinicID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}

	var clinic models.Clinic
	err = r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&clinic)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &clinic, nil
}
