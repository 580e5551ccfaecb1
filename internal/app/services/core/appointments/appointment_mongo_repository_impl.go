package appointments

import (
	"clinic-appointment-service/internal/app/contracts"
	"clinic-appointment-service/internal/app/models"
	"clinic-appointment-service/internal/pkg/constvars"
	"clinic-appointment-service/internal/pkg/exceptions"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AppointmentMongoRepository struct {
	Collection *mongo.Collection
}

func NewAppointmentMongoRepository(db *mongo.Client, dbName string) contracts.AppointmentRepository {
	return &AppointmentMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionAppointments),
	}
}

func (r *AppointmentMongoRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			// slotKey only exists while the appointment holds its slot
			Keys: bson.D{{Key: "slotKey", Value: 1}},
			Options: options.Index().
				SetName(constvars.MongoIndexAppointmentActiveSlot).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"slotKey": bson.M{"$exists": true}}),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "scheduledAt", Value: 1}},
			Options: options.Index().SetName(constvars.MongoIndexAppointmentStatusSched),
		},
		{
			Keys:    bson.D{{Key: "doctorId", Value: 1}, {Key: "scheduledAt", Value: 1}},
			Options: options.Index().SetName(constvars.MongoIndexAppointmentDoctorSched),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "scheduledAt", Value: -1}},
			Options: options.Index().SetName(constvars.MongoIndexAppointmentPatientSched),
		},
	}

	if _, err := r.Collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return exceptions.ErrMongoDBCreateIndex(err)
	}
	return nil
}

func (r *AppointmentMongoRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	if appointment.ID.IsZero() {
		appointment.ID = primitive.NewObjectID()
	}

	_, err := r.Collection.InsertOne(ctx, appointment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return exceptions.ErrSlotConflict(err, appointment.DoctorID, appointment.DateLabel(), appointment.AppointmentTime)
		}
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (r *AppointmentMongoRepository) FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	objectID, err := primitive.ObjectIDFromHex(appointmentID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}

	var appointment models.Appointment
	err = r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&appointment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &appointment, nil
}

func (r *AppointmentMongoRepository) FindAll(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	query := bson.M{}
	if filter.PatientID != "" {
		query["userId"] = filter.PatientID
	}
	if filter.DoctorID != "" {
		query["doctorId"] = filter.DoctorID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Date != nil {
		query["appointmentDate"] = filter.Date.UTC()
	}
	if filter.ScheduledFrom != nil || filter.ScheduledTo != nil {
		scheduled := bson.M{}
		if filter.ScheduledFrom != nil {
			scheduled["$gte"] = *filter.ScheduledFrom
		}
		if filter.ScheduledTo != nil {
			scheduled["$lt"] = *filter.ScheduledTo
		}
		query["scheduledAt"] = scheduled
	}
	if filter.WithReport {
		query["medicalReport"] = bson.M{"$exists": true}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "scheduledAt", Value: 1}})
	if filter.PatientID != "" && filter.DoctorID == "" {
		findOptions.SetSort(bson.D{{Key: "scheduledAt", Value: -1}})
	}

	cursor, err := r.Collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	appointments := make([]models.Appointment, 0)
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, exceptions.ErrMongoDBDecodeDocument(err)
	}
	return appointments, nil
}

func (r *AppointmentMongoRepository) HasActiveInSlot(ctx context.Context, doctorID string, date time.Time, slotTime, excludeID string) (bool, error) {
	query := bson.M{
		"doctorId":        doctorID,
		"appointmentDate": date.UTC(),
		"appointmentTime": slotTime,
		"status":          bson.M{"$in": models.SlotHoldingAppointmentStatuses},
	}
	if excludeID != "" {
		excludeObjectID, err := primitive.ObjectIDFromHex(excludeID)
		if err != nil {
			return false, exceptions.ErrMongoDBNotObjectID(err)
		}
		query["_id"] = bson.M{"$ne": excludeObjectID}
	}

	count, err := r.Collection.CountDocuments(ctx, query, options.Count().SetLimit(1))
	if err != nil {
		return false, exceptions.ErrMongoDBFindDocument(err)
	}
	return count > 0, nil
}

func (r *AppointmentMongoRepository) ReplaceIfVersion(ctx context.Context, appointment *models.Appointment, expectedVersion int64) (bool, error) {
	appointment.Version = expectedVersion + 1
	filter := bson.M{"_id": appointment.ID, "version": expectedVersion}

	result, err := r.Collection.ReplaceOne(ctx, filter, appointment)
	if err != nil {
		appointment.Version = expectedVersion
		if mongo.IsDuplicateKeyError(err) {
			return false, exceptions.ErrSlotConflict(err, appointment.DoctorID, appointment.DateLabel(), appointment.AppointmentTime)
		}
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	if result.MatchedCount == 0 {
		appointment.Version = expectedVersion
		return false, nil
	}
	return true, nil
}

func (r *AppointmentMongoRepository) FindPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Appointment, error) {
	query := bson.M{
		"status":      models.AppointmentStatusPending,
		"scheduledAt": bson.M{"$lt": cutoff},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "scheduledAt", Value: 1}})
	if limit > 0 {
		findOptions.SetLimit(int64(limit))
	}

	cursor, err := r.Collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	appointments := make([]models.Appointment, 0)
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, exceptions.ErrMongoDBDecodeDocument(err)
	}
	return appointments, nil
}

func (r *AppointmentMongoRepository) CancelIfPending(ctx context.Context, appointmentID, reason string, entry models.StatusHistoryEntry) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(appointmentID)
	if err != nil {
		return false, exceptions.ErrMongoDBNotObjectID(err)
	}

	filter := bson.M{"_id": objectID, "status": models.AppointmentStatusPending}
	update := bson.M{
		"$set": bson.M{
			"status":             models.AppointmentStatusCancelled,
			"cancellationReason": reason,
			"updatedAt":          entry.Timestamp,
		},
		"$unset": bson.M{"slotKey": ""},
		"$push":  bson.M{"statusHistory": entry},
		"$inc":   bson.M{"version": 1},
	}

	result, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.ModifiedCount > 0, nil
}

type patientStatsBucket struct {
	Status   models.AppointmentStatus `bson:"_id"`
	Count    int64                    `bson:"count"`
	Upcoming int64                    `bson:"upcoming"`
	Spent    float64                  `bson:"spent"`
}

func (r *AppointmentMongoRepository) AggregatePatientStats(ctx context.Context, patientID string, now time.Time) (*models.AppointmentStats, error) {
	activeStatuses := models.StatusesToStrings(models.ActiveAppointmentStatuses)
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": patientID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
			"upcoming": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{
					bson.M{"$in": bson.A{"$status", activeStatuses}},
					bson.M{"$gte": bson.A{"$scheduledAt", now}},
				}},
				1, 0,
			}}},
			"spent": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{
					bson.M{"$eq": bson.A{"$status", models.AppointmentStatusCompleted}},
					bson.M{"$eq": bson.A{"$paymentStatus", models.PaymentStatusPaid}},
				}},
				"$price", 0,
			}}},
		}}},
	}

	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, exceptions.ErrMongoDBAggregate(err)
	}
	defer cursor.Close(ctx)

	var buckets []patientStatsBucket
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, exceptions.ErrMongoDBDecodeDocument(err)
	}

	stats := &models.AppointmentStats{StatusCounts: make(map[string]int64, len(models.AllAppointmentStatuses))}
	for _, status := range models.AllAppointmentStatuses {
		stats.StatusCounts[string(status)] = 0
	}
	for _, bucket := range buckets {
		stats.Total += bucket.Count
		stats.StatusCounts[string(bucket.Status)] = bucket.Count
		stats.UpcomingCount += bucket.Upcoming
		stats.TotalSpent += bucket.Spent
	}
	return stats, nil
}
