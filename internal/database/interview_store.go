package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ChandanDev27/Interview-backend/internal/apperr"
	"github.com/ChandanDev27/Interview-backend/internal/models"
)

const (
	interviewsCollection   = "interviews"
	analysisLogsCollection = "analysis_logs"
)

// ValidateIdentifiers checks an analysis identity before any store mutation.
// The interview id must be a hex ObjectID and the user id non-blank.
func ValidateIdentifiers(interviewID, userID string) error {
	if _, err := primitive.ObjectIDFromHex(interviewID); err != nil {
		return apperr.E(apperr.KindInvalidIdentifier, "interview id is not a valid object id", err)
	}
	if strings.TrimSpace(userID) == "" {
		return apperr.E(apperr.KindInvalidIdentifier, "user id must not be blank", nil)
	}
	return nil
}

// InterviewStore persists analysis results against interview records.
type InterviewStore struct {
	interviews *mongo.Collection
	logs       *mongo.Collection
}

func NewInterviewStore(db *mongo.Database) *InterviewStore {
	return &InterviewStore{
		interviews: db.Collection(interviewsCollection),
		logs:       db.Collection(analysisLogsCollection),
	}
}

// SaveAnalysis appends the run to the analysis log and stamps the interview
// document with the feedback, status and history entry in one update. A
// filter that matches no interview yields a persistence error; the log entry
// is kept either way.
func (s *InterviewStore) SaveAnalysis(ctx context.Context, interviewID, userID string, report *models.Report) error {
	if err := ValidateIdentifiers(interviewID, userID); err != nil {
		return err
	}
	oid, _ := primitive.ObjectIDFromHex(interviewID)

	entry := models.NewAnalysisLog(interviewID, userID, report)
	if _, err := s.logs.InsertOne(ctx, entry); err != nil {
		return apperr.E(apperr.KindPersistence, "failed to record analysis log", err)
	}

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"feedback":   report.Feedback,
			"status":     models.StatusAnalyzed,
			"updated_at": now,
		},
		"$push": bson.M{
			"status_history": bson.M{"status": models.StatusAnalyzed, "timestamp": now},
		},
	}

	res, err := s.interviews.UpdateOne(ctx, bson.M{"_id": oid, "user_id": userID}, update)
	if err != nil {
		return apperr.E(apperr.KindPersistence, "failed to update interview record", err)
	}
	if res.MatchedCount == 0 {
		return apperr.E(apperr.KindPersistence,
			fmt.Sprintf("no interview %s for user %s", interviewID, userID), nil)
	}
	return nil
}

// GetLatestAnalysis returns the most recent analysis log for the interview
// and user.
func (s *InterviewStore) GetLatestAnalysis(ctx context.Context, interviewID, userID string) (*models.AnalysisLog, error) {
	if err := ValidateIdentifiers(interviewID, userID); err != nil {
		return nil, err
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	filter := bson.M{"interview_id": interviewID, "user_id": userID}

	var entry models.AnalysisLog
	err := s.logs.FindOne(ctx, filter, opts).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.E(apperr.KindNotFound, "no analysis recorded for this interview", nil)
	}
	if err != nil {
		return nil, apperr.E(apperr.KindPersistence, "failed to load analysis log", err)
	}
	return &entry, nil
}
