package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/painlog-backend/internal/aggregate"
	"github.com/AnshRaj112/painlog-backend/internal/database"
	"github.com/AnshRaj112/painlog-backend/internal/models"
	"github.com/AnshRaj112/painlog-backend/internal/validate"
)

// CreateEntryRequest is the JSON body for POST /api/entries
type CreateEntryRequest struct {
	Level     int    `json:"level"`
	EntryDate string `json:"entry_date"` // YYYY-MM-DD, user-selected
	Notes     string `json:"notes,omitempty"`
}

type EntryResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Field   string                 `json:"field,omitempty"`
	Entry   map[string]interface{} `json:"entry,omitempty"`
}

type ListEntriesResponse struct {
	Success bool                     `json:"success"`
	Message string                   `json:"message,omitempty"`
	Entries []map[string]interface{} `json:"entries"`
	Total   int64                    `json:"total"`
}

type TrendResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	From    string            `json:"from,omitempty"`
	To      string            `json:"to,omitempty"`
	Points  []aggregate.Point `json:"points"`
}

func entryMap(e models.PainEntry) map[string]interface{} {
	return map[string]interface{}{
		"id":         e.ID.Hex(),
		"level":      e.Level,
		"entry_date": e.EntryDate.Format("2006-01-02"),
		"notes":      e.Notes,
		"created_at": e.CreatedAt,
	}
}

// CreateEntry records a new pain entry for the authenticated user. Entries
// have no edit path; created_at is set server side.
func CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(EntryResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.PainLevel(req.Level); err != nil {
		writeEntryFieldError(w, err)
		return
	}
	if err := validate.EntryDate(req.EntryDate); err != nil {
		writeEntryFieldError(w, err)
		return
	}
	entryDate, err := time.ParseInLocation("2006-01-02", req.EntryDate, time.UTC)
	if err != nil {
		writeEntryFieldError(w, &validate.FieldError{Field: "entry_date", Message: "Date must be in YYYY-MM-DD format"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entry := models.PainEntry{
		ID:        primitive.NewObjectID(),
		CreatedAt: time.Now(),
		UserID:    userID.String(),
		Level:     req.Level,
		EntryDate: entryDate,
		Notes:     req.Notes,
	}

	_, err = database.DB.Collection("pain_entries").InsertOne(ctx, entry)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(EntryResponse{
			Success: false,
			Message: "Failed to save entry",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(EntryResponse{
		Success: true,
		Message: "Entry saved",
		Entry:   entryMap(entry),
	})
}

// GetEntries returns the authenticated user's entries ordered by observation
// date descending. Always a fresh query, so a delete followed by a list
// reflects the delete once this read completes.
func GetEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"user_id": userID.String()}

	total, err := database.DB.Collection("pain_entries").CountDocuments(ctx, filter)
	if err != nil {
		writeListError(w)
		return
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.M{"entry_date": -1})

	cursor, err := database.DB.Collection("pain_entries").Find(ctx, filter, findOptions)
	if err != nil {
		writeListError(w)
		return
	}
	defer cursor.Close(ctx)

	var entries []models.PainEntry
	if err = cursor.All(ctx, &entries); err != nil {
		writeListError(w)
		return
	}

	result := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		result = append(result, entryMap(e))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListEntriesResponse{
		Success: true,
		Entries: result,
		Total:   total,
	})
}

// DeleteEntry removes one of the user's own entries by ID.
func DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	idStr := r.URL.Query().Get("id")
	objectID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(EntryResponse{
			Success: false,
			Message: "Invalid entry id",
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Owner-equality filter: a user can only delete their own documents.
	res, err := database.DB.Collection("pain_entries").DeleteOne(ctx, bson.M{
		"_id":     objectID,
		"user_id": userID.String(),
	})
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(EntryResponse{
			Success: false,
			Message: "Failed to delete entry",
		})
		return
	}
	if res.DeletedCount == 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(EntryResponse{
			Success: false,
			Message: "Entry not found",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(EntryResponse{
		Success: true,
		Message: "Entry deleted",
	})
}

// parseTrendWindow reads from/to query parameters (YYYY-MM-DD). Defaults to
// the last 30 days. An inverted window is passed through untouched; the
// aggregator answers it with an empty series rather than an error.
func parseTrendWindow(fromStr, toStr string) (time.Time, time.Time) {
	now := time.Now().UTC()
	to := now
	from := now.AddDate(0, 0, -30)
	if fromStr != "" {
		if t, err := time.ParseInLocation("2006-01-02", fromStr, time.UTC); err == nil {
			from = t
		}
	}
	if toStr != "" {
		if t, err := time.ParseInLocation("2006-01-02", toStr, time.UTC); err == nil {
			to = t
		}
	}
	return from, to
}

// GetTrend returns the daily-average pain series for the user's entries
// within the requested window.
func GetTrend(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	from, to := parseTrendWindow(r.URL.Query().Get("from"), r.URL.Query().Get("to"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection("pain_entries").Find(ctx, bson.M{"user_id": userID.String()})
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(TrendResponse{
			Success: false,
			Message: "Failed to fetch entries",
			Points:  []aggregate.Point{},
		})
		return
	}
	defer cursor.Close(ctx)

	var entries []models.PainEntry
	if err = cursor.All(ctx, &entries); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(TrendResponse{
			Success: false,
			Message: "Failed to fetch entries",
			Points:  []aggregate.Point{},
		})
		return
	}

	points := make([]aggregate.Entry, 0, len(entries))
	for _, e := range entries {
		points = append(points, aggregate.Entry{EntryDate: e.EntryDate, Level: e.Level})
	}

	series := aggregate.Daily(points, from, to)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TrendResponse{
		Success: true,
		From:    from.Format("2006-01-02"),
		To:      to.Format("2006-01-02"),
		Points:  series,
	})
}

func writeEntryFieldError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	resp := EntryResponse{Success: false, Message: err.Error()}
	if fe, ok := err.(*validate.FieldError); ok {
		resp.Field = fe.Field
	}
	json.NewEncoder(w).Encode(resp)
}

func writeListError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(ListEntriesResponse{
		Success: false,
		Message: "Failed to fetch entries",
		Entries: []map[string]interface{}{},
		Total:   0,
	})
}
