package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AnshRaj112/painlog-backend/internal/database"
	"github.com/AnshRaj112/painlog-backend/internal/models"
	"github.com/AnshRaj112/painlog-backend/internal/validate"
)

// UpdateProfileRequest is the JSON body for PUT /api/profile. Fields left out
// are not touched (merge write).
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	PhotoURL    *string `json:"photo_url,omitempty"`
}

type ProfileResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Field   string          `json:"field,omitempty"`
	Profile *models.Profile `json:"profile,omitempty"`
}

// GetProfile returns the user's profile, creating it on first read if absent
// (email and display name copied from the account).
func GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var profile models.Profile
	err := database.DB.Collection("profiles").FindOne(ctx, bson.M{"_id": userID.String()}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		// Lazy creation on first visit
		email, displayName, lookupErr := lookupAccount(userID)
		if lookupErr != nil {
			http.Error(w, "Account not found", http.StatusNotFound)
			return
		}

		now := time.Now()
		profile = models.Profile{
			ID:          userID.String(),
			CreatedAt:   now,
			UpdatedAt:   now,
			Email:       email,
			DisplayName: displayName,
		}
		if _, insertErr := database.DB.Collection("profiles").InsertOne(ctx, profile); insertErr != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ProfileResponse{
				Success: false,
				Message: "Failed to create profile",
			})
			return
		}
	} else if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ProfileResponse{
			Success: false,
			Message: "Failed to fetch profile",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ProfileResponse{
		Success: true,
		Profile: &profile,
	})
}

// UpdateProfile merge-writes the editable profile fields. Email is not
// editable here; it mirrors the account.
func UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ProfileResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if req.DisplayName != nil {
		if err := validate.DisplayName(*req.DisplayName); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			resp := ProfileResponse{Success: false, Message: err.Error()}
			if fe, feOk := err.(*validate.FieldError); feOk {
				resp.Field = fe.Field
			}
			json.NewEncoder(w).Encode(resp)
			return
		}
		set["display_name"] = strings.TrimSpace(*req.DisplayName)
	}
	if req.PhotoURL != nil {
		set["photo_url"] = strings.TrimSpace(*req.PhotoURL)
	}

	if len(set) == 1 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ProfileResponse{
			Success: false,
			Message: "Nothing to update",
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := database.DB.Collection("profiles").UpdateOne(ctx,
		bson.M{"_id": userID.String()},
		bson.M{"$set": set},
	)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ProfileResponse{
			Success: false,
			Message: "Failed to update profile",
		})
		return
	}

	var profile models.Profile
	if err := database.DB.Collection("profiles").FindOne(ctx, bson.M{"_id": userID.String()}).Decode(&profile); err != nil {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ProfileResponse{
			Success: true,
			Message: "Profile updated",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ProfileResponse{
		Success: true,
		Message: "Profile updated",
		Profile: &profile,
	})
}
