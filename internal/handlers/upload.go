package handlers

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/painlog-backend/internal/config"
	"github.com/AnshRaj112/painlog-backend/internal/database"
	"github.com/AnshRaj112/painlog-backend/internal/services"
	"github.com/AnshRaj112/painlog-backend/internal/uploadguard"
)

// blobStore is the upload surface the handlers depend on; the Cloudinary
// service satisfies it.
type blobStore interface {
	UploadFileFromHeader(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (string, error)
}

var blobUploader blobStore

func InitCloudinaryService(c *config.Config) error {
	service, err := services.NewCloudinaryService(
		c.CloudinaryName,
		c.CloudinaryAPIKey,
		c.CloudinaryAPISecret,
	)
	if err != nil {
		return err
	}
	blobUploader = service
	return nil
}

type UploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
	URL     string `json:"url,omitempty"`
}

// UploadProfilePhoto uploads the user's profile picture and stores its URL on
// the profile document. One photo per user; each upload replaces the last
// reference. The type check here accepts any image/* content type, unlike the
// explicit allow-list used for feedback attachments.
func UploadProfilePhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	if blobUploader == nil {
		http.Error(w, "Upload service not initialized", http.StatusInternalServerError)
		return
	}

	// Parse multipart form (max 10MB in memory)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "No file provided: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	if err := uploadguard.CheckImageWildcard(fileHeader.Size, fileHeader.Header.Get("Content-Type")); err != nil {
		resp := UploadResponse{Success: false, Message: err.Error()}
		if rej, rejOk := err.(*uploadguard.RejectionError); rejOk {
			resp.Reason = string(rej.Reason)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(resp)
		return
	}

	url, err := blobUploader.UploadFileFromHeader(r.Context(), fileHeader, services.Folder("profiles", userID.String()))
	if err != nil {
		http.Error(w, "Failed to upload file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Merge the new URL into the profile document (upsert covers users who
	// upload before their first profile read). The photo reference lives on
	// the profile, so a failed write here fails the whole operation even
	// though the blob itself is already stored.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	now := time.Now()
	_, err = database.DB.Collection("profiles").UpdateOne(ctx,
		bson.M{"_id": userID.String()},
		bson.M{
			"$set":         bson.M{"photo_url": url, "updated_at": now},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(UploadResponse{
			Success: false,
			Message: "Photo uploaded but saving it to your profile failed. Please try again.",
			URL:     url,
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(UploadResponse{
		Success: true,
		Message: "File uploaded successfully",
		URL:     url,
	})
}
