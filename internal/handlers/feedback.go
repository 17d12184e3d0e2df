package handlers

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/painlog-backend/internal/database"
	"github.com/AnshRaj112/painlog-backend/internal/models"
	"github.com/AnshRaj112/painlog-backend/internal/services"
	"github.com/AnshRaj112/painlog-backend/internal/uploadguard"
	"github.com/AnshRaj112/painlog-backend/internal/validate"
)

// AttachmentResult reports the outcome of one attachment upload.
type AttachmentResult struct {
	Filename string `json:"filename"`
	Success  bool   `json:"success"`
	URL      string `json:"url,omitempty"`
	Message  string `json:"message,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

type SubmitFeedbackResponse struct {
	Success     bool               `json:"success"`
	Message     string             `json:"message"`
	Field       string             `json:"field,omitempty"`
	Attachments []AttachmentResult `json:"attachments,omitempty"`
}

// uploadAttachments runs the sequential, independent upload loop: each file's
// guard rejection or upload failure is recorded for that file only and the
// rest proceed. The returned URLs are the uploads that made it, in order.
func uploadAttachments(ctx context.Context, up blobStore, userID string, files []*multipart.FileHeader) ([]AttachmentResult, []string) {
	results := make([]AttachmentResult, 0, len(files))
	attachmentURLs := make([]string, 0, len(files))
	for _, fileHeader := range files {
		result := AttachmentResult{Filename: fileHeader.Filename}

		if err := uploadguard.CheckFile(fileHeader.Size, fileHeader.Header.Get("Content-Type")); err != nil {
			result.Message = err.Error()
			if rej, rejOk := err.(*uploadguard.RejectionError); rejOk {
				result.Reason = string(rej.Reason)
			}
			results = append(results, result)
			continue
		}

		if up == nil {
			result.Message = "Upload service not initialized"
			results = append(results, result)
			continue
		}

		url, err := up.UploadFileFromHeader(ctx, fileHeader, services.Folder("feedback", userID))
		if err != nil {
			result.Message = "Upload failed"
			results = append(results, result)
			continue
		}

		result.Success = true
		result.URL = url
		results = append(results, result)
		attachmentURLs = append(attachmentURLs, url)
	}
	return results, attachmentURLs
}

// SubmitFeedback handles a multipart feedback submission: a "feedback" text
// field plus up to 3 image attachments under "attachments". Attachments are
// validated against the explicit allow-list, then uploaded one at a time;
// a failed upload is reported for that file only and the feedback document is
// written with whichever URLs succeeded.
func SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(w, r)
	if !ok {
		return
	}

	// Parse multipart form (max 32MB in memory across the batch)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(SubmitFeedbackResponse{
			Success: false,
			Message: "Failed to parse form",
		})
		return
	}

	text := r.FormValue("feedback")
	if err := validate.Feedback(text); err != nil {
		resp := SubmitFeedbackResponse{Success: false, Message: err.Error()}
		if fe, feOk := err.(*validate.FieldError); feOk {
			resp.Field = fe.Field
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(resp)
		return
	}

	files := r.MultipartForm.File["attachments"]
	if err := uploadguard.CheckBatch(0, len(files), uploadguard.MaxFeedbackAttachments); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(SubmitFeedbackResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	results, attachmentURLs := uploadAttachments(r.Context(), blobUploader, userID.String(), files)

	email, err := lookupEmail(userID)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(SubmitFeedbackResponse{
			Success:     false,
			Message:     "Failed to submit feedback",
			Attachments: results,
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	feedback := models.Feedback{
		ID:             primitive.NewObjectID(),
		CreatedAt:      time.Now(),
		UserID:         userID.String(),
		UserEmail:      email,
		Feedback:       text,
		AttachmentURLs: attachmentURLs,
	}

	if _, err := database.DB.Collection("feedbacks").InsertOne(ctx, feedback); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(SubmitFeedbackResponse{
			Success:     false,
			Message:     "Failed to submit feedback",
			Attachments: results,
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SubmitFeedbackResponse{
		Success:     true,
		Message:     "Feedback submitted successfully. Thank you!",
		Attachments: results,
	})
}
