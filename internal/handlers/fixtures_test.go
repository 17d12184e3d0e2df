package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/painlog-backend/internal/database"
	"github.com/AnshRaj112/painlog-backend/internal/models"
	"github.com/AnshRaj112/painlog-backend/internal/services"
)

func modelEntryFixture() models.PainEntry {
	return models.PainEntry{
		ID:        primitive.NewObjectID(),
		CreatedAt: time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC),
		UserID:    "user-1",
		Level:     6,
		EntryDate: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Notes:     "dull ache after run",
	}
}

// authedToken backs the session store with an in-process Redis and returns a
// valid bearer token for userID.
func authedToken(t testing.TB, userID uuid.UUID) string {
	t.Helper()
	mr := miniredis.RunT(t)
	prev := database.RedisClient
	database.RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		database.RedisClient.Close()
		database.RedisClient = prev
	})
	token, err := services.CreateSession(userID)
	require.NoError(t, err)
	return token
}

// fakeUploader satisfies blobStore without touching Cloudinary. Uploads named
// failOn return an error; every other upload returns a deterministic URL.
type fakeUploader struct {
	failOn  string
	folders []string
}

func (f *fakeUploader) UploadFileFromHeader(_ context.Context, fileHeader *multipart.FileHeader, folder string) (string, error) {
	f.folders = append(f.folders, folder)
	if fileHeader.Filename == f.failOn {
		return "", errors.New("simulated upload failure")
	}
	return "https://cdn.example.com/" + fileHeader.Filename, nil
}

type filePart struct {
	field       string
	name        string
	contentType string
	data        []byte
}

// multipartBody builds a multipart/form-data body from text fields and file
// parts, returning the body and its Content-Type header value.
func multipartBody(t testing.TB, fields map[string]string, parts []filePart) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, mw.WriteField(key, value))
	}
	for _, p := range parts {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.field, p.name))
		header.Set("Content-Type", p.contentType)
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

// fileHeaders round-trips parts through a multipart parse so the returned
// headers carry real sizes and MIME headers, the same shape handlers see.
func fileHeaders(t testing.TB, parts []filePart) []*multipart.FileHeader {
	t.Helper()
	buf, contentType := multipartBody(t, nil, parts)
	_, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	form, err := multipart.NewReader(buf, params["boundary"]).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File[parts[0].field]
}
