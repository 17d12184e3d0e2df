package uploadguard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckFileSizeBoundary(t *testing.T) {
	assert.NoError(t, CheckFile(MaxFileBytes, "image/png"))

	err := CheckFile(MaxFileBytes+1, "image/png")
	require.Error(t, err)
	var rej *RejectionError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, ReasonTooLarge, rej.Reason)
}

func TestCheckFileTypeAllowList(t *testing.T) {
	for _, ct := range []string{"image/jpeg", "image/png", "image/webp", "IMAGE/PNG", "image/jpeg; charset=binary"} {
		assert.NoError(t, CheckFile(1024, ct), ct)
	}

	for _, ct := range []string{"image/gif", "application/pdf", "text/html", ""} {
		err := CheckFile(1024, ct)
		require.Error(t, err, ct)
		var rej *RejectionError
		require.ErrorAs(t, err, &rej)
		assert.Equal(t, ReasonBadType, rej.Reason, ct)
	}
}

func TestCheckFileBadTypeRejectedRegardlessOfSize(t *testing.T) {
	err := CheckFile(1, "application/zip")
	require.Error(t, err)
	var rej *RejectionError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, ReasonBadType, rej.Reason)
}

func TestCheckImageWildcard(t *testing.T) {
	// The profile photo path accepts any image/* type, including ones the
	// explicit list rejects.
	assert.NoError(t, CheckImageWildcard(1024, "image/gif"))
	assert.NoError(t, CheckImageWildcard(1024, "image/png"))

	err := CheckImageWildcard(1024, "application/pdf")
	require.Error(t, err)
	var rej *RejectionError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, ReasonBadType, rej.Reason)

	err = CheckImageWildcard(MaxFileBytes+1, "image/png")
	require.Error(t, err)
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, ReasonTooLarge, rej.Reason)
}

func TestCheckBatchCap(t *testing.T) {
	assert.NoError(t, CheckBatch(0, 3, MaxFeedbackAttachments))
	assert.NoError(t, CheckBatch(2, 1, MaxFeedbackAttachments))

	// A 4th attachment on top of 3 queued is rejected; the queued 3 stand.
	err := CheckBatch(3, 1, MaxFeedbackAttachments)
	require.Error(t, err)
	var rej *RejectionError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, ReasonTooManyFiles, rej.Reason)

	assert.NoError(t, CheckBatch(0, 1, MaxProfilePhotos))
	assert.Error(t, CheckBatch(1, 1, MaxProfilePhotos))
}
