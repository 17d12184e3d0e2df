package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/AnshRaj112/painlog-backend/internal/database"
)

func TestGetProfileLazyCreate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	mt.Run("first read copies email and display name from the account", func(mt *mtest.T) {
		userID := uuid.New()
		token := authedToken(mt, userID)

		prevDB := database.DB
		database.DB = mt.DB
		defer func() { database.DB = prevDB }()

		pg, pgMock, err := sqlmock.New()
		require.NoError(mt, err)
		prevPG := database.PostgresDB
		database.PostgresDB = pg
		defer func() {
			database.PostgresDB = prevPG
			pg.Close()
		}()
		pgMock.ExpectQuery("SELECT email, display_name FROM users").
			WillReturnRows(sqlmock.NewRows([]string{"email", "display_name"}).AddRow("ada@example.com", "Ada"))

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "painlog.profiles", mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)

		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		GetProfile(rr, req)

		require.Equal(mt, http.StatusOK, rr.Code)
		var resp ProfileResponse
		require.NoError(mt, json.NewDecoder(rr.Body).Decode(&resp))
		assert.True(mt, resp.Success)
		require.NotNil(mt, resp.Profile)
		assert.Equal(mt, userID.String(), resp.Profile.ID)
		assert.Equal(mt, "ada@example.com", resp.Profile.Email)
		assert.Equal(mt, "Ada", resp.Profile.DisplayName)
		require.NoError(mt, pgMock.ExpectationsWereMet())
	})
}

func TestGetProfileLazyCreateAccountMissing(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	mt.Run("account lookup failure is a 404, not an empty profile", func(mt *mtest.T) {
		userID := uuid.New()
		token := authedToken(mt, userID)

		prevDB := database.DB
		database.DB = mt.DB
		defer func() { database.DB = prevDB }()

		pg, pgMock, err := sqlmock.New()
		require.NoError(mt, err)
		prevPG := database.PostgresDB
		database.PostgresDB = pg
		defer func() {
			database.PostgresDB = prevPG
			pg.Close()
		}()
		pgMock.ExpectQuery("SELECT email, display_name FROM users").
			WillReturnError(sql.ErrNoRows)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "painlog.profiles", mtest.FirstBatch))

		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		GetProfile(rr, req)

		assert.Equal(mt, http.StatusNotFound, rr.Code)
		assert.Contains(mt, rr.Body.String(), "Account not found")
		require.NoError(mt, pgMock.ExpectationsWereMet())
	})
}
