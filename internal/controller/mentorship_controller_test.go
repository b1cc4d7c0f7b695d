package controller

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"skillswap_backend/internal/repository"
	"skillswap_backend/internal/service"
	"skillswap_backend/internal/util"
	"skillswap_backend/pkg/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

// 测试路由直接注入已认证的claims，跳过JWT中间件
func newMentorshipRouter(db *gorm.DB, callerID uint) *gin.Engine {
	svc := service.NewMentorshipService(
		repository.NewRequestRepository(db),
		repository.NewUserRepository(db),
		repository.NewSkillRepository(db, nil),
		repository.NewUserSkillRepository(db),
	)
	c := NewMentorshipController(svc)

	router := gin.New()
	router.Use(func(ctx *gin.Context) {
		ctx.Set("user", &util.Claims{UserID: callerID, Email: "caller@example.com"})
	})
	router.POST("/api/requests", c.SendRequest)
	router.PUT("/api/requests/:requestId/accept", c.AcceptRequest)
	router.PUT("/api/requests/:requestId/decline", c.DeclineRequest)
	router.PUT("/api/requests/:requestId/complete", c.CompleteRequest)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestSendRequest_MissingFields(t *testing.T) {
	db, _ := newMockDB(t)
	router := newMentorshipRouter(db, 1)

	w := doJSON(router, http.MethodPost, "/api/requests", `{"message":"hi"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "receiver_id and skill_id are required")
}

func TestSendRequest_NegativeIDs(t *testing.T) {
	db, _ := newMockDB(t)
	router := newMentorshipRouter(db, 1)

	w := doJSON(router, http.MethodPost, "/api/requests", `{"receiver_id":-2,"skill_id":3}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "receiver_id and skill_id must be valid positive numbers")
}

func TestSendRequest_NonNumericIDs(t *testing.T) {
	db, _ := newMockDB(t)
	router := newMentorshipRouter(db, 1)

	w := doJSON(router, http.MethodPost, "/api/requests", `{"receiver_id":"two","skill_id":3}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "must be valid positive numbers")
}

func TestSendRequest_SelfRequest(t *testing.T) {
	db, _ := newMockDB(t)
	router := newMentorshipRouter(db, 1)

	w := doJSON(router, http.MethodPost, "/api/requests", `{"receiver_id":1,"skill_id":3}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cannot send a mentorship request to yourself")
}

func TestSendRequest_DuplicateConflict(t *testing.T) {
	db, mock := newMockDB(t)
	router := newMentorshipRouter(db, 1)

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).
			AddRow(2, "Bob", "bob@example.com"))
	mock.ExpectQuery("SELECT (.+) FROM `skills`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "skill_name", "category"}).
			AddRow(3, "Guitar", "Music"))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `user_skills`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `mentorship_requests`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectRollback()

	w := doJSON(router, http.MethodPost, "/api/requests", `{"receiver_id":2,"skill_id":3}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "you already have a pending request to Bob for Guitar")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendRequest_Created(t *testing.T) {
	db, mock := newMockDB(t)
	router := newMentorshipRouter(db, 1)

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).
			AddRow(2, "Bob", "bob@example.com"))
	mock.ExpectQuery("SELECT (.+) FROM `skills`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "skill_name", "category"}).
			AddRow(3, "Guitar", "Music"))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `user_skills`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `mentorship_requests`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `mentorship_requests`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	w := doJSON(router, http.MethodPost, "/api/requests", `{"receiver_id":2,"skill_id":3,"message":"hi"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Mentorship request sent successfully")
	assert.Contains(t, w.Body.String(), `"status":"pending"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_InvalidRequestID(t *testing.T) {
	db, _ := newMockDB(t)
	router := newMentorshipRouter(db, 2)

	w := doJSON(router, http.MethodPut, "/api/requests/abc/accept", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request ID")
}

func TestTransition_ForbiddenForNonReceiver(t *testing.T) {
	db, mock := newMockDB(t)
	router := newMentorshipRouter(db, 99)

	mock.ExpectQuery("SELECT (.+) FROM `mentorship_requests`").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "sender_id", "receiver_id", "skill_id", "message", "status"}).
			AddRow(5, 1, 2, 3, "hi", "pending"))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(2, "Bob"))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Alice"))
	mock.ExpectQuery("SELECT (.+) FROM `skills`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "skill_name"}).AddRow(3, "Guitar"))

	w := doJSON(router, http.MethodPut, "/api/requests/5/decline", "")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "only the receiver can decline this request")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	router := newMentorshipRouter(db, 2)

	mock.ExpectQuery("SELECT (.+) FROM `mentorship_requests`").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "sender_id", "receiver_id", "skill_id", "message", "status"}))

	w := doJSON(router, http.MethodPut, "/api/requests/404/accept", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Request not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}
