package controller

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"skillswap_backend/internal/config"
	"skillswap_backend/internal/repository"
	"skillswap_backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newAuthRouter(db *gorm.DB) *gin.Engine {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = 24 * time.Hour

	userRepo := repository.NewUserRepository(db)
	authSvc := service.NewAuthService(userRepo, cfg)
	skillSvc := service.NewSkillService(
		repository.NewSkillRepository(db, nil),
		repository.NewUserSkillRepository(db),
		userRepo,
	)
	userSvc := service.NewUserService(userRepo, skillSvc)
	c := NewAuthController(authSvc, userSvc)

	router := gin.New()
	router.POST("/api/auth/register", c.Register)
	return router
}

// 校验失败的请求不应触达数据库，mock 不设任何期望
func TestRegister_NameTooShort(t *testing.T) {
	db, mock := newMockDB(t)
	router := newAuthRouter(db)

	w := doJSON(router, http.MethodPost, "/api/auth/register",
		`{"name":"A","email":"a@example.com","password":"secret123"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "name must be between 2 and 100 characters")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_NameTooLong(t *testing.T) {
	db, mock := newMockDB(t)
	router := newAuthRouter(db)

	name := strings.Repeat("x", 101)
	w := doJSON(router, http.MethodPost, "/api/auth/register",
		`{"name":"`+name+`","email":"a@example.com","password":"secret123"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "name must be between 2 and 100 characters")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_EmailTooLong(t *testing.T) {
	db, mock := newMockDB(t)
	router := newAuthRouter(db)

	email := strings.Repeat("x", 250) + "@example.com"
	w := doJSON(router, http.MethodPost, "/api/auth/register",
		`{"name":"Alice","email":"`+email+`","password":"secret123"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email must not exceed 255 characters")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_PasswordTooLong(t *testing.T) {
	db, mock := newMockDB(t)
	router := newAuthRouter(db)

	password := strings.Repeat("p", 101)
	w := doJSON(router, http.MethodPost, "/api/auth/register",
		`{"name":"Alice","email":"a@example.com","password":"`+password+`"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "password must be between 6 and 100 characters")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_PasswordTooShort(t *testing.T) {
	db, mock := newMockDB(t)
	router := newAuthRouter(db)

	w := doJSON(router, http.MethodPost, "/api/auth/register",
		`{"name":"Alice","email":"a@example.com","password":"12345"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
