package controller

import (
	"errors"
	"fmt"
	"path/filepath"
	"skillswap_backend/internal/service"
	"skillswap_backend/internal/util"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// 头像上传限制
const maxAvatarSize = 5 << 20 // 5MB

var allowedAvatarExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ProfileController 处理用户资料相关的HTTP请求
type ProfileController struct {
	UserService    *service.UserService
	StorageService *service.StorageService
}

func NewProfileController(userService *service.UserService, storageService *service.StorageService) *ProfileController {
	return &ProfileController{
		UserService:    userService,
		StorageService: storageService,
	}
}

// UpdateProfileRequest 资料更新请求体，未提供的字段保持不变
// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Bio      *string `json:"bio"`
	Location *string `json:"location"`
}

// GetProfile godoc
// @Summary 查看用户档案
// @Description 返回指定用户的公开档案及其技能列表
// @Tags 用户资料
// @Produce  json
// @Param   userId path int true "用户ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/profile/{userId} [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	userID, ok := util.ParseID(ctx.Param("userId"))
	if !ok {
		util.BadRequest(ctx, "Invalid user ID")
		return
	}

	profile, err := c.UserService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "User not found")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}

// UpdateProfile godoc
// @Summary 更新个人资料
// @Description 部分更新当前用户的姓名、简介和所在地
// @Tags 用户资料
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body UpdateProfileRequest true "资料字段"
// @Success 200 {object} util.Response "更新成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/profile [put]
func (c *ProfileController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid request body")
		return
	}
	// 字段长度和数据库列宽一致，超限直接 400 而不是等落库报错
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if n := utf8.RuneCountInString(name); n < 2 || n > 100 {
			util.BadRequest(ctx, "name must be between 2 and 100 characters")
			return
		}
		req.Name = &name
	}
	if req.Bio != nil && utf8.RuneCountInString(*req.Bio) > 500 {
		util.BadRequest(ctx, "bio must not exceed 500 characters")
		return
	}
	if req.Location != nil && utf8.RuneCountInString(*req.Location) > 100 {
		util.BadRequest(ctx, "location must not exceed 100 characters")
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, service.ProfileUpdate{
		Name:     req.Name,
		Bio:      req.Bio,
		Location: req.Location,
	})
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "User not found")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.SuccessWithMessage(ctx, "Profile updated successfully", gin.H{
		"id":       user.ID,
		"name":     user.Name,
		"bio":      user.Bio,
		"location": user.Location,
		"avatar":   user.Avatar,
	})
}

// UploadAvatar godoc
// @Summary 上传头像
// @Description 上传当前用户的头像图片（jpg/png/webp，最大5MB）
// @Tags 用户资料
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   avatar formData file true "头像文件"
// @Success 200 {object} util.Response "上传成功"
// @Failure 400 {object} util.Response "文件类型或大小不合法"
// @Router /api/profile/avatar [post]
func (c *ProfileController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("avatar")
	if err != nil {
		util.BadRequest(ctx, "avatar file is required")
		return
	}
	if fileHeader.Size > maxAvatarSize {
		util.BadRequest(ctx, "avatar file must not exceed 5MB")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	contentType, ok := allowedAvatarExts[ext]
	if !ok {
		util.BadRequest(ctx, "avatar must be a jpg, png or webp image")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("avatars/%d_%s%s", claims.UserID, uuid.New().String(), ext)
	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, file, fileHeader.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if err := c.UserService.UpdateAvatar(claims.UserID, url); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.SuccessWithMessage(ctx, "Avatar uploaded successfully", gin.H{"avatar": url})
}
