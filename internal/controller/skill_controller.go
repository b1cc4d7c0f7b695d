package controller

import (
	"errors"
	"fmt"
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/service"
	"skillswap_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// SkillController 处理技能目录与用户技能关联的HTTP请求
type SkillController struct {
	SkillService *service.SkillService
}

func NewSkillController(skillService *service.SkillService) *SkillController {
	return &SkillController{
		SkillService: skillService,
	}
}

// AddUserSkillRequest 添加用户技能的请求体
// swagger:model AddUserSkillRequest
type AddUserSkillRequest struct {
	SkillID          int     `json:"skill_id"`
	Type             string  `json:"type"`
	ProficiencyLevel *string `json:"proficiency_level"`
}

// GetSkills godoc
// @Summary 技能目录
// @Description 分页浏览技能目录，支持按分类过滤和名称搜索
// @Tags 技能
// @Produce  json
// @Param   category query string false "分类"
// @Param   search query string false "名称关键字"
// @Param   limit query int false "每页条数，默认100，最大500"
// @Param   offset query int false "偏移量"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "搜索词过长"
// @Router /api/skills [get]
func (c *SkillController) GetSkills(ctx *gin.Context) {
	// 非数字的 limit/offset 静默回退默认值
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))

	skills, page, err := c.SkillService.ListSkills(
		ctx.Query("category"),
		ctx.Query("search"),
		limit,
		offset,
	)
	if err != nil {
		if errors.Is(err, util.ErrInvalidInput) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"skills":     skills,
		"pagination": page,
	})
}

// GetUserSkills godoc
// @Summary 用户技能列表
// @Description 返回指定用户提供和想学的技能
// @Tags 技能
// @Produce  json
// @Param   userId path int true "用户ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/skills/user/{userId} [get]
func (c *SkillController) GetUserSkills(ctx *gin.Context) {
	userID, ok := util.ParseID(ctx.Param("userId"))
	if !ok {
		util.BadRequest(ctx, "Invalid user ID")
		return
	}

	buckets, err := c.SkillService.GetUserSkills(userID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "User not found")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"skills": buckets,
		"summary": gin.H{
			"offered": len(buckets.Offered),
			"wanted":  len(buckets.Wanted),
			"total":   len(buckets.Offered) + len(buckets.Wanted),
		},
	})
}

// AddUserSkill godoc
// @Summary 添加用户技能
// @Description 给当前用户添加一条提供或想学的技能关联
// @Tags 技能
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body AddUserSkillRequest true "技能关联"
// @Success 201 {object} util.Response "添加成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "技能不存在"
// @Failure 409 {object} util.Response "关联已存在"
// @Router /api/skills/user [post]
func (c *SkillController) AddUserSkill(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AddUserSkillRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "skill_id must be a valid positive number")
		return
	}
	if req.SkillID == 0 || req.Type == "" {
		util.BadRequest(ctx, "skill_id and type are required")
		return
	}
	if req.SkillID < 0 {
		util.BadRequest(ctx, "skill_id must be a valid positive number")
		return
	}

	us, err := c.SkillService.AddUserSkill(claims.UserID, uint(req.SkillID), model.UserSkillType(req.Type), req.ProficiencyLevel)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidInput):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrSkillNotFound):
			util.NotFound(ctx, "Skill not found")
		case errors.Is(err, util.ErrDuplicateUserSkill):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.CreatedWithMessage(ctx, "Skill added successfully", gin.H{
		"userSkillId":      us.ID,
		"skillId":          us.SkillID,
		"skillName":        us.Skill.SkillName,
		"category":         us.Skill.Category,
		"type":             us.Type,
		"proficiencyLevel": us.ProficiencyLevel,
	})
}

// RemoveUserSkill godoc
// @Summary 删除用户技能
// @Description 删除当前用户的一条技能关联，不影响历史申请
// @Tags 技能
// @Produce  json
// @Security ApiKeyAuth
// @Param   userSkillId path int true "用户技能关联ID"
// @Success 200 {object} util.Response "删除成功"
// @Failure 403 {object} util.Response "仅限本人删除"
// @Failure 404 {object} util.Response "关联不存在"
// @Router /api/skills/user/{userSkillId} [delete]
func (c *SkillController) RemoveUserSkill(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	userSkillID, ok := util.ParseID(ctx.Param("userSkillId"))
	if !ok {
		util.BadRequest(ctx, "Invalid user skill ID")
		return
	}

	removed, err := c.SkillService.RemoveUserSkill(userSkillID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUserSkillNotFound):
			util.NotFound(ctx, "Skill not found")
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	verb := "offering"
	if removed.Type == model.SkillWant {
		verb = "learning"
	}

	util.SuccessWithMessage(ctx, "Skill removed successfully", gin.H{
		"userSkillId": removed.UserSkillID,
		"detail":      fmt.Sprintf("You are no longer %s %s", verb, removed.SkillName),
	})
}
