package controller

import (
	"errors"
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/service"
	"skillswap_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// MentorshipController 处理师徒申请生命周期的HTTP请求
type MentorshipController struct {
	MentorshipService *service.MentorshipService
}

func NewMentorshipController(mentorshipService *service.MentorshipService) *MentorshipController {
	return &MentorshipController{
		MentorshipService: mentorshipService,
	}
}

// SendRequestRequest 创建申请的请求体
// swagger:model SendRequestRequest
type SendRequestRequest struct {
	ReceiverID int    `json:"receiver_id"`
	SkillID    int    `json:"skill_id"`
	Message    string `json:"message"`
}

// SendRequest godoc
// @Summary 发送师徒申请
// @Description 向提供某项技能的用户发送师徒申请
// @Tags 师徒申请
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SendRequestRequest true "申请信息"
// @Success 201 {object} util.Response "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "接收者或技能不存在"
// @Failure 409 {object} util.Response "已存在待处理申请"
// @Router /api/requests [post]
func (c *MentorshipController) SendRequest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SendRequestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "receiver_id and skill_id must be valid positive numbers")
		return
	}

	if req.ReceiverID == 0 || req.SkillID == 0 {
		util.BadRequest(ctx, "receiver_id and skill_id are required")
		return
	}
	if req.ReceiverID < 0 || req.SkillID < 0 {
		util.BadRequest(ctx, "receiver_id and skill_id must be valid positive numbers")
		return
	}

	created, err := c.MentorshipService.CreateRequest(claims.UserID, uint(req.ReceiverID), uint(req.SkillID), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSelfRequest) || errors.Is(err, util.ErrInvalidInput) || errors.Is(err, util.ErrSkillNotOffered):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, "Receiver user not found")
		case errors.Is(err, util.ErrSkillNotFound):
			util.NotFound(ctx, "Skill not found")
		case errors.Is(err, util.ErrDuplicateRequest):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.CreatedWithMessage(ctx, "Mentorship request sent successfully", gin.H{
		"requestId": created.ID,
		"sender":    gin.H{"id": created.SenderID},
		"receiver":  gin.H{"id": created.ReceiverID, "name": created.Receiver.Name},
		"skill":     gin.H{"id": created.SkillID, "skillName": created.Skill.SkillName},
		"message":   created.Message,
		"status":    created.Status,
		"createdAt": created.CreatedAt,
	})
}

// GetSentRequests godoc
// @Summary 我发出的申请
// @Description 按状态分桶返回当前用户发出的全部申请
// @Tags 师徒申请
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response "成功"
// @Router /api/requests/sent [get]
func (c *MentorshipController) GetSentRequests(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	buckets, summary, err := c.MentorshipService.SentRequests(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"requests": buckets,
		"summary":  summary,
	})
}

// GetReceivedRequests godoc
// @Summary 我收到的申请
// @Description 按状态分桶返回当前用户收到的全部申请
// @Tags 师徒申请
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response "成功"
// @Router /api/requests/received [get]
func (c *MentorshipController) GetReceivedRequests(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	buckets, summary, err := c.MentorshipService.ReceivedRequests(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"requests": buckets,
		"summary":  summary,
	})
}

func (c *MentorshipController) transition(ctx *gin.Context, action model.RequestAction, successMessage string) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	requestID, ok := util.ParseID(ctx.Param("requestId"))
	if !ok {
		util.BadRequest(ctx, "Invalid request ID")
		return
	}

	result, err := c.MentorshipService.Transition(requestID, claims.UserID, action)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrRequestNotFound):
			util.NotFound(ctx, "Request not found")
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx, err.Error())
		case errors.Is(err, util.ErrInvalidTransition) || errors.Is(err, util.ErrInvalidInput):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.SuccessWithMessage(ctx, successMessage, result)
}

// AcceptRequest godoc
// @Summary 接受申请
// @Description 接收者接受一条待处理的师徒申请
// @Tags 师徒申请
// @Produce  json
// @Security ApiKeyAuth
// @Param   requestId path int true "申请ID"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "非法状态转换"
// @Failure 403 {object} util.Response "仅接收者可操作"
// @Failure 404 {object} util.Response "申请不存在"
// @Router /api/requests/{requestId}/accept [put]
func (c *MentorshipController) AcceptRequest(ctx *gin.Context) {
	c.transition(ctx, model.ActionAccept, "Mentorship request accepted successfully")
}

// DeclineRequest godoc
// @Summary 拒绝申请
// @Description 接收者拒绝一条待处理的师徒申请
// @Tags 师徒申请
// @Produce  json
// @Security ApiKeyAuth
// @Param   requestId path int true "申请ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/requests/{requestId}/decline [put]
func (c *MentorshipController) DeclineRequest(ctx *gin.Context) {
	c.transition(ctx, model.ActionDecline, "Mentorship request declined")
}

// CompleteRequest godoc
// @Summary 完成师徒关系
// @Description 双方任一参与者将已接受的申请标记为完成
// @Tags 师徒申请
// @Produce  json
// @Security ApiKeyAuth
// @Param   requestId path int true "申请ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/requests/{requestId}/complete [put]
func (c *MentorshipController) CompleteRequest(ctx *gin.Context) {
	c.transition(ctx, model.ActionComplete, "Mentorship marked as completed successfully")
}
