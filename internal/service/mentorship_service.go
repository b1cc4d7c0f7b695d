package service

import (
	"errors"
	"fmt"
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/repository"
	"skillswap_backend/internal/util"
	"skillswap_backend/pkg/monitoring"
	"time"

	"gorm.io/gorm"
)

// MaxRequestMessageLen 申请附言长度上限
const MaxRequestMessageLen = 500

type MentorshipService struct {
	RequestRepo   *repository.RequestRepository
	UserRepo      *repository.UserRepository
	SkillRepo     *repository.SkillRepository
	UserSkillRepo *repository.UserSkillRepository
}

func NewMentorshipService(
	requestRepo *repository.RequestRepository,
	userRepo *repository.UserRepository,
	skillRepo *repository.SkillRepository,
	userSkillRepo *repository.UserSkillRepository,
) *MentorshipService {
	return &MentorshipService{
		RequestRepo:   requestRepo,
		UserRepo:      userRepo,
		SkillRepo:     skillRepo,
		UserSkillRepo: userSkillRepo,
	}
}

// UserBrief 响应中的反规范化用户展示数据
type UserBrief struct {
	ID    uint   `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// SkillBrief 响应中的反规范化技能展示数据
type SkillBrief struct {
	ID        uint   `json:"id"`
	SkillName string `json:"skillName"`
	Category  string `json:"category,omitempty"`
}

// RequestView 单条申请的读侧投影
type RequestView struct {
	RequestID   uint                `json:"requestId"`
	Sender      *UserBrief          `json:"sender,omitempty"`
	Receiver    *UserBrief          `json:"receiver,omitempty"`
	Skill       SkillBrief          `json:"skill"`
	Message     string              `json:"message"`
	Status      model.RequestStatus `json:"status"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
	CompletedAt *time.Time          `json:"completedAt,omitempty"`
}

// RequestBuckets 按精确状态分桶的申请列表
type RequestBuckets struct {
	Pending   []RequestView `json:"pending"`
	Accepted  []RequestView `json:"accepted"`
	Declined  []RequestView `json:"declined"`
	Completed []RequestView `json:"completed"`
}

// RequestSummary 各桶数量汇总
type RequestSummary struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Accepted  int `json:"accepted"`
	Declined  int `json:"declined"`
	Completed int `json:"completed"`
}

// TransitionResult 状态转换结果
type TransitionResult struct {
	RequestID    uint                `json:"requestId"`
	Status       model.RequestStatus `json:"status"`
	UpdatedAt    time.Time           `json:"updatedAt"`
	CompletedAt  *time.Time          `json:"completedAt,omitempty"`
	Confirmation string              `json:"message"`
}

// CreateRequest 创建师徒申请
// 校验顺序固定：自发校验 → 附言长度 → 接收者存在 → 技能存在 → 接收者确实提供该技能 → 重复pending守卫
func (s *MentorshipService) CreateRequest(senderID, receiverID, skillID uint, message string) (*model.MentorshipRequest, error) {
	if senderID == receiverID {
		return nil, util.ErrSelfRequest
	}

	if len(message) > MaxRequestMessageLen {
		return nil, fmt.Errorf("message cannot exceed %d characters: %w", MaxRequestMessageLen, util.ErrInvalidInput)
	}

	receiver, err := s.UserRepo.FindByID(receiverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("receiver: %w", util.ErrUserNotFound)
		}
		return nil, err
	}

	skill, err := s.SkillRepo.FindByID(skillID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSkillNotFound
		}
		return nil, err
	}

	offers, err := s.UserSkillRepo.HasOffer(receiverID, skillID)
	if err != nil {
		return nil, err
	}
	if !offers {
		return nil, fmt.Errorf("%s does not offer %s: %w", receiver.Name, skill.SkillName, util.ErrSkillNotOffered)
	}

	req := &model.MentorshipRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		SkillID:    skillID,
		Message:    message,
		Status:     model.StatusPending,
	}

	// 重复检查和插入必须同一事务：FOR UPDATE 锁住索引区间，
	// 两个并发提交只有先到的能插入
	err = s.RequestRepo.DB.Transaction(func(tx *gorm.DB) error {
		count, err := s.RequestRepo.CountPendingLocked(tx, senderID, receiverID, skillID)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("you already have a pending request to %s for %s: %w",
				receiver.Name, skill.SkillName, util.ErrDuplicateRequest)
		}
		return tx.Create(req).Error
	})
	if err != nil {
		return nil, err
	}

	req.Receiver = *receiver
	req.Skill = *skill
	return req, nil
}

// pastTense 转换动作的完成时态，用于错误文案
func pastTense(action model.RequestAction) string {
	switch action {
	case model.ActionAccept:
		return "accepted"
	case model.ActionDecline:
		return "declined"
	case model.ActionComplete:
		return "completed"
	}
	return string(action)
}

// Transition 执行一次生命周期状态转换
// 更新以期望的前置状态为条件，两个并发转换只有一个生效
func (s *MentorshipService) Transition(requestID, callerID uint, action model.RequestAction) (*TransitionResult, error) {
	from, to, ok := model.TransitionFor(action)
	if !ok {
		return nil, fmt.Errorf("unknown action %q: %w", action, util.ErrInvalidInput)
	}

	req, err := s.RequestRepo.Get(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrRequestNotFound
		}
		return nil, err
	}

	// 角色授权：接受/拒绝限接收者本人，完成则双方皆可
	switch action {
	case model.ActionAccept, model.ActionDecline:
		if req.ReceiverID != callerID {
			return nil, fmt.Errorf("only the receiver can %s this request: %w", action, util.ErrPermissionDenied)
		}
	case model.ActionComplete:
		if req.SenderID != callerID && req.ReceiverID != callerID {
			return nil, fmt.Errorf("only participants can mark this mentorship as completed: %w", util.ErrPermissionDenied)
		}
	}

	if req.Status != from {
		monitoring.RequestTransitions.WithLabelValues(string(action), "illegal").Inc()
		return nil, transitionError(action, req.Status, from)
	}

	var completedAt *time.Time
	if action == model.ActionComplete {
		now := time.Now()
		completedAt = &now
	}

	changed, err := s.RequestRepo.UpdateStatusIf(requestID, from, to, completedAt)
	if err != nil {
		return nil, err
	}
	if !changed {
		// 并发转换竞争失败：重读当前状态报告给调用方
		current, err := s.RequestRepo.GetStatus(requestID)
		if err != nil {
			return nil, err
		}
		monitoring.RequestTransitions.WithLabelValues(string(action), "conflict").Inc()
		return nil, transitionError(action, current, from)
	}

	monitoring.RequestTransitions.WithLabelValues(string(action), "ok").Inc()

	result := &TransitionResult{
		RequestID:   requestID,
		Status:      to,
		UpdatedAt:   time.Now(),
		CompletedAt: completedAt,
	}

	switch action {
	case model.ActionAccept:
		result.Confirmation = fmt.Sprintf("You accepted %s's request to learn %s", req.Sender.Name, req.Skill.SkillName)
	case model.ActionDecline:
		result.Confirmation = fmt.Sprintf("You declined %s's request to learn %s", req.Sender.Name, req.Skill.SkillName)
	case model.ActionComplete:
		result.Confirmation = fmt.Sprintf("Mentorship session for %s marked as completed", req.Skill.SkillName)
	}

	return result, nil
}

func transitionError(action model.RequestAction, current, required model.RequestStatus) error {
	return fmt.Errorf("cannot %s a %s request, only %s requests can be %s: %w",
		action, current, required, pastTense(action), util.ErrInvalidTransition)
}

// SentRequests 当前用户发出的申请，按状态分桶
func (s *MentorshipService) SentRequests(userID uint) (*RequestBuckets, *RequestSummary, error) {
	reqs, err := s.RequestRepo.ListBySender(userID)
	if err != nil {
		return nil, nil, err
	}
	return bucketize(reqs, false)
}

// ReceivedRequests 当前用户收到的申请，按状态分桶
func (s *MentorshipService) ReceivedRequests(userID uint) (*RequestBuckets, *RequestSummary, error) {
	reqs, err := s.RequestRepo.ListByReceiver(userID)
	if err != nil {
		return nil, nil, err
	}
	return bucketize(reqs, true)
}

// bucketize 按精确状态分桶；仓储层已按展示优先级+创建时间排好序
func bucketize(reqs []model.MentorshipRequest, received bool) (*RequestBuckets, *RequestSummary, error) {
	buckets := &RequestBuckets{
		Pending:   []RequestView{},
		Accepted:  []RequestView{},
		Declined:  []RequestView{},
		Completed: []RequestView{},
	}

	for _, req := range reqs {
		view := RequestView{
			RequestID: req.ID,
			Skill: SkillBrief{
				ID:        req.SkillID,
				SkillName: req.Skill.SkillName,
				Category:  req.Skill.Category,
			},
			Message:     req.Message,
			Status:      req.Status,
			CreatedAt:   req.CreatedAt,
			UpdatedAt:   req.UpdatedAt,
			CompletedAt: req.CompletedAt,
		}

		if received {
			view.Sender = &UserBrief{ID: req.SenderID, Name: req.Sender.Name, Email: req.Sender.Email}
		} else {
			view.Receiver = &UserBrief{ID: req.ReceiverID, Name: req.Receiver.Name, Email: req.Receiver.Email}
		}

		switch req.Status {
		case model.StatusPending:
			buckets.Pending = append(buckets.Pending, view)
		case model.StatusAccepted:
			buckets.Accepted = append(buckets.Accepted, view)
		case model.StatusDeclined:
			buckets.Declined = append(buckets.Declined, view)
		case model.StatusCompleted:
			buckets.Completed = append(buckets.Completed, view)
		}
	}

	summary := &RequestSummary{
		Total:     len(reqs),
		Pending:   len(buckets.Pending),
		Accepted:  len(buckets.Accepted),
		Declined:  len(buckets.Declined),
		Completed: len(buckets.Completed),
	}

	return buckets, summary, nil
}
