package service

import (
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/repository"
)

// DashboardService 聚合当前用户的申请与技能统计
type DashboardService struct {
	RequestRepo   *repository.RequestRepository
	UserSkillRepo *repository.UserSkillRepository
}

func NewDashboardService(requestRepo *repository.RequestRepository, userSkillRepo *repository.UserSkillRepository) *DashboardService {
	return &DashboardService{
		RequestRepo:   requestRepo,
		UserSkillRepo: userSkillRepo,
	}
}

// StatusCounts 按展示优先级顺序列出的各状态数量
type StatusCounts struct {
	Pending   int64 `json:"pending"`
	Accepted  int64 `json:"accepted"`
	Completed int64 `json:"completed"`
	Declined  int64 `json:"declined"`
}

// DashboardStats 仪表盘统计
type DashboardStats struct {
	Sent          StatusCounts `json:"sent"`
	Received      StatusCounts `json:"received"`
	SkillsOffered int64        `json:"skillsOffered"`
	SkillsWanted  int64        `json:"skillsWanted"`
}

func (s *DashboardService) GetStats(userID uint) (*DashboardStats, error) {
	stats := &DashboardStats{}

	sent, err := s.RequestRepo.StatusCounts(userID, false)
	if err != nil {
		return nil, err
	}
	stats.Sent = toStatusCounts(sent)

	received, err := s.RequestRepo.StatusCounts(userID, true)
	if err != nil {
		return nil, err
	}
	stats.Received = toStatusCounts(received)

	if stats.SkillsOffered, err = s.UserSkillRepo.CountByType(userID, model.SkillOffer); err != nil {
		return nil, err
	}
	if stats.SkillsWanted, err = s.UserSkillRepo.CountByType(userID, model.SkillWant); err != nil {
		return nil, err
	}

	return stats, nil
}

func toStatusCounts(counts map[model.RequestStatus]int64) StatusCounts {
	return StatusCounts{
		Pending:   counts[model.StatusPending],
		Accepted:  counts[model.StatusAccepted],
		Completed: counts[model.StatusCompleted],
		Declined:  counts[model.StatusDeclined],
	}
}
