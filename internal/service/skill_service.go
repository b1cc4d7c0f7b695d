package service

import (
	"errors"
	"fmt"
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/repository"
	"skillswap_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

const (
	defaultSkillLimit = 100
	maxSkillLimit     = 500
	maxSearchLen      = 100
)

type SkillService struct {
	SkillRepo     *repository.SkillRepository
	UserSkillRepo *repository.UserSkillRepository
	UserRepo      *repository.UserRepository
}

func NewSkillService(
	skillRepo *repository.SkillRepository,
	userSkillRepo *repository.UserSkillRepository,
	userRepo *repository.UserRepository,
) *SkillService {
	return &SkillService{
		SkillRepo:     skillRepo,
		UserSkillRepo: userSkillRepo,
		UserRepo:      userRepo,
	}
}

// Pagination 技能目录分页元数据
type Pagination struct {
	Total           int64 `json:"total"`
	Limit           int   `json:"limit"`
	Offset          int   `json:"offset"`
	CurrentPage     int   `json:"currentPage"`
	TotalPages      int   `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// ClampLimit 非法 limit 静默回退默认值并截断到上限
func ClampLimit(limit int) int {
	if limit <= 0 {
		return defaultSkillLimit
	}
	if limit > maxSkillLimit {
		return maxSkillLimit
	}
	return limit
}

// ClampOffset 非法 offset 静默回退 0
func ClampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// ListSkills 分页查询技能目录，按技能名模糊匹配（大小写不敏感）
func (s *SkillService) ListSkills(category, search string, limit, offset int) ([]model.Skill, *Pagination, error) {
	if len(search) > maxSearchLen {
		return nil, nil, fmt.Errorf("search term cannot exceed %d characters: %w", maxSearchLen, util.ErrInvalidInput)
	}

	limit = ClampLimit(limit)
	offset = ClampOffset(offset)

	skills, total, err := s.SkillRepo.List(repository.SkillFilter{
		Category: category,
		Search:   search,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	currentPage := offset/limit + 1

	page := &Pagination{
		Total:           total,
		Limit:           limit,
		Offset:          offset,
		CurrentPage:     currentPage,
		TotalPages:      totalPages,
		HasNextPage:     currentPage < totalPages,
		HasPreviousPage: currentPage > 1,
	}

	return skills, page, nil
}

// UserSkillView 用户技能关联的读侧投影
type UserSkillView struct {
	UserSkillID      uint      `json:"userSkillId"`
	SkillID          uint      `json:"skillId"`
	SkillName        string    `json:"skillName"`
	Category         string    `json:"category"`
	ProficiencyLevel *string   `json:"proficiencyLevel,omitempty"`
	AddedAt          time.Time `json:"addedAt"`
}

// UserSkillBuckets offer/want 两个方向的关联
type UserSkillBuckets struct {
	Offered []UserSkillView `json:"offered"`
	Wanted  []UserSkillView `json:"wanted"`
}

// GetUserSkills 返回用户的 offer/want 技能关联
func (s *SkillService) GetUserSkills(userID uint) (*UserSkillBuckets, error) {
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	list, err := s.UserSkillRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	buckets := &UserSkillBuckets{
		Offered: []UserSkillView{},
		Wanted:  []UserSkillView{},
	}

	for _, us := range list {
		view := UserSkillView{
			UserSkillID: us.ID,
			SkillID:     us.SkillID,
			SkillName:   us.Skill.SkillName,
			Category:    us.Skill.Category,
			AddedAt:     us.CreatedAt,
		}
		if us.Type == model.SkillOffer {
			view.ProficiencyLevel = us.ProficiencyLevel
			buckets.Offered = append(buckets.Offered, view)
		} else {
			buckets.Wanted = append(buckets.Wanted, view)
		}
	}

	return buckets, nil
}

// AddUserSkill 给用户添加技能关联
// 熟练度仅对 offer 合法；(user, skill, type) 三元组不可重复
func (s *SkillService) AddUserSkill(userID, skillID uint, skillType model.UserSkillType, proficiencyLevel *string) (*model.UserSkill, error) {
	if !skillType.Valid() {
		return nil, fmt.Errorf(`type must be either "offer" or "want": %w`, util.ErrInvalidInput)
	}

	if proficiencyLevel != nil {
		if !model.ProficiencyLevels[*proficiencyLevel] {
			return nil, fmt.Errorf("proficiency_level must be one of: beginner, intermediate, advanced: %w", util.ErrInvalidInput)
		}
		if skillType == model.SkillWant {
			return nil, fmt.Errorf(`proficiency_level cannot be set for "want" type skills: %w`, util.ErrInvalidInput)
		}
	}

	skill, err := s.SkillRepo.FindByID(skillID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSkillNotFound
		}
		return nil, err
	}

	exists, err := s.UserSkillRepo.Exists(userID, skillID, skillType)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("you already have this skill as a %q skill: %w", skillType, util.ErrDuplicateUserSkill)
	}

	us := &model.UserSkill{
		UserID:           userID,
		SkillID:          skillID,
		Type:             skillType,
		ProficiencyLevel: proficiencyLevel,
	}
	if err := s.UserSkillRepo.Create(us); err != nil {
		return nil, err
	}

	us.Skill = *skill
	return us, nil
}

// RemovedSkill 删除结果，用于响应文案
type RemovedSkill struct {
	UserSkillID uint
	SkillName   string
	Type        model.UserSkillType
}

// RemoveUserSkill 删除用户技能关联，仅限本人
// 历史申请保留对技能的引用，删除关联不做级联
func (s *SkillService) RemoveUserSkill(userSkillID, callerID uint) (*RemovedSkill, error) {
	us, err := s.UserSkillRepo.FindByID(userSkillID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserSkillNotFound
		}
		return nil, err
	}

	if us.UserID != callerID {
		return nil, fmt.Errorf("you do not have permission to delete this skill: %w", util.ErrPermissionDenied)
	}

	if err := s.UserSkillRepo.Delete(userSkillID); err != nil {
		return nil, err
	}

	return &RemovedSkill{
		UserSkillID: us.ID,
		SkillName:   us.Skill.SkillName,
		Type:        us.Type,
	}, nil
}
