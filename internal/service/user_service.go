package service

import (
	"errors"
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/repository"
	"skillswap_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

// UserService 处理用户资料相关的业务逻辑
type UserService struct {
	UserRepo     *repository.UserRepository
	SkillService *SkillService
}

func NewUserService(userRepo *repository.UserRepository, skillService *SkillService) *UserService {
	return &UserService{
		UserRepo:     userRepo,
		SkillService: skillService,
	}
}

// Profile 公开资料投影：用户信息加上 offer/want 技能
type Profile struct {
	ID        uint              `json:"id"`
	Email     string            `json:"email"`
	Name      string            `json:"name"`
	Bio       string            `json:"bio"`
	Location  string            `json:"location"`
	Avatar    string            `json:"avatar,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Skills    *UserSkillBuckets `json:"skills"`
}

func (s *UserService) GetProfile(userID uint) (*Profile, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	skills, err := s.SkillService.GetUserSkills(userID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Bio:       user.Bio,
		Location:  user.Location,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
		Skills:    skills,
	}, nil
}

// ProfileUpdate 可选字段的部分更新
type ProfileUpdate struct {
	Name     *string
	Bio      *string
	Location *string
}

func (s *UserService) UpdateProfile(userID uint, update ProfileUpdate) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.Location != nil {
		user.Location = *update.Location
	}
	user.UpdatedAt = time.Now()

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateAvatar(userID uint, url string) error {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}

	user.Avatar = url
	user.UpdatedAt = time.Now()
	return s.UserRepo.Update(user)
}
