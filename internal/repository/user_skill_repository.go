package repository

import (
	"skillswap_backend/internal/model"

	"gorm.io/gorm"
)

type UserSkillRepository struct {
	DB *gorm.DB
}

func NewUserSkillRepository(db *gorm.DB) *UserSkillRepository {
	return &UserSkillRepository{DB: db}
}

func (r *UserSkillRepository) Create(us *model.UserSkill) error {
	return r.DB.Create(us).Error
}

func (r *UserSkillRepository) FindByID(id uint) (*model.UserSkill, error) {
	var us model.UserSkill
	err := r.DB.Preload("Skill").First(&us, id).Error
	return &us, err
}

// FindByUserID 返回用户的全部技能关联，offer在前，同类型按技能名排序
func (r *UserSkillRepository) FindByUserID(userID uint) ([]model.UserSkill, error) {
	var list []model.UserSkill
	err := r.DB.Preload("Skill").
		Joins("JOIN skills ON skills.id = user_skills.skill_id").
		Where("user_skills.user_id = ?", userID).
		Order("user_skills.type DESC, skills.skill_name ASC").
		Find(&list).Error
	return list, err
}

// Exists 检查 (user, skill, type) 三元组是否已存在
func (r *UserSkillRepository) Exists(userID, skillID uint, skillType model.UserSkillType) (bool, error) {
	var count int64
	err := r.DB.Model(&model.UserSkill{}).
		Where("user_id = ? AND skill_id = ? AND type = ?", userID, skillID, skillType).
		Count(&count).Error
	return count > 0, err
}

// HasOffer 判断用户是否登记了该技能的 offer 关联
// 申请创建时的前置校验必须读权威存储，这里不走缓存
func (r *UserSkillRepository) HasOffer(userID, skillID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.UserSkill{}).
		Where("user_id = ? AND skill_id = ? AND type = ?", userID, skillID, model.SkillOffer).
		Count(&count).Error
	return count > 0, err
}

// Delete 物理删除关联，释放 (user, skill, type) 唯一索引占位
// 软删除的墓碑会挡住同三元组重新添加（换熟练度就是删掉重加）
func (r *UserSkillRepository) Delete(id uint) error {
	return r.DB.Unscoped().Delete(&model.UserSkill{}, id).Error
}

// CountByType 统计用户某一类型的关联数量
func (r *UserSkillRepository) CountByType(userID uint, skillType model.UserSkillType) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserSkill{}).
		Where("user_id = ? AND type = ?", userID, skillType).
		Count(&count).Error
	return count, err
}
