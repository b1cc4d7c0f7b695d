package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"skillswap_backend/internal/model"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// catalogCacheTTL 技能目录只读且极少变更，短TTL缓存即可
const catalogCacheTTL = 10 * time.Minute

type SkillRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewSkillRepository(db *gorm.DB, rdb *redis.Client) *SkillRepository {
	return &SkillRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

func (r *SkillRepository) FindByID(id uint) (*model.Skill, error) {
	var skill model.Skill
	err := r.DB.First(&skill, id).Error
	return &skill, err
}

// SkillFilter 技能目录筛选条件
type SkillFilter struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

type skillPage struct {
	Skills []model.Skill `json:"skills"`
	Total  int64         `json:"total"`
}

// List 分页查询技能目录，命中缓存时不回源数据库
func (r *SkillRepository) List(filter SkillFilter) ([]model.Skill, int64, error) {
	key := fmt.Sprintf("skillswap:catalog:%s:%s:%d:%d",
		filter.Category, filter.Search, filter.Limit, filter.Offset)

	if r.Redis != nil {
		cached, err := r.Redis.Get(r.ctx, key).Result()
		if err == nil {
			var page skillPage
			if json.Unmarshal([]byte(cached), &page) == nil {
				return page.Skills, page.Total, nil
			}
		}
	}

	var skills []model.Skill
	var total int64

	db := r.DB.Model(&model.Skill{})

	if filter.Category != "" {
		db = db.Where("category = ?", filter.Category)
	}

	if filter.Search != "" {
		db = db.Where("skill_name LIKE ?", "%"+filter.Search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("skill_name ASC").
		Limit(filter.Limit).Offset(filter.Offset).
		Find(&skills).Error
	if err != nil {
		return nil, 0, err
	}

	if r.Redis != nil {
		if data, err := json.Marshal(skillPage{Skills: skills, Total: total}); err == nil {
			r.Redis.Set(r.ctx, key, data, catalogCacheTTL)
		}
	}

	return skills, total, nil
}
