package model

// UserSkillType 用户与技能的关系类型
type UserSkillType string

const (
	SkillOffer UserSkillType = "offer" // 会教
	SkillWant  UserSkillType = "want"  // 想学
)

func (t UserSkillType) Valid() bool {
	return t == SkillOffer || t == SkillWant
}

// ProficiencyLevels 自报熟练度等级，仅对 offer 类型有意义
var ProficiencyLevels = map[string]bool{
	"beginner":     true,
	"intermediate": true,
	"advanced":     true,
}

// UserSkill 用户-技能关联表
// (user_id, skill_id, type) 三元组唯一：同一技能可以同时 offer 和 want，但同类型不能重复添加
type UserSkill struct {
	BaseModel
	UserID           uint          `gorm:"not null;uniqueIndex:idx_user_skill_type" json:"userId"`
	User             User          `gorm:"foreignKey:UserID;references:ID;constraint:false" json:"user,omitempty"`
	SkillID          uint          `gorm:"not null;uniqueIndex:idx_user_skill_type" json:"skillId"`
	Skill            Skill         `gorm:"foreignKey:SkillID;references:ID;constraint:false" json:"skill,omitempty"`
	Type             UserSkillType `gorm:"type:enum('offer','want');not null;uniqueIndex:idx_user_skill_type" json:"type"`
	ProficiencyLevel *string       `gorm:"type:enum('beginner','intermediate','advanced')" json:"proficiencyLevel,omitempty"`
}

func (UserSkill) TableName() string {
	return "user_skills"
}
