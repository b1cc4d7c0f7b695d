package model

// Skill 技能目录条目，由种子数据/管理员维护，正常运行时不可变
type Skill struct {
	BaseModel
	SkillName   string `gorm:"size:100;not null;index" json:"skillName"`
	Category    string `gorm:"size:100;not null;index" json:"category"`
	Description string `gorm:"size:500" json:"description"`
}

func (Skill) TableName() string {
	return "skills"
}
