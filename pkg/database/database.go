package database

import (
	"fmt"
	"log"
	"skillswap_backend/internal/config"
	"skillswap_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dbCfg := &cfg.Database
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.DBName,
		dbCfg.Charset,
		dbCfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if !shouldMigrate(cfg) {
		return db, nil
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Skill{},
		&model.UserSkill{},
		&model.MentorshipRequest{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedSkills(db)

	return db, nil
}

// shouldMigrate release 模式默认不改库表结构，需要 -migrate 显式开启
func shouldMigrate(cfg *config.Config) bool {
	return cfg.Server.Mode != "release" || cfg.ForceMigrate
}

// seedSkills 技能目录为空时写入默认目录
func seedSkills(db *gorm.DB) {
	var count int64
	db.Model(&model.Skill{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []model.Skill{
		{SkillName: "Python", Category: "Programming", Description: "General purpose programming language"},
		{SkillName: "JavaScript", Category: "Programming", Description: "Language of the web"},
		{SkillName: "Go", Category: "Programming", Description: "Compiled language for backend services"},
		{SkillName: "Rust", Category: "Programming", Description: "Systems programming language"},
		{SkillName: "SQL", Category: "Data", Description: "Relational database querying"},
		{SkillName: "Data Analysis", Category: "Data", Description: "Exploring and interpreting datasets"},
		{SkillName: "UI Design", Category: "Design", Description: "Designing user interfaces"},
		{SkillName: "Photography", Category: "Creative", Description: "Taking and editing photos"},
		{SkillName: "Spanish", Category: "Languages", Description: "Spanish conversation and grammar"},
		{SkillName: "Guitar", Category: "Music", Description: "Acoustic and electric guitar"},
		{SkillName: "Public Speaking", Category: "Soft Skills", Description: "Presenting with confidence"},
		{SkillName: "Cooking", Category: "Lifestyle", Description: "Everyday and gourmet cooking"},
	}

	for i := range defaults {
		db.Create(&defaults[i])
	}

	log.Printf("Seeded %d default skills", len(defaults))
}
