// 手动灌入演示数据脚本
//
// 技能目录在应用启动时自动播种，这个脚本额外创建几个演示用户、
// 他们的技能登记和一组处于各个状态的师徒申请，方便本地联调前端。
//
// 用法: go run scripts/seed_demo.go

package main

import (
	"log"
	"os"
	"skillswap_backend/internal/config"
	"skillswap_backend/internal/model"
	"skillswap_backend/pkg/database"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	// 灌数据前确保表结构就绪
	cfg.ForceMigrate = true
	db, err := database.InitDB(&cfg)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	users := seedUsers(db)
	seedUserSkills(db, users)
	seedRequests(db, users)

	log.Println("演示数据灌入完成")
}

func seedUsers(db *gorm.DB) map[string]*model.User {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("密码哈希失败: %v", err)
	}

	seeds := []*model.User{
		{Name: "Alice Chen", Email: "alice@demo.local", Bio: "Guitar teacher, wants to pick up Spanish", Location: "Shanghai"},
		{Name: "Bob Martinez", Email: "bob@demo.local", Bio: "Native Spanish speaker learning web dev", Location: "Barcelona"},
		{Name: "Carol Huang", Email: "carol@demo.local", Bio: "Full-stack developer, amateur photographer", Location: "Taipei"},
	}

	users := make(map[string]*model.User, len(seeds))
	for _, u := range seeds {
		u.Password = string(hash)
		if err := db.Where("email = ?", u.Email).FirstOrCreate(u).Error; err != nil {
			log.Fatalf("创建用户 %s 失败: %v", u.Email, err)
		}
		users[u.Name] = u
	}
	return users
}

func skillID(db *gorm.DB, name string) uint {
	var skill model.Skill
	if err := db.Where("skill_name = ?", name).First(&skill).Error; err != nil {
		log.Fatalf("技能 %s 不存在，请先启动一次应用完成目录播种: %v", name, err)
	}
	return skill.ID
}

func seedUserSkills(db *gorm.DB, users map[string]*model.User) {
	advanced := "advanced"
	intermediate := "intermediate"

	seeds := []model.UserSkill{
		{UserID: users["Alice Chen"].ID, SkillID: skillID(db, "Guitar"), Type: model.SkillOffer, ProficiencyLevel: &advanced},
		{UserID: users["Alice Chen"].ID, SkillID: skillID(db, "Spanish"), Type: model.SkillWant},
		{UserID: users["Bob Martinez"].ID, SkillID: skillID(db, "Spanish"), Type: model.SkillOffer, ProficiencyLevel: &advanced},
		{UserID: users["Bob Martinez"].ID, SkillID: skillID(db, "JavaScript"), Type: model.SkillWant},
		{UserID: users["Carol Huang"].ID, SkillID: skillID(db, "JavaScript"), Type: model.SkillOffer, ProficiencyLevel: &intermediate},
		{UserID: users["Carol Huang"].ID, SkillID: skillID(db, "Photography"), Type: model.SkillOffer, ProficiencyLevel: &intermediate},
		{UserID: users["Carol Huang"].ID, SkillID: skillID(db, "Guitar"), Type: model.SkillWant},
	}

	for i := range seeds {
		us := &seeds[i]
		err := db.Where("user_id = ? AND skill_id = ? AND type = ?", us.UserID, us.SkillID, us.Type).
			FirstOrCreate(us).Error
		if err != nil {
			log.Fatalf("创建技能关联失败: %v", err)
		}
	}
}

func seedRequests(db *gorm.DB, users map[string]*model.User) {
	seeds := []model.MentorshipRequest{
		{
			SenderID:   users["Alice Chen"].ID,
			ReceiverID: users["Bob Martinez"].ID,
			SkillID:    skillID(db, "Spanish"),
			Message:    "Hola! I can trade guitar lessons for Spanish practice.",
			Status:     model.StatusPending,
		},
		{
			SenderID:   users["Carol Huang"].ID,
			ReceiverID: users["Alice Chen"].ID,
			SkillID:    skillID(db, "Guitar"),
			Message:    "Always wanted to learn fingerstyle.",
			Status:     model.StatusAccepted,
		},
		{
			SenderID:   users["Bob Martinez"].ID,
			ReceiverID: users["Carol Huang"].ID,
			SkillID:    skillID(db, "JavaScript"),
			Message:    "Looking for a mentor to review my first projects.",
			Status:     model.StatusDeclined,
		},
	}

	for i := range seeds {
		req := &seeds[i]
		err := db.Where("sender_id = ? AND receiver_id = ? AND skill_id = ?",
			req.SenderID, req.ReceiverID, req.SkillID).
			FirstOrCreate(req).Error
		if err != nil {
			log.Fatalf("创建师徒申请失败: %v", err)
		}
	}
}
