package repository

import (
	"fmt"
	"skillswap_backend/internal/model"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RequestRepository struct {
	DB *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{DB: db}
}

// statusOrderExpr 由模型里的唯一一张优先级表生成排序表达式，避免排序规则漂移
func statusOrderExpr() string {
	var b strings.Builder
	b.WriteString("CASE mentorship_requests.status")
	for _, s := range []model.RequestStatus{
		model.StatusPending,
		model.StatusAccepted,
		model.StatusDeclined,
		model.StatusCompleted,
	} {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", s, s.Priority())
	}
	b.WriteString(" ELSE 5 END, mentorship_requests.created_at DESC")
	return b.String()
}

func (r *RequestRepository) Create(req *model.MentorshipRequest) error {
	return r.DB.Create(req).Error
}

func (r *RequestRepository) Get(id uint) (*model.MentorshipRequest, error) {
	var req model.MentorshipRequest
	err := r.DB.Preload("Sender").Preload("Receiver").Preload("Skill").
		First(&req, id).Error
	return &req, err
}

// GetStatus 只读取当前状态，用于条件更新失败后的错误报告
func (r *RequestRepository) GetStatus(id uint) (model.RequestStatus, error) {
	var req model.MentorshipRequest
	err := r.DB.Select("status").First(&req, id).Error
	return req.Status, err
}

func (r *RequestRepository) ListBySender(userID uint) ([]model.MentorshipRequest, error) {
	var reqs []model.MentorshipRequest
	err := r.DB.Preload("Receiver").Preload("Skill").
		Where("sender_id = ?", userID).
		Order(statusOrderExpr()).
		Find(&reqs).Error
	return reqs, err
}

func (r *RequestRepository) ListByReceiver(userID uint) ([]model.MentorshipRequest, error) {
	var reqs []model.MentorshipRequest
	err := r.DB.Preload("Sender").Preload("Skill").
		Where("receiver_id = ?", userID).
		Order(statusOrderExpr()).
		Find(&reqs).Error
	return reqs, err
}

// CountPendingLocked 事务内带行锁统计同三元组的pending申请
// MySQL 不支持部分唯一索引，靠 idx_request_triple_status 上的
// SELECT ... FOR UPDATE 间隙锁挡住并发重复提交
func (r *RequestRepository) CountPendingLocked(tx *gorm.DB, senderID, receiverID, skillID uint) (int64, error) {
	var count int64
	err := tx.Model(&model.MentorshipRequest{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("sender_id = ? AND receiver_id = ? AND skill_id = ? AND status = ?",
			senderID, receiverID, skillID, model.StatusPending).
		Count(&count).Error
	return count, err
}

// UpdateStatusIf 条件更新：仅当行仍处于 from 状态时生效
// 两个并发转换只有一个能成功，败者拿到 changed=false
func (r *RequestRepository) UpdateStatusIf(id uint, from, to model.RequestStatus, completedAt *time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	if completedAt != nil {
		updates["completed_at"] = *completedAt
	}

	res := r.DB.Model(&model.MentorshipRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

// StatusCounts 按状态统计用户某一方向的申请数量
func (r *RequestRepository) StatusCounts(userID uint, received bool) (map[model.RequestStatus]int64, error) {
	column := "sender_id"
	if received {
		column = "receiver_id"
	}

	type row struct {
		Status model.RequestStatus
		Total  int64
	}
	var rows []row
	err := r.DB.Model(&model.MentorshipRequest{}).
		Select("status, count(*) as total").
		Where(column+" = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.RequestStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}
