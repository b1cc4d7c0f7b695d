package model

import "time"

// RequestStatus 师徒申请状态
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusAccepted  RequestStatus = "accepted"
	StatusDeclined  RequestStatus = "declined"
	StatusCompleted RequestStatus = "completed"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDeclined, StatusCompleted:
		return true
	}
	return false
}

// Terminal 终态不允许任何后续转换
func (s RequestStatus) Terminal() bool {
	return s == StatusDeclined || s == StatusCompleted
}

// Priority 状态展示优先级，分桶响应和仪表盘分组排序共用这一张表
func (s RequestStatus) Priority() int {
	switch s {
	case StatusPending:
		return 1
	case StatusAccepted:
		return 2
	case StatusCompleted:
		return 3
	case StatusDeclined:
		return 4
	}
	return 5
}

// RequestAction 申请生命周期动作
type RequestAction string

const (
	ActionAccept   RequestAction = "accept"
	ActionDecline  RequestAction = "decline"
	ActionComplete RequestAction = "complete"
)

// transition 合法状态转换：新转换只能在这里登记
type transition struct {
	From RequestStatus
	To   RequestStatus
}

var transitions = map[RequestAction]transition{
	ActionAccept:   {From: StatusPending, To: StatusAccepted},
	ActionDecline:  {From: StatusPending, To: StatusDeclined},
	ActionComplete: {From: StatusAccepted, To: StatusCompleted},
}

// TransitionFor 返回动作要求的前置状态和目标状态
func TransitionFor(action RequestAction) (from, to RequestStatus, ok bool) {
	t, ok := transitions[action]
	return t.From, t.To, ok
}

// MentorshipRequest 师徒申请表
// status='pending' 的 (sender, receiver, skill) 三元组同一时刻至多一条，
// 由服务层在事务内基于 idx_request_triple_status 加锁校验
type MentorshipRequest struct {
	BaseModel
	SenderID    uint          `gorm:"not null;index:idx_request_triple_status" json:"senderId"`
	Sender      User          `gorm:"foreignKey:SenderID;references:ID;constraint:false" json:"sender,omitempty"`
	ReceiverID  uint          `gorm:"not null;index:idx_request_triple_status" json:"receiverId"`
	Receiver    User          `gorm:"foreignKey:ReceiverID;references:ID;constraint:false" json:"receiver,omitempty"`
	SkillID     uint          `gorm:"not null;index:idx_request_triple_status" json:"skillId"`
	Skill       Skill         `gorm:"foreignKey:SkillID;references:ID;constraint:false" json:"skill,omitempty"`
	Message     string        `gorm:"size:500" json:"message"`
	Status      RequestStatus `gorm:"type:enum('pending','accepted','declined','completed');default:'pending';index:idx_request_triple_status" json:"status"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
}

func (MentorshipRequest) TableName() string {
	return "mentorship_requests"
}
