package service

import (
	"strings"
	"testing"

	"skillswap_backend/internal/model"
	"skillswap_backend/internal/repository"
	"skillswap_backend/internal/util"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func newMentorshipService(db *gorm.DB) *MentorshipService {
	return NewMentorshipService(
		repository.NewRequestRepository(db),
		repository.NewUserRepository(db),
		repository.NewSkillRepository(db, nil),
		repository.NewUserSkillRepository(db),
	)
}

func expectReceiverAndSkill(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).
			AddRow(2, "Bob", "bob@example.com"))
	mock.ExpectQuery("SELECT (.+) FROM `skills`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "skill_name", "category"}).
			AddRow(3, "Guitar", "Music"))
}

func TestCreateRequest_SelfRequest(t *testing.T) {
	db, mock := newMockDB(t)
	s := newMentorshipService(db)

	_, err := s.CreateRequest(1, 1, 3, "")

	assert.ErrorIs(t, err, util.ErrSelfRequest)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRequest_MessageTooLong(t *testing.T) {
	db, mock := newMockDB(t)
	s := newMentorshipService(db)

	_, err := s.CreateRequest(1, 2, 3, strings.Repeat("a", MaxRequestMessageLen+1))

	assert.ErrorIs(t, err, util.ErrInvalidInput)
	assert.Contains(t, err.Error(), "message cannot exceed 500 characters")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRequest_ReceiverNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := newMentorshipService(db)

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}))

	_, err := s.CreateRequest(1, 2, 3, "hi")

	assert.ErrorIs(t, err, util.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRequest_SkillNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := newMentorshipService(db)

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).
			AddRow(2, "Bob", "bob@example.com"))
	mock.ExpectQuery("SELECT (.+) FROM `skills`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "skill_name", "category"}))

	_, err := s.CreateRequest(1, 2, 3, "hi")

	assert.ErrorIs(t, err, util.ErrSkillNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 接收者没有登记该技能的offer时必须拒绝创建
func TestCreateRequest_SkillNotOffered(t *testing.T) {
	db, mock := newMockDB(t)
	s := newMentorshipService(db)

	expectReceiverAndSkill(mock)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `user_skills`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

	_, err := s.CreateRequest(1, 2, 3, "hi")

	assert.ErrorIs(t, err, util.ErrSkillNotOffered)
	assert.Contains(t, err.Error(), "Bob does not offer Guitar")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 同一 (sender, receiver, skill) 三元组已有pending申请时返回冲突
func TestCreateRequest_DuplicatePending(t *testing.T) {
	db, mock := newMockDB(t)
	s := newMentorshipService(db)

	expectReceiverAndSkill(mock)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `user_skills`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `mentorship_requests`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectRollback()

	_, err := s.CreateRequest(1, 2, 3, "hi")

	assert.ErrorIs(t, err, util.ErrDuplicateRequest)
	assert.Contains(t, err.Error(), "you already have a pending request to Bob for Guitar")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRequest_Success(t *testing.T) {
	db, mock := newMockDB(t)
	s := newMentorshipService(db)

	expectReceiverAndSkill(mock)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `user_skills`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `mentorship_requests`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `mentorship_requests`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	req, err := s.CreateRequest(1, 2, 3, "I would love to learn from you")

	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, req.Status)
	assert.Equal(t, uint(1), req.SenderID)
	assert.Equal(t, "Bob", req.Receiver.Name)
	assert.Equal(t, "Guitar", req.Skill.SkillName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Get 的预加载按关联名字母序执行：Receiver → Sender → Skill
func expectRequestWithStatus(mock sqlmock.Sqlmock, status model.RequestStatus) {
	mock.ExpectQuery("SELECT (.+) FROM `mentorship_requests`").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "sender_id", "receiver_id", "skill_id", "message", "status"}).
			AddRow(5, 1, 2, 3, "hi", string(status)))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).
			AddRow(2, "Bob", "bob@example.com"))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).
			AddRow(1, "Alice", "alice@example.com"))
	mock.ExpectQuery("SELECT (.+) FROM `skills`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "skill_name", "category"}).
			AddRow(3, "Guitar", "Music"))
}

func TestTransition_AcceptSuccess(t *testing.T) {
	db, mock := newMockDB(t)
	s := newMentorshipService(db)

	expectRequestWithStatus(mock, model.StatusPending)
	mock.ExpectExec("UPDATE `mentorship_requests` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	result, err := s.Transition(5, 2, model.ActionAccept)

	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, result.Status)
	assert.Nil(t, result.CompletedAt)
	assert.Equal(t, "You accepted Alice's request to learn Guitar", result.Confirmation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_CompleteSetsCompletedAt(t *testing.T) {
	db, mock := newMockDB(t)
	s := newMentorshipService(db)

	expectRequestWithStatus(mock, model.StatusAccepted)
	mock.ExpectExec("UPDATE `mentorship_requests` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	// 发起者也可以标记完成
	result, err := s.Transition(5, 1, model.ActionComplete)

	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, result.Status)
	assert.NotNil(t, result.CompletedAt)
	assert.Equal(t, "Mentorship session for Guitar marked as completed", result.Confirmation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_AcceptNotReceiver(t *testing.T) {
	db, mock := newMockDB(t)
	s := newMentorshipService(db)

	expectRequestWithStatus(mock, model.StatusPending)

	_, err := s.Transition(5, 1, model.ActionAccept)

	assert.ErrorIs(t, err, util.ErrPermissionDenied)
	assert.Contains(t, err.Error(), "only the receiver can accept this request")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_CompleteByOutsider(t *testing.T) {
	db, mock := newMockDB(t)
	s := newMentorshipService(db)

	expectRequestWithStatus(mock, model.StatusAccepted)

	_, err := s.Transition(5, 99, model.ActionComplete)

	assert.ErrorIs(t, err, util.ErrPermissionDenied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_AcceptDeclinedRequest(t *testing.T) {
	db, mock := newMockDB(t)
	s := newMentorshipService(db)

	expectRequestWithStatus(mock, model.StatusDeclined)

	_, err := s.Transition(5, 2, model.ActionAccept)

	assert.ErrorIs(t, err, util.ErrInvalidTransition)
	assert.Contains(t, err.Error(), "cannot accept a declined request, only pending requests can be accepted")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 条件更新没有命中任何行：另一个并发转换已经抢先生效
func TestTransition_LostRace(t *testing.T) {
	db, mock := newMockDB(t)
	s := newMentorshipService(db)

	expectRequestWithStatus(mock, model.StatusPending)
	mock.ExpectExec("UPDATE `mentorship_requests` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT `status` FROM `mentorship_requests`").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("declined"))

	_, err := s.Transition(5, 2, model.ActionAccept)

	assert.ErrorIs(t, err, util.ErrInvalidTransition)
	assert.Contains(t, err.Error(), "cannot accept a declined request")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_UnknownAction(t *testing.T) {
	db, mock := newMockDB(t)
	s := newMentorshipService(db)

	_, err := s.Transition(5, 2, model.RequestAction("cancel"))

	assert.ErrorIs(t, err, util.ErrInvalidInput)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransition_RequestNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := newMentorshipService(db)

	mock.ExpectQuery("SELECT (.+) FROM `mentorship_requests`").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "sender_id", "receiver_id", "skill_id", "message", "status"}))

	_, err := s.Transition(404, 2, model.ActionAccept)

	assert.ErrorIs(t, err, util.ErrRequestNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBucketize(t *testing.T) {
	reqs := []model.MentorshipRequest{
		{BaseModel: model.BaseModel{ID: 1}, SenderID: 1, ReceiverID: 2, SkillID: 3, Status: model.StatusPending, Sender: model.User{BaseModel: model.BaseModel{ID: 1}, Name: "Alice"}},
		{BaseModel: model.BaseModel{ID: 2}, SenderID: 4, ReceiverID: 2, SkillID: 3, Status: model.StatusAccepted, Sender: model.User{BaseModel: model.BaseModel{ID: 4}, Name: "Carol"}},
		{BaseModel: model.BaseModel{ID: 3}, SenderID: 5, ReceiverID: 2, SkillID: 3, Status: model.StatusDeclined},
		{BaseModel: model.BaseModel{ID: 4}, SenderID: 6, ReceiverID: 2, SkillID: 3, Status: model.StatusCompleted},
	}

	buckets, summary, err := bucketize(reqs, true)

	require.NoError(t, err)
	assert.Len(t, buckets.Pending, 1)
	assert.Len(t, buckets.Accepted, 1)
	assert.Len(t, buckets.Declined, 1)
	assert.Len(t, buckets.Completed, 1)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 1, summary.Pending)

	// received视角只暴露发送者
	assert.NotNil(t, buckets.Pending[0].Sender)
	assert.Nil(t, buckets.Pending[0].Receiver)
	assert.Equal(t, "Alice", buckets.Pending[0].Sender.Name)
}

func TestBucketize_SentViewExposesReceiver(t *testing.T) {
	reqs := []model.MentorshipRequest{
		{BaseModel: model.BaseModel{ID: 1}, SenderID: 1, ReceiverID: 2, SkillID: 3, Status: model.StatusPending, Receiver: model.User{BaseModel: model.BaseModel{ID: 2}, Name: "Bob"}},
	}

	buckets, _, err := bucketize(reqs, false)

	require.NoError(t, err)
	require.Len(t, buckets.Pending, 1)
	assert.Nil(t, buckets.Pending[0].Sender)
	require.NotNil(t, buckets.Pending[0].Receiver)
	assert.Equal(t, "Bob", buckets.Pending[0].Receiver.Name)
}
