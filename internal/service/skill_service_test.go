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
	"gorm.io/gorm"
)

func newSkillService(db *gorm.DB) *SkillService {
	return NewSkillService(
		repository.NewSkillRepository(db, nil),
		repository.NewUserSkillRepository(db),
		repository.NewUserRepository(db),
	)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, defaultSkillLimit, ClampLimit(0))
	assert.Equal(t, defaultSkillLimit, ClampLimit(-5))
	assert.Equal(t, 50, ClampLimit(50))
	assert.Equal(t, maxSkillLimit, ClampLimit(maxSkillLimit+1))
}

func TestClampOffset(t *testing.T) {
	assert.Equal(t, 0, ClampOffset(-10))
	assert.Equal(t, 0, ClampOffset(0))
	assert.Equal(t, 30, ClampOffset(30))
}

func TestListSkills_SearchTooLong(t *testing.T) {
	db, mock := newMockDB(t)
	s := newSkillService(db)

	_, _, err := s.ListSkills("", strings.Repeat("x", maxSearchLen+1), 10, 0)

	assert.ErrorIs(t, err, util.ErrInvalidInput)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSkills_PaginationMetadata(t *testing.T) {
	db, mock := newMockDB(t)
	s := newSkillService(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `skills`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(25))
	mock.ExpectQuery("SELECT (.+) FROM `skills`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "skill_name", "category"}).
			AddRow(11, "Guitar", "Music").
			AddRow(12, "Piano", "Music"))

	skills, page, err := s.ListSkills("Music", "", 10, 10)

	require.NoError(t, err)
	assert.Len(t, skills, 2)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNextPage)
	assert.True(t, page.HasPreviousPage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddUserSkill_InvalidType(t *testing.T) {
	db, mock := newMockDB(t)
	s := newSkillService(db)

	_, err := s.AddUserSkill(1, 3, model.UserSkillType("teach"), nil)

	assert.ErrorIs(t, err, util.ErrInvalidInput)
	assert.Contains(t, err.Error(), `type must be either "offer" or "want"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddUserSkill_InvalidProficiency(t *testing.T) {
	db, mock := newMockDB(t)
	s := newSkillService(db)

	level := "expert"
	_, err := s.AddUserSkill(1, 3, model.SkillOffer, &level)

	assert.ErrorIs(t, err, util.ErrInvalidInput)
	assert.Contains(t, err.Error(), "proficiency_level must be one of")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// want 类型的关联不携带熟练度
func TestAddUserSkill_ProficiencyOnWant(t *testing.T) {
	db, mock := newMockDB(t)
	s := newSkillService(db)

	level := "beginner"
	_, err := s.AddUserSkill(1, 3, model.SkillWant, &level)

	assert.ErrorIs(t, err, util.ErrInvalidInput)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddUserSkill_DuplicateTriple(t *testing.T) {
	db, mock := newMockDB(t)
	s := newSkillService(db)

	mock.ExpectQuery("SELECT (.+) FROM `skills`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "skill_name", "category"}).
			AddRow(3, "Guitar", "Music"))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `user_skills`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	_, err := s.AddUserSkill(1, 3, model.SkillOffer, nil)

	assert.ErrorIs(t, err, util.ErrDuplicateUserSkill)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddUserSkill_Success(t *testing.T) {
	db, mock := newMockDB(t)
	s := newSkillService(db)

	mock.ExpectQuery("SELECT (.+) FROM `skills`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "skill_name", "category"}).
			AddRow(3, "Guitar", "Music"))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `user_skills`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `user_skills`").
		WillReturnResult(sqlmock.NewResult(9, 1))

	level := "advanced"
	us, err := s.AddUserSkill(1, 3, model.SkillOffer, &level)

	require.NoError(t, err)
	assert.Equal(t, "Guitar", us.Skill.SkillName)
	assert.Equal(t, model.SkillOffer, us.Type)
	require.NotNil(t, us.ProficiencyLevel)
	assert.Equal(t, "advanced", *us.ProficiencyLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveUserSkill_NotOwner(t *testing.T) {
	db, mock := newMockDB(t)
	s := newSkillService(db)

	mock.ExpectQuery("SELECT (.+) FROM `user_skills`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "skill_id", "type"}).
			AddRow(9, 1, 3, "offer"))
	mock.ExpectQuery("SELECT (.+) FROM `skills`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "skill_name", "category"}).
			AddRow(3, "Guitar", "Music"))

	_, err := s.RemoveUserSkill(9, 2)

	assert.ErrorIs(t, err, util.ErrPermissionDenied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveUserSkill_Success(t *testing.T) {
	db, mock := newMockDB(t)
	s := newSkillService(db)

	mock.ExpectQuery("SELECT (.+) FROM `user_skills`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "skill_id", "type"}).
			AddRow(9, 1, 3, "want"))
	mock.ExpectQuery("SELECT (.+) FROM `skills`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "skill_name", "category"}).
			AddRow(3, "Guitar", "Music"))
	mock.ExpectExec("DELETE FROM `user_skills`").
		WillReturnResult(sqlmock.NewResult(0, 1))

	removed, err := s.RemoveUserSkill(9, 1)

	require.NoError(t, err)
	assert.Equal(t, uint(9), removed.UserSkillID)
	assert.Equal(t, "Guitar", removed.SkillName)
	assert.Equal(t, model.SkillWant, removed.Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 删除后同一 (user, skill, type) 三元组必须能重新添加：
// 删除是物理删除，不能留下占住唯一索引的残留行。
func TestRemoveUserSkill_ThenReAddSameTriple(t *testing.T) {
	db, mock := newMockDB(t)
	s := newSkillService(db)

	mock.ExpectQuery("SELECT (.+) FROM `user_skills`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "skill_id", "type"}).
			AddRow(9, 1, 3, "offer"))
	mock.ExpectQuery("SELECT (.+) FROM `skills`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "skill_name", "category"}).
			AddRow(3, "Guitar", "Music"))
	mock.ExpectExec("DELETE FROM `user_skills`").
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := s.RemoveUserSkill(9, 1)
	require.NoError(t, err)

	// 行已删除，重复检查数到 0，插入不会撞唯一索引
	mock.ExpectQuery("SELECT (.+) FROM `skills`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "skill_name", "category"}).
			AddRow(3, "Guitar", "Music"))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `user_skills`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `user_skills`").
		WillReturnResult(sqlmock.NewResult(10, 1))

	level := "intermediate"
	us, err := s.AddUserSkill(1, 3, model.SkillOffer, &level)

	require.NoError(t, err)
	assert.Equal(t, model.SkillOffer, us.Type)
	require.NotNil(t, us.ProficiencyLevel)
	assert.Equal(t, "intermediate", *us.ProficiencyLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}
