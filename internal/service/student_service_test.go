package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/college-adp-api/internal/models"
	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
)

type mockAccountRepo struct {
	users       map[string]*models.User
	createErr   error
	passwordSet map[string]string
	deleted     []string
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{users: map[string]*models.User{}, passwordSet: map[string]string{}}
}

func (m *mockAccountRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAccountRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAccountRepo) Create(ctx context.Context, exec sqlx.ExtContext, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "user-new"
	m.users[user.ID] = user
	return nil
}

func (m *mockAccountRepo) Update(ctx context.Context, exec sqlx.ExtContext, user *models.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockAccountRepo) UpdatePassword(ctx context.Context, exec sqlx.ExtContext, id, passwordHash string) error {
	m.passwordSet[id] = passwordHash
	return nil
}

func (m *mockAccountRepo) Delete(ctx context.Context, exec sqlx.ExtContext, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.users, id)
	return nil
}

type mockStudentRepo struct {
	students   map[string]models.StudentDetail
	lastFilter models.ListFilter
	listTotal  int
	err        error
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.ListFilter) ([]models.StudentDetail, int, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, 0, m.err
	}
	out := make([]models.StudentDetail, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, s)
	}
	return out, m.listTotal, nil
}

func (m *mockStudentRepo) ListByCourse(ctx context.Context, courseID string) ([]models.StudentDetail, error) {
	var out []models.StudentDetail
	for _, s := range m.students {
		if s.CourseID != nil && *s.CourseID == courseID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	if s, ok := m.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) FindByUserID(ctx context.Context, userID string) (*models.StudentDetail, error) {
	for _, s := range m.students {
		if s.UserID == userID {
			return &s, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) Create(ctx context.Context, exec sqlx.ExtContext, student *models.Student) error {
	if m.err != nil {
		return m.err
	}
	student.ID = "student-new"
	if m.students == nil {
		m.students = map[string]models.StudentDetail{}
	}
	m.students[student.ID] = models.StudentDetail{Student: *student}
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, exec sqlx.ExtContext, student *models.Student) error {
	detail := m.students[student.ID]
	detail.Student = *student
	m.students[student.ID] = detail
	return nil
}

func ptrString(s string) *string { return &s }

func newStudentRequest(email string) StudentRequest {
	return StudentRequest{
		AccountRequest: AccountRequest{Email: email, Password: "password123", FullName: " Asha Rao ", Gender: "F"},
		CourseID:       ptrString("course-1"),
		SessionID:      ptrString(""),
	}
}

func TestStudentServiceCreate(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	users := newMockAccountRepo()
	repo := &mockStudentRepo{}
	svc := NewStudentService(users, repo, tx, validator.New(), zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectCommit()

	detail, err := svc.Create(context.Background(), newStudentRequest("Asha@College.edu"))
	require.NoError(t, err)
	assert.Equal(t, "student-new", detail.ID)
	assert.Equal(t, "user-new", detail.UserID)
	assert.Equal(t, "Asha Rao", detail.FullName)
	assert.Equal(t, "asha@college.edu", detail.Email)
	require.NotNil(t, detail.CourseID)
	assert.Equal(t, "course-1", *detail.CourseID)
	assert.Nil(t, detail.SessionID)

	created := users.users["user-new"]
	assert.Equal(t, models.RoleStudent, created.Role)
	assert.True(t, created.Active)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("password123")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentServiceCreateDuplicateEmail(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	users := newMockAccountRepo()
	users.users["u1"] = &models.User{ID: "u1", Email: "asha@college.edu"}
	svc := NewStudentService(users, &mockStudentRepo{}, tx, nil, nil)

	_, err := svc.Create(context.Background(), newStudentRequest("asha@college.edu"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentServiceCreateRollsBackOnUniqueViolation(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	users := newMockAccountRepo()
	users.createErr = &pq.Error{Code: "23505"}
	svc := NewStudentService(users, &mockStudentRepo{}, tx, nil, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), newStudentRequest("race@college.edu"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentServiceCreateValidation(t *testing.T) {
	tx, _ := newTxProviderMock(t)
	svc := NewStudentService(newMockAccountRepo(), &mockStudentRepo{}, tx, nil, nil)

	req := newStudentRequest("bad-email")
	_, err := svc.Create(context.Background(), req)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req = newStudentRequest("ok@college.edu")
	req.Password = ""
	_, err = svc.Create(context.Background(), req)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceUpdateChangesPasswordOnlyWhenGiven(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	users := newMockAccountRepo()
	users.users["u1"] = &models.User{ID: "u1", Email: "old@college.edu", FullName: "Old"}
	repo := &mockStudentRepo{students: map[string]models.StudentDetail{
		"s1": {Student: models.Student{ID: "s1", UserID: "u1"}},
	}}
	svc := NewStudentService(users, repo, tx, nil, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	req := newStudentRequest("new@college.edu")
	req.Password = ""
	_, err := svc.Update(context.Background(), "s1", req)
	require.NoError(t, err)
	assert.Equal(t, "new@college.edu", users.users["u1"].Email)
	assert.Empty(t, users.passwordSet)
	require.NotNil(t, repo.students["s1"].CourseID)

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err = svc.Update(context.Background(), "s1", newStudentRequest("new@college.edu"))
	require.NoError(t, err)
	assert.Contains(t, users.passwordSet, "u1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentServiceDelete(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	users := newMockAccountRepo()
	repo := &mockStudentRepo{students: map[string]models.StudentDetail{
		"s1": {Student: models.Student{ID: "s1", UserID: "u1"}},
	}}
	svc := NewStudentService(users, repo, tx, nil, nil)

	err := svc.Delete(context.Background(), "missing")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	mock.ExpectBegin()
	mock.ExpectCommit()
	require.NoError(t, svc.Delete(context.Background(), "s1"))
	assert.Equal(t, []string{"u1"}, users.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentServiceListNormalizesPaging(t *testing.T) {
	tx, _ := newTxProviderMock(t)
	repo := &mockStudentRepo{listTotal: 42}
	svc := NewStudentService(newMockAccountRepo(), repo, tx, nil, nil)

	_, pagination, err := svc.List(context.Background(), models.ListFilter{PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 100, pagination.PageSize)
	assert.Equal(t, 42, pagination.TotalCount)
	assert.Equal(t, 100, repo.lastFilter.PageSize)

	repo.err = errors.New("db down")
	_, _, err = svc.List(context.Background(), models.ListFilter{})
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

type mockStaffRepo struct {
	staff map[string]models.StaffDetail
}

func (m *mockStaffRepo) List(ctx context.Context, courseID string) ([]models.StaffDetail, error) {
	var out []models.StaffDetail
	for _, s := range m.staff {
		out = append(out, s)
	}
	return out, nil
}

func (m *mockStaffRepo) FindByID(ctx context.Context, id string) (*models.StaffDetail, error) {
	if s, ok := m.staff[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStaffRepo) FindByUserID(ctx context.Context, userID string) (*models.StaffDetail, error) {
	for _, s := range m.staff {
		if s.UserID == userID {
			return &s, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStaffRepo) Create(ctx context.Context, exec sqlx.ExtContext, staff *models.Staff) error {
	staff.ID = "staff-new"
	if m.staff == nil {
		m.staff = map[string]models.StaffDetail{}
	}
	m.staff[staff.ID] = models.StaffDetail{Staff: *staff}
	return nil
}

func (m *mockStaffRepo) Update(ctx context.Context, exec sqlx.ExtContext, staff *models.Staff) error {
	detail := m.staff[staff.ID]
	detail.Staff = *staff
	m.staff[staff.ID] = detail
	return nil
}

func TestStaffServiceCreateAndLookup(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	users := newMockAccountRepo()
	repo := &mockStaffRepo{}
	svc := NewStaffService(users, repo, tx, nil, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	detail, err := svc.Create(context.Background(), StaffRequest{
		AccountRequest: AccountRequest{Email: "ravi@college.edu", Password: "password123", FullName: "Ravi", Gender: "M"},
	})
	require.NoError(t, err)
	assert.Equal(t, "staff-new", detail.ID)
	assert.Nil(t, detail.CourseID)
	assert.Equal(t, models.RoleStaff, users.users["user-new"].Role)

	found, err := svc.GetByUser(context.Background(), "user-new")
	require.NoError(t, err)
	assert.Equal(t, "staff-new", found.ID)

	_, err = svc.GetByUser(context.Background(), "nobody")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
