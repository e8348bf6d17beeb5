package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"evaluation_backend/internal/config"
	"evaluation_backend/internal/model"
	"evaluation_backend/internal/repository"
	"evaluation_backend/internal/util"
	"evaluation_backend/pkg/docstore"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fixture struct {
	store       *docstore.MemoryStore
	employees   *EmployeeService
	evaluations *EvaluationService
	answers     *AnswerService
	dashboard   *DashboardService
	profiles    *ProfileService
	auth        *AuthService
	cfg         *config.Config
}

var fixedNow = time.Date(2024, 5, 15, 9, 30, 0, 0, time.Local)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := docstore.NewMemoryStore()
	locker := docstore.NewLocalLocker()

	cfg := &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		Storage: config.StorageConfig{
			Type:      util.StorageLocal,
			LocalPath: t.TempDir(),
		},
		Dashboard: config.DashboardConfig{
			LeadershipQuestion: "¿Cómo calificaría su capacidad de liderazgo?",
			DelegationQuestion: "¿Confía y delega responsabilidades en su equipo?",
		},
	}

	employeeRepo := repository.NewEmployeeRepository(store, locker)
	evaluationRepo := repository.NewEvaluationRepository(store, locker)
	answerRepo := repository.NewAnswerRepository(store, locker)

	evaluations := NewEvaluationService(evaluationRepo)
	evaluations.Now = func() time.Time { return fixedNow }
	employees := NewEmployeeService(employeeRepo)
	answers := NewAnswerService(answerRepo, evaluations)

	return &fixture{
		store:       store,
		employees:   employees,
		evaluations: evaluations,
		answers:     answers,
		dashboard:   NewDashboardService(answers, evaluations, cfg.Dashboard),
		profiles:    NewProfileService(employees, answers),
		auth:        NewAuthService(employeeRepo, cfg),
		cfg:         cfg,
	}
}

func fakeEmployee(i int) CreateEmployeeInput {
	return CreateEmployeeInput{
		Name:     gofakeit.Name(),
		Email:    fmt.Sprintf("user%d@example.com", i),
		Position: gofakeit.JobTitle(),
		Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
		Password: gofakeit.Password(true, true, true, false, false, 12),
	}
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	in := fakeEmployee(1)
	created, err := f.employees.Create(ctx, in)
	require.NoError(t, err)

	result, err := f.auth.Login(ctx, in.Username, in.Password)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, created.ID, result.Employee.ID)

	claims, err := util.ParseJWT(result.Token, f.cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.EmployeeID)
	assert.Equal(t, model.RoleEmployee, claims.Role)

	_, err = f.auth.Login(ctx, in.Username, "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, "nobody", in.Password)
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestAuthService_LoginUpgradesLegacyHash(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.store.Seed(docstore.CollectionEmployees, fmt.Sprintf(
		`[{"id":1,"name":"Ana","email":"ana@example.com","position":"CEO","username":"ana","password":%q,"role":"admin"}]`,
		sha256Hex("secreto"),
	))

	result, err := f.auth.Login(ctx, "ana", "secreto")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, result.Employee.Role)

	stored, err := f.auth.EmployeeRepo.FindByUsername(ctx, "ana")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, util.IsLegacyHash(stored.Password))

	_, err = f.auth.Login(ctx, "ana", "secreto")
	assert.NoError(t, err)
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.employees.Create(ctx, fakeEmployee(1))
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, model.RoleEmployee, first.Role)

	second := fakeEmployee(2)
	second.Role = model.RoleAdmin
	created, err := f.employees.Create(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 2, created.ID)
	assert.Equal(t, model.RoleAdmin, created.Role)

	dup := fakeEmployee(3)
	dup.Username = second.Username
	_, err = f.employees.Create(ctx, dup)
	assert.ErrorIs(t, err, util.ErrUsernameTaken)

	require.NoError(t, f.employees.Delete(ctx, 2, 1))
	assert.ErrorIs(t, f.employees.Delete(ctx, 2, 2), util.ErrPermissionDenied)
	third, err := f.employees.Create(ctx, fakeEmployee(4))
	require.NoError(t, err)
	assert.Equal(t, 3, third.ID)

	all, err := f.employees.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestEmployeeService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name   string
		mutate func(*CreateEmployeeInput)
		field  string
	}{
		{"missing name", func(in *CreateEmployeeInput) { in.Name = " " }, "name"},
		{"missing email", func(in *CreateEmployeeInput) { in.Email = "" }, "email"},
		{"bad email", func(in *CreateEmployeeInput) { in.Email = "not-an-email" }, "email"},
		{"missing password", func(in *CreateEmployeeInput) { in.Password = "" }, "password"},
		{"bad role", func(in *CreateEmployeeInput) { in.Role = "owner" }, "role"},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := fakeEmployee(i)
			tt.mutate(&in)
			_, err := f.employees.Create(ctx, in)
			require.ErrorIs(t, err, util.ErrValidation)

			var ve *util.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	all, err := f.employees.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestEmployeeService_GetAndDeleteMissing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.employees.Get(ctx, 42)
	assert.ErrorIs(t, err, util.ErrEmployeeNotFound)
	assert.ErrorIs(t, f.employees.Delete(ctx, 1, 42), util.ErrEmployeeNotFound)
}

func scaleEvaluation(title string, current bool, due string) CreateEvaluationInput {
	return CreateEvaluationInput{
		Title:     title,
		IsCurrent: current,
		DueDate:   due,
		Questions: []model.Question{
			{Type: model.QuestionScale, Label: "¿Cómo calificaría su capacidad de liderazgo?"},
			{Type: model.QuestionText, Label: "¿Confía y delega responsabilidades en su equipo?", Options: []string{"ignored"}},
			{Type: model.QuestionMultipleChoice, Label: "Área", Options: []string{"Ventas", " ", "TI"}},
		},
	}
}

func TestEvaluationService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.evaluations.Create(ctx, scaleEvaluation("Q1", true, "2024-06-30"))
	require.NoError(t, err)
	assert.Equal(t, fixedNow.UnixMilli(), first.ID)
	assert.Nil(t, first.Questions[1].Options)
	assert.Equal(t, []string{"Ventas", "TI"}, first.Questions[2].Options)

	ids := map[int64]bool{}
	for _, q := range first.Questions {
		assert.NotZero(t, q.ID)
		ids[q.ID] = true
	}
	assert.Len(t, ids, 3)

	// 同一毫秒内创建的评估 ID 仍然递增
	second, err := f.evaluations.Create(ctx, scaleEvaluation("Q2", true, "2024-07-01T10:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, first.ID+1, second.ID)
	assert.Equal(t, "2024-07-01", second.DueDate)

	all, err := f.evaluations.List(ctx)
	require.NoError(t, err)
	currentCount := 0
	for _, e := range all {
		if e.IsCurrent {
			currentCount++
		}
	}
	assert.Equal(t, 1, currentCount)

	current, err := f.evaluations.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Q2", current.Title)
}

func TestEvaluationService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name string
		in   CreateEvaluationInput
	}{
		{"empty title", CreateEvaluationInput{Questions: []model.Question{{Type: model.QuestionText, Label: "a"}}}},
		{"no questions", CreateEvaluationInput{Title: "x"}},
		{"empty label", CreateEvaluationInput{Title: "x", Questions: []model.Question{{Type: model.QuestionText}}}},
		{"bad type", CreateEvaluationInput{Title: "x", Questions: []model.Question{{Type: "slider", Label: "a"}}}},
		{"choice without options", CreateEvaluationInput{Title: "x", Questions: []model.Question{{Type: model.QuestionMultipleChoice, Label: "a"}}}},
		{"bad due date", CreateEvaluationInput{Title: "x", DueDate: "30/06/2024", Questions: []model.Question{{Type: model.QuestionText, Label: "a"}}}},
		{"duplicate label", CreateEvaluationInput{Title: "x", Questions: []model.Question{
			{Type: model.QuestionScale, Label: "Q"},
			{Type: model.QuestionText, Label: " Q "},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.evaluations.Create(ctx, tt.in)
			assert.ErrorIs(t, err, util.ErrValidation)
		})
	}
}

func TestEvaluationService_SetCurrentAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.evaluations.Current(ctx)
	assert.ErrorIs(t, err, util.ErrNoCurrentEvaluation)

	a, err := f.evaluations.Create(ctx, scaleEvaluation("A", true, ""))
	require.NoError(t, err)
	b, err := f.evaluations.Create(ctx, scaleEvaluation("B", false, ""))
	require.NoError(t, err)

	_, err = f.evaluations.SetCurrent(ctx, b.ID)
	require.NoError(t, err)

	current, err := f.evaluations.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.ID, current.ID)

	gotA, err := f.evaluations.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, gotA.IsCurrent)

	_, err = f.evaluations.SetCurrent(ctx, 1)
	assert.ErrorIs(t, err, util.ErrEvaluationNotFound)

	require.NoError(t, f.evaluations.Delete(ctx, b.ID))
	_, err = f.evaluations.Current(ctx)
	assert.ErrorIs(t, err, util.ErrNoCurrentEvaluation)
	assert.ErrorIs(t, f.evaluations.Delete(ctx, b.ID), util.ErrEvaluationNotFound)
}

func TestEvaluationService_DatesAndPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.store.Seed(docstore.CollectionEvaluations, `[
		{"id":1,"title":"Pasada","isCurrent":false,"dueDate":"2024-05-01","questions":[]},
		{"id":2,"title":"Hoy","isCurrent":false,"dueDate":"2024-05-15","questions":[]},
		{"id":3,"title":"Sin fecha","isCurrent":false,"dueDate":"","questions":[]},
		{"id":6,"title":"Junio RFC3339","isCurrent":false,"dueDate":"2024-06-02T08:00:00Z","questions":[]},
		{"id":4,"title":"Junio","isCurrent":true,"dueDate":"2024-06-02","questions":[]},
		{"id":5,"title":"Rota","isCurrent":false,"dueDate":"mañana","questions":[]}
	]`)

	due, err := f.evaluations.DueOn(ctx, time.Date(2024, 5, 15, 23, 59, 0, 0, time.Local))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "Hoy", due[0].Title)

	marks, err := f.evaluations.MonthMarks(ctx, 2024, time.May)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-05-01", "2024-05-15"}, marks)

	pending, err := f.evaluations.Pending(ctx)
	require.NoError(t, err)
	titles := make([]string, len(pending))
	for i, e := range pending {
		titles[i] = e.Title
	}
	assert.Equal(t, []string{"Hoy", "Junio RFC3339", "Junio", "Sin fecha"}, titles)
}

func TestAnswerService_Submit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	eval, err := f.evaluations.Create(ctx, scaleEvaluation("Q1", true, ""))
	require.NoError(t, err)
	scale, text, choice := eval.Questions[0], eval.Questions[1], eval.Questions[2]

	record, err := f.answers.Submit(ctx, "Ana", map[int64]string{
		scale.ID:  "8",
		text.ID:   "si",
		choice.ID: "TI",
	})
	require.NoError(t, err)
	assert.Equal(t, "Q1", record.EvaluationName)
	n, ok := record.Answers[scale.Label].Number()
	require.True(t, ok)
	assert.Equal(t, 8.0, n)

	_, err = f.answers.Submit(ctx, "Luis", map[int64]string{
		scale.ID:  "6.5",
		text.ID:   "no",
		choice.ID: "Ventas",
	})
	require.NoError(t, err)

	all, err := f.answers.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := f.answers.ListByAuthor(ctx, "Ana")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Ana", mine[0].Author)
}

func TestAnswerService_SubmitValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.answers.Submit(ctx, "Ana", map[int64]string{})
	assert.ErrorIs(t, err, util.ErrNoCurrentEvaluation)

	eval, err := f.evaluations.Create(ctx, scaleEvaluation("Q1", true, ""))
	require.NoError(t, err)
	scale, text, choice := eval.Questions[0], eval.Questions[1], eval.Questions[2]

	valid := func() map[int64]string {
		return map[int64]string{scale.ID: "5", text.ID: "si", choice.ID: "TI"}
	}

	tests := []struct {
		name   string
		author string
		mutate func(map[int64]string)
	}{
		{"blank author", " ", func(map[int64]string) {}},
		{"unanswered", "Ana", func(r map[int64]string) { delete(r, text.ID) }},
		{"blank answer", "Ana", func(r map[int64]string) { r[text.ID] = "  " }},
		{"scale not a number", "Ana", func(r map[int64]string) { r[scale.ID] = "alto" }},
		{"scale too high", "Ana", func(r map[int64]string) { r[scale.ID] = "11" }},
		{"scale too low", "Ana", func(r map[int64]string) { r[scale.ID] = "0" }},
		{"unknown option", "Ana", func(r map[int64]string) { r[choice.ID] = "Legal" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responses := valid()
			tt.mutate(responses)
			_, err := f.answers.Submit(ctx, tt.author, responses)
			assert.ErrorIs(t, err, util.ErrValidation)
		})
	}

	all, err := f.answers.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDashboardService_Overview(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	eval, err := f.evaluations.Create(ctx, scaleEvaluation("Q1", true, "2024-05-20"))
	require.NoError(t, err)
	scale, text, choice := eval.Questions[0], eval.Questions[1], eval.Questions[2]

	submit := func(author, score, yesNo string) {
		_, err := f.answers.Submit(ctx, author, map[int64]string{scale.ID: score, text.ID: yesNo, choice.ID: "TI"})
		require.NoError(t, err)
	}
	submit("Ana", "8", "si")
	submit("Luis", "4", "no")
	submit("Ana", "6", "si")

	overview, err := f.dashboard.Overview(ctx, time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Equal(t, 3, overview.TotalResponses)
	assert.Equal(t, "2024-05", overview.Month)
	assert.Equal(t, []string{"2024-05-20"}, overview.CalendarMarks)
	require.Len(t, overview.Leadership, 2)
	assert.Equal(t, "Ana", overview.Leadership[0].Author)
	assert.InDelta(t, 7.0, overview.Leadership[0].Average, 1e-9)
	assert.Equal(t, 2, overview.Delegation.Yes)
	assert.Equal(t, 1, overview.Delegation.No)
	require.Len(t, overview.Pending, 1)

	f.dashboard.SetQuestions(config.DashboardConfig{LeadershipQuestion: "otra", DelegationQuestion: "otra"})
	overview, err = f.dashboard.Overview(ctx, fixedNow)
	require.NoError(t, err)
	assert.Empty(t, overview.Leadership)
	assert.Zero(t, overview.Delegation.Yes)

	summary, err := f.dashboard.EvaluationSummary(ctx, eval.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Responses)
	require.Len(t, summary.Questions, 3)
	assert.Len(t, summary.Questions[0].Averages, 2)
	require.NotNil(t, summary.Questions[1].Tally)
	assert.Equal(t, 2, summary.Questions[1].Tally.Yes)

	_, err = f.dashboard.EvaluationSummary(ctx, 1)
	assert.ErrorIs(t, err, util.ErrEvaluationNotFound)
}

func TestProfileService_Get(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	in := fakeEmployee(1)
	emp, err := f.employees.Create(ctx, in)
	require.NoError(t, err)

	eval, err := f.evaluations.Create(ctx, scaleEvaluation("Q1", true, ""))
	require.NoError(t, err)
	_, err = f.answers.Submit(ctx, emp.Name, map[int64]string{
		eval.Questions[0].ID: "9",
		eval.Questions[1].ID: "si",
		eval.Questions[2].ID: "Ventas",
	})
	require.NoError(t, err)

	profile, err := f.profiles.Get(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, in.Username, profile.Employee.Username)
	assert.Len(t, profile.History, 1)

	_, err = f.profiles.Get(ctx, 99)
	assert.ErrorIs(t, err, util.ErrEmployeeNotFound)
}

func TestReportService_Export(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	storage := NewStorageService(f.cfg)
	reports := NewReportService(f.evaluations, f.answers, storage)

	eval, err := f.evaluations.Create(ctx, scaleEvaluation("Q1", true, ""))
	require.NoError(t, err)
	_, err = f.answers.Submit(ctx, "Ana", map[int64]string{
		eval.Questions[0].ID: "7",
		eval.Questions[1].ID: "si",
		eval.Questions[2].ID: "TI",
	})
	require.NoError(t, err)

	result, err := reports.Export(ctx, eval.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Responses)
	assert.Equal(t, "/uploads/"+result.Filename, result.URL)

	path := filepath.Join(f.cfg.Storage.LocalPath, result.Filename)
	_, err = os.Stat(path)
	require.NoError(t, err)

	wb, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(sheetResponses)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Autor", rows[0][0])
	assert.Equal(t, []string{"Ana", "7", "si", "TI"}, rows[1])

	summary, err := wb.GetRows(sheetSummary)
	require.NoError(t, err)
	assert.Len(t, summary, 4)

	_, err = reports.Export(ctx, 1)
	assert.ErrorIs(t, err, util.ErrEvaluationNotFound)
}

func TestReportService_Remove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	reports := NewReportService(f.evaluations, f.answers, NewStorageService(f.cfg))

	eval, err := f.evaluations.Create(ctx, scaleEvaluation("Q1", true, ""))
	require.NoError(t, err)
	result, err := reports.Export(ctx, eval.ID)
	require.NoError(t, err)

	stored := filepath.Join(f.cfg.Storage.LocalPath, result.Filename)
	_, err = os.Stat(stored)
	require.NoError(t, err)

	require.NoError(t, reports.Remove(ctx, filepath.Base(result.Filename)))
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, reports.Remove(ctx, result.Filename), util.ErrReportNotFound)

	for _, name := range []string{"", "../app.log", "notes.xlsx", "reports/../../x.xlsx", uuid.NewString() + ".csv"} {
		assert.ErrorIs(t, reports.Remove(ctx, name), util.ErrValidation, name)
	}
}

func TestDashboardService_TolerantAnswerDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("single record document", func(t *testing.T) {
		f := newFixture(t)
		f.store.Seed(docstore.CollectionAnswers, `{"evaluationName":"Q1","author":"Ana","answers":{"Delega":"si","Liderazgo":6}}`)

		tally, err := f.dashboard.Tally(ctx, "Delega")
		require.NoError(t, err)
		assert.Equal(t, 1, tally.Yes)

		averages, err := f.dashboard.Averages(ctx, "Liderazgo")
		require.NoError(t, err)
		require.Len(t, averages, 1)
		assert.Equal(t, 6.0, averages[0].Average)
	})

	t.Run("number out of range", func(t *testing.T) {
		f := newFixture(t)
		f.store.Seed(docstore.CollectionAnswers, `[
			{"evaluationName":"Q1","author":"Ana","answers":{"Liderazgo":5}},
			{"evaluationName":"Q1","author":"Ana","answers":{"Liderazgo":1e400}}
		]`)

		averages, err := f.dashboard.Averages(ctx, "Liderazgo")
		require.NoError(t, err)
		require.Len(t, averages, 1)
		assert.Equal(t, "Ana", averages[0].Author)
		assert.Equal(t, 5.0, averages[0].Average)
	})
}
