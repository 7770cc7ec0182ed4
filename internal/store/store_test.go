package store_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mautops/survey-gin/internal/catalog"
	"github.com/mautops/survey-gin/internal/model"
	"github.com/mautops/survey-gin/internal/repository"
	"github.com/mautops/survey-gin/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequenceIDs 按顺序生成 ID,便于断言
type sequenceIDs struct {
	n int
}

func (g *sequenceIDs) NewID(prefix string) string {
	g.n++
	return fmt.Sprintf("%s-%d", prefix, g.n)
}

// failingRepository Save 总是失败
type failingRepository struct {
	*repository.MemoryScheduleRepository
}

func (r failingRepository) Save(ctx context.Context, schedule *model.Schedule, position int) error {
	return errors.New("disk full")
}

// failingReplaceRepository ReplaceAll 总是失败
type failingReplaceRepository struct {
	*repository.MemoryScheduleRepository
}

func (r failingReplaceRepository) ReplaceAll(ctx context.Context, schedules []*model.Schedule) error {
	return errors.New("disk full")
}

// setupStore 创建带初始数据的存储
func setupStore(t *testing.T) (*store.Store, *repository.MemoryScheduleRepository) {
	repo := repository.NewMemoryScheduleRepository()
	s := store.New(repo, catalog.MustDefault(), store.WithIDGenerator(&sequenceIDs{}))

	seed, err := catalog.SeedSchedules()
	require.NoError(t, err)
	seeded, err := s.LoadOrSeed(context.Background(), seed)
	require.NoError(t, err)
	require.True(t, seeded)
	return s, repo
}

// TestStore_Add 测试新增调查计划
func TestStore_Add(t *testing.T) {
	s, repo := setupStore(t)
	before := s.Len()

	created, err := s.Add(context.Background(), model.ScheduleDraft{
		Name:     "  ASI 2025-26 ",
		Year:     "2025-26",
		Sector:   model.SectorManufacturing,
		IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "schedule-1", created.ID)
	assert.Equal(t, "ASI 2025-26", created.Name)
	assert.Empty(t, created.Blocks)
	assert.Equal(t, before+1, s.Len())
	assert.Equal(t, before+1, repo.Len())

	list := s.List()
	assert.Equal(t, created.ID, list[len(list)-1].ID)
}

// TestStore_Add_RequiresNameAndYear 测试名称或年份缺失时集合不变
func TestStore_Add_RequiresNameAndYear(t *testing.T) {
	s, _ := setupStore(t)
	before := s.List()

	drafts := []model.ScheduleDraft{
		{Name: "", Year: "2024-25"},
		{Name: "ASSSE", Year: ""},
		{Name: "   ", Year: "  "},
	}
	for _, d := range drafts {
		_, err := s.Add(context.Background(), d)
		var vErr *model.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "schedule.name_year_required", vErr.Code)
	}
	assert.Equal(t, before, s.List())
}

// TestStore_Add_InvalidSector 测试未知行业
func TestStore_Add_InvalidSector(t *testing.T) {
	s, _ := setupStore(t)
	_, err := s.Add(context.Background(), model.ScheduleDraft{Name: "X", Year: "2024", Sector: "Mining"})
	assert.ErrorIs(t, err, model.ErrInvalidSector)
}

// TestStore_Add_RepositoryFailure 测试仓储失败时集合不变
func TestStore_Add_RepositoryFailure(t *testing.T) {
	repo := failingRepository{repository.NewMemoryScheduleRepository()}
	s := store.New(repo, catalog.MustDefault())
	require.NoError(t, s.Load(context.Background()))

	_, err := s.Add(context.Background(), model.ScheduleDraft{Name: "X", Year: "2024"})
	assert.Error(t, err)
	assert.Equal(t, 0, s.Len())
}

// TestStore_Update 测试更新调查计划保留区块
func TestStore_Update(t *testing.T) {
	s, _ := setupStore(t)
	original, err := s.Get("schedule-asi-2023-24")
	require.NoError(t, err)

	updated, err := s.Update(context.Background(), original.ID, model.ScheduleDraft{
		Name:   "ASI 2023-24 revised",
		Year:   "2023-24",
		Sector: model.SectorManufacturing,
	})
	require.NoError(t, err)
	assert.Equal(t, "ASI 2023-24 revised", updated.Name)
	assert.False(t, updated.IsActive)
	assert.Equal(t, original.Blocks.IDs(), updated.Blocks.IDs())

	_, err = s.Update(context.Background(), "schedule-missing", model.ScheduleDraft{Name: "X", Year: "1"})
	assert.ErrorIs(t, err, store.ErrScheduleNotFound)
}

// TestStore_Delete 测试删除需要确认
func TestStore_Delete(t *testing.T) {
	s, repo := setupStore(t)
	before := s.Len()

	err := s.Delete(context.Background(), "schedule-capex-2022-23", false)
	assert.ErrorIs(t, err, store.ErrConfirmationRequired)
	assert.Equal(t, before, s.Len())

	err = s.Delete(context.Background(), "schedule-capex-2022-23", true)
	require.NoError(t, err)
	assert.Equal(t, before-1, s.Len())
	assert.Equal(t, before-1, repo.Len())

	_, err = s.Get("schedule-capex-2022-23")
	assert.ErrorIs(t, err, store.ErrScheduleNotFound)

	err = s.Delete(context.Background(), "schedule-capex-2022-23", true)
	assert.ErrorIs(t, err, store.ErrScheduleNotFound)
}

// TestStore_Clone 测试复制调查计划
func TestStore_Clone(t *testing.T) {
	s, _ := setupStore(t)
	source, err := s.Get("schedule-asi-2023-24")
	require.NoError(t, err)
	require.Len(t, source.Blocks, 3)

	cloned, err := s.Clone(context.Background(), source.ID)
	require.NoError(t, err)

	assert.NotEqual(t, source.ID, cloned.ID)
	assert.Equal(t, source.Name+" (Copy)", cloned.Name)
	assert.False(t, cloned.IsActive)
	require.Len(t, cloned.Blocks, len(source.Blocks))

	sourceIDs := make(map[string]bool)
	for _, b := range source.Blocks {
		sourceIDs[b.ID] = true
	}
	clonedIDs := make(map[string]bool)
	for i, b := range cloned.Blocks {
		assert.False(t, sourceIDs[b.ID], "block id %s reused", b.ID)
		assert.False(t, clonedIDs[b.ID], "block id %s duplicated", b.ID)
		clonedIDs[b.ID] = true
		assert.Equal(t, source.Blocks[i].Name, b.Name)
		assert.Equal(t, source.Blocks[i].Fields, b.Fields)
	}

	// 修改副本不影响原计划
	_, err = s.Update(context.Background(), cloned.ID, model.ScheduleDraft{Name: "Other", Year: "2030"})
	require.NoError(t, err)
	again, err := s.Get(source.ID)
	require.NoError(t, err)
	assert.Equal(t, source, again)
}

// TestStore_Clone_UniqueIDsUnderRapidCreation 测试连续复制不产生重复 ID
func TestStore_Clone_UniqueIDsUnderRapidCreation(t *testing.T) {
	repo := repository.NewMemoryScheduleRepository()
	s := store.New(repo, catalog.MustDefault())
	seed, err := catalog.SeedSchedules()
	require.NoError(t, err)
	_, err = s.LoadOrSeed(context.Background(), seed)
	require.NoError(t, err)

	ids := make(map[string]bool)
	for i := 0; i < 20; i++ {
		c, err := s.Clone(context.Background(), "schedule-asi-2023-24")
		require.NoError(t, err)
		assert.False(t, ids[c.ID])
		ids[c.ID] = true
	}
}

// TestStore_Search 测试不区分大小写搜索
func TestStore_Search(t *testing.T) {
	s, _ := setupStore(t)

	assert.Len(t, s.Search(""), s.Len())

	byName := s.Search("assse")
	require.Len(t, byName, 1)
	assert.Equal(t, "schedule-assse-2024-25", byName[0].ID)

	bySector := s.Search("MANUFACTURING")
	require.Len(t, bySector, 1)
	assert.Equal(t, "schedule-asi-2023-24", bySector[0].ID)

	byDescription := s.Search("capital expenditure")
	require.Len(t, byDescription, 1)

	assert.Empty(t, s.Search("no such survey"))
}

// TestStore_LoadOrSeed_ExistingData 测试仓储已有数据时不写入初始数据
func TestStore_LoadOrSeed_ExistingData(t *testing.T) {
	existing := &model.Schedule{ID: "schedule-x", Name: "X", Year: "2020", Blocks: model.BlockList{}}
	repo := repository.NewMemoryScheduleRepository(existing)
	s := store.New(repo, catalog.MustDefault())

	seed, err := catalog.SeedSchedules()
	require.NoError(t, err)
	seeded, err := s.LoadOrSeed(context.Background(), seed)
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Equal(t, 1, s.Len())
}

// TestStore_Replace 测试整体替换
func TestStore_Replace(t *testing.T) {
	s, repo := setupStore(t)
	replacement := []*model.Schedule{
		{ID: "schedule-only", Name: "Only", Year: "2026"},
	}
	require.NoError(t, s.Replace(context.Background(), replacement))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, repo.Len())

	got, err := s.Get("schedule-only")
	require.NoError(t, err)
	assert.NotNil(t, got.Blocks)
}

// TestStore_Replace_RejectsInvalidSchedules 测试内容不合法时集合和仓储都不变
func TestStore_Replace_RejectsInvalidSchedules(t *testing.T) {
	valid := func(id string) *model.Schedule {
		return &model.Schedule{ID: id, Name: "Valid " + id, Year: "2026", Blocks: model.BlockList{
			{ID: "block-1", Name: "Block", Fields: []model.Field{{ID: "f", Label: "F", Type: model.FieldTypeText}}},
		}}
	}
	blankName := valid("schedule-y")
	blankName.Name = "  "
	dupBlock := valid("schedule-y")
	dupBlock.Blocks = append(dupBlock.Blocks, model.Block{ID: "block-1", Name: "Again"})
	badField := valid("schedule-y")
	badField.Blocks[0].Fields[0].Type = "slider"

	tests := []struct {
		name      string
		schedules []*model.Schedule
		want      error
	}{
		{"blank name", []*model.Schedule{valid("schedule-x"), blankName}, model.ErrNameAndYearRequired},
		{"duplicate schedule id", []*model.Schedule{valid("schedule-x"), valid("schedule-x")}, model.ErrInvalidScheduleID},
		{"empty schedule id", []*model.Schedule{valid("")}, model.ErrInvalidScheduleID},
		{"duplicate block id", []*model.Schedule{dupBlock}, model.ErrInvalidBlockID},
		{"unknown field type", []*model.Schedule{badField}, model.ErrInvalidFieldType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, repo := setupStore(t)
			before := s.List()
			stored, err := repo.Load(context.Background())
			require.NoError(t, err)

			err = s.Replace(context.Background(), tt.schedules)
			assert.ErrorIs(t, err, tt.want)

			assert.Equal(t, before, s.List())
			after, err := repo.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, stored, after)
		})
	}
}

// TestStore_Replace_RepositoryFailure 测试仓储替换失败时集合和仓储都不变
func TestStore_Replace_RepositoryFailure(t *testing.T) {
	seed, err := catalog.SeedSchedules()
	require.NoError(t, err)
	mem := repository.NewMemoryScheduleRepository(seed...)
	s := store.New(failingReplaceRepository{mem}, catalog.MustDefault())
	require.NoError(t, s.Load(context.Background()))
	before := s.List()

	err = s.Replace(context.Background(), []*model.Schedule{
		{ID: "schedule-only", Name: "Only", Year: "2026"},
	})
	require.Error(t, err)

	assert.Equal(t, before, s.List())
	assert.Equal(t, len(seed), mem.Len())
	_, err = s.Get("schedule-only")
	assert.ErrorIs(t, err, store.ErrScheduleNotFound)
}
