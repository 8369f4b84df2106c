package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"equipreg/internal/database"
	"equipreg/internal/domain"
	"equipreg/internal/repository"
)

const testUserID = int64(42)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return NewService(
		repository.NewEquipmentRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewHistoryRepository(db),
	), db
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *domain.Category {
	t.Helper()
	c := &domain.Category{Name: name}
	require.NoError(t, db.Create(c).Error)
	return c
}

func historyFor(t *testing.T, db *gorm.DB, equipmentID int64) []domain.EquipmentHistory {
	t.Helper()
	var entries []domain.EquipmentHistory
	require.NoError(t, db.Where("equipment_id = ?", equipmentID).Order("id ASC").Find(&entries).Error)
	return entries
}

func TestCreate_WritesRecordAndHistory(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	printers := seedCategory(t, db, "Printers")

	e, err := svc.Create(ctx, testUserID, CreateEquipmentRequest{
		Name:            "HP LaserJet",
		InventoryNumber: "INV-001",
		CategoryID:      printers.ID,
		Room:            "101",
	})
	require.NoError(t, err)
	require.NotZero(t, e.ID)
	require.NotNil(t, e.Category)
	assert.Equal(t, "Printers", e.Category.Name)

	got, err := svc.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-001", got.InventoryNumber)

	entries := historyFor(t, db, e.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionCreated, entries[0].Action)
	assert.Nil(t, entries[0].Details)
	assert.Equal(t, testUserID, entries[0].UserID)
}

func TestCreate_DuplicateInventoryNumberCaseInsensitive(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	printers := seedCategory(t, db, "Printers")

	_, err := svc.Create(ctx, testUserID, CreateEquipmentRequest{
		Name: "First", InventoryNumber: "INV-001", CategoryID: printers.ID, Room: "101",
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, testUserID, CreateEquipmentRequest{
		Name: "Second", InventoryNumber: "inv-001", CategoryID: printers.ID, Room: "102",
	})
	assert.ErrorIs(t, err, ErrDuplicateInventoryNumber)

	// Neither a record nor a history row for the rejected create.
	var count int64
	require.NoError(t, db.Model(&domain.Equipment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	require.NoError(t, db.Model(&domain.EquipmentHistory{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreate_UnknownCategory(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), testUserID, CreateEquipmentRequest{
		Name: "Ghost", InventoryNumber: "INV-404", CategoryID: 9999, Room: "101",
	})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestUpdate_DiffCarriesExactlyChangedFields(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	printers := seedCategory(t, db, "Printers")
	monitors := seedCategory(t, db, "Monitors")

	e, err := svc.Create(ctx, testUserID, CreateEquipmentRequest{
		Name: "HP LaserJet", InventoryNumber: "INV-001", CategoryID: printers.ID, Room: "101",
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, testUserID, e.ID, UpdateEquipmentRequest{
		Name:            "HP LaserJet",
		InventoryNumber: "INV-001",
		CategoryID:      monitors.ID,
		Room:            "202",
	})
	require.NoError(t, err)

	entries := historyFor(t, db, e.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.ActionUpdated, entries[1].Action)
	require.NotNil(t, entries[1].Details)

	var diff []domain.FieldChange
	require.NoError(t, json.Unmarshal([]byte(*entries[1].Details), &diff))
	require.Len(t, diff, 2)
	assert.Equal(t, "categoryId", diff[0].Field)
	assert.Equal(t, fmt.Sprint(printers.ID), diff[0].From)
	assert.Equal(t, fmt.Sprint(monitors.ID), diff[0].To)
	assert.Equal(t, "room", diff[1].Field)
	assert.Equal(t, "101", diff[1].From)
	assert.Equal(t, "202", diff[1].To)
}

func TestUpdate_NoChangesBumpsTimestampWithoutHistory(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	printers := seedCategory(t, db, "Printers")

	e, err := svc.Create(ctx, testUserID, CreateEquipmentRequest{
		Name: "HP LaserJet", InventoryNumber: "INV-001", CategoryID: printers.ID, Room: "101",
	})
	require.NoError(t, err)
	before := e.UpdatedAt

	time.Sleep(10 * time.Millisecond)

	updated, err := svc.Update(ctx, testUserID, e.ID, UpdateEquipmentRequest{
		Name: "HP LaserJet", InventoryNumber: "INV-001", CategoryID: printers.ID, Room: "101",
	})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(before), "updatedAt should bump even on a no-op update")

	entries := historyFor(t, db, e.ID)
	assert.Len(t, entries, 1) // only the "created" row
}

func TestUpdate_NotFound(t *testing.T) {
	svc, db := newTestService(t)
	printers := seedCategory(t, db, "Printers")

	_, err := svc.Update(context.Background(), testUserID, 9999, UpdateEquipmentRequest{
		Name: "Ghost", InventoryNumber: "INV-404", CategoryID: printers.ID, Room: "101",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_DuplicateInventoryNumberExcludesSelf(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	printers := seedCategory(t, db, "Printers")

	first, err := svc.Create(ctx, testUserID, CreateEquipmentRequest{
		Name: "First", InventoryNumber: "INV-001", CategoryID: printers.ID, Room: "101",
	})
	require.NoError(t, err)
	second, err := svc.Create(ctx, testUserID, CreateEquipmentRequest{
		Name: "Second", InventoryNumber: "INV-002", CategoryID: printers.ID, Room: "102",
	})
	require.NoError(t, err)

	// Keeping your own number is fine.
	_, err = svc.Update(ctx, testUserID, first.ID, UpdateEquipmentRequest{
		Name: "First Renamed", InventoryNumber: "INV-001", CategoryID: printers.ID, Room: "101",
	})
	assert.NoError(t, err)

	// Taking another record's number is not.
	_, err = svc.Update(ctx, testUserID, second.ID, UpdateEquipmentRequest{
		Name: "Second", InventoryNumber: "inv-001", CategoryID: printers.ID, Room: "102",
	})
	assert.ErrorIs(t, err, ErrDuplicateInventoryNumber)
}

func TestDelete_SnapshotWrittenBeforeRowDisappears(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	printers := seedCategory(t, db, "Printers")

	e, err := svc.Create(ctx, testUserID, CreateEquipmentRequest{
		Name: "HP LaserJet", InventoryNumber: "INV-001", CategoryID: printers.ID, Room: "101",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, testUserID, e.ID))

	_, err = svc.Get(ctx, e.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	entries := historyFor(t, db, e.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.ActionDeleted, entries[1].Action)
	require.NotNil(t, entries[1].Details)

	var snapshot domain.DeletedSnapshot
	require.NoError(t, json.Unmarshal([]byte(*entries[1].Details), &snapshot))
	assert.Equal(t, "HP LaserJet", snapshot.Name)
	assert.Equal(t, "INV-001", snapshot.InventoryNumber)
	assert.Equal(t, "Printers", snapshot.Category)
	assert.Equal(t, "101", snapshot.Room)

	// The audit trail remains readable after the record is gone.
	trail, err := svc.History(ctx, e.ID)
	require.NoError(t, err)
	assert.Len(t, trail, 2)
}

func TestDelete_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	assert.ErrorIs(t, svc.Delete(context.Background(), testUserID, 9999), ErrNotFound)
}

func seedMany(t *testing.T, svc *Service, categoryID int64, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		_, err := svc.Create(context.Background(), testUserID, CreateEquipmentRequest{
			Name:            fmt.Sprintf("Item %02d", i),
			InventoryNumber: fmt.Sprintf("INV-%03d", i),
			CategoryID:      categoryID,
			Room:            fmt.Sprintf("Room %d", i%3),
		})
		require.NoError(t, err)
	}
}

func TestList_Pagination(t *testing.T) {
	svc, db := newTestService(t)
	printers := seedCategory(t, db, "Printers")
	seedMany(t, svc, printers.ID, 25)

	result, err := svc.List(context.Background(), repository.EquipmentFilters{
		SortBy:    "inventoryNumber",
		SortOrder: "asc",
		Page:      2,
		PageSize:  10,
	})
	require.NoError(t, err)

	assert.EqualValues(t, 25, result.Pagination.Total)
	assert.Equal(t, 3, result.Pagination.PageCount)
	require.Len(t, result.Items, 10)
	assert.Equal(t, "INV-011", result.Items[0].InventoryNumber)
	assert.Equal(t, "INV-020", result.Items[9].InventoryNumber)
}

func TestList_OutOfRangePageIsEmptyNotError(t *testing.T) {
	svc, db := newTestService(t)
	printers := seedCategory(t, db, "Printers")
	seedMany(t, svc, printers.ID, 5)

	result, err := svc.List(context.Background(), repository.EquipmentFilters{
		SortBy: "dateAdded", SortOrder: "desc", Page: 99, PageSize: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.EqualValues(t, 5, result.Pagination.Total)
	assert.Equal(t, 1, result.Pagination.PageCount)
}

func TestList_SearchMatchesNameOrInventoryNumber(t *testing.T) {
	svc, db := newTestService(t)
	printers := seedCategory(t, db, "Printers")
	ctx := context.Background()

	_, err := svc.Create(ctx, testUserID, CreateEquipmentRequest{
		Name: "HP LaserJet", InventoryNumber: "INV-001", CategoryID: printers.ID, Room: "101",
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, testUserID, CreateEquipmentRequest{
		Name: "Scanner", InventoryNumber: "LASER-7", CategoryID: printers.ID, Room: "102",
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, testUserID, CreateEquipmentRequest{
		Name: "Router", InventoryNumber: "INV-003", CategoryID: printers.ID, Room: "103",
	})
	require.NoError(t, err)

	result, err := svc.List(ctx, repository.EquipmentFilters{
		Search: "laser", SortBy: "name", SortOrder: "asc", Page: 1, PageSize: 10,
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "HP LaserJet", result.Items[0].Name)
	assert.Equal(t, "Scanner", result.Items[1].Name)
}

func TestList_FilterOptionsIndependentOfFilters(t *testing.T) {
	svc, db := newTestService(t)
	printers := seedCategory(t, db, "Printers")
	monitors := seedCategory(t, db, "Monitors")
	ctx := context.Background()

	_, err := svc.Create(ctx, testUserID, CreateEquipmentRequest{
		Name: "Printer", InventoryNumber: "INV-001", CategoryID: printers.ID, Room: "101",
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, testUserID, CreateEquipmentRequest{
		Name: "Monitor", InventoryNumber: "INV-002", CategoryID: monitors.ID, Room: "202",
	})
	require.NoError(t, err)

	result, err := svc.List(ctx, repository.EquipmentFilters{
		Room: "101", SortBy: "name", SortOrder: "asc", Page: 1, PageSize: 10,
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)

	// Narrowing to room 101 must not shrink the option lists.
	assert.ElementsMatch(t, []string{"101", "202"}, result.Filters.Rooms)
	assert.Len(t, result.Filters.Categories, 2)
}

func TestList_RejectsUnknownSortField(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.List(context.Background(), repository.EquipmentFilters{
		SortBy: "id; DROP TABLE equipment", Page: 1, PageSize: 10,
	})
	assert.ErrorIs(t, err, ErrInvalidSortField)
}

func TestScenario_CategoryLifecycleWithEquipment(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	printers := seedCategory(t, db, "Printers")

	e, err := svc.Create(ctx, testUserID, CreateEquipmentRequest{
		Name: "HP LaserJet", InventoryNumber: "INV-001", CategoryID: printers.ID, Room: "101",
	})
	require.NoError(t, err)

	result, err := svc.List(ctx, repository.EquipmentFilters{
		CategoryID: printers.ID, SortBy: "dateAdded", SortOrder: "desc", Page: 1, PageSize: 10,
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, e.ID, result.Items[0].ID)

	require.NoError(t, svc.Delete(ctx, testUserID, e.ID))

	result, err = svc.List(ctx, repository.EquipmentFilters{
		CategoryID: printers.ID, SortBy: "dateAdded", SortOrder: "desc", Page: 1, PageSize: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
}
