package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkflowcrm/internal/calendar"
	"inkflowcrm/internal/followup"
	"inkflowcrm/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "inkflow.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedArtist(t *testing.T, store *Store) models.Artist {
	t.Helper()
	artist, err := store.CreateArtist(context.Background(), "Jo", "jo@example.com", models.RoleOwner)
	require.NoError(t, err)
	return artist
}

func seedClient(t *testing.T, store *Store, artistID int64) models.Client {
	t.Helper()
	client, err := store.CreateClient(context.Background(), models.Client{
		ArtistID: artistID,
		Name:     "Maya",
		Email:    "maya@example.com",
	})
	require.NoError(t, err)
	return client
}

func mustDate(t *testing.T, s string) calendar.Date {
	t.Helper()
	d, err := calendar.Parse(s)
	require.NoError(t, err)
	return d
}

func TestArtistTokenLookup(t *testing.T) {
	store := openTestStore(t)
	artist := seedArtist(t, store)

	require.NotEmpty(t, artist.APIToken)

	found, err := store.GetArtistByToken(context.Background(), artist.APIToken)
	require.NoError(t, err)
	assert.Equal(t, artist.ID, found.ID)

	_, err = store.GetArtistByToken(context.Background(), "bogus")
	assert.ErrorIs(t, err, ErrArtistNotFound)
}

func TestClientCRUD(t *testing.T) {
	store := openTestStore(t)
	artist := seedArtist(t, store)
	client := seedClient(t, store, artist.ID)

	phone := "555-0101"
	updated, err := store.UpdateClient(context.Background(), artist.ID, client.ID, ClientChanges{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "555-0101", updated.Phone)
	assert.Equal(t, "Maya", updated.Name)

	clients, err := store.ListClients(context.Background(), artist.ID)
	require.NoError(t, err)
	assert.Len(t, clients, 1)

	require.NoError(t, store.DeleteClient(context.Background(), artist.ID, client.ID))
	clients, err = store.ListClients(context.Background(), artist.ID)
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestClientScopedToArtist(t *testing.T) {
	store := openTestStore(t)
	artist := seedArtist(t, store)
	other, err := store.CreateArtist(context.Background(), "Sam", "sam@example.com", models.RoleArtist)
	require.NoError(t, err)
	client := seedClient(t, store, artist.ID)

	_, err = store.GetClient(context.Background(), other.ID, client.ID)
	assert.Error(t, err)
}

func TestCompleteTattoo_OnlyOnce(t *testing.T) {
	store := openTestStore(t)
	artist := seedArtist(t, store)
	client := seedClient(t, store, artist.ID)

	tattoo, err := store.CreateTattoo(context.Background(), models.Tattoo{
		ArtistID:    artist.ID,
		ClientID:    client.ID,
		Description: "sleeve, session 3",
		PriceCents:  45000,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TattooScheduled, tattoo.Status)

	done, err := store.CompleteTattoo(context.Background(), artist.ID, tattoo.ID, mustDate(t, "2026-02-05"))
	require.NoError(t, err)
	assert.Equal(t, models.TattooCompleted, done.Status)
	assert.Equal(t, "2026-02-05", done.CompletedOn.String())

	_, err = store.CompleteTattoo(context.Background(), artist.ID, tattoo.ID, mustDate(t, "2026-02-06"))
	assert.ErrorIs(t, err, ErrTattooCompleted)
}

func TestUpdateTattoo_CannotCompleteViaUpdate(t *testing.T) {
	store := openTestStore(t)
	artist := seedArtist(t, store)
	client := seedClient(t, store, artist.ID)

	tattoo, err := store.CreateTattoo(context.Background(), models.Tattoo{ArtistID: artist.ID, ClientID: client.ID})
	require.NoError(t, err)

	completed := models.TattooCompleted
	updated, err := store.UpdateTattoo(context.Background(), artist.ID, tattoo.ID, TattooChanges{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, models.TattooScheduled, updated.Status)
}

func followupBatch(artistID, tattooID int64, due calendar.Date) []models.FollowUpTask {
	var batch []models.FollowUpTask
	for _, step := range followup.Schedule {
		batch = append(batch, models.FollowUpTask{
			ArtistID:     artistID,
			TattooID:     tattooID,
			ClientName:   "Maya",
			ClientEmail:  "maya@example.com",
			TaskType:     step.Type,
			TaskLabel:    step.Label,
			DueDate:      due.AddDays(step.DaysAfter),
			Status:       models.StatusPending,
			EmailSubject: "subject",
			EmailBody:    "body",
		})
	}
	return batch
}

func TestInsertTasks_AssignsIDs(t *testing.T) {
	store := openTestStore(t)
	artist := seedArtist(t, store)
	client := seedClient(t, store, artist.ID)
	tattoo, err := store.CreateTattoo(context.Background(), models.Tattoo{ArtistID: artist.ID, ClientID: client.ID})
	require.NoError(t, err)

	persisted, err := store.InsertTasks(context.Background(), followupBatch(artist.ID, tattoo.ID, mustDate(t, "2026-02-05")))
	require.NoError(t, err)
	require.Len(t, persisted, 5)

	seen := map[string]bool{}
	for _, task := range persisted {
		assert.NotEmpty(t, task.ID)
		assert.False(t, seen[task.ID])
		seen[task.ID] = true
		assert.False(t, task.CreatedAt.IsZero())
		assert.Equal(t, models.StatusPending, task.Status)
	}
}

func TestInsertTasks_BatchIsAtomic(t *testing.T) {
	store := openTestStore(t)
	artist := seedArtist(t, store)
	client := seedClient(t, store, artist.ID)
	tattoo, err := store.CreateTattoo(context.Background(), models.Tattoo{ArtistID: artist.ID, ClientID: client.ID})
	require.NoError(t, err)

	batch := followupBatch(artist.ID, tattoo.ID, mustDate(t, "2026-02-05"))
	// Duplicate task type violates the (tattoo_id, task_type) constraint on
	// the last row; the whole batch must roll back.
	batch[4].TaskType = batch[0].TaskType

	_, err = store.InsertTasks(context.Background(), batch)
	require.Error(t, err)

	tasks, err := store.ListTasks(context.Background(), artist.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestUpdateTask_PartialChanges(t *testing.T) {
	store := openTestStore(t)
	artist := seedArtist(t, store)
	client := seedClient(t, store, artist.ID)
	tattoo, err := store.CreateTattoo(context.Background(), models.Tattoo{ArtistID: artist.ID, ClientID: client.ID})
	require.NoError(t, err)

	persisted, err := store.InsertTasks(context.Background(), followupBatch(artist.ID, tattoo.ID, mustDate(t, "2026-02-05")))
	require.NoError(t, err)

	subject := "edited subject"
	err = store.UpdateTask(context.Background(), artist.ID, persisted[0].ID, followup.TaskChanges{Subject: &subject})
	require.NoError(t, err)

	tasks, err := store.ListTasks(context.Background(), artist.ID)
	require.NoError(t, err)
	for _, task := range tasks {
		if task.ID == persisted[0].ID {
			assert.Equal(t, "edited subject", task.EmailSubject)
			assert.Equal(t, "body", task.EmailBody)
		}
	}

	status := models.StatusSent
	completedAt := time.Date(2026, 6, 10, 15, 0, 0, 0, time.UTC)
	err = store.UpdateTask(context.Background(), artist.ID, persisted[0].ID, followup.TaskChanges{
		Status:      &status,
		CompletedAt: &completedAt,
	})
	require.NoError(t, err)

	tasks, err = store.ListTasks(context.Background(), artist.ID)
	require.NoError(t, err)
	for _, task := range tasks {
		if task.ID == persisted[0].ID {
			assert.Equal(t, models.StatusSent, task.Status)
			require.NotNil(t, task.CompletedAt)
		}
	}
}

func TestUpdateTask_WrongArtist(t *testing.T) {
	store := openTestStore(t)
	artist := seedArtist(t, store)
	other, err := store.CreateArtist(context.Background(), "Sam", "sam@example.com", models.RoleArtist)
	require.NoError(t, err)
	client := seedClient(t, store, artist.ID)
	tattoo, err := store.CreateTattoo(context.Background(), models.Tattoo{ArtistID: artist.ID, ClientID: client.ID})
	require.NoError(t, err)

	persisted, err := store.InsertTasks(context.Background(), followupBatch(artist.ID, tattoo.ID, mustDate(t, "2026-02-05")))
	require.NoError(t, err)

	subject := "hijack"
	err = store.UpdateTask(context.Background(), other.ID, persisted[0].ID, followup.TaskChanges{Subject: &subject})
	assert.ErrorIs(t, err, followup.ErrTaskNotFound)
}

func TestSummarizeRevenue(t *testing.T) {
	store := openTestStore(t)
	artist := seedArtist(t, store)
	client := seedClient(t, store, artist.ID)

	for _, tc := range []struct {
		price int64
		on    string
	}{
		{45000, "2026-02-05"},
		{30000, "2026-02-20"},
		{99900, "2026-03-10"}, // outside the queried range
	} {
		tattoo, err := store.CreateTattoo(context.Background(), models.Tattoo{
			ArtistID: artist.ID, ClientID: client.ID, PriceCents: tc.price,
		})
		require.NoError(t, err)
		_, err = store.CompleteTattoo(context.Background(), artist.ID, tattoo.ID, mustDate(t, tc.on))
		require.NoError(t, err)
	}

	_, err := store.CreateExpense(context.Background(), models.Expense{
		ArtistID: artist.ID, Category: "supplies", AmountCents: 12000, IncurredOn: mustDate(t, "2026-02-10"),
	})
	require.NoError(t, err)

	summary, err := store.SummarizeRevenue(context.Background(), artist.ID, mustDate(t, "2026-02-01"), mustDate(t, "2026-02-28"))
	require.NoError(t, err)
	assert.Equal(t, int64(75000), summary.RevenueCents)
	assert.Equal(t, int64(2), summary.CompletedCount)
	assert.Equal(t, int64(12000), summary.ExpenseCents)
	assert.Equal(t, int64(1), summary.ExpenseCount)
}
