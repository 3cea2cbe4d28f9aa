package announcement

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/announcement"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = user.User{ID: servicetest.NewID(), Name: "Priya", Email: "priya@example.com", Role: user.RoleAdmin}

func newTestService() (announcement.AnnouncementService, *servicetest.AnnouncementRepo, *sse.Hub) {
	repo := servicetest.NewAnnouncementRepo(servicetest.NewUserRepo(admin))
	hub := sse.NewHub()
	return NewAnnouncementService(servicetest.Tx{}, repo, hub), repo, hub
}

func TestCreate_BroadcastsToEveryone(t *testing.T) {
	// Setup
	svc, _, hub := newTestService()
	first, cleanupFirst := hub.Subscribe("user-1")
	defer cleanupFirst()
	second, cleanupSecond := hub.Subscribe("user-2")
	defer cleanupSecond()

	// Act
	resp, err := svc.Create(servicetest.ContextFor(t, admin), announcement.CreateAnnouncementRequest{
		Title:   "Office closed Friday",
		Content: "Maintenance work.",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Priya", resp.CreatedByName)
	require.NotNil(t, resp.CreatedBy)
	assert.Equal(t, admin.ID, *resp.CreatedBy)

	for userID, ch := range map[string]chan sse.Event{"user-1": first, "user-2": second} {
		select {
		case ev := <-ch:
			assert.Equal(t, sse.EventAnnouncementCreated, ev.Event)
			assert.Equal(t, userID, ev.UserID)
			assert.Equal(t, resp, ev.Data)
		default:
			t.Fatalf("no event for %s", userID)
		}
	}
}

func TestCreate_TitleRequired(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.Create(servicetest.ContextFor(t, admin), announcement.CreateAnnouncementRequest{Title: "  "})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Empty(t, repo.Announcements)
}

func TestList_LatestFirstCapped(t *testing.T) {
	svc, repo, _ := newTestService()
	base := time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		_, err := repo.Create(context.Background(), announcement.Announcement{
			Title:     "update",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	list, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 20)
	assert.True(t, list[0].CreatedAt.Equal(base.Add(24*time.Hour)))
	assert.Equal(t, "Admin", list[0].CreatedByName)
}

func TestUpdate(t *testing.T) {
	svc, _, _ := newTestService()
	created, err := svc.Create(servicetest.ContextFor(t, admin), announcement.CreateAnnouncementRequest{Title: "Draft"})
	require.NoError(t, err)

	title := "Final"
	updated, err := svc.Update(context.Background(), announcement.UpdateAnnouncementRequest{ID: created.ID, Title: &title})

	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "Priya", updated.CreatedByName)
}

func TestUpdate_Errors(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Update(context.Background(), announcement.UpdateAnnouncementRequest{ID: "x"})
	assert.ErrorIs(t, err, announcement.ErrInvalidAnnouncementID)

	_, err = svc.Update(context.Background(), announcement.UpdateAnnouncementRequest{ID: servicetest.NewID()})
	assert.ErrorIs(t, err, announcement.ErrAnnouncementNotFound)
}

func TestDelete(t *testing.T) {
	svc, repo, _ := newTestService()
	created, err := svc.Create(servicetest.ContextFor(t, admin), announcement.CreateAnnouncementRequest{Title: "Gone soon"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.Empty(t, repo.Announcements)
	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID), announcement.ErrAnnouncementNotFound)
}
