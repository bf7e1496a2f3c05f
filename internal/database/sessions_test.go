package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func createTestSession(t *testing.T, userID int64, expiresAt time.Time) uuid.UUID {
	t.Helper()
	sessionID := uuid.New()
	err := testStore.CreateSession(context.Background(), CreateSessionParams{
		ID:        sessionID,
		UserID:    userID,
		ClientIP:  "198.51.100.10",
		Browser:   "Firefox",
		OS:        "Linux",
		ExpiresAt: expiresAt,
	})
	require.NoError(t, err)
	return sessionID
}

func TestCreateAndGetSession(t *testing.T) {
	user := createTestUser(t, "session.create@example.com")
	sessionID := createTestSession(t, user.ID, time.Now().Add(time.Hour))

	session, err := testStore.GetSessionByID(context.Background(), sessionID)
	require.NoError(t, err)
	require.NotNil(t, session)
	require.Equal(t, sessionID, session.ID)
	require.Equal(t, user.ID, session.UserID)
	require.Equal(t, "198.51.100.10", session.ClientIP)
	require.Equal(t, "Firefox", session.Browser)
	require.Equal(t, "Linux", session.OS)
}

func TestGetSessionByID_ExpiredIsAbsent(t *testing.T) {
	user := createTestUser(t, "session.expired@example.com")
	sessionID := createTestSession(t, user.ID, time.Now().Add(-time.Minute))

	// The row still exists physically but must already read as absent.
	session, err := testStore.GetSessionByID(context.Background(), sessionID)
	require.NoError(t, err)
	require.Nil(t, session)

	var count int
	err = testStore.GetPool().QueryRow(context.Background(),
		"SELECT COUNT(*) FROM sessions WHERE id = $1", sessionID).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count, "Row should still be in the table before the reaper runs")
}

func TestListSessionsForUser_ExcludesExpired(t *testing.T) {
	user := createTestUser(t, "session.list@example.com")
	liveID := createTestSession(t, user.ID, time.Now().Add(time.Hour))
	createTestSession(t, user.ID, time.Now().Add(-time.Hour))

	sessions, err := testStore.ListSessionsForUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, liveID, sessions[0].ID)
}

func TestDeleteSessionByID_Idempotent(t *testing.T) {
	user := createTestUser(t, "session.delete@example.com")
	sessionID := createTestSession(t, user.ID, time.Now().Add(time.Hour))

	err := testStore.DeleteSessionByID(context.Background(), sessionID, user.ID)
	require.NoError(t, err)

	session, err := testStore.GetSessionByID(context.Background(), sessionID)
	require.NoError(t, err)
	require.Nil(t, session)

	err = testStore.DeleteSessionByID(context.Background(), sessionID, user.ID)
	require.NoError(t, err, "Deleting an already absent session should be a no-op")
}

func TestDeleteSessionByID_ScopedToOwner(t *testing.T) {
	owner := createTestUser(t, "session.owner@example.com")
	other := createTestUser(t, "session.other@example.com")
	sessionID := createTestSession(t, owner.ID, time.Now().Add(time.Hour))

	err := testStore.DeleteSessionByID(context.Background(), sessionID, other.ID)
	require.NoError(t, err)

	session, err := testStore.GetSessionByID(context.Background(), sessionID)
	require.NoError(t, err)
	require.NotNil(t, session, "Another user's delete must not remove the session")
}

func TestClaimSessionForRotation(t *testing.T) {
	user := createTestUser(t, "session.claim@example.com")
	sessionID := createTestSession(t, user.ID, time.Now().Add(time.Hour))

	claimed, err := testStore.ClaimSessionForRotation(context.Background(), sessionID, user.ID)
	require.NoError(t, err)
	require.True(t, claimed)

	claimed, err = testStore.ClaimSessionForRotation(context.Background(), sessionID, user.ID)
	require.NoError(t, err)
	require.False(t, claimed, "A second claim of the same session must report it as already gone")
}

func TestDeleteAllSessionsForUser(t *testing.T) {
	user := createTestUser(t, "session.deleteall@example.com")
	createTestSession(t, user.ID, time.Now().Add(time.Hour))
	createTestSession(t, user.ID, time.Now().Add(2*time.Hour))

	err := testStore.DeleteAllSessionsForUser(context.Background(), user.ID)
	require.NoError(t, err)

	sessions, err := testStore.ListSessionsForUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 0)
}

func TestGetUserBySessionID(t *testing.T) {
	user := createTestUser(t, "session.resolve@example.com")
	sessionID := createTestSession(t, user.ID, time.Now().Add(time.Hour))

	resolved, err := testStore.GetUserBySessionID(context.Background(), sessionID)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	require.Equal(t, user.ID, resolved.ID)

	expiredID := createTestSession(t, user.ID, time.Now().Add(-time.Minute))
	resolved, err = testStore.GetUserBySessionID(context.Background(), expiredID)
	require.NoError(t, err)
	require.Nil(t, resolved, "An expired session must not resolve to a user")
}

func TestDeleteExpiredSessions(t *testing.T) {
	user := createTestUser(t, "session.reap@example.com")
	liveID := createTestSession(t, user.ID, time.Now().Add(time.Hour))
	backdatedID := createTestSession(t, user.ID, time.Now().Add(-24*time.Hour))

	// Logical expiry applies before the physical sweep.
	session, err := testStore.GetSessionByID(context.Background(), backdatedID)
	require.NoError(t, err)
	require.Nil(t, session)

	count, err := testStore.DeleteExpiredSessions(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, count, int64(1))

	var remaining int
	err = testStore.GetPool().QueryRow(context.Background(),
		"SELECT COUNT(*) FROM sessions WHERE id = $1", backdatedID).Scan(&remaining)
	require.NoError(t, err)
	require.Equal(t, 0, remaining)

	session, err = testStore.GetSessionByID(context.Background(), liveID)
	require.NoError(t, err)
	require.NotNil(t, session, "Live sessions must survive the sweep")
}
