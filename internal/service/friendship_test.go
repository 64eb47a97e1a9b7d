package service

import (
	"context"
	"testing"

	"filmorate/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestFriendshipScenario(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)
	a := mustUser(t, s, "a")
	b := mustUser(t, s, "b")

	f, err := s.Friends.AddFriend(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.Equal(t, domain.FriendshipPending, f.Status)

	_, err = s.Friends.UpdateStatus(ctx, a.ID, b.ID, "CONFIRMED")
	require.NoError(t, err)

	friends, err := s.Friends.Friends(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	require.Equal(t, b.ID, friends[0].ID)
	require.Equal(t, domain.FriendshipConfirmed, friends[0].Status)

	// Дружба направленная: у B друзей нет.
	friends, err = s.Friends.Friends(ctx, b.ID)
	require.NoError(t, err)
	require.Empty(t, friends)
}

func TestRemoveFriendIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)
	a := mustUser(t, s, "a")
	b := mustUser(t, s, "b")

	_, err := s.Friends.AddFriend(ctx, a.ID, b.ID)
	require.NoError(t, err)

	require.NoError(t, s.Friends.RemoveFriend(ctx, a.ID, b.ID))
	require.NoError(t, s.Friends.RemoveFriend(ctx, a.ID, b.ID))

	friends, err := s.Friends.Friends(ctx, a.ID)
	require.NoError(t, err)
	require.Empty(t, friends)

	feed, err := s.Feed.Feed(ctx, a.ID)
	require.NoError(t, err)
	var removes int
	for _, e := range feed {
		if e.EventType == domain.EventFriend && e.Operation == domain.OperationRemove {
			removes++
		}
	}
	require.Equal(t, 1, removes)
}

func TestAddFriendErrors(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)
	a := mustUser(t, s, "a")

	_, err := s.Friends.AddFriend(ctx, a.ID, 999)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.Friends.AddFriend(ctx, 999, a.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.Friends.AddFriend(ctx, a.ID, a.ID)
	require.ErrorIs(t, err, ErrValidation)
}

func TestAddFriendTwiceResetsStatus(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)
	a := mustUser(t, s, "a")
	b := mustUser(t, s, "b")

	_, err := s.Friends.AddFriend(ctx, a.ID, b.ID)
	require.NoError(t, err)
	_, err = s.Friends.UpdateStatus(ctx, a.ID, b.ID, string(domain.FriendshipConfirmed))
	require.NoError(t, err)
	_, err = s.Friends.AddFriend(ctx, a.ID, b.ID)
	require.NoError(t, err)

	friends, err := s.Friends.Friends(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	require.Equal(t, domain.FriendshipPending, friends[0].Status)
}

func TestUpdateFriendshipStatusErrors(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)
	a := mustUser(t, s, "a")
	b := mustUser(t, s, "b")

	tests := []struct {
		name     string
		setup    bool
		userID   int64
		friendID int64
		status   string
		want     error
	}{
		{name: "unknown user", userID: 999, friendID: b.ID, status: "CONFIRMED", want: ErrNotFound},
		{name: "no edge", userID: a.ID, friendID: b.ID, status: "CONFIRMED", want: ErrValidation},
		{name: "bad status", setup: true, userID: a.ID, friendID: b.ID, status: "BLOCKED", want: ErrValidation},
		{name: "lowercase status", setup: true, userID: a.ID, friendID: b.ID, status: "confirmed", want: ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup {
				_, err := s.Friends.AddFriend(ctx, a.ID, b.ID)
				require.NoError(t, err)
			}
			_, err := s.Friends.UpdateStatus(ctx, tt.userID, tt.friendID, tt.status)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCommonFriends(t *testing.T) {
	ctx := context.Background()
	s := newTestServices(t)
	a := mustUser(t, s, "a")
	b := mustUser(t, s, "b")
	c := mustUser(t, s, "c")
	d := mustUser(t, s, "d")

	for _, pair := range [][2]int64{{a.ID, c.ID}, {a.ID, d.ID}, {b.ID, c.ID}} {
		_, err := s.Friends.AddFriend(ctx, pair[0], pair[1])
		require.NoError(t, err)
	}

	common, err := s.Friends.CommonFriends(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.Len(t, common, 1)
	require.Equal(t, c.ID, common[0].ID)

	_, err = s.Friends.CommonFriends(ctx, a.ID, 999)
	require.ErrorIs(t, err, ErrNotFound)
}
