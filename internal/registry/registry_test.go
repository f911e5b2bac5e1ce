package registry

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/boardroom-backend/internal/apperror"
	"github.com/rocketscienceinc/boardroom-backend/internal/entity"
)

func newTestRegistry() *Registry {
	return New(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func TestRegistry_Create(t *testing.T) {
	t.Run("Creates one session per game type", func(t *testing.T) {
		reg := newTestRegistry()

		for _, gameType := range []string{entity.GameTicTacToe, entity.GameSnakes, entity.GameLudo} {
			room, err := reg.Create("room-"+gameType, gameType, 2, false)
			require.NoError(t, err)

			err = room.Do(func(session entity.GameSession) error {
				assert.Equal(t, gameType, session.GameType())
				return nil
			})
			require.NoError(t, err)
		}
	})

	t.Run("Rejects a duplicate room id", func(t *testing.T) {
		// Given: an existing room
		reg := newTestRegistry()
		_, err := reg.Create("dup", entity.GameTicTacToe, 2, false)
		require.NoError(t, err)

		// When: creating the same id again
		_, err = reg.Create("dup", entity.GameLudo, 4, false)

		// Then: the create fails
		require.ErrorIs(t, err, apperror.ErrRoomExists)
	})

	t.Run("Rejects an unknown game type", func(t *testing.T) {
		reg := newTestRegistry()

		_, err := reg.Create("room", "backgammon", 2, false)

		require.ErrorIs(t, err, ErrUnknownGameType)
	})

	t.Run("Generates an id when none is given", func(t *testing.T) {
		reg := newTestRegistry()

		room, err := reg.Create("", entity.GameTicTacToe, 2, false)

		require.NoError(t, err)
		assert.NotEmpty(t, room.ID)
	})
}

func TestRegistry_Get(t *testing.T) {
	t.Run("Joining a missing room is an explicit error", func(t *testing.T) {
		reg := newTestRegistry()

		_, err := reg.Get("ghost")

		require.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})

	t.Run("Resolves an existing room", func(t *testing.T) {
		reg := newTestRegistry()
		created, err := reg.Create("here", entity.GameSnakes, 3, false)
		require.NoError(t, err)

		room, err := reg.Get("here")

		require.NoError(t, err)
		assert.Same(t, created, room)
	})
}

func TestRegistry_Public(t *testing.T) {
	// Given: one public room per game type and a private one
	reg := newTestRegistry()

	public, err := reg.Create("pub-ttt", entity.GameTicTacToe, 2, true)
	require.NoError(t, err)
	_, err = reg.Create("pub-ludo", entity.GameLudo, 4, true)
	require.NoError(t, err)
	_, err = reg.Create("priv", entity.GameTicTacToe, 2, false)
	require.NoError(t, err)

	err = public.Do(func(session entity.GameSession) error {
		_, addErr := session.AddPlayer("conn-a", "")
		return addErr
	})
	require.NoError(t, err)

	// When: listing public tic-tac-toe rooms
	infos := reg.Public(entity.GameTicTacToe)

	// Then: only the public room of that type shows, with occupancy
	require.Len(t, infos, 1)
	assert.Equal(t, "pub-ttt", infos[0].ID)
	assert.Equal(t, 1, infos[0].Players)
	assert.Equal(t, 2, infos[0].Max)

	// When: listing without a type filter
	infos = reg.Public("")

	// Then: both public rooms show
	assert.Len(t, infos, 2)
}

func TestRegistry_ReapEmpty(t *testing.T) {
	// Given: one occupied and one empty room
	reg := newTestRegistry()

	occupied, err := reg.Create("busy", entity.GameTicTacToe, 2, false)
	require.NoError(t, err)
	err = occupied.Do(func(session entity.GameSession) error {
		_, addErr := session.AddPlayer("conn-a", "")
		return addErr
	})
	require.NoError(t, err)

	_, err = reg.Create("empty", entity.GameLudo, 4, false)
	require.NoError(t, err)

	// When: reaping
	reaped := reg.ReapEmpty()

	// Then: only the empty room is gone
	assert.Equal(t, []string{"empty"}, reaped)

	_, err = reg.Get("empty")
	require.ErrorIs(t, err, apperror.ErrRoomNotFound)

	_, err = reg.Get("busy")
	require.NoError(t, err)
}

func TestRegistry_Delete(t *testing.T) {
	reg := newTestRegistry()
	_, err := reg.Create("gone", entity.GameSnakes, 2, false)
	require.NoError(t, err)

	reg.Delete("gone")

	_, err = reg.Get("gone")
	require.ErrorIs(t, err, apperror.ErrRoomNotFound)
}
