package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestLedger(colors ...Color) *TurnLedger {
	l := NewTurnLedger()
	for _, c := range colors {
		l.Add(newArmy(c))
	}
	return l
}

func TestTurnLedger(t *testing.T) {
	t.Run("advance wraps around", func(t *testing.T) {
		l := newTestLedger(Red, Blue, Green)

		for _, want := range []Color{Blue, Green, Red, Blue} {
			require.NoError(t, l.Advance())
			require.Equal(t, want, l.Current().Color())
		}
	})

	t.Run("advance on an empty ledger fails", func(t *testing.T) {
		l := NewTurnLedger()

		require.ErrorIs(t, l.Advance(), ErrInvalidState)
		require.Nil(t, l.Current())
	})

	t.Run("rotate puts the offset first and keeps the cursor on its army", func(t *testing.T) {
		l := newTestLedger(Red, Blue, Green, Yellow)
		require.NoError(t, l.Seat(3))

		require.NoError(t, l.Rotate(2))

		colors := make([]Color, 0, l.Len())
		for _, a := range l.Armies() {
			colors = append(colors, a.Color())
		}
		require.Equal(t, []Color{Green, Yellow, Red, Blue}, colors)
		require.Equal(t, Yellow, l.Current().Color())
		require.Equal(t, 1, l.Cursor())
	})

	t.Run("rotate out of range fails", func(t *testing.T) {
		l := newTestLedger(Red, Blue)

		require.ErrorIs(t, l.Rotate(2), ErrInvalidState)
		require.ErrorIs(t, l.Rotate(-1), ErrInvalidState)
		require.Equal(t, Red, l.Armies()[0].Color(), "Failed rotate should not change the order")
	})

	t.Run("seat out of range fails", func(t *testing.T) {
		l := newTestLedger(Red, Blue)

		require.ErrorIs(t, l.Seat(2), ErrInvalidState)
		require.NoError(t, l.Seat(1))
		require.Equal(t, Blue, l.Current().Color())
	})

	t.Run("armies returns a copy", func(t *testing.T) {
		l := newTestLedger(Red, Blue)

		armies := l.Armies()
		armies[0] = nil

		require.NotNil(t, l.Armies()[0])
	})

	t.Run("clear drops every army", func(t *testing.T) {
		l := newTestLedger(Red, Blue)
		require.NoError(t, l.Advance())

		l.Clear()

		require.Zero(t, l.Len())
		require.Zero(t, l.Cursor())
	})
}
