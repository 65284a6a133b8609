package journal

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(t.TempDir() + "/journal")
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestAppend_SequenceIsMonotonic(t *testing.T) {
	j := openTestJournal(t)
	assert.Equal(t, uint64(0), j.LatestSeq())

	for i := 1; i <= 3; i++ {
		seq, err := j.Append(Event{
			ID:       "olay-" + strconv.Itoa(i),
			Type:     "appointment.booked",
			EntityID: "1",
			At:       time.Now().UTC(),
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(i), seq)
	}
	assert.Equal(t, uint64(3), j.LatestSeq())
}

func TestReadFrom(t *testing.T) {
	j := openTestJournal(t)
	types := []string{"patient.registered", "appointment.booked", "appointment.completed"}
	for _, typ := range types {
		_, err := j.Append(Event{Type: typ, EntityID: "1", Payload: map[string]any{"k": "v"}})
		require.NoError(t, err)
	}

	events, err := j.ReadFrom(2, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, uint64(2), events[0].Seq)
	assert.Equal(t, "appointment.booked", events[0].Type)
	assert.Equal(t, "appointment.completed", events[1].Type)

	// from=0 baştan okumakla eşdeğerdir, limit sonucu kırpar.
	events, err = j.ReadFrom(0, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, uint64(1), events[0].Seq)

	// Defterin sonrasından okumak boş döner.
	events, err = j.ReadFrom(10, 5)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestReadFrom_PayloadRoundTrip(t *testing.T) {
	j := openTestJournal(t)
	_, err := j.Append(Event{
		Type:     "doctor.rated",
		EntityID: "7",
		Payload:  map[string]any{"rating": float64(5), "average": float64(4)},
	})
	require.NoError(t, err)

	events, err := j.ReadFrom(1, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "7", events[0].EntityID)
	assert.Equal(t, float64(5), events[0].Payload["rating"])
}

func TestReopen_KeepsSequence(t *testing.T) {
	dir := t.TempDir() + "/journal"
	j, err := Open(dir)
	require.NoError(t, err)
	_, err = j.Append(Event{Type: "system.pause.changed", EntityID: "system"})
	require.NoError(t, err)
	require.NoError(t, j.Close())

	reopened, err := Open(dir)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, uint64(1), reopened.LatestSeq())
	seq, err := reopened.Append(Event{Type: "system.pause.changed", EntityID: "system"})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), seq)
}
