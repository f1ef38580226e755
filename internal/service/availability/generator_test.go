package availability

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinic-api/internal/model"
)

func block(start, end string) model.WorkingBlock {
	b := model.WorkingBlock{
		StartTime: start,
		EndTime:   end,
	}
	b.ID = uuid.New()
	return b
}

func TestGenerate(t *testing.T) {
	t.Run("steps by duration within block", func(t *testing.T) {
		times, skipped := Generate([]model.WorkingBlock{block("09:00", "11:00")}, 30)
		require.Empty(t, skipped)
		assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, times)
	})

	t.Run("drops slot that overflows block end", func(t *testing.T) {
		// 45 minutes inside 09:00-09:45 fits exactly once; a second
		// slot would run past the block end.
		times, skipped := Generate([]model.WorkingBlock{block("09:00", "09:45")}, 30)
		require.Empty(t, skipped)
		assert.Equal(t, []string{"09:00"}, times)
	})

	t.Run("empty when block shorter than duration", func(t *testing.T) {
		times, skipped := Generate([]model.WorkingBlock{block("09:00", "09:20")}, 30)
		assert.Empty(t, skipped)
		assert.Empty(t, times)
	})

	t.Run("deduplicates overlapping blocks", func(t *testing.T) {
		times, skipped := Generate([]model.WorkingBlock{
			block("09:00", "10:30"),
			block("09:30", "11:00"),
		}, 30)
		require.Empty(t, skipped)
		assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, times)
	})

	t.Run("sorted across out of order blocks", func(t *testing.T) {
		times, skipped := Generate([]model.WorkingBlock{
			block("14:00", "15:00"),
			block("09:00", "10:00"),
		}, 30)
		require.Empty(t, skipped)
		assert.Equal(t, []string{"09:00", "09:30", "14:00", "14:30"}, times)
	})

	t.Run("skips malformed block and reports it", func(t *testing.T) {
		times, skipped := Generate([]model.WorkingBlock{
			block("garbage", "10:00"),
			block("11:00", "12:00"),
		}, 30)
		assert.Len(t, skipped, 1)
		assert.Equal(t, []string{"11:00", "11:30"}, times)
	})

	t.Run("non-positive duration yields nothing", func(t *testing.T) {
		times, skipped := Generate([]model.WorkingBlock{block("09:00", "17:00")}, 0)
		assert.Empty(t, times)
		assert.Empty(t, skipped)
	})

	t.Run("idempotent", func(t *testing.T) {
		blocks := []model.WorkingBlock{block("09:00", "12:00"), block("10:00", "13:00")}
		first, _ := Generate(blocks, 20)
		second, _ := Generate(blocks, 20)
		assert.Equal(t, first, second)
	})
}
