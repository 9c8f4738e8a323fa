package tasks

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduplicator_CaseAndWhitespaceVariants(t *testing.T) {
	d := NewDeduplicator()

	records := []Record{
		{Task: "Send Report"},
		{Task: "send report"},
		{Task: "  Send Report  "},
	}

	kept := d.Filter(records)

	require.Len(t, kept, 1)
	assert.Equal(t, "Send Report", kept[0].Task)
	assert.Equal(t, 1, d.Len())
}

func TestDeduplicator_AcrossCalls(t *testing.T) {
	d := NewDeduplicator()

	first := d.Filter([]Record{{Task: "Book room"}, {Task: "Send agenda"}})
	require.Len(t, first, 2)

	second := d.Filter([]Record{{Task: "send agenda"}, {Task: "Order lunch"}})
	require.Len(t, second, 1)
	assert.Equal(t, "Order lunch", second[0].Task)
}

func TestDeduplicator_RejectsEmptyTask(t *testing.T) {
	d := NewDeduplicator()

	assert.False(t, d.Admit(Record{Task: "   "}))
	assert.Equal(t, 0, d.Len())
}

func TestDeduplicator_Reset(t *testing.T) {
	d := NewDeduplicator()

	require.True(t, d.Admit(Record{Task: "Send report"}))
	require.False(t, d.Admit(Record{Task: "Send report"}))

	d.Reset()
	assert.True(t, d.Admit(Record{Task: "Send report"}))
}

func TestDeduplicator_ConcurrentAdmit(t *testing.T) {
	d := NewDeduplicator()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				d.Admit(Record{Task: fmt.Sprintf("task-%d", j)})
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, d.Len())
}
