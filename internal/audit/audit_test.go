package audit

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNopSinkDiscardsEverything(t *testing.T) {
	var s NopSink
	require.NoError(t, s.Append(context.Background(), Event{Kind: "started"}))
	require.NoError(t, s.Flush(context.Background()))
}

func TestFileSinkAppendsNewlineDelimitedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	s, err := NewFileSink(path)
	require.NoError(t, err)

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, s.Append(context.Background(), Event{At: at, Kind: "started", AlarmID: 1, GroupID: 2}))
	require.NoError(t, s.Append(context.Background(), Event{At: at, Kind: "cancelled", AlarmID: 1, GroupID: 2}))
	require.NoError(t, s.Flush(context.Background()))
	require.NoError(t, s.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.NoError(t, scanner.Err())
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], `"kind":"started"`)
	require.Contains(t, lines[1], `"kind":"cancelled"`)
}

func TestFileSinkReopensForAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	s1, err := NewFileSink(path)
	require.NoError(t, err)
	require.NoError(t, s1.Append(context.Background(), Event{Kind: "started", AlarmID: 1}))
	require.NoError(t, s1.Close())

	s2, err := NewFileSink(path)
	require.NoError(t, err)
	require.NoError(t, s2.Append(context.Background(), Event{Kind: "cancelled", AlarmID: 1}))
	require.NoError(t, s2.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), `"kind":"started"`)
	require.Contains(t, string(b), `"kind":"cancelled"`)
}

func TestFileSinkConcurrentAppendsAllLand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	s, err := NewFileSink(path)
	require.NoError(t, err)
	defer s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			require.NoError(t, s.Append(context.Background(), Event{Kind: "started", AlarmID: i}))
		}(i)
	}
	wg.Wait()
	require.NoError(t, s.Flush(context.Background()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	scanner := bufio.NewScanner(f)
	count := 0
	for scanner.Scan() {
		count++
	}
	require.Equal(t, 50, count)
}
