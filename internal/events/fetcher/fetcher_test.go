package fetcher

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Command
		ok   bool
	}{
		{"", Command{}, false},
		{"   ", Command{}, false},
		{"A", Command{Kind: KindKey, Arg: "a"}, true},
		{"3", Command{Kind: KindKey, Arg: "3"}, true},
		{"right", Command{Kind: KindKey, Arg: "right"}, true},
		{"n", Command{Kind: KindKey, Arg: "right"}, true},
		{"prev", Command{Kind: KindKey, Arg: "left"}, true},
		{" Submit ", Command{Kind: KindSubmit}, true},
		{"retry", Command{Kind: KindReset}, true},
		{"stats", Command{Kind: KindStats}, true},
		{"q", Command{Kind: KindQuit}, true},
		{"export History.csv", Command{Kind: KindExport, Arg: "History.csv"}, true},
		{"export", Command{Kind: KindExport}, true},
		{"zzz", Command{Kind: KindKey, Arg: "zzz"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Parse(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLineFetcher(t *testing.T) {
	f := NewLineFetcher(strings.NewReader("a\n\nright\nsubmit\n"))
	ctx := context.Background()

	var got []Command
	for {
		cmd, err := f.Fetch(ctx)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, cmd)
	}

	assert.Equal(t, []Command{
		{Kind: KindKey, Arg: "a"},
		{Kind: KindKey, Arg: "right"},
		{Kind: KindSubmit},
	}, got)
}

func TestLineFetcher_ContextCancelled(t *testing.T) {
	r, w := io.Pipe()
	t.Cleanup(func() { _ = w.Close() })

	f := NewLineFetcher(r)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLineFetcher_Close(t *testing.T) {
	r, w := io.Pipe()
	t.Cleanup(func() { _ = w.Close() })

	f := NewLineFetcher(r)

	go func() {
		_, _ = io.WriteString(w, "a\n")
	}()

	cmd, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Command{Kind: KindKey, Arg: "a"}, cmd)

	// потребитель ушёл, а на входе появилась ещё одна строка
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())

	go func() {
		_, _ = io.WriteString(w, "b\n")
	}()

	require.Eventually(t, func() bool {
		select {
		case <-f.stopped:
			return true
		default:
			return false
		}
	}, time.Second, time.Millisecond)

	_, err = f.Fetch(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}
