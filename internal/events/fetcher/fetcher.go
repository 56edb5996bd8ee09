package fetcher

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/letsssgooo/knowledgecheck/internal/quiz"
)

type line struct {
	text string
	err  error
}

// LineFetcher реализует Fetcher поверх построчного ввода.
type LineFetcher struct {
	r         io.Reader
	lines     chan line
	done      chan struct{}
	stopped   chan struct{}
	once      sync.Once
	closeOnce sync.Once
}

// NewLineFetcher создаёт новый объект структуры LineFetcher.
func NewLineFetcher(r io.Reader) *LineFetcher {
	return &LineFetcher{
		r:       r,
		lines:   make(chan line),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Close останавливает чтение. Уже заблокированное чтение из r не прерывается:
// горутина завершится после следующей строки или конца ввода.
func (f *LineFetcher) Close() error {
	f.closeOnce.Do(func() {
		close(f.done)
	})

	return nil
}

// Fetch возвращает следующую непустую команду.
func (f *LineFetcher) Fetch(ctx context.Context) (Command, error) {
	f.once.Do(func() {
		go f.scan()
	})

	for {
		select {
		case <-ctx.Done():
			return Command{}, ctx.Err()
		case <-f.done:
			return Command{}, io.EOF
		case l, ok := <-f.lines:
			if !ok {
				return Command{}, io.EOF
			}
			if l.err != nil {
				return Command{}, l.err
			}

			if cmd, ok := Parse(l.text); ok {
				return cmd, nil
			}
		}
	}
}

// scan читает ввод до его конца или до Close.
func (f *LineFetcher) scan() {
	defer close(f.stopped)
	defer close(f.lines)

	scanner := bufio.NewScanner(f.r)
	for scanner.Scan() {
		if !f.send(line{text: scanner.Text()}) {
			return
		}
	}

	if err := scanner.Err(); err != nil {
		f.send(line{err: err})
	}
}

func (f *LineFetcher) send(l line) bool {
	select {
	case f.lines <- l:
		return true
	case <-f.done:
		return false
	}
}

var aliases = map[string]Command{
	"n":    {Kind: KindKey, Arg: quiz.KeyRight},
	"next": {Kind: KindKey, Arg: quiz.KeyRight},
	">":    {Kind: KindKey, Arg: quiz.KeyRight},
	"p":    {Kind: KindKey, Arg: quiz.KeyLeft},
	"prev": {Kind: KindKey, Arg: quiz.KeyLeft},
	"<":    {Kind: KindKey, Arg: quiz.KeyLeft},

	"submit": {Kind: KindSubmit},
	"s":      {Kind: KindSubmit},
	"reset":  {Kind: KindReset},
	"retry":  {Kind: KindReset},
	"stats":  {Kind: KindStats},
	"review": {Kind: KindReview},
	"show":   {Kind: KindShow},
	"help":   {Kind: KindHelp},
	"?":      {Kind: KindHelp},
	"quit":   {Kind: KindQuit},
	"q":      {Kind: KindQuit},
	"exit":   {Kind: KindQuit},
}

// Parse разбирает строку ввода. Пустая строка командой не считается.
// Всё, что не распознано как команда, передаётся движку как клавиша.
func Parse(text string) (Command, bool) {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 {
		return Command{}, false
	}

	if fields[0] == "export" {
		cmd := Command{Kind: KindExport}
		if len(fields) > 1 {
			cmd.Arg = strings.Fields(text)[1]
		}
		return cmd, true
	}

	if cmd, ok := aliases[fields[0]]; ok {
		return cmd, true
	}

	return Command{Kind: KindKey, Arg: fields[0]}, true
}
