package fetcher

import "context"

// Fetcher определяет основной интерфейс для получения команд пользователя.
type Fetcher interface {
	// Fetch ждёт следующую команду. Возвращает io.EOF, когда ввод закончился.
	Fetch(ctx context.Context) (Command, error)
}

// Kind задаёт вид команды.
type Kind string

const (
	KindKey    Kind = "key"
	KindSubmit Kind = "submit"
	KindReset  Kind = "reset"
	KindStats  Kind = "stats"
	KindReview Kind = "review"
	KindExport Kind = "export"
	KindShow   Kind = "show"
	KindHelp   Kind = "help"
	KindQuit   Kind = "quit"
)

// Command представляет одну разобранную строку ввода.
// Для KindKey в Arg лежит клавиша, для KindExport имя файла.
type Command struct {
	Kind Kind
	Arg  string
}
