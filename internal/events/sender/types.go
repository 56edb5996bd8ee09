package sender

import (
	"github.com/letsssgooo/knowledgecheck/internal/engine"
	"github.com/letsssgooo/knowledgecheck/internal/stats"
)

// Sender определяет основной интерфейс для вывода пользователю.
type Sender interface {
	// Message выводит текстовое сообщение.
	Message(text string)

	// Warning выводит предупреждение.
	Warning(text string)

	// Question выводит текущий вопрос с прогрессом и временем.
	Question(v engine.View)

	// Result выводит итог попытки с разбором по вопросам.
	Result(v engine.View)

	// Statistics выводит статистику по одному видео.
	Statistics(st stats.Statistics)

	// Summary выводит сводку по всем видео.
	Summary(sum stats.Summary)

	// Document сохраняет файл и сообщает, куда он записан.
	Document(fileName string, data []byte) error
}
