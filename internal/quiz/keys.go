package quiz

// Клавиши навигации
const (
	KeyLeft  = "left"
	KeyRight = "right"
)

// AnswerLetters перечисляет буквы вариантов ответа (до четырёх вариантов).
var AnswerLetters = []string{"a", "b", "c", "d"}

// LetterToIndex преобразует букву в индекс (a=0, b=1, ...).
func LetterToIndex(letter string) (int, bool) {
	for i, l := range AnswerLetters {
		if l == letter {
			return i, true
		}
	}

	return -1, false
}

// IndexToLetter преобразует индекс в букву (0=A, 1=B, ...).
func IndexToLetter(idx int) string {
	if idx >= 0 && idx < len(AnswerLetters) {
		return string(AnswerLetters[idx][0] - 'a' + 'A')
	}

	return ""
}

// DigitToIndex преобразует цифру 1-9 в индекс вопроса.
func DigitToIndex(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return -1, false
	}

	return int(key[0] - '1'), true
}
