package console

const msgHelp = `Команды:
  a-d            выбрать вариант ответа
  left / right   предыдущий / следующий вопрос (или p / n)
  1-9            перейти к вопросу по номеру
  submit         отправить ответы
  reset          пройти тест заново
  review         разбор последней попытки
  stats          статистика попыток
  export [файл]  сохранить историю попыток в CSV
  show           показать текущий вопрос
  quit           выйти`

const msgLoading = `Загружаю тест...`

const msgGenerating = `Тест ещё не создан, генерирую. Это может занять пару минут...`

const msgSubmitting = `Отправляю ответы...`

const msgReset = `Начинаем заново!`

const msgBye = `До встречи!`

const msgIncomplete = `Не отвечены вопросы: %s. Ответьте на них и отправьте снова.`

const msgOutOfRange = `Такого вопроса или варианта ответа нет.`

const msgUnknownKey = `Неизвестная команда. Введите help, чтобы увидеть список команд.`

const msgAlreadySubmitted = `Тест уже отправлен. Введите reset, чтобы пройти его снова.`

const msgSubmissionInFlight = `Ответы уже отправляются, подождите.`

const msgNoSession = `Тест не загружен.`

const msgNotSubmitted = `Разбор появится после отправки ответов.`

const msgStatsUnavailable = `Статистика сейчас недоступна.`

const msgHistoryUnavailable = `История попыток недоступна.`

const msgAPIError = `Сервис ответил ошибкой: %s`

const msgUnexpected = `Что-то пошло не так: %v`
