package bot

import (
	"errors"

	"zapisnik/internal/database"
)

// getErrorMessage переводит доменные ошибки в текст для пользователя.
func getErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, database.ErrSlotTaken) {
		return "⚠️ На это время уже записано максимальное число человек. Пожалуйста, выберите другое время."
	}

	if errors.Is(err, database.ErrNotFound) {
		return "⚠️ Запись не найдена. Возможно, она уже отменена."
	}

	if errors.Is(err, database.ErrAlreadyExists) {
		return "⚠️ Такое значение уже есть."
	}

	// Default error message
	return "❌ Произошла ошибка при обработке вашего запроса. Пожалуйста, попробуйте позже."
}
