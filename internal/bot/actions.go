package bot

import "strings"

// ActionKind — тип действия пользователя. Вместо сопоставления callback-данных
// по префиксам строк в обработчиках, данные один раз разбираются в тегированное
// значение и диспетчеризуются исчерпывающим switch.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionChooseService
	ActionChooseDate
	ActionChooseTime
	ActionBack
	ActionCancel
	ActionCancelBooking // пользователь отменяет свою запись
	ActionDeleteBooking // оператор удаляет любую запись
	ActionPayStub
)

// Action — разобранное действие с необязательным аргументом.
type Action struct {
	Kind  ActionKind
	Value string
}

const (
	cbService       = "svc:"
	cbDate          = "date:"
	cbTime          = "time:"
	cbBack          = "back"
	cbCancel        = "cancel"
	cbCancelBooking = "my_cancel:"
	cbDeleteBooking = "op_delete:"
	cbPayStub       = "pay"
)

// ParseCallback разбирает callback-данные инлайн-кнопки в Action.
func ParseCallback(data string) Action {
	switch {
	case strings.HasPrefix(data, cbService):
		return Action{Kind: ActionChooseService, Value: strings.TrimPrefix(data, cbService)}
	case strings.HasPrefix(data, cbDate):
		return Action{Kind: ActionChooseDate, Value: strings.TrimPrefix(data, cbDate)}
	case strings.HasPrefix(data, cbTime):
		return Action{Kind: ActionChooseTime, Value: strings.TrimPrefix(data, cbTime)}
	case data == cbBack:
		return Action{Kind: ActionBack}
	case data == cbCancel:
		return Action{Kind: ActionCancel}
	case strings.HasPrefix(data, cbCancelBooking):
		return Action{Kind: ActionCancelBooking, Value: strings.TrimPrefix(data, cbCancelBooking)}
	case strings.HasPrefix(data, cbDeleteBooking):
		return Action{Kind: ActionDeleteBooking, Value: strings.TrimPrefix(data, cbDeleteBooking)}
	case data == cbPayStub:
		return Action{Kind: ActionPayStub}
	default:
		return Action{Kind: ActionUnknown, Value: data}
	}
}
