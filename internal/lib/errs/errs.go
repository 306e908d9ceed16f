// Package errs определяет классы ошибок бизнес-уровня.
//
// Сервисы оборачивают одну из сторожевых ошибок через fmt.Errorf("%w: ...")
// с человекочитаемым пояснением, а HTTP-слой сопоставляет класс ошибки
// со статус-кодом через errors.Is. Никакая ошибка не проглатывается молча.
package errs

import "errors"

var (
	// ErrNotFound — запрошенная сущность (клиент, ПО, договор, платеж) не существует.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument — некорректный входной параметр: неположительная сумма,
	// недопустимый способ оплаты.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidRange — значение вне допустимого диапазона: окно дат договора,
	// годы дополнительной поддержки.
	ErrInvalidRange = errors.New("invalid range")
	// ErrInvalidState — операция несовместима с текущим состоянием: договор уже
	// подписан или отменен, превышен остаток, клиент удален.
	ErrInvalidState = errors.New("invalid state")
	// ErrConflict — нарушение уникальности: активный договор на ту же пару
	// клиент+ПО, занятый PESEL/KRS, имя ПО.
	ErrConflict = errors.New("conflict")
	// ErrDeadlineExceeded — платеж после крайнего срока договора. Особый случай:
	// до возврата ошибки договор уже отменен и отмена зафиксирована в базе.
	ErrDeadlineExceeded = errors.New("payment deadline exceeded")
)
