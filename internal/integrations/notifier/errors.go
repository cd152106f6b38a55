package notifier

import "errors"

var (
	// ErrEncode возвращается, если событие не удалось сериализовать
	ErrEncode = errors.New("notifier: failed to encode event")

	// ErrPublish возвращается при ошибке отправки события в брокер
	ErrPublish = errors.New("notifier: failed to publish event")
)
