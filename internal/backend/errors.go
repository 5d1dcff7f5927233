package backend

import (
	"errors"
	"fmt"
)

// Kind - класс ошибки шлюза. По нему контроллер выбирает код ответа и текст.
type Kind int

const (
	// KindNetwork - запрос не дошёл до сервера (DNS, отказ соединения, таймаут).
	KindNetwork Kind = iota + 1
	// KindClient - сервер ответил 4xx.
	KindClient
	// KindServer - сервер ответил 5xx.
	KindServer
	// KindApplication - HTTP 200, но в теле success=false.
	KindApplication
	// KindDecode - ответ пришёл, но его не удалось разобрать.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	case KindApplication:
		return "application"
	case KindDecode:
		return "decode"
	}
	return "unknown"
}

// Error возвращается всеми методами Client.
type Error struct {
	Kind       Kind
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("backend %s: %s", e.Op, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf возвращает класс ошибки или 0, если это не ошибка шлюза.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return 0
}

// AsError - короткая форма errors.As для *Error.
func AsError(err error) (*Error, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
