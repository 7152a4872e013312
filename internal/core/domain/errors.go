package domain

import "fmt"

// Таксономия ошибок движка вовлеченности.
// Мутационные ошибки доходят до вызывающего кода вместе с контекстом для отката,
// ошибки логирования взаимодействий гасятся на границе адаптера,
// ошибки рекомендаций деградируют до пустого результата.

// NetworkError - транспортный сбой: ответ от marketplace API не был получен вовсе.
// Вызывающий код может предложить пользователю повторить операцию.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ApplicationError - ответ получен, но сервис сообщил об ошибке,
// либо форма ответа не распознана после нормализации.
type ApplicationError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ApplicationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("application error during %s (status %d): %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("application error during %s: %s", e.Op, e.Message)
}

// ValidationError - локальное нарушение предусловия на пользовательском вводе,
// например, пустое или уже занятое имя коллекции.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Message)
}

// PreconditionError - локальное нарушение инварианта состояния,
// например, добавление несохраненного объекта в коллекцию.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed: %s", e.Message)
}

// PartialFailure - основная операция выполнена, но вторичный шаг
// (например, привязка созданного объекта к клиенту) завершился ошибкой.
// Это НЕ полный провал: вызывающий код обязан показать созданную сущность,
// сопроводив ее неблокирующим предупреждением.
type PartialFailure struct {
	Message string
	Err     error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("partial failure: %s: %v", e.Message, e.Err)
}

func (e *PartialFailure) Unwrap() error { return e.Err }
