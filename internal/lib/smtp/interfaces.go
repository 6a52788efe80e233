// Package smtp предоставляет SMTP-транспорт с STARTTLS и интерфейсы
// сессии, через которые сервис отправки пишет письма.
package smtp

import "io"

// Client — открытая и авторизованная SMTP-сессия. Реализуется *smtp.Client.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Dialer открывает SMTP-сессии и знает адрес отправителя уведомлений.
type Dialer interface {
	Connect() (Client, error)
	Sender() string
}

var _ Dialer = (*Transport)(nil)
