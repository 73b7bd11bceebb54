package models

type Email struct {
	To      string
	Subject string
	Body    string
}
