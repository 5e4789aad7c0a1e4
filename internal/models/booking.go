package models

import "time"

// Booking — подтвержденная запись на услугу.
// Date хранится строкой ДД.ММ без года, Time — как метка слота ЧЧ:ММ.
type Booking struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name"`
	Service   string    `json:"service"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	CreatedAt time.Time `json:"created_at"`
}

// SlotKey возвращает ключ слота (дата+время), по которому считается занятость.
func (b *Booking) SlotKey() string {
	return b.Date + " " + b.Time
}
