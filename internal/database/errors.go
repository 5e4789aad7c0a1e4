package database

import "errors"

var (
	// ErrSlotTaken — на слот (дата+время) уже записано максимальное число человек.
	ErrSlotTaken = errors.New("slot capacity exceeded")
	// ErrNotFound — запись не найдена или уже удалена.
	ErrNotFound = errors.New("booking not found")
	// ErrAlreadyExists — услуга или слот с таким значением уже есть.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnknownSetting — настройка с таким именем не определена.
	ErrUnknownSetting = errors.New("unknown setting")
)
