package models

import "time"

// Service — услуга, на которую можно записаться. Имя уникально.
type Service struct {
	Name      string    `yaml:"name" json:"name"`
	CreatedAt time.Time `yaml:"created_at" json:"created_at"`
}

// TimeSlot — время дня в каноническом виде ЧЧ:ММ. Значение уникально.
type TimeSlot struct {
	Value     string    `yaml:"value" json:"value"`
	CreatedAt time.Time `yaml:"created_at" json:"created_at"`
}

// Catalog описывает стартовый ассортимент из configs/catalog.yaml.
type Catalog struct {
	Services  []string `yaml:"services"`
	TimeSlots []string `yaml:"time_slots"`
}
