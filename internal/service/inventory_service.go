package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"zapisnik/internal/domain"
	"zapisnik/internal/models"

	"github.com/rs/zerolog"
)

// InventoryService валидирует ввод оператора перед записью в хранилище.
type InventoryService struct {
	inventory domain.Inventory
	logger    *zerolog.Logger
}

func NewInventoryService(inventory domain.Inventory, logger *zerolog.Logger) *InventoryService {
	return &InventoryService{
		inventory: inventory,
		logger:    logger,
	}
}

func (s *InventoryService) ListServices(ctx context.Context) ([]string, error) {
	return s.inventory.ListServices(ctx)
}

func (s *InventoryService) AddService(ctx context.Context, name string) error {
	return s.inventory.AddService(ctx, strings.TrimSpace(name))
}

func (s *InventoryService) RemoveService(ctx context.Context, name string) error {
	return s.inventory.RemoveService(ctx, strings.TrimSpace(name))
}

func (s *InventoryService) ListTimeSlots(ctx context.Context) ([]string, error) {
	return s.inventory.ListTimeSlots(ctx)
}

// AddTimeSlot принимает только канонический вид ЧЧ:ММ.
func (s *InventoryService) AddTimeSlot(ctx context.Context, value string) error {
	value = strings.TrimSpace(value)
	parsed, err := time.Parse(models.TimeLayout, value)
	if err != nil {
		return fmt.Errorf("invalid time slot %q: %w", value, err)
	}
	return s.inventory.AddTimeSlot(ctx, parsed.Format(models.TimeLayout))
}

func (s *InventoryService) RemoveTimeSlot(ctx context.Context, value string) error {
	return s.inventory.RemoveTimeSlot(ctx, strings.TrimSpace(value))
}

func (s *InventoryService) GetSetting(ctx context.Context, name string) (string, error) {
	return s.inventory.GetSetting(ctx, name)
}

// SetSlotCapacity меняет лимит мест на слот; принимает только положительные числа.
func (s *InventoryService) SetSlotCapacity(ctx context.Context, raw string) error {
	capacity, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || capacity <= 0 {
		return fmt.Errorf("invalid slot capacity %q", raw)
	}
	return s.inventory.SetSetting(ctx, models.SettingSlotCapacity, strconv.Itoa(capacity))
}

func (s *InventoryService) SetRemindersEnabled(ctx context.Context, enabled bool) error {
	return s.inventory.SetSetting(ctx, models.SettingRemindersEnabled, strconv.FormatBool(enabled))
}

func (s *InventoryService) GetSlotCapacity(ctx context.Context) (int, error) {
	return s.inventory.GetSlotCapacity(ctx)
}

func (s *InventoryService) RemindersEnabled(ctx context.Context) (bool, error) {
	return s.inventory.RemindersEnabled(ctx)
}
