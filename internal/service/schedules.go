package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/surp29/Backend-PoS/internal/diary"
	"github.com/surp29/Backend-PoS/internal/domain"
)

func (s *Service) ListSchedules(ctx context.Context) ([]domain.Schedule, error) {
	return s.repo.ListSchedules(ctx)
}

func (s *Service) CreateSchedule(ctx context.Context, req domain.ScheduleWriteRequest) (domain.Schedule, error) {
	if err := s.checkRequest(req); err != nil {
		return domain.Schedule{}, err
	}

	sc := domain.Schedule{
		EmployeeName: strings.TrimSpace(req.EmployeeName),
		WorkDate:     req.WorkDate,
		Shift:        req.Shift,
		Position:     req.Position,
		Notes:        req.Notes,
	}

	created, err := s.repo.CreateSchedule(ctx, sc)
	if err != nil {
		return domain.Schedule{}, err
	}

	s.record(ctx, diary.Event{
		Source:      "Schedule",
		Description: fmt.Sprintf("Thêm lịch làm việc cho %s", created.EmployeeName),
	})
	return *created, nil
}

func (s *Service) UpdateSchedule(ctx context.Context, id int64, req domain.ScheduleWriteRequest) (domain.Schedule, error) {
	if err := s.checkRequest(req); err != nil {
		return domain.Schedule{}, err
	}

	existing, err := s.repo.GetScheduleByID(ctx, id)
	if err != nil {
		return domain.Schedule{}, fmt.Errorf("không tìm thấy lịch làm việc: %w", err)
	}

	updated := domain.Schedule{
		ID:           existing.ID,
		EmployeeName: strings.TrimSpace(req.EmployeeName),
		WorkDate:     req.WorkDate,
		Shift:        req.Shift,
		Position:     req.Position,
		Notes:        req.Notes,
	}

	persisted, err := s.repo.UpdateSchedule(ctx, updated)
	if err != nil {
		return domain.Schedule{}, err
	}

	s.record(ctx, diary.Event{
		Source:      "Schedule",
		Description: fmt.Sprintf("Cập nhật lịch làm việc của %s", persisted.EmployeeName),
	})
	return *persisted, nil
}

func (s *Service) DeleteSchedule(ctx context.Context, id int64) error {
	existing, err := s.repo.GetScheduleByID(ctx, id)
	if err != nil {
		return fmt.Errorf("không tìm thấy lịch làm việc: %w", err)
	}

	if err := s.repo.DeleteSchedule(ctx, id); err != nil {
		return err
	}

	s.record(ctx, diary.Event{
		Source:      "Schedule",
		Description: fmt.Sprintf("Xóa lịch làm việc của %s", existing.EmployeeName),
	})
	return nil
}
