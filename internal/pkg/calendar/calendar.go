package calendar

import (
	"Daybook/internal/api/config"
	"Daybook/internal/pkg/consts"
	"fmt"
	"time"
)

// Service 工作日判定。节假日表按自然年人工配置，与周末同等豁免。
// 所有判定都在固定业务时区进行，无副作用。
type Service struct {
	loc      *time.Location
	holidays map[string]string // 日期 YYYY-MM-DD -> 节日名称
}

func NewService(cfg config.CalendarConfig) (*Service, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	holidays := make(map[string]string, len(cfg.Holidays))
	for _, h := range cfg.Holidays {
		if _, err = time.ParseInLocation(consts.DateLayout, h.Date, loc); err != nil {
			return nil, fmt.Errorf("bad holiday date %q: %w", h.Date, err)
		}
		holidays[h.Date] = h.Label
	}

	return &Service{loc: loc, holidays: holidays}, nil
}

// Location 业务时区
func (s *Service) Location() *time.Location {
	return s.loc
}

// Today 把任意时刻换算为业务时区当天零点
func (s *Service) Today(now time.Time) time.Time {
	t := now.In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

// IsBusinessDay 周六、周日或配置节假日返回 false
func (s *Service) IsBusinessDay(date time.Time) bool {
	d := date.In(s.loc)
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	_, isHoliday := s.holidays[d.Format(consts.DateLayout)]
	return !isHoliday
}

// PreviousBusinessDay 返回严格早于 date 的最近一个工作日（当天零点）
func (s *Service) PreviousBusinessDay(date time.Time) time.Time {
	d := s.Today(date).AddDate(0, 0, -1)
	for !s.IsBusinessDay(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// DayWindow 返回 now 所在业务日的半开区间 [start, end)。
// 跨夏令时的日子按真实时钟长度计算，不假定 24 小时。
func (s *Service) DayWindow(now time.Time) (time.Time, time.Time) {
	start := s.Today(now)
	end := start.AddDate(0, 0, 1)
	return start, end
}

// HolidayLabel 节假日名称，非节假日返回空串
func (s *Service) HolidayLabel(date time.Time) string {
	return s.holidays[date.In(s.loc).Format(consts.DateLayout)]
}
