package sheets

import (
	"Daybook/internal/api/config"
	"Daybook/internal/model"
	"context"
	"fmt"
	log "log/slog"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var submissionHeaders = []interface{}{
	"Timestamp", "Date", "Name", "Short-term Projects", "Long-term Projects",
	"Blockers", "Next Day Goals", "Tools Used", "Help Needed", "Client Feedback",
}

var trackerHeaders = []interface{}{"Name", "Slack ID", "Date", "Submitted", "Reminder Count"}

// Client Google Sheets 导出客户端。未配置 sheet_id 时 NewClient 返回 nil，
// 调用方跳过导出即可，导出失败从不影响主流程。
type Client struct {
	srv              *sheets.Service
	sheetID          string
	submissionsSheet string
	trackerSheet     string
	headersReady     bool
}

func NewClient(ctx context.Context, cfg config.SheetsConfig) (*Client, error) {
	if cfg.SheetID == "" {
		log.Info("sheets export disabled: no sheet_id configured")
		return nil, nil
	}

	srv, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("init sheets service: %w", err)
	}

	return &Client{
		srv:              srv,
		sheetID:          cfg.SheetID,
		submissionsSheet: cfg.SubmissionsSheet,
		trackerSheet:     cfg.TrackerSheet,
	}, nil
}

// AppendSubmissions 追加报告行到提交表，首次写入时补表头
func (s *Client) AppendSubmissions(ctx context.Context, reports []*model.EODReport, names map[string]string) error {
	if len(reports) == 0 {
		return nil
	}
	if err := s.ensureHeaders(ctx); err != nil {
		log.WarnContext(ctx, "sheets header init failed", "err", err)
	}

	rows := make([][]interface{}, 0, len(reports))
	for _, r := range reports {
		name := names[r.UserID]
		if name == "" {
			name = r.UserID
		}
		rows = append(rows, []interface{}{
			r.SubmittedAt.Format("2006-01-02 15:04:05"),
			r.Date,
			name,
			r.ShortTermProjects,
			r.LongTermProjects,
			r.Blockers,
			r.NextDayGoals,
			r.ToolsUsed,
			r.HelpNeeded,
			r.ClientFeedback,
		})
	}

	_, err := s.srv.Spreadsheets.Values.
		Append(s.sheetID, s.submissionsSheet+"!A1", &sheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

// UpdateTracker 整表重写跟踪页：表头 + 每人一行
func (s *Client) UpdateTracker(ctx context.Context, rows [][]interface{}) error {
	values := append([][]interface{}{trackerHeaders}, rows...)

	if _, err := s.srv.Spreadsheets.Values.
		Clear(s.sheetID, s.trackerSheet+"!A:Z", &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do(); err != nil {
		return err
	}

	_, err := s.srv.Spreadsheets.Values.
		Update(s.sheetID, s.trackerSheet+"!A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

func (s *Client) ensureHeaders(ctx context.Context) error {
	if s.headersReady {
		return nil
	}

	resp, err := s.srv.Spreadsheets.Values.
		Get(s.sheetID, s.submissionsSheet+"!A1:Z1").
		Context(ctx).
		Do()
	if err != nil {
		return err
	}

	if len(resp.Values) == 0 {
		_, err = s.srv.Spreadsheets.Values.
			Update(s.sheetID, s.submissionsSheet+"!A1", &sheets.ValueRange{Values: [][]interface{}{submissionHeaders}}).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
	}

	s.headersReady = true
	return nil
}
