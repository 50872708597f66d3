package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/bojo500/the-reporter/internal/models"
)

// ReportState is the local state a user builds up before submitting: who
// they are, which section they work, and which period they are reporting.
// It plays the role the browser form state does for the web client.
type ReportState struct {
	UserID  int                `json:"userId"`
	Section models.Section     `json:"section"`
	Shift   models.ShiftPeriod `json:"shift"`
	Metrics models.CCSMetrics  `json:"metrics"`
}

// ErrNoReportState is returned when a submission is attempted with no
// prepared state.
var ErrNoReportState = errors.New("no report state: set user, section, and shift first")

// ErrSectionNotWired is returned for sections whose report forms don't
// exist yet; only CCS has one.
var ErrSectionNotWired = errors.New("no report form for this section yet")

// SubmitReport runs the full submission flow: open a shift, then submit
// the filled report against it. This is the same two-step sequence the web
// client performs, so the shift ends up with its seed row plus this one.
func (c *Client) SubmitReport(ctx context.Context, state *ReportState) (*models.CCSReport, error) {
	if state == nil || state.UserID == 0 || state.Section == "" || state.Shift == "" {
		return nil, ErrNoReportState
	}
	if state.Section != models.SectionCCS {
		return nil, ErrSectionNotWired
	}
	if !state.Shift.Valid() {
		return nil, fmt.Errorf("invalid shift period %q", state.Shift)
	}
	for i, v := range state.Metrics.Values() {
		if v < 0 {
			return nil, fmt.Errorf("metric %s must not be negative", models.MetricFieldNames[i])
		}
	}

	shift, err := c.CreateShift(ctx, models.CreateShiftRequest{
		Shift:   state.Shift,
		Section: state.Section,
		UserID:  state.UserID,
	})
	if err != nil {
		return nil, err
	}

	return c.CreateReport(ctx, models.CreateCCSRequest{
		Section:    state.Section,
		ShiftID:    shift.ID,
		UserID:     state.UserID,
		CCSMetrics: state.Metrics,
	})
}
