package model

import "testing"

func TestSchedule_Transition(t *testing.T) {
	tests := []struct {
		name       string
		from       ScheduleStatus
		to         ScheduleStatus
		wantErr    bool
		wantStamp  bool
	}{
		{"draft to preview", StatusDraft, StatusPreview, false, false},
		{"preview to confirmed sets stamp", StatusPreview, StatusConfirmed, false, true},
		{"confirmed to published", StatusConfirmed, StatusPublished, false, false},
		{"published back to draft", StatusPublished, StatusDraft, false, false},
		{"confirmed back to draft", StatusConfirmed, StatusDraft, false, false},
		{"draft cannot confirm directly", StatusDraft, StatusConfirmed, true, false},
		{"preview cannot publish directly", StatusPreview, StatusPublished, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Schedule{Status: tt.from}
			err := s.Transition(tt.to)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Transition(%s) error = %v, wantErr %v", tt.to, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if s.Status != tt.to {
				t.Errorf("status = %s, expected %s", s.Status, tt.to)
			}
			if tt.wantStamp && s.ConfirmedAt == nil {
				t.Error("expected ConfirmedAt to be set")
			}
			if !tt.wantStamp && s.ConfirmedAt != nil {
				t.Error("expected ConfirmedAt to stay nil")
			}
		})
	}
}

func TestAssignment_Key(t *testing.T) {
	d, _ := ParseISODate("2026-03-02")
	a := &Assignment{EmployeeID: 7, Date: d}
	k := a.Key()
	if k.EmployeeID != 7 || k.Date != "2026-03-02" {
		t.Errorf("Key() = %+v, unexpected", k)
	}
}

func TestOff(t *testing.T) {
	d, _ := ParseISODate("2026-03-02")
	a := Off(1, 2, d)
	if !a.IsOff() {
		t.Error("expected Off() assignment to report IsOff")
	}
	if a.JobCategoryID != nil {
		t.Error("expected nil job category for an off assignment")
	}
	if !a.HeadcountValue.IsZero() {
		t.Error("expected zero headcount for an off assignment")
	}
}
