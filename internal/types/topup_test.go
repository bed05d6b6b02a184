package types

import "testing"

func TestTopupStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from TopupStatus
		to   TopupStatus
		want bool
	}{
		{TopupStatusPending, TopupStatusRunning, true},
		{TopupStatusPending, TopupStatusFinished, false},
		{TopupStatusPending, TopupStatusFailed, false},
		{TopupStatusRunning, TopupStatusFinished, true},
		{TopupStatusRunning, TopupStatusFailed, true},
		{TopupStatusRunning, TopupStatusPending, false},
		{TopupStatusFinished, TopupStatusRunning, false},
		{TopupStatusFinished, TopupStatusFailed, false},
		{TopupStatusFailed, TopupStatusRunning, false},
		{TopupStatusFailed, TopupStatusPending, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestTopupStatusIsTerminal(t *testing.T) {
	if TopupStatusPending.IsTerminal() || TopupStatusRunning.IsTerminal() {
		t.Error("pending and running must not be terminal")
	}
	if !TopupStatusFinished.IsTerminal() || !TopupStatusFailed.IsTerminal() {
		t.Error("finished and failed must be terminal")
	}
}

func TestAdjustmentScopeValidate(t *testing.T) {
	if err := AdjustmentScopeDeveloper.Validate(); err != nil {
		t.Errorf("DEVELOPER should be valid: %v", err)
	}
	if err := AdjustmentScopeCompany.Validate(); err != nil {
		t.Errorf("COMPANY should be valid: %v", err)
	}
	if err := AdjustmentScope("TEAM").Validate(); err == nil {
		t.Error("TEAM should be rejected")
	}
}
