package domain

import "testing"

// Every input must classify; unknown and missing loan types intentionally
// share the refinance bucket with "refinance" itself.
func TestMenuItemForLoanTypeIsTotal(t *testing.T) {
	tests := []struct {
		loanType string
		want     string
	}{
		{"purchase", "dscr_purchase"},
		{"cashout", "dscr_cashout"},
		{"refinance", "dscr_refi"},
		{"", "dscr_refi"},
		{"garbage", "dscr_refi"},
		{"refi", "dscr_refi"},
	}

	for _, tc := range tests {
		got := MenuItemForLoanType(tc.loanType)
		if got != tc.want {
			t.Errorf("MenuItemForLoanType(%q) = %q, want %q", tc.loanType, got, tc.want)
		}
	}
}
