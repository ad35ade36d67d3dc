package assembly

import (
	"errors"
	"testing"
)

func TestAssignLine_TotalOverValidDates(t *testing.T) {
	for day := 1; day <= 31; day++ {
		for month := 1; month <= 12; month++ {
			line, err := AssignLine(day, month)
			if err != nil {
				t.Fatalf("AssignLine(%d, %d): unexpected error: %v", day, month, err)
			}
			if len(line) != 10 {
				t.Errorf("AssignLine(%d, %d) = %q, want a ten digit number", day, month, line)
			}
		}
	}
}

func TestAssignLine_Deterministic(t *testing.T) {
	a, _ := AssignLine(17, 6)
	b, _ := AssignLine(17, 6)
	if a != b {
		t.Errorf("AssignLine(17, 6) not deterministic: %q vs %q", a, b)
	}
}

func TestAssignLine_Day31CollapsesToLastRow(t *testing.T) {
	// day 31 is the only day with day % 31 == 0; it must land on row 31
	for month := 1; month <= 12; month++ {
		line, err := AssignLine(31, month)
		if err != nil {
			t.Fatalf("AssignLine(31, %d): %v", month, err)
		}
		want := outboundLines[30][month%2]
		if line != want {
			t.Errorf("AssignLine(31, %d) = %q, want %q", month, line, want)
		}
	}
}

func TestAssignLine_KnownAssignments(t *testing.T) {
	cases := []struct {
		day, month int
		want       string
	}{
		{1, 2, "5414078870"},  // row 1, even month
		{1, 1, "4173863088"},  // row 1, odd month
		{31, 2, "7755085530"}, // last row, even month
		{31, 3, "7756186411"}, // last row, odd month
		{7, 12, "2184293566"}, // row 7, even month
	}
	for _, tc := range cases {
		got, err := AssignLine(tc.day, tc.month)
		if err != nil {
			t.Fatalf("AssignLine(%d, %d): %v", tc.day, tc.month, err)
		}
		if got != tc.want {
			t.Errorf("AssignLine(%d, %d) = %q, want %q", tc.day, tc.month, got, tc.want)
		}
	}
}

func TestAssignLine_RejectsInvalidDates(t *testing.T) {
	cases := []struct{ day, month int }{
		{0, 1}, {32, 1}, {-1, 6}, {15, 0}, {15, 13},
	}
	for _, tc := range cases {
		if _, err := AssignLine(tc.day, tc.month); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("AssignLine(%d, %d): expected ErrInvalidDate, got %v", tc.day, tc.month, err)
		}
	}
}

func TestAssignLine_MonthParityOnly(t *testing.T) {
	// months of equal parity map to the same line for a given day
	even, _ := AssignLine(12, 2)
	for _, month := range []int{4, 6, 8, 10, 12} {
		got, _ := AssignLine(12, month)
		if got != even {
			t.Errorf("AssignLine(12, %d) = %q, want %q", month, got, even)
		}
	}
}
