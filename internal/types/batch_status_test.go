package types

import "testing"

func TestCanUserTransition(t *testing.T) {
	cases := []struct {
		name string
		from BatchStatus
		to   BatchStatus
		want bool
	}{
		{name: "created_to_in_progress", from: BatchCreated, to: BatchInProgress, want: true},
		{name: "in_progress_to_qc_pending", from: BatchInProgress, to: BatchQcPending, want: true},
		{name: "qc_approved_to_packaged", from: BatchQcApproved, to: BatchPackaged, want: true},
		{name: "packaged_to_shipped", from: BatchPackaged, to: BatchShipped, want: true},
		{name: "created_cannot_skip_to_qc_pending", from: BatchCreated, to: BatchQcPending, want: false},
		{name: "qc_pending_to_approved_not_user_driven", from: BatchQcPending, to: BatchQcApproved, want: false},
		{name: "qc_pending_to_rejected_not_user_driven", from: BatchQcPending, to: BatchQcRejected, want: false},
		{name: "qc_rejected_is_terminal_forward", from: BatchQcRejected, to: BatchPackaged, want: false},
		{name: "no_backwards_move", from: BatchQcPending, to: BatchInProgress, want: false},
		{name: "recall_from_created", from: BatchCreated, to: BatchRecalled, want: true},
		{name: "recall_from_shipped", from: BatchShipped, to: BatchRecalled, want: true},
		{name: "recall_from_qc_rejected", from: BatchQcRejected, to: BatchRecalled, want: true},
		{name: "cannot_recall_recalled", from: BatchRecalled, to: BatchRecalled, want: false},
		{name: "recalled_is_terminal", from: BatchRecalled, to: BatchInProgress, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CanUserTransition(tc.from, tc.to)
			if got != tc.want {
				t.Fatalf("CanUserTransition(%s, %s)=%v, want %v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestBatchStatusValid(t *testing.T) {
	for _, s := range []BatchStatus{
		BatchCreated, BatchInProgress, BatchQcPending, BatchQcApproved,
		BatchQcRejected, BatchPackaged, BatchShipped, BatchRecalled,
	} {
		if !s.Valid() {
			t.Fatalf("expected %s to be valid", s)
		}
	}
	if BatchStatus("DRAFT").Valid() {
		t.Fatal("expected DRAFT to be invalid")
	}
	if BatchStatus("").Valid() {
		t.Fatal("expected empty status to be invalid")
	}
}
