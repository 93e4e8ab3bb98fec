package types

type BatchStatus string

const (
	BatchCreated    BatchStatus = "CREATED"
	BatchInProgress BatchStatus = "IN_PROGRESS"
	BatchQcPending  BatchStatus = "QC_PENDING"
	BatchQcApproved BatchStatus = "QC_APPROVED"
	BatchQcRejected BatchStatus = "QC_REJECTED"
	BatchPackaged   BatchStatus = "PACKAGED"
	BatchShipped    BatchStatus = "SHIPPED"
	BatchRecalled   BatchStatus = "RECALLED"
)

func (s BatchStatus) Valid() bool {
	switch s {
	case BatchCreated, BatchInProgress, BatchQcPending, BatchQcApproved,
		BatchQcRejected, BatchPackaged, BatchShipped, BatchRecalled:
		return true
	}
	return false
}

// userTransitions are the forward edges a user may drive directly.
// QC_PENDING -> QC_APPROVED/QC_REJECTED is owned by the QC submission path
// and is deliberately absent here.
var userTransitions = map[BatchStatus][]BatchStatus{
	BatchCreated:    {BatchInProgress},
	BatchInProgress: {BatchQcPending},
	BatchQcApproved: {BatchPackaged},
	BatchPackaged:   {BatchShipped},
}

// CanUserTransition reports whether a user-initiated move from one status to
// another is legal. RECALLED is an exceptional override reachable from any
// state except itself.
func CanUserTransition(from, to BatchStatus) bool {
	if to == BatchRecalled {
		return from != BatchRecalled
	}
	for _, next := range userTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
