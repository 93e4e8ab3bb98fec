package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	apperrors "github.com/yungbote/doktrace-backend/internal/pkg/errors"
)

func TestCheckReorderSet(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	current := map[uuid.UUID]int{a: 1, b: 2, c: 3}

	tests := []struct {
		name    string
		ordered []uuid.UUID
		wantErr bool
	}{
		{name: "full_permutation", ordered: []uuid.UUID{c, a, b}, wantErr: false},
		{name: "identity", ordered: []uuid.UUID{a, b, c}, wantErr: false},
		{name: "missing_id", ordered: []uuid.UUID{a, b}, wantErr: true},
		{name: "unknown_id", ordered: []uuid.UUID{a, b, uuid.New()}, wantErr: true},
		{name: "duplicate_id", ordered: []uuid.UUID{a, b, b}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := checkReorderSet(current, tc.ordered, "ids")
			if tc.wantErr {
				if !errors.Is(err, apperrors.ErrInvalidArgument) {
					t.Fatalf("err=%v, want validation error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
