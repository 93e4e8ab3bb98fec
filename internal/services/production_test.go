package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/doktrace-backend/internal/types"
)

func TestAggregateSplits(t *testing.T) {
	flavourA := uuid.New()
	flavourB := uuid.New()

	splits := []*types.BatchFlavourSplit{
		{FlavourID: flavourA, PackCount: 30, Flavour: &types.Flavour{ID: flavourA, Name: "Mango"}},
		{FlavourID: flavourB, PackCount: 20, Flavour: &types.Flavour{ID: flavourB, Name: "Chilli"}},
		{FlavourID: flavourA, PackCount: 10, Flavour: &types.Flavour{ID: flavourA, Name: "Mango"}},
	}

	totals, grand := AggregateSplits(splits)
	if grand != 60 {
		t.Fatalf("grand total=%d, want 60", grand)
	}
	if len(totals) != 2 {
		t.Fatalf("totals=%+v, want 2 flavours", totals)
	}
	if totals[0].FlavourID != flavourA || totals[0].TotalPacks != 40 {
		t.Fatalf("totals[0]=%+v, want Mango with 40", totals[0])
	}
	if totals[1].FlavourID != flavourB || totals[1].TotalPacks != 20 {
		t.Fatalf("totals[1]=%+v, want Chilli with 20", totals[1])
	}
	if totals[0].FlavourName != "Mango" {
		t.Fatalf("flavour name=%q, want Mango", totals[0].FlavourName)
	}
}

func TestAggregateSplitsEmpty(t *testing.T) {
	totals, grand := AggregateSplits(nil)
	if grand != 0 || len(totals) != 0 {
		t.Fatalf("got totals=%+v grand=%d, want empty", totals, grand)
	}
}

func TestAggregateSplitsStableOrderOnTies(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	totals, _ := AggregateSplits([]*types.BatchFlavourSplit{
		{FlavourID: first, PackCount: 25},
		{FlavourID: second, PackCount: 25},
	})
	if totals[0].FlavourID != first || totals[1].FlavourID != second {
		t.Fatalf("tie order not stable: %+v", totals)
	}
}

func TestIsPackLikeField(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{name: "pack_count", want: true},
		{name: "PacksProduced", want: true},
		{name: "repack_total", want: true},
		{name: "moisture", want: false},
		{name: "", want: false},
	}
	for _, tc := range cases {
		if got := IsPackLikeField(tc.name); got != tc.want {
			t.Fatalf("IsPackLikeField(%q)=%v, want %v", tc.name, got, tc.want)
		}
	}
}
