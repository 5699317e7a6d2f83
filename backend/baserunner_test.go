// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import (
	"reflect"
	"testing"
)

func TestGetNewBase(t *testing.T) {
	tests := []struct {
		name     string
		base     Base
		advanced int
		want     Base
	}{
		{"FirstPlusOne", BaseFirst, 1, BaseSecond},
		{"FirstPlusTwo", BaseFirst, 2, BaseThird},
		{"ThirdPlusOne", BaseThird, 1, BaseHome},
		{"ThirdPlusTwo", BaseThird, 2, BaseHome},
		{"SecondPlusThree", BaseSecond, 3, BaseHome},
		{"NoAdvance", BaseSecond, 0, BaseSecond},
		{"RetreatOne", BaseThird, -1, BaseSecond},
		{"RetreatPastFirst", BaseFirst, -2, BaseNone},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := getNewBase(tc.base, tc.advanced); got != tc.want {
				t.Errorf("getNewBase(%s, %d) = %s, want %s", tc.base, tc.advanced, got, tc.want)
			}
		})
	}
}

func TestMustRunnerAdvance(t *testing.T) {
	t.Run("BasesLoaded", func(t *testing.T) {
		runners := BaseRunnerMap{BaseFirst: "r1", BaseSecond: "r2", BaseThird: "r3"}
		for _, b := range []Base{BaseFirst, BaseSecond, BaseThird} {
			if !mustRunnerAdvance(b, runners, BaseFirst) {
				t.Errorf("Expected runner on %s to be forced with the bases loaded", b)
			}
		}
	})

	t.Run("IsolatedRunnerOnThird", func(t *testing.T) {
		runners := BaseRunnerMap{BaseThird: "r3"}
		if mustRunnerAdvance(BaseThird, runners, BaseFirst) {
			t.Error("Runner on third with second open should not be forced")
		}
	})

	t.Run("GapReleasesTheChain", func(t *testing.T) {
		// First and third occupied: only the runner on first is forced.
		runners := BaseRunnerMap{BaseFirst: "r1", BaseThird: "r3"}
		if !mustRunnerAdvance(BaseFirst, runners, BaseFirst) {
			t.Error("Runner on first should be forced by the batter")
		}
		if mustRunnerAdvance(BaseThird, runners, BaseFirst) {
			t.Error("Runner on third should not be forced across the gap at second")
		}
	})

	t.Run("NoBatterNoForce", func(t *testing.T) {
		runners := BaseRunnerMap{BaseFirst: "r1", BaseSecond: "r2"}
		if mustRunnerAdvance(BaseSecond, runners, BaseNone) {
			t.Error("No runner is forced when the batter does not reach base")
		}
	})
}

func TestMoveRunner(t *testing.T) {
	t.Run("SimpleAdvance", func(t *testing.T) {
		runners := BaseRunnerMap{BaseFirst: "r1"}
		if scored := moveRunner(runners, BaseFirst, BaseSecond); scored {
			t.Error("Advance to second should not score")
		}
		if runners[BaseSecond] != "r1" {
			t.Errorf("Expected r1 on second, got %v", runners)
		}
		if _, ok := runners[BaseFirst]; ok {
			t.Error("First base should be vacated")
		}
	})

	t.Run("AdvanceHomeScores", func(t *testing.T) {
		runners := BaseRunnerMap{BaseThird: "r3"}
		if scored := moveRunner(runners, BaseThird, BaseHome); !scored {
			t.Error("Reaching home should score")
		}
		if len(runners) != 0 {
			t.Errorf("Scored runner should leave the basepaths, got %v", runners)
		}
	})

	t.Run("EmptyStartBase", func(t *testing.T) {
		runners := BaseRunnerMap{BaseFirst: "r1"}
		if scored := moveRunner(runners, BaseSecond, BaseThird); scored {
			t.Error("Moving from an empty base should be a no-op")
		}
		if !reflect.DeepEqual(runners, BaseRunnerMap{BaseFirst: "r1"}) {
			t.Errorf("Map should be unchanged, got %v", runners)
		}
	})
}

func TestGetDefaultRunnersAfterPlateAppearance(t *testing.T) {
	tests := []struct {
		name       string
		runners    BaseRunnerMap
		paType     PlateAppearanceType
		want       BaseRunnerMap
		wantScored []string
	}{
		{
			name:    "SingleEmptyBases",
			runners: BaseRunnerMap{},
			paType:  PATypeSingle,
			want:    BaseRunnerMap{BaseFirst: "batter"},
		},
		{
			name:    "WalkRunnerOnThirdHolds",
			runners: BaseRunnerMap{BaseThird: "r3"},
			paType:  PATypeWalk,
			want:    BaseRunnerMap{BaseFirst: "batter", BaseThird: "r3"},
		},
		{
			name:       "WalkBasesLoaded",
			runners:    BaseRunnerMap{BaseFirst: "r1", BaseSecond: "r2", BaseThird: "r3"},
			paType:     PATypeWalk,
			want:       BaseRunnerMap{BaseFirst: "batter", BaseSecond: "r1", BaseThird: "r2"},
			wantScored: []string{"r3"},
		},
		{
			name:    "DoubleRunnerOnFirst",
			runners: BaseRunnerMap{BaseFirst: "r1"},
			paType:  PATypeDouble,
			want:    BaseRunnerMap{BaseSecond: "batter", BaseThird: "r1"},
		},
		{
			name:    "DoubleRunnerOnThirdHolds",
			runners: BaseRunnerMap{BaseThird: "r3"},
			paType:  PATypeDouble,
			want:    BaseRunnerMap{BaseSecond: "batter", BaseThird: "r3"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, scored := getDefaultRunnersAfterPlateAppearance(tc.runners, tc.paType, "batter")
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Runners = %v, want %v", got, tc.want)
			}
			if !reflect.DeepEqual(scored, tc.wantScored) && len(scored)+len(tc.wantScored) > 0 {
				t.Errorf("Scored = %v, want %v", scored, tc.wantScored)
			}
		})
	}
}

func TestMoveRunnersOnGroundBall(t *testing.T) {
	t.Run("BasesLoadedAllForced", func(t *testing.T) {
		runners := BaseRunnerMap{BaseFirst: "r1", BaseSecond: "r2", BaseThird: "r3"}
		got, scored := moveRunnersOnGroundBall(runners)
		want := BaseRunnerMap{BaseSecond: "r1", BaseThird: "r2"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Runners = %v, want %v", got, want)
		}
		if !reflect.DeepEqual(scored, []string{"r3"}) {
			t.Errorf("Scored = %v, want [r3]", scored)
		}
	})

	t.Run("UnforcedRunnersHold", func(t *testing.T) {
		runners := BaseRunnerMap{BaseSecond: "r2"}
		got, scored := moveRunnersOnGroundBall(runners)
		if !reflect.DeepEqual(got, runners) {
			t.Errorf("Runners = %v, want %v", got, runners)
		}
		if len(scored) != 0 {
			t.Errorf("Scored = %v, want none", scored)
		}
	})
}

func TestGetAvailableBases(t *testing.T) {
	tests := []struct {
		name         string
		base         Base
		nextOccupied Base
		want         []Base
	}{
		{"FirstNobodyAhead", BaseFirst, BaseNone, []Base{BaseSecond, BaseThird, BaseHome}},
		{"FirstBlockedAtSecond", BaseFirst, BaseSecond, nil},
		{"FirstRunnerOnThird", BaseFirst, BaseThird, []Base{BaseSecond}},
		{"ThirdNobodyAhead", BaseThird, BaseNone, []Base{BaseHome}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := getAvailableBases(tc.base, tc.nextOccupied)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("getAvailableBases(%s, %s) = %v, want %v", tc.base, tc.nextOccupied, got, tc.want)
			}
		})
	}
}

func TestBaseRunnerMapLeadBase(t *testing.T) {
	if got := (BaseRunnerMap{}).LeadBase(); got != BaseNone {
		t.Errorf("Empty map LeadBase = %s, want NONE", got)
	}
	m := BaseRunnerMap{BaseFirst: "r1", BaseThird: "r3"}
	if got := m.LeadBase(); got != BaseThird {
		t.Errorf("LeadBase = %s, want THIRD", got)
	}
}
