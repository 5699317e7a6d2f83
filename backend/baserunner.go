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
	"encoding/json"
	"fmt"
)

// Base is a position on the basepaths. Bases are ordered
// BaseFirst < BaseSecond < BaseThird < BaseHome so advancement can be
// computed arithmetically. BaseHome is never a key in a BaseRunnerMap;
// reaching it means the runner scored. BaseNone is the batter's box.
type Base int

// Bases
const (
	BaseNone Base = iota
	BaseFirst
	BaseSecond
	BaseThird
	BaseHome
)

var baseNames = map[Base]string{
	BaseNone:   "NONE",
	BaseFirst:  "FIRST",
	BaseSecond: "SECOND",
	BaseThird:  "THIRD",
	BaseHome:   "HOME",
}

var basesByName = map[string]Base{
	"NONE":   BaseNone,
	"FIRST":  BaseFirst,
	"SECOND": BaseSecond,
	"THIRD":  BaseThird,
	"HOME":   BaseHome,
}

func (b Base) String() string {
	if s, ok := baseNames[b]; ok {
		return s
	}
	return fmt.Sprintf("Base(%d)", int(b))
}

// MarshalText implements encoding.TextMarshaler so BaseRunnerMap keys
// serialize as readable names.
func (b Base) MarshalText() ([]byte, error) {
	s, ok := baseNames[b]
	if !ok {
		return nil, fmt.Errorf("invalid base %d", int(b))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Base) UnmarshalText(data []byte) error {
	v, ok := basesByName[string(data)]
	if !ok {
		return fmt.Errorf("invalid base %q", string(data))
	}
	*b = v
	return nil
}

// occupiableBases are the bases a runner can stand on, in home-to-first
// order. Default advancement always processes the lead runner first so
// a trailing runner never overwrites the runner ahead.
var occupiableBases = []Base{BaseThird, BaseSecond, BaseFirst}

// BaseRunnerMap maps an occupied base to the id of the runner standing
// on it. The map is injective: a runner id appears at most once.
type BaseRunnerMap map[Base]string

// Clone returns an independent copy of the map.
func (m BaseRunnerMap) Clone() BaseRunnerMap {
	out := make(BaseRunnerMap, len(m))
	for b, id := range m {
		out[b] = id
	}
	return out
}

// BaseOf returns the base the runner currently occupies, or BaseNone.
func (m BaseRunnerMap) BaseOf(runnerID string) Base {
	for b, id := range m {
		if id == runnerID {
			return b
		}
	}
	return BaseNone
}

// LeadBase returns the occupied base closest to home, or BaseNone when
// the bases are empty.
func (m BaseRunnerMap) LeadBase() Base {
	for _, b := range occupiableBases {
		if _, ok := m[b]; ok {
			return b
		}
	}
	return BaseNone
}

// MarshalJSON keeps the on-disk representation stable (object keyed by
// base name) even though the Go key type is an int.
func (m BaseRunnerMap) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, len(m))
	for b, id := range m {
		out[b.String()] = id
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (m *BaseRunnerMap) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(BaseRunnerMap, len(raw))
	for name, id := range raw {
		b, ok := basesByName[name]
		if !ok {
			return fmt.Errorf("invalid base %q", name)
		}
		out[b] = id
	}
	*m = out
	return nil
}

// getNewBase returns the base a runner ends on after advancing
// numAdvanced bases. Any forward advance from third scores. A negative
// advance retreats one base at a time.
func getNewBase(base Base, numAdvanced int) Base {
	if numAdvanced < 0 {
		for ; numAdvanced < 0; numAdvanced++ {
			base = getPreviousBase(base)
		}
		return base
	}
	b := base + Base(numAdvanced)
	if b >= BaseHome {
		return BaseHome
	}
	return b
}

// getPreviousBase returns the base one behind the given base.
func getPreviousBase(base Base) Base {
	if base <= BaseNone {
		return BaseNone
	}
	return base - 1
}

// moveRunner relocates the runner standing on startBase. An endBase of
// BaseHome (or beyond) removes the runner from the basepaths and
// reports scored=true.
func moveRunner(runners BaseRunnerMap, startBase, endBase Base) (scored bool) {
	id, ok := runners[startBase]
	if !ok {
		return false
	}
	delete(runners, startBase)
	if endBase == BaseNone || endBase >= BaseHome {
		return true
	}
	runners[endBase] = id
	return false
}

// mustRunnerAdvance reports whether the runner on base is forced to
// advance when the batter ends up on batterEndBase. The force rule is a
// backward chain: a runner is forced if its base is at or behind the
// batter's resulting base, or if the base directly behind it holds a
// runner who is itself forced. Bases loaded forces everyone; a gap in
// the chain releases every runner ahead of it.
func mustRunnerAdvance(base Base, runners BaseRunnerMap, batterEndBase Base) bool {
	if base <= batterEndBase {
		return true
	}
	prev := getPreviousBase(base)
	if prev == BaseNone {
		return false
	}
	if _, ok := runners[prev]; !ok {
		return false
	}
	return mustRunnerAdvance(prev, runners, batterEndBase)
}

// numBasesForPlateAppearance returns how many bases the batter is
// awarded for a plate appearance that reaches base via the default
// advancement rule. Zero means the default rule does not apply.
func numBasesForPlateAppearance(paType PlateAppearanceType) int {
	switch paType {
	case PATypeWalk, PATypeSingle:
		return 1
	case PATypeDouble:
		return 2
	case PATypeTriple:
		return 3
	case PATypeHomerun:
		return 4
	}
	return 0
}

// advanceForcedRunners applies one iteration of forced advancement,
// lead runner first. Runners pushed past third are removed and
// appended to scored.
func advanceForcedRunners(runners BaseRunnerMap, batterEndBase Base, scored []string) []string {
	for _, b := range occupiableBases {
		id, ok := runners[b]
		if !ok {
			continue
		}
		if !mustRunnerAdvance(b, runners, batterEndBase) {
			continue
		}
		next := getNewBase(b, 1)
		delete(runners, b)
		if next == BaseHome {
			scored = append(scored, id)
		} else {
			runners[next] = id
		}
	}
	return scored
}

// getDefaultRunnersAfterPlateAppearance computes the default base state
// after a plate appearance that awards bases (walk, single, double,
// triple, homerun). Forced runners are pushed one base per iteration;
// the batter takes first after the first iteration and is then pushed
// along like any other runner. Returns the new map and the ids of
// runners who scored, in scoring order.
func getDefaultRunnersAfterPlateAppearance(runners BaseRunnerMap, paType PlateAppearanceType, batterID string) (BaseRunnerMap, []string) {
	n := numBasesForPlateAppearance(paType)
	out := runners.Clone()
	var scored []string
	for i := 0; i < n; i++ {
		scored = advanceForcedRunners(out, BaseFirst, scored)
		if i == 0 {
			out[BaseFirst] = batterID
		}
	}
	return out, scored
}

// moveRunnersOnGroundBall applies a single iteration of forced
// advancement with no batter placement. Used for the base effects of
// outs, fielder's choices and double plays.
func moveRunnersOnGroundBall(runners BaseRunnerMap) (BaseRunnerMap, []string) {
	out := runners.Clone()
	scored := advanceForcedRunners(out, BaseFirst, nil)
	return out, scored
}

// getAvailableBases returns the bases strictly between base and the
// next occupied base ahead of it, ending at BaseHome when no runner is
// ahead. nextOccupied of BaseNone means nobody is ahead.
func getAvailableBases(base, nextOccupied Base) []Base {
	limit := nextOccupied
	if limit == BaseNone {
		limit = BaseHome + 1
	}
	var out []Base
	for b := base + 1; b <= BaseHome && b < limit; b++ {
		out = append(out, b)
	}
	return out
}
