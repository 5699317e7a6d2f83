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

// The prompt tree asks the minimal follow-up questions needed to turn
// a bare plate appearance type into a fully specified PlateAppearance.
// The full outcome space is large, but the legal follow-ups are always
// determined by the type, the contact quality and the upstream runner
// choices, so the tree unfolds lazily: each node carries the data it
// needs to compute its successor and nothing else is materialized.
//
// Nodes are plain data with an explicit Next function; nothing is
// captured in closures, so a half-walked tree can be inspected,
// serialized or simply discarded without touching committed state.

// PromptKind discriminates the prompt variants.
type PromptKind string

// Prompt Kinds
const (
	PromptHit            PromptKind = "HIT"
	PromptOut            PromptKind = "OUT"
	PromptSacrificeFly   PromptKind = "SACRIFICE_FLY"
	PromptFieldersChoice PromptKind = "FIELDERS_CHOICE"
	PromptDoublePlay     PromptKind = "DOUBLE_PLAY"
)

// PromptAsk identifies which choice a node collects.
type PromptAsk string

// Prompt Asks
const (
	AskContact   PromptAsk = "CONTACT"
	AskFielder   PromptAsk = "FIELDER"
	AskOutOnPlay PromptAsk = "OUT_ON_PLAY"
	AskRBICount  PromptAsk = "RBI_COUNT"
	AskRunners   PromptAsk = "RUNNERS"
)

// PromptChoice carries the value the UI collected for a node. Only the
// field matching the node's Ask is read.
type PromptChoice struct {
	Contact   ContactQuality
	Fielder   FieldingPosition
	OutOnPlay []string
	RBICount  int
}

// PromptNode is one question of the decision tree. Exactly one option
// set (matching Ask) is populated. A node with Ask of AskRunners
// exposes the head of the runner-advancement chain; the UI walks the
// chain via RunnerOptions.Trailing and then calls Next once to obtain
// the question after the chain, if any.
type PromptNode struct {
	Kind PromptKind
	Ask  PromptAsk

	ContactOptions   []ContactQuality
	FielderOptions   []FieldingPosition
	OutOnPlayOptions []string
	RBIOptions       []int
	RunnerOptions    *RunnerOptions

	// NumOutsRequired is how many out-on-play runners must be selected
	// (1 for a fielder's choice, 2 for a double play).
	NumOutsRequired int

	ctx promptContext
}

// promptContext is the explicit state threaded between nodes.
type promptContext struct {
	paType           PlateAppearanceType
	outs             int
	runners          BaseRunnerMap
	batterID         string
	occupied         []FieldingPosition
	deadBallEndsPlay bool

	// upstream answers
	contact   ContactQuality
	outOnPlay []string
}

// buildPrompt returns the first node of the decision tree for the
// given plate appearance type, or nil when no follow-up question is
// needed (a walk is fully specified by its type alone).
func buildPrompt(paType PlateAppearanceType, outs int, runners BaseRunnerMap, batterID string, occupied []FieldingPosition, deadBallEndsPlay bool) *PromptNode {
	ctx := promptContext{
		paType:           paType,
		outs:             outs,
		runners:          runners.Clone(),
		batterID:         batterID,
		occupied:         occupied,
		deadBallEndsPlay: deadBallEndsPlay,
	}

	switch paType {
	case PATypeWalk:
		return nil

	case PATypeHomerun:
		return &PromptNode{
			Kind:           PromptHit,
			Ask:            AskContact,
			ContactOptions: append([]ContactQuality(nil), homerunContacts...),
			ctx:            ctx,
		}

	case PATypeOut:
		opts := []ContactQuality{
			ContactNone, ContactGrounder, ContactPopup,
			ContactLineDrive, ContactFlyBall, ContactLongFly, ContactFoul,
		}
		if deadBallEndsPlay {
			opts = append(opts, ContactDeadBall)
		}
		return &PromptNode{Kind: PromptOut, Ask: AskContact, ContactOptions: opts, ctx: ctx}

	case PATypeSacrificeFly:
		return &PromptNode{
			Kind:           PromptSacrificeFly,
			Ask:            AskFielder,
			FielderOptions: filterPositions(outfieldOnly, occupied),
			ctx:            ctx,
		}

	case PATypeFieldersChoice:
		ids := runnerIDsInBaseOrder(runners)
		if len(ids) == 1 {
			// Only one possible out; skip straight to the fielder.
			ctx.outOnPlay = ids
			return fieldersChoiceFielderNode(ctx)
		}
		return &PromptNode{
			Kind:             PromptFieldersChoice,
			Ask:              AskOutOnPlay,
			OutOnPlayOptions: ids,
			NumOutsRequired:  1,
			ctx:              ctx,
		}

	case PATypeDoublePlay:
		return &PromptNode{
			Kind:           PromptDoublePlay,
			Ask:            AskContact,
			ContactOptions: append([]ContactQuality(nil), liveBallContacts...),
			ctx:            ctx,
		}

	default: // single, double, triple
		return &PromptNode{
			Kind:           PromptHit,
			Ask:            AskContact,
			ContactOptions: append([]ContactQuality(nil), liveBallContacts...),
			ctx:            ctx,
		}
	}
}

// Next computes the successor node from the collected choice. A nil
// result means the walk is complete and the PlateAppearance can be
// assembled from the collected answers.
func (n *PromptNode) Next(choice PromptChoice) *PromptNode {
	switch n.Ask {
	case AskContact:
		return n.nextAfterContact(choice.Contact)
	case AskFielder:
		return n.nextAfterFielder()
	case AskOutOnPlay:
		return n.nextAfterOutOnPlay(choice.OutOnPlay)
	case AskRBICount:
		return n.nextAfterRBICount(choice.RBICount)
	case AskRunners:
		return n.nextAfterRunners()
	}
	return nil
}

func (n *PromptNode) nextAfterContact(c ContactQuality) *PromptNode {
	ctx := n.ctx
	ctx.contact = c

	switch n.Kind {
	case PromptHit:
		if ctx.paType == PATypeHomerun {
			// Fielder is informational only; a homerun always clears
			// the bases, so no runner questions follow.
			return fielderNodeOrNil(PromptHit, ctx, filterPositions(outfieldOnly, ctx.occupied), nil)
		}
		// Hits ask about runners first, against the default post-hit
		// positions, then about the fielder.
		work, _ := getDefaultRunnersAfterPlateAppearance(ctx.runners, ctx.paType, ctx.batterID)
		if ro := getRunnerOptions(work, ctx.outs); ro != nil {
			return &PromptNode{Kind: PromptHit, Ask: AskRunners, RunnerOptions: ro, ctx: ctx}
		}
		return hitFielderNode(ctx)

	case PromptOut:
		opts := intersectPositions(fieldersForContact(c, false), ctx.occupied)
		if len(opts) > 0 {
			return &PromptNode{Kind: PromptOut, Ask: AskFielder, FielderOptions: opts, ctx: ctx}
		}
		return outRunnersNode(ctx)

	case PromptDoublePlay:
		opts := intersectPositions(fieldersForContact(c, false), ctx.occupied)
		if len(opts) > 0 {
			return &PromptNode{Kind: PromptDoublePlay, Ask: AskFielder, FielderOptions: opts, ctx: ctx}
		}
		return doublePlayOutsNode(ctx)
	}
	return nil
}

func (n *PromptNode) nextAfterFielder() *PromptNode {
	ctx := n.ctx
	switch n.Kind {
	case PromptHit:
		// Fielder is the last question for a hit.
		return nil
	case PromptOut:
		return outRunnersNode(ctx)
	case PromptSacrificeFly:
		numRunners := len(ctx.runners)
		if numRunners > 1 {
			opts := make([]int, 0, numRunners)
			for i := 1; i <= numRunners; i++ {
				opts = append(opts, i)
			}
			return &PromptNode{Kind: PromptSacrificeFly, Ask: AskRBICount, RBIOptions: opts, ctx: ctx}
		}
		return sacrificeFlyRunnersNode(ctx, 1)
	case PromptFieldersChoice:
		return fieldersChoiceRunnersNode(ctx)
	case PromptDoublePlay:
		return doublePlayOutsNode(ctx)
	}
	return nil
}

func (n *PromptNode) nextAfterOutOnPlay(chosen []string) *PromptNode {
	ctx := n.ctx
	switch n.Kind {
	case PromptFieldersChoice:
		ctx.outOnPlay = chosen[:1]
		return fieldersChoiceFielderNode(ctx)
	case PromptDoublePlay:
		if len(chosen) > 2 {
			// Keep the two most recently selected.
			chosen = chosen[len(chosen)-2:]
		}
		ctx.outOnPlay = chosen
		return doublePlayRunnersNode(ctx)
	}
	return nil
}

func (n *PromptNode) nextAfterRBICount(count int) *PromptNode {
	return sacrificeFlyRunnersNode(n.ctx, count)
}

func (n *PromptNode) nextAfterRunners() *PromptNode {
	if n.Kind == PromptHit && n.ctx.paType != PATypeHomerun {
		return hitFielderNode(n.ctx)
	}
	return nil
}

func hitFielderNode(ctx promptContext) *PromptNode {
	return fielderNodeOrNil(PromptHit, ctx, intersectPositions(fieldersForContact(ctx.contact, true), ctx.occupied), nil)
}

func fieldersChoiceFielderNode(ctx promptContext) *PromptNode {
	opts := intersectPositions(fieldersForContact(ContactGrounder, false), ctx.occupied)
	return fielderNodeOrNil(PromptFieldersChoice, ctx, opts, fieldersChoiceRunnersNode)
}

// fielderNodeOrNil returns a fielder node, or skips ahead when no
// candidate position is occupied.
func fielderNodeOrNil(kind PromptKind, ctx promptContext, opts []FieldingPosition, skip func(promptContext) *PromptNode) *PromptNode {
	if len(opts) == 0 {
		if skip != nil {
			return skip(ctx)
		}
		return nil
	}
	return &PromptNode{Kind: kind, Ask: AskFielder, FielderOptions: opts, ctx: ctx}
}

// outRunnersNode builds the runner-advancement question after an out,
// unless the play ends the inning or the ball is dead.
func outRunnersNode(ctx promptContext) *PromptNode {
	if ctx.outs >= 2 || ctx.contact == ContactDeadBall {
		return nil
	}
	work := ctx.runners.Clone()
	if ctx.contact == ContactGrounder {
		work, _ = moveRunnersOnGroundBall(ctx.runners)
	}
	if ro := getRunnerOptions(work, ctx.outs+1); ro != nil {
		return &PromptNode{Kind: PromptOut, Ask: AskRunners, RunnerOptions: ro, ctx: ctx}
	}
	return nil
}

func sacrificeFlyRunnersNode(ctx promptContext, rbiCount int) *PromptNode {
	work := ctx.runners.Clone()
	for i := 0; i < rbiCount; i++ {
		if lead := work.LeadBase(); lead != BaseNone {
			delete(work, lead)
		}
	}
	if ro := getRunnerOptions(work, ctx.outs+1); ro != nil {
		return &PromptNode{Kind: PromptSacrificeFly, Ask: AskRunners, RunnerOptions: ro, ctx: ctx}
	}
	return nil
}

func fieldersChoiceRunnersNode(ctx promptContext) *PromptNode {
	if ctx.outs >= 2 {
		return nil
	}
	work := ctx.runners.Clone()
	if len(ctx.outOnPlay) > 0 {
		removeRunnerByID(work, ctx.outOnPlay[0])
	}
	work, _ = moveRunnersOnGroundBall(work)
	work[BaseFirst] = ctx.batterID
	if ro := getRunnerOptions(work, ctx.outs+1); ro != nil {
		return &PromptNode{Kind: PromptFieldersChoice, Ask: AskRunners, RunnerOptions: ro, ctx: ctx}
	}
	return nil
}

func doublePlayOutsNode(ctx promptContext) *PromptNode {
	opts := append([]string{ctx.batterID}, runnerIDsInBaseOrder(ctx.runners)...)
	return &PromptNode{
		Kind:             PromptDoublePlay,
		Ask:              AskOutOnPlay,
		OutOnPlayOptions: opts,
		NumOutsRequired:  2,
		ctx:              ctx,
	}
}

func doublePlayRunnersNode(ctx promptContext) *PromptNode {
	if ctx.contact != ContactGrounder || ctx.outs != 0 {
		return nil
	}
	work := ctx.runners.Clone()
	batterOut := false
	for _, id := range ctx.outOnPlay {
		if id == ctx.batterID {
			batterOut = true
			continue
		}
		removeRunnerByID(work, id)
	}
	work, _ = moveRunnersOnGroundBall(work)
	if !batterOut {
		work[BaseFirst] = ctx.batterID
	}
	if ro := getRunnerOptions(work, ctx.outs+2); ro != nil {
		return &PromptNode{Kind: PromptDoublePlay, Ask: AskRunners, RunnerOptions: ro, ctx: ctx}
	}
	return nil
}

// fieldersForContact returns the candidate positions for a given
// contact quality. A grounder on a clean hit can reach the outfield;
// a grounder that was fielded for an out stays on the infield.
func fieldersForContact(c ContactQuality, reachesOutfield bool) []FieldingPosition {
	switch c {
	case ContactGrounder:
		if reachesOutfield {
			return allFieldingPositions()
		}
		return filterPositions(infieldOnly, allFieldingPositions())
	case ContactPopup:
		return filterPositions(infieldOnly, allFieldingPositions())
	case ContactFlyBall, ContactLongFly:
		return filterPositions(outfieldOnly, allFieldingPositions())
	case ContactLineDrive:
		var out []FieldingPosition
		for _, p := range allFieldingPositions() {
			if p != PosCatcher {
				out = append(out, p)
			}
		}
		return out
	}
	return nil
}

func allFieldingPositions() []FieldingPosition {
	return []FieldingPosition{
		PosPitcher, PosCatcher, PosFirstBase, PosSecondBase, PosThirdBase,
		PosShortstop, PosMiddleInfield, PosLeftField, PosCenterField,
		PosLeftCenter, PosRightCenter, PosRightField,
	}
}

func infieldOnly(p FieldingPosition) bool  { return p.IsInfield() }
func outfieldOnly(p FieldingPosition) bool { return p.IsOutfield() }

// filterPositions keeps the candidates that pass the predicate,
// preserving order and dropping duplicates.
func filterPositions(keep func(FieldingPosition) bool, candidates []FieldingPosition) []FieldingPosition {
	var out []FieldingPosition
	seen := make(map[FieldingPosition]bool)
	for _, p := range candidates {
		if p == PosBench || seen[p] || !keep(p) {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// intersectPositions keeps the occupied positions that appear in the
// allowed set, preserving the occupied order.
func intersectPositions(allowed, occupied []FieldingPosition) []FieldingPosition {
	ok := make(map[FieldingPosition]bool, len(allowed))
	for _, p := range allowed {
		ok[p] = true
	}
	return filterPositions(func(p FieldingPosition) bool { return ok[p] }, occupied)
}

// runnerIDsInBaseOrder returns the runner ids from first base toward
// third.
func runnerIDsInBaseOrder(runners BaseRunnerMap) []string {
	var out []string
	for b := BaseFirst; b <= BaseThird; b++ {
		if id, ok := runners[b]; ok {
			out = append(out, id)
		}
	}
	return out
}
