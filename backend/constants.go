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

// Schema Versions
const (
	SchemaVersionV1 = 1

	CurrentSchemaVersion = SchemaVersionV1
)

// PlateAppearanceType is one of the 9 outcomes a batter's turn resolves into.
type PlateAppearanceType string

// Plate Appearance Types
const (
	PATypeOut            PlateAppearanceType = "OUT"
	PATypeSingle         PlateAppearanceType = "SINGLE"
	PATypeDouble         PlateAppearanceType = "DOUBLE"
	PATypeTriple         PlateAppearanceType = "TRIPLE"
	PATypeHomerun        PlateAppearanceType = "HOMERUN"
	PATypeWalk           PlateAppearanceType = "WALK"
	PATypeSacrificeFly   PlateAppearanceType = "SACRIFICE_FLY"
	PATypeFieldersChoice PlateAppearanceType = "FIELDERS_CHOICE"
	PATypeDoublePlay     PlateAppearanceType = "DOUBLE_PLAY"
)

// AllPlateAppearanceTypes lists every valid plate appearance type.
var AllPlateAppearanceTypes = []PlateAppearanceType{
	PATypeOut, PATypeSingle, PATypeDouble, PATypeTriple, PATypeHomerun,
	PATypeWalk, PATypeSacrificeFly, PATypeFieldersChoice, PATypeDoublePlay,
}

// ContactQuality describes how the batter put (or failed to put) the ball in play.
type ContactQuality string

// Contact Qualities
const (
	ContactNone      ContactQuality = "NONE"
	ContactGrounder  ContactQuality = "GROUNDER"
	ContactPopup     ContactQuality = "POPUP"
	ContactLineDrive ContactQuality = "LINE_DRIVE"
	ContactFlyBall   ContactQuality = "FLY_BALL"
	ContactLongFly   ContactQuality = "LONG_FLY"
	ContactFoul      ContactQuality = "FOUL"
	ContactDeadBall  ContactQuality = "DEAD_BALL"
)

// liveBallContacts are the contact qualities that put the ball in play.
var liveBallContacts = []ContactQuality{
	ContactGrounder, ContactPopup, ContactLineDrive, ContactFlyBall, ContactLongFly,
}

// homerunContacts are the only contact qualities a homerun can be scored with.
var homerunContacts = []ContactQuality{ContactLineDrive, ContactLongFly}

// IsLiveBall reports whether the contact put the ball in play.
func (c ContactQuality) IsLiveBall() bool {
	switch c {
	case ContactGrounder, ContactPopup, ContactLineDrive, ContactFlyBall, ContactLongFly:
		return true
	}
	return false
}

// FieldingPosition identifies a defensive assignment. The empty string
// means bench (no position).
type FieldingPosition string

// Fielding Positions
const (
	PosBench         FieldingPosition = ""
	PosPitcher       FieldingPosition = "PITCHER"
	PosCatcher       FieldingPosition = "CATCHER"
	PosFirstBase     FieldingPosition = "FIRST_BASE"
	PosSecondBase    FieldingPosition = "SECOND_BASE"
	PosThirdBase     FieldingPosition = "THIRD_BASE"
	PosShortstop     FieldingPosition = "SHORTSTOP"
	PosMiddleInfield FieldingPosition = "MIDDLE_INFIELD"
	PosLeftField     FieldingPosition = "LEFT_FIELD"
	PosCenterField   FieldingPosition = "CENTER_FIELD"
	PosLeftCenter    FieldingPosition = "LEFT_CENTER"
	PosRightCenter   FieldingPosition = "RIGHT_CENTER"
	PosRightField    FieldingPosition = "RIGHT_FIELD"
)

// IsInfield reports whether the position is an infield assignment.
func (p FieldingPosition) IsInfield() bool {
	switch p {
	case PosPitcher, PosCatcher, PosFirstBase, PosSecondBase,
		PosThirdBase, PosShortstop, PosMiddleInfield:
		return true
	}
	return false
}

// IsOutfield reports whether the position is an outfield assignment.
func (p FieldingPosition) IsOutfield() bool {
	switch p {
	case PosLeftField, PosCenterField, PosLeftCenter, PosRightCenter, PosRightField:
		return true
	}
	return false
}

// TeamRole identifies which side of the game a team plays.
type TeamRole string

// Team Roles
const (
	RoleAway TeamRole = "AWAY"
	RoleHome TeamRole = "HOME"
)

// Opposing returns the other role.
func (r TeamRole) Opposing() TeamRole {
	if r == RoleAway {
		return RoleHome
	}
	return RoleAway
}

// HalfInning identifies which team is batting.
type HalfInning string

// Half Innings
const (
	HalfTop    HalfInning = "TOP"
	HalfBottom HalfInning = "BOTTOM"
)

// BattingRole returns the role of the team at bat during this half.
func (h HalfInning) BattingRole() TeamRole {
	if h == HalfTop {
		return RoleAway
	}
	return RoleHome
}

// FieldingRole returns the role of the team in the field during this half.
func (h HalfInning) FieldingRole() TeamRole {
	return h.BattingRole().Opposing()
}

// GameStatus is the lifecycle state of a game.
type GameStatus string

// Game Statuses
const (
	StatusNotStarted GameStatus = "NOT_STARTED"
	StatusInProgress GameStatus = "IN_PROGRESS"
	StatusFinished   GameStatus = "FINISHED"
)

// GameEventType tags the variants of the game event union.
type GameEventType string

// Game Event Types
const (
	EventPlateAppearance GameEventType = "PLATE_APPEARANCE"
	EventStolenBase      GameEventType = "STOLEN_BASE_ATTEMPT"
	EventLineupChange    GameEventType = "LINEUP_CHANGE"
	EventOpponentInning  GameEventType = "SOLO_MODE_OPPONENT_INNING"
	EventAtBatSkip       GameEventType = "AT_BAT_SKIP"
	EventEarlyGameEnd    GameEventType = "EARLY_GAME_END"
)

// Defaults
const (
	DefaultGameLength = 7
	DefaultUndoDepth  = 10
)
