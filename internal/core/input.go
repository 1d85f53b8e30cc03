package core

// Action is a semantic viewer command, abstracted from physical key presses.
type Action int

const (
	ActionNone     Action = iota
	ActionUp              // move the cursor up
	ActionDown            // move the cursor down
	ActionLeft            // move the cursor left
	ActionRight           // move the cursor right
	ActionToggle          // start or pause the real-time scheduler
	ActionStep            // advance exactly one tick while paused
	ActionFaster          // halve the tick period
	ActionSlower          // double the tick period
	ActionReset           // rebuild the simulation from the edited board
	ActionNextTile        // cycle the tile palette
	ActionPlace           // put the palette tile under the cursor
	ActionRotate          // rotate the tile under the cursor
	ActionErase           // remove the tile under the cursor
	ActionGrade           // run the board offline and report the verdict
	ActionSave            // write the board file
	ActionHelp            // toggle full help
	ActionBack            // return to the level picker
	ActionQuit            // exit the session
)

var actionNames = map[Action]string{
	ActionNone:     "None",
	ActionUp:       "Up",
	ActionDown:     "Down",
	ActionLeft:     "Left",
	ActionRight:    "Right",
	ActionToggle:   "Toggle",
	ActionStep:     "Step",
	ActionFaster:   "Faster",
	ActionSlower:   "Slower",
	ActionReset:    "Reset",
	ActionNextTile: "NextTile",
	ActionPlace:    "Place",
	ActionRotate:   "Rotate",
	ActionErase:    "Erase",
	ActionGrade:    "Grade",
	ActionSave:     "Save",
	ActionHelp:     "Help",
	ActionBack:     "Back",
	ActionQuit:     "Quit",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// Move returns the cursor delta for a movement action.
func (a Action) Move() (dx, dy int, ok bool) {
	switch a {
	case ActionUp:
		return 0, -1, true
	case ActionDown:
		return 0, 1, true
	case ActionLeft:
		return -1, 0, true
	case ActionRight:
		return 1, 0, true
	}
	return 0, 0, false
}
