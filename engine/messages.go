package engine

// Player-facing message strings.
const (
	// MsgUnknownInput is the reply for input the parser rejects.
	MsgUnknownInput = "I don't know what you mean."
	// MsgNoSuchCommand is the reply for a parsed command no room
	// attribute handles.
	MsgNoSuchCommand = "I couldn't understand you."

	MsgDied      = "You have died! You can 'reset' to return to the start, or 'reset all' to begin again fresh."
	MsgWon       = "You've won the game! You can 'reset all' to play again."
	MsgStillDead = "You're still dead. You can 'reset' to return to the start, or 'reset all' to begin again."
	MsgStillWon  = "You've already won. 'reset all' starts a new game."

	MsgReset    = "Your position has been reset."
	MsgResetAll = "Your position and items have been reset."

	MsgNoExits      = "There are no exits here."
	msgExitsPrefix  = "Available exits: "
	msgExitsJoinSep = ", "
)
