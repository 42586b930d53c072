package game

// Action identifies one of the agent's decision types.
type Action string

const (
	ActionVote   Action = "vote"   // day vote to eliminate
	ActionKill   Action = "kill"   // wolf night kill
	ActionSave   Action = "save"   // witch antidote
	ActionPoison Action = "poison" // witch poison
	ActionShoot  Action = "shoot"  // hunter / wolf king retaliation
	ActionGuard  Action = "guard"  // guard night protection
	ActionCheck  Action = "check"  // seer alignment check
)

// Hostile reports whether the action harms its target. Hostile actions
// filter out allies; protective and informational ones do not.
func (a Action) Hostile() bool {
	switch a {
	case ActionVote, ActionKill, ActionPoison, ActionShoot:
		return true
	default:
		return false
	}
}

// Consumes returns which one-shot resource the action spends, if any.
func (a Action) Consumes(r *Resources) *bool {
	switch a {
	case ActionSave:
		return &r.Antidote
	case ActionPoison:
		return &r.Poison
	case ActionShoot:
		return &r.Shot
	default:
		return nil
	}
}
