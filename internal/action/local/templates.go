package local

import (
	"matchday/internal/action"
)

type templateKey struct {
	outcome action.Outcome
	useVAR  bool
}

// variant is one canned narration. Roles in scorer/assist/evaluations are
// bare; phrases embed them in braces.
type variant struct {
	phrases     []string
	evaluations map[string]int
	scorer      string
	assist      string
}

var templates = map[templateKey][]variant{
	{action.OutcomeGoal, false}: {
		{
			phrases: []string{
				"{atk_team_name} win the ball back deep in their own half.",
				"{atk_3} carries it forward with long, confident strides.",
				"A clever one-two with {atk_2} opens the midfield wide open.",
				"{def_2} tries to step in but arrives a heartbeat late.",
				"{atk_3} slides it wide to {atk_1}, hugging the touchline.",
				"{atk_1} takes on {def_4} one against one.",
				"A drop of the shoulder and {def_4} is left behind!",
				"The cross comes in low and hard toward the near post.",
				"{def_goalkeeper} hesitates, caught between coming and staying.",
				"{atk_2} dummies it, fooling the entire defense.",
				"The ball runs through to {atk_4} at the penalty spot.",
				"{atk_4} opens the body and strokes it first time.",
				"{def_goalkeeper} stretches at full length.",
				"Nothing to be done, the ball kisses the inside of the post.",
				"GOAL! {atk_4} finishes a move that {atk_team_name} built from nothing.",
				"The assist from {atk_2} was pure deception.",
			},
			evaluations: map[string]int{
				"atk_4": 3, "atk_2": 2, "atk_1": 1, "def_4": -2, "def_goalkeeper": -1,
			},
			scorer: "atk_4",
			assist: "atk_2",
		},
		{
			phrases: []string{
				"Patient build-up now from {atk_team_name}.",
				"{atk_goalkeeper} launches it long toward the halfway line.",
				"{atk_2} rises highest and flicks it on.",
				"{def_1} misjudges the bounce completely.",
				"{atk_1} pounces on the loose ball.",
				"Space opens up and {atk_1} drives at the back line.",
				"{def_3} backs off, wary of the run in behind.",
				"{atk_1} lets fly from twenty-five meters!",
				"A thunderbolt, dipping late.",
				"{def_goalkeeper} gets fingertips to it.",
				"Not enough! The net ripples!",
				"GOAL for {atk_team_name}!",
				"{atk_1} wheels away toward the corner flag.",
				"The whole bench empties in celebration.",
				"{referee} signals the restart as {stadium} erupts.",
			},
			evaluations: map[string]int{
				"atk_1": 3, "atk_2": 1, "def_1": -2, "def_goalkeeper": 1,
			},
			scorer: "atk_1",
			assist: "atk_2",
		},
	},
	{action.OutcomeGoal, true}: {
		{
			phrases: []string{
				"{atk_team_name} push bodies forward in numbers.",
				"{atk_3} finds a seam between the lines.",
				"The through ball for {atk_2} is inch-perfect.",
				"{def_2} appeals for offside with an arm in the air.",
				"{atk_2} stays cool and rounds {def_goalkeeper}.",
				"Rolled into the empty net!",
				"But wait, the flag is up on the far side.",
				"{referee} holds play and walks to the monitor.",
				"The VAR check is on, {stadium} holds its breath.",
				"Replays show {atk_2} level with {def_2} when the ball was played.",
				"{referee} points to the center circle!",
				"THE GOAL IS CONFIRMED!",
				"{atk_2} finally gets to enjoy the moment.",
				"{atk_3} is mobbed for the pass that made it.",
				"A huge call, and it goes the way of {atk_team_name}.",
			},
			evaluations: map[string]int{
				"atk_2": 3, "atk_3": 2, "def_2": -1,
			},
			scorer: "atk_2",
			assist: "atk_3",
		},
	},
	{action.OutcomeNoGoal, false}: {
		{
			phrases: []string{
				"{atk_team_name} probe down the right side.",
				"{atk_1} and {atk_4} exchange short passes, looking for a gap.",
				"{def_3} stands firm, showing {atk_1} toward the corner.",
				"The cross is floated toward the penalty spot.",
				"{atk_2} climbs above {def_1}!",
				"The header is powerful, directed at the top corner.",
				"{def_goalkeeper} flies to the upper left!",
				"What a save, pushed over the bar with one glove!",
				"{atk_2} can't believe it, hands on head.",
				"The corner comes in, punched clear by {def_goalkeeper}.",
				"{def_4} hacks the loose ball into the stands.",
				"The danger passes for {def_team_name}.",
				"{def_goalkeeper} barks at the back four to reset.",
				"Goal kick, and {def_team_name} breathe again.",
				"Possession moves to the defending side.",
			},
			evaluations: map[string]int{
				"def_goalkeeper": 3, "atk_2": 1, "def_1": -1, "def_4": 1,
			},
		},
		{
			phrases: []string{
				"A loose touch in midfield from {def_2} gifts the ball away.",
				"{atk_3} seizes it and surges forward.",
				"{atk_team_name} suddenly have a three-on-two.",
				"{atk_3} waits, weighing the options.",
				"The pass to {atk_1} is a fraction heavy.",
				"{atk_1} stretches and keeps it in play.",
				"The pull-back finds {atk_4} arriving late.",
				"First-time strike from the edge of the box!",
				"It clips {def_3} and balloons up into the air.",
				"{def_goalkeeper} watches it carefully onto the roof of the net.",
				"So close for {atk_team_name}.",
				"{atk_4} asks for the deflection, {referee} says corner first.",
				"No, the assistant signals goal kick instead.",
				"{def_goalkeeper} takes an age over the restart.",
				"{def_team_name} work it safely back into possession.",
			},
			evaluations: map[string]int{
				"atk_3": 2, "atk_4": 1, "def_2": -2, "def_3": 1,
			},
		},
	},
	{action.OutcomeNoGoal, true}: {
		{
			phrases: []string{
				"Corner swung in by {atk_1}.",
				"Chaos in the six-yard box!",
				"{atk_2} stabs it goalward through a forest of legs.",
				"The net bulges and {atk_team_name} celebrate wildly!",
				"But {referee} has a finger to the earpiece.",
				"The VAR is checking a handball in the build-up.",
				"Replays roll on the big screen at {stadium}.",
				"The ball brushed the arm of {atk_2} before the finish.",
				"{referee} jogs to the monitor for a second look.",
				"The whistle goes, arm sweeping away the goal.",
				"NO GOAL, says the review.",
				"{atk_2} protests but the call is made.",
				"{def_goalkeeper} places the free kick carefully.",
				"{def_team_name} restart with possession.",
			},
			evaluations: map[string]int{
				"atk_2": -1, "atk_1": 1, "def_goalkeeper": 0,
			},
		},
	},
	{action.OutcomeOwnGoal, false}: {
		{
			phrases: []string{
				"{atk_team_name} press high, hunting in pairs.",
				"{atk_4} closes down {def_1}, who looks for the safe pass.",
				"The back pass toward {def_goalkeeper} is badly underhit!",
				"{atk_4} sprints after it!",
				"{def_goalkeeper} rushes out to clear.",
				"{def_2} arrives at the same instant, screaming to leave it.",
				"The two collide at the edge of the box!",
				"The ball squirms off the shin of {def_2}...",
				"...and trickles, agonizingly, over the line.",
				"OWN GOAL! Disaster for {def_team_name}!",
				"{def_2} lies on the turf, inconsolable.",
				"{atk_4} claims it, but the scoreboard knows the truth.",
				"A gift for {atk_team_name}, made entirely of pressure.",
				"{referee} confirms the goal stands.",
			},
			evaluations: map[string]int{
				"def_2": -3, "def_1": -2, "def_goalkeeper": -1, "atk_4": 2,
			},
			scorer: "def_2",
		},
	},
	{action.OutcomeOwnGoal, true}: {
		{
			phrases: []string{
				"Free kick for {atk_team_name}, thirty meters out.",
				"{atk_3} hangs it toward the far post.",
				"{def_4} and {atk_2} rise together.",
				"The ball glances off a head and loops over {def_goalkeeper}!",
				"It drops inside the post, {atk_team_name} celebrate!",
				"Whose touch was it? {referee} awaits the VAR.",
				"The review is checking the last touch and a possible push.",
				"{stadium} murmurs through the long wait.",
				"Replays show the final touch came off {def_4}.",
				"No push by {atk_2}, says the review.",
				"The goal is given as an own goal by {def_4}.",
				"{def_4} stares at the ground, furious with fortune.",
				"{atk_3} taps the plate for a delivery that caused havoc.",
				"Play restarts from the center circle.",
			},
			evaluations: map[string]int{
				"def_4": -3, "atk_3": 2, "atk_2": 1,
			},
			scorer: "def_4",
		},
	},
	{action.OutcomePenalty, false}: {
		{
			phrases: []string{
				"{atk_2} threads a pass into the box for {atk_1}.",
				"{atk_1} takes the first touch away from {def_3}.",
				"{def_3} lunges in desperately!",
				"Contact! {atk_1} goes down!",
				"{referee} is perfectly placed and points to the spot at once.",
				"PENALTY for {atk_team_name}!",
				"{def_3} cannot believe it, arms spread wide.",
				"{def_goalkeeper} marches out to protest and earns a talking-to.",
				"{def_team_name} surround {referee}, but the call stands.",
				"The foul was clumsy, the decision simple.",
				"{atk_1} dusts off, shaken but unhurt.",
				"The box clears slowly, the wait begins.",
				"{stadium} whistles and roars in equal measure.",
				"A penalty it is. Who will step up?",
			},
			evaluations: map[string]int{
				"atk_1": 2, "atk_2": 1, "def_3": -3,
			},
		},
	},
	{action.OutcomePenalty, true}: {
		{
			phrases: []string{
				"{atk_4} jinks into the area between two defenders.",
				"{def_1} slides, the crowd screams, play rolls on.",
				"{atk_4} stays up and the chance fizzles out.",
				"But {referee} pauses, hand to the earpiece.",
				"The VAR wants a look at that challenge by {def_1}.",
				"{referee} trots to the monitor at {stadium}.",
				"The replay shows the boot of {def_1} catching an ankle.",
				"The whistle comes, the arm points to the spot!",
				"PENALTY to {atk_team_name}, awarded by the review!",
				"{def_1} shakes the head in disbelief.",
				"{def_goalkeeper} starts the mind games early, slapping the crossbar.",
				"The decision is harsh, say the faces of {def_team_name}.",
				"The technology has spoken.",
				"A penalty is coming.",
			},
			evaluations: map[string]int{
				"atk_4": 1, "def_1": -2,
			},
		},
	},
}
