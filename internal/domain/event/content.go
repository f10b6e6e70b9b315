package event

import "shopeelife/internal/domain/office"

var DefaultCatalog = Catalog{
	{
		Key:         "manager-drop-by",
		Title:       "Your manager drops by",
		Description: "Your manager leans over the partition: \"Got a minute?\"",
		Choices: []Choice{
			{Label: "Walk them through your progress", Effect: office.Deltas{office.StatProductivity: 5, office.StatBurnout: 3, office.StatExperience: 10}, ResultText: "They nod approvingly. Visibility matters."},
			{Label: "Pretend to be on a call", Effect: office.Deltas{office.StatBurnout: -2, office.StatProductivity: -3}, ResultText: "They wander off. You feel a little guilty."},
		},
	},
	{
		Key:         "free-pizza",
		Title:       "Free pizza in the pantry",
		Description: "Someone's team hit their target and ordered way too much pizza.",
		Choices: []Choice{
			{Label: "Grab a slice", Effect: office.Deltas{office.StatEnergy: 10, office.StatBurnout: -3}, ResultText: "Still warm. Best thing that happened all week."},
			{Label: "Stay focused", Effect: office.Deltas{office.StatProductivity: 4}, ResultText: "Your inbox is a little lighter. Your stomach growls."},
		},
	},
	{
		Key:         "printer-jam",
		Title:       "The printer jams",
		Description: "The printer by your desk starts blinking red and beeping.",
		Choices: []Choice{
			{Label: "Fix it yourself", Effect: office.Deltas{office.StatEnergy: -8, office.StatExperience: 15}, ResultText: "Paper tray three. Of course it was paper tray three."},
			{Label: "File an IT ticket", Effect: office.Deltas{office.StatBurnout: 2}, ResultText: "Ticket #48213 created. Estimated response: 3 business days."},
		},
	},
	{
		Key:         "birthday-collection",
		Title:       "Birthday collection",
		Description: "A colleague is collecting for a teammate's birthday cake.",
		Choices: []Choice{
			{Label: "Chip in 10 coins", Effect: office.Deltas{office.StatCurrency: -10, office.StatBurnout: -5, office.StatExperience: 5}, ResultText: "You sign the card. The cake later is delicious."},
			{Label: "Politely decline", Effect: office.Deltas{office.StatBurnout: 2}, ResultText: "An awkward silence. The cake later is still delicious."},
		},
	},
	{
		Key:         "server-outage",
		Title:       "Checkout service outage",
		Description: "Alerts are firing and the war room channel is exploding.",
		Choices: []Choice{
			{Label: "Jump into the war room", Effect: office.Deltas{office.StatEnergy: -15, office.StatBurnout: 8, office.StatExperience: 30}, ResultText: "Root cause found in 40 minutes. You're on the postmortem."},
			{Label: "Keep working on your task", Effect: office.Deltas{office.StatProductivity: 3}, ResultText: "Someone else fixes it. Nobody notices either way."},
		},
	},
	{
		Key:         "fire-drill",
		Title:       "Fire drill",
		Description: "The alarm goes off. Everyone is shuffling toward the stairs.",
		Choices: []Choice{
			{Label: "Take the stairs with everyone", Effect: office.Deltas{office.StatEnergy: -10, office.StatBurnout: -4}, ResultText: "Fifteen floors down. You chat with people you've never met."},
			{Label: "Hide in the meeting room", Effect: office.Deltas{office.StatProductivity: 2, office.StatBurnout: 3}, ResultText: "Facilities finds you. There will be an email."},
		},
	},
}

var Thoughts = []string{
	"Did I reply to that email from yesterday?",
	"Is it too early to think about lunch?",
	"I should really update my OKRs.",
	"Who keeps leaving their mug in the sink?",
	"Maybe I'll hit the gym after work. Maybe.",
	"That campaign launch is coming up fast.",
	"I wonder if the rooftop is nice today.",
	"Note to self: drink more water.",
}

type Reply struct {
	From string `json:"from"`
	Text string `json:"text"`
}

var Replies = []Reply{
	{From: "Wei Ling", Text: "haha same"},
	{From: "Arif", Text: "noted, will check after my meeting"},
	{From: "Priya", Text: "can we take this offline?"},
	{From: "Jun", Text: "👍"},
	{From: "Mei", Text: "lunch later? cafeteria has nasi lemak today"},
	{From: "Daniel", Text: "let me loop in the PM"},
}
