package dialogue

import "github.com/Miltondz/one-page-rpg-sub001/pkg/memory"

// Template placeholders.
const (
	placeholderName    = "{name}"
	placeholderContext = "{context}"

	defaultSceneContext = "these parts"
)

// traitTemplates are keyed by primary personality trait.
var traitTemplates = map[string][]string{
	"friendly": {
		"Well met, traveler. I'm {name}. What brings you to {context}?",
		"Come in, come in. {name} never turns away a friendly face.",
		"You look like you've had a long road. Rest a while.",
		"It's a fine day in {context}, isn't it?",
		"If you need anything, just ask. I'm always glad to help.",
		"Good to have new faces around {context}. Make yourself at home.",
	},
	"grumpy": {
		"What do you want?",
		"Make it quick. I've got work to do.",
		"Another stranger in {context}. Wonderful.",
		"I'm {name}, and no, I'm not interested.",
		"Don't touch anything!",
		"Hmph. Say your piece and be gone.",
	},
	"mysterious": {
		"I knew you would come...",
		"Not everything in {context} is what it seems...",
		"*whispers* They're watching. Speak softly.",
		"Names have power. You may call me {name}, for now.",
		"Some questions are better left unasked...",
		"The shadows have been restless lately. Have you noticed?",
	},
	"greedy": {
		"Coin first, conversation later.",
		"Everything in {context} has a price. Even information.",
		"{name} deals fairly. Mostly.",
		"You have the look of someone with deep pockets.",
		"A fine purse you have there. Shall we talk business?",
		"Nothing is free, friend. Not even my time.",
	},
	"cowardly": {
		"P-please, I don't want any trouble...",
		"You're not here to hurt me, are you?",
		"Keep your voice down, please. They might hear us.",
		"I'm just {name}. Nobody important. Really.",
		"Have mercy, I've done nothing wrong.",
		"Is it safe? Did anyone follow you?",
	},
	"brave": {
		"Stand tall, stranger. {context} needs steady hands.",
		"I'm {name}. If there's trouble, I'll face it.",
		"Fear is a choice. I choose otherwise.",
		"You carry yourself like a fighter. Good.",
		"Whatever stalks {context}, we can meet it together.",
		"I've seen worse than this and walked away.",
	},
	"wise": {
		"Patience, traveler. All things reveal themselves in time.",
		"I am {name}. I have watched {context} for many years.",
		"The answer you seek may not be the one you need.",
		"Sit. Listen. The world speaks to those who do.",
		"Every road leads somewhere. The question is whether you want to arrive.",
		"Knowledge is a lantern. Carry it carefully.",
	},
	"cheerful": {
		"*laughs* Oh, a visitor. How lovely.",
		"Hello there. Isn't {context} wonderful today?",
		"I'm {name}. Everyone says I smile too much. Haha, maybe they're right.",
		"What a treat, a new face.",
		"Come, tell me a story. I love stories.",
		"Cheer up, friend. Nothing's ever as bad as it looks.",
	},
}

// traitAliases map common synonyms onto a template pool.
var traitAliases = map[string]string{
	"kind":         "friendly",
	"warm":         "friendly",
	"welcoming":    "friendly",
	"gruff":        "grumpy",
	"rude":         "grumpy",
	"surly":        "grumpy",
	"secretive":    "mysterious",
	"enigmatic":    "mysterious",
	"cryptic":      "mysterious",
	"shrewd":       "greedy",
	"mercenary":    "greedy",
	"timid":        "cowardly",
	"nervous":      "cowardly",
	"fearful":      "cowardly",
	"courageous":   "brave",
	"bold":         "brave",
	"honorable":    "brave",
	"sage":         "wise",
	"scholarly":    "wise",
	"thoughtful":   "wise",
	"jolly":        "cheerful",
	"happy":        "cheerful",
	"lighthearted": "cheerful",
}

// moodTemplates override the trait pool when the NPC feels strongly.
var moodTemplates = map[memory.Mood][]string{
	memory.MoodDevoted: {
		"My friend. You are always welcome with {name}.",
		"I've been hoping you'd come back to {context}.",
		"For you, anything. Just name it.",
		"After everything you've done, my door is always open.",
		"There you are. I was starting to worry.",
		"I'd trust you with my life. I already have.",
	},
	memory.MoodSuspicious: {
		"I remember you. Don't think I've forgotten.",
		"What are you really doing in {context}?",
		"I'm keeping an eye on you, stranger.",
		"Say what you came to say. Then leave.",
		"Funny how trouble follows you around.",
		"{name} doesn't trust easily. You haven't helped.",
	},
}

var defaultTemplates = []string{
	"Greetings. I'm {name}.",
	"Can I help you with something?",
	"Not many travelers pass through {context}.",
	"Hello. What brings you here?",
	"Yes? What is it?",
	"Safe travels, whatever your business.",
}

// templatePool picks the pool for an NPC. Strong moods win over personality;
// unknown traits use the default pool.
func templatePool(trait string, mood memory.Mood) []string {
	if pool, ok := moodTemplates[mood]; ok {
		return pool
	}
	if alias, ok := traitAliases[trait]; ok {
		trait = alias
	}
	if pool, ok := traitTemplates[trait]; ok {
		return pool
	}
	return defaultTemplates
}
